package pipeline

import "path"

// Event names accepted by Matches.
const (
	EventPush        = "push"
	EventPullRequest = "pull_request"
)

// Matches reports whether the pipeline's trigger conditions accept the given
// event and branch. Branch patterns use glob syntax ("feature/*"). A pipeline
// with no patterns for the event does not match it.
func (t Triggers) Matches(event, branch string) bool {
	var patterns []string
	switch event {
	case EventPush:
		patterns = t.PushBranches
	case EventPullRequest:
		patterns = t.PullRequestBranches
	default:
		return false
	}
	for _, pattern := range patterns {
		if ok, err := path.Match(pattern, branch); err == nil && ok {
			return true
		}
	}
	return false
}
