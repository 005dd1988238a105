package pipeline

import "time"

// OnError is a step failure policy.
type OnError string

const (
	// OnErrorHalt stops subsequent on_success steps when the step fails.
	OnErrorHalt OnError = "halt"
	// OnErrorContinue records the failure but does not gate later steps.
	OnErrorContinue OnError = "continue"
)

// RunCondition determines whether a step executes given prior failures.
type RunCondition string

const (
	// RunOnSuccess executes only while no halting step has failed.
	RunOnSuccess RunCondition = "on_success"
	// RunAlways executes unconditionally, even after a halting failure.
	RunAlways RunCondition = "always"
)

// Step is one unit of work with exactly one failure policy and one run
// condition. A step is either a shell step (Commands) or a built-in action
// (Action plus With parameters), never both.
type Step struct {
	Name      string            `json:"name"`
	Commands  []string          `json:"commands,omitempty"`
	Action    string            `json:"action,omitempty"`
	With      map[string]string `json:"with,omitempty"`
	Env       map[string]string `json:"env,omitempty"`
	OnError   OnError           `json:"on_error"`
	Condition RunCondition      `json:"run_condition"`
}

// IsShell reports whether the step runs shell commands rather than an action.
func (s Step) IsShell() bool {
	return len(s.Commands) > 0
}

// Triggers mirror the push/pull_request conditions of the source workflow.
// Branch entries are glob patterns.
type Triggers struct {
	PushBranches        []string `json:"push_branches,omitempty"`
	PullRequestBranches []string `json:"pull_request_branches,omitempty"`
}

// Pipeline is an ordered sequence of steps, immutable once loaded.
type Pipeline struct {
	Path     string        `json:"path,omitempty"`
	Name     string        `json:"name"`
	Triggers Triggers      `json:"triggers"`
	Timeout  time.Duration `json:"-"`
	Steps    []Step        `json:"steps"`
}
