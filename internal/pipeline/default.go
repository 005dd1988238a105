package pipeline

import "time"

// Default returns the built-in browser-test pipeline used when no manifest is
// supplied. It mirrors the hosted workflow this tool replaces: provision
// dependencies and browsers, prepare output directories, load the local env
// file, sanity-check the runtime, run the test suite without failing the
// pipeline, then collect artifacts unconditionally.
func Default() Pipeline {
	return Pipeline{
		Name: "browser-tests",
		Triggers: Triggers{
			PushBranches:        []string{"main", "feature/*"},
			PullRequestBranches: []string{"main"},
		},
		Timeout: 30 * time.Minute,
		Steps: []Step{
			{
				Name:      "Install dependencies",
				Action:    "install-deps",
				With:      map[string]string{"requirements": "requirements.txt"},
				OnError:   OnErrorHalt,
				Condition: RunOnSuccess,
			},
			{
				Name:      "Install browsers",
				Action:    "install-browsers",
				OnError:   OnErrorHalt,
				Condition: RunOnSuccess,
			},
			{
				Name:      "Prepare workspace",
				Action:    "prepare-workspace",
				OnError:   OnErrorHalt,
				Condition: RunOnSuccess,
			},
			{
				Name:      "Load environment",
				Action:    "load-env",
				With:      map[string]string{"path": ".env"},
				OnError:   OnErrorHalt,
				Condition: RunOnSuccess,
			},
			{
				Name:      "Verify installation",
				Action:    "verify",
				With:      map[string]string{"modules": "playwright,requests"},
				OnError:   OnErrorContinue,
				Condition: RunOnSuccess,
			},
			{
				Name:      "Run tests",
				Action:    "run-tests",
				With:      map[string]string{"entry": "runner.py"},
				OnError:   OnErrorContinue,
				Condition: RunOnSuccess,
			},
			{
				Name:      "Upload artifacts",
				Action:    "upload-artifacts",
				OnError:   OnErrorContinue,
				Condition: RunAlways,
			},
		},
	}
}
