package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads a pipeline manifest from disk.
func Load(path string) (Pipeline, error) {
	f, err := os.Open(path)
	if err != nil {
		return Pipeline{}, fmt.Errorf("open pipeline %q: %w", path, err)
	}
	defer f.Close()

	p, err := Decode(f)
	if err != nil {
		return Pipeline{}, fmt.Errorf("parse pipeline %q: %w", path, err)
	}
	p.Path = path
	if p.Name == "" {
		p.Name = filepath.Base(path)
	}
	return p, nil
}

// Decode parses a pipeline manifest from r and validates step policies.
func Decode(r io.Reader) (Pipeline, error) {
	var doc pipelineDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return Pipeline{}, err
	}

	p := Pipeline{
		Name: doc.Name,
		Triggers: Triggers{
			PushBranches:        append([]string{}, doc.On.Push.Branches...),
			PullRequestBranches: append([]string{}, doc.On.PullRequest.Branches...),
		},
	}

	if doc.Timeout != "" {
		d, err := time.ParseDuration(doc.Timeout)
		if err != nil {
			return Pipeline{}, fmt.Errorf("parse timeout %q: %w", doc.Timeout, err)
		}
		if d <= 0 {
			return Pipeline{}, fmt.Errorf("timeout %q must be positive", doc.Timeout)
		}
		p.Timeout = d
	}

	if len(doc.Steps) == 0 {
		return Pipeline{}, fmt.Errorf("pipeline has no steps")
	}

	p.Steps = make([]Step, 0, len(doc.Steps))
	for idx, stepDoc := range doc.Steps {
		step, err := convertStep(stepDoc, idx)
		if err != nil {
			return Pipeline{}, err
		}
		p.Steps = append(p.Steps, step)
	}

	return p, nil
}

func convertStep(doc stepDocument, idx int) (Step, error) {
	step := Step{
		Name:      doc.Name,
		Action:    doc.Action,
		With:      convertWith(doc.With),
		Env:       convertWith(doc.Env),
		OnError:   OnErrorHalt,
		Condition: RunOnSuccess,
	}
	if step.Name == "" {
		step.Name = fmt.Sprintf("step %d", idx+1)
	}

	if doc.Run != "" {
		step.Commands = append(step.Commands, doc.Run)
	}
	step.Commands = append(step.Commands, doc.Commands...)

	if len(step.Commands) > 0 && step.Action != "" {
		return Step{}, fmt.Errorf("step %q: run and action are mutually exclusive", step.Name)
	}
	if len(step.Commands) == 0 && step.Action == "" {
		return Step{}, fmt.Errorf("step %q: one of run or action is required", step.Name)
	}
	if len(step.Commands) > 0 && len(step.With) > 0 {
		return Step{}, fmt.Errorf("step %q: with is only valid on action steps", step.Name)
	}

	switch doc.OnError {
	case "", string(OnErrorHalt):
	case string(OnErrorContinue):
		step.OnError = OnErrorContinue
	default:
		return Step{}, fmt.Errorf("step %q: unsupported on_error %q", step.Name, doc.OnError)
	}

	switch doc.If {
	case "", string(RunOnSuccess):
	case string(RunAlways), "always()":
		step.Condition = RunAlways
	default:
		return Step{}, fmt.Errorf("step %q: unsupported if condition %q", step.Name, doc.If)
	}

	return step, nil
}

type pipelineDocument struct {
	Name    string         `yaml:"name"`
	On      onDocument     `yaml:"on"`
	Timeout string         `yaml:"timeout"`
	Steps   []stepDocument `yaml:"steps"`
}

type onDocument struct {
	Push        branchesDocument `yaml:"push"`
	PullRequest branchesDocument `yaml:"pull_request"`
}

type branchesDocument struct {
	Branches []string `yaml:"branches"`
}

type stepDocument struct {
	Name     string                 `yaml:"name"`
	Run      string                 `yaml:"run"`
	Commands []string               `yaml:"commands"`
	Action   string                 `yaml:"action"`
	With     map[string]interface{} `yaml:"with"`
	Env      map[string]interface{} `yaml:"env"`
	OnError  string                 `yaml:"on_error"`
	If       string                 `yaml:"if"`
}

func convertWith(input map[string]interface{}) map[string]string {
	if len(input) == 0 {
		return nil
	}
	out := make(map[string]string, len(input))
	for k, v := range input {
		out[k] = fmt.Sprint(v)
	}
	return out
}
