package pipeline

import "github.com/hashicorp/hcl/v2"

// PipelineBlock carries run-wide settings from the `pipeline` block.
type PipelineBlock struct {
	Name        string `hcl:"name,label"`
	Concurrency int    `hcl:"concurrency,optional"`
}

// ResourceBlock declares one input or output resource of a step. The label
// pair selects the resource kind (file, dir, http, value) and its display
// name.
type ResourceBlock struct {
	Kind     string `hcl:"kind,label"`
	Name     string `hcl:"name,label"`
	Path     string `hcl:"path,optional"`
	URL      string `hcl:"url,optional"`
	Required bool   `hcl:"required,optional"`
}

// RunBlock selects the work kind executed when the step is stale. The body
// is decoded by the registered work factory for that kind.
type RunBlock struct {
	Kind string   `hcl:"kind,label"`
	Body hcl.Body `hcl:",remain"`
}

// StepBlock is one leaf conversion step.
type StepBlock struct {
	Name    string           `hcl:"name,label"`
	Hidden  bool             `hcl:"hidden,optional"`
	Inputs  []*ResourceBlock `hcl:"input,block"`
	Outputs []*ResourceBlock `hcl:"output,block"`
	Run     *RunBlock        `hcl:"run,block"`
}

// GroupBlock is a composite step. Mode selects sequential (default) or
// parallel execution of its children. Nested step blocks come before
// nested group blocks in execution order.
type GroupBlock struct {
	Name        string        `hcl:"name,label"`
	Mode        string        `hcl:"mode,optional"`
	Concurrency int           `hcl:"concurrency,optional"`
	Steps       []*StepBlock  `hcl:"step,block"`
	Groups      []*GroupBlock `hcl:"group,block"`
}

// fileRoot decodes all top-level blocks of one pipeline file.
type fileRoot struct {
	Pipeline *PipelineBlock `hcl:"pipeline,block"`
	Steps    []*StepBlock   `hcl:"step,block"`
	Groups   []*GroupBlock  `hcl:"group,block"`
	Remain   hcl.Body       `hcl:",remain"`
}

// Config is the merged, decoded content of every loaded pipeline file.
type Config struct {
	Pipeline *PipelineBlock
	Steps    []*StepBlock
	Groups   []*GroupBlock
}
