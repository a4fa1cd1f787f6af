package pipeline

import (
	"fmt"

	"resty.dev/v3"

	"github.com/vk/stepflow/internal/engine"
	"github.com/vk/stepflow/internal/resource"
)

// Builder assembles an executable step tree from a loaded Config. It owns
// the shared HTTP client handed to remote resources and keeps one Value
// resource per name, so a value produced by one step is the same object a
// later step consumes.
type Builder struct {
	client *resty.Client
	kinds  map[string]WorkFactory
	values map[string]*resource.Value
}

// NewBuilder creates a builder with the core work kinds registered.
func NewBuilder(client *resty.Client) *Builder {
	b := &Builder{
		client: client,
		kinds:  make(map[string]WorkFactory),
		values: make(map[string]*resource.Value),
	}
	b.RegisterWorkKind("exec", newExecWork)
	b.RegisterWorkKind("download", newDownloadWork)
	return b
}

// RegisterWorkKind installs a factory for a run-block kind, replacing any
// previous registration of the same kind.
func (b *Builder) RegisterWorkKind(kind string, factory WorkFactory) {
	b.kinds[kind] = factory
}

// Build turns the config into a single root step. Top-level steps and
// groups are wrapped in a sequential group named after the pipeline.
func (b *Builder) Build(cfg *Config) (engine.Step, error) {
	name := "pipeline"
	defaultConcurrency := 0
	if cfg.Pipeline != nil {
		name = cfg.Pipeline.Name
		defaultConcurrency = cfg.Pipeline.Concurrency
	}

	root := engine.NewSequential(name)
	if err := b.populate(root, cfg.Steps, cfg.Groups, defaultConcurrency); err != nil {
		return nil, err
	}
	return root, nil
}

// populate adds the block children to parent: step blocks first, then
// group blocks, each in file order.
func (b *Builder) populate(parent *engine.Group, steps []*StepBlock, groups []*GroupBlock, concurrency int) error {
	for _, sb := range steps {
		step, err := b.buildStep(sb)
		if err != nil {
			return err
		}
		parent.Add(step, nil)
	}
	for _, gb := range groups {
		group, err := b.buildGroup(gb, concurrency)
		if err != nil {
			return err
		}
		parent.Add(group, nil)
	}
	return nil
}

func (b *Builder) buildGroup(gb *GroupBlock, defaultConcurrency int) (*engine.Group, error) {
	concurrency := gb.Concurrency
	if concurrency == 0 {
		concurrency = defaultConcurrency
	}

	var g *engine.Group
	if gb.Mode == "parallel" {
		g = engine.NewParallel(gb.Name, concurrency)
	} else {
		g = engine.NewSequential(gb.Name)
	}
	if err := b.populate(g, gb.Steps, gb.Groups, concurrency); err != nil {
		return nil, err
	}
	return g, nil
}

func (b *Builder) buildStep(sb *StepBlock) (*engine.Conversion, error) {
	inputs, err := b.buildResources(sb, sb.Inputs)
	if err != nil {
		return nil, err
	}
	outputs, err := b.buildResources(sb, sb.Outputs)
	if err != nil {
		return nil, err
	}

	factory, ok := b.kinds[sb.Run.Kind]
	if !ok {
		return nil, fmt.Errorf("step %q: unknown work kind %q", sb.Name, sb.Run.Kind)
	}

	step := engine.NewConversion(sb.Name, inputs, outputs, nil)
	step.SetHidden(sb.Hidden)

	work, err := factory(b, &WorkSpec{
		Step:    step,
		Block:   sb,
		Outputs: outputs,
	})
	if err != nil {
		return nil, fmt.Errorf("step %q: %w", sb.Name, err)
	}
	step.SetWork(work)
	return step, nil
}

func (b *Builder) buildResources(sb *StepBlock, blocks []*ResourceBlock) ([]resource.Resource, error) {
	var out []resource.Resource
	for _, rb := range blocks {
		switch rb.Kind {
		case "file":
			out = append(out, resource.NewFile(rb.Name, rb.Path, rb.Required))
		case "dir":
			out = append(out, resource.NewDir(rb.Name, rb.Path, rb.Required))
		case "http":
			out = append(out, resource.NewHTTP(rb.Name, rb.URL, rb.Required, b.client))
		case "value":
			out = append(out, b.value(rb.Name))
		default:
			return nil, fmt.Errorf("step %q: unknown resource kind %q", sb.Name, rb.Kind)
		}
	}
	return out, nil
}

// value returns the shared Value resource for name, creating it on first
// use. Value inputs are never required: absence means "not yet produced"
// within the same run.
func (b *Builder) value(name string) *resource.Value {
	if v, ok := b.values[name]; ok {
		return v
	}
	v := resource.NewValue(name, false)
	b.values[name] = v
	return v
}
