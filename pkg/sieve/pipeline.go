package sieve

import "context"

// Transform is a mutation or annotation applied to a Batch.
type Transform interface {
	Name() string
	Apply(ctx context.Context, b *Batch) (*Batch, error)
}

// Pipeline composes a sequence of Transforms.
type Pipeline struct {
	steps []Transform
}

func NewPipeline() *Pipeline { return &Pipeline{} }

func (p *Pipeline) Add(t Transform) *Pipeline {
	p.steps = append(p.steps, t)
	return p
}

func (p *Pipeline) Run(ctx context.Context, b *Batch) (*Batch, error) {
	var err error
	cur := b
	for _, t := range p.steps {
		cur, err = t.Apply(ctx, cur)
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}
