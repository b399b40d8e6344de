// Package golearn adapts cleaned batches into golearn DenseInstances so
// downstream modeling can consume the pipeline's output directly.
package golearn

import (
	"github.com/sjwhitworth/golearn/base"

	"github.com/sievedata/sieve/pkg/sieve"
)

// ToDenseInstances converts a batch into golearn DenseInstances. Every
// canonical field becomes a categorical attribute; gender, the last
// column, is registered as the class attribute.
func ToDenseInstances(b *sieve.Batch) (*base.DenseInstances, error) {
	attrs := make([]base.Attribute, len(sieve.Fields))
	for i, name := range sieve.Fields {
		ca := new(base.CategoricalAttribute)
		ca.SetName(name)
		attrs[i] = ca
	}
	inst := base.NewDenseInstances()
	specs := make([]base.AttributeSpec, len(attrs))
	for i, a := range attrs {
		specs[i] = inst.AddAttribute(a)
	}
	if err := inst.Extend(b.Len()); err != nil {
		return nil, err
	}
	for r := range b.Records {
		rec := &b.Records[r]
		for c, name := range sieve.Fields {
			if v, ok := rec.Field(name).Get(); ok {
				inst.Set(specs[c], r, base.Attribute.GetSysValFromString(attrs[c], v))
			}
		}
	}
	if err := inst.AddClassAttribute(attrs[len(attrs)-1]); err != nil {
		return nil, err
	}
	return inst, nil
}
