package sieve

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type upperLogin struct{}

func (upperLogin) Name() string { return "upper_login" }

func (upperLogin) Apply(_ context.Context, b *Batch) (*Batch, error) {
	for i := range b.Records {
		if v, ok := b.Records[i].LoginID.Get(); ok && v == "alice" {
			b.Records[i].LoginID = Val("ALICE")
		}
	}
	return b, nil
}

type failing struct{}

func (failing) Name() string { return "failing" }

func (failing) Apply(_ context.Context, _ *Batch) (*Batch, error) {
	return nil, errors.New("boom")
}

func TestPipelineRun(t *testing.T) {
	b := &Batch{Records: []Record{{LoginID: Val("alice")}}}
	out, err := NewPipeline().Add(upperLogin{}).Run(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, "ALICE", out.Records[0].LoginID.String)
}

func TestPipelineStopsOnError(t *testing.T) {
	b := &Batch{Records: []Record{{LoginID: Val("alice")}}}
	out, err := NewPipeline().Add(failing{}).Add(upperLogin{}).Run(context.Background(), b)
	assert.Error(t, err)
	assert.Nil(t, out)
}
