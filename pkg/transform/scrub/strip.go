// Package scrub removes unauthorized characters from selected fields
// before validation.
package scrub

import (
	"context"
	"fmt"
	"regexp"

	"github.com/sievedata/sieve/pkg/profile"
	"github.com/sievedata/sieve/pkg/sieve"
)

// Strip deletes every character matching Pattern from the configured
// columns. A failure to clean one field substitutes null for that field
// and processing continues; only a broken pattern fails the batch.
type Strip struct {
	Columns []string
	Pattern string

	re   *regexp.Regexp
	prof *profile.Collector
}

func New(columns []string, pattern string, prof *profile.Collector) *Strip {
	return &Strip{Columns: columns, Pattern: pattern, prof: prof}
}

func (t *Strip) Name() string { return "scrub" }

func (t *Strip) Apply(ctx context.Context, b *sieve.Batch) (*sieve.Batch, error) {
	if t.re == nil {
		re, err := regexp.Compile(t.Pattern)
		if err != nil {
			return nil, fmt.Errorf("scrub: pattern %q: %w", t.Pattern, err)
		}
		t.re = re
	}
	for i := range b.Records {
		rec := &b.Records[i]
		for _, col := range t.Columns {
			v, ok := rec.Field(col).Get()
			if !ok {
				continue
			}
			cleaned, err := t.strip(v)
			if err != nil {
				rec.SetField(col, sieve.Value{})
				if t.prof != nil {
					t.prof.AddScrubNulled(1)
				}
				continue
			}
			rec.SetField(col, sieve.Val(cleaned))
		}
	}
	return b, nil
}

func (t *Strip) strip(v string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("strip: %v", r)
		}
	}()
	return t.re.ReplaceAllString(v, ""), nil
}
