// Package convert coerces the date-bearing fields into calendar dates
// ahead of validation. Coercion is lenient and irreversible: values that
// do not parse become null, originals are not retained, and time-of-day
// is always discarded.
package convert

import (
	"context"
	"time"

	"github.com/spf13/cast"

	"github.com/sievedata/sieve/pkg/sieve"
)

// DateFormat is the canonical rendering of coerced dates.
const DateFormat = "2006-01-02"

// extraLayouts supplement cast's defaults with shapes common in user
// dumps.
var extraLayouts = []string{
	"2006/01/02",
	"02-01-2006",
	"02/01/2006",
	"01/02/2006",
	"2.1.2006",
	"January 2, 2006",
	"2 January 2006",
}

type Dates struct{}

func (t *Dates) Name() string { return "coerce_dates" }

func (t *Dates) Apply(ctx context.Context, b *sieve.Batch) (*sieve.Batch, error) {
	for i := range b.Records {
		rec := &b.Records[i]
		rec.BirthdayOn = Coerce(rec.BirthdayOn)
		rec.CreatedAt = Coerce(rec.CreatedAt)
	}
	return b, nil
}

// Coerce parses a value into a calendar date, rendering it in canonical
// form. Null or unparseable values coerce to null.
func Coerce(v sieve.Value) sieve.Value {
	s, ok := v.Get()
	if !ok {
		return sieve.Value{}
	}
	if t, err := cast.StringToDate(s); err == nil {
		return sieve.Val(t.Format(DateFormat))
	}
	for _, layout := range extraLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return sieve.Val(t.Format(DateFormat))
		}
	}
	return sieve.Value{}
}
