// Package validate implements the four independent row predicates and
// the transforms that annotate each batch with their verdicts.
package validate

import (
	"context"
	"regexp"

	"github.com/sievedata/sieve/pkg/profile"
	"github.com/sievedata/sieve/pkg/sieve"
)

var emailRe = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w+$`)

// Email reports whether the value matches the conservative address
// shape. Null is false.
func Email(v sieve.Value) bool {
	s, ok := v.Get()
	return ok && emailRe.MatchString(s)
}

// Row reports whether the record carries both critical fields.
func Row(r *sieve.Record) bool {
	return !r.LoginID.IsNull() && !r.MailAddress.IsNull()
}

// Birthday reports whether the coerced birthday survived date coercion.
// Null (originally absent or unparseable) is false.
func Birthday(v sieve.Value) bool {
	return !v.IsNull()
}

// Checks evaluates the email, row and birthday predicates for every
// record. It must run after scrubbing and date coercion.
type Checks struct {
	prof *profile.Collector
}

func NewChecks(prof *profile.Collector) *Checks { return &Checks{prof: prof} }

func (t *Checks) Name() string { return "checks" }

func (t *Checks) Apply(ctx context.Context, b *sieve.Batch) (*sieve.Batch, error) {
	for i := range b.Records {
		rec := &b.Records[i]
		rec.Flags.EmailOK = Email(rec.MailAddress)
		rec.Flags.RowOK = Row(rec)
		rec.Flags.BirthdayOK = Birthday(rec.BirthdayOn)
	}
	return b, nil
}
