package validate

import (
	"context"

	"github.com/sievedata/sieve/pkg/sieve"
)

// Duplicates flags every member of a group sharing the same
// (login_id, mail_address) pair, not only later occurrences. Null keys
// compare equal to null keys.
//
// Scope is batch-local by default: pairs are compared within one batch
// only, so a pair split across two batches goes undetected. Global scope
// additionally remembers every pair seen earlier in the run and flags any
// later row that repeats one; rows in already-emitted batches are not
// revisited.
type Duplicates struct {
	Global bool

	seen map[pairKey]struct{}
}

type pairKey struct {
	login   string
	loginOK bool
	mail    string
	mailOK  bool
}

func NewDuplicates(global bool) *Duplicates {
	d := &Duplicates{Global: global}
	if global {
		d.seen = make(map[pairKey]struct{})
	}
	return d
}

func (t *Duplicates) Name() string { return "duplicates" }

func (t *Duplicates) Apply(ctx context.Context, b *sieve.Batch) (*sieve.Batch, error) {
	counts := make(map[pairKey]int, len(b.Records))
	for i := range b.Records {
		counts[key(&b.Records[i])]++
	}
	for i := range b.Records {
		k := key(&b.Records[i])
		dup := counts[k] > 1
		if t.Global {
			if _, ok := t.seen[k]; ok {
				dup = true
			}
		}
		b.Records[i].Flags.Duplicate = dup
	}
	if t.Global {
		for k := range counts {
			t.seen[k] = struct{}{}
		}
	}
	return b, nil
}

func key(r *sieve.Record) pairKey {
	return pairKey{
		login:   r.LoginID.String,
		loginOK: r.LoginID.Valid,
		mail:    r.MailAddress.String,
		mailOK:  r.MailAddress.Valid,
	}
}
