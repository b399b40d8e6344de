package golearn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sievedata/sieve/pkg/sieve"
)

func TestToDenseInstances(t *testing.T) {
	b := &sieve.Batch{Index: 1, Records: []sieve.Record{
		{
			ID:          sieve.Val("1"),
			LoginID:     sieve.Val("alice"),
			MailAddress: sieve.Val("alice@x.com"),
			BirthdayOn:  sieve.Val("1990-01-01"),
			Gender:      sieve.Val("f"),
		},
		{
			ID:          sieve.Val("2"),
			LoginID:     sieve.Val("bob"),
			MailAddress: sieve.Val("bob@x.com"),
			BirthdayOn:  sieve.Val("1991-01-01"),
			Gender:      sieve.Val("m"),
		},
	}}
	inst, err := ToDenseInstances(b)
	require.NoError(t, err)

	cols, rows := inst.Size()
	assert.Equal(t, len(sieve.Fields), cols)
	assert.Equal(t, 2, rows)
	assert.Len(t, inst.AllClassAttributes(), 1)
	assert.Equal(t, sieve.FieldGender, inst.AllClassAttributes()[0].GetName())
}
