package validate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sievedata/sieve/pkg/sieve"
)

func TestEmail(t *testing.T) {
	cases := []struct {
		in   sieve.Value
		want bool
	}{
		{sieve.Val("a.b@example.com"), true},
		{sieve.Val("a-b@ex-ample.co"), true},
		{sieve.Val("a_b@example.com"), true},
		{sieve.Val("not-an-email"), false},
		{sieve.Val("a@b"), false},
		{sieve.Val("@example.com"), false},
		{sieve.Val("a b@example.com"), false},
		{sieve.Val(""), false},
		{sieve.Value{}, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Email(tc.in), "email %q", tc.in.String)
	}
}

func TestRow(t *testing.T) {
	r := sieve.Record{LoginID: sieve.Val("a"), MailAddress: sieve.Val("a@x.com")}
	assert.True(t, Row(&r))

	r = sieve.Record{MailAddress: sieve.Val("a@x.com"), Password: sieve.Val("p")}
	assert.False(t, Row(&r))

	r = sieve.Record{LoginID: sieve.Val("a")}
	assert.False(t, Row(&r))

	// other fields are irrelevant
	r = sieve.Record{LoginID: sieve.Val("a"), MailAddress: sieve.Val("x")}
	assert.True(t, Row(&r))
}

func TestBirthday(t *testing.T) {
	assert.True(t, Birthday(sieve.Val("1990-01-01")))
	assert.False(t, Birthday(sieve.Value{}))
}

func TestChecksAnnotates(t *testing.T) {
	b := &sieve.Batch{Records: []sieve.Record{
		{LoginID: sieve.Val("a"), MailAddress: sieve.Val("a@x.com"), BirthdayOn: sieve.Val("1990-01-01")},
		{MailAddress: sieve.Val("bad"), BirthdayOn: sieve.Value{}},
	}}
	out, err := NewChecks(nil).Apply(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, sieve.Flags{EmailOK: true, RowOK: true, BirthdayOK: true}, out.Records[0].Flags)
	assert.Equal(t, sieve.Flags{}, out.Records[1].Flags)
}

func TestDuplicatesFlagsWholeGroup(t *testing.T) {
	b := &sieve.Batch{Records: []sieve.Record{
		{LoginID: sieve.Val("a"), MailAddress: sieve.Val("a@x.com")},
		{LoginID: sieve.Val("b"), MailAddress: sieve.Val("b@x.com")},
		{LoginID: sieve.Val("a"), MailAddress: sieve.Val("a@x.com")},
		{LoginID: sieve.Val("a"), MailAddress: sieve.Val("a@x.com")},
	}}
	out, err := NewDuplicates(false).Apply(context.Background(), b)
	require.NoError(t, err)
	assert.True(t, out.Records[0].Flags.Duplicate, "first occurrence must be flagged too")
	assert.False(t, out.Records[1].Flags.Duplicate)
	assert.True(t, out.Records[2].Flags.Duplicate)
	assert.True(t, out.Records[3].Flags.Duplicate)
}

func TestDuplicatesNullKeysCompareEqual(t *testing.T) {
	b := &sieve.Batch{Records: []sieve.Record{
		{MailAddress: sieve.Val("a@x.com")},
		{MailAddress: sieve.Val("a@x.com")},
		{LoginID: sieve.Val(""), MailAddress: sieve.Val("a@x.com")},
	}}
	out, err := NewDuplicates(false).Apply(context.Background(), b)
	require.NoError(t, err)
	assert.True(t, out.Records[0].Flags.Duplicate)
	assert.True(t, out.Records[1].Flags.Duplicate)
	// empty string is not null
	assert.False(t, out.Records[2].Flags.Duplicate)
}

func TestDuplicatesBatchScopeForgetsPairs(t *testing.T) {
	d := NewDuplicates(false)
	b1 := &sieve.Batch{Index: 1, Records: []sieve.Record{
		{LoginID: sieve.Val("a"), MailAddress: sieve.Val("a@x.com")},
	}}
	b2 := &sieve.Batch{Index: 2, Records: []sieve.Record{
		{LoginID: sieve.Val("a"), MailAddress: sieve.Val("a@x.com")},
	}}
	_, err := d.Apply(context.Background(), b1)
	require.NoError(t, err)
	out, err := d.Apply(context.Background(), b2)
	require.NoError(t, err)
	assert.False(t, out.Records[0].Flags.Duplicate, "pairs split across batches are not detected in batch scope")
}

func TestDuplicatesGlobalScopeRemembersPairs(t *testing.T) {
	d := NewDuplicates(true)
	b1 := &sieve.Batch{Index: 1, Records: []sieve.Record{
		{LoginID: sieve.Val("a"), MailAddress: sieve.Val("a@x.com")},
	}}
	b2 := &sieve.Batch{Index: 2, Records: []sieve.Record{
		{LoginID: sieve.Val("a"), MailAddress: sieve.Val("a@x.com")},
		{LoginID: sieve.Val("b"), MailAddress: sieve.Val("b@x.com")},
	}}
	out, err := d.Apply(context.Background(), b1)
	require.NoError(t, err)
	assert.False(t, out.Records[0].Flags.Duplicate)

	out, err = d.Apply(context.Background(), b2)
	require.NoError(t, err)
	assert.True(t, out.Records[0].Flags.Duplicate)
	assert.False(t, out.Records[1].Flags.Duplicate)
}
