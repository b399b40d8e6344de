package scrub

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sievedata/sieve/pkg/sieve"
)

func defaults() (cols []string, pattern string) {
	cfg := sieve.Default()
	return cfg.ScrubColumns, cfg.ScrubPattern
}

func TestStripRemovesUnauthorizedCharacters(t *testing.T) {
	cols, pattern := defaults()
	s := New(cols, pattern, nil)
	b := &sieve.Batch{Records: []sieve.Record{
		{LoginID: sieve.Val("al#i!ce"), MailAddress: sieve.Val("a*(b)@x.com")},
	}}
	out, err := s.Apply(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, sieve.Val("alice"), out.Records[0].LoginID)
	assert.Equal(t, sieve.Val("ab@x.com"), out.Records[0].MailAddress)
}

func TestStripKeepsAuthorizedCharacters(t *testing.T) {
	cols, pattern := defaults()
	s := New(cols, pattern, nil)
	b := &sieve.Batch{Records: []sieve.Record{
		{LoginID: sieve.Val("a b-c.d@e_f"), MailAddress: sieve.Val("x.y-z@host.com")},
	}}
	out, err := s.Apply(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, "a b-c.d@e_f", out.Records[0].LoginID.String)
	assert.Equal(t, "x.y-z@host.com", out.Records[0].MailAddress.String)
}

func TestStripLeavesNullAlone(t *testing.T) {
	cols, pattern := defaults()
	s := New(cols, pattern, nil)
	b := &sieve.Batch{Records: []sieve.Record{
		{MailAddress: sieve.Val("a@x.com")},
	}}
	out, err := s.Apply(context.Background(), b)
	require.NoError(t, err)
	assert.True(t, out.Records[0].LoginID.IsNull())
}

func TestStripBadPatternFailsBatch(t *testing.T) {
	s := New([]string{sieve.FieldLoginID}, `[`, nil)
	b := &sieve.Batch{Records: []sieve.Record{{LoginID: sieve.Val("alice")}}}
	_, err := s.Apply(context.Background(), b)
	assert.Error(t, err)
}

func TestStripUntouchedColumns(t *testing.T) {
	cols, pattern := defaults()
	s := New(cols, pattern, nil)
	b := &sieve.Batch{Records: []sieve.Record{
		{LoginID: sieve.Val("ok"), Password: sieve.Val("p@$$w0rd!")},
	}}
	out, err := s.Apply(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, "p@$$w0rd!", out.Records[0].Password.String)
}
