package jsonlio

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sievedata/sieve/pkg/sieve"
)

func TestAuditWriterRecordsReasons(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	w, err := NewAuditWriter(path)
	require.NoError(t, err)

	b := &sieve.Batch{Index: 2, Records: []sieve.Record{
		{
			LoginID:     sieve.Val("a"),
			MailAddress: sieve.Val("bad-address"),
			Flags:       sieve.Flags{RowOK: true, BirthdayOK: true},
		},
		{
			MailAddress: sieve.Val("a@x.com"),
			Flags:       sieve.Flags{EmailOK: true, BirthdayOK: true, Duplicate: true},
		},
	}}
	require.NoError(t, w.WriteBatch(b))
	require.NoError(t, w.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []auditEntry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e auditEntry
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e))
		entries = append(entries, e)
	}
	require.NoError(t, sc.Err())
	require.Len(t, entries, 2)

	assert.Equal(t, 2, entries[0].Batch)
	require.NotNil(t, entries[0].LoginID)
	assert.Equal(t, "a", *entries[0].LoginID)
	assert.Equal(t, []string{"email"}, entries[0].Reasons)

	assert.Nil(t, entries[1].LoginID)
	assert.ElementsMatch(t, []string{"missing_field", "duplicate"}, entries[1].Reasons)
}
