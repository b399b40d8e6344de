// Package normalize turns raw delimited rows into canonical records: it
// applies the header rename map, drops unmapped source columns, fills
// absent canonical fields with null, and removes rows that are null
// across every canonical field.
package normalize

import (
	"github.com/sievedata/sieve/pkg/profile"
	"github.com/sievedata/sieve/pkg/sieve"
)

type Mapper struct {
	rename map[string]string
	prof   *profile.Collector
}

func New(rename map[string]string, prof *profile.Collector) *Mapper {
	return &Mapper{rename: rename, prof: prof}
}

// Normalize maps one raw batch into canonical shape. Empty cells are
// null; a source header already using a canonical name passes through
// without a rename entry.
func (m *Mapper) Normalize(raw *sieve.RawBatch) *sieve.Batch {
	canonical := make(map[string]bool, len(sieve.Fields))
	for _, name := range sieve.Fields {
		canonical[name] = true
	}
	// source column index -> canonical field name, dropped columns absent
	cols := make(map[int]string, len(raw.Header))
	for i, h := range raw.Header {
		name := h
		if mapped, ok := m.rename[h]; ok {
			name = mapped
		}
		if canonical[name] {
			cols[i] = name
		}
	}

	b := &sieve.Batch{Index: raw.Index, Records: make([]sieve.Record, 0, len(raw.Rows))}
	dropped := 0
	for _, row := range raw.Rows {
		var rec sieve.Record
		for i, name := range cols {
			if i >= len(row) {
				continue
			}
			if row[i] == "" {
				continue
			}
			rec.SetField(name, sieve.Val(row[i]))
		}
		if rec.Empty() {
			dropped++
			continue
		}
		b.Records = append(b.Records, rec)
	}
	if m.prof != nil {
		m.prof.AddRows(len(raw.Rows))
		m.prof.AddEmptyDropped(dropped)
	}
	return b
}
