package profile

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Summary holds the totals for one run.
type Summary struct {
	RowsRead      int            `json:"rows_read"`
	EmptyDropped  int            `json:"empty_rows_dropped"`
	ScrubNulled   int            `json:"scrub_nulled_fields"`
	Batches       int            `json:"batches"`
	FailedBatches int            `json:"failed_batches"`
	ValidRows     int            `json:"valid_rows"`
	GarbageRows   int            `json:"garbage_rows"`
	Failures      map[string]int `json:"failures"`
}

// Collector accumulates run totals. The pipeline is single-threaded, so
// the counters are unguarded.
type Collector struct {
	s Summary
}

func NewCollector() *Collector {
	return &Collector{s: Summary{Failures: make(map[string]int)}}
}

func (c *Collector) AddRows(n int)         { c.s.RowsRead += n }
func (c *Collector) AddEmptyDropped(n int) { c.s.EmptyDropped += n }
func (c *Collector) AddScrubNulled(n int)  { c.s.ScrubNulled += n }

// AddFailures counts one row against each predicate it failed.
func (c *Collector) AddFailures(reasons []string) {
	for _, r := range reasons {
		c.s.Failures[r]++
	}
}

// ObserveBatch records one batch outcome.
func (c *Collector) ObserveBatch(valid, garbage int, failed bool) {
	c.s.Batches++
	if failed {
		c.s.FailedBatches++
		return
	}
	c.s.ValidRows += valid
	c.s.GarbageRows += garbage
}

func (c *Collector) Summary() Summary { return c.s }

// JSON renders the summary as indented JSON.
func (s Summary) JSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Text renders the summary as a human-readable report.
func (s Summary) Text() string {
	var b strings.Builder
	b.WriteString("Run Summary\n")
	fmt.Fprintf(&b, "- rows read: %d (empty dropped: %d)\n", s.RowsRead, s.EmptyDropped)
	fmt.Fprintf(&b, "- batches: %d (failed: %d)\n", s.Batches, s.FailedBatches)
	fmt.Fprintf(&b, "- valid rows: %d\n", s.ValidRows)
	fmt.Fprintf(&b, "- garbage rows: %d\n", s.GarbageRows)
	if s.ScrubNulled > 0 {
		fmt.Fprintf(&b, "- fields nulled during scrubbing: %d\n", s.ScrubNulled)
	}
	if len(s.Failures) > 0 {
		b.WriteString("- failures by predicate:\n")
		names := make([]string, 0, len(s.Failures))
		for name := range s.Failures {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&b, "    %s: %d\n", name, s.Failures[name])
		}
	}
	return b.String()
}
