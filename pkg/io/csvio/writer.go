package csvio

import (
	"encoding/csv"
	"io"

	iox "github.com/sievedata/sieve/pkg/io/ioutils"
	"github.com/sievedata/sieve/pkg/sieve"
)

// WriteBatch writes one batch partition to its own file: comma-delimited,
// canonical header, one row per record. An empty batch still produces a
// header-only file.
func WriteBatch(path string, b *sieve.Batch) error {
	out, err := iox.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(out)
	if err := writeRows(w, b, true); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// StreamWriter appends batches to one merged final file, writing the
// canonical header once. It backs the streaming merge: batches are
// appended as they succeed instead of being accumulated in memory.
type StreamWriter struct {
	out         io.WriteCloser
	w           *csv.Writer
	wroteHeader bool
}

func NewStreamWriter(path string) (*StreamWriter, error) {
	out, err := iox.Create(path)
	if err != nil {
		return nil, err
	}
	return &StreamWriter{out: out, w: csv.NewWriter(out)}, nil
}

func (s *StreamWriter) Append(b *sieve.Batch) error {
	if err := writeRows(s.w, b, !s.wroteHeader); err != nil {
		return err
	}
	s.wroteHeader = true
	return nil
}

func (s *StreamWriter) Close() error {
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		_ = s.out.Close()
		return err
	}
	return s.out.Close()
}

func writeRows(w *csv.Writer, b *sieve.Batch, header bool) error {
	if header {
		if err := w.Write(sieve.Fields); err != nil {
			return err
		}
	}
	for i := range b.Records {
		if err := w.Write(b.Records[i].Row()); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
