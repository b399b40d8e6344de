package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	iox "github.com/sievedata/sieve/pkg/io/ioutils"
	"github.com/sievedata/sieve/pkg/sieve"
)

// ErrNotFound is returned before any reading begins when the input path
// does not exist.
var ErrNotFound = errors.New("input file not found")

type ReaderOptions struct {
	Delimiter rune // 0 = ';'
	BatchSize int  // rows per batch; must be positive
}

// BatchReader splits a delimited file into fixed-size sequential raw
// batches in file order. The sequence is lazy, finite and not
// restartable.
type BatchReader struct {
	rc     io.ReadCloser
	r      *csv.Reader
	header []string
	size   int
	index  int
	done   bool
}

// NewBatchReader stats the path first so a missing input fails before any
// batch is produced, then opens it (gzip-transparent) and reads the
// header row.
func NewBatchReader(path string, opt ReaderOptions) (*BatchReader, error) {
	if opt.BatchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", opt.BatchSize)
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	rc, err := iox.OpenMaybeCompressed(path)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(rc)
	cr.Comma = ';'
	if opt.Delimiter != 0 {
		cr.Comma = opt.Delimiter
	}
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	hdr, err := cr.Read()
	if err != nil {
		_ = rc.Close()
		if err == io.EOF {
			return nil, fmt.Errorf("read header: empty input %s", path)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	header := make([]string, len(hdr))
	for i := range hdr {
		header[i] = strings.ToValidUTF8(hdr[i], "?")
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	return &BatchReader{rc: rc, r: cr, header: header, size: opt.BatchSize}, nil
}

// Header returns the source header row.
func (b *BatchReader) Header() []string { return b.header }

// Next returns the next raw batch, or io.EOF once the file is exhausted.
func (b *BatchReader) Next() (*sieve.RawBatch, error) {
	if b.done {
		return nil, io.EOF
	}
	raw := &sieve.RawBatch{Index: b.index + 1, Header: b.header}
	for len(raw.Rows) < b.size {
		rec, err := b.r.Read()
		if err == io.EOF {
			b.done = true
			if len(raw.Rows) == 0 {
				return nil, io.EOF
			}
			break
		}
		if err != nil {
			return nil, fmt.Errorf("batch %d: %w", raw.Index, err)
		}
		row := make([]string, len(rec))
		for i := range rec {
			row[i] = strings.ToValidUTF8(rec[i], "?")
		}
		raw.Rows = append(raw.Rows, row)
	}
	b.index++
	return raw, nil
}

func (b *BatchReader) Close() error { return b.rc.Close() }
