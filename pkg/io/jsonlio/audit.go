package jsonlio

import (
	"encoding/json"
	"io"

	iox "github.com/sievedata/sieve/pkg/io/ioutils"
	"github.com/sievedata/sieve/pkg/sieve"
)

// AuditWriter records, one JSON object per line, why each garbage row was
// rejected. The CSV garbage outputs stay at the canonical columns; this
// stream carries the diagnostic that those files drop.
type AuditWriter struct {
	out io.WriteCloser
	enc *json.Encoder
}

type auditEntry struct {
	Batch       int      `json:"batch"`
	LoginID     *string  `json:"login_id"`
	MailAddress *string  `json:"mail_address"`
	Reasons     []string `json:"reasons"`
}

func NewAuditWriter(path string) (*AuditWriter, error) {
	out, err := iox.Create(path)
	if err != nil {
		return nil, err
	}
	return &AuditWriter{out: out, enc: json.NewEncoder(out)}, nil
}

// WriteBatch appends one entry per record in the garbage partition.
func (w *AuditWriter) WriteBatch(b *sieve.Batch) error {
	for i := range b.Records {
		r := &b.Records[i]
		e := auditEntry{
			Batch:       b.Index,
			LoginID:     ptr(r.LoginID),
			MailAddress: ptr(r.MailAddress),
			Reasons:     r.Flags.Failures(),
		}
		if err := w.enc.Encode(e); err != nil {
			return err
		}
	}
	return nil
}

func (w *AuditWriter) Close() error { return w.out.Close() }

func ptr(v sieve.Value) *string {
	if s, ok := v.Get(); ok {
		return &s
	}
	return nil
}
