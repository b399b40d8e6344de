package parquetio

import (
	"encoding/json"
	"fmt"

	local "github.com/xitongsys/parquet-go-source/local"
	pw "github.com/xitongsys/parquet-go/writer"

	"github.com/sievedata/sieve/pkg/sieve"
)

func schemaJSON() string {
	type field struct {
		Tag string `json:"Tag"`
	}
	type schema struct {
		Tag    string  `json:"Tag"`
		Fields []field `json:"Fields"`
	}
	sc := schema{Tag: "name=record, repetitiontype=REQUIRED"}
	for _, name := range sieve.Fields {
		sc.Fields = append(sc.Fields, field{
			Tag: "name=" + name + ", repetitiontype=OPTIONAL, type=BYTE_ARRAY, convertedtype=UTF8",
		})
	}
	b, _ := json.Marshal(sc)
	return string(b)
}

// StreamWriter mirrors a final dataset as Parquet, appending batch by
// batch. Close finalizes the file footer.
type StreamWriter struct {
	fw interface{ Close() error }
	w  *pw.JSONWriter
}

func NewStreamWriter(path string) (*StreamWriter, error) {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return nil, err
	}
	w, err := pw.NewJSONWriter(schemaJSON(), fw, 1)
	if err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("parquet writer init: %w", err)
	}
	return &StreamWriter{fw: fw, w: w}, nil
}

func (s *StreamWriter) Append(b *sieve.Batch) error {
	for i := range b.Records {
		r := &b.Records[i]
		rec := make(map[string]any, len(sieve.Fields))
		for _, name := range sieve.Fields {
			if v, ok := r.Field(name).Get(); ok {
				rec[name] = v
			}
		}
		line, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if err := s.w.Write(string(line)); err != nil {
			return fmt.Errorf("parquet write row: %w", err)
		}
	}
	return nil
}

func (s *StreamWriter) Close() error {
	if err := s.w.WriteStop(); err != nil {
		_ = s.fw.Close()
		return err
	}
	return s.fw.Close()
}
