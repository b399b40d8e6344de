package sieve

// RawBatch is a bounded slice of the source file as read: the source
// header plus up to batch-size rows, before any normalization. Index is
// 1-based and follows file order.
type RawBatch struct {
	Index  int
	Header []string
	Rows   [][]string
}

// Batch is an ordered set of canonical records. Batch boundaries are
// mechanical (fixed row count), not semantic.
type Batch struct {
	Index   int
	Records []Record
}

// Len returns the number of records in the batch.
func (b *Batch) Len() int { return len(b.Records) }
