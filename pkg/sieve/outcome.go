package sieve

// BatchOutcome reports what happened to one batch. A batch either
// succeeds with its partition counts or fails with a reason; failed
// batches contribute no rows to any output.
type BatchOutcome struct {
	Batch   int
	Valid   int
	Garbage int
	Err     error
}

func Succeeded(batch, valid, garbage int) BatchOutcome {
	return BatchOutcome{Batch: batch, Valid: valid, Garbage: garbage}
}

func FailedBatch(batch int, err error) BatchOutcome {
	return BatchOutcome{Batch: batch, Err: err}
}

func (o BatchOutcome) Failed() bool { return o.Err != nil }
