package sieve

// Partition splits a validated batch by the combined verdict. Records are
// copied, not shared; flag state travels with the garbage copies so the
// audit stream can name the failed predicates, but writers only ever emit
// the canonical columns.
func Partition(b *Batch) (valid, garbage *Batch) {
	valid = &Batch{Index: b.Index}
	garbage = &Batch{Index: b.Index}
	for _, r := range b.Records {
		if r.Flags.Valid() {
			valid.Records = append(valid.Records, r)
		} else {
			garbage.Records = append(garbage.Records, r)
		}
	}
	return valid, garbage
}
