package covstore

// Record is the coverage state of one resource-id. Both bits are
// monotonic: once set they are never unset except by Reset.
type Record struct {
	// Accessed means the resource was dispatched to at least once.
	Accessed bool

	// Rendered means a link to the resource was generated at least once.
	Rendered bool
}

// merge ORs other into r and reports whether r changed.
func (r *Record) merge(other Record) bool {
	changed := false
	if other.Accessed && !r.Accessed {
		r.Accessed = true
		changed = true
	}
	if other.Rendered && !r.Rendered {
		r.Rendered = true
		changed = true
	}
	return changed
}

// Store persists coverage records keyed by resource-id. Writes are
// monotonic OR-merges: applying them from multiple unsynchronized
// writers is safe because the merge is idempotent and commutative.
// Backends are pluggable; see Open.
type Store interface {
	// Get returns the record for id, zero if absent.
	Get(id string) (Record, error)

	// Mark ORs the given bits into the record for id.
	Mark(id string, accessed, rendered bool) error

	// All returns every stored record.
	All() (map[string]Record, error)

	// Reset discards all records.
	Reset() error

	// Close flushes and releases the backend.
	Close() error
}
