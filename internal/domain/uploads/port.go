package uploads

// Store holds raw uploaded bytes between phase 1 and phase 2 of the two-step
// locate flow, keyed by a generated upload id. Entries are process-local: a
// locate call must reach the same instance that served the initial call.
// Readers must tolerate a missing entry (consumed, evicted, or never created).
type Store interface {
	Put(id string, data []byte)
	Get(id string) ([]byte, bool)
	Delete(id string)
}
