package civic

import "time"

// RegistryEntry mirrors a provisioned form's metadata for fast-path reads.
// Entries are process-local and lost on restart; the question record store
// stays authoritative and the cache never gates correctness.
type RegistryEntry struct {
	FormID             string
	FormURL            string
	RepresentativeName string
	Constituency       string
	Question           string
	NotifiedEmail      string
	CreatedAt          time.Time
	Responded          bool
	RespondedAt        *time.Time
}

// RegistryCache is the non-authoritative form registry consulted on the
// status fast path. Implementations must be safe for concurrent use.
type RegistryCache interface {
	Put(entry RegistryEntry)
	Get(formID string) (RegistryEntry, bool)
	MarkResponded(formID string, respondedAt time.Time)
}
