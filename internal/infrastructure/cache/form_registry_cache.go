package cache

import (
	"sync"
	"time"

	appcivic "github.com/civicconnect/backend/internal/application/civic"
)

// InMemoryFormRegistry implements the process-local form registry consulted
// on the form status fast path. Entries are keyed by form id and never
// expire; the registry is repopulated lazily as forms are provisioned and
// the record store stays authoritative across restarts.
type InMemoryFormRegistry struct {
	mu      sync.RWMutex
	entries map[string]appcivic.RegistryEntry
}

// NewInMemoryFormRegistry creates an empty form registry
func NewInMemoryFormRegistry() *InMemoryFormRegistry {
	return &InMemoryFormRegistry{
		entries: make(map[string]appcivic.RegistryEntry),
	}
}

// Put stores or replaces the entry for its form id
func (r *InMemoryFormRegistry) Put(entry appcivic.RegistryEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[entry.FormID] = entry
}

// Get returns the entry for the form id, if present
func (r *InMemoryFormRegistry) Get(formID string) (appcivic.RegistryEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[formID]
	return entry, ok
}

// MarkResponded flips an entry to responded. Unknown form ids are ignored;
// marking an already responded entry keeps its original timestamp.
func (r *InMemoryFormRegistry) MarkResponded(formID string, respondedAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[formID]
	if !ok || entry.Responded {
		return
	}
	entry.Responded = true
	entry.RespondedAt = &respondedAt
	r.entries[formID] = entry
}

// Len returns the number of cached entries
func (r *InMemoryFormRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Ensure InMemoryFormRegistry implements the application port
var _ appcivic.RegistryCache = (*InMemoryFormRegistry)(nil)
