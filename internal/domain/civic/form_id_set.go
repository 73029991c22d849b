package civic

// FormIDSet is an ordered set of external form identifiers. It is persisted
// as a JSON array; set semantics (no duplicates) are enforced here rather
// than by the storage engine, which keeps the representative update a plain
// single-row write.
type FormIDSet []string

// Contains reports whether the set holds the given form id.
func (s FormIDSet) Contains(formID string) bool {
	for _, id := range s {
		if id == formID {
			return true
		}
	}
	return false
}

// Add returns a set containing formID. Adding an existing id is a no-op.
func (s FormIDSet) Add(formID string) FormIDSet {
	if s.Contains(formID) {
		return s
	}
	return append(s, formID)
}

// Remove returns a set without formID. Removing an absent id is a no-op.
func (s FormIDSet) Remove(formID string) FormIDSet {
	out := make(FormIDSet, 0, len(s))
	for _, id := range s {
		if id != formID {
			out = append(out, id)
		}
	}
	return out
}

// Snapshot returns an independent copy safe to iterate while the original
// set is being mutated.
func (s FormIDSet) Snapshot() []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
