package domain

// Query is the recognized filter set for reads. Empty string fields are
// absent filters. PersonalityTraits is only applied when HasTraits is set, so
// an explicitly supplied empty trait list narrows nothing.
type Query struct {
	PersonalityTraits []string
	HasTraits         bool
	Diet              string
	Species           string
	Name              string
}

// IsZero reports whether the query carries no filter at all.
func (q Query) IsZero() bool {
	return !q.HasTraits && q.Diet == "" && q.Species == "" && q.Name == ""
}

// Matches reports whether a satisfies every predicate in q.
func (q Query) Matches(a Animal) bool {
	if q.HasTraits {
		for _, trait := range q.PersonalityTraits {
			if !a.HasTrait(trait) {
				return false
			}
		}
	}
	if q.Diet != "" && a.Diet != q.Diet {
		return false
	}
	if q.Species != "" && a.Species != q.Species {
		return false
	}
	if q.Name != "" && a.Name != q.Name {
		return false
	}
	return true
}
