// Package domain defines the persistent animal record, the filter set used to
// narrow reads, and the persistence contracts implemented by the storage
// backends.
package domain

import (
	"strconv"
)

// EntityType identifies the type of record stored in the domain.
type EntityType string

// EntityAnimal identifies an animal record.
const EntityAnimal EntityType = "animal"

// Animal is a single stored record. The validate tags describe the
// constraints every stored record satisfies.
type Animal struct {
	ID                string   `json:"id"`
	Name              string   `json:"name" validate:"required"`
	Species           string   `json:"species" validate:"required"`
	Diet              string   `json:"diet" validate:"required"`
	PersonalityTraits []string `json:"personalityTraits" validate:"required,min=1"`
}

// Clone returns a deep copy so callers cannot alias the store's trait slices.
func (a Animal) Clone() Animal {
	cp := a
	if a.PersonalityTraits != nil {
		cp.PersonalityTraits = append([]string(nil), a.PersonalityTraits...)
	}
	return cp
}

// HasTrait reports whether the animal lists trait among its personality traits.
func (a Animal) HasTrait(trait string) bool {
	for _, t := range a.PersonalityTraits {
		if t == trait {
			return true
		}
	}
	return false
}

// Document is the persisted layout of the whole collection: a single object
// holding the ordered records under "animals".
type Document struct {
	Animals []Animal `json:"animals"`
}

// CloneAnimals deep-copies a record slice. The result is never nil.
func CloneAnimals(in []Animal) []Animal {
	out := make([]Animal, len(in))
	for i, a := range in {
		out[i] = a.Clone()
	}
	return out
}

// NextSequence returns the first identifier that cannot collide with the
// records in animals: the collection length, or one past the largest numeric
// id when ids were written out of band.
func NextSequence(animals []Animal) uint64 {
	next := uint64(len(animals))
	for _, a := range animals {
		n, err := strconv.ParseUint(a.ID, 10, 64)
		if err != nil {
			continue
		}
		if n+1 > next {
			next = n + 1
		}
	}
	return next
}
