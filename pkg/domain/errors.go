package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidAnimal is returned when a candidate record fails validation.
var ErrInvalidAnimal = errors.New("the animal is not properly formatted")

// ErrNotFound is returned when a lookup by identifier has no match.
type ErrNotFound struct {
	Entity EntityType
	ID     string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// IsNotFound reports whether err is, or wraps, an ErrNotFound.
func IsNotFound(err error) bool {
	var nf ErrNotFound
	return errors.As(err, &nf)
}
