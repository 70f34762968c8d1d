package core

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"zooapi/pkg/domain"
)

var animalValidate = validator.New()

// ValidateAnimal reports whether payload is an acceptable new record:
// name, species and diet must be non-empty strings and personalityTraits a
// non-empty list. Trait elements are not type checked.
func ValidateAnimal(payload map[string]any) bool {
	_, err := DecodeCandidate(payload)
	return err == nil
}

// DecodeCandidate converts a decoded request body into a record ready for
// insertion. Unknown fields and any caller-supplied id are dropped; trait
// elements that are not strings are kept as their JSON text. Only field types
// are checked here, the struct tags on domain.Animal own emptiness.
func DecodeCandidate(payload map[string]any) (domain.Animal, error) {
	if payload == nil {
		return domain.Animal{}, domain.ErrInvalidAnimal
	}
	var candidate domain.Animal
	var ok bool
	if candidate.Name, ok = stringField(payload, "name"); !ok {
		return domain.Animal{}, domain.ErrInvalidAnimal
	}
	if candidate.Species, ok = stringField(payload, "species"); !ok {
		return domain.Animal{}, domain.ErrInvalidAnimal
	}
	if candidate.Diet, ok = stringField(payload, "diet"); !ok {
		return domain.Animal{}, domain.ErrInvalidAnimal
	}
	if candidate.PersonalityTraits, ok = traitList(payload["personalityTraits"]); !ok {
		return domain.Animal{}, domain.ErrInvalidAnimal
	}
	if err := animalValidate.Struct(candidate); err != nil {
		return domain.Animal{}, fmt.Errorf("%w: %w", domain.ErrInvalidAnimal, err)
	}
	return candidate, nil
}

func stringField(payload map[string]any, key string) (string, bool) {
	v, ok := payload[key].(string)
	return v, ok
}

func traitList(raw any) ([]string, bool) {
	switch list := raw.(type) {
	case []string:
		return append([]string(nil), list...), true
	case []any:
		out := make([]string, 0, len(list))
		for _, elem := range list {
			if s, ok := elem.(string); ok {
				out = append(out, s)
				continue
			}
			text, err := json.Marshal(elem)
			if err != nil {
				return nil, false
			}
			out = append(out, string(text))
		}
		return out, true
	default:
		return nil, false
	}
}
