package animals

import (
	"net/url"
	"strings"

	"zooapi/pkg/domain"
)

const (
	paramTraits        = "personalityTraits"
	paramTraitsBracket = "personalityTraits[]"
	paramDiet          = "diet"
	paramSpecies       = "species"
	paramName          = "name"
)

// ParseQuery extracts the recognized filters from a query string. Unknown
// keys are ignored. A scalar filter given once with an empty value is treated
// as absent, and when a scalar is repeated the first value wins. Trait values
// may be repeated under personalityTraits or personalityTraits[] and are
// merged in order.
func ParseQuery(values url.Values) domain.Query {
	var q domain.Query
	traits := append(append([]string(nil), values[paramTraits]...), values[paramTraitsBracket]...)
	switch {
	case len(traits) == 1 && traits[0] == "":
	case len(traits) > 0:
		q.HasTraits = true
		q.PersonalityTraits = traits
	}
	q.Diet = values.Get(paramDiet)
	q.Species = values.Get(paramSpecies)
	q.Name = values.Get(paramName)
	return q
}

// formPayload converts an urlencoded body into the same shape a JSON body
// decodes to. A key sent once is a string; a key sent several times, or with
// a trailing "[]", is a list.
func formPayload(values url.Values) map[string]any {
	payload := make(map[string]any, len(values))
	lists := make(map[string][]any)
	for key, vals := range values {
		if base, ok := strings.CutSuffix(key, "[]"); ok {
			lists[base] = appendStrings(lists[base], vals)
			continue
		}
		if len(vals) == 1 {
			payload[key] = vals[0]
			continue
		}
		lists[key] = appendStrings(lists[key], vals)
	}
	for key, list := range lists {
		// A plain key merged with its bracketed form still yields one list.
		if s, ok := payload[key].(string); ok {
			list = append([]any{s}, list...)
		}
		payload[key] = list
	}
	return payload
}

func appendStrings(dst []any, vals []string) []any {
	for _, v := range vals {
		dst = append(dst, v)
	}
	return dst
}
