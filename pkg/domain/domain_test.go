package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestQueryMatches(t *testing.T) {
	rex := Animal{ID: "0", Name: "Rex", Species: "dog", Diet: "omnivore", PersonalityTraits: []string{"loyal", "brave"}}
	cases := []struct {
		name  string
		query Query
		want  bool
	}{
		{"zero query", Query{}, true},
		{"all traits present", Query{HasTraits: true, PersonalityTraits: []string{"brave", "loyal"}}, true},
		{"one trait missing", Query{HasTraits: true, PersonalityTraits: []string{"brave", "shy"}}, false},
		{"empty trait list", Query{HasTraits: true}, true},
		{"traits ignored without flag", Query{PersonalityTraits: []string{"shy"}}, true},
		{"diet mismatch", Query{Diet: "herbivore"}, false},
		{"species match", Query{Species: "dog"}, true},
		{"name is case sensitive", Query{Name: "rex"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.query.Matches(rex); got != tc.want {
				t.Fatalf("Matches() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestQueryIsZero(t *testing.T) {
	if !(Query{}).IsZero() {
		t.Fatalf("expected empty query to be zero")
	}
	if (Query{HasTraits: true}).IsZero() {
		t.Fatalf("expected explicit trait filter to be non-zero")
	}
}

func TestNextSequence(t *testing.T) {
	cases := []struct {
		ids  []string
		want uint64
	}{
		{nil, 0},
		{[]string{"0", "1", "2"}, 3},
		{[]string{"0", "7"}, 8},
		{[]string{"a", "b"}, 2},
		{[]string{"5", "x"}, 6},
	}
	for _, tc := range cases {
		animals := make([]Animal, len(tc.ids))
		for i, id := range tc.ids {
			animals[i] = Animal{ID: id}
		}
		if got := NextSequence(animals); got != tc.want {
			t.Fatalf("NextSequence(%v) = %d, want %d", tc.ids, got, tc.want)
		}
	}
}

func TestCloneDetachesTraits(t *testing.T) {
	orig := Animal{PersonalityTraits: []string{"calm"}}
	cp := orig.Clone()
	cp.PersonalityTraits[0] = "wild"
	if orig.PersonalityTraits[0] != "calm" {
		t.Fatalf("clone aliased trait slice")
	}
	if out := CloneAnimals(nil); out == nil {
		t.Fatalf("expected non-nil slice")
	}
}

func TestErrNotFound(t *testing.T) {
	err := fmt.Errorf("lookup: %w", ErrNotFound{Entity: EntityAnimal, ID: "42"})
	if !IsNotFound(err) {
		t.Fatalf("expected wrapped ErrNotFound to be detected")
	}
	var nf ErrNotFound
	if !errors.As(err, &nf) || nf.ID != "42" {
		t.Fatalf("expected errors.As to extract id, got %+v", nf)
	}
	if nf.Error() != "animal 42 not found" {
		t.Fatalf("unexpected message %q", nf.Error())
	}
	if IsNotFound(ErrInvalidAnimal) {
		t.Fatalf("invalid animal is not a not-found error")
	}
}
