package memory

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// index maps every filterable attribute value to the bitmap of collection
// positions holding it. Records are append-only, so positions never move and
// the index only grows.
type index struct {
	all     *roaring.Bitmap
	traits  map[string]*roaring.Bitmap
	diets   map[string]*roaring.Bitmap
	species map[string]*roaring.Bitmap
	names   map[string]*roaring.Bitmap
}

var emptyBitmap = roaring.New()

func newIndex() *index {
	return &index{
		all:     roaring.New(),
		traits:  make(map[string]*roaring.Bitmap),
		diets:   make(map[string]*roaring.Bitmap),
		species: make(map[string]*roaring.Bitmap),
		names:   make(map[string]*roaring.Bitmap),
	}
}

func (ix *index) add(pos uint32, a Animal) {
	ix.all.Add(pos)
	for _, trait := range a.PersonalityTraits {
		addTo(ix.traits, trait, pos)
	}
	addTo(ix.diets, a.Diet, pos)
	addTo(ix.species, a.Species, pos)
	addTo(ix.names, a.Name, pos)
}

func (ix *index) clone() *index {
	return &index{
		all:     ix.all.Clone(),
		traits:  cloneBitmaps(ix.traits),
		diets:   cloneBitmaps(ix.diets),
		species: cloneBitmaps(ix.species),
		names:   cloneBitmaps(ix.names),
	}
}

// selectPositions narrows the full position set by each supplied predicate in
// the fixed order traits, diet, species, name.
func (ix *index) selectPositions(q Query) *roaring.Bitmap {
	result := ix.all.Clone()
	if q.HasTraits {
		for _, trait := range q.PersonalityTraits {
			result.And(lookup(ix.traits, trait))
		}
	}
	if q.Diet != "" {
		result.And(lookup(ix.diets, q.Diet))
	}
	if q.Species != "" {
		result.And(lookup(ix.species, q.Species))
	}
	if q.Name != "" {
		result.And(lookup(ix.names, q.Name))
	}
	return result
}

func addTo(m map[string]*roaring.Bitmap, key string, pos uint32) {
	bm, ok := m[key]
	if !ok {
		bm = roaring.New()
		m[key] = bm
	}
	bm.Add(pos)
}

func lookup(m map[string]*roaring.Bitmap, key string) *roaring.Bitmap {
	if bm, ok := m[key]; ok {
		return bm
	}
	return emptyBitmap
}

func cloneBitmaps(in map[string]*roaring.Bitmap) map[string]*roaring.Bitmap {
	out := make(map[string]*roaring.Bitmap, len(in))
	for k, v := range in {
		out[k] = v.Clone()
	}
	return out
}
