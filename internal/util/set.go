package util

// StringSet is a map[string]bool with set operations added to it. The zero
// value is not ready for adding; use NewStringSet or a composite literal.
type StringSet map[string]bool

// NewStringSet creates a new StringSet containing every string in elements.
func NewStringSet(elements ...string) StringSet {
	s := StringSet{}
	for _, e := range elements {
		s.Add(e)
	}
	return s
}

// Copy returns a copy of the set.
func (s StringSet) Copy() StringSet {
	newS := NewStringSet()

	for k := range s {
		newS[k] = true
	}

	return newS
}

// Union returns a new Set that is the union of s and o.
func (s StringSet) Union(o StringSet) StringSet {
	newSet := NewStringSet()
	newSet.AddAll(s)
	newSet.AddAll(o)

	return newSet
}

// Difference returns a new Set that contains the elements that are in s but not
// in o.
func (s StringSet) Difference(o StringSet) StringSet {
	newSet := s.Copy()

	for k := range o {
		newSet.Remove(k)
	}

	return newSet
}

func (s StringSet) Has(value string) bool {
	_, has := s[value]
	return has
}

func (s StringSet) Add(value string) {
	s[value] = true
}

func (s StringSet) Remove(value string) {
	delete(s, value)
}

func (s StringSet) Len() int {
	return len(s)
}

func (s StringSet) Empty() bool {
	return s.Len() == 0
}

func (s StringSet) AddAll(s2 StringSet) {
	for k := range s2 {
		s.Add(k)
	}
}

// Elements returns the elements of the set in alphabetical order.
func (s StringSet) Elements() []string {
	return OrderedKeys(s)
}

// Equal returns whether s and o contain exactly the same elements.
func (s StringSet) Equal(o StringSet) bool {
	if s.Len() != o.Len() {
		return false
	}

	for k := range s {
		if !o.Has(k) {
			return false
		}
	}

	return true
}
