// Package util contains small helpers shared by the FRBS packages.
package util

import (
	"sort"
	"strings"
)

// MakeTextList gives a human readable list of the given items, such as
// "a, b, or c". The conjunction is placed before the last item; if there are
// more than two items an oxford comma is used.
func MakeTextList(items []string, conj string) string {
	if len(items) < 1 {
		return ""
	}

	if len(items) == 1 {
		return items[0]
	} else if len(items) == 2 {
		return items[0] + " " + conj + " " + items[1]
	}

	withConj := make([]string, len(items))
	copy(withConj, items)
	withConj[len(withConj)-1] = conj + " " + withConj[len(withConj)-1]
	return strings.Join(withConj, ", ")
}

// OrderedKeys returns the keys of m, ordered a particular way. The order is
// guaranteed to be the same on every run.
//
// As of this writing, the order is alphabetical, but this function does not
// guarantee this will always be the case.
func OrderedKeys[V any](m map[string]V) []string {
	keys := make([]string, len(m))
	idx := 0

	for k := range m {
		keys[idx] = k
		idx++
	}

	sort.Strings(keys)

	return keys
}

// SortBy returns a copy of items sorted with the given less function. The
// sort is stable.
func SortBy[E any](items []E, less func(l, r E) bool) []E {
	sorted := make([]E, len(items))
	copy(sorted, items)

	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})

	return sorted
}
