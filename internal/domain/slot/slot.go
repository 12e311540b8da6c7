package slot

import "sort"

// ID identifies a bookable time slot. Smaller ids are earlier times;
// natural integer order is the only notion of "earliest".
type ID int

// Set is an unordered collection of slot ids.
type Set map[ID]struct{}

func NewSet(ids ...ID) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s Set) Has(id ID) bool {
	_, ok := s[id]
	return ok
}

func (s Set) Add(id ID) { s[id] = struct{}{} }

// Sorted returns the ids in ascending order.
func (s Set) Sorted() []ID {
	out := make([]ID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Min returns the smallest id in the set, or (0, false) when empty.
func (s Set) Min() (ID, bool) {
	var min ID
	found := false
	for id := range s {
		if !found || id < min {
			min = id
			found = true
		}
	}
	return min, found
}

func Intersect(a, b Set) Set {
	if len(b) < len(a) {
		a, b = b, a
	}
	out := make(Set)
	for id := range a {
		if b.Has(id) {
			out.Add(id)
		}
	}
	return out
}

func Diff(a, b Set) Set {
	out := make(Set)
	for id := range a {
		if !b.Has(id) {
			out.Add(id)
		}
	}
	return out
}
