package slot

// Candidates returns, in ascending order, every slot eligible for a new
// reservation attempt: slots available on both services, plus slots
// already held on one service and available on the other. Both routes
// end in the same place, a matched pair, so both count.
func Candidates(availA, availB, heldA, heldB Set) []ID {
	c := Intersect(availA, availB)
	for id := range Intersect(heldA, availB) {
		c.Add(id)
	}
	for id := range Intersect(heldB, availA) {
		c.Add(id)
	}
	return c.Sorted()
}

// Matched returns the slots held on both services simultaneously.
func Matched(heldA, heldB Set) Set {
	return Intersect(heldA, heldB)
}

// Unmatched returns the slots held on exactly one service: first the
// ids held only on A, then the ids held only on B.
func Unmatched(heldA, heldB Set) (Set, Set) {
	return Diff(heldA, heldB), Diff(heldB, heldA)
}

// Truncate caps a sorted candidate list at n entries.
func Truncate(ids []ID, n int) []ID {
	if n >= 0 && len(ids) > n {
		return ids[:n]
	}
	return ids
}
