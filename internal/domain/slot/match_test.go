package slot

import (
	"reflect"
	"testing"
)

func TestCandidates(t *testing.T) {
	tests := []struct {
		name           string
		availA, availB Set
		heldA, heldB   Set
		want           []ID
	}{
		{
			name:   "intersection of availability",
			availA: NewSet(3, 7, 9),
			availB: NewSet(5, 7, 10),
			heldA:  NewSet(),
			heldB:  NewSet(),
			want:   []ID{7},
		},
		{
			name:   "held on one side counts when available on the other",
			availA: NewSet(9),
			availB: NewSet(2, 9),
			heldA:  NewSet(2),
			heldB:  NewSet(),
			want:   []ID{2, 9},
		},
		{
			name:   "held on band available on hotel",
			availA: NewSet(4),
			availB: NewSet(),
			heldA:  NewSet(),
			heldB:  NewSet(4),
			want:   []ID{4},
		},
		{
			name:   "union has no duplicates and is sorted",
			availA: NewSet(8, 1, 5),
			availB: NewSet(5, 1, 8),
			heldA:  NewSet(1),
			heldB:  NewSet(8),
			want:   []ID{1, 5, 8},
		},
		{
			name:   "disjoint availability yields nothing",
			availA: NewSet(1, 2),
			availB: NewSet(3, 4),
			heldA:  NewSet(),
			heldB:  NewSet(),
			want:   []ID{},
		},
		{
			name:   "empty inputs yield empty output",
			availA: NewSet(),
			availB: NewSet(),
			heldA:  NewSet(),
			heldB:  NewSet(),
			want:   []ID{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Candidates(tt.availA, tt.availB, tt.heldA, tt.heldB)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Candidates() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatched(t *testing.T) {
	h := NewSet(2, 5, 9)

	if got := Matched(h, h); !reflect.DeepEqual(got.Sorted(), h.Sorted()) {
		t.Errorf("Matched(H, H) = %v, want %v", got.Sorted(), h.Sorted())
	}
	if got := Matched(NewSet(), h); len(got) != 0 {
		t.Errorf("Matched(empty, H) = %v, want empty", got.Sorted())
	}
	if got := Matched(NewSet(2, 5), NewSet(5, 9)); !reflect.DeepEqual(got.Sorted(), []ID{5}) {
		t.Errorf("Matched overlap = %v, want [5]", got.Sorted())
	}
}

func TestUnmatched(t *testing.T) {
	onlyA, onlyB := Unmatched(NewSet(2, 5), NewSet(5))
	if !reflect.DeepEqual(onlyA.Sorted(), []ID{2}) {
		t.Errorf("onlyA = %v, want [2]", onlyA.Sorted())
	}
	if len(onlyB) != 0 {
		t.Errorf("onlyB = %v, want empty", onlyB.Sorted())
	}

	onlyA, onlyB = Unmatched(NewSet(), NewSet())
	if len(onlyA) != 0 || len(onlyB) != 0 {
		t.Error("empty inputs should yield empty outputs")
	}
}

func TestTruncate(t *testing.T) {
	ids := []ID{1, 2, 3, 4, 5, 6, 7}
	if got := Truncate(ids, 5); len(got) != 5 {
		t.Errorf("Truncate to 5 returned %d entries", len(got))
	}
	if got := Truncate(ids, 20); len(got) != 7 {
		t.Errorf("Truncate beyond length returned %d entries", len(got))
	}
}

func TestSetMin(t *testing.T) {
	if _, ok := NewSet().Min(); ok {
		t.Error("Min of empty set should report not found")
	}
	if min, _ := NewSet(9, 3, 7).Min(); min != 3 {
		t.Errorf("Min = %d, want 3", min)
	}
}
