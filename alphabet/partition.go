package alphabet

import "sort"

// Partition is a canonical refinement of a collection of range sets: an
// ordered sequence of disjoint, non-empty ranges such that each input
// RangeSet is exactly the union of some subset of the partition's ranges,
// and no range in the partition can be split further without the split
// being invisible to every input set.
//
// This is the central primitive RangeDFA uses to build a common transition
// alphabet across two operands before a product construction: instead of
// materializing one transition per symbol (as
// SymbolDFA does), every binary DFA operation refines its operands' ranges
// down to this partition and only ever branches on whole partition blocks.
type Partition[S any] struct {
	Blocks []ClosedRange[S]

	// Membership[i] is a bitset (as a []bool, one per input RangeSet) that
	// is true at position k iff Blocks[i] is a subset of input k.
	Membership [][]bool
}

type endpoint[S any] struct {
	sym     S
	isStart bool
	set     int
}

// Refine computes the canonical partition of the given range sets:
// collect all distinct range endpoints, sort, and emit
// [p_i, p_{i+1}-1] segments tagged with a membership vector. Runs in
// O(k*n log n) in the total endpoint count across all k sets.
func Refine[S any](a Alphabet[S], sets []RangeSet[S]) Partition[S] {
	var eps []endpoint[S]
	for k, set := range sets {
		for _, r := range set.ranges {
			eps = append(eps, endpoint[S]{sym: r.Lo, isStart: true, set: k})
			eps = append(eps, endpoint[S]{sym: r.Hi, isStart: false, set: k})
		}
	}
	if len(eps) == 0 {
		return Partition[S]{}
	}

	// Distinct sorted boundary symbols: every range start and the symbol
	// after every range end (if representable) delimit a candidate segment.
	boundarySet := map[any]S{}
	addBoundary := func(s S) { boundarySet[any(s)] = s }
	for _, set := range sets {
		for _, r := range set.ranges {
			addBoundary(r.Lo)
			if succ, ok := a.Successor(r.Hi); ok {
				addBoundary(succ)
			}
		}
	}
	boundaries := make([]S, 0, len(boundarySet))
	for _, s := range boundarySet {
		boundaries = append(boundaries, s)
	}
	sort.Slice(boundaries, func(i, j int) bool { return Less(a, boundaries[i], boundaries[j]) })

	var blocks []ClosedRange[S]
	var membership [][]bool
	for i, lo := range boundaries {
		var hi S
		var hasHi bool
		if i+1 < len(boundaries) {
			pred, ok := a.Predecessor(boundaries[i+1])
			if ok && LessEq(a, lo, pred) {
				hi, hasHi = pred, true
			}
		} else {
			hi, hasHi = a.Max(), LessEq(a, lo, a.Max())
		}
		if !hasHi {
			continue
		}
		mem := make([]bool, len(sets))
		anyMember := false
		for k, set := range sets {
			if set.Contains(lo) {
				mem[k] = true
				anyMember = true
			}
		}
		if !anyMember {
			continue
		}
		blocks = append(blocks, ClosedRange[S]{Lo: lo, Hi: hi})
		membership = append(membership, mem)
	}

	return Partition[S]{Blocks: blocks, Membership: membership}
}

// BlocksIn returns the indices of partition blocks that are wholly contained
// in input set k.
func (p Partition[S]) BlocksIn(k int) []int {
	var idx []int
	for i, mem := range p.Membership {
		if k < len(mem) && mem[k] {
			idx = append(idx, i)
		}
	}
	return idx
}
