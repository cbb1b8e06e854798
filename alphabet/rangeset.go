package alphabet

import "sort"

// ClosedRange is the inclusive interval [Lo, Hi]; Lo must be <= Hi under the
// governing Alphabet's order.
type ClosedRange[S any] struct {
	Lo, Hi S
}

// Contains reports whether s falls within [r.Lo, r.Hi].
func (r ClosedRange[S]) Contains(a Alphabet[S], s S) bool {
	return LessEq(a, r.Lo, s) && LessEq(a, s, r.Hi)
}

// RangeSet is a canonical ordered sequence of non-overlapping, non-adjacent
// closed ranges sorted by Lo. Canonical form is unique per denoted set: two
// RangeSets describing the same set of symbols are always structurally
// equal. The zero value is the empty set.
type RangeSet[S any] struct {
	a      Alphabet[S]
	ranges []ClosedRange[S]
}

// Empty returns the empty set over alphabet a.
func Empty[S any](a Alphabet[S]) RangeSet[S] {
	return RangeSet[S]{a: a}
}

// Full returns the set denoting every symbol in the alphabet.
func Full[S any](a Alphabet[S]) RangeSet[S] {
	return RangeSet[S]{a: a, ranges: []ClosedRange[S]{{Lo: a.Min(), Hi: a.Max()}}}
}

// Of returns the singleton range set [lo, hi]. Panics if lo > hi.
func Of[S any](a Alphabet[S], lo, hi S) RangeSet[S] {
	if Less(a, hi, lo) {
		panic("alphabet: Of requires lo <= hi")
	}
	return RangeSet[S]{a: a, ranges: []ClosedRange[S]{{Lo: lo, Hi: hi}}}
}

// Single returns the singleton range set containing exactly s.
func Single[S any](a Alphabet[S], s S) RangeSet[S] {
	return Of(a, s, s)
}

// IsEmpty reports whether the set denotes no symbols.
func (s RangeSet[S]) IsEmpty() bool { return len(s.ranges) == 0 }

// IsFull reports whether the set denotes every symbol in the alphabet.
func (s RangeSet[S]) IsFull() bool {
	return len(s.ranges) == 1 && s.a.Compare(s.ranges[0].Lo, s.a.Min()) == 0 &&
		s.a.Compare(s.ranges[0].Hi, s.a.Max()) == 0
}

// Ranges returns the canonical ranges in ascending order. The returned slice
// must not be mutated by the caller.
func (s RangeSet[S]) Ranges() []ClosedRange[S] { return s.ranges }

// Contains reports whether s denotes sym.
func (s RangeSet[S]) Contains(sym S) bool {
	for _, r := range s.ranges {
		if r.Contains(s.a, sym) {
			return true
		}
		if Less(s.a, sym, r.Lo) {
			return false
		}
	}
	return false
}

// canonicalize sorts ranges by Lo and merges overlapping or adjacent ranges,
// using Successor (via Adjacent) to detect adjacency. Complement also uses
// Successor and Predecessor, to find the gaps between ranges.
func canonicalize[S any](a Alphabet[S], rs []ClosedRange[S]) []ClosedRange[S] {
	if len(rs) == 0 {
		return nil
	}
	sort.Slice(rs, func(i, j int) bool { return Less(a, rs[i].Lo, rs[j].Lo) })
	out := make([]ClosedRange[S], 0, len(rs))
	cur := rs[0]
	for _, r := range rs[1:] {
		if Less(a, cur.Hi, r.Lo) && !Adjacent(a, cur.Hi, r.Lo) {
			out = append(out, cur)
			cur = r
			continue
		}
		if Less(a, cur.Hi, r.Hi) {
			cur.Hi = r.Hi
		}
	}
	out = append(out, cur)
	return out
}

// Union returns the canonical union of s and other.
func (s RangeSet[S]) Union(other RangeSet[S]) RangeSet[S] {
	combined := make([]ClosedRange[S], 0, len(s.ranges)+len(other.ranges))
	combined = append(combined, s.ranges...)
	combined = append(combined, other.ranges...)
	return RangeSet[S]{a: s.a, ranges: canonicalize(s.a, combined)}
}

// Complement returns the canonical complement of s relative to the full
// alphabet.
func (s RangeSet[S]) Complement() RangeSet[S] {
	a := s.a
	if len(s.ranges) == 0 {
		return Full(a)
	}
	var out []ClosedRange[S]
	cursor := a.Min()
	haveCursor := true
	for _, r := range s.ranges {
		if haveCursor && Less(a, cursor, r.Lo) {
			pred, ok := a.Predecessor(r.Lo)
			if ok {
				out = append(out, ClosedRange[S]{Lo: cursor, Hi: pred})
			}
		}
		succ, ok := a.Successor(r.Hi)
		if !ok {
			haveCursor = false
			break
		}
		cursor = succ
	}
	if haveCursor {
		out = append(out, ClosedRange[S]{Lo: cursor, Hi: a.Max()})
	}
	return RangeSet[S]{a: a, ranges: out}
}

// Intersection returns the canonical intersection of s and other.
func (s RangeSet[S]) Intersection(other RangeSet[S]) RangeSet[S] {
	a := s.a
	var out []ClosedRange[S]
	i, j := 0, 0
	for i < len(s.ranges) && j < len(other.ranges) {
		x, y := s.ranges[i], other.ranges[j]
		lo := x.Lo
		if Less(a, lo, y.Lo) {
			lo = y.Lo
		}
		hi := x.Hi
		if Less(a, y.Hi, hi) {
			hi = y.Hi
		}
		if LessEq(a, lo, hi) {
			out = append(out, ClosedRange[S]{Lo: lo, Hi: hi})
		}
		if Less(a, x.Hi, y.Hi) {
			i++
		} else {
			j++
		}
	}
	return RangeSet[S]{a: a, ranges: canonicalize(a, out)}
}

// Difference returns s minus other (s ∩ complement(other)).
func (s RangeSet[S]) Difference(other RangeSet[S]) RangeSet[S] {
	return s.Intersection(other.Complement())
}

// SymmetricDifference returns (s \ other) ∪ (other \ s).
func (s RangeSet[S]) SymmetricDifference(other RangeSet[S]) RangeSet[S] {
	return s.Difference(other).Union(other.Difference(s))
}

// Equal reports whether s and other denote the same set of symbols. Since
// both are canonical, this is a structural comparison.
func (s RangeSet[S]) Equal(other RangeSet[S]) bool {
	if len(s.ranges) != len(other.ranges) {
		return false
	}
	for i := range s.ranges {
		if s.a.Compare(s.ranges[i].Lo, other.ranges[i].Lo) != 0 ||
			s.a.Compare(s.ranges[i].Hi, other.ranges[i].Hi) != 0 {
			return false
		}
	}
	return true
}
