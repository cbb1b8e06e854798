package rangedfa

import "github.com/awwright/grammarswiki-fsm/alphabet"

// IsEmpty reports whether d accepts no strings: no final state is reachable
// from the initial state.
func (d DFA[S]) IsEmpty() bool {
	if len(d.States) == 0 {
		return true
	}
	seen := make([]bool, len(d.States))
	stack := []StateID{d.Initial}
	seen[d.Initial] = true
	for len(stack) > 0 {
		q := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if d.States[q].Final {
			return false
		}
		for _, tr := range d.States[q].Transitions {
			if !seen[tr.Next] {
				seen[tr.Next] = true
				stack = append(stack, tr.Next)
			}
		}
	}
	return true
}

// IsEquivalent reports whether d and other accept the same language:
// emptiness of the symmetric language difference (A \ B) ∪ (B \ A).
func IsEquivalent[S any](d, other DFA[S]) bool {
	diffAB := Difference(d, other)
	diffBA := Difference(other, d)
	return diffAB.IsEmpty() && diffBA.IsEmpty()
}

// Subpaths returns the DFA of strings labeling any path in d from state
// source to any state in targets. Since d's transition function is already
// deterministic, this only requires retargeting the initial and final
// states; no subset construction is needed.
func (d DFA[S]) Subpaths(source StateID, targets []StateID) DFA[S] {
	final := make(map[StateID]bool, len(targets))
	for _, t := range targets {
		final[t] = true
	}
	states := make([]State[S], len(d.States))
	for q, st := range d.States {
		states[q] = State[S]{Transitions: st.Transitions, Final: final[StateID(q)]}
	}
	return DFA[S]{Alphabet: d.Alphabet, States: states, Initial: source}
}

// Derive returns the DFA that accepts strings in d whose suffixes, after
// some prefix in prefixSet, reach a final state of d. Equivalently, the
// left quotient of d by the language of prefixSet: { s | ∃ p ∈ L(prefixSet),
// p·s ∈ L(d) }.
//
// Implementation: walk d and prefixSet in lockstep from their respective
// initial states; whenever the lockstep reaches a state where prefixSet is
// final (a valid prefix boundary), record d's current state as a starting
// point for the result. The result is the subset-construction closure of
// the union of all recorded starting points, reusing d's own transitions.
func Derive[S any](d, prefixSet DFA[S]) DFA[S] {
	type pr struct{ dq, pq StateID }
	seen := map[pr]bool{}
	var boundary []StateID
	boundarySeen := map[StateID]bool{}

	var stack []pr
	start := pr{d.Initial, prefixSet.Initial}
	stack = append(stack, start)
	seen[start] = true
	if prefixSet.IsFinal(prefixSet.Initial) && !boundarySeen[d.Initial] {
		boundarySeen[d.Initial] = true
		boundary = append(boundary, d.Initial)
	}

	a := d.Alphabet
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		dTrans := d.States[cur.dq].Transitions
		pTrans := prefixSet.States[cur.pq].Transitions
		if len(dTrans) == 0 || len(pTrans) == 0 {
			continue
		}

		// Refine d's and prefixSet's outgoing ranges together so each
		// block maps to exactly one d-target and one prefixSet-target,
		// instead of stepping through the range symbol by symbol.
		type piece struct {
			fromD bool
			next  StateID
		}
		var sets []alphabet.RangeSet[S]
		var pieces []piece
		for _, tr := range dTrans {
			sets = append(sets, alphabet.Of(a, tr.Lo, tr.Hi))
			pieces = append(pieces, piece{fromD: true, next: tr.Next})
		}
		for _, tr := range pTrans {
			sets = append(sets, alphabet.Of(a, tr.Lo, tr.Hi))
			pieces = append(pieces, piece{fromD: false, next: tr.Next})
		}
		part := alphabet.Refine(a, sets)
		for bi := range part.Blocks {
			var dq, pq StateID
			haveD, haveP := false, false
			for k, mem := range part.Membership[bi] {
				if !mem {
					continue
				}
				if pieces[k].fromD {
					dq, haveD = pieces[k].next, true
				} else {
					pq, haveP = pieces[k].next, true
				}
			}
			if !haveD || !haveP {
				continue
			}
			np := pr{dq, pq}
			if !seen[np] {
				seen[np] = true
				stack = append(stack, np)
				if prefixSet.IsFinal(pq) && !boundarySeen[dq] {
					boundarySeen[dq] = true
					boundary = append(boundary, dq)
				}
			}
		}
	}

	if len(boundary) == 0 {
		return EmptyLang(d.Alphabet)
	}

	b := newBuilder(d.Alphabet)
	_, idMap := b.importDFA(d)
	starts := make([]int, len(boundary))
	for i, q := range boundary {
		starts[i] = idMap[q]
	}
	return b.determinize(starts)
}
