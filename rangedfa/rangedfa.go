// Package rangedfa implements a range-transition DFA: a deterministic
// finite automaton whose per-state transition table maps closed symbol
// ranges, not individual symbols, to next states. It is semantically
// equivalent to the symbol-indexed automaton in package symboldfa but
// compact for sparse alphabets such as 21-bit Unicode scalar values, where
// materializing one transition per symbol is infeasible.
//
// All constructors and combinators are pure: every operation takes
// immutable DFA values and returns a new one. The transition relation is
// partial — a state with no matching range for a given symbol denotes an
// implicit dead (rejecting) sink.
// Totalize materializes that sink explicitly when an algorithm (Complement)
// needs a genuinely total function to operate on.
package rangedfa

import (
	"fmt"

	"github.com/awwright/grammarswiki-fsm/alphabet"
)

// StateID indexes into a DFA's state arena.
type StateID uint32

// RangeTransition is one outgoing edge: symbols in [Lo, Hi] go to Next.
// Within a single state's transition list, ranges are sorted by Lo and are
// non-overlapping, so at most one transition applies to any symbol.
type RangeTransition[S any] struct {
	Lo, Hi S
	Next   StateID
}

// State is one DFA state: its sorted, non-overlapping outgoing range
// transitions, plus whether it is accepting.
type State[S any] struct {
	Transitions []RangeTransition[S]
	Final       bool
}

// DFA is a RangeDFA over symbol type S.
type DFA[S any] struct {
	Alphabet alphabet.Alphabet[S]
	States   []State[S]
	Initial  StateID
}

// NumStates returns the number of states in the arena (including any
// unreachable ones left over from construction).
func (d DFA[S]) NumStates() int { return len(d.States) }

// Step returns the next state for sym from state q, or (0, false) if no
// transition matches (the implicit dead sink).
func (d DFA[S]) Step(q StateID, sym S) (StateID, bool) {
	trs := d.States[q].Transitions
	a := d.Alphabet
	lo, hi := 0, len(trs)
	for lo < hi {
		mid := (lo + hi) / 2
		tr := trs[mid]
		switch {
		case alphabet.Less(a, sym, tr.Lo):
			hi = mid
		case alphabet.Less(a, tr.Hi, sym):
			lo = mid + 1
		default:
			return tr.Next, true
		}
	}
	return 0, false
}

// IsFinal reports whether q is an accepting state.
func (d DFA[S]) IsFinal(q StateID) bool { return d.States[q].Final }

// Contains reports whether input (a sequence of symbols) is accepted.
func (d DFA[S]) Contains(input []S) bool {
	q := d.Initial
	for _, sym := range input {
		next, ok := d.Step(q, sym)
		if !ok {
			return false
		}
		q = next
	}
	return d.IsFinal(q)
}

// Totalize returns a DFA with an explicit dead state such that every state
// has a transition covering the full alphabet. The dead state loops to
// itself on every symbol and is never final. Used ahead of Complement,
// which requires a genuinely total transition function to flip.
func (d DFA[S]) Totalize() DFA[S] {
	a := d.Alphabet
	// Detect an existing materialized dead state to avoid duplicating it.
	dead := -1
	for i, st := range d.States {
		if !st.Final && len(st.Transitions) == 1 && st.Transitions[0].Next == StateID(i) &&
			a.Compare(st.Transitions[0].Lo, a.Min()) == 0 && a.Compare(st.Transitions[0].Hi, a.Max()) == 0 {
			dead = i
			break
		}
	}

	gapsOf := make([]alphabet.RangeSet[S], len(d.States))
	anyGap := false
	for q, st := range d.States {
		covered := alphabet.Empty(a)
		for _, tr := range st.Transitions {
			covered = covered.Union(alphabet.Of(a, tr.Lo, tr.Hi))
		}
		gapsOf[q] = alphabet.Full(a).Difference(covered)
		if !gapsOf[q].IsEmpty() {
			anyGap = true
		}
	}
	if !anyGap {
		return d
	}

	n := len(d.States)
	states := make([]State[S], n, n+1)
	copy(states, d.States)
	deadID := StateID(dead)
	if dead == -1 {
		deadID = StateID(n)
		states = append(states, State[S]{
			Transitions: []RangeTransition[S]{{Lo: a.Min(), Hi: a.Max(), Next: deadID}},
			Final:       false,
		})
	}
	for q := 0; q < n; q++ {
		if gapsOf[q].IsEmpty() {
			continue
		}
		trs := append([]RangeTransition[S]{}, states[q].Transitions...)
		for _, r := range gapsOf[q].Ranges() {
			trs = append(trs, RangeTransition[S]{Lo: r.Lo, Hi: r.Hi, Next: deadID})
		}
		states[q] = State[S]{Transitions: sortTransitions(a, trs), Final: states[q].Final}
	}
	return DFA[S]{Alphabet: a, States: states, Initial: d.Initial}
}

func sortTransitions[S any](a alphabet.Alphabet[S], trs []RangeTransition[S]) []RangeTransition[S] {
	for i := 1; i < len(trs); i++ {
		for j := i; j > 0 && alphabet.Less(a, trs[j].Lo, trs[j-1].Lo); j-- {
			trs[j], trs[j-1] = trs[j-1], trs[j]
		}
	}
	return trs
}

// String returns a debug summary, not a canonical representation.
func (d DFA[S]) String() string {
	return fmt.Sprintf("RangeDFA{states: %d, initial: %d}", len(d.States), d.Initial)
}
