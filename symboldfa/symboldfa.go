// Package symboldfa implements a symbol-transition DFA: a
// deterministic finite automaton whose transition table maps a single
// concrete symbol value to a next state, one entry per symbol rather than
// per range. This is the naive, always-correct representation; package
// rangedfa provides the compact range-partitioned equivalent for sparse
// alphabets. The two must accept identical languages for every grammar
// that compiles under both; this package and rangedfa deliberately share
// no code so that property is a genuine cross-check, not a tautology.
//
// States live in an arena indexed by integer id, with transitions storing
// ids rather than pointers, adapted here to a hash-map-backed,
// symbol-generic deterministic automaton.
package symboldfa

import (
	"fmt"

	"github.com/awwright/grammarswiki-fsm/alphabet"
)

// StateID indexes into a DFA's state arena.
type StateID uint32

// State is one DFA state: its symbol -> next-state map, plus whether it is
// accepting. A state with no entry for a symbol denotes the implicit dead
// sink.
type State[S comparable] struct {
	Transitions map[S]StateID
	Final       bool
}

// DFA is a SymbolDFA over symbol type S.
type DFA[S comparable] struct {
	Alphabet alphabet.Alphabet[S]
	States   []State[S]
	Initial  StateID
}

func (d DFA[S]) NumStates() int { return len(d.States) }

// Step returns the next state for sym from state q, or (0, false) if no
// transition matches.
func (d DFA[S]) Step(q StateID, sym S) (StateID, bool) {
	next, ok := d.States[q].Transitions[sym]
	return next, ok
}

func (d DFA[S]) IsFinal(q StateID) bool { return d.States[q].Final }

// Contains reports whether input is accepted.
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

// allSymbols enumerates every symbol in [a.Min(), a.Max()]. Callers must
// only use this for alphabets small enough to enumerate (bytes, UTF-16
// units); for wide alphabets such as the full Unicode scalar space, use
// rangedfa instead.
func allSymbols[S any](a alphabet.Alphabet[S]) []S {
	var out []S
	s := a.Min()
	for {
		out = append(out, s)
		next, ok := a.Successor(s)
		if !ok {
			break
		}
		s = next
	}
	return out
}

func (d DFA[S]) String() string {
	return fmt.Sprintf("SymbolDFA{states: %d, initial: %d}", len(d.States), d.Initial)
}

// Totalize returns a DFA with an explicit dead state such that every state
// has a transition for every symbol in the alphabet.
func (d DFA[S]) Totalize() DFA[S] {
	a := d.Alphabet
	universe := allSymbols(a)

	// Reuse an existing materialized dead state if one is present; only a
	// state already covering the whole alphabet qualifies.
	dead := -1
	anyGap := false
	for i, st := range d.States {
		if len(st.Transitions) < len(universe) {
			anyGap = true
		} else if dead == -1 && !st.Final && isSelfLoopSink(st, StateID(i)) {
			dead = i
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
		deadTrans := make(map[S]StateID, len(universe))
		for _, sym := range universe {
			deadTrans[sym] = deadID
		}
		states = append(states, State[S]{Transitions: deadTrans, Final: false})
	}
	for q := 0; q < n; q++ {
		st := states[q]
		if len(st.Transitions) == len(universe) {
			continue
		}
		trans := make(map[S]StateID, len(universe))
		for k, v := range st.Transitions {
			trans[k] = v
		}
		for _, sym := range universe {
			if _, ok := trans[sym]; !ok {
				trans[sym] = deadID
			}
		}
		states[q] = State[S]{Transitions: trans, Final: st.Final}
	}
	return DFA[S]{Alphabet: a, States: states, Initial: d.Initial}
}

func isSelfLoopSink[S comparable](st State[S], self StateID) bool {
	if len(st.Transitions) == 0 {
		return false
	}
	for _, v := range st.Transitions {
		if v != self {
			return false
		}
	}
	return true
}
