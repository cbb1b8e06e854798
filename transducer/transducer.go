// Package transducer implements a DFT: a deterministic
// finite transducer mapping accepted input strings to output strings,
// built the way package symboldfa builds a DFA — a symbol-keyed transition
// map per state — since a transducer's output generally depends on which
// exact symbol triggered a transition (the identity/"bottom" transducer
// is the clearest case), which rules out RangeDFA's range-compressed
// transitions as a representation here.
package transducer

import "github.com/awwright/grammarswiki-fsm/alphabet"

// StateID identifies a state by its index into DFT.States.
type StateID uint32

// Transition carries the output emitted when a single input symbol is
// consumed, plus the resulting state.
type Transition[S comparable, O comparable] struct {
	Output []O
	Next   StateID
}

// State is one DFT state.
type State[S comparable, O comparable] struct {
	Transitions map[S]Transition[S, O]
	Final       bool
}

// DFT is a deterministic finite transducer over input alphabet S, emitting
// output symbols of type O. Every accepted input has exactly one output
// (functional): there is never more than one transition per symbol.
type DFT[S comparable, O comparable] struct {
	Alphabet alphabet.Alphabet[S]
	States   []State[S, O]
	Initial  StateID
}

// Map returns the output produced by consuming input end to end, or
// (nil, false) if input falls outside the transducer's domain: a prefix
// has no transition for its next symbol, or the final state reached is not
// marked Final.
func (d DFT[S, O]) Map(input []S) ([]O, bool) {
	q := d.Initial
	var out []O
	for _, sym := range input {
		tr, ok := d.States[q].Transitions[sym]
		if !ok {
			return nil, false
		}
		out = append(out, tr.Output...)
		q = tr.Next
	}
	if !d.States[q].Final {
		return nil, false
	}
	return out, true
}

// Contains reports whether input is in the transducer's domain.
func (d DFT[S, O]) Contains(input []S) bool {
	_, ok := d.Map(input)
	return ok
}

// IsEquivalent reports whether a and b are both in the domain and map to
// the same output.
func (d DFT[S, O]) IsEquivalent(a, b []S) bool {
	oa, oka := d.Map(a)
	ob, okb := d.Map(b)
	if !oka || !okb {
		return false
	}
	if len(oa) != len(ob) {
		return false
	}
	for i := range oa {
		if oa[i] != ob[i] {
			return false
		}
	}
	return true
}
