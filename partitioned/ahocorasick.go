package partitioned

import (
	"github.com/coregx/ahocorasick"

	"github.com/awwright/grammarswiki-fsm/alphabet"
	"github.com/awwright/grammarswiki-fsm/rangedfa"
)

// LiteralThreshold is the number of literal-tagged parts at or above which
// BuildClassifier prefers the Aho-Corasick literal prefilter: below it, a
// direct automaton walk beats the cost of consulting a second automaton
// first.
const LiteralThreshold = 32

// ByteClassifier classifies byte strings against a set of literal-tagged
// parts, using an Aho-Corasick automaton as a fast reject ahead of the full
// PartitionedDFA walk once the literal set crosses LiteralThreshold.
type ByteClassifier[T any] struct {
	dfa       DFA[byte, T]
	aho       *ahocorasick.Automaton
	tagByLit  []T
	unmatched T
}

// BuildClassifier builds a PartitionedDFA[byte, T] from parts. When every
// part is a plain literal string and there are at least LiteralThreshold of
// them, it also builds an Aho-Corasick automaton over the literal set and
// consults it first in Classify, so non-matching input is rejected in a
// single multi-pattern scan instead of a state walk over the full
// automaton.
func BuildClassifier[T any](parts []Part[byte, T], lattice Lattice[T], unmatched T) ByteClassifier[T] {
	dfa := Build[byte, T](alphabet.Byte{}, parts, lattice, unmatched)
	c := ByteClassifier[T]{dfa: dfa, unmatched: unmatched}

	if len(parts) < LiteralThreshold {
		return c
	}
	literals := make([][]byte, len(parts))
	for i, p := range parts {
		lit, ok := extractLiteral(p.Automaton)
		if !ok {
			return c // mixed part is not a plain literal; skip the prefilter
		}
		literals[i] = lit
	}

	builder := ahocorasick.NewBuilder()
	for _, lit := range literals {
		builder.AddPattern(lit)
	}
	auto, err := builder.Build()
	if err != nil {
		return c
	}
	c.aho = auto
	c.tagByLit = make([]T, len(parts))
	for i, p := range parts {
		c.tagByLit[i] = p.Tag
	}
	return c
}

// Classify reports the tag of the part input matches, preferring the
// Aho-Corasick prefilter when one was built.
func (c ByteClassifier[T]) Classify(input []byte) (T, bool) {
	if c.aho != nil {
		if !c.aho.IsMatch(input) {
			return c.unmatched, false
		}
	}
	return c.dfa.Classify(input)
}

// extractLiteral reports whether d accepts exactly one string (a simple
// unbranched chain of singleton-range transitions terminating in a single
// final state with no outgoing transitions) and, if so, returns it. Parts
// built from anything richer than a literal (alternation, repetition, wide
// ranges) are not eligible for the Aho-Corasick prefilter.
func extractLiteral(d rangedfa.DFA[byte]) (lit []byte, ok bool) {
	q := d.Initial
	seen := map[rangedfa.StateID]bool{}
	for {
		if seen[q] {
			return nil, false
		}
		seen[q] = true
		st := d.States[q]
		if len(st.Transitions) == 0 {
			if !st.Final {
				return nil, false
			}
			return lit, true
		}
		if len(st.Transitions) != 1 || st.Final {
			return nil, false
		}
		tr := st.Transitions[0]
		if tr.Lo != tr.Hi {
			return nil, false
		}
		lit = append(lit, tr.Lo)
		q = tr.Next
	}
}
