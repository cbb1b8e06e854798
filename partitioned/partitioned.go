// Package partitioned implements a tag-classifying DFA: a DFA
// built from a union of labeled automata where each final state carries a
// tag drawn from a join-semilattice, used to classify which of several
// rules (or rule alternatives) an accepted input matched.
//
// Built directly atop package rangedfa, folding many labeled automata into
// one: the underlying construction is a rangedfa-style subset construction (see
// thompson.go there), extended here to also track, per reachable subset,
// which source parts' final states are present and join their tags.
package partitioned

import (
	"sort"
	"strconv"
	"strings"

	"github.com/awwright/grammarswiki-fsm/alphabet"
	"github.com/awwright/grammarswiki-fsm/rangedfa"
)

// Lattice describes a join-semilattice over tag type T: Join must be
// commutative, associative, and idempotent so that the tag a state ends up
// with does not depend on the order parts were combined.
type Lattice[T any] interface {
	Join(a, b T) T
}

// Part is one labeled input to Build: an automaton and the tag assigned to
// strings it accepts.
type Part[S any, T any] struct {
	Automaton rangedfa.DFA[S]
	Tag       T
}

// State is one PartitionedDFA state.
type State[S any, T any] struct {
	Transitions []rangedfa.RangeTransition[S]
	Final       bool
	Tag         T // meaningful only if Final
}

// DFA is a PartitionedDFA over symbol type S with tag type T.
type DFA[S any, T any] struct {
	Alphabet  alphabet.Alphabet[S]
	States    []State[S, T]
	Initial   rangedfa.StateID
	Unmatched T
}

// Build constructs a PartitionedDFA from the given labeled parts. unmatched
// is the tag Classify reports (with ok=false) for inputs no part accepts.
// When a reachable state is final in more than one part simultaneously,
// lattice.Join combines their tags; lattice may be nil only if no two parts'
// languages overlap.
func Build[S any, T any](a alphabet.Alphabet[S], parts []Part[S, T], lattice Lattice[T], unmatched T) DFA[S, T] {
	b := newBuilder(a)
	var starts []int
	var partOf [][]int // builder state id -> indices of parts whose final state it is

	grow := func(id int) {
		for len(partOf) <= id {
			partOf = append(partOf, nil)
		}
	}

	for i, p := range parts {
		start, idMap := b.importDFA(p.Automaton)
		starts = append(starts, start)
		for j, st := range p.Automaton.States {
			if !st.Final {
				continue
			}
			id := idMap[j]
			grow(id)
			partOf[id] = append(partOf[id], i)
		}
	}

	tagOf := func(set []int) (T, bool) {
		var tag T
		have := false
		for _, s := range set {
			if s >= len(partOf) {
				continue
			}
			for _, pi := range partOf[s] {
				if !have {
					tag = parts[pi].Tag
					have = true
				} else if lattice != nil {
					tag = lattice.Join(tag, parts[pi].Tag)
				}
			}
		}
		return tag, have
	}

	return determinize(b, starts, unmatched, tagOf)
}

// Classify walks input and returns the tag of the state reached, or
// (Unmatched, false) if input ends in a non-final state or a symbol has no
// transition.
func (d DFA[S, T]) Classify(input []S) (T, bool) {
	q := d.Initial
	for _, sym := range input {
		next, ok := d.step(q, sym)
		if !ok {
			return d.Unmatched, false
		}
		q = next
	}
	st := d.States[q]
	if !st.Final {
		return d.Unmatched, false
	}
	return st.Tag, true
}

func (d DFA[S, T]) step(q rangedfa.StateID, sym S) (rangedfa.StateID, bool) {
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

// --- internal subset-construction builder, parallel to rangedfa/thompson.go ---

type nTrans[S any] struct {
	Lo, Hi S
	Target int
}

type nState[S any] struct {
	ranges []nTrans[S]
	final  bool
}

type builder[S any] struct {
	a      alphabet.Alphabet[S]
	states []nState[S]
}

func newBuilder[S any](a alphabet.Alphabet[S]) *builder[S] {
	return &builder[S]{a: a}
}

func (b *builder[S]) importDFA(d rangedfa.DFA[S]) (start int, idMap []int) {
	base := len(b.states)
	idMap = make([]int, len(d.States))
	for i := range d.States {
		idMap[i] = base + i
	}
	for _, st := range d.States {
		ns := nState[S]{final: st.Final}
		for _, tr := range st.Transitions {
			ns.ranges = append(ns.ranges, nTrans[S]{Lo: tr.Lo, Hi: tr.Hi, Target: idMap[tr.Next]})
		}
		b.states = append(b.states, ns)
	}
	return idMap[d.Initial], idMap
}

func setKey(set []int) string {
	var sb strings.Builder
	for _, s := range set {
		sb.WriteString(strconv.Itoa(s))
		sb.WriteByte(',')
	}
	return sb.String()
}

// determinize runs subset construction starting from the union of starts
// (no epsilons here: parts are already-built DFAs joined only at their
// roots, so a plain union of start states suffices as the seed set).
// tagOf computes (tag, ok) for a given subset of source states; ok is false
// when the subset contains no final source state. determinize is a
// standalone generic function, not a method, because Go methods cannot
// introduce a type parameter (T) beyond the receiver's own (S).
func determinize[S any, T any](b *builder[S], starts []int, unmatched T, tagOf func([]int) (T, bool)) DFA[S, T] {
	a := b.a

	var order [][]int
	index := map[string]rangedfa.StateID{}
	var dfaStates []State[S, T]

	get := func(set []int) rangedfa.StateID {
		sort.Ints(set)
		k := setKey(set)
		if id, ok := index[k]; ok {
			return id
		}
		tag, final := tagOf(set)
		id := rangedfa.StateID(len(order))
		index[k] = id
		order = append(order, set)
		dfaStates = append(dfaStates, State[S, T]{Final: final, Tag: tag})
		return id
	}

	startID := get(starts)

	for i := 0; i < len(order); i++ {
		set := order[i]

		var pieceSets []alphabet.RangeSet[S]
		var pieces []nTrans[S]
		for _, s := range set {
			for _, tr := range b.states[s].ranges {
				pieceSets = append(pieceSets, alphabet.Of(a, tr.Lo, tr.Hi))
				pieces = append(pieces, tr)
			}
		}
		if len(pieces) == 0 {
			continue
		}

		part := alphabet.Refine(a, pieceSets)
		var transitions []rangedfa.RangeTransition[S]
		for bi, block := range part.Blocks {
			var next []int
			for k, mem := range part.Membership[bi] {
				if mem {
					next = append(next, pieces[k].Target)
				}
			}
			if len(next) == 0 {
				continue
			}
			target := get(next)
			transitions = append(transitions, rangedfa.RangeTransition[S]{Lo: block.Lo, Hi: block.Hi, Next: target})
		}
		dfaStates[i].Transitions = transitions
	}

	return DFA[S, T]{Alphabet: a, States: dfaStates, Initial: startID, Unmatched: unmatched}
}
