package rangedfa

import (
	"sort"
	"strconv"
	"strings"

	"github.com/awwright/grammarswiki-fsm/alphabet"
)

// nTrans and nState form a small Thompson-style fragment builder: an
// epsilon-NFA assembled directly from already-built DFA fragments (rather
// than from a regex AST, since at this layer we only ever combine whole
// automata, not individual characters). determinize then runs subset
// construction over it, using alphabet.Refine to build a
// common transition alphabet at each subset instead of branching per
// individual symbol.
type nTrans[S any] struct {
	Lo, Hi S
	Target int
}

type nState[S any] struct {
	ranges []nTrans[S]
	eps    []int
	final  bool
}

type builder[S any] struct {
	a      alphabet.Alphabet[S]
	states []nState[S]
}

func newBuilder[S any](a alphabet.Alphabet[S]) *builder[S] {
	return &builder[S]{a: a}
}

func (b *builder[S]) newState() int {
	b.states = append(b.states, nState[S]{})
	return len(b.states) - 1
}

func (b *builder[S]) addEps(from, to int) {
	b.states[from].eps = append(b.states[from].eps, to)
}

func (b *builder[S]) addRange(from int, lo, hi S, to int) {
	b.states[from].ranges = append(b.states[from].ranges, nTrans[S]{Lo: lo, Hi: hi, Target: to})
}

func (b *builder[S]) setFinal(s int) {
	b.states[s].final = true
}

// importDFA copies d's states into the builder and returns: the imported
// start state id, and a slice mapping each of d's StateIDs to the
// corresponding new builder state id.
func (b *builder[S]) importDFA(d DFA[S]) (start int, idMap []int) {
	base := len(b.states)
	idMap = make([]int, len(d.States))
	for i, st := range d.States {
		idMap[i] = base + i
		_ = st
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

func (b *builder[S]) epsClosure(seed []int) []int {
	seen := make(map[int]bool, len(seed))
	var stack, out []int
	for _, s := range seed {
		if !seen[s] {
			seen[s] = true
			stack = append(stack, s)
			out = append(out, s)
		}
	}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, t := range b.states[s].eps {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
				stack = append(stack, t)
			}
		}
	}
	sort.Ints(out)
	return out
}

func setKey(set []int) string {
	var sb strings.Builder
	for _, s := range set {
		sb.WriteString(strconv.Itoa(s))
		sb.WriteByte(',')
	}
	return sb.String()
}

// determinize runs subset construction from the given start states (treated
// as alternatives reached by implicit epsilon from a virtual super-start),
// producing a RangeDFA.
func (b *builder[S]) determinize(starts []int) DFA[S] {
	a := b.a
	startSet := b.epsClosure(starts)

	var order [][]int
	index := map[string]StateID{}
	var dfaStates []State[S]

	get := func(set []int) StateID {
		k := setKey(set)
		if id, ok := index[k]; ok {
			return id
		}
		final := false
		for _, s := range set {
			if b.states[s].final {
				final = true
				break
			}
		}
		id := StateID(len(order))
		index[k] = id
		order = append(order, set)
		dfaStates = append(dfaStates, State[S]{Final: final})
		return id
	}

	startID := get(startSet)

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
		var transitions []RangeTransition[S]
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
			closure := b.epsClosure(next)
			if len(closure) == 0 {
				continue
			}
			target := get(closure)
			transitions = append(transitions, RangeTransition[S]{Lo: block.Lo, Hi: block.Hi, Next: target})
		}
		dfaStates[i].Transitions = transitions
	}

	return DFA[S]{Alphabet: a, States: dfaStates, Initial: startID}
}

// Union returns the DFA accepting L(a) ∪ L(b).
func Union[S any](a, other DFA[S]) DFA[S] {
	b := newBuilder(a.Alphabet)
	startA, _ := b.importDFA(a)
	startB, _ := b.importDFA(other)
	return b.determinize([]int{startA, startB})
}

// Concatenation returns the DFA accepting L(a)·L(other): every string
// formed by a string in L(a) followed by a string in L(other).
func Concatenation[S any](a, other DFA[S]) DFA[S] {
	b := newBuilder(a.Alphabet)
	startA, idMapA := b.importDFA(a)
	startB, _ := b.importDFA(other)
	// a's finals stop being accepting: a string is only accepted once it
	// has also crossed into (and satisfied) other.
	for i, st := range a.States {
		if st.Final {
			b.addEps(idMapA[i], startB)
			b.states[idMapA[i]].final = false
		}
	}
	return b.determinize([]int{startA})
}

// Star returns the DFA accepting L(a)* (zero or more repetitions).
func Star[S any](a DFA[S]) DFA[S] {
	b := newBuilder(a.Alphabet)
	start, idMap := b.importDFA(a)
	super := b.newState()
	b.setFinal(super)
	b.addEps(super, start)
	for i, st := range a.States {
		if st.Final {
			b.addEps(idMap[i], start)
		}
	}
	return b.determinize([]int{super})
}

// Plus returns the DFA accepting L(a)+ (one or more repetitions).
func Plus[S any](a DFA[S]) DFA[S] {
	return Concatenation(a, Star(a))
}

// Optional returns the DFA accepting L(a) ∪ {epsilon}.
func Optional[S any](a DFA[S]) DFA[S] {
	return Union(a, Epsilon(a.Alphabet))
}
