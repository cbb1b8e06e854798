package symboldfa

import (
	"sort"
	"strconv"
	"strings"

	"github.com/awwright/grammarswiki-fsm/alphabet"
)

// nState is an epsilon-NFA fragment state assembled directly from
// already-built DFA fragments, mirroring rangedfa's internal builder but
// keyed by individual symbol rather than range.
type nState[S comparable] struct {
	trans map[S][]int
	eps   []int
	final bool
}

type builder[S comparable] struct {
	a      alphabet.Alphabet[S]
	states []nState[S]
}

func newBuilder[S comparable](a alphabet.Alphabet[S]) *builder[S] {
	return &builder[S]{a: a}
}

func (b *builder[S]) newState() int {
	b.states = append(b.states, nState[S]{trans: map[S][]int{}})
	return len(b.states) - 1
}

func (b *builder[S]) addEps(from, to int) {
	b.states[from].eps = append(b.states[from].eps, to)
}

func (b *builder[S]) setFinal(s int) { b.states[s].final = true }

func (b *builder[S]) importDFA(d DFA[S]) (start int, idMap []int) {
	base := len(b.states)
	idMap = make([]int, len(d.States))
	for i := range d.States {
		idMap[i] = base + i
	}
	for _, st := range d.States {
		ns := nState[S]{trans: map[S][]int{}, final: st.Final}
		for sym, next := range st.Transitions {
			ns.trans[sym] = append(ns.trans[sym], idMap[next])
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

func (b *builder[S]) determinize(starts []int) DFA[S] {
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
		dfaStates = append(dfaStates, State[S]{Transitions: map[S]StateID{}, Final: final})
		return id
	}

	startID := get(startSet)

	for i := 0; i < len(order); i++ {
		set := order[i]
		bySymbol := map[S][]int{}
		for _, s := range set {
			for sym, targets := range b.states[s].trans {
				bySymbol[sym] = append(bySymbol[sym], targets...)
			}
		}
		for sym, targets := range bySymbol {
			closure := b.epsClosure(targets)
			if len(closure) == 0 {
				continue
			}
			dfaStates[i].Transitions[sym] = get(closure)
		}
	}

	return DFA[S]{Alphabet: b.a, States: dfaStates, Initial: startID}
}

// Union returns the DFA accepting L(a) ∪ L(other).
func Union[S comparable](a, other DFA[S]) DFA[S] {
	b := newBuilder(a.Alphabet)
	startA, _ := b.importDFA(a)
	startB, _ := b.importDFA(other)
	return b.determinize([]int{startA, startB})
}

// Concatenation returns the DFA accepting L(a)·L(other).
func Concatenation[S comparable](a, other DFA[S]) DFA[S] {
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
func Star[S comparable](a DFA[S]) DFA[S] {
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
func Plus[S comparable](a DFA[S]) DFA[S] { return Concatenation(a, Star(a)) }

// Optional returns the DFA accepting L(a) ∪ {epsilon}.
func Optional[S comparable](a DFA[S]) DFA[S] { return Union(a, Epsilon(a.Alphabet)) }
