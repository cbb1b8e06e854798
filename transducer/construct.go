package transducer

import "github.com/awwright/grammarswiki-fsm/symboldfa"

// Top builds the transducer that accepts exactly L(d), emitting the empty
// output on every accepted input.
func Top[S comparable, O comparable](d symboldfa.DFA[S]) DFT[S, O] {
	return fromDFA[S, O](d, func(S) []O { return nil })
}

// Bottom builds the transducer that accepts exactly L(d), emitting the
// consumed input symbol itself on each transition — the
// identity transducer.
func Bottom[S comparable](d symboldfa.DFA[S]) DFT[S, S] {
	return fromDFA[S, S](d, func(sym S) []S { return []S{sym} })
}

// fromDFA copies d's transition structure, attaching output(sym) to each
// transition on symbol sym.
func fromDFA[S comparable, O comparable](d symboldfa.DFA[S], output func(S) []O) DFT[S, O] {
	states := make([]State[S, O], len(d.States))
	for i, st := range d.States {
		trans := make(map[S]Transition[S, O], len(st.Transitions))
		for sym, next := range st.Transitions {
			trans[sym] = Transition[S, O]{Output: output(sym), Next: StateID(next)}
		}
		states[i] = State[S, O]{Transitions: trans, Final: st.Final}
	}
	return DFT[S, O]{Alphabet: d.Alphabet, States: states, Initial: StateID(d.Initial)}
}
