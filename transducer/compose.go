package transducer

// pair identifies a product state: one state from each operand transducer.
type pair struct{ a, b StateID }

// Compose builds DFT[S,U] accepting s iff a accepts s (producing t = a.Map(s))
// and b accepts t, with output b.Map(t) — a product construction over state
// pairs, driving b through a's per-symbol output at every step and
// concatenating b's output as it goes.
func Compose[S comparable, T comparable, U comparable](a DFT[S, T], b DFT[T, U]) DFT[S, U] {
	index := map[pair]StateID{}
	var order []pair
	var states []State[S, U]

	get := func(p pair) StateID {
		if id, ok := index[p]; ok {
			return id
		}
		id := StateID(len(order))
		index[p] = id
		order = append(order, p)
		states = append(states, State[S, U]{
			Transitions: map[S]Transition[S, U]{},
			Final:       a.States[p.a].Final && b.States[p.b].Final,
		})
		return id
	}

	start := get(pair{a.Initial, b.Initial})

	for i := 0; i < len(order); i++ {
		p := order[i]
		for sym, trA := range a.States[p.a].Transitions {
			bEnd, out, ok := driveB(b, p.b, trA.Output)
			if !ok {
				continue
			}
			next := get(pair{trA.Next, bEnd})
			states[i].Transitions[sym] = Transition[S, U]{Output: out, Next: next}
		}
	}

	return DFT[S, U]{Alphabet: a.Alphabet, States: states, Initial: start}
}

// driveB runs b from state start over the symbol sequence seq, returning
// the state reached and the concatenated output, or ok=false the moment
// seq contains a symbol b has no transition for.
func driveB[T comparable, U comparable](b DFT[T, U], start StateID, seq []T) (end StateID, out []U, ok bool) {
	q := start
	for _, sym := range seq {
		tr, present := b.States[q].Transitions[sym]
		if !present {
			return 0, nil, false
		}
		out = append(out, tr.Output...)
		q = tr.Next
	}
	return q, out, true
}
