package rangedfa

import "github.com/awwright/grammarswiki-fsm/alphabet"

type pair struct{ a, b StateID }

// Intersection returns the DFA accepting L(x) ∩ L(y), via product
// construction: state (qx, qy) is final iff both qx and qy are final.
// Unlike Union/Concatenation/Star, this needs no epsilon-NFA detour since
// both operands are already deterministic — only the pair of reachable
// states and the alphabet.Refine of their respective outgoing ranges are
// needed.
func Intersection[S any](x, y DFA[S]) DFA[S] {
	return buildProduct(x, y, func(xf, yf bool) bool { return xf && yf })
}

// Difference returns the DFA accepting L(x) \ L(y) (x ∩ complement(y)).
func Difference[S any](x, y DFA[S]) DFA[S] {
	return Intersection(x, Complement(y))
}

// Complement returns the DFA accepting Σ* \ L(x): every string not accepted
// by x. Requires totalizing x first so flipping Final is sound even for
// strings that dead-end.
func Complement[S any](x DFA[S]) DFA[S] {
	total := x.Totalize()
	states := make([]State[S], len(total.States))
	for i, st := range total.States {
		states[i] = State[S]{Transitions: st.Transitions, Final: !st.Final}
	}
	return DFA[S]{Alphabet: total.Alphabet, States: states, Initial: total.Initial}
}

func buildProduct[S any](x, y DFA[S], finalOf func(xFinal, yFinal bool) bool) DFA[S] {
	a := x.Alphabet

	index := map[pair]StateID{}
	var order []pair
	var states []State[S]

	get := func(p pair) StateID {
		if id, ok := index[p]; ok {
			return id
		}
		id := StateID(len(order))
		index[p] = id
		order = append(order, p)
		states = append(states, State[S]{Final: finalOf(x.IsFinal(p.a), y.IsFinal(p.b))})
		return id
	}

	start := get(pair{x.Initial, y.Initial})

	for i := 0; i < len(order); i++ {
		p := order[i]
		xTrans := x.States[p.a].Transitions
		yTrans := y.States[p.b].Transitions
		if len(xTrans) == 0 || len(yTrans) == 0 {
			continue
		}

		var sets []alphabet.RangeSet[S]
		type piece struct {
			from int // 0 = x, 1 = y
			next StateID
		}
		var pieces []piece
		for _, tr := range xTrans {
			sets = append(sets, alphabet.Of(a, tr.Lo, tr.Hi))
			pieces = append(pieces, piece{from: 0, next: tr.Next})
		}
		for _, tr := range yTrans {
			sets = append(sets, alphabet.Of(a, tr.Lo, tr.Hi))
			pieces = append(pieces, piece{from: 1, next: tr.Next})
		}

		part := alphabet.Refine(a, sets)
		var transitions []RangeTransition[S]
		for bi, block := range part.Blocks {
			var nx, ny StateID
			haveX, haveY := false, false
			for k, mem := range part.Membership[bi] {
				if !mem {
					continue
				}
				if pieces[k].from == 0 {
					nx, haveX = pieces[k].next, true
				} else {
					ny, haveY = pieces[k].next, true
				}
			}
			if !haveX || !haveY {
				continue
			}
			target := get(pair{nx, ny})
			transitions = append(transitions, RangeTransition[S]{Lo: block.Lo, Hi: block.Hi, Next: target})
		}
		states[i].Transitions = transitions
	}

	return DFA[S]{Alphabet: a, States: states, Initial: start}
}
