package symboldfa

// IsEmpty reports whether d accepts no strings.
func (d DFA[S]) IsEmpty() bool {
	if len(d.States) == 0 {
		return true
	}
	seen := make([]bool, len(d.States))
	stack := []StateID{d.Initial}
	seen[d.Initial] = true
	for len(stack) > 0 {
		q := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if d.States[q].Final {
			return false
		}
		for _, next := range d.States[q].Transitions {
			if !seen[next] {
				seen[next] = true
				stack = append(stack, next)
			}
		}
	}
	return true
}

// IsEquivalent reports whether d and other accept the same language.
func IsEquivalent[S comparable](d, other DFA[S]) bool {
	diffAB := Difference(d, other)
	diffBA := Difference(other, d)
	return diffAB.IsEmpty() && diffBA.IsEmpty()
}

// Subpaths returns the DFA of strings labeling any path in d from state
// source to any state in targets.
func (d DFA[S]) Subpaths(source StateID, targets []StateID) DFA[S] {
	final := make(map[StateID]bool, len(targets))
	for _, t := range targets {
		final[t] = true
	}
	states := make([]State[S], len(d.States))
	for q, st := range d.States {
		states[q] = State[S]{Transitions: st.Transitions, Final: final[StateID(q)]}
	}
	return DFA[S]{Alphabet: d.Alphabet, States: states, Initial: source}
}

// Derive returns the DFA that accepts strings in d whose suffixes, after
// some prefix in prefixSet, reach a final state of d — the left quotient of
// d by the language of prefixSet.
func Derive[S comparable](d, prefixSet DFA[S]) DFA[S] {
	type pr struct{ dq, pq StateID }
	seen := map[pr]bool{}
	var boundary []StateID
	boundarySeen := map[StateID]bool{}

	var stack []pr
	start := pr{d.Initial, prefixSet.Initial}
	stack = append(stack, start)
	seen[start] = true
	if prefixSet.IsFinal(prefixSet.Initial) {
		boundarySeen[d.Initial] = true
		boundary = append(boundary, d.Initial)
	}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for sym, pNext := range prefixSet.States[cur.pq].Transitions {
			dNext, ok := d.States[cur.dq].Transitions[sym]
			if !ok {
				continue
			}
			np := pr{dNext, pNext}
			if seen[np] {
				continue
			}
			seen[np] = true
			stack = append(stack, np)
			if prefixSet.IsFinal(pNext) && !boundarySeen[dNext] {
				boundarySeen[dNext] = true
				boundary = append(boundary, dNext)
			}
		}
	}

	if len(boundary) == 0 {
		return EmptyLang(d.Alphabet)
	}

	b := newBuilder(d.Alphabet)
	_, idMap := b.importDFA(d)
	starts := make([]int, len(boundary))
	for i, q := range boundary {
		starts[i] = idMap[q]
	}
	return b.determinize(starts)
}
