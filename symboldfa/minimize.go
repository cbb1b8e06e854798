package symboldfa

// Minimized returns the canonical minimal-state DFA accepting the same
// language as d, via Hopcroft-style partition refinement:
// totalize, start from {finals}/{non-finals}, iteratively split blocks
// whose member states disagree on which block some symbol's transition
// leads to, then renumber by BFS from the initial state with outgoing
// symbols visited in alphabet order.
func (d DFA[S]) Minimized() DFA[S] {
	total := d.Totalize()
	universe := allSymbols(total.Alphabet)

	groupOf := make([]int, len(total.States))
	for q, st := range total.States {
		if st.Final {
			groupOf[q] = 0
		} else {
			groupOf[q] = 1
		}
	}
	numGroups := 2

	for {
		sig := make([]string, len(total.States))
		for q := range total.States {
			sig[q] = signature(groupOf[q], q, universe, total, groupOf)
		}
		newGroupOf := make([]int, len(total.States))
		sigToGroup := map[string]int{}
		next := 0
		for q := range total.States {
			g, ok := sigToGroup[sig[q]]
			if !ok {
				g = next
				sigToGroup[sig[q]] = g
				next++
			}
			newGroupOf[q] = g
		}
		changed := next != numGroups
		if !changed {
			for q := range total.States {
				if newGroupOf[q] != groupOf[q] {
					changed = true
					break
				}
			}
		}
		groupOf = newGroupOf
		numGroups = next
		if !changed {
			break
		}
	}

	groupFinal := make([]bool, numGroups)
	groupTarget := make([]map[S]int, numGroups)
	for g := range groupTarget {
		groupTarget[g] = map[S]int{}
	}
	for q, st := range total.States {
		g := groupOf[q]
		groupFinal[g] = groupFinal[g] || st.Final
		for _, sym := range universe {
			if next, ok := st.Transitions[sym]; ok {
				groupTarget[g][sym] = groupOf[next]
			}
		}
	}
	initialGroup := groupOf[total.Initial]

	renum := make([]int, numGroups)
	for i := range renum {
		renum[i] = -1
	}
	order := []int{initialGroup}
	renum[initialGroup] = 0
	for head := 0; head < len(order); head++ {
		g := order[head]
		for _, sym := range universe {
			t, ok := groupTarget[g][sym]
			if ok && renum[t] == -1 {
				renum[t] = len(order)
				order = append(order, t)
			}
		}
	}

	states := make([]State[S], len(order))
	for newID, g := range order {
		trans := map[S]StateID{}
		for sym, t := range groupTarget[g] {
			if renum[t] == -1 {
				continue
			}
			trans[sym] = StateID(renum[t])
		}
		states[newID] = State[S]{Transitions: trans, Final: groupFinal[g]}
	}

	result := DFA[S]{Alphabet: total.Alphabet, States: states, Initial: 0}
	return pruneDeadSink(result)
}

func signature[S comparable](own int, q int, universe []S, d DFA[S], groupOf []int) string {
	b := make([]byte, 0, 8*(len(universe)+1))
	b = appendInt(b, own)
	for _, sym := range universe {
		b = append(b, '|')
		if next, ok := d.States[q].Transitions[sym]; ok {
			b = appendInt(b, groupOf[next])
		} else {
			b = append(b, 'x')
		}
	}
	return string(b)
}

func appendInt(b []byte, v int) []byte {
	if v == 0 {
		return append(b, '0')
	}
	start := len(b)
	for v > 0 {
		b = append(b, byte('0'+v%10))
		v /= 10
	}
	for i, j := start, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return b
}

// pruneDeadSink drops a single non-final state whose every transition loops
// to itself, restoring the implicit-dead-state convention.
func pruneDeadSink[S comparable](d DFA[S]) DFA[S] {
	dead := -1
	for q, st := range d.States {
		if st.Final || len(st.Transitions) == 0 {
			continue
		}
		allSelf := true
		for _, v := range st.Transitions {
			if int(v) != q {
				allSelf = false
				break
			}
		}
		if allSelf {
			dead = q
			break
		}
	}
	if dead == -1 || StateID(dead) == d.Initial {
		return d
	}

	states := make([]State[S], 0, len(d.States)-1)
	remap := make([]int, len(d.States))
	for q := range d.States {
		if q == dead {
			remap[q] = -1
			continue
		}
		remap[q] = len(states)
		states = append(states, State[S]{})
	}
	for q, st := range d.States {
		if q == dead {
			continue
		}
		trans := map[S]StateID{}
		for sym, next := range st.Transitions {
			if int(next) == dead {
				continue
			}
			trans[sym] = StateID(remap[next])
		}
		states[remap[q]] = State[S]{Transitions: trans, Final: st.Final}
	}
	return DFA[S]{Alphabet: d.Alphabet, States: states, Initial: StateID(remap[d.Initial])}
}
