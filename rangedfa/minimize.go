package rangedfa

import (
	"github.com/awwright/grammarswiki-fsm/alphabet"
)

// Minimized returns the canonical minimal-state DFA accepting the same
// language as d. Two DFAs over the same alphabet accepting the same
// language always minimize to structurally identical (byte-for-byte
// comparable after Go value equality) results, since state renumbering is a
// deterministic BFS from the initial state visiting outgoing ranges in
// ascending order.
//
// Algorithm: totalize, refine the whole DFA's transitions down to one
// shared global range alphabet (so every state has an entry for every
// block), then iteratively partition-refine state blocks by the Moore
// method (split a block whenever two of its states disagree, under the
// current partition, on which block any global-alphabet block's transition
// leads to) until the partition is stable. Moore's formulation of the
// partition refinement is used rather than Hopcroft's worklist; it still
// runs the refinement to a fixed point, which is all correctness requires.
func (d DFA[S]) Minimized() DFA[S] {
	total := d.Totalize()
	a := total.Alphabet

	// Step 1: one shared alphabet across every state.
	var sets []alphabet.RangeSet[S]
	for _, st := range total.States {
		for _, tr := range st.Transitions {
			sets = append(sets, alphabet.Of(a, tr.Lo, tr.Hi))
		}
	}
	part := alphabet.Refine(a, sets)

	blockTarget := make([][]StateID, len(total.States))
	for q := range total.States {
		blockTarget[q] = make([]StateID, len(part.Blocks))
		for bi, block := range part.Blocks {
			next, ok := total.Step(StateID(q), block.Lo)
			_ = ok // totalized: always present
			blockTarget[q][bi] = next
		}
	}

	// Step 2: initial partition {finals}, {non-finals}.
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
		changed := false
		sig := make([]string, len(total.States))
		for q := range total.States {
			sig[q] = signature(groupOf[q], blockTarget[q], groupOf)
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
		if next != numGroups {
			changed = true
		} else {
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

	// Step 3: build one state per group, transitions on the global blocks.
	groupFinal := make([]bool, numGroups)
	groupTarget := make([][]int, numGroups)
	for g := range groupTarget {
		groupTarget[g] = make([]int, len(part.Blocks))
		for bi := range groupTarget[g] {
			groupTarget[g][bi] = -1
		}
	}
	for q, st := range total.States {
		g := groupOf[q]
		groupFinal[g] = groupFinal[g] || st.Final
		for bi := range part.Blocks {
			groupTarget[g][bi] = groupOf[blockTarget[q][bi]]
		}
	}
	initialGroup := groupOf[total.Initial]

	// Step 4: canonical renumbering via BFS from the initial group, outgoing
	// edges visited in ascending block order (blocks are already ascending).
	renum := make([]int, numGroups)
	for i := range renum {
		renum[i] = -1
	}
	order := []int{initialGroup}
	renum[initialGroup] = 0
	for head := 0; head < len(order); head++ {
		g := order[head]
		for _, bi := range sortedBlockIndices(part) {
			t := groupTarget[g][bi]
			if t >= 0 && renum[t] == -1 {
				renum[t] = len(order)
				order = append(order, t)
			}
		}
	}

	states := make([]State[S], len(order))
	for newID, g := range order {
		var transitions []RangeTransition[S]
		for bi, block := range part.Blocks {
			t := groupTarget[g][bi]
			if t < 0 || renum[t] == -1 {
				continue
			}
			next := StateID(renum[t])
			// Merge adjacent blocks leading to the same state, so the result
			// does not depend on how finely d's own ranges were split.
			if n := len(transitions); n > 0 && transitions[n-1].Next == next && alphabet.Adjacent(a, transitions[n-1].Hi, block.Lo) {
				transitions[n-1].Hi = block.Hi
				continue
			}
			transitions = append(transitions, RangeTransition[S]{Lo: block.Lo, Hi: block.Hi, Next: next})
		}
		states[newID] = State[S]{Transitions: transitions, Final: groupFinal[g]}
	}

	result := DFA[S]{Alphabet: a, States: states, Initial: 0}
	return pruneDeadSink(result)
}

func signature(own int, targets []StateID, groupOf []int) string {
	b := make([]byte, 0, 8*(len(targets)+1))
	b = appendInt(b, own)
	for _, t := range targets {
		b = append(b, '|')
		b = appendInt(b, groupOf[t])
	}
	return string(b)
}

func appendInt(b []byte, v int) []byte {
	if v == 0 {
		return append(b, '0')
	}
	neg := v < 0
	if neg {
		v = -v
		b = append(b, '-')
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

// sortedBlockIndices returns block indices in ascending order. Refine
// already emits Blocks sorted by Lo, so this is the identity permutation;
// it exists as a named step so the canonical-renumbering algorithm reads
// the same way regardless of how Refine happens to order its output.
func sortedBlockIndices[S any](part alphabet.Partition[S]) []int {
	idx := make([]int, len(part.Blocks))
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// pruneDeadSink drops a single non-final state whose every transition loops
// to itself (the totalized dead sink) from the output, restoring the
// implicit-dead-state convention so minimization doesn't artificially
// inflate the reachable state count.
func pruneDeadSink[S any](d DFA[S]) DFA[S] {
	dead := -1
	for q, st := range d.States {
		if st.Final {
			continue
		}
		allSelf := len(st.Transitions) > 0
		for _, tr := range st.Transitions {
			if tr.Next != StateID(q) {
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
		var transitions []RangeTransition[S]
		for _, tr := range st.Transitions {
			if int(tr.Next) == dead {
				continue
			}
			transitions = append(transitions, RangeTransition[S]{Lo: tr.Lo, Hi: tr.Hi, Next: StateID(remap[tr.Next])})
		}
		states[remap[q]] = State[S]{Transitions: transitions, Final: st.Final}
	}
	return DFA[S]{Alphabet: d.Alphabet, States: states, Initial: StateID(remap[d.Initial])}
}
