package compiler

import (
	"sort"
	"strings"

	"github.com/awwright/grammarswiki-fsm/abnf"
	"github.com/awwright/grammarswiki-fsm/fsmerr"
)

// Config tunes the compiler's behavior. The zero-valued Config is
// unbounded: StateBudget of 0 means no per-rule state-count limit is
// enforced; the compiler never silently truncates, it either completes or
// fails with an error.
type Config struct {
	// StateBudget, if nonzero, is the maximum number of states any single
	// compiled rule's automaton may reach before compilation fails with
	// fsmerr.OverflowError. Checked after each rule compiles, so a
	// pathological product construction can still transiently exceed it
	// in memory.
	StateBudget int
}

// DefaultConfig returns the unbounded configuration.
func DefaultConfig() Config { return Config{} }

// ConfigError reports an invalid Config.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "compiler: invalid config field " + e.Field + ": " + e.Message
}

// Validate reports whether c is well-formed.
func (c Config) Validate() error {
	if c.StateBudget < 0 {
		return &ConfigError{Field: "StateBudget", Message: "must be non-negative"}
	}
	return nil
}

// ruleIndex is the lowercase-name -> rule lookup built once per Compile
// call. The parser has already merged "=/" extensions in textual order, so
// this is a simple case-insensitive index, not a merge.
type ruleIndex map[string]*abnf.Rule

func buildIndex(rl *abnf.Rulelist) ruleIndex {
	idx := make(ruleIndex, len(rl.Rules))
	for _, r := range rl.Rules {
		idx[strings.ToLower(r.Name)] = r
	}
	return idx
}

// refs returns the lowercased names of every rule referenced anywhere
// within alt, including inside groups, options, and repetitions.
func refs(alt abnf.Alternation) []string {
	var out []string
	var walkElement func(abnf.Element)
	var walkAlt func(abnf.Alternation)

	walkAlt = func(a abnf.Alternation) {
		for _, c := range a.Concats {
			for _, rep := range c.Reps {
				walkElement(rep.Element)
			}
		}
	}
	walkElement = func(el abnf.Element) {
		switch e := el.(type) {
		case abnf.RuleRef:
			out = append(out, strings.ToLower(e.Name))
		case abnf.Group:
			walkAlt(e.Alt)
		case abnf.Option:
			walkAlt(e.Alt)
		}
	}

	walkAlt(alt)
	return out
}

// reachable returns the set of lowercased rule names reachable from root
// (inclusive) by following RuleRef edges, ignoring references to names
// absent from idx (those are reported as UndefinedRule when the element
// that uses them is actually compiled).
func reachable(idx ruleIndex, root string) map[string]bool {
	seen := map[string]bool{root: true}
	queue := []string{root}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		rule, ok := idx[name]
		if !ok {
			continue
		}
		for _, dep := range refs(rule.Alt) {
			if _, defined := idx[dep]; !defined {
				continue
			}
			if !seen[dep] {
				seen[dep] = true
				queue = append(queue, dep)
			}
		}
	}
	return seen
}

// tarjanSCC computes the strongly connected components of the subgraph of
// idx restricted to names, returned in an order where every component's
// dependencies appear before it (Tarjan's algorithm naturally closes off a
// component only once everything it can reach has already been closed off,
// which is exactly the order rules must compile in).
func tarjanSCC(idx ruleIndex, names map[string]bool) [][]string {
	type nodeState struct {
		index, lowlink int
		onStack        bool
	}
	states := map[string]*nodeState{}
	var stack []string
	var sccs [][]string
	counter := 0

	var strongconnect func(v string)
	strongconnect = func(v string) {
		st := &nodeState{index: counter, lowlink: counter, onStack: true}
		states[v] = st
		counter++
		stack = append(stack, v)

		var deps []string
		if rule, ok := idx[v]; ok {
			deps = refs(rule.Alt)
		}
		sort.Strings(deps)
		for _, w := range deps {
			if !names[w] {
				continue
			}
			ws, visited := states[w]
			if !visited {
				strongconnect(w)
				ws = states[w]
				if ws.lowlink < st.lowlink {
					st.lowlink = ws.lowlink
				}
			} else if ws.onStack {
				if ws.index < st.lowlink {
					st.lowlink = ws.index
				}
			}
		}

		if st.lowlink == st.index {
			var comp []string
			for {
				n := len(stack) - 1
				w := stack[n]
				stack = stack[:n]
				states[w].onStack = false
				comp = append(comp, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, comp)
		}
	}

	var ordered []string
	for n := range names {
		ordered = append(ordered, n)
	}
	sort.Strings(ordered)
	for _, n := range ordered {
		if _, visited := states[n]; !visited {
			strongconnect(n)
		}
	}
	return sccs
}

// isSelfRecursive reports whether name appears among its own refs.
func isSelfRecursive(idx ruleIndex, name string) bool {
	rule, ok := idx[name]
	if !ok {
		return false
	}
	for _, r := range refs(rule.Alt) {
		if r == name {
			return true
		}
	}
	return false
}

// compileOrder returns the rule names reachable from target, in dependency
// order (a name's referenced rules all precede it), or a *fsmerr.NonRegularError
// if any strongly connected component among them is non-regular: an SCC of
// more than one rule, or a single rule that references itself, cannot be
// compiled to a DFA.
func compileOrder(idx ruleIndex, target string) ([]string, error) {
	names := reachable(idx, target)
	sccs := tarjanSCC(idx, names)

	var order []string
	for _, comp := range sccs {
		if len(comp) > 1 {
			sort.Strings(comp)
			return nil, &fsmerr.NonRegularError{Cycle: comp}
		}
		if isSelfRecursive(idx, comp[0]) {
			return nil, &fsmerr.NonRegularError{Cycle: comp}
		}
		order = append(order, comp[0])
	}
	return order, nil
}
