// Package regexemit implements the regex emitter:
// converting a minimized RangeDFA back into a textual regular expression
// via state elimination, the classical GNFA-reduction algorithm.
//
// The DFA's states, plus two synthetic nodes (a start node with a single
// empty-string edge into the DFA's actual initial state, and an accepting
// node reached by an empty-string edge from every DFA-final state), form a
// generalized NFA whose edges are labeled with regex fragments instead of
// single symbols. Every one of the DFA's own states — including its
// initial state, which may carry a self-loop the synthetic start node lets
// it shed safely — is eliminated in ascending state-id order, folding its
// incoming/outgoing/self-loop edges into the regexes labeling the
// remaining edges, until only the start-to-accept edge survives: that
// edge's label is the emitted regex. Elimination order is fixed at
// ascending id so the same minimized DFA always emits byte-identical
// text.
package regexemit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/awwright/grammarswiki-fsm/alphabet"
	"github.com/awwright/grammarswiki-fsm/rangedfa"
)

// Width selects the escape form used for character-class endpoints:
// 8-bit alphabets use \xHH, 16-bit
// use \uHHHH, and anything wider (the 21-bit Unicode scalar space) uses
// \u{HHHHHH}.
type Width int

const (
	Width8 Width = iota
	Width16
	Width21
)

// Options binds the emitter to a concrete symbol type: ToValue converts a
// symbol to its integer value for escaping, and Width selects escape form.
type Options[S any] struct {
	ToValue func(S) uint32
	Width   Width
}

// Emit converts d into a regex literal: concatenation by juxtaposition,
// alternation by "|", grouping with "(...)", Kleene "*", "+", "?",
// character classes "[a-z...]", the empty language as the literal "[]",
// and the empty string as the empty regex (a zero-length result, the
// documented sentinel). d is minimized internally first so Emit is a
// canonical function of the language d denotes, not of d's particular
// (possibly redundant) state graph.
func Emit[S any](d rangedfa.DFA[S], opts Options[S]) string {
	min := d.Minimized()
	g := newGraph(min)
	root := g.eliminate()
	return stringify(root, opts, precTop)
}

// --- GNFA construction and elimination ---

type node[S any] struct {
	kind     nkind
	ranges   []alphabet.ClosedRange[S]
	children []*node[S] // concat (in order) or alt (unordered-but-stable)
	child    *node[S]   // star/plus/optional
}

type nkind int

const (
	kEmptySet nkind = iota
	kEmptyStr
	kChar
	kConcat
	kAlt
	kStar
	kPlus
	kOpt
)

// graph is a generalized NFA over the DFA's n states plus two synthetic
// nodes: start (index n) and final (index n+1). Both synthetic nodes are
// held fixed through elimination — start exists so that even the DFA's own
// initial state (which may carry a self-loop, e.g. after Star) can be
// eliminated like any other interior state, per the classical GNFA
// reduction this package implements.
type graph[S any] struct {
	a     alphabet.Alphabet[S]
	n     int // number of DFA states
	start int // synthetic start node, id == n
	final int // synthetic accept node, id == n+1
	edges [][]*node[S]
}

func newGraph[S any](d rangedfa.DFA[S]) *graph[S] {
	n := len(d.States)
	g := &graph[S]{a: d.Alphabet, n: n, start: n, final: n + 1}
	g.edges = make([][]*node[S], n+2)
	for i := range g.edges {
		g.edges[i] = make([]*node[S], n+2)
	}
	g.edges[g.start][int(d.Initial)] = &node[S]{kind: kEmptyStr}
	for q, st := range d.States {
		byTarget := map[rangedfa.StateID][]alphabet.ClosedRange[S]{}
		var order []rangedfa.StateID
		for _, tr := range st.Transitions {
			if _, ok := byTarget[tr.Next]; !ok {
				order = append(order, tr.Next)
			}
			byTarget[tr.Next] = append(byTarget[tr.Next], alphabet.ClosedRange[S]{Lo: tr.Lo, Hi: tr.Hi})
		}
		for _, next := range order {
			g.edges[q][int(next)] = &node[S]{kind: kChar, ranges: byTarget[next]}
		}
		if st.Final {
			g.edges[q][g.final] = altNode(g.edges[q][g.final], &node[S]{kind: kEmptyStr})
		}
	}
	return g
}

// eliminate runs the state-elimination loop and returns the final regex
// AST node labeling start -> final.
func (g *graph[S]) eliminate() *node[S] {
	var order []int
	for q := 0; q < g.n; q++ {
		order = append(order, q)
	}
	sort.Ints(order)

	for _, k := range order {
		self := g.edges[k][k]
		loop := starNode(self)

		var preds, succs []int
		for i := 0; i <= g.final; i++ {
			if i == k {
				continue
			}
			if g.edges[i][k] != nil {
				preds = append(preds, i)
			}
			if g.edges[k][i] != nil {
				succs = append(succs, i)
			}
		}
		for _, i := range preds {
			for _, j := range succs {
				term := concatNode(g.edges[i][k], loop, g.edges[k][j])
				g.edges[i][j] = altNode(g.edges[i][j], term)
			}
		}
		for i := 0; i <= g.final; i++ {
			g.edges[i][k] = nil
			g.edges[k][i] = nil
		}
	}

	result := g.edges[g.start][g.final]
	if result == nil {
		return &node[S]{kind: kEmptySet}
	}
	return foldRepetition(result)
}

// --- AST smart constructors (keep results in simplified form) ---

func concatNode[S any](parts ...*node[S]) *node[S] {
	var flat []*node[S]
	for _, p := range parts {
		if p == nil || p.kind == kEmptyStr {
			continue
		}
		if p.kind == kEmptySet {
			return &node[S]{kind: kEmptySet}
		}
		if p.kind == kConcat {
			flat = append(flat, p.children...)
			continue
		}
		flat = append(flat, p)
	}
	switch len(flat) {
	case 0:
		return &node[S]{kind: kEmptyStr}
	case 1:
		return flat[0]
	default:
		return &node[S]{kind: kConcat, children: flat}
	}
}

func altNode[S any](parts ...*node[S]) *node[S] {
	var flat []*node[S]
	for _, p := range parts {
		if p == nil || p.kind == kEmptySet {
			continue
		}
		if p.kind == kAlt {
			flat = append(flat, p.children...)
			continue
		}
		flat = append(flat, p)
	}
	switch len(flat) {
	case 0:
		return &node[S]{kind: kEmptySet}
	case 1:
		return flat[0]
	default:
		return &node[S]{kind: kAlt, children: flat}
	}
}

func starNode[S any](x *node[S]) *node[S] {
	if x == nil || x.kind == kEmptySet || x.kind == kEmptyStr {
		return &node[S]{kind: kEmptyStr}
	}
	if x.kind == kStar || x.kind == kPlus {
		return &node[S]{kind: kStar, child: x.child}
	}
	return &node[S]{kind: kStar, child: x}
}

// foldRepetition walks the AST bottom-up folding the two idioms the
// compiler's repetition compilation produces (compiler/element.go's
// compileRepetition) into the shorter
// surface syntax: concat(X, star(X)) -> plus(X), and alt(emptyStr, X) ->
// opt(X). Purely cosmetic: every fold preserves the denoted language.
func foldRepetition[S any](n *node[S]) *node[S] {
	switch n.kind {
	case kConcat:
		children := make([]*node[S], len(n.children))
		for i, c := range n.children {
			children[i] = foldRepetition(c)
		}
		for i := 0; i+1 < len(children); i++ {
			if children[i+1].kind == kStar && equalNode(children[i], children[i+1].child) {
				merged := &node[S]{kind: kPlus, child: children[i]}
				children = append(children[:i], append([]*node[S]{merged}, children[i+2:]...)...)
				i--
			}
		}
		if len(children) == 1 {
			return children[0]
		}
		return &node[S]{kind: kConcat, children: children}
	case kAlt:
		children := make([]*node[S], len(n.children))
		for i, c := range n.children {
			children[i] = foldRepetition(c)
		}
		hasEmpty := false
		var rest []*node[S]
		for _, c := range children {
			if c.kind == kEmptyStr {
				hasEmpty = true
				continue
			}
			rest = append(rest, c)
		}
		if hasEmpty && len(rest) == 1 {
			return &node[S]{kind: kOpt, child: rest[0]}
		}
		return &node[S]{kind: kAlt, children: children}
	case kStar:
		return &node[S]{kind: kStar, child: foldRepetition(n.child)}
	case kPlus:
		return &node[S]{kind: kPlus, child: foldRepetition(n.child)}
	case kOpt:
		return &node[S]{kind: kOpt, child: foldRepetition(n.child)}
	default:
		return n
	}
}

func equalNode[S any](a, b *node[S]) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case kEmptySet, kEmptyStr:
		return true
	case kChar:
		if len(a.ranges) != len(b.ranges) {
			return false
		}
		for i := range a.ranges {
			if !rangeEqual(a.ranges[i], b.ranges[i]) {
				return false
			}
		}
		return true
	case kStar, kPlus, kOpt:
		return equalNode(a.child, b.child)
	case kConcat, kAlt:
		if len(a.children) != len(b.children) {
			return false
		}
		for i := range a.children {
			if !equalNode(a.children[i], b.children[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// rangeEqual compares endpoints structurally; this is only used to detect
// the compiler's own repeated-subterm shape, where both sides were built from literally the same symbol value, so a
// plain comparable-free structural check (via fmt, which every concrete
// symbol type here supports) is sufficient without threading an Alphabet
// through the fold pass.
func rangeEqual[S any](a, b alphabet.ClosedRange[S]) bool {
	return fmt.Sprint(a.Lo) == fmt.Sprint(b.Lo) && fmt.Sprint(a.Hi) == fmt.Sprint(b.Hi)
}

// --- stringify ---

type precedence int

const (
	precTop precedence = iota
	precAlt
	precConcat
	precRepeat
)

func stringify[S any](n *node[S], opts Options[S], ctx precedence) string {
	switch n.kind {
	case kEmptySet:
		return "[]"
	case kEmptyStr:
		return ""
	case kChar:
		return charClass(n.ranges, opts)
	case kConcat:
		parts := make([]string, len(n.children))
		for i, c := range n.children {
			parts[i] = stringify(c, opts, precConcat)
		}
		return parenIf(strings.Join(parts, ""), ctx > precConcat && len(n.children) > 1)
	case kAlt:
		parts := make([]string, len(n.children))
		for i, c := range n.children {
			parts[i] = stringify(c, opts, precAlt)
		}
		return parenIf(strings.Join(parts, "|"), ctx > precTop)
	case kStar:
		return stringify(n.child, opts, precRepeat) + "*"
	case kPlus:
		return stringify(n.child, opts, precRepeat) + "+"
	case kOpt:
		return stringify(n.child, opts, precRepeat) + "?"
	}
	return ""
}

func parenIf(s string, need bool) string {
	if need {
		return "(" + s + ")"
	}
	return s
}

// charClass renders ranges as a single literal (no brackets) when there is
// exactly one range spanning one symbol, or a bracketed class otherwise.
func charClass[S any](ranges []alphabet.ClosedRange[S], opts Options[S]) string {
	sort.Slice(ranges, func(i, j int) bool {
		return opts.ToValue(ranges[i].Lo) < opts.ToValue(ranges[j].Lo)
	})
	if len(ranges) == 1 && opts.ToValue(ranges[0].Lo) == opts.ToValue(ranges[0].Hi) {
		return escapeLiteral(opts.ToValue(ranges[0].Lo), opts.Width)
	}
	var b strings.Builder
	b.WriteByte('[')
	for _, r := range ranges {
		lo, hi := opts.ToValue(r.Lo), opts.ToValue(r.Hi)
		b.WriteString(escapeClassMember(lo, opts.Width))
		if lo != hi {
			b.WriteByte('-')
			b.WriteString(escapeClassMember(hi, opts.Width))
		}
	}
	b.WriteByte(']')
	return b.String()
}

// isPrintableASCII reports whether v can be emitted as a bare character
// without escaping, inside or outside a character class.
func isPrintableASCII(v uint32) bool {
	return v >= 0x20 && v < 0x7F
}

const specialOutsideClass = `\.*+?()|[]{}^$`
const specialInsideClass = `\]-^`

func escapeLiteral(v uint32, w Width) string {
	if isPrintableASCII(v) && !strings.ContainsRune(specialOutsideClass, rune(v)) {
		return string(rune(v))
	}
	return escapeEscaped(v, w)
}

func escapeClassMember(v uint32, w Width) string {
	if isPrintableASCII(v) && !strings.ContainsRune(specialInsideClass, rune(v)) {
		return string(rune(v))
	}
	return escapeEscaped(v, w)
}

func escapeEscaped(v uint32, w Width) string {
	switch w {
	case Width8:
		return fmt.Sprintf(`\x%02X`, v)
	case Width16:
		return fmt.Sprintf(`\u%04X`, v)
	default:
		return fmt.Sprintf(`\u{%X}`, v)
	}
}
