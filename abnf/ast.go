// Package abnf implements a strict RFC 5234 ABNF parser
// and the data types its recursive-descent parser produces: a rulelist of
// named rules, each an alternation of concatenations of repeated elements.
package abnf

// Rulelist is the top-level parse result: every rule definition found in
// source, in the order they appeared.
type Rulelist struct {
	Rules []*Rule
}

// Rule is one "name = alternation" or "name =/ alternation" definition.
// Incremental is true for "=/", meaning Alt must be appended to an existing
// rule's alternatives rather than replacing them (RFC 5234 §3.3).
type Rule struct {
	Name        string
	Incremental bool
	Alt         Alternation
}

// Alternation is "concat / concat / ...".
type Alternation struct {
	Concats []Concatenation
}

// Concatenation is "rep rep rep" (whitespace-separated repetitions).
type Concatenation struct {
	Reps []Repetition
}

// Repetition is "[min]*[max]element" or "<n>element" (min==max==n) or a
// bare element (min==max==1). HasMax is false for an unbounded "*" (no
// digits after it); Max is meaningless in that case.
type Repetition struct {
	Min, Max int
	HasMax   bool
	Element  Element
}

// Element is any of the element alternatives in RFC 5234 §3.1.
type Element interface{ isElement() }

// RuleRef references another rule by name.
type RuleRef struct{ Name string }

// Group is a parenthesized alternation: "(" alternation ")".
type Group struct{ Alt Alternation }

// Option is a bracketed alternation: "[" alternation "]", equivalent to
// 0*1(alternation).
type Option struct{ Alt Alternation }

// CharVal is a quoted character-value string. CaseSensitive distinguishes
// %s"..." from the default case-insensitive "..." and %i"...".
type CharVal struct {
	CaseSensitive bool
	Value         string
}

// NumVal is a "%b", "%d", or "%x" numeric value: either a concatenation of
// exact values ("%x.0D.0A") or a closed range ("%x30-39").
type NumVal struct {
	Base   byte // 'b', 'd', or 'x'
	Values []uint32
	Range  bool
	Lo, Hi uint32
}

// ProseVal is a "<...>" free-text description; it describes a rule that
// cannot be compiled mechanically.
type ProseVal struct{ Text string }

func (RuleRef) isElement()  {}
func (Group) isElement()    {}
func (Option) isElement()   {}
func (CharVal) isElement()  {}
func (NumVal) isElement()   {}
func (ProseVal) isElement() {}
