// Package grammarswikifsm is the library facade: the
// external interface the HTTP server, CLI, and any other caller use to
// parse ABNF source, compile it to automata, and convert those automata
// back to a regex literal or run them forward as a transducer. It wires
// together the lower packages (abnf, compiler, symboldfa, rangedfa,
// partitioned, transducer, regexemit) behind a handful of convenience
// entry points for the three common representations: plain bytes, UTF-16
// code units, and the full 21-bit Unicode scalar space.
//
// Callers needing a symbol type or DFA representation outside these
// presets should call compiler.Compile/CompileAll directly with a custom
// compiler.Builder, the same way these presets do.
package grammarswikifsm

import (
	"github.com/awwright/grammarswiki-fsm/abnf"
	"github.com/awwright/grammarswiki-fsm/compiler"
	"github.com/awwright/grammarswiki-fsm/rangedfa"
	"github.com/awwright/grammarswiki-fsm/regexemit"
	"github.com/awwright/grammarswiki-fsm/symboldfa"
)

// ParseRulelist parses src as a complete ABNF rulelist.
func ParseRulelist(src []byte) (*abnf.Rulelist, error) {
	return abnf.Parse(src)
}

// CompileByteRange compiles targetRule (and every rule it depends on) from
// rl into a RangeDFA[byte] dictionary — the common case for ABNF grammars
// whose num-val/char-val literals never exceed a single byte.
func CompileByteRange(rl *abnf.Rulelist, targetRule string) (map[string]rangedfa.DFA[byte], error) {
	return compiler.Compile(rl, targetRule, compiler.ByteRangeBuilder())
}

// CompileByteSymbol is CompileByteRange's symbol-transition counterpart,
// used to cross-check that the two representations accept identical
// languages.
func CompileByteSymbol(rl *abnf.Rulelist, targetRule string) (map[string]symboldfa.DFA[byte], error) {
	return compiler.Compile(rl, targetRule, compiler.ByteSymbolBuilder())
}

// CompileRune16Range compiles targetRule into a RangeDFA[uint16]
// dictionary, for grammars defined over UTF-16 code units.
func CompileRune16Range(rl *abnf.Rulelist, targetRule string) (map[string]rangedfa.DFA[uint16], error) {
	return compiler.Compile(rl, targetRule, compiler.Rune16RangeBuilder())
}

// CompileRune21Range compiles targetRule into a RangeDFA[rune] dictionary
// over the full 21-bit Unicode scalar space (wide enough for any grammar
// over Unicode text, e.g. the RFC 3987 IRI rules).
func CompileRune21Range(rl *abnf.Rulelist, targetRule string) (map[string]rangedfa.DFA[rune], error) {
	return compiler.Compile(rl, targetRule, compiler.Rune21RangeBuilder())
}

// ToClosedRangePattern compiles every top-level rule of rl into a
// RangeDFA[byte] dictionary, independent of any single target.
func ToClosedRangePattern(rl *abnf.Rulelist) (map[string]rangedfa.DFA[byte], error) {
	return compiler.CompileAll(rl, compiler.ByteRangeBuilder())
}

// ToClosedRangePatternRune21 is ToClosedRangePattern's 21-bit-alphabet
// counterpart, for rulelists whose literals range over the full Unicode
// scalar space.
func ToClosedRangePatternRune21(rl *abnf.Rulelist) (map[string]rangedfa.DFA[rune], error) {
	return compiler.CompileAll(rl, compiler.Rune21RangeBuilder())
}

// ToRegexByte renders a byte-alphabet RangeDFA as a regex literal using
// \xHH escapes.
func ToRegexByte(d rangedfa.DFA[byte]) string {
	return regexemit.Emit(d, regexemit.Options[byte]{
		ToValue: func(b byte) uint32 { return uint32(b) },
		Width:   regexemit.Width8,
	})
}

// ToRegexRune16 renders a UTF-16-alphabet RangeDFA as a regex literal using
// \uHHHH escapes.
func ToRegexRune16(d rangedfa.DFA[uint16]) string {
	return regexemit.Emit(d, regexemit.Options[uint16]{
		ToValue: func(u uint16) uint32 { return uint32(u) },
		Width:   regexemit.Width16,
	})
}

// ToRegexRune21 renders a Unicode-scalar-alphabet RangeDFA as a regex
// literal using \u{HHHHHH} escapes.
func ToRegexRune21(d rangedfa.DFA[rune]) string {
	return regexemit.Emit(d, regexemit.Options[rune]{
		ToValue: func(r rune) uint32 { return uint32(r) },
		Width:   regexemit.Width21,
	})
}
