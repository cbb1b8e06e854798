// Package compiler implements the ABNF-to-DFA compiler: given a parsed
// rulelist and a target representation, it builds a
// name→DFA dictionary by compiling every rule's AST in dependency order.
//
// The compiler is parameterized over the DFA representation (SymbolDFA or
// RangeDFA) through Builder, a table of constructor functions, rather than
// a method-set interface: symboldfa and rangedfa expose their operations as
// free functions over DFA[S] value types, not methods on a shared
// interface type, so a vtable-of-funcs is the natural way to make one AST
// walk produce either representation.
package compiler

import (
	"github.com/awwright/grammarswiki-fsm/alphabet"
	"github.com/awwright/grammarswiki-fsm/rangedfa"
	"github.com/awwright/grammarswiki-fsm/symboldfa"
)

// Builder supplies every automaton primitive the compiler needs, bound to
// one symbol type S and one DFA representation D.
type Builder[S any, D any] struct {
	Alphabet alphabet.Alphabet[S]

	// MaxValue is the largest symbol value representable in S, used to
	// reject out-of-range num-val literals before FromValue is called.
	MaxValue uint64

	// FromValue converts a num-val/char-val literal (always representable
	// as a uint32 in ABNF source) into a concrete symbol of S.
	FromValue func(v uint32) S

	Epsilon       func() D
	EmptyLang     func() D
	Literal       func(sym S) D
	FromRange     func(lo, hi S) D
	Union         func(a, b D) D
	Concatenation func(a, b D) D
	Star          func(a D) D

	// NumStates reports the state count of a built automaton, consulted
	// against Config.StateBudget after each rule compiles.
	NumStates func(d D) int
}

// NewSymbolBuilder returns a Builder producing symboldfa.DFA[S] values.
func NewSymbolBuilder[S comparable](a alphabet.Alphabet[S], maxValue uint64, fromValue func(uint32) S) Builder[S, symboldfa.DFA[S]] {
	return Builder[S, symboldfa.DFA[S]]{
		Alphabet:  a,
		MaxValue:  maxValue,
		FromValue: fromValue,
		Epsilon:       func() symboldfa.DFA[S] { return symboldfa.Epsilon(a) },
		EmptyLang:     func() symboldfa.DFA[S] { return symboldfa.EmptyLang(a) },
		Literal:       func(sym S) symboldfa.DFA[S] { return symboldfa.Literal(a, sym) },
		FromRange:     func(lo, hi S) symboldfa.DFA[S] { return symboldfa.FromRange(a, lo, hi) },
		Union:         symboldfa.Union[S],
		Concatenation: symboldfa.Concatenation[S],
		Star:          symboldfa.Star[S],
		NumStates:     func(d symboldfa.DFA[S]) int { return d.NumStates() },
	}
}

// NewRangeBuilder returns a Builder producing rangedfa.DFA[S] values.
func NewRangeBuilder[S any](a alphabet.Alphabet[S], maxValue uint64, fromValue func(uint32) S) Builder[S, rangedfa.DFA[S]] {
	return Builder[S, rangedfa.DFA[S]]{
		Alphabet:  a,
		MaxValue:  maxValue,
		FromValue: fromValue,
		Epsilon:       func() rangedfa.DFA[S] { return rangedfa.Epsilon(a) },
		EmptyLang:     func() rangedfa.DFA[S] { return rangedfa.EmptyLang(a) },
		Literal:       func(sym S) rangedfa.DFA[S] { return rangedfa.Literal(a, sym) },
		FromRange:     func(lo, hi S) rangedfa.DFA[S] { return rangedfa.FromRange(a, lo, hi) },
		Union:         rangedfa.Union[S],
		Concatenation: rangedfa.Concatenation[S],
		Star:          rangedfa.Star[S],
		NumStates:     func(d rangedfa.DFA[S]) int { return d.NumStates() },
	}
}

// ByteSymbolBuilder and ByteRangeBuilder are the common case: ABNF over a
// plain byte alphabet.
func ByteSymbolBuilder() Builder[byte, symboldfa.DFA[byte]] {
	return NewSymbolBuilder(alphabet.Byte{}, 0xFF, func(v uint32) byte { return byte(v) })
}

func ByteRangeBuilder() Builder[byte, rangedfa.DFA[byte]] {
	return NewRangeBuilder[byte](alphabet.Byte{}, 0xFF, func(v uint32) byte { return byte(v) })
}

// Rune16RangeBuilder targets a 16-bit code-unit alphabet, for grammars
// written over UTF-16 code units.
func Rune16RangeBuilder() Builder[uint16, rangedfa.DFA[uint16]] {
	return NewRangeBuilder[uint16](alphabet.Rune16{}, 0xFFFF, func(v uint32) uint16 { return uint16(v) })
}

// Rune21RangeBuilder targets the full 21-bit Unicode scalar space.
func Rune21RangeBuilder() Builder[rune, rangedfa.DFA[rune]] {
	return NewRangeBuilder[rune](alphabet.Rune21{}, 0x10FFFF, func(v uint32) rune { return rune(v) })
}
