package regexemit

import (
	"testing"

	"github.com/awwright/grammarswiki-fsm/alphabet"
	"github.com/awwright/grammarswiki-fsm/rangedfa"
)

func byteOpts() Options[byte] {
	return Options[byte]{ToValue: func(b byte) uint32 { return uint32(b) }, Width: Width8}
}

func TestEmitEpsilonIsEmptyRegex(t *testing.T) {
	d := rangedfa.Epsilon[byte](alphabet.Byte{})
	got := Emit(d, byteOpts())
	if got != "" {
		t.Fatalf("Emit(epsilon) = %q, want empty regex sentinel", got)
	}
}

func TestEmitEmptyLangIsBracketBracket(t *testing.T) {
	d := rangedfa.EmptyLang[byte](alphabet.Byte{})
	got := Emit(d, byteOpts())
	if got != "[]" {
		t.Fatalf("Emit(empty) = %q, want \"[]\"", got)
	}
}

func TestEmitLiteral(t *testing.T) {
	a := alphabet.Byte{}
	d := rangedfa.Literal(a, byte('a'))
	got := Emit(d, byteOpts())
	if got != "a" {
		t.Fatalf("Emit(literal 'a') = %q, want \"a\"", got)
	}
}

func TestEmitRangeAsCharClass(t *testing.T) {
	a := alphabet.Byte{}
	d := rangedfa.FromRange(a, byte(0x00), byte(0x0F))
	got := Emit(d, byteOpts())
	want := `[\x00-\x0F]`
	if got != want {
		t.Fatalf("Emit(range) = %q, want %q", got, want)
	}
}

func TestEmitStarOfRange(t *testing.T) {
	a := alphabet.Byte{}
	d := rangedfa.Star(rangedfa.FromRange(a, byte(0x00), byte(0x0F)))
	got := Emit(d, byteOpts())
	want := `[\x00-\x0F]*`
	if got != want {
		t.Fatalf("Emit(star(range)) = %q, want %q", got, want)
	}
}

func TestEmitAlternationOfLiterals(t *testing.T) {
	a := alphabet.Byte{}
	d := rangedfa.Union(rangedfa.Literal(a, byte('a')), rangedfa.Literal(a, byte('b')))
	got := Emit(d, byteOpts())
	// Minimization merges the two single-symbol branches into one
	// character-class range rather than an alternation, since both
	// transitions lead to the same accepting state and 'a' and 'b' are
	// adjacent: the same output FromRange('a', 'b') emits.
	want := "[a-b]"
	if got != want {
		t.Fatalf("Emit(union of literals) = %q, want %q", got, want)
	}
}

func TestEmitConcatenation(t *testing.T) {
	a := alphabet.Byte{}
	d := rangedfa.LiteralString(a, []byte("ab"))
	got := Emit(d, byteOpts())
	if got != "ab" {
		t.Fatalf("Emit(concat) = %q, want \"ab\"", got)
	}
}

func TestEmitPlusFold(t *testing.T) {
	a := alphabet.Byte{}
	lit := rangedfa.Literal(a, byte('a'))
	d := rangedfa.Concatenation(lit, rangedfa.Star(lit))
	got := Emit(d, byteOpts())
	if got != "a+" {
		t.Fatalf("Emit(a . a*) = %q, want \"a+\" (plus-fold)", got)
	}
}

func TestEmitOptionalFold(t *testing.T) {
	a := alphabet.Byte{}
	d := rangedfa.Union(rangedfa.Epsilon(a), rangedfa.Literal(a, byte('a')))
	got := Emit(d, byteOpts())
	if got != "a?" {
		t.Fatalf("Emit(epsilon | a) = %q, want \"a?\" (optional-fold)", got)
	}
}

func TestEmitRune21WideEscape(t *testing.T) {
	a := alphabet.Rune21{}
	d := rangedfa.FromRange(a, rune(0x10000), rune(0x10FFFF))
	got := Emit(d, Options[rune]{
		ToValue: func(r rune) uint32 { return uint32(r) },
		Width:   Width21,
	})
	want := `[\u{10000}-\u{10FFFF}]`
	if got != want {
		t.Fatalf("Emit(wide range) = %q, want %q", got, want)
	}
}

func TestEmitIsDeterministicAcrossEquivalentConstructions(t *testing.T) {
	a := alphabet.Byte{}
	// Two different but equivalent automata for "ab|ac" must emit the same
	// canonical regex after minimization.
	d1 := rangedfa.Union(rangedfa.LiteralString(a, []byte("ab")), rangedfa.LiteralString(a, []byte("ac")))
	d2 := rangedfa.Concatenation(rangedfa.Literal(a, byte('a')),
		rangedfa.Union(rangedfa.Literal(a, byte('b')), rangedfa.Literal(a, byte('c'))))
	r1 := Emit(d1, byteOpts())
	r2 := Emit(d2, byteOpts())
	if r1 != r2 {
		t.Fatalf("equivalent automata emitted different regexes: %q vs %q", r1, r2)
	}
}
