package symboldfa

import (
	"testing"

	"github.com/awwright/grammarswiki-fsm/alphabet"
)

func str(s string) []byte { return []byte(s) }

func TestEpsilonAndEmpty(t *testing.T) {
	eps := Epsilon[byte](alphabet.Byte{})
	if !eps.Contains(nil) || eps.Contains(str("a")) {
		t.Fatal("epsilon DFA must accept only the empty string")
	}
	empty := EmptyLang[byte](alphabet.Byte{})
	if empty.Contains(nil) {
		t.Fatal("empty-language DFA must accept nothing")
	}
}

func TestFromRangeEqualsLiteral(t *testing.T) {
	a := alphabet.Byte{}
	if !IsEquivalent(FromRange(a, 'a', 'a'), Literal(a, 'a')) {
		t.Fatal("fromRange(lo, lo) must equal literal(lo)")
	}
}

func TestClosureOps(t *testing.T) {
	a := alphabet.Byte{}
	abc := LiteralString(a, []byte("abc"))
	xyz := LiteralString(a, []byte("xyz"))

	u := Union(abc, xyz)
	if !u.Contains(str("abc")) || !u.Contains(str("xyz")) || u.Contains(str("ab")) {
		t.Fatal("union semantics wrong")
	}

	cat := Concatenation(abc, xyz)
	if !cat.Contains(str("abcxyz")) || cat.Contains(str("abc")) {
		t.Fatal("concatenation semantics wrong")
	}

	star := Star(LiteralString(a, []byte("ab")))
	if !star.Contains(nil) || !star.Contains(str("abab")) || star.Contains(str("aba")) {
		t.Fatal("star semantics wrong")
	}
}

func TestMinimizedUnionOfLiteralsKeepsLanguage(t *testing.T) {
	// Minimizing the union of two literals accepts exactly those two strings.
	a := alphabet.Byte{}
	d := Union(LiteralString(a, []byte("cat")), LiteralString(a, []byte("car")))
	m := d.Minimized()
	for _, s := range []string{"cat", "car", "ca", "dog"} {
		want := s == "cat" || s == "car"
		if got := m.Contains(str(s)); got != want {
			t.Fatalf("Contains(%q) = %v, want %v", s, got, want)
		}
	}
}

func TestMinimizedBoundary(t *testing.T) {
	a := alphabet.Byte{}
	d := Union(LiteralString(a, []byte("a")), Union(LiteralString(a, []byte("ab")), LiteralString(a, []byte("abc"))))
	m := d.Minimized()
	if len(m.States) != 4 {
		t.Fatalf("expected 4 reachable states, got %d", len(m.States))
	}
}

func TestDeriveLeftQuotient(t *testing.T) {
	a := alphabet.Byte{}
	d := Union(LiteralString(a, []byte("abc")), LiteralString(a, []byte("abd")))
	prefixes := LiteralString(a, []byte("ab"))

	q := Derive(d, prefixes)
	if !q.Contains([]byte("c")) || !q.Contains([]byte("d")) {
		t.Error("derivative by \"ab\" should accept \"c\" and \"d\"")
	}
	if q.Contains([]byte("abc")) || q.Contains(nil) {
		t.Error("derivative by \"ab\" should reject full words and the empty string")
	}
}
