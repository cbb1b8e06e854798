package partitioned

import (
	"testing"

	"github.com/awwright/grammarswiki-fsm/alphabet"
	"github.com/awwright/grammarswiki-fsm/rangedfa"
)

func str(s string) []byte { return []byte(s) }

func digitParts(a alphabet.Alphabet[byte]) []Part[byte, string] {
	// star("0") tagged "0", star("1") tagged "1", etc.
	var parts []Part[byte, string]
	for _, d := range []byte("0123456789") {
		lit := rangedfa.Literal(a, d)
		parts = append(parts, Part[byte, string]{
			Automaton: rangedfa.Star(lit),
			Tag:       string(d),
		})
	}
	return parts
}

func TestClassifySingleDigitRuns(t *testing.T) {
	a := alphabet.Byte{}
	d := Build(a, digitParts(a), nil, "unmatched")

	tag, ok := d.Classify(str("000"))
	if !ok || tag != "0" {
		t.Fatalf("Classify(000) = %q, %v; want 0, true", tag, ok)
	}
	tag, ok = d.Classify(str("111"))
	if !ok || tag != "1" {
		t.Fatalf("Classify(111) = %q, %v; want 1, true", tag, ok)
	}
}

func TestClassifyEmptyInputWithLattice(t *testing.T) {
	a := alphabet.Byte{}
	parts := digitParts(a)
	joined := &firstWins[string]{}
	d := Build(a, parts, joined, "unmatched")

	// Empty string is in every star(d)'s language, so the reached state is
	// final under all ten parts at once; the lattice must resolve this to a
	// single deterministic tag instead of panicking or picking randomly.
	tag, ok := d.Classify(nil)
	if !ok {
		t.Fatal("empty input should be accepted (it is the empty string in every star())")
	}
	if tag != joined.expect {
		t.Fatalf("Classify(nil) = %q, want %q (deterministic join result)", tag, joined.expect)
	}
}

// firstWins is a trivial lattice used only to pin down a deterministic
// expectation for the overlapping-final-state test above: it always joins
// to whichever tag it saw first, and remembers what that was.
type firstWins[T comparable] struct {
	expect T
	seen   bool
}

func (j *firstWins[T]) Join(a, b T) T {
	if !j.seen {
		j.expect = a
		j.seen = true
	}
	return j.expect
}

func TestClassifyRejectsNonMatchingInput(t *testing.T) {
	a := alphabet.Byte{}
	d := Build(a, digitParts(a), nil, "unmatched")
	tag, ok := d.Classify(str("0a0"))
	if ok {
		t.Fatalf("Classify(0a0) should not match, got tag %q", tag)
	}
	if tag != "unmatched" {
		t.Fatalf("unmatched classification must report the configured sentinel, got %q", tag)
	}
}

func TestClassifyDisjointParts(t *testing.T) {
	a := alphabet.Byte{}
	parts := []Part[byte, string]{
		{Automaton: rangedfa.LiteralString(a, str("cat")), Tag: "animal"},
		{Automaton: rangedfa.LiteralString(a, str("car")), Tag: "vehicle"},
	}
	d := Build(a, parts, nil, "unmatched")

	if tag, ok := d.Classify(str("cat")); !ok || tag != "animal" {
		t.Fatalf("Classify(cat) = %q, %v; want animal, true", tag, ok)
	}
	if tag, ok := d.Classify(str("car")); !ok || tag != "vehicle" {
		t.Fatalf("Classify(car) = %q, %v; want vehicle, true", tag, ok)
	}
	if _, ok := d.Classify(str("ca")); ok {
		t.Fatal("prefix of both literals must not classify")
	}
}

func TestExtractLiteral(t *testing.T) {
	a := alphabet.Byte{}
	lit, ok := extractLiteral(rangedfa.LiteralString(a, str("cat")))
	if !ok || string(lit) != "cat" {
		t.Fatalf("extractLiteral(cat) = %q, %v; want cat, true", lit, ok)
	}
	_, ok = extractLiteral(rangedfa.Star(rangedfa.Literal(a, 'a')))
	if ok {
		t.Fatal("star(a) is not a plain literal and must not be extracted")
	}
	_, ok = extractLiteral(rangedfa.Union(rangedfa.Literal(a, 'a'), rangedfa.Literal(a, 'b')))
	if ok {
		t.Fatal("a branching automaton is not a plain literal and must not be extracted")
	}
}

func TestBuildClassifierLiteralPrefilter(t *testing.T) {
	a := alphabet.Byte{}
	var parts []Part[byte, int]
	words := []string{
		"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf",
		"hotel", "india", "juliet", "kilo", "lima", "mike", "november",
		"oscar", "papa", "quebec", "romeo", "sierra", "tango", "uniform",
		"victor", "whiskey", "xray", "yankee", "zulu", "one", "two",
		"three", "four", "five", "six", "seven",
	}
	if len(words) < LiteralThreshold {
		t.Fatalf("test fixture must reach LiteralThreshold=%d, has %d", LiteralThreshold, len(words))
	}
	for i, w := range words {
		parts = append(parts, Part[byte, int]{Automaton: rangedfa.LiteralString(a, []byte(w)), Tag: i})
	}
	c := BuildClassifier(parts, nil, -1)
	if c.aho == nil {
		t.Fatal("expected the Aho-Corasick prefilter to be built at or above LiteralThreshold")
	}
	if tag, ok := c.Classify(str("mike")); !ok || tag != 12 {
		t.Fatalf("Classify(mike) = %d, %v; want 12, true", tag, ok)
	}
	if _, ok := c.Classify(str("nope")); ok {
		t.Fatal("non-matching input must not classify")
	}
}

func TestBuildClassifierSkipsPrefilterBelowThreshold(t *testing.T) {
	a := alphabet.Byte{}
	parts := []Part[byte, int]{
		{Automaton: rangedfa.LiteralString(a, str("a")), Tag: 0},
		{Automaton: rangedfa.LiteralString(a, str("b")), Tag: 1},
	}
	c := BuildClassifier(parts, nil, -1)
	if c.aho != nil {
		t.Fatal("prefilter must not be built below LiteralThreshold")
	}
	if tag, ok := c.Classify(str("a")); !ok || tag != 0 {
		t.Fatalf("Classify(a) = %d, %v; want 0, true", tag, ok)
	}
}
