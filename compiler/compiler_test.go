package compiler

import (
	"errors"
	"testing"

	"github.com/awwright/grammarswiki-fsm/abnf"
	"github.com/awwright/grammarswiki-fsm/fsmerr"
)

func mustParse(t *testing.T, src string) *abnf.Rulelist {
	t.Helper()
	rl, err := abnf.Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse(%q) = %v", src, err)
	}
	return rl
}

// "Number" accepts every byte string composed of bytes in [0x00, 0x0F],
// including the empty string.
func TestCompileNumberRange(t *testing.T) {
	rl := mustParse(t, "Number = *%x00-0F\r\n")
	dict, err := Compile(rl, "Number", ByteRangeBuilder())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	d, ok := dict["number"]
	if !ok {
		t.Fatal("dict missing \"number\"")
	}
	if !d.Contains(nil) {
		t.Error("Number should accept the empty string")
	}
	if !d.Contains([]byte{0x00, 0x0F, 0x05}) {
		t.Error("Number should accept bytes within [0x00, 0x0F]")
	}
	if d.Contains([]byte{0x10}) {
		t.Error("Number should reject a byte outside [0x00, 0x0F]")
	}
}

// ucschar over a 16-bit alphabet accepts exactly one-symbol strings whose
// symbol lies in the union of the three ranges.
func TestCompileUCSChar(t *testing.T) {
	rl := mustParse(t, "ucschar = %xA0-D7FF / %xF900-FDCF / %xFDF0-FFEF\r\n")
	dict, err := Compile(rl, "ucschar", Rune16RangeBuilder())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	d := dict["ucschar"]
	if !d.Contains([]uint16{0xA0}) {
		t.Error("ucschar should accept 0xA0")
	}
	if !d.Contains([]uint16{0xFDC0}) {
		t.Error("ucschar should accept 0xFDC0 (second range)")
	}
	if d.Contains([]uint16{0x0041}) {
		t.Error("ucschar should reject 0x0041 ('A', outside every range)")
	}
	if d.Contains([]uint16{0xA0, 0xA0}) {
		t.Error("ucschar should reject a two-symbol string")
	}
}

func TestCompileUndefinedRule(t *testing.T) {
	rl := mustParse(t, "top = missing\r\n")
	_, err := Compile(rl, "top", ByteRangeBuilder())
	if !errors.Is(err, fsmerr.ErrUndefinedRule) {
		t.Fatalf("Compile error = %v, want wrapping fsmerr.ErrUndefinedRule", err)
	}
}

func TestCompileUnknownTargetIsUndefinedRule(t *testing.T) {
	rl := mustParse(t, "top = %x41\r\n")
	_, err := Compile(rl, "nosuchrule", ByteRangeBuilder())
	if !errors.Is(err, fsmerr.ErrUndefinedRule) {
		t.Fatalf("Compile error = %v, want wrapping fsmerr.ErrUndefinedRule", err)
	}
}

func TestCompileSelfRecursionIsNonRegular(t *testing.T) {
	rl := mustParse(t, "top = %x41 top\r\n")
	_, err := Compile(rl, "top", ByteRangeBuilder())
	if !errors.Is(err, fsmerr.ErrNonRegular) {
		t.Fatalf("Compile error = %v, want wrapping fsmerr.ErrNonRegular", err)
	}
}

func TestCompileMutualRecursionIsNonRegular(t *testing.T) {
	rl := mustParse(t, "a = b\r\nb = a\r\n")
	_, err := Compile(rl, "a", ByteRangeBuilder())
	if !errors.Is(err, fsmerr.ErrNonRegular) {
		t.Fatalf("Compile error = %v, want wrapping fsmerr.ErrNonRegular", err)
	}
}

func TestCompileProseValIsUnimplemented(t *testing.T) {
	rl := mustParse(t, "top = <anything>\r\n")
	_, err := Compile(rl, "top", ByteRangeBuilder())
	if !errors.Is(err, fsmerr.ErrUnimplementedProse) {
		t.Fatalf("Compile error = %v, want wrapping fsmerr.ErrUnimplementedProse", err)
	}
}

func TestCompileSymbolOutOfRange(t *testing.T) {
	rl := mustParse(t, "top = %x100\r\n")
	_, err := Compile(rl, "top", ByteRangeBuilder())
	if !errors.Is(err, fsmerr.ErrSymbolOutOfRange) {
		t.Fatalf("Compile error = %v, want wrapping fsmerr.ErrSymbolOutOfRange", err)
	}
}

// Case-insensitive char-val folds only ASCII letters: "OK" must match
// both cases of each letter.
func TestCompileCharValCaseInsensitive(t *testing.T) {
	rl := mustParse(t, "word = \"OK\"\r\n")
	dict, err := Compile(rl, "word", ByteRangeBuilder())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	d := dict["word"]
	for _, s := range []string{"OK", "ok", "Ok", "oK"} {
		if !d.Contains([]byte(s)) {
			t.Errorf("word should accept %q", s)
		}
	}
	if d.Contains([]byte("KO")) {
		t.Error("word should reject \"KO\"")
	}
}

func TestCompileCharValCaseSensitive(t *testing.T) {
	rl := mustParse(t, "word = %s\"OK\"\r\n")
	dict, err := Compile(rl, "word", ByteRangeBuilder())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	d := dict["word"]
	if !d.Contains([]byte("OK")) {
		t.Error("word should accept exact-case \"OK\"")
	}
	if d.Contains([]byte("ok")) {
		t.Error("word should reject \"ok\" under case-sensitive literal")
	}
}

// A rule referencing an already-compiled rule, under bounded repetition.
func TestCompileRuleRefAndBoundedRepetition(t *testing.T) {
	rl := mustParse(t, "syllable = \"hi\" / \"lo\"\r\ngreeting = 1*2syllable\r\n")
	dict, err := Compile(rl, "greeting", ByteRangeBuilder())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	d := dict["greeting"]
	if d.Contains(nil) {
		t.Error("greeting requires at least one repetition")
	}
	if !d.Contains([]byte("hi")) {
		t.Error("greeting should accept one repetition")
	}
	if !d.Contains([]byte("hilo")) {
		t.Error("greeting should accept two repetitions")
	}
	if d.Contains([]byte("hilohi")) {
		t.Error("greeting should reject three repetitions")
	}
}

func TestCompileAllCompilesEveryTopLevelRule(t *testing.T) {
	rl := mustParse(t, "a = %x41\r\nb = %x42\r\n")
	dict, err := CompileAll(rl, ByteRangeBuilder())
	if err != nil {
		t.Fatalf("CompileAll: %v", err)
	}
	if len(dict) != 2 {
		t.Fatalf("CompileAll returned %d rules, want 2", len(dict))
	}
	if !dict["a"].Contains([]byte{0x41}) || !dict["b"].Contains([]byte{0x42}) {
		t.Fatal("CompileAll produced rules that don't accept their own literal")
	}
}

func TestCompileEmptyRulelist(t *testing.T) {
	rl := mustParse(t, "")
	dict, err := CompileAll(rl, ByteRangeBuilder())
	if err != nil {
		t.Fatalf("CompileAll on empty rulelist: %v", err)
	}
	if len(dict) != 0 {
		t.Fatalf("CompileAll on empty rulelist = %v, want empty dict", dict)
	}
}

// The symbol and range representations compiled from the same grammar
// must accept identical languages.
func TestSymbolAndRangeRepresentationsAgree(t *testing.T) {
	rl := mustParse(t, "digits = 1*3%x30-39\r\n")

	rangeDict, err := Compile(rl, "digits", ByteRangeBuilder())
	if err != nil {
		t.Fatalf("Compile (range): %v", err)
	}
	symbolDict, err := Compile(rl, "digits", ByteSymbolBuilder())
	if err != nil {
		t.Fatalf("Compile (symbol): %v", err)
	}

	rangeDFA := rangeDict["digits"]
	symbolDFA := symbolDict["digits"]
	for _, s := range []string{"", "1", "12", "123", "1234", "abc"} {
		got := rangeDFA.Contains([]byte(s))
		want := symbolDFA.Contains([]byte(s))
		if got != want {
			t.Errorf("Contains(%q): range=%v symbol=%v, representations disagree", s, got, want)
		}
	}
}

func TestCompileStateBudgetOverflow(t *testing.T) {
	rl := mustParse(t, "top = 4%x41\r\n")
	_, err := CompileWithConfig(rl, "top", ByteRangeBuilder(), Config{StateBudget: 2})
	if !errors.Is(err, fsmerr.ErrOverflow) {
		t.Fatalf("CompileWithConfig error = %v, want wrapping fsmerr.ErrOverflow", err)
	}
}

func TestCompileGenerousBudgetSucceeds(t *testing.T) {
	rl := mustParse(t, "top = 4%x41\r\n")
	dict, err := CompileWithConfig(rl, "top", ByteRangeBuilder(), Config{StateBudget: 1 << 20})
	if err != nil {
		t.Fatalf("CompileWithConfig: %v", err)
	}
	if !dict["top"].Contains([]byte("AAAA")) {
		t.Fatal("top should accept \"AAAA\"")
	}
}

func TestConfigValidateRejectsNegativeBudget(t *testing.T) {
	err := Config{StateBudget: -1}.Validate()
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("Validate() = %v, want *ConfigError", err)
	}
}

// The parser refuses reversed bounds, so these can only arrive via a
// hand-built AST; the compiler must still reject rather than let the two
// representations diverge (or a bound be silently dropped).
func TestCompileReversedNumValRangeRejected(t *testing.T) {
	rl := &abnf.Rulelist{Rules: []*abnf.Rule{{
		Name: "top",
		Alt: abnf.Alternation{Concats: []abnf.Concatenation{{
			Reps: []abnf.Repetition{{
				Min: 1, Max: 1, HasMax: true,
				Element: abnf.NumVal{Base: 'x', Range: true, Lo: 0x10, Hi: 0x05},
			}},
		}}},
	}}}
	if _, err := Compile(rl, "top", ByteRangeBuilder()); err == nil {
		t.Fatal("expected an error for a reversed num-val range")
	}
	if _, err := Compile(rl, "top", ByteSymbolBuilder()); err == nil {
		t.Fatal("expected an error for a reversed num-val range (symbol representation)")
	}
}

func TestCompileReversedRepetitionBoundsRejected(t *testing.T) {
	rl := &abnf.Rulelist{Rules: []*abnf.Rule{{
		Name: "top",
		Alt: abnf.Alternation{Concats: []abnf.Concatenation{{
			Reps: []abnf.Repetition{{
				Min: 3, Max: 1, HasMax: true,
				Element: abnf.NumVal{Base: 'x', Values: []uint32{0x41}},
			}},
		}}},
	}}}
	if _, err := Compile(rl, "top", ByteRangeBuilder()); err == nil {
		t.Fatal("expected an error for repetition minimum exceeding maximum")
	}
}
