package grammarswikifsm

import (
	"strings"
	"testing"
)

// "Number = *%x00-0F" accepts every byte string composed of bytes in
// [0x00, 0x0F], and round-trips through ToRegexByte.
func TestEndToEndNumberRange(t *testing.T) {
	rl, err := ParseRulelist([]byte("Number = *%x00-0F\r\n"))
	if err != nil {
		t.Fatalf("ParseRulelist: %v", err)
	}
	dict, err := CompileByteRange(rl, "Number")
	if err != nil {
		t.Fatalf("CompileByteRange: %v", err)
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

	got := ToRegexByte(d)
	want := `[\x00-\x0F]*`
	if got != want {
		t.Fatalf("ToRegexByte(Number) = %q, want %q", got, want)
	}
}

// ucschar over a 16-bit alphabet.
func TestEndToEndUCSChar(t *testing.T) {
	rl, err := ParseRulelist([]byte("ucschar = %xA0-D7FF / %xF900-FDCF / %xFDF0-FFEF\r\n"))
	if err != nil {
		t.Fatalf("ParseRulelist: %v", err)
	}
	dict, err := CompileRune16Range(rl, "ucschar")
	if err != nil {
		t.Fatalf("CompileRune16Range: %v", err)
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

	got := ToRegexRune16(d)
	want := `[\u00A0-\uD7FF\uF900-\uFDCF\uFDF0-\uFFEF]`
	if got != want {
		t.Fatalf("ToRegexRune16(ucschar) = %q, want %q", got, want)
	}
}

// ToClosedRangePattern compiles every top-level rule, independent of any
// single target.
func TestEndToEndToClosedRangePattern(t *testing.T) {
	rl, err := ParseRulelist([]byte("a = %x41\r\nb = %x42\r\n"))
	if err != nil {
		t.Fatalf("ParseRulelist: %v", err)
	}
	dict, err := ToClosedRangePattern(rl)
	if err != nil {
		t.Fatalf("ToClosedRangePattern: %v", err)
	}
	if len(dict) != 2 {
		t.Fatalf("ToClosedRangePattern returned %d rules, want 2", len(dict))
	}
	if ToRegexByte(dict["a"]) != "A" || ToRegexByte(dict["b"]) != "B" {
		t.Fatalf("ToClosedRangePattern/ToRegexByte produced unexpected literals: a=%q b=%q",
			ToRegexByte(dict["a"]), ToRegexByte(dict["b"]))
	}
}

// CompileByteRange and CompileByteSymbol must agree on the language they
// accept for the same grammar.
func TestEndToEndByteRangeAndSymbolAgree(t *testing.T) {
	rl, err := ParseRulelist([]byte("digits = 1*3%x30-39\r\n"))
	if err != nil {
		t.Fatalf("ParseRulelist: %v", err)
	}
	rangeDict, err := CompileByteRange(rl, "digits")
	if err != nil {
		t.Fatalf("CompileByteRange: %v", err)
	}
	symbolDict, err := CompileByteSymbol(rl, "digits")
	if err != nil {
		t.Fatalf("CompileByteSymbol: %v", err)
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

// The RFC 3986 URI grammar (reg-name hosts; IP-literal forms omitted)
// compiles to a range DFA whose minimized form accepts a well-formed URI
// and rejects a string with no scheme.
func TestEndToEndURIGrammar(t *testing.T) {
	lines := []string{
		`URI = scheme ":" hier-part [ "?" query ] [ "#" fragment ]`,
		`hier-part = "//" authority path-abempty / path-absolute / path-rootless / path-empty`,
		`scheme = ALPHA *( ALPHA / DIGIT / "+" / "-" / "." )`,
		`authority = [ userinfo "@" ] host [ ":" port ]`,
		`userinfo = *( unreserved / pct-encoded / sub-delims / ":" )`,
		`host = reg-name`,
		`port = *DIGIT`,
		`reg-name = *( unreserved / pct-encoded / sub-delims )`,
		`path-abempty = *( "/" segment )`,
		`path-absolute = "/" [ segment-nz *( "/" segment ) ]`,
		`path-rootless = segment-nz *( "/" segment )`,
		`path-empty = ""`,
		`segment = *pchar`,
		`segment-nz = 1*pchar`,
		`pchar = unreserved / pct-encoded / sub-delims / ":" / "@"`,
		`unreserved = ALPHA / DIGIT / "-" / "." / "_" / "~"`,
		`pct-encoded = "%" HEXDIG HEXDIG`,
		`sub-delims = "!" / "$" / "&" / "'" / "(" / ")" / "*" / "+" / "," / ";" / "="`,
		`query = *( pchar / "/" / "?" )`,
		`fragment = *( pchar / "/" / "?" )`,
		`ALPHA = %x41-5A / %x61-7A`,
		`DIGIT = %x30-39`,
		`HEXDIG = DIGIT / "A" / "B" / "C" / "D" / "E" / "F"`,
	}
	src := strings.Join(lines, "\r\n") + "\r\n"
	rl, err := ParseRulelist([]byte(src))
	if err != nil {
		t.Fatalf("ParseRulelist: %v", err)
	}
	dict, err := CompileByteRange(rl, "URI")
	if err != nil {
		t.Fatalf("CompileByteRange: %v", err)
	}
	uri := dict["uri"].Minimized()
	for _, s := range []string{
		"http://example.com/",
		"https://user@example.com:8080/a/b?q=1#frag",
		"mailto:someone@example.com",
		"ftp://ftp.example.org/pub/",
	} {
		if !uri.Contains([]byte(s)) {
			t.Errorf("URI should accept %q", s)
		}
	}
	for _, s := range []string{"://", "", "1http://x/", "http//x"} {
		if uri.Contains([]byte(s)) {
			t.Errorf("URI should reject %q", s)
		}
	}
}
