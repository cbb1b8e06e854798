package compiler

import (
	"fmt"
	"strings"

	"github.com/awwright/grammarswiki-fsm/abnf"
	"github.com/awwright/grammarswiki-fsm/fsmerr"
)

// Compile compiles every rule reachable from target in rl into a
// name -> automaton dictionary, using b to construct each automaton in
// whichever representation b is bound to. Rules are compiled in
// dependency order after a strongly-connected-components pass rejects any
// rule that is self-recursive, directly or through a cycle of references
// (fsmerr.NonRegularError). A reference to a name with no definition
// anywhere in rl fails with fsmerr.UndefinedRuleError. A prose-val element
// fails with fsmerr.UnimplementedProseError. A failure while compiling a
// rule (and an undefined target) is wrapped in a *fsmerr.CompileError
// naming that rule; a non-regular cycle is returned as a bare
// *fsmerr.NonRegularError and an invalid Config as a *ConfigError. A
// compile failure invalidates the whole request, so Compile returns
// (nil, err) rather than a partially populated dictionary.
func Compile[S any, D any](rl *abnf.Rulelist, target string, b Builder[S, D]) (map[string]D, error) {
	return CompileWithConfig(rl, target, b, DefaultConfig())
}

// CompileWithConfig is Compile with an explicit Config. A nonzero
// cfg.StateBudget caps the state count of each compiled rule's automaton;
// exceeding it fails the whole request with fsmerr.OverflowError.
func CompileWithConfig[S any, D any](rl *abnf.Rulelist, target string, b Builder[S, D], cfg Config) (map[string]D, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	idx := buildIndex(rl)
	lower := strings.ToLower(target)
	if _, ok := idx[lower]; !ok {
		return nil, &fsmerr.CompileError{Rule: target, Err: &fsmerr.UndefinedRuleError{RuleName: target}}
	}

	order, err := compileOrder(idx, lower)
	if err != nil {
		return nil, err
	}

	dict := make(map[string]D, len(order))
	for _, name := range order {
		rule := idx[name]
		d, err := compileAlternation(rule.Alt, name, b, dict)
		if err != nil {
			return nil, &fsmerr.CompileError{Rule: rule.Name, Err: err}
		}
		if err := checkBudget(b, d, cfg); err != nil {
			return nil, &fsmerr.CompileError{Rule: rule.Name, Err: err}
		}
		dict[name] = d
	}
	return dict, nil
}

// CompileAll compiles every top-level rule in rl, independent of whether
// rules reference each other, into one dictionary. Rules with no dependents
// still get compiled even if nothing in rl references them.
func CompileAll[S any, D any](rl *abnf.Rulelist, b Builder[S, D]) (map[string]D, error) {
	return CompileAllWithConfig(rl, b, DefaultConfig())
}

// CompileAllWithConfig is CompileAll with an explicit Config.
func CompileAllWithConfig[S any, D any](rl *abnf.Rulelist, b Builder[S, D], cfg Config) (map[string]D, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	idx := buildIndex(rl)
	all := make(map[string]bool, len(rl.Rules))
	for _, r := range rl.Rules {
		all[strings.ToLower(r.Name)] = true
	}
	sccs := tarjanSCC(idx, all)

	dict := make(map[string]D, len(rl.Rules))
	for _, comp := range sccs {
		if len(comp) > 1 {
			return nil, &fsmerr.NonRegularError{Cycle: comp}
		}
		name := comp[0]
		if isSelfRecursive(idx, name) {
			return nil, &fsmerr.NonRegularError{Cycle: comp}
		}
		rule := idx[name]
		d, err := compileAlternation(rule.Alt, name, b, dict)
		if err != nil {
			return nil, &fsmerr.CompileError{Rule: rule.Name, Err: err}
		}
		if err := checkBudget(b, d, cfg); err != nil {
			return nil, &fsmerr.CompileError{Rule: rule.Name, Err: err}
		}
		dict[name] = d
	}
	return dict, nil
}

func checkBudget[S any, D any](b Builder[S, D], d D, cfg Config) error {
	if cfg.StateBudget <= 0 || b.NumStates == nil {
		return nil
	}
	if n := b.NumStates(d); n > cfg.StateBudget {
		return &fsmerr.OverflowError{Reached: n, Budget: cfg.StateBudget}
	}
	return nil
}

func compileAlternation[S any, D any](alt abnf.Alternation, rule string, b Builder[S, D], dict map[string]D) (D, error) {
	result, err := compileConcatenation(alt.Concats[0], rule, b, dict)
	if err != nil {
		var zero D
		return zero, err
	}
	for _, c := range alt.Concats[1:] {
		next, err := compileConcatenation(c, rule, b, dict)
		if err != nil {
			var zero D
			return zero, err
		}
		result = b.Union(result, next)
	}
	return result, nil
}

func compileConcatenation[S any, D any](c abnf.Concatenation, rule string, b Builder[S, D], dict map[string]D) (D, error) {
	result := b.Epsilon()
	for _, rep := range c.Reps {
		d, err := compileRepetition(rep, rule, b, dict)
		if err != nil {
			var zero D
			return zero, err
		}
		result = b.Concatenation(result, d)
	}
	return result, nil
}

func compileRepetition[S any, D any](rep abnf.Repetition, rule string, b Builder[S, D], dict map[string]D) (D, error) {
	var zero D
	if rep.HasMax && rep.Max < rep.Min {
		// The parser rejects this; guard against hand-built ASTs rather
		// than silently dropping the upper bound.
		return zero, fmt.Errorf("repetition minimum %d exceeds maximum %d", rep.Min, rep.Max)
	}
	elem, err := compileElement(rep.Element, rule, b, dict)
	if err != nil {
		return zero, err
	}

	base := b.Epsilon()
	for i := 0; i < rep.Min; i++ {
		base = b.Concatenation(base, elem)
	}

	if !rep.HasMax {
		// min*<unbounded>: base . elem*
		return b.Concatenation(base, b.Star(elem)), nil
	}

	extra := rep.Max - rep.Min
	if extra <= 0 {
		return base, nil
	}
	// 0..extra additional copies, right-nested: (elem (elem (...)?)?)?
	tail := b.Epsilon()
	for i := 0; i < extra; i++ {
		tail = b.Union(b.Epsilon(), b.Concatenation(elem, tail))
	}
	return b.Concatenation(base, tail), nil
}

func compileElement[S any, D any](el abnf.Element, rule string, b Builder[S, D], dict map[string]D) (D, error) {
	var zero D
	switch e := el.(type) {
	case abnf.RuleRef:
		name := strings.ToLower(e.Name)
		d, ok := dict[name]
		if !ok {
			return zero, &fsmerr.UndefinedRuleError{RuleName: e.Name, From: rule}
		}
		return d, nil

	case abnf.Group:
		return compileAlternation(e.Alt, rule, b, dict)

	case abnf.Option:
		inner, err := compileAlternation(e.Alt, rule, b, dict)
		if err != nil {
			return zero, err
		}
		return b.Union(b.Epsilon(), inner), nil

	case abnf.CharVal:
		return compileCharVal(e, b)

	case abnf.NumVal:
		return compileNumVal(e, b)

	case abnf.ProseVal:
		return zero, &fsmerr.UnimplementedProseError{Text: e.Text}
	}
	return zero, &fsmerr.UnimplementedProseError{Text: "unknown element"}
}

// compileCharVal compiles a quoted char-val literal. Case-sensitive
// (%s"...") values compile to a concatenation of exact-symbol literals.
// Case-insensitive values (the default, and %i"...") fold only ASCII
// letters: each ASCII letter compiles to Union(Literal(lower),
// Literal(upper)); every other byte compiles to an exact Literal. RFC 5234
// leaves non-ASCII case folding undefined, so non-letters compare exactly.
func compileCharVal[S any, D any](cv abnf.CharVal, b Builder[S, D]) (D, error) {
	var zero D
	result := b.Epsilon()
	for i := 0; i < len(cv.Value); i++ {
		ch := cv.Value[i]
		sym, err := symbolOf(b, uint32(ch))
		if err != nil {
			return zero, err
		}
		var d D
		if !cv.CaseSensitive && isASCIILetter(ch) {
			lowerSym, err := symbolOf(b, uint32(toASCIILower(ch)))
			if err != nil {
				return zero, err
			}
			upperSym, err := symbolOf(b, uint32(toASCIIUpper(ch)))
			if err != nil {
				return zero, err
			}
			d = b.Union(b.Literal(lowerSym), b.Literal(upperSym))
		} else {
			d = b.Literal(sym)
		}
		result = b.Concatenation(result, d)
	}
	return result, nil
}

// compileNumVal compiles a "%b"/"%d"/"%x" numeric value: a closed range
// compiles directly via FromRange; a sequence of exact values compiles to
// a concatenation of literals.
func compileNumVal[S any, D any](nv abnf.NumVal, b Builder[S, D]) (D, error) {
	var zero D
	if nv.Range {
		if nv.Lo > nv.Hi {
			// The parser rejects this; guard against hand-built ASTs so a
			// reversed range can never reach FromRange, where the two
			// representations would otherwise diverge.
			return zero, fmt.Errorf("num-val range has lower bound %#x greater than upper bound %#x", nv.Lo, nv.Hi)
		}
		lo, err := symbolOf(b, nv.Lo)
		if err != nil {
			return zero, err
		}
		hi, err := symbolOf(b, nv.Hi)
		if err != nil {
			return zero, err
		}
		return b.FromRange(lo, hi), nil
	}
	result := b.Epsilon()
	for _, v := range nv.Values {
		sym, err := symbolOf(b, v)
		if err != nil {
			return zero, err
		}
		result = b.Concatenation(result, b.Literal(sym))
	}
	return result, nil
}

func symbolOf[S any, D any](b Builder[S, D], v uint32) (S, error) {
	var zero S
	if uint64(v) > b.MaxValue {
		return zero, &fsmerr.SymbolOutOfRangeError{Value: uint64(v), Max: b.MaxValue}
	}
	return b.FromValue(v), nil
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func toASCIILower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

func toASCIIUpper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}
