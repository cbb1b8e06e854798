// Package fsmerr defines the error values shared by every stage of the
// grammar toolchain: ABNF parsing, rule compilation, and automaton
// construction. Each stage wraps these sentinels with its own context
// (position, rule name, symbol value) rather than inventing new error kinds.
package fsmerr

import (
	"errors"
	"fmt"
)

// Sentinel errors. Callers compare against these with errors.Is; wrapping
// types below attach context and satisfy Unwrap.
var (
	// ErrUndefinedRule indicates a rulename reference has no definition.
	ErrUndefinedRule = errors.New("undefined rule")

	// ErrNonRegular indicates a rule (or its SCC) is self-recursive and
	// cannot be compiled to a finite automaton.
	ErrNonRegular = errors.New("rule is not regular: self-recursive")

	// ErrUnimplementedProse indicates a prose-val element was encountered.
	ErrUnimplementedProse = errors.New("prose-val elements are not implemented")

	// ErrSymbolOutOfRange indicates a num-val literal exceeds the alphabet's
	// representable range.
	ErrSymbolOutOfRange = errors.New("symbol value out of range for alphabet")

	// ErrOverflow indicates an internal construction exceeded a
	// caller-supplied state-count budget.
	ErrOverflow = errors.New("automaton construction exceeded state budget")
)

// ParseError reports a failure to parse ABNF source text. Offset is the
// zero-based byte offset into the source where parsing failed.
type ParseError struct {
	Offset  int
	Line    int
	Column  int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("abnf: parse error at line %d, column %d (byte %d): %s",
		e.Line, e.Column, e.Offset, e.Message)
}

// UndefinedRuleError wraps ErrUndefinedRule with the offending rule name and
// the name of the rule whose definition referenced it.
type UndefinedRuleError struct {
	RuleName string
	From     string
}

func (e *UndefinedRuleError) Error() string {
	if e.From != "" {
		return fmt.Sprintf("abnf: rule %q referenced from %q has no definition", e.RuleName, e.From)
	}
	return fmt.Sprintf("abnf: rule %q has no definition", e.RuleName)
}

func (e *UndefinedRuleError) Unwrap() error { return ErrUndefinedRule }

// NonRegularError wraps ErrNonRegular with the offending strongly connected
// component of rule names.
type NonRegularError struct {
	Cycle []string
}

func (e *NonRegularError) Error() string {
	return fmt.Sprintf("abnf: rules %v form a self-recursive cycle and cannot be compiled to a DFA", e.Cycle)
}

func (e *NonRegularError) Unwrap() error { return ErrNonRegular }

// UnimplementedProseError wraps ErrUnimplementedProse with the literal
// prose-val text encountered.
type UnimplementedProseError struct {
	Text string
}

func (e *UnimplementedProseError) Error() string {
	return fmt.Sprintf("abnf: prose-val %q cannot be compiled", e.Text)
}

func (e *UnimplementedProseError) Unwrap() error { return ErrUnimplementedProse }

// SymbolOutOfRangeError wraps ErrSymbolOutOfRange with the offending value.
type SymbolOutOfRangeError struct {
	Value uint64
	Max   uint64
}

func (e *SymbolOutOfRangeError) Error() string {
	return fmt.Sprintf("abnf: num-val %d exceeds alphabet maximum %d", e.Value, e.Max)
}

func (e *SymbolOutOfRangeError) Unwrap() error { return ErrSymbolOutOfRange }

// OverflowError wraps ErrOverflow with the budget that was exceeded.
type OverflowError struct {
	Budget  int
	Reached int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("abnf: construction reached %d states, exceeding budget of %d", e.Reached, e.Budget)
}

func (e *OverflowError) Unwrap() error { return ErrOverflow }

// CompileError wraps any error produced while compiling a single named rule,
// attaching the rule name for caller-facing diagnostics. A compile failure
// invalidates the whole request: callers should discard any partially built
// rule dictionary rather than use it.
type CompileError struct {
	Rule string
	Err  error
}

func (e *CompileError) Error() string {
	if e.Rule != "" {
		return fmt.Sprintf("abnf: failed to compile rule %q: %v", e.Rule, e.Err)
	}
	return fmt.Sprintf("abnf: compilation failed: %v", e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }
