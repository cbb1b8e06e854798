package rangedfa

import "github.com/awwright/grammarswiki-fsm/alphabet"

// Epsilon returns the single-state DFA that accepts only the empty string.
func Epsilon[S any](a alphabet.Alphabet[S]) DFA[S] {
	return DFA[S]{
		Alphabet: a,
		States:   []State[S]{{Final: true}},
		Initial:  0,
	}
}

// EmptyLang returns the single-state DFA that accepts nothing.
func EmptyLang[S any](a alphabet.Alphabet[S]) DFA[S] {
	return DFA[S]{
		Alphabet: a,
		States:   []State[S]{{Final: false}},
		Initial:  0,
	}
}

// Literal returns the two-state DFA that accepts exactly the single symbol
// s. Equal to FromRange(s, s).
func Literal[S any](a alphabet.Alphabet[S], s S) DFA[S] {
	return FromRange(a, s, s)
}

// FromRange returns the DFA that accepts any single symbol in [lo, hi].
// Expensive only in the sense that it materializes one range transition
// (not one transition per symbol, unlike symboldfa.FromRange) so it stays
// cheap even for wide ranges such as the full 21-bit scalar space.
func FromRange[S any](a alphabet.Alphabet[S], lo, hi S) DFA[S] {
	return DFA[S]{
		Alphabet: a,
		States: []State[S]{
			{Transitions: []RangeTransition[S]{{Lo: lo, Hi: hi, Next: 1}}},
			{Final: true},
		},
		Initial: 0,
	}
}

// LiteralString returns the DFA that accepts exactly the given sequence of
// symbols, via concatenation of single-symbol literals.
func LiteralString[S any](a alphabet.Alphabet[S], syms []S) DFA[S] {
	if len(syms) == 0 {
		return Epsilon(a)
	}
	result := Literal(a, syms[0])
	for _, s := range syms[1:] {
		result = Concatenation(result, Literal(a, s))
	}
	return result
}
