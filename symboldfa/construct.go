package symboldfa

import "github.com/awwright/grammarswiki-fsm/alphabet"

// Epsilon returns the single-state DFA that accepts only the empty string.
func Epsilon[S comparable](a alphabet.Alphabet[S]) DFA[S] {
	return DFA[S]{Alphabet: a, States: []State[S]{{Final: true}}, Initial: 0}
}

// EmptyLang returns the single-state DFA that accepts nothing.
func EmptyLang[S comparable](a alphabet.Alphabet[S]) DFA[S] {
	return DFA[S]{Alphabet: a, States: []State[S]{{Final: false}}, Initial: 0}
}

// Literal returns the two-state DFA that accepts exactly the single symbol
// s, equal to FromRange(s, s).
func Literal[S comparable](a alphabet.Alphabet[S], s S) DFA[S] {
	return DFA[S]{
		Alphabet: a,
		States: []State[S]{
			{Transitions: map[S]StateID{s: 1}},
			{Final: true},
		},
		Initial: 0,
	}
}

// FromRange returns the DFA that accepts any single symbol in [lo, hi], by
// materializing one transition per symbol in the range. This is expensive
// for large ranges; callers targeting a wide alphabet should use
// rangedfa.FromRange instead.
func FromRange[S comparable](a alphabet.Alphabet[S], lo, hi S) DFA[S] {
	trans := map[S]StateID{}
	s := lo
	for {
		trans[s] = 1
		if a.Compare(s, hi) == 0 {
			break
		}
		next, ok := a.Successor(s)
		if !ok {
			break
		}
		s = next
	}
	return DFA[S]{
		Alphabet: a,
		States:   []State[S]{{Transitions: trans}, {Final: true}},
		Initial:  0,
	}
}

// LiteralString returns the DFA that accepts exactly the given sequence of
// symbols.
func LiteralString[S comparable](a alphabet.Alphabet[S], syms []S) DFA[S] {
	if len(syms) == 0 {
		return Epsilon(a)
	}
	result := Literal(a, syms[0])
	for _, s := range syms[1:] {
		result = Concatenation(result, Literal(a, s))
	}
	return result
}
