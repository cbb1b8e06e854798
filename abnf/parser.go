package abnf

import (
	"strconv"
	"strings"
)

// Parse parses src as a complete ABNF rulelist, bailing on the first
// unrecoverable syntax error with position information.
// "=/" continuations must textually follow the rule they extend; a "=/"
// with no prior definition, or a plain "=" redefining an existing rule, is
// rejected here rather than deferred to compilation.
func Parse(src []byte) (*Rulelist, error) {
	p := newParser(src)
	rl := &Rulelist{}
	byName := map[string]*Rule{}

	for !p.atEnd() {
		blank, err := p.tryBlankLine()
		if err != nil {
			return nil, err
		}
		if blank {
			continue
		}

		rule, err := p.parseRule()
		if err != nil {
			return nil, err
		}

		key := strings.ToLower(rule.Name)
		existing, defined := byName[key]
		switch {
		case rule.Incremental && !defined:
			return nil, p.errorf("rule %q uses \"=/\" before any \"=\" definition exists", rule.Name)
		case rule.Incremental:
			existing.Alt.Concats = append(existing.Alt.Concats, rule.Alt.Concats...)
		case defined:
			return nil, p.errorf("rule %q is redefined; use \"=/\" to extend an existing rule", rule.Name)
		default:
			byName[key] = rule
			rl.Rules = append(rl.Rules, rule)
		}
	}

	return rl, nil
}

func (p *parser) parseRule() (*Rule, error) {
	name, err := p.parseRulename()
	if err != nil {
		return nil, err
	}
	incremental, err := p.parseDefinedAs()
	if err != nil {
		return nil, err
	}
	alt, err := p.parseAlternation()
	if err != nil {
		return nil, err
	}
	if _, err := p.skipCWSP(); err != nil {
		return nil, err
	}
	consumed, err := p.tryCNL()
	if err != nil {
		return nil, err
	}
	if !consumed {
		return nil, p.errorf("rule %q is not terminated by CRLF", name)
	}
	return &Rule{Name: name, Incremental: incremental, Alt: alt}, nil
}

func (p *parser) parseRulename() (string, error) {
	b, ok := p.peekByte()
	if !ok || !isALPHA(b) {
		return "", p.errorf("expected a rulename (must start with a letter)")
	}
	start := p.pos
	p.advance()
	for {
		b, ok := p.peekByte()
		if ok && (isALPHA(b) || isDIGIT(b) || b == '-') {
			p.advance()
			continue
		}
		break
	}
	return string(p.src[start:p.pos]), nil
}

func (p *parser) parseDefinedAs() (incremental bool, err error) {
	if _, err := p.skipCWSP(); err != nil {
		return false, err
	}
	if b, ok := p.peekByte(); !ok || b != '=' {
		return false, p.errorf("expected \"=\" or \"=/\"")
	}
	p.advance()
	if b, ok := p.peekByte(); ok && b == '/' {
		p.advance()
		incremental = true
	}
	if _, err := p.skipCWSP(); err != nil {
		return incremental, err
	}
	return incremental, nil
}

// canStartRepetition reports whether b could begin another repetition: an
// element's own start character, or a repeat-count prefix (digits, or a
// bare "*") that precedes one.
func canStartRepetition(b byte) bool {
	return isALPHA(b) || isDIGIT(b) || b == '(' || b == '[' || b == '"' || b == '%' || b == '<' || b == '*'
}

func (p *parser) parseAlternation() (Alternation, error) {
	first, err := p.parseConcatenation()
	if err != nil {
		return Alternation{}, err
	}
	concats := []Concatenation{first}
	for {
		save := p.mark()
		if _, err := p.skipCWSP(); err != nil {
			return Alternation{}, err
		}
		b, ok := p.peekByte()
		if !ok || b != '/' {
			p.reset(save)
			break
		}
		p.advance()
		if _, err := p.skipCWSP(); err != nil {
			return Alternation{}, err
		}
		next, err := p.parseConcatenation()
		if err != nil {
			return Alternation{}, err
		}
		concats = append(concats, next)
	}
	return Alternation{Concats: concats}, nil
}

func (p *parser) parseConcatenation() (Concatenation, error) {
	first, err := p.parseRepetition()
	if err != nil {
		return Concatenation{}, err
	}
	reps := []Repetition{first}
	for {
		save := p.mark()
		n, err := p.skipCWSP()
		if err != nil {
			return Concatenation{}, err
		}
		if n == 0 {
			p.reset(save)
			break
		}
		b, ok := p.peekByte()
		if !ok || !canStartRepetition(b) {
			p.reset(save)
			break
		}
		rep, err := p.parseRepetition()
		if err != nil {
			return Concatenation{}, err
		}
		reps = append(reps, rep)
	}
	return Concatenation{Reps: reps}, nil
}

func (p *parser) parseRepetition() (Repetition, error) {
	min, max, hasMax, err := p.parseRepeatPrefix()
	if err != nil {
		return Repetition{}, err
	}
	elem, err := p.parseElement()
	if err != nil {
		return Repetition{}, err
	}
	return Repetition{Min: min, Max: max, HasMax: hasMax, Element: elem}, nil
}

// parseRepeatPrefix implements "repeat = 1*DIGIT / (*DIGIT \"*\" *DIGIT)",
// defaulting to exactly one occurrence when no repeat prefix is present.
func (p *parser) parseRepeatPrefix() (min, max int, hasMax bool, err error) {
	start := p.pos
	for {
		b, ok := p.peekByte()
		if ok && isDIGIT(b) {
			p.advance()
			continue
		}
		break
	}
	digits := string(p.src[start:p.pos])

	if b, ok := p.peekByte(); ok && b == '*' {
		p.advance()
		minVal := 0
		if digits != "" {
			minVal, err = strconv.Atoi(digits)
			if err != nil {
				return 0, 0, false, p.errorf("invalid repeat minimum: %v", err)
			}
		}
		maxStart := p.pos
		for {
			b, ok := p.peekByte()
			if ok && isDIGIT(b) {
				p.advance()
				continue
			}
			break
		}
		maxDigits := string(p.src[maxStart:p.pos])
		if maxDigits == "" {
			return minVal, 0, false, nil
		}
		maxVal, err := strconv.Atoi(maxDigits)
		if err != nil {
			return 0, 0, false, p.errorf("invalid repeat maximum: %v", err)
		}
		if maxVal < minVal {
			return 0, 0, false, p.errorf("repeat minimum %d exceeds maximum %d", minVal, maxVal)
		}
		return minVal, maxVal, true, nil
	}

	if digits == "" {
		return 1, 1, true, nil
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, 0, false, p.errorf("invalid repeat count: %v", err)
	}
	return n, n, true, nil
}

func (p *parser) parseElement() (Element, error) {
	b, ok := p.peekByte()
	if !ok {
		return nil, p.errorf("expected an element, reached end of input")
	}
	switch {
	case isALPHA(b):
		name, err := p.parseRulename()
		if err != nil {
			return nil, err
		}
		return RuleRef{Name: name}, nil
	case b == '(':
		return p.parseGroup()
	case b == '[':
		return p.parseOption()
	case b == '"':
		return p.parseCharVal(false)
	case b == '%':
		return p.parseNumOrCharVal()
	case b == '<':
		return p.parseProseVal()
	default:
		return nil, p.errorf("unexpected character %q where an element was expected", b)
	}
}

func (p *parser) parseGroup() (Element, error) {
	p.advance() // "("
	if _, err := p.skipCWSP(); err != nil {
		return nil, err
	}
	alt, err := p.parseAlternation()
	if err != nil {
		return nil, err
	}
	if _, err := p.skipCWSP(); err != nil {
		return nil, err
	}
	if b, ok := p.peekByte(); !ok || b != ')' {
		return nil, p.errorf("expected \")\" to close group")
	}
	p.advance()
	return Group{Alt: alt}, nil
}

func (p *parser) parseOption() (Element, error) {
	p.advance() // "["
	if _, err := p.skipCWSP(); err != nil {
		return nil, err
	}
	alt, err := p.parseAlternation()
	if err != nil {
		return nil, err
	}
	if _, err := p.skipCWSP(); err != nil {
		return nil, err
	}
	if b, ok := p.peekByte(); !ok || b != ']' {
		return nil, p.errorf("expected \"]\" to close option")
	}
	p.advance()
	return Option{Alt: alt}, nil
}

func (p *parser) parseCharVal(caseSensitive bool) (Element, error) {
	if b, ok := p.peekByte(); !ok || b != '"' {
		return nil, p.errorf("expected opening quote")
	}
	p.advance()
	start := p.pos
	for {
		b, ok := p.peekByte()
		if !ok {
			return nil, p.errorf("unterminated quoted string")
		}
		if b == '"' {
			break
		}
		if b < 0x20 || b == 0x7F {
			return nil, p.errorf("invalid character in quoted string")
		}
		p.advance()
	}
	val := string(p.src[start:p.pos])
	p.advance() // closing quote
	return CharVal{CaseSensitive: caseSensitive, Value: val}, nil
}

func (p *parser) parseNumOrCharVal() (Element, error) {
	p.advance() // "%"
	b, ok := p.peekByte()
	if !ok {
		return nil, p.errorf("expected num-val or char-val prefix after \"%%\"")
	}
	switch b {
	case 's', 'S':
		p.advance()
		return p.parseCharVal(true)
	case 'i', 'I':
		p.advance()
		return p.parseCharVal(false)
	case 'b', 'B':
		p.advance()
		return p.parseNumVal('b')
	case 'd', 'D':
		p.advance()
		return p.parseNumVal('d')
	case 'x', 'X':
		p.advance()
		return p.parseNumVal('x')
	default:
		return nil, p.errorf("unrecognized num-val/char-val prefix %%%c", b)
	}
}

func (p *parser) parseNumVal(base byte) (Element, error) {
	v1, err := p.parseDigitsForBase(base)
	if err != nil {
		return nil, err
	}
	if b, ok := p.peekByte(); ok && b == '-' {
		p.advance()
		v2, err := p.parseDigitsForBase(base)
		if err != nil {
			return nil, err
		}
		if v2 < v1 {
			return nil, p.errorf("num-val range has lower bound %#x greater than upper bound %#x", v1, v2)
		}
		return NumVal{Base: base, Range: true, Lo: v1, Hi: v2}, nil
	}
	values := []uint32{v1}
	for {
		b, ok := p.peekByte()
		if !ok || b != '.' {
			break
		}
		p.advance()
		v, err := p.parseDigitsForBase(base)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return NumVal{Base: base, Values: values}, nil
}

func (p *parser) parseDigitsForBase(base byte) (uint32, error) {
	start := p.pos
	valid := func(b byte) bool {
		switch base {
		case 'b':
			return b == '0' || b == '1'
		case 'x':
			return isDIGIT(b) || (b >= 'A' && b <= 'F') || (b >= 'a' && b <= 'f')
		default:
			return isDIGIT(b)
		}
	}
	for {
		b, ok := p.peekByte()
		if ok && valid(b) {
			p.advance()
			continue
		}
		break
	}
	if p.pos == start {
		return 0, p.errorf("expected digits for num-val base %q", base)
	}
	radix := 10
	switch base {
	case 'b':
		radix = 2
	case 'x':
		radix = 16
	}
	v, err := strconv.ParseUint(string(p.src[start:p.pos]), radix, 32)
	if err != nil {
		return 0, p.errorf("invalid numeric literal: %v", err)
	}
	return uint32(v), nil
}

func (p *parser) parseProseVal() (Element, error) {
	p.advance() // "<"
	start := p.pos
	for {
		b, ok := p.peekByte()
		if !ok {
			return nil, p.errorf("unterminated prose-val")
		}
		if b == '>' {
			break
		}
		if b < 0x20 || b > 0x7E {
			return nil, p.errorf("invalid character in prose-val")
		}
		p.advance()
	}
	text := string(p.src[start:p.pos])
	p.advance() // ">"
	return ProseVal{Text: text}, nil
}
