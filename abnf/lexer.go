package abnf

import (
	"fmt"

	"github.com/awwright/grammarswiki-fsm/fsmerr"
)

// pos is a restorable cursor snapshot, used for backtracking inside the
// recursive-descent parser (e.g. when a trailing c-wsp turns out not to
// fold into a following element).
type pos struct {
	off, line, col int
}

type parser struct {
	src  []byte
	pos  int
	line int
	col  int
}

func newParser(src []byte) *parser {
	return &parser{src: src, pos: 0, line: 1, col: 1}
}

func (p *parser) mark() pos        { return pos{p.pos, p.line, p.col} }
func (p *parser) reset(m pos)      { p.pos, p.line, p.col = m.off, m.line, m.col }
func (p *parser) atEnd() bool      { return p.pos >= len(p.src) }
func (p *parser) errorf(format string, args ...any) error {
	return &fsmerr.ParseError{Offset: p.pos, Line: p.line, Column: p.col, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) peekByte() (byte, bool) {
	if p.pos >= len(p.src) {
		return 0, false
	}
	return p.src[p.pos], true
}

func (p *parser) advance() byte {
	b := p.src[p.pos]
	p.pos++
	if b == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
	return b
}

func isALPHA(b byte) bool { return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') }
func isDIGIT(b byte) bool { return b >= '0' && b <= '9' }
func isVCHAR(b byte) bool { return b >= 0x21 && b <= 0x7E }

// consumeCRLF consumes exactly "\r\n" if present, never a bare "\r" or "\n".
// Every line, including the last, must end CRLF.
func (p *parser) consumeCRLF() bool {
	if p.pos+1 >= len(p.src) {
		return false
	}
	if p.src[p.pos] != '\r' || p.src[p.pos+1] != '\n' {
		return false
	}
	p.advance()
	p.advance()
	return true
}

// tryCNL attempts to consume one c-nl (comment or bare CRLF). Returns
// (true, nil) if one was consumed, (false, nil) if the cursor sits on
// neither, or (false, err) if it started to look like one and turned out
// malformed (unterminated comment, lone CR).
func (p *parser) tryCNL() (bool, error) {
	b, ok := p.peekByte()
	if !ok {
		return false, nil
	}
	if b == ';' {
		p.advance()
		for {
			b2, ok2 := p.peekByte()
			if !ok2 {
				return false, p.errorf("unterminated comment: missing CRLF")
			}
			if b2 == '\r' {
				break
			}
			if b2 == ' ' || b2 == '\t' || isVCHAR(b2) {
				p.advance()
				continue
			}
			return false, p.errorf("invalid character %q in comment", b2)
		}
		if !p.consumeCRLF() {
			return false, p.errorf("comment must end with CRLF")
		}
		return true, nil
	}
	if b == '\r' {
		if !p.consumeCRLF() {
			return false, p.errorf("bare CR without a following LF; CRLF is required")
		}
		return true, nil
	}
	return false, nil
}

// skipCWSP consumes *c-wsp: any run of spaces/tabs, and any c-nl that is
// itself immediately followed by a WSP (RFC 5234 line folding). A c-nl not
// followed by WSP is left unconsumed, since it terminates the current
// rule rather than folding into it. Returns how many c-wsp units were
// consumed, for callers that need to distinguish 1*c-wsp from *c-wsp.
func (p *parser) skipCWSP() (int, error) {
	n := 0
	for {
		if b, ok := p.peekByte(); ok && (b == ' ' || b == '\t') {
			p.advance()
			n++
			continue
		}
		save := p.mark()
		consumed, err := p.tryCNL()
		if err != nil {
			return n, err
		}
		if consumed {
			if b, ok := p.peekByte(); ok && (b == ' ' || b == '\t') {
				p.advance()
				n++
				continue
			}
			p.reset(save)
		}
		break
	}
	return n, nil
}

// tryBlankLine consumes one whitespace/comment-only rulelist item
// (*c-wsp c-nl), used between rule definitions. Leaves the cursor
// untouched and returns false if the current line is not blank.
func (p *parser) tryBlankLine() (bool, error) {
	save := p.mark()
	for {
		b, ok := p.peekByte()
		if !ok || (b != ' ' && b != '\t') {
			break
		}
		p.advance()
	}
	consumed, err := p.tryCNL()
	if err != nil {
		return false, err
	}
	if !consumed {
		p.reset(save)
		return false, nil
	}
	return true, nil
}
