// parser.go - recursive-descent parser for the class algebra
//
// Precedence, highest to lowest:
//
//	!  unary complement (right-associative)
//	&  intersection (left-associative)
//	+ | - ^  union / union / difference / symmetric difference
//	         (equal precedence, left-associative)

package classalg

import (
	ferrors "github.com/sambeau/fennel/pkg/fennel/errors"
)

// maxDepth bounds nesting of parenthesized and nested (?[...]) expressions
// so that pathological patterns report an error instead of exhausting the
// stack.
const maxDepth = 200

// node is an expression-tree node, evaluated bottom-up.
type node interface {
	eval(p *parser) (set, error)
}

type binaryNode struct {
	op          TokenType // AMP, PLUS, PIPE, MINUS, CARET
	left, right node
	pos         int
}

type complementNode struct {
	child node
	pos   int
}

type atomNode struct {
	tok Token
}

type parser struct {
	lex   *lexer
	tok   Token // current token
	depth int
}

func isHexDigit(r rune) bool {
	return r >= '0' && r <= '9' || r >= 'a' && r <= 'f' || r >= 'A' && r <= 'F'
}

func (p *parser) errorAt(code string, pos int, data map[string]any) *ferrors.RegexError {
	return ferrors.New(code, string(p.lex.src), pos, data)
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

// parseConstruct parses a full construct body up to and including the
// closing "])".
func (p *parser) parseConstruct() (node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.Type == END {
		return nil, p.errorAt("RX-0007", p.tok.Pos, nil)
	}
	n, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.tok.Type != END {
		return nil, p.errorAt("RX-0018", p.tok.Pos, nil)
	}
	return n, nil
}

// parseExpr handles the lowest-precedence operators.
func (p *parser) parseExpr() (node, error) {
	left, err := p.parseIntersect()
	if err != nil {
		return nil, err
	}
	for {
		switch p.tok.Type {
		case PLUS, PIPE, MINUS, CARET:
			op, pos := p.tok.Type, p.tok.Pos
			if err := p.advance(); err != nil {
				return nil, err
			}
			right, err := p.parseIntersect()
			if err != nil {
				return nil, err
			}
			left = &binaryNode{op: op, left: left, right: right, pos: pos}
		default:
			return left, nil
		}
	}
}

func (p *parser) parseIntersect() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.tok.Type == AMP {
		pos := p.tok.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: AMP, left: left, right: right, pos: pos}
	}
	return left, nil
}

func (p *parser) parseUnary() (node, error) {
	if p.tok.Type == BANG {
		pos := p.tok.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		child, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &complementNode{child: child, pos: pos}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	switch p.tok.Type {
	case CLASS, POSIX, ESCAPE:
		n := &atomNode{tok: p.tok}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return n, nil
	case LPAREN:
		p.depth++
		if p.depth > maxDepth {
			return nil, p.errorAt("RX-0010", p.tok.Pos, nil)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		n, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.tok.Type != RPAREN {
			return nil, p.errorAt("RX-0018", p.tok.Pos, nil)
		}
		p.depth--
		if err := p.advance(); err != nil {
			return nil, err
		}
		return n, nil
	case NESTED:
		// A nested (?[...]) is a complete sub-construct: parse it with its
		// own terminator before the outer expression continues.
		p.depth++
		if p.depth > maxDepth {
			return nil, p.errorAt("RX-0010", p.tok.Pos, nil)
		}
		n, err := p.parseConstruct()
		if err != nil {
			return nil, err
		}
		p.depth--
		if err := p.advance(); err != nil {
			return nil, err
		}
		return n, nil
	case END:
		return nil, p.errorAt("RX-0007", p.tok.Pos, nil)
	}
	return nil, p.errorAt("RX-0009", p.tok.Pos, map[string]any{"Char": p.tok.Literal})
}
