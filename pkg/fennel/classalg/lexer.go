// Package classalg parses and evaluates the extended character-class
// algebra: the (?[ ... ]) sub-language of the dialect, a set algebra over
// character classes with union, intersection, difference, symmetric
// difference, and complement.
//
// The sub-language is always in free-spacing mode: whitespace and
// #-comments are ignored regardless of the enclosing pattern's flags.
// Expressions are evaluated at translation time down to concrete rune sets
// and emitted as ordinary host character classes, because the host engine
// has no class-operator syntax of its own.
package classalg

import (
	"unicode"

	ferrors "github.com/sambeau/fennel/pkg/fennel/errors"
)

// TokenType represents different types of tokens
type TokenType int

const (
	ILLEGAL TokenType = iota
	END               // the "])" closing the construct

	// Atoms
	CLASS  // [...] bracketed class (Literal holds the content, brackets stripped)
	POSIX  // [:name:] (Literal holds the name)
	ESCAPE // \d, \p{...}, \x{...}, ... (Literal holds text after the backslash)

	// Operators
	BANG  // ! complement
	AMP   // & intersection
	PLUS  // + union
	PIPE  // | union
	MINUS // - difference
	CARET // ^ symmetric difference

	// Grouping
	LPAREN // (
	RPAREN // )
	NESTED // (?[ opening a nested construct
)

// Token represents a single token of the algebra sub-language.
type Token struct {
	Type    TokenType
	Literal string
	Pos     int // rune offset in the enclosing pattern
}

// lexer scans the algebra sub-language inside a full dialect pattern.
// src is the whole pattern; scanning starts just after the opening "(?[".
type lexer struct {
	src []rune
	pos int
}

func (l *lexer) errorAt(code string, pos int, data map[string]any) *ferrors.RegexError {
	return ferrors.New(code, string(l.src), pos, data)
}

// skipSpace consumes whitespace and #-comments. Always active in this
// sub-language.
func (l *lexer) skipSpace() {
	for l.pos < len(l.src) {
		r := l.src[l.pos]
		switch {
		case unicode.IsSpace(r):
			l.pos++
		case r == '#':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		default:
			return
		}
	}
}

// next returns the next token. The "])" terminator is returned as END.
func (l *lexer) next() (Token, error) {
	l.skipSpace()
	if l.pos >= len(l.src) {
		return Token{}, l.errorAt("RX-0008", l.pos, nil)
	}
	start := l.pos
	r := l.src[l.pos]
	switch r {
	case ']':
		if l.pos+1 < len(l.src) && l.src[l.pos+1] == ')' {
			l.pos += 2
			return Token{Type: END, Pos: start}, nil
		}
		return Token{}, l.errorAt("RX-0009", start, map[string]any{"Char": "]"})
	case '!':
		l.pos++
		return Token{Type: BANG, Literal: "!", Pos: start}, nil
	case '&':
		l.pos++
		return Token{Type: AMP, Literal: "&", Pos: start}, nil
	case '+':
		l.pos++
		return Token{Type: PLUS, Literal: "+", Pos: start}, nil
	case '|':
		l.pos++
		return Token{Type: PIPE, Literal: "|", Pos: start}, nil
	case '-':
		l.pos++
		return Token{Type: MINUS, Literal: "-", Pos: start}, nil
	case '^':
		l.pos++
		return Token{Type: CARET, Literal: "^", Pos: start}, nil
	case '(':
		if l.pos+2 < len(l.src) && l.src[l.pos+1] == '?' && l.src[l.pos+2] == '[' {
			l.pos += 3
			return Token{Type: NESTED, Literal: "(?[", Pos: start}, nil
		}
		l.pos++
		return Token{Type: LPAREN, Literal: "(", Pos: start}, nil
	case ')':
		l.pos++
		return Token{Type: RPAREN, Literal: ")", Pos: start}, nil
	case '[':
		return l.lexBracket(start)
	case '\\':
		return l.lexEscape(start)
	}
	return Token{}, l.errorAt("RX-0009", start, map[string]any{"Char": string(r)})
}

// lexBracket scans either a POSIX name [:name:] or a literal bracketed
// class [...], honoring the leading-] and leading-^ rules.
func (l *lexer) lexBracket(start int) (Token, error) {
	l.pos++ // consume '['
	if l.pos < len(l.src) && l.src[l.pos] == ':' {
		// [:name:]
		nameStart := l.pos + 1
		i := nameStart
		for i < len(l.src) && l.src[i] != ':' {
			i++
		}
		if i+1 >= len(l.src) || l.src[i+1] != ']' {
			return Token{}, l.errorAt("RX-0002", start, nil)
		}
		l.pos = i + 2
		return Token{Type: POSIX, Literal: string(l.src[nameStart:i]), Pos: start}, nil
	}

	contentStart := l.pos
	i := l.pos
	if i < len(l.src) && l.src[i] == '^' {
		i++
	}
	if i < len(l.src) && l.src[i] == ']' {
		i++ // leading ] is a literal
	}
	for i < len(l.src) {
		switch l.src[i] {
		case '\\':
			i += 2
			continue
		case ']':
			content := string(l.src[contentStart:i])
			l.pos = i + 1
			return Token{Type: CLASS, Literal: content, Pos: start}, nil
		}
		i++
	}
	return Token{}, l.errorAt("RX-0002", start, nil)
}

// lexEscape scans a backslash escape atom: a single escape character,
// optionally followed by a {...} payload (as in \p{...}, \x{...}, \N{...}).
func (l *lexer) lexEscape(start int) (Token, error) {
	l.pos++ // consume '\'
	if l.pos >= len(l.src) {
		return Token{}, l.errorAt("RX-0013", start, nil)
	}
	c := l.src[l.pos]
	l.pos++
	if l.pos < len(l.src) && l.src[l.pos] == '{' {
		switch c {
		case 'p', 'P', 'x', 'N', 'o':
			end := l.pos + 1
			for end < len(l.src) && l.src[end] != '}' {
				end++
			}
			if end >= len(l.src) {
				return Token{}, l.errorAt("RX-0016", start, map[string]any{"Kind": string(c)})
			}
			lit := string(l.src[l.pos-1 : end+1])
			l.pos = end + 1
			return Token{Type: ESCAPE, Literal: lit, Pos: start}, nil
		}
	}
	if (c == 'p' || c == 'P') && l.pos < len(l.src) {
		// single-letter property: \pL
		lit := string(c) + string(l.src[l.pos])
		l.pos++
		return Token{Type: ESCAPE, Literal: lit, Pos: start}, nil
	}
	if c == 'x' {
		// \xNN without braces
		end := l.pos
		for end < len(l.src) && end < l.pos+2 && isHexDigit(l.src[end]) {
			end++
		}
		lit := "x" + string(l.src[l.pos:end])
		l.pos = end
		return Token{Type: ESCAPE, Literal: lit, Pos: start}, nil
	}
	if c >= '0' && c <= '7' {
		// octal escape
		end := l.pos
		for end < len(l.src) && end < l.pos+2 && l.src[end] >= '0' && l.src[end] <= '7' {
			end++
		}
		lit := string(c) + string(l.src[l.pos:end])
		l.pos = end
		return Token{Type: ESCAPE, Literal: lit, Pos: start}, nil
	}
	return Token{Type: ESCAPE, Literal: string(c), Pos: start}, nil
}
