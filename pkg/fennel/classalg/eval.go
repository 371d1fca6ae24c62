// eval.go - bottom-up evaluation of class-algebra expression trees
//
// Every expression lowers to a concrete rune set. Complement is kept lazy
// (a negation flag on the set) so that double complement cancels instead of
// materializing two full-range subtractions, and so the emitted class can
// use the compact [^...] form.

package classalg

import (
	"strconv"
	"unicode"

	ferrors "github.com/sambeau/fennel/pkg/fennel/errors"
	"github.com/sambeau/fennel/pkg/fennel/uniprop"
)

// set is a rune set with a lazy complement flag.
type set struct {
	t       *unicode.RangeTable
	negated bool
}

func (s set) complement() set {
	return set{t: s.t, negated: !s.negated}
}

func union(a, b set) set {
	switch {
	case !a.negated && !b.negated:
		return set{t: uniprop.Union(a.t, b.t)}
	case a.negated && b.negated:
		return set{t: uniprop.Intersect(a.t, b.t), negated: true}
	case a.negated:
		return set{t: uniprop.Subtract(a.t, b.t), negated: true}
	default:
		return set{t: uniprop.Subtract(b.t, a.t), negated: true}
	}
}

func intersect(a, b set) set {
	switch {
	case !a.negated && !b.negated:
		return set{t: uniprop.Intersect(a.t, b.t)}
	case a.negated && b.negated:
		return set{t: uniprop.Union(a.t, b.t), negated: true}
	case a.negated:
		return set{t: uniprop.Subtract(b.t, a.t)}
	default:
		return set{t: uniprop.Subtract(a.t, b.t)}
	}
}

func subtract(a, b set) set {
	return intersect(a, b.complement())
}

func symDiff(a, b set) set {
	return union(subtract(a, b), subtract(b, a))
}

// Fragment renders the set as a host character class.
func (s set) Fragment() string {
	if uniprop.IsEmpty(s.t) {
		full, _ := uniprop.LookupTable("Any")
		if s.negated {
			return "[" + uniprop.ClassBody(full) + "]" // complement of nothing
		}
		return "[^" + uniprop.ClassBody(full) + "]" // matches no rune
	}
	if s.negated {
		return "[^" + uniprop.ClassBody(s.t) + "]"
	}
	return "[" + uniprop.ClassBody(s.t) + "]"
}

// Evaluate parses and evaluates a (?[ ... ]) construct. pattern is the full
// enclosing dialect pattern (used for error positions); start is the rune
// offset just after the opening "(?[". It returns the host class fragment
// and the offset just past the closing "])".
func Evaluate(pattern []rune, start int) (string, int, error) {
	l := &lexer{src: pattern, pos: start}
	p := &parser{lex: l}
	n, err := p.parseConstruct()
	if err != nil {
		return "", 0, err
	}
	s, err := n.eval(p)
	if err != nil {
		return "", 0, err
	}
	return s.Fragment(), l.pos, nil
}

func (n *binaryNode) eval(p *parser) (set, error) {
	left, err := n.left.eval(p)
	if err != nil {
		return set{}, err
	}
	right, err := n.right.eval(p)
	if err != nil {
		return set{}, err
	}
	switch n.op {
	case AMP:
		return intersect(left, right), nil
	case PLUS, PIPE:
		return union(left, right), nil
	case MINUS:
		return subtract(left, right), nil
	case CARET:
		return symDiff(left, right), nil
	}
	return set{}, p.errorAt("RX-0018", n.pos, nil)
}

func (n *complementNode) eval(p *parser) (set, error) {
	child, err := n.child.eval(p)
	if err != nil {
		return set{}, err
	}
	return child.complement(), nil
}

func (n *atomNode) eval(p *parser) (set, error) {
	switch n.tok.Type {
	case POSIX:
		t, ok := uniprop.PosixTable(n.tok.Literal)
		if !ok {
			return set{}, p.errorAt("RX-0004", n.tok.Pos, map[string]any{"Name": n.tok.Literal})
		}
		return set{t: t}, nil
	case ESCAPE:
		return escapeSet(p, n.tok.Literal, n.tok.Pos)
	case CLASS:
		return parseClassSet(p, n.tok)
	}
	return set{}, p.errorAt("RX-0009", n.tok.Pos, map[string]any{"Char": n.tok.Literal})
}

// escapeSet resolves a backslash-escape atom to a set. The atom stands for
// a one-element class unless it is itself a class-valued escape.
func escapeSet(p *parser, lit string, pos int) (set, error) {
	t, r, isRune, err := escapeElement(p, lit, pos)
	if err != nil {
		return set{}, err
	}
	if isRune {
		return set{t: uniprop.Table([]span{{Lo: r, Hi: r}})}, nil
	}
	return set{t: t}, nil
}

// span re-exported shape for building one-element tables
type span = uniprop.Span

// escapeElement resolves an escape to either a single rune or a rune set.
func escapeElement(p *parser, lit string, pos int) (*unicode.RangeTable, rune, bool, error) {
	c := lit[0]
	switch c {
	case 'd', 'D':
		t, _ := uniprop.PosixTable("digit")
		return maybeComplement(t, c == 'D'), 0, false, nil
	case 'w', 'W':
		t, _ := uniprop.PosixTable("word")
		return maybeComplement(t, c == 'W'), 0, false, nil
	case 's', 'S':
		t, _ := uniprop.PosixTable("space")
		return maybeComplement(t, c == 'S'), 0, false, nil
	case 'h', 'H':
		t, err := uniprop.LookupTable("HorizSpace")
		if err != nil {
			return nil, 0, false, err
		}
		return maybeComplement(t, c == 'H'), 0, false, nil
	case 'v', 'V':
		t, err := uniprop.LookupTable("VertSpace")
		if err != nil {
			return nil, 0, false, err
		}
		return maybeComplement(t, c == 'V'), 0, false, nil
	case 'p', 'P':
		name := payload(lit)
		if name == "" && len(lit) == 2 {
			name = lit[1:]
		}
		if name == "" {
			return nil, 0, false, p.errorAt("RX-0020", pos, map[string]any{"Name": lit})
		}
		t, err := uniprop.LookupTable(name)
		if err != nil {
			if re, ok := err.(*ferrors.RegexError); ok {
				re.Pattern = string(p.lex.src)
				re.Offset = pos
			}
			return nil, 0, false, err
		}
		return maybeComplement(t, c == 'P'), 0, false, nil
	case 'N':
		if len(lit) == 1 {
			// \N: any non-newline
			nl := uniprop.Table([]span{{Lo: '\n', Hi: '\n'}})
			return uniprop.Complement(nl), 0, false, nil
		}
		r, ok := uniprop.CharByName(payload(lit))
		if !ok {
			return nil, 0, false, p.errorAt("RX-0011", pos, map[string]any{"Name": payload(lit)})
		}
		return nil, r, true, nil
	case 'x':
		body := payload(lit)
		if body == "" {
			body = lit[1:]
		}
		v, err := strconv.ParseUint(body, 16, 32)
		if err != nil || v > uint64(unicode.MaxRune) {
			return nil, 0, false, p.errorAt("RX-0009", pos, map[string]any{"Char": lit})
		}
		return nil, rune(v), true, nil
	case 'o':
		v, err := strconv.ParseUint(payload(lit), 8, 32)
		if err != nil || v > uint64(unicode.MaxRune) {
			return nil, 0, false, p.errorAt("RX-0009", pos, map[string]any{"Char": lit})
		}
		return nil, rune(v), true, nil
	case 'n':
		return nil, '\n', true, nil
	case 't':
		return nil, '\t', true, nil
	case 'r':
		return nil, '\r', true, nil
	case 'f':
		return nil, '\f', true, nil
	case 'a':
		return nil, 0x07, true, nil
	case 'e':
		return nil, 0x1B, true, nil
	case 'b':
		return nil, 0x08, true, nil
	}
	if c >= '0' && c <= '7' {
		v, err := strconv.ParseUint(lit, 8, 32)
		if err != nil {
			return nil, 0, false, p.errorAt("RX-0009", pos, map[string]any{"Char": lit})
		}
		return nil, rune(v), true, nil
	}
	r := []rune(lit)[0]
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return nil, 0, false, p.errorAt("RX-0015", pos, map[string]any{"Char": lit})
	}
	return nil, r, true, nil
}

func maybeComplement(t *unicode.RangeTable, neg bool) *unicode.RangeTable {
	if neg {
		return uniprop.Complement(t)
	}
	return t
}

// payload extracts the text between braces of escapes like p{...}, x{...}.
func payload(lit string) string {
	open := -1
	for i := 0; i < len(lit); i++ {
		if lit[i] == '{' {
			open = i
			break
		}
	}
	if open < 0 || lit[len(lit)-1] != '}' {
		return ""
	}
	return lit[open+1 : len(lit)-1]
}

// parseClassSet evaluates a literal bracketed class atom to a set. The
// free-spacing rule reaches inside brackets here: unescaped whitespace and
// #-comments are skipped.
func parseClassSet(p *parser, tok Token) (set, error) {
	content := []rune(tok.Literal)
	i := 0
	negated := false
	if i < len(content) && content[i] == '^' {
		negated = true
		i++
	}
	result := &unicode.RangeTable{}
	first := true
	for i < len(content) {
		r := content[i]
		if unicode.IsSpace(r) {
			i++
			continue
		}
		if r == '#' {
			for i < len(content) && content[i] != '\n' {
				i++
			}
			continue
		}
		if r == ']' && !first {
			// cannot happen: the lexer stops at the first unescaped ]
			i++
			continue
		}
		first = false

		t, lo, isRune, n, err := classElement(p, content, i, tok.Pos)
		if err != nil {
			return set{}, err
		}
		i += n
		if !isRune {
			result = uniprop.Union(result, t)
			continue
		}

		// possible range lo-hi
		if i+1 < len(content) && content[i] == '-' {
			t2, hi, isRune2, n2, err := classElement(p, content, i+1, tok.Pos)
			if err == nil && isRune2 {
				if hi < lo {
					return set{}, p.errorAt("RX-0003", tok.Pos, map[string]any{
						"Lo": string(lo), "Hi": string(hi),
					})
				}
				result = uniprop.Union(result, uniprop.Table([]span{{Lo: lo, Hi: hi}}))
				i += 1 + n2
				continue
			}
			if err == nil && !isRune2 {
				// "a-\d" style: dash is a literal
				result = uniprop.Union(result, uniprop.Table([]span{{Lo: lo, Hi: lo}, {Lo: '-', Hi: '-'}}))
				result = uniprop.Union(result, t2)
				i += 1 + n2
				continue
			}
			return set{}, err
		}
		result = uniprop.Union(result, uniprop.Table([]span{{Lo: lo, Hi: lo}}))
	}
	return set{t: result, negated: negated}, nil
}

// classElement parses one element of a bracketed class starting at index i.
// Returns either a single rune or a table, plus the number of runes consumed.
func classElement(p *parser, content []rune, i int, basePos int) (*unicode.RangeTable, rune, bool, int, error) {
	r := content[i]
	if r == '\\' {
		if i+1 >= len(content) {
			return nil, 0, false, 0, p.errorAt("RX-0013", basePos, nil)
		}
		// reuse the escape lexer on the remaining content
		sub := &lexer{src: content, pos: i}
		tok, err := sub.lexEscape(i)
		if err != nil {
			return nil, 0, false, 0, err
		}
		t, lit, isRune, err := escapeElement(p, tok.Literal, basePos)
		if err != nil {
			return nil, 0, false, 0, err
		}
		return t, lit, isRune, sub.pos - i, nil
	}
	if r == '[' && i+1 < len(content) && content[i+1] == ':' {
		// [:name:] inside a bracketed class
		j := i + 2
		for j < len(content) && content[j] != ':' {
			j++
		}
		if j+1 >= len(content) || content[j+1] != ']' {
			return nil, 0, false, 0, p.errorAt("RX-0002", basePos, nil)
		}
		name := string(content[i+2 : j])
		t, ok := uniprop.PosixTable(name)
		if !ok {
			return nil, 0, false, 0, p.errorAt("RX-0004", basePos, map[string]any{"Name": name})
		}
		return t, 0, false, j + 2 - i, nil
	}
	return nil, r, true, 1, nil
}
