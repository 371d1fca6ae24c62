// charclass.go - bracketed character classes
//
// Classes are rebuilt element by element rather than copied: range endpoints
// are validated (the host accepts some descending ranges the dialect must
// reject), POSIX names are spliced in, computed runes are emitted in escaped
// form, and the xx flag's in-class whitespace rule is applied here.

package translate

import (
	"unicode"

	"github.com/sambeau/fennel/pkg/fennel/uniprop"
)

func (t *translator) translateClass() error {
	start := t.pos
	t.pos++ // consume '['
	if t.pos >= len(t.src) {
		return t.errorAt("RX-0002", start, nil)
	}
	negated := false
	if t.src[t.pos] == '^' {
		negated = true
		t.pos++
	}

	var body []byte
	first := true
	for {
		t.skipClassSpace()
		if t.pos >= len(t.src) {
			return t.errorAt("RX-0002", start, nil)
		}
		if t.src[t.pos] == ']' && !first {
			t.pos++
			break
		}
		first = false

		frag, lo, isRune, err := t.classElement(start)
		if err != nil {
			return err
		}
		if !isRune {
			body = append(body, frag...)
			continue
		}

		t.skipClassSpace()
		if t.pos < len(t.src) && t.src[t.pos] == '-' &&
			t.pos+1 < len(t.src) && t.src[t.pos+1] != ']' {
			dashPos := t.pos
			t.pos++
			t.skipClassSpace()
			frag2, hi, isRune2, err := t.classElement(start)
			if err != nil {
				return err
			}
			if isRune2 {
				if hi < lo {
					return t.errorAt("RX-0003", dashPos, map[string]any{
						"Lo": string(lo), "Hi": string(hi),
					})
				}
				body = append(body, uniprop.EscapeRune(lo)...)
				body = append(body, '-')
				body = append(body, uniprop.EscapeRune(hi)...)
				continue
			}
			// "a-\d" keeps the dash literal
			body = append(body, uniprop.EscapeRune(lo)...)
			body = append(body, `\-`...)
			body = append(body, frag2...)
			continue
		}
		body = append(body, uniprop.EscapeRune(lo)...)
	}

	out := "["
	if negated {
		out += "^"
	}
	out += string(body) + "]"
	if t.classBoundary {
		t.classBoundary = false
		// \b inside a positive class keeps its backspace reading in the
		// class body and additionally matches at word boundaries, so the
		// class is hoisted into an alternation with the boundary assertion.
		// In a negated class it is only the backspace character.
		if !negated {
			out = "(?:" + out + `|\b)`
		}
	}
	t.emit(out)
	return nil
}

// skipClassSpace applies the xx flag inside classes: unescaped spaces and
// tabs are ignored.
func (t *translator) skipClassSpace() {
	if !t.flags.ExtendedMore() {
		return
	}
	for t.pos < len(t.src) && (t.src[t.pos] == ' ' || t.src[t.pos] == '\t') {
		t.pos++
	}
}

// classElement consumes one class element: a literal rune, an escape, or a
// [:posix:] name. Returns either a rune (range-capable) or a spliceable
// class-body fragment.
func (t *translator) classElement(classStart int) (frag string, r rune, isRune bool, err error) {
	c := t.src[t.pos]
	if c == '\\' {
		return t.classEscape(classStart)
	}
	if c == '[' && t.pos+1 < len(t.src) && t.src[t.pos+1] == ':' {
		return t.posixElement(classStart)
	}
	t.pos++
	return "", c, true, nil
}

// posixElement consumes [:name:] or [:^name:] inside a class.
func (t *translator) posixElement(classStart int) (string, rune, bool, error) {
	start := t.pos
	t.pos += 2 // consume "[:"
	negated := false
	if t.pos < len(t.src) && t.src[t.pos] == '^' {
		negated = true
		t.pos++
	}
	nameStart := t.pos
	for t.pos < len(t.src) && t.src[t.pos] != ':' {
		t.pos++
	}
	if t.pos+1 >= len(t.src) || t.src[t.pos+1] != ']' {
		return "", 0, false, t.errorAt("RX-0002", start, nil)
	}
	name := string(t.src[nameStart:t.pos])
	t.pos += 2 // consume ":]"

	if !negated {
		frag, ok := uniprop.PosixFragment(name)
		if !ok {
			return "", 0, false, t.errorAt("RX-0004", start, map[string]any{"Name": name})
		}
		return frag, 0, false, nil
	}
	table, ok := uniprop.PosixTable(name)
	if !ok {
		return "", 0, false, t.errorAt("RX-0004", start, map[string]any{"Name": name})
	}
	return uniprop.ClassBody(uniprop.Complement(table)), 0, false, nil
}

// classEscape resolves a backslash escape inside a class. Backreferences do
// not exist here, so digits are always octal, and \b is a backspace.
func (t *translator) classEscape(classStart int) (string, rune, bool, error) {
	start := t.pos
	t.pos++ // consume '\'
	if t.pos >= len(t.src) {
		return "", 0, false, t.errorAt("RX-0013", start, nil)
	}
	c := t.src[t.pos]
	t.pos++

	switch c {
	case 'd', 'D', 'w', 'W', 's', 'S':
		return `\` + string(c), 0, false, nil
	case 'h':
		return t.propertyBody("HorizSpace", false)
	case 'H':
		return t.propertyBody("HorizSpace", true)
	case 'v':
		return t.propertyBody("VertSpace", false)
	case 'V':
		return t.propertyBody("VertSpace", true)
	case 'p', 'P':
		return t.propertyElement(c, start)
	case 'N':
		if t.pos >= len(t.src) || t.src[t.pos] != '{' {
			// bare \N has no single-class meaning
			return "", 0, false, t.errorAt("RX-0015", start, map[string]any{"Char": "N"})
		}
		body, err := t.bracePayload('N', start)
		if err != nil {
			return "", 0, false, err
		}
		r, ok := uniprop.CharByName(body)
		if !ok {
			return "", 0, false, t.errorAt("RX-0011", start, map[string]any{"Name": body})
		}
		return "", r, true, nil
	case 'x':
		r, err := t.hexEscape(start)
		if err != nil {
			return "", 0, false, err
		}
		return "", r, true, nil
	case 'o':
		r, err := t.braceOctal(start)
		if err != nil {
			return "", 0, false, err
		}
		return "", r, true, nil
	case 'c':
		if t.pos >= len(t.src) {
			return "", 0, false, t.errorAt("RX-0013", start, nil)
		}
		ctl := t.src[t.pos]
		t.pos++
		return "", unicode.ToUpper(ctl) ^ 0x40, true, nil
	case 'n':
		return "", '\n', true, nil
	case 't':
		return "", '\t', true, nil
	case 'r':
		return "", '\r', true, nil
	case 'f':
		return "", '\f', true, nil
	case 'a':
		return "", 0x07, true, nil
	case 'e':
		return "", 0x1B, true, nil
	case 'b':
		t.classBoundary = true
		return "", 0x08, true, nil
	case '0', '1', '2', '3', '4', '5', '6', '7':
		v := c - '0'
		for n := 1; n < 3 && t.pos < len(t.src) && t.src[t.pos] >= '0' && t.src[t.pos] <= '7'; n++ {
			v = v<<3 | (t.src[t.pos] - '0')
			t.pos++
		}
		return "", v, true, nil
	}

	if unicode.IsLetter(c) || unicode.IsDigit(c) {
		return "", 0, false, t.errorAt("RX-0015", start, map[string]any{"Char": string(c)})
	}
	return "", c, true, nil
}

// propertyBody resolves a property shorthand to a spliceable class body.
func (t *translator) propertyBody(name string, negated bool) (string, rune, bool, error) {
	frag, err := uniprop.Resolve(name, negated)
	if err != nil {
		return "", 0, false, t.locate(err)
	}
	return frag.InClass(), 0, false, nil
}

// propertyElement handles \p and \P inside a class.
func (t *translator) propertyElement(c rune, start int) (string, rune, bool, error) {
	negated := c == 'P'
	var name string
	if t.pos < len(t.src) && t.src[t.pos] == '{' {
		body, err := t.bracePayload(c, start)
		if err != nil {
			return "", 0, false, err
		}
		name = body
		if len(name) > 0 && name[0] == '^' {
			negated = !negated
			name = name[1:]
		}
	} else {
		if t.pos >= len(t.src) {
			return "", 0, false, t.errorAt("RX-0013", start, nil)
		}
		name = string(t.src[t.pos])
		t.pos++
	}
	frag, err := uniprop.Resolve(name, negated)
	if err != nil {
		return "", 0, false, t.locate(err)
	}
	return frag.InClass(), 0, false, nil
}
