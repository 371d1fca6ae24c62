// escapes.go - backslash escapes outside character classes
//
// Most escapes pass through untouched. The rewrites live here: named
// characters, properties the host vocabulary lacks, backreference spellings,
// \K mark groups, \Q quoting, and the multi-rune shorthands \R and \X.

package translate

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/dlclark/regexp2"

	"github.com/sambeau/fennel/pkg/fennel/uniprop"
)

// linebreakAlt is the expansion of \R: CRLF as a unit, else any vertical
// space. Atomic so that \R never splits a CRLF pair under backtracking.
const linebreakAlt = `(?>\r\n|[\n\u000B\f\r\u0085\u2028\u2029])`

// graphemeAtom approximates \X: one non-mark rune plus any combining marks.
const graphemeAtom = `(?>\P{M}\p{M}*)`

func (t *translator) translateEscape() error {
	start := t.pos
	t.pos++ // consume '\'
	if t.pos >= len(t.src) {
		return t.errorAt("RX-0013", start, nil)
	}
	c := t.src[t.pos]
	t.pos++

	switch c {
	// Host-native escapes: copy through.
	case 'd', 'D', 'w', 'W', 's', 'S',
		'b', 'B', 'A', 'z', 'Z',
		't', 'n', 'r', 'f', 'a', 'e':
		if (c == 'b' || c == 'B') && t.pos < len(t.src) && t.src[t.pos] == '{' {
			return t.boundaryEscape(c, start)
		}
		t.emit(`\` + string(c))
		return nil

	case 'c':
		if t.pos >= len(t.src) {
			return t.errorAt("RX-0013", start, nil)
		}
		t.emit(`\c` + string(t.src[t.pos]))
		t.pos++
		return nil

	case 'h':
		return t.propertyFragment("HorizSpace", false)
	case 'H':
		return t.propertyFragment("HorizSpace", true)
	case 'v':
		return t.propertyFragment("VertSpace", false)
	case 'V':
		return t.propertyFragment("VertSpace", true)

	case 'R':
		t.emit(linebreakAlt)
		return nil
	case 'X':
		t.emit(graphemeAtom)
		return nil

	case 'p', 'P':
		return t.unicodeProperty(c, start)

	case 'N':
		return t.namedChar(start)

	case 'x':
		r, err := t.hexEscape(start)
		if err != nil {
			return err
		}
		t.emit(uniprop.EscapeRune(r))
		return nil

	case 'o':
		r, err := t.braceOctal(start)
		if err != nil {
			return err
		}
		t.emit(uniprop.EscapeRune(r))
		return nil

	case '0':
		t.emit(uniprop.EscapeRune(t.readOctal(2)))
		return nil

	case '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return t.numericRef(c, start)

	case 'g':
		return t.relativeRef(start)
	case 'k':
		return t.namedRef(start)

	case 'K':
		t.markOrd++
		t.hasMark = true
		t.emit(fmt.Sprintf("(?<%s%d>)", MarkGroupPrefix, t.markOrd))
		return nil

	case 'Q':
		return t.quoteRun()
	case 'E':
		return nil // stray \E is a no-op

	case 'G':
		// only meaningful as the very first token, which Translate strips
		return t.errorAt("RX-0021", start, map[string]any{"What": `\G`})
	case 'C':
		return t.errorAt("RX-0021", start, map[string]any{"What": `\C`})
	}

	if unicode.IsLetter(c) || unicode.IsDigit(c) {
		return t.errorAt("RX-0015", start, map[string]any{"Char": string(c)})
	}
	t.emit(`\`)
	t.emitRune(c)
	return nil
}

// boundaryEscape handles \b{...} and \B{...}. The host has no grapheme,
// word, or sentence boundary assertions; the word form maps onto \b exactly
// enough, the rest are recorded as approximations.
func (t *translator) boundaryEscape(c rune, start int) error {
	body, err := t.bracePayload(c, start)
	if err != nil {
		return err
	}
	kind := strings.ToLower(strings.TrimSpace(body))
	switch kind {
	case "wb":
	case "gcb", "sb", "lb":
		t.warnf(`\%c{%s} approximated as \%c`, c, kind, c)
	default:
		return t.errorAt("RX-0021", start, map[string]any{"What": fmt.Sprintf(`\%c{%s}`, c, body)})
	}
	t.emit(`\` + string(c))
	return nil
}

// propertyFragment emits a resolver-backed class such as \h or \V.
func (t *translator) propertyFragment(name string, negated bool) error {
	frag, err := uniprop.Resolve(name, negated)
	if err != nil {
		return err
	}
	t.emit(frag.Wrap())
	return nil
}

// unicodeProperty handles \p{...}, \P{...} and the single-letter \pL form.
// A leading ^ in the braces flips negation, as in \p{^Greek}.
func (t *translator) unicodeProperty(c rune, start int) error {
	negated := c == 'P'
	var name string
	if t.pos < len(t.src) && t.src[t.pos] == '{' {
		body, err := t.bracePayload(c, start)
		if err != nil {
			return err
		}
		name = body
		if rest, ok := strings.CutPrefix(name, "^"); ok {
			negated = !negated
			name = rest
		}
	} else {
		if t.pos >= len(t.src) {
			return t.errorAt("RX-0013", start, nil)
		}
		name = string(t.src[t.pos])
		t.pos++
	}
	frag, err := uniprop.Resolve(name, negated)
	if err != nil {
		return t.locate(err)
	}
	t.emit(frag.Wrap())
	return nil
}

// namedChar handles the \N family. Bare \N matches any non-newline, even
// under the s flag; a brace payload is either a quantifier (which belongs to
// the \N atom and is left for the main loop), the U+XXXX form, or a
// character name.
func (t *translator) namedChar(start int) error {
	if t.pos >= len(t.src) || t.src[t.pos] != '{' || t.quantifierBraceNext() {
		t.emit(`[^\n]`)
		return nil
	}
	body, err := t.bracePayload('N', start)
	if err != nil {
		return err
	}
	r, ok := uniprop.CharByName(body)
	if !ok {
		return t.errorAt("RX-0011", start, map[string]any{"Name": body})
	}
	t.emit(uniprop.EscapeRune(r))
	return nil
}

// quantifierBraceNext reports whether the brace at pos is a quantifier.
func (t *translator) quantifierBraceNext() bool {
	saved := t.pos
	defer func() { t.pos = saved }()
	return t.scanBraceQuant() >= 0
}

// hexEscape handles \x{...} and bare \xNN. A bare \x with no digits is NUL.
func (t *translator) hexEscape(start int) (rune, error) {
	if t.pos < len(t.src) && t.src[t.pos] == '{' {
		body, err := t.bracePayload('x', start)
		if err != nil {
			return 0, err
		}
		v, err2 := strconv.ParseUint(strings.TrimSpace(body), 16, 32)
		if err2 != nil || v > uint64(unicode.MaxRune) {
			return 0, t.errorAt("RX-0015", start, map[string]any{"Char": "x{" + body + "}"})
		}
		return rune(v), nil
	}
	var v rune
	for n := 0; n < 2 && t.pos < len(t.src) && isHex(t.src[t.pos]); n++ {
		v = v<<4 | hexVal(t.src[t.pos])
		t.pos++
	}
	return v, nil
}

func (t *translator) braceOctal(start int) (rune, error) {
	body, err := t.bracePayload('o', start)
	if err != nil {
		return 0, err
	}
	v, err2 := strconv.ParseUint(strings.TrimSpace(body), 8, 32)
	if err2 != nil || v > uint64(unicode.MaxRune) {
		return 0, t.errorAt("RX-0015", start, map[string]any{"Char": "o{" + body + "}"})
	}
	return rune(v), nil
}

// readOctal consumes up to max further octal digits at pos and returns the
// accumulated rune value (the digits already consumed contribute zero).
func (t *translator) readOctal(max int) rune {
	var v rune
	for n := 0; n < max && t.pos < len(t.src) && t.src[t.pos] >= '0' && t.src[t.pos] <= '7'; n++ {
		v = v<<3 | (t.src[t.pos] - '0')
		t.pos++
	}
	return v
}

// numericRef disambiguates \1..\999: a backreference when that many groups
// exist so far, an octal escape otherwise (if the digits allow it).
func (t *translator) numericRef(first rune, start int) error {
	digits := string(first)
	for t.pos < len(t.src) && t.src[t.pos] >= '0' && t.src[t.pos] <= '9' {
		digits += string(t.src[t.pos])
		t.pos++
	}
	n, _ := strconv.Atoi(digits)
	if n >= 1 && n <= len(t.names) {
		t.emit(`\k<` + t.names[n-1] + `>`)
		return nil
	}
	// A single digit is always a backreference; multi-digit forms fall
	// back to octal when the group does not exist.
	if len(digits) == 1 {
		return t.errorAt("RX-0012", start, map[string]any{"Ref": digits})
	}
	if first <= '7' {
		// re-read as an octal escape of at most three digits
		t.pos = start + 1
		v := rune(first - '0')
		t.pos++
		for n := 1; n < 3 && t.pos < len(t.src) && t.src[t.pos] >= '0' && t.src[t.pos] <= '7'; n++ {
			v = v<<3 | (t.src[t.pos] - '0')
			t.pos++
		}
		t.emit(uniprop.EscapeRune(v))
		return nil
	}
	return t.errorAt("RX-0012", start, map[string]any{"Ref": digits})
}

// relativeRef handles \g{name}, \g{N}, \g{-N}, \gN and \g-N.
func (t *translator) relativeRef(start int) error {
	var body string
	if t.pos < len(t.src) && t.src[t.pos] == '{' {
		var err error
		body, err = t.bracePayload('g', start)
		if err != nil {
			return err
		}
	} else {
		i := t.pos
		if i < len(t.src) && t.src[i] == '-' {
			i++
		}
		for i < len(t.src) && t.src[i] >= '0' && t.src[i] <= '9' {
			i++
		}
		if i == t.pos {
			return t.errorAt("RX-0015", start, map[string]any{"Char": "g"})
		}
		body = string(t.src[t.pos:i])
		t.pos = i
	}
	body = strings.TrimSpace(body)

	if n, err := strconv.Atoi(strings.TrimPrefix(body, "+")); err == nil {
		ord := n
		if n < 0 {
			ord = len(t.names) + 1 + n
		}
		if ord < 1 || ord > len(t.names) {
			return t.errorAt("RX-0012", start, map[string]any{"Ref": body})
		}
		t.emit(`\k<` + t.names[ord-1] + `>`)
		return nil
	}

	ord, ok := t.nameMap[body]
	if !ok || ord < 1 {
		return t.errorAt("RX-0012", start, map[string]any{"Ref": body})
	}
	t.emit(`\k<` + body + `>`)
	return nil
}

// namedRef handles the three \k spellings: \k<name>, \k'name', \k{name}.
func (t *translator) namedRef(start int) error {
	if t.pos >= len(t.src) {
		return t.errorAt("RX-0013", start, nil)
	}
	var close rune
	switch t.src[t.pos] {
	case '<':
		close = '>'
	case '\'':
		close = '\''
	case '{':
		close = '}'
	default:
		return t.errorAt("RX-0015", start, map[string]any{"Char": "k"})
	}
	t.pos++
	nameStart := t.pos
	for t.pos < len(t.src) && t.src[t.pos] != close {
		t.pos++
	}
	if t.pos >= len(t.src) {
		return t.errorAt("RX-0016", start, map[string]any{"Kind": "k"})
	}
	name := string(t.src[nameStart:t.pos])
	t.pos++ // consume close
	if _, ok := t.nameMap[name]; !ok {
		return t.errorAt("RX-0012", start, map[string]any{"Ref": name})
	}
	t.emit(`\k<` + name + `>`)
	return nil
}

// quoteRun copies \Q...\E content as literals. A missing \E quotes through
// the end of the pattern.
func (t *translator) quoteRun() error {
	start := t.pos
	end := len(t.src)
	for i := t.pos; i+1 < len(t.src); i++ {
		if t.src[i] == '\\' && t.src[i+1] == 'E' {
			end = i
			break
		}
	}
	t.emit(regexp2.Escape(string(t.src[start:end])))
	if end < len(t.src) {
		t.pos = end + 2
	} else {
		t.pos = end
	}
	return nil
}

// bracePayload consumes "{...}" at pos and returns the inner text. kind is
// the escape letter, used in the missing-brace error message.
func (t *translator) bracePayload(kind rune, start int) (string, error) {
	if t.pos >= len(t.src) || t.src[t.pos] != '{' {
		return "", t.errorAt("RX-0016", start, map[string]any{"Kind": string(kind)})
	}
	t.pos++
	bodyStart := t.pos
	for t.pos < len(t.src) && t.src[t.pos] != '}' {
		t.pos++
	}
	if t.pos >= len(t.src) {
		return "", t.errorAt("RX-0016", start, map[string]any{"Kind": string(kind)})
	}
	body := string(t.src[bodyStart:t.pos])
	t.pos++ // consume '}'
	return body, nil
}

func isHex(r rune) bool {
	return r >= '0' && r <= '9' || r >= 'a' && r <= 'f' || r >= 'A' && r <= 'F'
}

func hexVal(r rune) rune {
	switch {
	case r >= '0' && r <= '9':
		return r - '0'
	case r >= 'a' && r <= 'f':
		return r - 'a' + 10
	default:
		return r - 'A' + 10
	}
}
