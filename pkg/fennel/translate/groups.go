// groups.go - parenthesized constructs
//
// Groups carry most of the dialect's surface area: captures in three
// spellings, lookarounds, atomic groups, inline comments, flag groups with
// scoping, and the class-algebra construct. Recursion, code blocks, and
// conditionals have no host translation and are rejected as unsupported.

package translate

import (
	"strings"

	"github.com/sambeau/fennel/pkg/fennel/classalg"
)

func (t *translator) translateGroup() error {
	start := t.pos
	t.pos++ // consume '('
	t.depth++
	defer func() { t.depth-- }()
	if t.depth > maxNesting {
		return t.errorAt("RX-0010", start, nil)
	}
	if t.pos >= len(t.src) {
		return t.errorAt("RX-0001", start, nil)
	}

	if t.src[t.pos] != '?' {
		if t.flags.NoCapture() {
			t.emit("(?:")
		} else {
			name, err := t.declareGroup("", t.pos)
			if err != nil {
				return err
			}
			t.emit("(?<" + name + ">")
		}
		return t.finishGroup(start)
	}

	t.pos++ // consume '?'
	if t.pos >= len(t.src) {
		return t.errorAt("RX-0001", start, nil)
	}

	switch c := t.src[t.pos]; c {
	case '#':
		return t.dropComment(start)

	case '[':
		t.pos++
		frag, end, err := classalg.Evaluate(t.src, t.pos)
		if err != nil {
			return err
		}
		t.pos = end
		t.emit(frag)
		return nil

	case ':':
		t.pos++
		t.emit("(?:")
		return t.finishGroup(start)
	case '=':
		t.pos++
		t.emit("(?=")
		return t.finishGroup(start)
	case '!':
		t.pos++
		t.emit("(?!")
		return t.finishGroup(start)
	case '>':
		t.pos++
		t.emit("(?>")
		return t.finishGroup(start)

	case '<':
		if t.pos+1 < len(t.src) {
			switch t.src[t.pos+1] {
			case '=':
				t.pos += 2
				t.emit("(?<=")
				return t.finishGroup(start)
			case '!':
				t.pos += 2
				t.emit("(?<!")
				return t.finishGroup(start)
			}
		}
		return t.namedGroup(start, '<', '>')
	case '\'':
		return t.namedGroup(start, '\'', '\'')

	case 'P':
		t.pos++
		if t.pos >= len(t.src) {
			return t.errorAt("RX-0001", start, nil)
		}
		switch t.src[t.pos] {
		case '<':
			return t.namedGroup(start, '<', '>')
		case '=':
			return t.pythonRef(start)
		case '>':
			return t.errorAt("RX-0021", start, map[string]any{"What": "(?P>name) recursion"})
		}
		return t.errorAt("RX-0017", start, nil)

	case '{':
		return t.errorAt("RX-0021", start, map[string]any{"What": "(?{...}) code block"})
	case '(':
		return t.errorAt("RX-0021", start, map[string]any{"What": "(?(condition)...) conditional"})
	case 'R', '&', '+':
		return t.errorAt("RX-0021", start, map[string]any{"What": "subpattern recursion"})

	default:
		if c >= '0' && c <= '9' {
			return t.errorAt("RX-0021", start, map[string]any{"What": "subpattern recursion"})
		}
		if c == '-' && t.pos+1 < len(t.src) && t.src[t.pos+1] >= '0' && t.src[t.pos+1] <= '9' {
			return t.errorAt("RX-0021", start, map[string]any{"What": "subpattern recursion"})
		}
		return t.flagGroup(start)
	}
}

// finishGroup translates the group body, restores any flags the body
// toggled, and consumes the closing parenthesis.
func (t *translator) finishGroup(start int) error {
	saved := t.flags
	err := t.translateSeq(start)
	t.flags = saved
	if err != nil {
		return err
	}
	t.pos++ // consume ')'
	t.emit(")")
	return nil
}

// dropComment discards an inline (?#...) comment.
func (t *translator) dropComment(start int) error {
	for t.pos < len(t.src) {
		if t.src[t.pos] == ')' {
			t.pos++
			return nil
		}
		t.pos++
	}
	return t.errorAt("RX-0014", start, nil)
}

// namedGroup handles (?<name>...), (?'name'...) and (?P<name>...). pos is at
// the opening delimiter.
func (t *translator) namedGroup(start int, open, close rune) error {
	t.pos++ // consume the opening delimiter
	nameStart := t.pos
	for t.pos < len(t.src) && t.src[t.pos] != close {
		t.pos++
	}
	if t.pos >= len(t.src) {
		return t.errorAt("RX-0005", nameStart, map[string]any{"Name": string(t.src[nameStart:])})
	}
	name := string(t.src[nameStart:t.pos])
	t.pos++ // consume the closing delimiter
	declared, err := t.declareGroup(name, nameStart)
	if err != nil {
		return err
	}
	t.emit("(?<" + declared + ">")
	return t.finishGroup(start)
}

// pythonRef handles the (?P=name) backreference spelling.
func (t *translator) pythonRef(start int) error {
	t.pos++ // consume '='
	nameStart := t.pos
	for t.pos < len(t.src) && t.src[t.pos] != ')' {
		t.pos++
	}
	if t.pos >= len(t.src) {
		return t.errorAt("RX-0001", start, nil)
	}
	name := string(t.src[nameStart:t.pos])
	t.pos++ // consume ')'
	if _, ok := t.nameMap[name]; !ok {
		return t.errorAt("RX-0012", start, map[string]any{"Ref": name})
	}
	t.emit(`\k<` + name + `>`)
	return nil
}

// flagGroup handles (?flags), (?flags-flags), (?^flags) and the colon forms
// of each. The bare forms mutate the current bundle, which finishGroup
// restores when the enclosing group closes; the colon forms scope to their
// own body. Only i, m and s are forwarded to the host: x and n are consumed
// by the translator, and the charset modifiers a, d, l, u are accepted and
// ignored because translation is always Unicode-aware.
func (t *translator) flagGroup(start int) error {
	reset := false
	if t.src[t.pos] == '^' {
		reset = true
		t.pos++
	}

	var set, clear Flags
	letters := &set
	var hostSet, hostClear strings.Builder
	hostLetters := &hostSet
	sawLetter := false

	for t.pos < len(t.src) {
		c := t.src[t.pos]
		switch c {
		case ')', ':':
			goto done
		case '-':
			if letters == &clear {
				return t.errorAt("RX-0006", t.pos, map[string]any{"Flag": "-"})
			}
			letters = &clear
			hostLetters = &hostClear
			t.pos++
			continue
		case 'i', 'm', 's':
			hostLetters.WriteRune(c)
			fallthrough
		case 'x', 'n':
			f, err := ParseFlags(string(c))
			if err != nil {
				return err
			}
			if c == 'x' && letters.Extended() {
				f = MustParseFlags("xx")
			}
			*letters = letters.Merge(f)
			sawLetter = true
			t.pos++
			continue
		case 'a', 'd', 'l', 'u':
			sawLetter = true
			t.pos++ // charset modifiers; no-ops here
			continue
		}
		return t.errorAt("RX-0006", t.pos, map[string]any{"Flag": string(c)})
	}
	return t.errorAt("RX-0001", start, nil)

done:
	if reset {
		// (?^flags) means: default flags, then apply the listed ones.
		clear = Flags{bits: togglable}
		hostClear.Reset()
		for _, c := range "ims" {
			if !strings.ContainsRune(hostSet.String(), c) {
				hostClear.WriteRune(c)
			}
		}
	}

	inline := hostInline(hostSet.String(), hostClear.String())

	if t.src[t.pos] == ')' {
		if !reset && !sawLetter {
			return t.errorAt("RX-0017", start, nil)
		}
		t.pos++
		if inline != "" {
			t.emit("(?" + inline + ")")
		}
		t.flags = t.flags.withScope(set, clear)
		return nil
	}

	// colon form: scoped to the group body
	t.pos++ // consume ':'
	if inline != "" {
		t.emit("(?" + inline + ":")
	} else {
		t.emit("(?:")
	}
	saved := t.flags
	t.flags = t.flags.withScope(set, clear)
	err := t.translateSeq(start)
	t.flags = saved
	if err != nil {
		return err
	}
	t.pos++ // consume ')'
	t.emit(")")
	return nil
}

// hostInline renders the host-native part of a flag group, "" when neither
// side has host-native letters.
func hostInline(set, clear string) string {
	if set == "" && clear == "" {
		return ""
	}
	if clear == "" {
		return set
	}
	return set + "-" + clear
}
