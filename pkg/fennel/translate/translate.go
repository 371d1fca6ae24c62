// translate.go - single-pass pattern translation to host syntax
//
// The translator walks the dialect pattern once, left to right, copying what
// the host engine understands and rewriting what it does not. Capture groups
// deserve a note: the host numbers unnamed groups before named ones, which
// would scramble dialect group ordinals in any pattern mixing the two. Every
// capture is therefore emitted as a named group (user name or a synthetic
// "feng" name), and the engine addresses captures by name only, so host
// numbering never matters.

package translate

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	ferrors "github.com/sambeau/fennel/pkg/fennel/errors"
	"github.com/sambeau/fennel/pkg/fennel/uniprop"
)

// maxNesting bounds group nesting depth so that deeply nested patterns fail
// with a dialect error instead of exhausting the stack.
const maxNesting = 200

// syntheticPrefix starts every generated group name. Only the exact
// generated shapes are reserved for authors; see syntheticName.
const syntheticPrefix = "fen"

// MarkGroupPrefix names the empty groups that encode \K positions. The
// engine finds the last one that participated in a match and moves the
// reported match start there.
const MarkGroupPrefix = syntheticPrefix + "markK"

// Result is the output of a successful translation.
type Result struct {
	Text           string         // host pattern text
	GroupCount     int            // number of dialect capture groups
	GroupNames     []string       // host group name per dialect ordinal (index 0 = group 1)
	NameMap        map[string]int // group name -> dialect ordinal (synthetic names included)
	HasMarkGroups  bool           // pattern contained \K
	AnchorAtCursor bool           // pattern began with \G; engine must anchor at its cursor
	Warnings       []string       // constructs approximated rather than translated exactly
}

// UserNamed reports whether the group at the given 1-based ordinal carries a
// name the pattern author wrote, as opposed to a synthetic one.
func (r *Result) UserNamed(ord int) bool {
	if ord < 1 || ord > len(r.GroupNames) {
		return false
	}
	return !syntheticName(r.GroupNames[ord-1])
}

// syntheticName reports whether name is one of the generated shapes
// ("feng01", "fenmarkK3"). Only those exact shapes are reserved; an author
// name like "fence" is fine.
func syntheticName(name string) bool {
	var digits string
	switch {
	case strings.HasPrefix(name, MarkGroupPrefix):
		digits = name[len(MarkGroupPrefix):]
	case strings.HasPrefix(name, syntheticPrefix+"g"):
		digits = name[len(syntheticPrefix)+1:]
	default:
		return false
	}
	if digits == "" {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

type translator struct {
	src   []rune
	pos   int
	out   []byte
	flags Flags
	depth int

	names    []string // group name per ordinal; names[0] is group 1
	nameMap  map[string]int
	markOrd  int
	hasMark  bool
	warnings []string

	// lastAtom is the offset in out where the most recent quantifiable atom
	// began, or -1. Needed to rewrite possessive quantifiers as atomic groups.
	lastAtom int

	// classBoundary is set while translating a class that contained \b,
	// which must be hoisted out of the class as a boundary alternative.
	classBoundary bool
}

// Translate rewrites a dialect pattern into host syntax under the given
// flags. Errors carry the original pattern and the failing rune offset.
func Translate(pattern string, flags Flags) (*Result, error) {
	t := &translator{
		src:      []rune(pattern),
		flags:    flags,
		nameMap:  make(map[string]int),
		lastAtom: -1,
	}

	// A leading \G anchors the match at the engine's position cursor. The
	// host has no equivalent token; the engine enforces it instead.
	anchorAtCursor := false
	if len(t.src) >= 2 && t.src[0] == '\\' && t.src[1] == 'G' {
		anchorAtCursor = true
		t.pos = 2
	}

	if err := t.translateSeq(-1); err != nil {
		return nil, t.locate(err)
	}
	return &Result{
		Text:           string(t.out),
		GroupCount:     len(t.names),
		GroupNames:     t.names,
		NameMap:        t.nameMap,
		HasMarkGroups:  t.hasMark,
		AnchorAtCursor: anchorAtCursor,
		Warnings:       t.warnings,
	}, nil
}

func (t *translator) emit(s string) {
	t.out = append(t.out, s...)
}

func (t *translator) emitRune(r rune) {
	t.out = utf8.AppendRune(t.out, r)
}

func (t *translator) errorAt(code string, pos int, data map[string]any) *ferrors.RegexError {
	return ferrors.New(code, string(t.src), pos, data)
}

// locate attaches the pattern to errors raised by collaborators that do not
// know it (the property resolver).
func (t *translator) locate(err error) error {
	if re, ok := err.(*ferrors.RegexError); ok && re.Pattern == "" {
		re.Pattern = string(t.src)
		if re.Offset < 0 {
			re.Offset = t.pos
		}
	}
	return err
}

func (t *translator) warnf(format string, args ...any) {
	t.warnings = append(t.warnings, fmt.Sprintf(format, args...))
}

// translateSeq translates a run of pattern text until end of input or, when
// groupStart >= 0, an unconsumed ')' closing the enclosing group.
func (t *translator) translateSeq(groupStart int) error {
	for t.pos < len(t.src) {
		r := t.src[t.pos]

		if t.flags.Extended() {
			if unicode.IsSpace(r) {
				t.pos++
				continue
			}
			if r == '#' {
				for t.pos < len(t.src) && t.src[t.pos] != '\n' {
					t.pos++
				}
				continue
			}
		}

		switch r {
		case '\\':
			mark := len(t.out)
			if err := t.translateEscape(); err != nil {
				return err
			}
			if len(t.out) > mark {
				t.lastAtom = mark
			}
		case '[':
			mark := len(t.out)
			if err := t.translateClass(); err != nil {
				return err
			}
			t.lastAtom = mark
		case '(':
			mark := len(t.out)
			if err := t.translateGroup(); err != nil {
				return err
			}
			if len(t.out) > mark {
				t.lastAtom = mark
			}
		case ')':
			if groupStart >= 0 {
				return nil // caller consumes
			}
			return t.errorAt("RX-0019", t.pos, nil)
		case '*', '+', '?':
			t.translateQuant()
		case '{':
			t.translateBrace()
		case '|', '^', '$':
			t.emitRune(r)
			t.pos++
		case '.':
			t.lastAtom = len(t.out)
			t.emit(".")
			t.pos++
		default:
			t.lastAtom = len(t.out)
			// Case-insensitive matching of a rune whose full fold is
			// multi-character (sharp s and friends) needs an explicit
			// alternation; the host folds rune-for-rune only.
			if t.flags.IgnoreCase() && uniprop.HasMultiFold(r) {
				t.emit(uniprop.FoldExpand(r))
			} else {
				t.emitRune(r)
			}
			t.pos++
		}
	}
	if groupStart >= 0 {
		return t.errorAt("RX-0001", groupStart, nil)
	}
	return nil
}

// translateQuant handles * + ? plus a lazy or possessive suffix. The host
// has no possessive quantifiers; X*+ is rewritten as the equivalent atomic
// group (?>X*).
func (t *translator) translateQuant() {
	q := string(t.src[t.pos])
	t.pos++
	if t.pos < len(t.src) {
		switch t.src[t.pos] {
		case '?':
			q += "?"
			t.pos++
		case '+':
			t.pos++
			if t.lastAtom >= 0 {
				t.wrapAtomic(t.lastAtom, q)
				return
			}
			q += "+" // quantifier follows nothing; let the host complain
		}
	}
	t.emit(q)
}

// translateBrace distinguishes {m}, {m,} and {m,n} quantifiers from a
// literal brace, which is escaped so the host cannot misread it.
func (t *translator) translateBrace() {
	end := t.scanBraceQuant()
	if end < 0 {
		t.emit(`\{`)
		t.pos++
		return
	}
	q := string(t.src[t.pos : end+1])
	t.pos = end + 1
	if t.pos < len(t.src) {
		switch t.src[t.pos] {
		case '?':
			q += "?"
			t.pos++
		case '+':
			t.pos++
			if t.lastAtom >= 0 {
				t.wrapAtomic(t.lastAtom, q)
				return
			}
		}
	}
	t.emit(q)
}

// scanBraceQuant returns the index of the closing '}' when the text at pos
// is a well-formed brace quantifier, or -1.
func (t *translator) scanBraceQuant() int {
	i := t.pos + 1
	start := i
	for i < len(t.src) && t.src[i] >= '0' && t.src[i] <= '9' {
		i++
	}
	if i == start {
		return -1
	}
	if i < len(t.src) && t.src[i] == ',' {
		i++
		for i < len(t.src) && t.src[i] >= '0' && t.src[i] <= '9' {
			i++
		}
	}
	if i < len(t.src) && t.src[i] == '}' {
		return i
	}
	return -1
}

// wrapAtomic rewrites the atom starting at out offset atom, followed by
// quantifier q, into an atomic group.
func (t *translator) wrapAtomic(atom int, q string) {
	inner := append([]byte(nil), t.out[atom:]...)
	t.out = append(t.out[:atom], "(?>"...)
	t.out = append(t.out, inner...)
	t.out = append(t.out, q...)
	t.out = append(t.out, ')')
	t.lastAtom = atom
}

// declareGroup registers a capture group and returns its host name. An empty
// name allocates a synthetic one.
func (t *translator) declareGroup(name string, pos int) (string, error) {
	if name == "" {
		name = fmt.Sprintf("%sg%02d", syntheticPrefix, len(t.names)+1)
	} else {
		if !validGroupName(name) || syntheticName(name) {
			return "", t.errorAt("RX-0005", pos, map[string]any{"Name": name})
		}
		if _, dup := t.nameMap[name]; dup {
			return "", t.errorAt("RX-0005", pos, map[string]any{"Name": name})
		}
	}
	t.names = append(t.names, name)
	t.nameMap[name] = len(t.names)
	return name, nil
}

func validGroupName(name string) bool {
	for i, r := range name {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return name != ""
}
