// Package uniprop resolves Unicode property names, POSIX class names, and
// named characters into fragments the host regex engine understands.
//
// The host engine's own \p{...} vocabulary covers general categories and
// Is-prefixed blocks but not scripts or the legacy dialect's extended POSIX
// aliases, so anything outside that vocabulary is lowered to explicit rune
// ranges using the Go Unicode database.
package uniprop

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/rangetable"

	ferrors "github.com/sambeau/fennel/pkg/fennel/errors"
)

// Fragment is a resolved property: a piece of host syntax plus the
// information needed to splice it into its surroundings.
type Fragment struct {
	Body string // host syntax for the property
	// Standalone is true when Body is a complete token (e.g. \p{Lu}) that
	// may appear bare in a pattern; false when it is a class body that must
	// be wrapped in [...] outside a class.
	Standalone bool
	// Negated marks a negated fragment whose Body is still the positive
	// form: a standalone \P{...} token, or a range-lowered class body that
	// Wrap renders as [^...].
	Negated bool

	// set is the concrete rune set behind a range-lowered Body. Needed to
	// splice a negated fragment into a class, where [^...] cannot appear.
	set *unicode.RangeTable
}

// InClass returns the fragment as text valid inside a character class.
// A negated range-lowered fragment cannot be spliced as written and is
// resolved to its complement here instead.
func (f Fragment) InClass() string {
	if f.Negated && !f.Standalone && f.set != nil {
		return ClassBody(Complement(f.set))
	}
	return f.Body
}

// Wrap returns the fragment as a complete pattern token.
func (f Fragment) Wrap() string {
	if f.Standalone {
		return f.Body
	}
	if f.Negated {
		return "[^" + f.Body + "]"
	}
	return "[" + f.Body + "]"
}

// aliases maps legacy dialect property aliases to resolver entries. Values
// are either a POSIX name (resolved through the static tables) or a direct
// host fragment.
var aliases = map[string]string{
	"word":            "posix:word",
	"alpha":           "posix:alpha",
	"alnum":           "posix:alnum",
	"ascii":           "posix:ascii",
	"blank":           "posix:blank",
	"cntrl":           "posix:cntrl",
	"digit":           "posix:digit",
	"graph":           "posix:graph",
	"lower":           "posix:lower",
	"print":           "posix:print",
	"punct":           "posix:punct",
	"space":           "posix:space",
	"upper":           "posix:upper",
	"xdigit":          "posix:xdigit",
	"hexdigit":        "posix:xdigit",
	"horizspace":      "table:horiz",
	"vertspace":       "table:vert",
	"whitespace":      "posix:space",
	"idstart":         "table:idstart",
	"idcontinue":      "table:idcontinue",
	"xidstart":        "table:idstart",
	"xidcontinue":     "table:idcontinue",
	"any":             "table:any",
	"assigned":        "table:assigned",
	"letter":          "frag:\\p{L}",
	"mark":            "frag:\\p{M}",
	"number":          "frag:\\p{N}",
	"symbol":          "frag:\\p{S}",
	"separator":       "frag:\\p{Z}",
	"other":           "frag:\\p{C}",
	"punctuation":     "frag:\\p{P}",
	"uppercase":       "frag:\\p{Lu}",
	"lowercase":       "frag:\\p{Ll}",
	"titlecase":       "frag:\\p{Lt}",
	"casedletter":     "frag:\\p{Lu}\\p{Ll}\\p{Lt}",
	"uppercaseletter": "frag:\\p{Lu}",
	"lowercaseletter": "frag:\\p{Ll}",
	"titlecaseletter": "frag:\\p{Lt}",
}

// extraTables backs the "table:" alias entries that have no POSIX name.
var extraTables = map[string]*unicode.RangeTable{
	"any":        Table([]Span{{0, MaxRune}}),
	"horiz":      horizSpaceTable,
	"vert":       vertSpaceTable,
	"idstart":    rangetable.Merge(unicode.L, unicode.Nl, unicode.Other_ID_Start),
	"idcontinue": rangetable.Merge(unicode.L, unicode.Nl, unicode.Other_ID_Start, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc, unicode.Other_ID_Continue),
	"assigned":   rangetable.Merge(unicode.L, unicode.M, unicode.N, unicode.P, unicode.S, unicode.Z, unicode.Cc, unicode.Cf, unicode.Co),
}

// normalizeName lowercases a property name and strips separators, so that
// "Horiz_Space", "HorizSpace" and "horiz space" all resolve identically.
func normalizeName(name string) string {
	var sb strings.Builder
	for _, r := range name {
		switch r {
		case ' ', '\t', '-', '_':
			continue
		}
		sb.WriteRune(unicode.ToLower(r))
	}
	return sb.String()
}

// Resolve maps a property name (as written in \p{name} or \P{name}) to a
// host fragment. Compound expressions joined by ';' resolve term-by-term
// and union. Returns a property error for unknown names.
func Resolve(name string, negated bool) (Fragment, error) {
	if strings.Contains(name, ";") {
		return resolveCompound(name, negated)
	}
	return resolveTerm(name, negated)
}

func resolveCompound(name string, negated bool) (Fragment, error) {
	union := &unicode.RangeTable{}
	for _, term := range strings.Split(name, ";") {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		t, err := LookupTable(term)
		if err != nil {
			return Fragment{}, err
		}
		union = Union(union, t)
	}
	return lowered(union, negated), nil
}

// lowered builds a range-lowered fragment. Negation stays unapplied so the
// standalone rendering keeps the compact [^...] form.
func lowered(t *unicode.RangeTable, negated bool) Fragment {
	return Fragment{Body: ClassBody(t), Negated: negated, set: t}
}

func resolveTerm(name string, negated bool) (Fragment, error) {
	norm := normalizeName(name)

	if target, ok := aliases[norm]; ok {
		return resolveAlias(name, target, negated)
	}

	// One- or two-letter general categories are host-native.
	if _, ok := unicode.Categories[name]; ok {
		p := "\\p"
		if negated {
			p = "\\P"
		}
		return Fragment{Body: p + "{" + name + "}", Standalone: true, Negated: negated}, nil
	}

	// Scripts are not in the host vocabulary; lower to ranges.
	if t, ok := lookupScript(name); ok {
		return lowered(t, negated), nil
	}

	// Block lookups: the host engine's Is-prefix convention is forwarded
	// and validated at host compile time, but only when the remainder is
	// shaped like a block name. "Indic" is an unknown property, not the
	// "dic" block.
	if rest, ok := strings.CutPrefix(name, "In"); ok || strings.HasPrefix(name, "Is") {
		if !ok {
			rest = name[2:]
		}
		if t, found := lookupScript(rest); found {
			return lowered(t, negated), nil
		}
		if plausibleBlock(rest) {
			p := "\\p"
			if negated {
				p = "\\P"
			}
			return Fragment{Body: p + "{Is" + rest + "}", Standalone: true, Negated: negated}, nil
		}
	}

	return Fragment{}, ferrors.New("RX-0020", "", -1, map[string]any{"Name": name})
}

// plausibleBlock reports whether a name stripped of its In/Is prefix could
// name a host block ("BasicLatin", "Greek-Extended").
func plausibleBlock(rest string) bool {
	if rest == "" || rest[0] < 'A' || rest[0] > 'Z' {
		return false
	}
	for _, r := range rest {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == ' ':
		default:
			return false
		}
	}
	return true
}

func resolveAlias(name, target string, negated bool) (Fragment, error) {
	kind, rest, _ := strings.Cut(target, ":")
	switch kind {
	case "posix":
		if !negated {
			frag, _ := PosixFragment(rest)
			return Fragment{Body: frag}, nil
		}
		t, _ := PosixTable(rest)
		return lowered(t, true), nil
	case "table":
		return lowered(extraTables[rest], negated), nil
	case "frag":
		if !negated {
			return Fragment{Body: rest}, nil
		}
		// Negating a composite fragment needs the concrete set.
		t, err := LookupTable(name)
		if err != nil {
			return Fragment{}, err
		}
		return lowered(t, true), nil
	}
	return Fragment{}, ferrors.New("RX-0020", "", -1, map[string]any{"Name": name})
}

// lookupScript finds a script table by name, tolerating case and separator
// differences ("greek", "Greek").
func lookupScript(name string) (*unicode.RangeTable, bool) {
	if t, ok := unicode.Scripts[name]; ok {
		return t, true
	}
	norm := normalizeName(name)
	for n, t := range unicode.Scripts {
		if normalizeName(n) == norm {
			return t, true
		}
	}
	return nil, false
}

// LookupTable resolves a property name to a concrete rune set. Used by the
// class-algebra evaluator, which cannot work with opaque \p tokens.
func LookupTable(name string) (*unicode.RangeTable, error) {
	norm := normalizeName(name)
	if target, ok := aliases[norm]; ok {
		kind, rest, _ := strings.Cut(target, ":")
		switch kind {
		case "posix":
			t, _ := PosixTable(rest)
			return t, nil
		case "table":
			return extraTables[rest], nil
		case "frag":
			return fragTable(rest)
		}
	}
	if t, ok := unicode.Categories[name]; ok {
		return t, nil
	}
	if t, ok := lookupScript(name); ok {
		return t, nil
	}
	if rest, ok := strings.CutPrefix(name, "Is"); ok {
		if t, found := lookupScript(rest); found {
			return t, nil
		}
		if t, found := unicode.Categories[rest]; found {
			return t, nil
		}
	}
	return nil, ferrors.New("RX-0020", "", -1, map[string]any{"Name": name})
}

// fragTable converts a \p-composed alias fragment back to a concrete set.
func fragTable(frag string) (*unicode.RangeTable, error) {
	out := &unicode.RangeTable{}
	rest := frag
	for rest != "" {
		if !strings.HasPrefix(rest, `\p{`) {
			return nil, ferrors.New("RX-0020", "", -1, map[string]any{"Name": frag})
		}
		end := strings.IndexByte(rest, '}')
		if end < 0 {
			return nil, ferrors.New("RX-0020", "", -1, map[string]any{"Name": frag})
		}
		cat := rest[3:end]
		if t, ok := unicode.Categories[cat]; ok {
			out = Union(out, t)
		}
		rest = rest[end+1:]
	}
	return out, nil
}
