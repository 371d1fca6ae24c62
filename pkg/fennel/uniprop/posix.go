// posix.go - static tables for POSIX-style class names
//
// Two views of the same classes: a host-syntax fragment (used by the pattern
// translator to splice [:name:] into a character class) and a RangeTable
// (used by the class-algebra evaluator, which needs real sets).

package uniprop

import (
	"unicode"

	"golang.org/x/text/unicode/rangetable"
)

// posixFragments maps POSIX class names to host character-class bodies.
// Every fragment is valid inside [...] in the host dialect.
var posixFragments = map[string]string{
	"alpha":  `\p{L}`,
	"alnum":  `\p{L}\p{Nd}`,
	"ascii":  `\u0000-\u007F`,
	"blank":  `\t\p{Zs}`,
	"cntrl":  `\p{Cc}`,
	"digit":  `\p{Nd}`,
	"graph":  `\p{L}\p{M}\p{N}\p{P}\p{S}`,
	"lower":  `\p{Ll}`,
	"print":  `\p{L}\p{M}\p{N}\p{P}\p{S}\p{Zs}`,
	"punct":  `\p{P}`,
	"space":  `\s\u0085\u2028\u2029\p{Zs}`,
	"upper":  `\p{Lu}`,
	"word":   `\p{L}\p{M}\p{N}\p{Pc}`,
	"xdigit": `0-9A-Fa-f`,
}

// horizontal and vertical whitespace, as the dialect's \h and \v define them
var (
	horizSpaceTable = rangetable.New('\t', 0x20, 0xA0, 0x1680,
		0x2000, 0x2001, 0x2002, 0x2003, 0x2004, 0x2005, 0x2006, 0x2007,
		0x2008, 0x2009, 0x200A, 0x202F, 0x205F, 0x3000)
	vertSpaceTable = rangetable.New('\n', 0x0B, '\f', '\r', 0x85, 0x2028, 0x2029)
)

// posixTables maps POSIX class names to concrete rune sets. Built lazily
// would buy nothing; these merges are cheap at init.
var posixTables = map[string]*unicode.RangeTable{
	"alpha":  unicode.L,
	"alnum":  rangetable.Merge(unicode.L, unicode.Nd),
	"ascii":  Table([]Span{{0, 0x7F}}),
	"blank":  rangetable.Merge(rangetable.New('\t'), unicode.Zs),
	"cntrl":  unicode.Cc,
	"digit":  unicode.Nd,
	"graph":  rangetable.Merge(unicode.L, unicode.M, unicode.N, unicode.P, unicode.S),
	"lower":  unicode.Ll,
	"print":  rangetable.Merge(unicode.L, unicode.M, unicode.N, unicode.P, unicode.S, unicode.Zs),
	"punct":  unicode.P,
	"space":  rangetable.Merge(unicode.White_Space, unicode.Zs, vertSpaceTable),
	"upper":  unicode.Lu,
	"word":   rangetable.Merge(unicode.L, unicode.M, unicode.N, unicode.Pc),
	"xdigit": rangetable.New(expand('0', '9', 'A', 'F', 'a', 'f')...),
}

// expand turns lo/hi pairs into an explicit rune list for rangetable.New.
func expand(pairs ...rune) []rune {
	var out []rune
	for i := 0; i+1 < len(pairs); i += 2 {
		for r := pairs[i]; r <= pairs[i+1]; r++ {
			out = append(out, r)
		}
	}
	return out
}

// PosixFragment returns the host class body for a POSIX name, or ok=false
// when the name is unknown.
func PosixFragment(name string) (string, bool) {
	frag, ok := posixFragments[name]
	return frag, ok
}

// PosixTable returns the rune set for a POSIX name, or ok=false when the
// name is unknown.
func PosixTable(name string) (*unicode.RangeTable, bool) {
	t, ok := posixTables[name]
	return t, ok
}
