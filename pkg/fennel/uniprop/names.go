// names.go - named-character lookup for \N{...} escapes
//
// The Unicode database only maps rune -> name, so the first \N{NAME} lookup
// pays for a one-time reverse index build over the assigned rune space.
// \N{U+XXXX} never touches the index.

package uniprop

import (
	"strconv"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/unicode/runenames"
)

var (
	nameIndexOnce sync.Once
	nameIndex     map[string]rune
)

func buildNameIndex() {
	nameIndex = make(map[string]rune, 1<<17)
	add := func(t *unicode.RangeTable) {
		for _, s := range Spans(t) {
			for r := s.Lo; r <= s.Hi; r++ {
				name := runenames.Name(r)
				if name == "" || name[0] == '<' {
					continue
				}
				nameIndex[name] = r
			}
		}
	}
	// Assigned graphic and format characters carry names; everything else
	// reports placeholder labels and is skipped.
	add(extraTables["assigned"])
}

// CharByName resolves a \N{...} payload to a rune. Accepts the U+XXXX form
// and official character names (case-insensitive).
func CharByName(name string) (rune, bool) {
	if hex, ok := strings.CutPrefix(name, "U+"); ok {
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil || v > uint64(unicode.MaxRune) {
			return 0, false
		}
		return rune(v), true
	}
	nameIndexOnce.Do(buildNameIndex)
	r, ok := nameIndex[strings.ToUpper(name)]
	return r, ok
}
