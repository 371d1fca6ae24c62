// rangeset.go - set operations over Unicode rune ranges
//
// The class-algebra evaluator and the property resolver both need real set
// arithmetic over rune ranges (union, intersection, difference, symmetric
// difference, complement). The host engine has no native class-algebra
// syntax, so expressions are lowered to concrete range tables here and
// emitted back as plain character classes.

package uniprop

import (
	"fmt"
	"strings"
	"unicode"
)

// MaxRune is the upper bound of the rune space covered by Complement.
const MaxRune = unicode.MaxRune

// Span is a single inclusive rune range. Spans in a normalized list are
// sorted, non-empty, and non-adjacent.
type Span struct {
	Lo, Hi rune
}

// Spans flattens a RangeTable into a normalized sorted span list,
// expanding strides greater than one into separate spans.
func Spans(t *unicode.RangeTable) []Span {
	if t == nil {
		return nil
	}
	var out []Span
	for _, r := range t.R16 {
		out = appendStride(out, rune(r.Lo), rune(r.Hi), rune(r.Stride))
	}
	for _, r := range t.R32 {
		out = appendStride(out, rune(r.Lo), rune(r.Hi), rune(r.Stride))
	}
	return normalize(out)
}

func appendStride(out []Span, lo, hi, stride rune) []Span {
	if stride <= 1 {
		return append(out, Span{lo, hi})
	}
	for r := lo; r <= hi; r += stride {
		out = append(out, Span{r, r})
	}
	return out
}

// normalize sorts and merges overlapping or adjacent spans.
func normalize(spans []Span) []Span {
	if len(spans) == 0 {
		return spans
	}
	// insertion sort; span lists are small or mostly sorted already
	for i := 1; i < len(spans); i++ {
		for j := i; j > 0 && spans[j].Lo < spans[j-1].Lo; j-- {
			spans[j], spans[j-1] = spans[j-1], spans[j]
		}
	}
	out := spans[:1]
	for _, s := range spans[1:] {
		last := &out[len(out)-1]
		if s.Lo <= last.Hi+1 {
			if s.Hi > last.Hi {
				last.Hi = s.Hi
			}
			continue
		}
		out = append(out, s)
	}
	return out
}

// Table builds a stride-1 RangeTable from a normalized span list.
func Table(spans []Span) *unicode.RangeTable {
	t := &unicode.RangeTable{}
	for _, s := range spans {
		if s.Hi <= 0xFFFF {
			t.R16 = append(t.R16, unicode.Range16{Lo: uint16(s.Lo), Hi: uint16(s.Hi), Stride: 1})
			if s.Hi <= unicode.MaxLatin1 {
				t.LatinOffset++
			}
			continue
		}
		if s.Lo <= 0xFFFF {
			t.R16 = append(t.R16, unicode.Range16{Lo: uint16(s.Lo), Hi: 0xFFFF, Stride: 1})
			s.Lo = 0x10000
		}
		t.R32 = append(t.R32, unicode.Range32{Lo: uint32(s.Lo), Hi: uint32(s.Hi), Stride: 1})
	}
	return t
}

// Union returns a ∪ b.
func Union(a, b *unicode.RangeTable) *unicode.RangeTable {
	return Table(normalize(append(Spans(a), Spans(b)...)))
}

// Intersect returns a ∩ b via a sweep over both normalized span lists.
func Intersect(a, b *unicode.RangeTable) *unicode.RangeTable {
	as, bs := Spans(a), Spans(b)
	var out []Span
	i, j := 0, 0
	for i < len(as) && j < len(bs) {
		lo := max(as[i].Lo, bs[j].Lo)
		hi := min(as[i].Hi, bs[j].Hi)
		if lo <= hi {
			out = append(out, Span{lo, hi})
		}
		if as[i].Hi < bs[j].Hi {
			i++
		} else {
			j++
		}
	}
	return Table(out)
}

// Subtract returns a − b.
func Subtract(a, b *unicode.RangeTable) *unicode.RangeTable {
	return Intersect(a, Complement(b))
}

// SymDiff returns (a − b) ∪ (b − a).
func SymDiff(a, b *unicode.RangeTable) *unicode.RangeTable {
	return Union(Subtract(a, b), Subtract(b, a))
}

// Complement returns the rune space [0, MaxRune] minus a.
func Complement(a *unicode.RangeTable) *unicode.RangeTable {
	spans := Spans(a)
	var out []Span
	next := rune(0)
	for _, s := range spans {
		if s.Lo > next {
			out = append(out, Span{next, s.Lo - 1})
		}
		if s.Hi+1 > next {
			next = s.Hi + 1
		}
	}
	if next <= MaxRune {
		out = append(out, Span{next, MaxRune})
	}
	return Table(out)
}

// IsEmpty reports whether the table contains no runes.
func IsEmpty(t *unicode.RangeTable) bool {
	return t == nil || (len(t.R16) == 0 && len(t.R32) == 0)
}

// EscapeRune renders one rune for use inside a host character class. The
// host engine has no brace-form hex escape, so BMP runes use \uXXXX and
// astral runes are emitted literally (the host matcher works on runes, so a
// literal astral character is unambiguous).
func EscapeRune(r rune) string {
	if r > 0xFFFF {
		return string(r)
	}
	return fmt.Sprintf(`\u%04X`, r)
}

// ClassBody renders a table as the body of a host character class,
// escaping every endpoint so no metacharacter issues can arise.
func ClassBody(t *unicode.RangeTable) string {
	var sb strings.Builder
	for _, s := range Spans(t) {
		sb.WriteString(EscapeRune(s.Lo))
		if s.Lo != s.Hi {
			sb.WriteByte('-')
			sb.WriteString(EscapeRune(s.Hi))
		}
	}
	return sb.String()
}
