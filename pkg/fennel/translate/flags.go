// flags.go - the flag bundle attached to every dialect pattern
//
// Flags split three ways: host-native flags forwarded to the host engine
// (i, m, s), translator-scoped flags that change how the pattern text is
// rewritten (x, xx, n), and engine-only behavioral flags interpreted by the
// match/substitution engine (g, c, r, o).

package translate

import (
	"strings"

	"github.com/dlclark/regexp2"

	ferrors "github.com/sambeau/fennel/pkg/fennel/errors"
)

type flagBits uint16

const (
	flagIgnoreCase flagBits = 1 << iota // i
	flagMultiline                       // m
	flagDotAll                          // s
	flagExtended                        // x
	flagExtendedMore                    // xx (second x)
	flagNoCapture                       // n
	flagGlobal                          // g
	flagKeepPos                         // c
	flagNonDestructive                  // r
	flagOnce                            // o
)

// togglable is the set of flags that (?flags-flags) groups may set or
// clear for a scoped region.
const togglable = flagIgnoreCase | flagMultiline | flagDotAll |
	flagExtended | flagExtendedMore | flagNoCapture

// Flags is an immutable bundle of dialect pattern modifiers.
type Flags struct {
	bits flagBits
}

// ParseFlags builds a bundle from a flag string like "gims". A second 'x'
// upgrades extended mode to also ignore whitespace inside character
// classes. Unknown letters are a syntax error.
func ParseFlags(s string) (Flags, error) {
	var f Flags
	for _, r := range s {
		switch r {
		case 'i':
			f.bits |= flagIgnoreCase
		case 'm':
			f.bits |= flagMultiline
		case 's':
			f.bits |= flagDotAll
		case 'x':
			if f.bits&flagExtended != 0 {
				f.bits |= flagExtendedMore
			}
			f.bits |= flagExtended
		case 'n':
			f.bits |= flagNoCapture
		case 'g':
			f.bits |= flagGlobal
		case 'c':
			f.bits |= flagKeepPos
		case 'r':
			f.bits |= flagNonDestructive
		case 'o':
			f.bits |= flagOnce
		default:
			return Flags{}, ferrors.New("RX-0006", "", -1, map[string]any{"Flag": string(r)})
		}
	}
	return f, nil
}

// MustParseFlags is ParseFlags for known-good literals.
func MustParseFlags(s string) Flags {
	f, err := ParseFlags(s)
	if err != nil {
		panic(err)
	}
	return f
}

func (f Flags) IgnoreCase() bool     { return f.bits&flagIgnoreCase != 0 }
func (f Flags) Multiline() bool      { return f.bits&flagMultiline != 0 }
func (f Flags) DotAll() bool         { return f.bits&flagDotAll != 0 }
func (f Flags) Extended() bool       { return f.bits&flagExtended != 0 }
func (f Flags) ExtendedMore() bool   { return f.bits&flagExtendedMore != 0 }
func (f Flags) NoCapture() bool      { return f.bits&flagNoCapture != 0 }
func (f Flags) Global() bool         { return f.bits&flagGlobal != 0 }
func (f Flags) KeepPos() bool        { return f.bits&flagKeepPos != 0 }
func (f Flags) NonDestructive() bool { return f.bits&flagNonDestructive != 0 }
func (f Flags) Once() bool           { return f.bits&flagOnce != 0 }

// String renders the bundle in a canonical letter order, so that equal
// bundles always produce equal cache keys.
func (f Flags) String() string {
	var sb strings.Builder
	if f.IgnoreCase() {
		sb.WriteByte('i')
	}
	if f.Multiline() {
		sb.WriteByte('m')
	}
	if f.DotAll() {
		sb.WriteByte('s')
	}
	if f.Extended() {
		sb.WriteByte('x')
	}
	if f.ExtendedMore() {
		sb.WriteByte('x')
	}
	if f.NoCapture() {
		sb.WriteByte('n')
	}
	if f.Global() {
		sb.WriteByte('g')
	}
	if f.KeepPos() {
		sb.WriteByte('c')
	}
	if f.NonDestructive() {
		sb.WriteByte('r')
	}
	if f.Once() {
		sb.WriteByte('o')
	}
	return sb.String()
}

// Merge returns the union of two bundles, used when a compiled pattern is
// re-quoted with additional modifiers.
func (f Flags) Merge(other Flags) Flags {
	return Flags{bits: f.bits | other.bits}
}

// Equal reports whether two bundles are identical.
func (f Flags) Equal(other Flags) bool { return f.bits == other.bits }

// engineOnly is the set of flags the match engine interprets itself; they
// never influence translation or host compilation.
const engineOnly = flagGlobal | flagKeepPos | flagNonDestructive | flagOnce

// CompileEqual reports whether two bundles produce the same translated and
// host-compiled pattern, i.e. differ at most in engine-only flags.
func (f Flags) CompileEqual(other Flags) bool {
	return f.bits&^engineOnly == other.bits&^engineOnly
}

// WithEngine returns f with its engine-only flags replaced by other's. Used
// when an empty pattern reuses a previous pattern under the caller's flags.
func (f Flags) WithEngine(other Flags) Flags {
	return Flags{bits: f.bits&^engineOnly | other.bits&engineOnly}
}

// withScope applies a scoped (?set-clear) override, returning the bundle
// for the inner region. Only togglable flags participate.
func (f Flags) withScope(set, clear Flags) Flags {
	bits := f.bits &^ (clear.bits & togglable)
	bits |= set.bits & togglable
	return Flags{bits: bits}
}

// HostOptions maps the host-native subset onto the host engine's option
// bits. Extended mode is deliberately absent: the translator strips
// comments and whitespace itself so the host never sees them.
func (f Flags) HostOptions() regexp2.RegexOptions {
	var opt regexp2.RegexOptions
	if f.IgnoreCase() {
		opt |= regexp2.IgnoreCase
	}
	if f.Multiline() {
		opt |= regexp2.Multiline
	}
	if f.DotAll() {
		opt |= regexp2.Singleline
	}
	return opt
}
