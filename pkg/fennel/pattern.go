// pattern.go - the compiled pattern object

package fennel

import (
	"fmt"
	"sync/atomic"

	"github.com/dlclark/regexp2"

	ferrors "github.com/sambeau/fennel/pkg/fennel/errors"
	"github.com/sambeau/fennel/pkg/fennel/translate"
)

// Pattern is an immutable compiled pattern: the dialect source, its flag
// bundle, the translated host text, and the host-compiled object. Flag
// merges produce new Pattern values; the underlying host object is shared
// when the merge touches engine-only flags.
type Pattern struct {
	rt         *Runtime
	source     string
	flags      translate.Flags
	translated string
	re         *regexp2.Regexp

	groupCount     int
	groupNames     []string
	nameMap        map[string]int
	hasMarkGroups  bool
	anchorAtCursor bool

	degraded   bool   // compatibility-mode substitute that matches nothing
	diagnostic string // why, when degraded

	// matchedOnce latches after the first success of an o-flagged pattern.
	// Shared across flag-merged copies of the same compilation.
	matchedOnce *atomic.Bool
}

func newOnce() *atomic.Bool { return new(atomic.Bool) }

// Source returns the original dialect pattern text.
func (p *Pattern) Source() string { return p.source }

// Flags returns the pattern's flag bundle.
func (p *Pattern) Flags() translate.Flags { return p.flags }

// Translated returns the host pattern text the source compiled to.
func (p *Pattern) Translated() string { return p.translated }

// GroupCount returns the number of dialect capture groups.
func (p *Pattern) GroupCount() int { return p.groupCount }

// Degraded reports whether compatibility mode replaced this pattern with a
// never-matching one; Diagnostic then says why.
func (p *Pattern) Degraded() bool { return p.degraded }

func (p *Pattern) Diagnostic() string { return p.diagnostic }

// Reset re-arms an o-flagged pattern so it may match again.
func (p *Pattern) Reset() {
	if p.matchedOnce != nil {
		p.matchedOnce.Store(false)
	}
}

// MarkedAt renders the source pattern with a position marker at the given
// rune offset, in the same format the error messages use.
func (p *Pattern) MarkedAt(offset int) string {
	return ferrors.MarkPattern(p.source, offset)
}

// WithFlags returns a pattern whose flags are the union of the current ones
// and extra. Recompilation happens only when a flag that affects translation
// or host compilation actually changes; engine-only additions share the
// existing host object.
func (p *Pattern) WithFlags(extra string) (*Pattern, error) {
	f, err := translate.ParseFlags(extra)
	if err != nil {
		return nil, err
	}
	merged := p.flags.Merge(f)
	if merged.Equal(p.flags) {
		return p, nil
	}
	if merged.CompileEqual(p.flags) {
		clone := *p
		clone.flags = merged
		return &clone, nil
	}
	return p.rt.Compile(p.source, merged.String())
}

// withEngineFlagsOf returns a copy of p carrying other's engine-only flags.
// Used by empty-pattern reuse, which keeps the caller's behavioral flags.
func (p *Pattern) withEngineFlagsOf(other translate.Flags) *Pattern {
	merged := p.flags.WithEngine(other)
	if merged.Equal(p.flags) {
		return p
	}
	clone := *p
	clone.flags = merged
	return &clone
}

// Quotable is the escape hatch for values that know how to become a
// pattern. Runtime.Quote consults it before falling back to stringification.
type Quotable interface {
	ToPattern() (*Pattern, error)
}

// Quote produces a compiled pattern from an arbitrary value: an existing
// *Pattern (flags merged), a Quotable, a fmt.Stringer, or a plain string.
func (rt *Runtime) Quote(v any, flags string) (*Pattern, error) {
	switch q := v.(type) {
	case *Pattern:
		return q.WithFlags(flags)
	case Quotable:
		p, err := q.ToPattern()
		if err != nil {
			return nil, err
		}
		return p.WithFlags(flags)
	case fmt.Stringer:
		return rt.Compile(q.String(), flags)
	case string:
		return rt.Compile(q, flags)
	}
	return rt.Compile(fmt.Sprint(v), flags)
}
