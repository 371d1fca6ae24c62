// Package fennel layers a legacy regex dialect on top of a simpler host
// engine: patterns are translated to host syntax, compiled through a bounded
// cache, and matched with the dialect's runtime semantics (global iteration
// with a position cursor, capture special variables, non-destructive
// substitution, and a deadline guard against catastrophic backtracking).
package fennel

import (
	"time"

	"github.com/dlclark/regexp2"

	ferrors "github.com/sambeau/fennel/pkg/fennel/errors"
	"github.com/sambeau/fennel/pkg/fennel/translate"
)

// Mode selects how unsupported constructs are handled at compile time.
type Mode int

const (
	// ModeStrict surfaces unsupported constructs and host rejections as
	// errors.
	ModeStrict Mode = iota
	// ModeCompat logs a diagnostic and substitutes a never-matching
	// pattern, so legacy programs keep running.
	ModeCompat
)

// DefaultCacheSize is the compiled-pattern cache capacity when Config
// leaves it zero.
const DefaultCacheSize = 64

// neverMatch is the degraded stand-in pattern compatibility mode compiles.
const neverMatch = `(?!)`

// Config configures a Runtime. The zero value is usable: strict mode,
// default cache size, no deadline, silent logging.
type Config struct {
	Mode      Mode
	CacheSize int
	// Timeout bounds a single host search. Zero disables the deadline
	// wrapper entirely.
	Timeout time.Duration
	// Logf receives one line per compatibility-mode degradation and per
	// translation approximation. Nil discards.
	Logf func(format string, args ...any)
	// OnTimeout fires when a search is abandoned at the deadline, before
	// the call reports no-match. Nil is allowed.
	OnTimeout func()
}

// Runtime owns a pattern cache and compile policy. Independent Runtimes
// share nothing.
type Runtime struct {
	cfg   Config
	cache *patternCache
}

// New creates a Runtime from the given configuration.
func New(cfg Config) *Runtime {
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultCacheSize
	}
	if cfg.Logf == nil {
		cfg.Logf = func(string, ...any) {}
	}
	return &Runtime{cfg: cfg, cache: newPatternCache(cfg.CacheSize)}
}

// Compile translates and host-compiles a dialect pattern, memoized by
// source text plus canonical flag string.
func (rt *Runtime) Compile(source, flagStr string) (*Pattern, error) {
	flags, err := translate.ParseFlags(flagStr)
	if err != nil {
		if re, ok := err.(*ferrors.RegexError); ok {
			re.Pattern = source
		}
		return nil, err
	}
	key := source + "/" + flags.String()
	if p, ok := rt.cache.get(key); ok {
		return p, nil
	}
	p, err := rt.compile(source, flags)
	if err != nil {
		return nil, err
	}
	rt.cache.put(key, p)
	return p, nil
}

// MustCompile is Compile for patterns known to be valid.
func (rt *Runtime) MustCompile(source, flagStr string) *Pattern {
	p, err := rt.Compile(source, flagStr)
	if err != nil {
		panic(err)
	}
	return p
}

func (rt *Runtime) compile(source string, flags translate.Flags) (*Pattern, error) {
	res, err := translate.Translate(source, flags)
	if err != nil {
		if rt.degradable(err) {
			return rt.degrade(source, flags, err)
		}
		return nil, err
	}
	for _, w := range res.Warnings {
		rt.cfg.Logf("fennel: pattern m/%s/: %s", source, w)
	}

	re, err := regexp2.Compile(res.Text, flags.HostOptions())
	if err != nil {
		hostErr := ferrors.New("RX-0030", source, -1, map[string]any{
			"Detail":     err.Error(),
			"Source":     source,
			"Translated": res.Text,
		})
		if rt.cfg.Mode == ModeCompat {
			return rt.degrade(source, flags, hostErr)
		}
		return nil, hostErr
	}
	if rt.cfg.Timeout > 0 {
		re.MatchTimeout = rt.cfg.Timeout
	}

	return &Pattern{
		rt:             rt,
		source:         source,
		flags:          flags,
		translated:     res.Text,
		re:             re,
		groupCount:     res.GroupCount,
		groupNames:     res.GroupNames,
		nameMap:        res.NameMap,
		hasMarkGroups:  res.HasMarkGroups,
		anchorAtCursor: res.AnchorAtCursor,
		matchedOnce:    newOnce(),
	}, nil
}

// degradable reports whether compatibility mode may swallow this error.
// Syntax errors always surface; only recognized-but-untranslatable
// constructs and property failures degrade.
func (rt *Runtime) degradable(err error) bool {
	if rt.cfg.Mode != ModeCompat {
		return false
	}
	re, ok := err.(*ferrors.RegexError)
	return ok && re.IsUnsupported()
}

// degrade builds the compatibility-mode stand-in: a pattern that can never
// match, carrying the original diagnostic.
func (rt *Runtime) degrade(source string, flags translate.Flags, cause error) (*Pattern, error) {
	rt.cfg.Logf("fennel: pattern m/%s/ degraded to non-matching: %v", source, cause)
	re := regexp2.MustCompile(neverMatch, 0)
	return &Pattern{
		rt:          rt,
		source:      source,
		flags:       flags,
		translated:  neverMatch,
		re:          re,
		degraded:    true,
		diagnostic:  cause.Error(),
		nameMap:     map[string]int{},
		matchedOnce: newOnce(),
	}, nil
}
