// match.go - single and global matching over a subject
//
// The call context decides what a global match does: list context iterates
// to exhaustion collecting captures, scalar and void contexts take one
// occurrence and park the cursor after it for the next call. The loop
// guarantees forward progress on zero-width matches by refusing a second
// empty match at the previous match's end and bumping the search start one
// rune instead.

package fennel

import (
	"strings"

	"github.com/dlclark/regexp2"

	ferrors "github.com/sambeau/fennel/pkg/fennel/errors"
	"github.com/sambeau/fennel/pkg/fennel/translate"
)

// CallContext mirrors the calling convention of the surrounding language.
type CallContext int

const (
	ListContext CallContext = iota
	ScalarContext
	VoidContext
)

// MatchResult is the outcome of one Match call.
type MatchResult struct {
	Matched bool
	// Count is the number of occurrences matched: 1 for a single match,
	// the iteration count for an exhaustive global match.
	Count int
	// Captures holds group texts (or the whole match for a group-less
	// pattern), accumulated across iterations in list context.
	Captures []string
}

// hostMatch is one decoded host result, with \K adjustment applied.
type hostMatch struct {
	start, end int
	groups     []capture
}

// Match runs a pattern against a subject. An empty-source pattern reuses
// the context's last successful pattern under the caller's behavioral
// flags; with nothing to reuse the call fails with a state error.
func (rt *Runtime) Match(mc *MatchContext, p *Pattern, subj *Subject, cc CallContext) (MatchResult, error) {
	p, err := rt.effective(mc, p)
	if err != nil {
		return MatchResult{}, err
	}
	if p.flags.Once() && p.matchedOnce.Load() {
		mc.recordFailure()
		return MatchResult{}, nil
	}
	if p.flags.Global() {
		return rt.matchGlobal(mc, p, subj, cc), nil
	}
	return rt.matchSingle(mc, p, subj), nil
}

// effective resolves empty-pattern reuse.
func (rt *Runtime) effective(mc *MatchContext, p *Pattern) (*Pattern, error) {
	if p.source != "" || p.degraded {
		return p, nil
	}
	if mc == nil || mc.lastPattern == nil {
		return nil, ferrors.New("RX-0040", "", -1, nil)
	}
	return mc.lastPattern.withEngineFlagsOf(p.flags), nil
}

func (rt *Runtime) matchSingle(mc *MatchContext, p *Pattern, subj *Subject) MatchResult {
	start := 0
	if pos, ok := subj.Pos(); ok && p.anchorAtCursor {
		start = pos
	}
	hm, ok := rt.search(p, subj, start)
	if !ok {
		mc.recordFailure()
		return MatchResult{}
	}
	mc.recordSuccess(newState(p, subj, hm))
	p.latchOnce()
	return MatchResult{Matched: true, Count: 1, Captures: captureList(p, subj, hm)}
}

func (rt *Runtime) matchGlobal(mc *MatchContext, p *Pattern, subj *Subject, cc CallContext) MatchResult {
	searchStart := 0
	lastEnd := -1
	if pos, ok := subj.Pos(); ok {
		// The cursor is the previous match's end, so the zero-width
		// progress rule carries across calls, not just within one loop.
		searchStart = pos
		lastEnd = pos
	}
	count := 0
	var captures []string

	for {
		hm, ok := rt.search(p, subj, searchStart)
		if !ok {
			break
		}
		if hm.start == hm.end && hm.start == lastEnd {
			// same zero-width occurrence again; force progress
			if hm.end >= subj.Len() {
				break
			}
			searchStart = hm.end + 1
			continue
		}

		mc.recordSuccess(newState(p, subj, hm))
		p.latchOnce()
		count++
		subj.SetPos(hm.end)
		if cc != ListContext {
			return MatchResult{Matched: true, Count: count}
		}
		captures = append(captures, captureList(p, subj, hm)...)
		lastEnd = hm.end
		searchStart = hm.end
	}

	if count == 0 {
		mc.recordFailure()
	}
	// The iteration ended on a failed search; the cursor survives it only
	// under the keep-position flag.
	if !p.flags.KeepPos() {
		subj.ClearPos()
	}
	return MatchResult{Matched: count > 0, Count: count, Captures: captures}
}

// search performs one host search and decodes the result. ok=false covers
// no-match, deadline expiry, and a cursor-anchored pattern matching away
// from the cursor.
func (rt *Runtime) search(p *Pattern, subj *Subject, start int) (hostMatch, bool) {
	m, err := rt.findAt(p, subj.runes, start)
	if err != nil || m == nil {
		return hostMatch{}, false
	}
	if p.anchorAtCursor && m.Index != start {
		return hostMatch{}, false
	}
	return p.decode(m), true
}

// decode maps a host match onto dialect ordinals and applies the \K
// match-start adjustment.
func (p *Pattern) decode(m *regexp2.Match) hostMatch {
	hm := hostMatch{
		start:  m.Index,
		end:    m.Index + m.Length,
		groups: make([]capture, p.groupCount),
	}
	for i, name := range p.groupNames {
		g := m.GroupByName(name)
		if g != nil && len(g.Captures) > 0 {
			hm.groups[i] = capture{start: g.Index, end: g.Index + g.Length, matched: true}
		}
	}
	if p.hasMarkGroups {
		for _, name := range p.re.GetGroupNames() {
			if !strings.HasPrefix(name, translate.MarkGroupPrefix) {
				continue
			}
			g := m.GroupByName(name)
			if g != nil && len(g.Captures) > 0 && g.Index > hm.start {
				hm.start = g.Index
			}
		}
	}
	return hm
}

func newState(p *Pattern, subj *Subject, hm hostMatch) *matchState {
	return &matchState{
		subject: subj.runes,
		start:   hm.start,
		end:     hm.end,
		groups:  hm.groups,
		pattern: p,
	}
}

// captureList renders the per-iteration list-context contribution: group
// texts, or the whole match when the pattern has no groups.
func captureList(p *Pattern, subj *Subject, hm hostMatch) []string {
	if p.groupCount == 0 {
		return []string{subj.slice(hm.start, hm.end)}
	}
	out := make([]string, len(hm.groups))
	for i, g := range hm.groups {
		if g.matched {
			out[i] = subj.slice(g.start, g.end)
		}
	}
	return out
}

func (p *Pattern) latchOnce() {
	if p.flags.Once() {
		p.matchedOnce.Store(true)
	}
}
