// timeout.go - deadline guard for catastrophic backtracking
//
// A backtracking host engine can take effectively unbounded time on
// pathological pattern/subject pairs. When the runtime carries a deadline,
// each host search runs on a worker goroutine with the host's own
// cooperative MatchTimeout armed; if the deadline passes first, the call
// reports no-match and the worker's late result is discarded, never
// observed. With no deadline configured the search runs inline.

package fennel

import (
	"time"

	"github.com/dlclark/regexp2"
)

type searchResult struct {
	m   *regexp2.Match
	err error
}

// findAt runs one host search over runes starting at the given rune offset.
// A timed-out search returns (nil, nil): not a match, not an error.
func (rt *Runtime) findAt(p *Pattern, runes []rune, start int) (*regexp2.Match, error) {
	if start > len(runes) {
		return nil, nil
	}
	if rt.cfg.Timeout <= 0 {
		return p.re.FindRunesMatchStartingAt(runes, start)
	}

	ch := make(chan searchResult, 1)
	go func() {
		m, err := p.re.FindRunesMatchStartingAt(runes, start)
		ch <- searchResult{m: m, err: err}
	}()

	timer := time.NewTimer(rt.cfg.Timeout + rt.cfg.Timeout/4)
	defer timer.Stop()
	select {
	case res := <-ch:
		if res.err != nil {
			// The host's MatchTimeout fired; same outcome as the deadline.
			rt.timedOut(p)
			return nil, nil
		}
		return res.m, nil
	case <-timer.C:
		// The worker is past its MatchTimeout and will stop cooperatively;
		// its result lands in the buffered channel and is dropped.
		rt.timedOut(p)
		return nil, nil
	}
}

func (rt *Runtime) timedOut(p *Pattern) {
	rt.cfg.Logf("fennel: pattern m/%s/ abandoned at deadline %v", p.source, rt.cfg.Timeout)
	if rt.cfg.OnTimeout != nil {
		rt.cfg.OnTimeout()
	}
}
