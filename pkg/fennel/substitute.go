// substitute.go - search-and-replace over a subject
//
// The replacement is either literal text or a callback evaluated against
// the match context per occurrence (the dialect's code-evaluated
// replacement). The destructive form writes the rebuilt text back into the
// subject; the non-destructive form never touches it and always returns a
// result, the untouched original included.

package fennel

import "strings"

// Replacement is the right-hand side of a substitution. When Func is set it
// wins over Text and is called once per occurrence, after the match state
// has been recorded, so it can read captures through the context.
type Replacement struct {
	Text string
	Func func(*MatchContext) string
}

// Literal builds a fixed-text replacement.
func Literal(text string) Replacement { return Replacement{Text: text} }

// Eval builds a callback replacement.
func Eval(fn func(*MatchContext) string) Replacement { return Replacement{Func: fn} }

func (r Replacement) expand(mc *MatchContext) string {
	if r.Func != nil {
		return r.Func(mc)
	}
	return r.Text
}

// Substitute replaces occurrences of p in subj: the first one, or all under
// the g flag. It returns the occurrence count and the rebuilt text. When
// destructive (and the pattern lacks the r flag) the rebuilt text is
// written back into subj; a destructive call with zero occurrences leaves
// subj untouched and signals failure through the zero count.
func (rt *Runtime) Substitute(mc *MatchContext, p *Pattern, repl Replacement, subj *Subject, destructive bool) (int, string, error) {
	p, err := rt.effective(mc, p)
	if err != nil {
		return 0, "", err
	}
	if p.flags.NonDestructive() {
		destructive = false
	}
	if p.flags.Once() && p.matchedOnce.Load() {
		mc.recordFailure()
		return 0, subj.String(), nil
	}

	searchStart := 0
	if pos, ok := subj.Pos(); ok && p.anchorAtCursor {
		searchStart = pos
	}
	var sb strings.Builder
	tail := 0
	lastEnd := -1
	count := 0

	for {
		hm, ok := rt.search(p, subj, searchStart)
		if !ok {
			break
		}
		if hm.start == hm.end && hm.start == lastEnd {
			if hm.end >= subj.Len() {
				break
			}
			searchStart = hm.end + 1
			continue
		}

		mc.recordSuccess(newState(p, subj, hm))
		p.latchOnce()
		count++
		sb.WriteString(subj.slice(tail, hm.start))
		sb.WriteString(repl.expand(mc))
		tail = hm.end
		lastEnd = hm.end
		searchStart = hm.end
		if !p.flags.Global() {
			break
		}
	}

	if count == 0 {
		mc.recordFailure()
		return 0, subj.String(), nil
	}
	sb.WriteString(subj.slice(tail, subj.Len()))
	result := sb.String()
	if destructive {
		subj.setText(result)
	}
	return count, result, nil
}
