// context.go - explicit match context replacing process-global match state
//
// The legacy runtime kept "the last match" in globals read by special
// variables, which corrupts under concurrency. Here that state lives in a
// MatchContext value threaded through every call: each context sees only its
// own matches, while single-context sequencing keeps the legacy semantics
// (a failed attempt leaves the last successful match readable).

package fennel

// capture records one group's span within a match. Unparticipating groups
// stay unmatched with zero offsets.
type capture struct {
	start, end int
	matched    bool
}

// matchState is a snapshot of one successful match.
type matchState struct {
	subject []rune
	start   int
	end     int
	groups  []capture // indexed by dialect ordinal - 1
	pattern *Pattern
}

// MatchContext carries match state between calls. The zero value is ready
// to use.
type MatchContext struct {
	// current is the state of the most recent attempt, cleared when that
	// attempt fails. last survives failed attempts and backs the
	// special-variable accessors.
	current *matchState
	last    *matchState

	// lastPattern is the most recent successfully matching pattern in this
	// context, reused when an empty pattern is compiled against it.
	lastPattern *Pattern
}

// NewMatchContext returns a fresh, empty context.
func NewMatchContext() *MatchContext { return &MatchContext{} }

// recordSuccess installs a new successful match.
func (mc *MatchContext) recordSuccess(st *matchState) {
	mc.current = st
	mc.last = st
	mc.lastPattern = st.pattern
}

// recordFailure retires the current attempt. The last successful match stays
// readable.
func (mc *MatchContext) recordFailure() {
	mc.current = nil
}

// Reset drops all match state, including the last successful match and the
// remembered pattern.
func (mc *MatchContext) Reset() {
	mc.current = nil
	mc.last = nil
	mc.lastPattern = nil
}

// Matched returns the text of the last successful match.
func (mc *MatchContext) Matched() (string, bool) {
	st := mc.last
	if st == nil {
		return "", false
	}
	return string(st.subject[st.start:st.end]), true
}

// PreMatch returns the text before the last successful match.
func (mc *MatchContext) PreMatch() (string, bool) {
	st := mc.last
	if st == nil {
		return "", false
	}
	return string(st.subject[:st.start]), true
}

// PostMatch returns the text after the last successful match.
func (mc *MatchContext) PostMatch() (string, bool) {
	st := mc.last
	if st == nil {
		return "", false
	}
	return string(st.subject[st.end:]), true
}

// MatchStart returns the rune offset where the last successful match began.
func (mc *MatchContext) MatchStart() (int, bool) {
	if mc.last == nil {
		return 0, false
	}
	return mc.last.start, true
}

// MatchEnd returns the rune offset just past the last successful match.
func (mc *MatchContext) MatchEnd() (int, bool) {
	if mc.last == nil {
		return 0, false
	}
	return mc.last.end, true
}

// GroupCount returns the number of capture groups in the last successfully
// matched pattern.
func (mc *MatchContext) GroupCount() int {
	if mc.last == nil {
		return 0
	}
	return len(mc.last.groups)
}

// Group returns the text captured by the 1-based group n in the last
// successful match; ok=false when the group did not participate.
func (mc *MatchContext) Group(n int) (string, bool) {
	st := mc.last
	if st == nil || n < 1 || n > len(st.groups) {
		return "", false
	}
	g := st.groups[n-1]
	if !g.matched {
		return "", false
	}
	return string(st.subject[g.start:g.end]), true
}

// GroupStart returns the rune offset where group n's capture began.
func (mc *MatchContext) GroupStart(n int) (int, bool) {
	st := mc.last
	if st == nil || n < 1 || n > len(st.groups) || !st.groups[n-1].matched {
		return 0, false
	}
	return st.groups[n-1].start, true
}

// GroupEnd returns the rune offset just past group n's capture.
func (mc *MatchContext) GroupEnd(n int) (int, bool) {
	st := mc.last
	if st == nil || n < 1 || n > len(st.groups) || !st.groups[n-1].matched {
		return 0, false
	}
	return st.groups[n-1].end, true
}

// NamedGroup returns the capture for a user-written group name.
func (mc *MatchContext) NamedGroup(name string) (string, bool) {
	st := mc.last
	if st == nil || st.pattern == nil {
		return "", false
	}
	ord, ok := st.pattern.nameMap[name]
	if !ok {
		return "", false
	}
	return mc.Group(ord)
}
