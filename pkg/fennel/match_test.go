package fennel

import (
	"testing"

	"github.com/stretchr/testify/require"

	ferrors "github.com/sambeau/fennel/pkg/fennel/errors"
)

func TestMatchSingle(t *testing.T) {
	rt := New(Config{})
	mc := NewMatchContext()
	p := rt.MustCompile(`(\w+)@(\w+)`, "")

	res, err := rt.Match(mc, p, NewSubject("mail to user@host today"), ScalarContext)
	require.NoError(t, err)
	require.True(t, res.Matched)
	require.Equal(t, 1, res.Count)
	require.Equal(t, []string{"user", "host"}, res.Captures)

	matched, ok := mc.Matched()
	require.True(t, ok)
	require.Equal(t, "user@host", matched)
	pre, _ := mc.PreMatch()
	require.Equal(t, "mail to ", pre)
	post, _ := mc.PostMatch()
	require.Equal(t, " today", post)

	g1, ok := mc.Group(1)
	require.True(t, ok)
	require.Equal(t, "user", g1)
	start, _ := mc.GroupStart(2)
	end, _ := mc.GroupEnd(2)
	require.Equal(t, "host", string([]rune("mail to user@host today")[start:end]))
}

func TestMatchNamedGroups(t *testing.T) {
	rt := New(Config{})
	mc := NewMatchContext()
	p := rt.MustCompile(`(?<key>\w+)=(?<value>\w+)`, "")

	res, err := rt.Match(mc, p, NewSubject("lang=go"), ScalarContext)
	require.NoError(t, err)
	require.True(t, res.Matched)

	v, ok := mc.NamedGroup("key")
	require.True(t, ok)
	require.Equal(t, "lang", v)
	v, ok = mc.NamedGroup("value")
	require.True(t, ok)
	require.Equal(t, "go", v)
	_, ok = mc.NamedGroup("missing")
	require.False(t, ok)
}

func TestMatchUnparticipatingGroup(t *testing.T) {
	rt := New(Config{})
	mc := NewMatchContext()
	p := rt.MustCompile(`(a)|(b)`, "")

	res, err := rt.Match(mc, p, NewSubject("b"), ScalarContext)
	require.NoError(t, err)
	require.True(t, res.Matched)
	_, ok := mc.Group(1)
	require.False(t, ok)
	g2, ok := mc.Group(2)
	require.True(t, ok)
	require.Equal(t, "b", g2)
}

func TestMatchFailureKeepsLastMatch(t *testing.T) {
	rt := New(Config{})
	mc := NewMatchContext()
	subj := NewSubject("za")

	res, err := rt.Match(mc, rt.MustCompile("a", ""), subj, ScalarContext)
	require.NoError(t, err)
	require.True(t, res.Matched)

	res, err = rt.Match(mc, rt.MustCompile("q", ""), subj, ScalarContext)
	require.NoError(t, err)
	require.False(t, res.Matched)

	// special variables still read the previous success
	matched, ok := mc.Matched()
	require.True(t, ok)
	require.Equal(t, "a", matched)

	mc.Reset()
	_, ok = mc.Matched()
	require.False(t, ok)
}

func TestMatchGlobalListContext(t *testing.T) {
	rt := New(Config{})
	mc := NewMatchContext()
	p := rt.MustCompile(`\d+`, "g")
	subj := NewSubject("a1b22c333")

	res, err := rt.Match(mc, p, subj, ListContext)
	require.NoError(t, err)
	require.True(t, res.Matched)
	require.Equal(t, 3, res.Count)
	require.Equal(t, []string{"1", "22", "333"}, res.Captures)

	// exhaustion clears the cursor without the keep-position flag
	_, ok := subj.Pos()
	require.False(t, ok)
	matched, _ := mc.Matched()
	require.Equal(t, "333", matched)
}

func TestMatchGlobalListCaptures(t *testing.T) {
	rt := New(Config{})
	mc := NewMatchContext()
	p := rt.MustCompile(`(\w)=(\d)`, "g")

	res, err := rt.Match(mc, p, NewSubject("a=1 b=2"), ListContext)
	require.NoError(t, err)
	require.Equal(t, 2, res.Count)
	require.Equal(t, []string{"a", "1", "b", "2"}, res.Captures)
}

func TestMatchGlobalScalarIterates(t *testing.T) {
	rt := New(Config{})
	mc := NewMatchContext()
	p := rt.MustCompile(`\d+`, "g")
	subj := NewSubject("a1b22c333")

	var got []string
	for {
		res, err := rt.Match(mc, p, subj, ScalarContext)
		require.NoError(t, err)
		if !res.Matched {
			break
		}
		m, _ := mc.Matched()
		got = append(got, m)
	}
	require.Equal(t, []string{"1", "22", "333"}, got)

	// the failed final iteration reset the cursor, so the scan restarts
	res, err := rt.Match(mc, p, subj, ScalarContext)
	require.NoError(t, err)
	require.True(t, res.Matched)
	m, _ := mc.Matched()
	require.Equal(t, "1", m)
}

func TestMatchGlobalKeepPos(t *testing.T) {
	rt := New(Config{})
	mc := NewMatchContext()
	p := rt.MustCompile(`\d`, "gc")
	subj := NewSubject("1x2")

	res, err := rt.Match(mc, p, subj, ScalarContext)
	require.NoError(t, err)
	require.True(t, res.Matched)
	res, err = rt.Match(mc, p, subj, ScalarContext)
	require.NoError(t, err)
	require.True(t, res.Matched)

	res, err = rt.Match(mc, p, subj, ScalarContext)
	require.NoError(t, err)
	require.False(t, res.Matched)

	// under c the cursor survives the failure
	pos, ok := subj.Pos()
	require.True(t, ok)
	require.Equal(t, 3, pos)
}

func TestMatchGlobalZeroWidthTerminates(t *testing.T) {
	rt := New(Config{})
	mc := NewMatchContext()
	p := rt.MustCompile(`x*`, "g")

	res, err := rt.Match(mc, p, NewSubject("axa"), ListContext)
	require.NoError(t, err)
	require.True(t, res.Matched)
	require.Equal(t, 3, res.Count)
	require.Equal(t, []string{"", "x", ""}, res.Captures)
}

func TestMatchGlobalScalarZeroWidthAdvances(t *testing.T) {
	rt := New(Config{})
	mc := NewMatchContext()
	p := rt.MustCompile(`x?`, "g")
	subj := NewSubject("ab")

	// each call must move past the cursor's zero-width match, and the
	// iteration must reach the end of the subject
	var got []string
	for i := 0; i < 10; i++ {
		res, err := rt.Match(mc, p, subj, ScalarContext)
		require.NoError(t, err)
		if !res.Matched {
			break
		}
		m, _ := mc.Matched()
		got = append(got, m)
	}
	require.Equal(t, []string{"", "", ""}, got)
	_, ok := subj.Pos()
	require.False(t, ok)
}

func TestMatchKeepOut(t *testing.T) {
	rt := New(Config{})
	mc := NewMatchContext()
	p := rt.MustCompile(`foo\Kbar`, "")

	res, err := rt.Match(mc, p, NewSubject("xfoobarx"), ScalarContext)
	require.NoError(t, err)
	require.True(t, res.Matched)

	matched, _ := mc.Matched()
	require.Equal(t, "bar", matched)
	pre, _ := mc.PreMatch()
	require.Equal(t, "xfoo", pre)
	start, _ := mc.MatchStart()
	require.Equal(t, 4, start)
}

func TestMatchCursorAnchor(t *testing.T) {
	rt := New(Config{})
	mc := NewMatchContext()
	p := rt.MustCompile(`\Gab`, "")

	subj := NewSubject("xxabyy")
	subj.SetPos(2)
	res, err := rt.Match(mc, p, subj, ScalarContext)
	require.NoError(t, err)
	require.True(t, res.Matched)

	// anchored at an offset where the pattern cannot start
	subj.SetPos(1)
	res, err = rt.Match(mc, p, subj, ScalarContext)
	require.NoError(t, err)
	require.False(t, res.Matched)
}

func TestMatchOnceFlag(t *testing.T) {
	rt := New(Config{})
	mc := NewMatchContext()
	p := rt.MustCompile("a", "o")
	subj := NewSubject("aaa")

	res, err := rt.Match(mc, p, subj, ScalarContext)
	require.NoError(t, err)
	require.True(t, res.Matched)

	res, err = rt.Match(mc, p, subj, ScalarContext)
	require.NoError(t, err)
	require.False(t, res.Matched)

	p.Reset()
	res, err = rt.Match(mc, p, subj, ScalarContext)
	require.NoError(t, err)
	require.True(t, res.Matched)
}

func TestMatchEmptyPatternReuse(t *testing.T) {
	rt := New(Config{})
	mc := NewMatchContext()

	// nothing to reuse yet
	empty := rt.MustCompile("", "")
	_, err := rt.Match(mc, empty, NewSubject("x"), ScalarContext)
	var re *ferrors.RegexError
	require.ErrorAs(t, err, &re)
	require.Equal(t, "RX-0040", re.Code)

	res, err := rt.Match(mc, rt.MustCompile(`\d+`, ""), NewSubject("n=42"), ScalarContext)
	require.NoError(t, err)
	require.True(t, res.Matched)

	// the empty pattern now reruns the last successful one
	res, err = rt.Match(mc, empty, NewSubject("abc 7 de"), ScalarContext)
	require.NoError(t, err)
	require.True(t, res.Matched)
	m, _ := mc.Matched()
	require.Equal(t, "7", m)

	// caller's engine-only flags apply to the reused pattern
	emptyGlobal := rt.MustCompile("", "g")
	res, err = rt.Match(mc, emptyGlobal, NewSubject("1 2 3"), ListContext)
	require.NoError(t, err)
	require.Equal(t, 3, res.Count)
}

func TestMatchClassAlgebra(t *testing.T) {
	rt := New(Config{})
	mc := NewMatchContext()
	p := rt.MustCompile("(?[ [a-c] - [b] ])", "g")

	res, err := rt.Match(mc, p, NewSubject("abc"), ListContext)
	require.NoError(t, err)
	require.Equal(t, 2, res.Count)
	require.Equal(t, []string{"a", "c"}, res.Captures)
}

func TestMatchClassBackspaceBoundary(t *testing.T) {
	rt := New(Config{})
	mc := NewMatchContext()
	p := rt.MustCompile(`x[\b]`, "")

	// matches a literal backspace after x
	res, err := rt.Match(mc, p, NewSubject("x\bz"), ScalarContext)
	require.NoError(t, err)
	require.True(t, res.Matched)
	m, _ := mc.Matched()
	require.Equal(t, "x\b", m)

	// also matches at a word boundary, zero-width
	res, err = rt.Match(mc, p, NewSubject("x y"), ScalarContext)
	require.NoError(t, err)
	require.True(t, res.Matched)
	m, _ = mc.Matched()
	require.Equal(t, "x", m)

	// negated, \b is only the backspace character: no boundary reading
	neg := rt.MustCompile(`x[^\b]`, "")
	res, err = rt.Match(mc, neg, NewSubject("x\bz"), ScalarContext)
	require.NoError(t, err)
	require.False(t, res.Matched)
	res, err = rt.Match(mc, neg, NewSubject("xa"), ScalarContext)
	require.NoError(t, err)
	require.True(t, res.Matched)
}

func TestMatchUnicodeSubject(t *testing.T) {
	rt := New(Config{})
	mc := NewMatchContext()
	p := rt.MustCompile(`\p{Greek}+`, "")

	res, err := rt.Match(mc, p, NewSubject("abc αβγ def"), ScalarContext)
	require.NoError(t, err)
	require.True(t, res.Matched)
	m, _ := mc.Matched()
	require.Equal(t, "αβγ", m)

	// offsets are rune offsets, not bytes
	start, _ := mc.MatchStart()
	require.Equal(t, 4, start)
	end, _ := mc.MatchEnd()
	require.Equal(t, 7, end)
}

func TestMatchCaseFoldExpansion(t *testing.T) {
	rt := New(Config{})
	mc := NewMatchContext()
	p := rt.MustCompile("straße", "i")

	for _, s := range []string{"straße", "STRASSE", "Strasse"} {
		res, err := rt.Match(mc, p, NewSubject(s), ScalarContext)
		require.NoError(t, err)
		require.True(t, res.Matched, "subject %q", s)
	}
}
