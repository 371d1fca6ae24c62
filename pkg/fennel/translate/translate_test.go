package translate

import (
	"strings"
	"testing"

	ferrors "github.com/sambeau/fennel/pkg/fennel/errors"
)

func translate(t *testing.T, pattern, flags string) *Result {
	t.Helper()
	res, err := Translate(pattern, MustParseFlags(flags))
	if err != nil {
		t.Fatalf("Translate(%q, %q): %v", pattern, flags, err)
	}
	return res
}

func translateErr(t *testing.T, pattern, flags string) *ferrors.RegexError {
	t.Helper()
	_, err := Translate(pattern, MustParseFlags(flags))
	if err == nil {
		t.Fatalf("Translate(%q, %q): expected error", pattern, flags)
	}
	re, ok := err.(*ferrors.RegexError)
	if !ok {
		t.Fatalf("Translate(%q, %q): error type %T", pattern, flags, err)
	}
	return re
}

func TestTranslateLiterals(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"abc", "abc"},
		{"x|y", "x|y"},
		{"^a$", "^a$"},
		{"a.c", "a.c"},
		{"a\\.c", "a\\.c"},
		{"a\\+b", "a\\+b"},
		{"a{", "a\\{"},
		{"}b", "}b"},
	}
	for _, tt := range tests {
		if got := translate(t, tt.pattern, "").Text; got != tt.want {
			t.Errorf("%q => %q, want %q", tt.pattern, got, tt.want)
		}
	}
}

func TestTranslateGroups(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"a(b)c", "a(?<feng01>b)c"},
		{"(a)(b)", "(?<feng01>a)(?<feng02>b)"},
		{"(?<y>x)", "(?<y>x)"},
		{"(?'y'x)", "(?<y>x)"},
		{"(?<fence>x)", "(?<fence>x)"}, // only exact synthetic shapes are reserved
		{"(?P<y>x)", "(?<y>x)"},
		{"(?:ab)", "(?:ab)"},
		{"(?=a)b", "(?=a)b"},
		{"(?!a)b", "(?!a)b"},
		{"(?<=a)b", "(?<=a)b"},
		{"(?<!a)b", "(?<!a)b"},
		{"(?>ab)c", "(?>ab)c"},
		{"(?#note)x", "x"},
		{"((a))", "(?<feng01>(?<feng02>a))"},
	}
	for _, tt := range tests {
		if got := translate(t, tt.pattern, "").Text; got != tt.want {
			t.Errorf("%q => %q, want %q", tt.pattern, got, tt.want)
		}
	}
}

func TestTranslateGroupBookkeeping(t *testing.T) {
	res := translate(t, "(a)(?<y>b)", "")
	if res.GroupCount != 2 {
		t.Fatalf("GroupCount = %d", res.GroupCount)
	}
	if res.GroupNames[0] != "feng01" || res.GroupNames[1] != "y" {
		t.Errorf("GroupNames = %v", res.GroupNames)
	}
	if res.NameMap["feng01"] != 1 || res.NameMap["y"] != 2 {
		t.Errorf("NameMap = %v", res.NameMap)
	}
	if res.UserNamed(1) || !res.UserNamed(2) {
		t.Error("UserNamed should distinguish synthetic from author names")
	}
	if res.UserNamed(0) || res.UserNamed(3) {
		t.Error("UserNamed out of range should be false")
	}
	if !translate(t, "(?<fence>a)", "").UserNamed(1) {
		t.Error("fence is an author name, not a synthetic one")
	}
}

func TestTranslateNoCaptureFlag(t *testing.T) {
	if got := translate(t, "(a)", "n").Text; got != "(?:a)" {
		t.Errorf("n flag: %q", got)
	}
	res := translate(t, "(?n:(a))(b)", "")
	if res.Text != "(?:(?:a))(?<feng01>b)" {
		t.Errorf("scoped n: %q", res.Text)
	}
	if res.GroupCount != 1 {
		t.Errorf("scoped n GroupCount = %d", res.GroupCount)
	}
}

func TestTranslateBackrefs(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"(?<y>x)\\1", "(?<y>x)\\k<y>"},
		{"(a)\\1", "(?<feng01>a)\\k<feng01>"},
		{"(?<y>x)\\k<y>", "(?<y>x)\\k<y>"},
		{"(?<y>x)\\k'y'", "(?<y>x)\\k<y>"},
		{"(?<y>x)\\k{y}", "(?<y>x)\\k<y>"},
		{"(?<y>x)\\g{y}", "(?<y>x)\\k<y>"},
		{"(a)(b)\\g{-1}", "(?<feng01>a)(?<feng02>b)\\k<feng02>"},
		{"(a)(b)\\g{-2}", "(?<feng01>a)(?<feng02>b)\\k<feng01>"},
		{"(a)(b)\\g1", "(?<feng01>a)(?<feng02>b)\\k<feng01>"},
		{"(a)(b)\\g-1", "(?<feng01>a)(?<feng02>b)\\k<feng02>"},
		{"(?P<y>x)(?P=y)", "(?<y>x)\\k<y>"},
	}
	for _, tt := range tests {
		if got := translate(t, tt.pattern, "").Text; got != tt.want {
			t.Errorf("%q => %q, want %q", tt.pattern, got, tt.want)
		}
	}
}

func TestTranslateBackrefErrors(t *testing.T) {
	tests := []string{
		"\\1",           // single digit is always a backreference
		"(a)\\2",        // group 2 does not exist
		"\\k<nope>",     // unknown name
		"(a)\\g{-2}",    // relative ref past the first group
		"(?P=nope)x",    // python spelling, unknown name
		"(?<y>x)\\g{z}", // \g with unknown name
	}
	for _, pattern := range tests {
		re := translateErr(t, pattern, "")
		if re.Code != "RX-0012" {
			t.Errorf("%q => %s, want RX-0012", pattern, re.Code)
		}
	}
}

func TestTranslateOctalAndHex(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"\\x41", "\\u0041"},
		{"\\x4", "\\u0004"},
		{"\\x", "\\u0000"},
		{"\\x{1F4A9}", string(rune(0x1F4A9))},
		{"\\x{0041}", "\\u0041"},
		{"\\o{101}", "\\u0041"},
		{"\\0", "\\u0000"},
		{"\\012", "\\u000A"},
		{"\\12", "\\u000A"}, // two digits, no group 12: octal
	}
	for _, tt := range tests {
		if got := translate(t, tt.pattern, "").Text; got != tt.want {
			t.Errorf("%q => %q, want %q", tt.pattern, got, tt.want)
		}
	}
}

func TestTranslateNamedChars(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"\\N", "[^\\n]"},
		{"\\N{2}x", "[^\\n]{2}x"},
		{"\\N{U+0041}", "\\u0041"},
		{"\\N{LATIN SMALL LETTER A}", "\\u0061"},
	}
	for _, tt := range tests {
		if got := translate(t, tt.pattern, "").Text; got != tt.want {
			t.Errorf("%q => %q, want %q", tt.pattern, got, tt.want)
		}
	}
	if re := translateErr(t, "\\N{NO SUCH NAME}", ""); re.Code != "RX-0011" {
		t.Errorf("unknown name => %s", re.Code)
	}
}

func TestTranslateProperties(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"\\pL", "\\p{L}"},
		{"\\p{Lu}", "\\p{Lu}"},
		{"\\P{L}", "\\P{L}"},
		{"\\p{^L}", "\\P{L}"},
		{"\\P{^L}", "\\p{L}"},
	}
	for _, tt := range tests {
		if got := translate(t, tt.pattern, "").Text; got != tt.want {
			t.Errorf("%q => %q, want %q", tt.pattern, got, tt.want)
		}
	}
	// scripts and shorthands lower to explicit classes
	if got := translate(t, "\\p{Greek}", "").Text; !strings.HasPrefix(got, "[\\u0370") {
		t.Errorf("Greek => %q", got)
	}
	if got := translate(t, "\\h", "").Text; !strings.HasPrefix(got, "[\\u0009") {
		t.Errorf("\\h => %q", got)
	}
	if got := translate(t, "\\H", "").Text; !strings.HasPrefix(got, "[^\\u0009") {
		t.Errorf("\\H => %q", got)
	}
	// block names are forwarded to the host, but only plausible ones
	if got := translate(t, "\\p{IsBasicLatin}", "").Text; got != "\\p{IsBasicLatin}" {
		t.Errorf("IsBasicLatin => %q", got)
	}
	if re := translateErr(t, "\\p{NoSuch}", ""); re.Code != "RX-0020" {
		t.Errorf("unknown property => %s", re.Code)
	}
	if re := translateErr(t, "\\p{Indic}", ""); re.Code != "RX-0020" {
		t.Errorf("Indic is not the dic block => %s", re.Code)
	}
}

func TestTranslateMultiRuneShorthands(t *testing.T) {
	if got := translate(t, "\\R", "").Text; !strings.HasPrefix(got, "(?>\\r\\n|") {
		t.Errorf("\\R => %q", got)
	}
	if got := translate(t, "\\X", "").Text; got != "(?>\\P{M}\\p{M}*)" {
		t.Errorf("\\X => %q", got)
	}
}

func TestTranslatePossessive(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"a*+", "(?>a*)"},
		{"ab++", "a(?>b+)"},
		{"a?+b", "(?>a?)b"},
		{"a{2,3}+", "(?>a{2,3})"},
		{"(ab)*+", "(?>(?<feng01>ab)*)"},
		{"[xy]++", "(?>[\\u0078\\u0079]+)"},
		{"a*?", "a*?"},
		{"a{2,}?", "a{2,}?"},
		{"a{2}", "a{2}"},
	}
	for _, tt := range tests {
		if got := translate(t, tt.pattern, "").Text; got != tt.want {
			t.Errorf("%q => %q, want %q", tt.pattern, got, tt.want)
		}
	}
}

func TestTranslateClasses(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"[abc]", "[\\u0061\\u0062\\u0063]"},
		{"[a-c]", "[\\u0061-\\u0063]"},
		{"[^a]", "[^\\u0061]"},
		{"[]a]", "[\\u005D\\u0061]"},
		{"[a-]", "[\\u0061\\u002D]"},
		{"[\\d]", "[\\d]"},
		{"[a-\\d]", "[\\u0061\\-\\d]"},
		{"[\\x41-\\x43]", "[\\u0041-\\u0043]"},
		{"[\\n\\t]", "[\\u000A\\u0009]"},
		{"[[:digit:]]", "[\\p{Nd}]"},
		{"[[:xdigit:]]", "[0-9A-Fa-f]"},
		{"[\\cA]", "[\\u0001]"},
		{"[\\101]", "[\\u0041]"},
		{"[\\N{U+0042}]", "[\\u0042]"},
	}
	for _, tt := range tests {
		if got := translate(t, tt.pattern, "").Text; got != tt.want {
			t.Errorf("%q => %q, want %q", tt.pattern, got, tt.want)
		}
	}
}

func TestTranslateClassBoundaryHoist(t *testing.T) {
	got := translate(t, "[\\b]", "").Text
	if got != "(?:[\\u0008]|\\b)" {
		t.Errorf("[\\b] => %q", got)
	}
	// the hoist does not leak into later classes
	res := translate(t, "[\\b][a]", "")
	if !strings.HasSuffix(res.Text, "[\\u0061]") {
		t.Errorf("second class affected: %q", res.Text)
	}
	// in a negated class \b is only the backspace character
	if got := translate(t, "[^\\b]", "").Text; got != "[^\\u0008]" {
		t.Errorf("[^\\b] => %q", got)
	}
}

func TestTranslateClassAlgebra(t *testing.T) {
	if got := translate(t, "(?[ [a-c] - [b] ])x", "").Text; got != "[\\u0061\\u0063]x" {
		t.Errorf("algebra construct => %q", got)
	}
}

func TestTranslateExtendedMode(t *testing.T) {
	tests := []struct {
		pattern string
		flags   string
		want    string
	}{
		{"a b # comment\nd", "x", "abd"},
		{"a\\ b", "x", "a\\ b"},
		{"(?x:a b)", "", "(?:ab)"},
		{"(?x)a b", "", "ab"},
		{"[a b]", "x", "[\\u0061\\u0020\\u0062]"},
		{"[a b]", "xx", "[\\u0061\\u0062]"},
	}
	for _, tt := range tests {
		if got := translate(t, tt.pattern, tt.flags).Text; got != tt.want {
			t.Errorf("%q/%q => %q, want %q", tt.pattern, tt.flags, got, tt.want)
		}
	}
}

func TestTranslateFlagGroups(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"(?i:a)", "(?i:a)"},
		{"(?i-m:a)", "(?i-m:a)"},
		{"(?ims:a)", "(?ims:a)"},
		{"(?i)abc", "(?i)abc"},
		{"(?-i)abc", "(?-i)abc"},
		{"(?^i:a)", "(?i-ms:a)"},
		{"(?ai:x)", "(?i:x)"}, // charset modifiers are accepted and dropped
		{"(?u)x", "x"},
		{"(?adlu:x)", "(?:x)"},
	}
	for _, tt := range tests {
		if got := translate(t, tt.pattern, "").Text; got != tt.want {
			t.Errorf("%q => %q, want %q", tt.pattern, got, tt.want)
		}
	}
	if re := translateErr(t, "(?q:a)", ""); re.Code != "RX-0006" {
		t.Errorf("unknown flag => %s", re.Code)
	}
	if re := translateErr(t, "(?)", ""); re.Code != "RX-0017" {
		t.Errorf("empty flag group => %s", re.Code)
	}
}

func TestTranslateBareFlagScope(t *testing.T) {
	// a bare (?i) lasts to the end of the enclosing group, not beyond
	got := translate(t, "((?x)a b)c d", "").Text
	if got != "(?<feng01>ab)c d" {
		t.Errorf("scoped bare flag: %q", got)
	}
}

func TestTranslateCaseFoldExpansion(t *testing.T) {
	got := translate(t, "straße", "i").Text
	if !strings.Contains(got, "(?:") || !strings.Contains(got, "ss") {
		t.Errorf("sharp s under i => %q", got)
	}
	// no expansion without the flag
	if got := translate(t, "straße", "").Text; got != "straße" {
		t.Errorf("sharp s without i => %q", got)
	}
}

func TestTranslateMarkGroups(t *testing.T) {
	res := translate(t, "ab\\Kcd", "")
	if res.Text != "ab(?<fenmarkK1>)cd" {
		t.Errorf("\\K => %q", res.Text)
	}
	if !res.HasMarkGroups {
		t.Error("HasMarkGroups not set")
	}
	res = translate(t, "a\\Kb\\Kc", "")
	if res.Text != "a(?<fenmarkK1>)b(?<fenmarkK2>)c" {
		t.Errorf("double \\K => %q", res.Text)
	}
	// mark groups are not dialect captures
	if res.GroupCount != 0 {
		t.Errorf("GroupCount = %d", res.GroupCount)
	}
}

func TestTranslateCursorAnchor(t *testing.T) {
	res := translate(t, "\\Gfoo", "")
	if !res.AnchorAtCursor || res.Text != "foo" {
		t.Errorf("\\G prefix: anchor=%v text=%q", res.AnchorAtCursor, res.Text)
	}
	if re := translateErr(t, "a\\Gb", ""); re.Code != "RX-0021" {
		t.Errorf("mid-pattern \\G => %s", re.Code)
	}
}

func TestTranslateQuoteRun(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"\\Q1+1\\E=2", "1\\+1=2"},
		{"\\Qa.b", "a\\.b"}, // missing \E quotes to the end
		{"a\\E b", "a b"},   // stray \E is ignored
	}
	for _, tt := range tests {
		if got := translate(t, tt.pattern, "").Text; got != tt.want {
			t.Errorf("%q => %q, want %q", tt.pattern, got, tt.want)
		}
	}
}

func TestTranslateBoundaryForms(t *testing.T) {
	res := translate(t, "\\b{wb}x", "")
	if res.Text != "\\bx" || len(res.Warnings) != 0 {
		t.Errorf("\\b{wb} => %q warnings %v", res.Text, res.Warnings)
	}
	res = translate(t, "\\b{gcb}x", "")
	if res.Text != "\\bx" || len(res.Warnings) != 1 {
		t.Errorf("\\b{gcb} => %q warnings %v", res.Text, res.Warnings)
	}
	if re := translateErr(t, "\\b{qq}", ""); re.Code != "RX-0021" {
		t.Errorf("unknown boundary => %s", re.Code)
	}
}

func TestTranslateErrors(t *testing.T) {
	tests := []struct {
		pattern string
		code    string
	}{
		{"(", "RX-0001"},
		{"(a", "RX-0001"},
		{")", "RX-0019"},
		{"a)", "RX-0019"},
		{"[a", "RX-0002"},
		{"[", "RX-0002"},
		{"[9-0]", "RX-0003"},
		{"[[:nope:]]", "RX-0004"},
		{"(?<y>a)(?<y>b)", "RX-0005"},
		{"(?<feng01>a)", "RX-0005"},
		{"(?<fenmarkK1>a)", "RX-0005"},
		{"(?<1y>a)", "RX-0005"},
		{"a\\", "RX-0013"},
		{"(?#never closed", "RX-0014"},
		{"\\j", "RX-0015"},
		{"\\p{L", "RX-0016"},
		{"(?{ code })", "RX-0021"},
		{"(?(1)a)", "RX-0021"},
		{"(?R)", "RX-0021"},
		{"(?1)", "RX-0021"},
		{"(?P>y)", "RX-0021"},
		{"\\C", "RX-0021"},
	}
	for _, tt := range tests {
		re := translateErr(t, tt.pattern, "")
		if re.Code != tt.code {
			t.Errorf("%q => %s (%s), want %s", tt.pattern, re.Code, re.Message, tt.code)
		}
		if re.Pattern != tt.pattern {
			t.Errorf("%q: error pattern %q", tt.pattern, re.Pattern)
		}
	}
}

func TestTranslateDeepNesting(t *testing.T) {
	pattern := strings.Repeat("(", 300) + "a" + strings.Repeat(")", 300)
	re := translateErr(t, pattern, "")
	if re.Code != "RX-0010" {
		t.Errorf("deep nesting => %s", re.Code)
	}
}
