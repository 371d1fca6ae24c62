// subject.go - the string being matched, with its position cursor
//
// The cursor belongs to the subject, not the pattern: global matching
// resumes from it, and it survives across calls until a failed global match
// clears it. All offsets are rune offsets.

package fennel

type Subject struct {
	runes []rune
	pos   int // rune offset for the next global search; -1 = unset
}

// NewSubject wraps a string for matching. The cursor starts unset.
func NewSubject(text string) *Subject {
	return &Subject{runes: []rune(text), pos: -1}
}

func (s *Subject) String() string { return string(s.runes) }

// Len returns the subject length in runes.
func (s *Subject) Len() int { return len(s.runes) }

// Pos returns the position cursor, ok=false when unset.
func (s *Subject) Pos() (int, bool) {
	if s.pos < 0 {
		return 0, false
	}
	return s.pos, true
}

// SetPos sets the cursor. Values are clamped to the subject bounds.
func (s *Subject) SetPos(pos int) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(s.runes) {
		pos = len(s.runes)
	}
	s.pos = pos
}

// ClearPos unsets the cursor, so the next search starts at the beginning.
func (s *Subject) ClearPos() { s.pos = -1 }

// setText replaces the subject text after a destructive substitution.
// Changing the text invalidates any saved position.
func (s *Subject) setText(text string) {
	s.runes = []rune(text)
	s.pos = -1
}

// slice returns the text between two rune offsets.
func (s *Subject) slice(lo, hi int) string {
	if lo < 0 || hi > len(s.runes) || lo > hi {
		return ""
	}
	return string(s.runes[lo:hi])
}
