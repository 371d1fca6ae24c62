// fold.go - multi-character case folds
//
// Some characters case-fold to more than one character (the German sharp s
// folds to "ss"). The host engine's case-insensitive mode only folds
// one-to-one, so under /i these characters are rewritten into alternations
// covering every case variant. Data derived from the full (F-type) entries
// of the Unicode CaseFolding table.

package uniprop

import "strings"

// multiFolds maps each rune with a multi-character full fold to the case
// variants its alternation must cover. The first variant is the character
// itself.
var multiFolds = map[rune][]string{
	0x00DF: {"ß", "ẞ", "ss", "sS", "Ss", "SS"},                         // LATIN SMALL LETTER SHARP S
	0x1E9E: {"ẞ", "ß", "ss", "sS", "Ss", "SS"},                         // LATIN CAPITAL LETTER SHARP S
	0x0130: {"İ", "i̇", "İ"},                                     // LATIN CAPITAL LETTER I WITH DOT ABOVE
	0x0149: {"ŉ", "ʼn", "ʼN"},                                     // LATIN SMALL LETTER N PRECEDED BY APOSTROPHE
	0x01F0: {"ǰ", "ǰ", "J̌"},                                     // LATIN SMALL LETTER J WITH CARON
	0x0390: {"ΐ", "ΐ", "Ϊ́"},               // GREEK SMALL LETTER IOTA WITH DIALYTIKA AND TONOS
	0x03B0: {"ΰ", "ΰ", "Ϋ́"},               // GREEK SMALL LETTER UPSILON WITH DIALYTIKA AND TONOS
	0x0587: {"և", "եւ", "Եւ", "ԵՒ"},           // ARMENIAN SMALL LIGATURE ECH YIWN
	0x1E96: {"ẖ", "ẖ", "H̱"},                                     // LATIN SMALL LETTER H WITH LINE BELOW
	0x1E97: {"ẗ", "ẗ", "T̈"},                                     // LATIN SMALL LETTER T WITH DIAERESIS
	0x1E98: {"ẘ", "ẘ", "W̊"},                                     // LATIN SMALL LETTER W WITH RING ABOVE
	0x1E99: {"ẙ", "ẙ", "Y̊"},                                     // LATIN SMALL LETTER Y WITH RING ABOVE
	0x1E9A: {"ẚ", "aʾ", "Aʾ"},                                     // LATIN SMALL LETTER A WITH RIGHT HALF RING
	0x1F50: {"ὐ", "ὐ", "Υ̓"},                           // GREEK SMALL LETTER UPSILON WITH PSILI
	0x1F52: {"ὒ", "ὒ", "Υ̓̀"},               // ... WITH PSILI AND VARIA
	0x1F54: {"ὔ", "ὔ", "Υ̓́"},               // ... WITH PSILI AND OXIA
	0x1F56: {"ὖ", "ὖ", "Υ̓͂"},               // ... WITH PSILI AND PERISPOMENI
	0x1FB2: {"ᾲ", "ὰι", "ᾺΙ"},                           // GREEK SMALL LETTER ALPHA WITH VARIA AND YPOGEGRAMMENI
	0x1FB3: {"ᾳ", "αι", "ΑΙ", "Αι"},           // GREEK SMALL LETTER ALPHA WITH YPOGEGRAMMENI
	0x1FB4: {"ᾴ", "άι", "ΆΙ"},                           // ... WITH OXIA AND YPOGEGRAMMENI
	0x1FB6: {"ᾶ", "ᾶ", "Α͂"},                           // ... WITH PERISPOMENI
	0x1FB7: {"ᾷ", "ᾶι", "Α͂Ι"},               // ... WITH PERISPOMENI AND YPOGEGRAMMENI
	0x1FBC: {"ᾼ", "αι", "ΑΙ"},                           // GREEK CAPITAL LETTER ALPHA WITH PROSGEGRAMMENI
	0x1FC2: {"ῂ", "ὴι", "ῊΙ"},                           // GREEK SMALL LETTER ETA WITH VARIA AND YPOGEGRAMMENI
	0x1FC3: {"ῃ", "ηι", "ΗΙ", "Ηι"},           // GREEK SMALL LETTER ETA WITH YPOGEGRAMMENI
	0x1FC4: {"ῄ", "ήι", "ΉΙ"},                           // ... WITH OXIA AND YPOGEGRAMMENI
	0x1FC6: {"ῆ", "ῆ", "Η͂"},                           // ... WITH PERISPOMENI
	0x1FC7: {"ῇ", "ῆι", "Η͂Ι"},               // ... WITH PERISPOMENI AND YPOGEGRAMMENI
	0x1FCC: {"ῌ", "ηι", "ΗΙ"},                           // GREEK CAPITAL LETTER ETA WITH PROSGEGRAMMENI
	0x1FD2: {"ῒ", "ῒ", "Ϊ̀"},               // GREEK SMALL LETTER IOTA WITH DIALYTIKA AND VARIA
	0x1FD3: {"ΐ", "ΐ", "Ϊ́"},               // ... WITH DIALYTIKA AND OXIA
	0x1FD6: {"ῖ", "ῖ", "Ι͂"},                           // ... WITH PERISPOMENI
	0x1FD7: {"ῗ", "ῗ", "Ϊ͂"},               // ... WITH DIALYTIKA AND PERISPOMENI
	0x1FE2: {"ῢ", "ῢ", "Ϋ̀"},               // GREEK SMALL LETTER UPSILON WITH DIALYTIKA AND VARIA
	0x1FE3: {"ΰ", "ΰ", "Ϋ́"},               // ... WITH DIALYTIKA AND OXIA
	0x1FE4: {"ῤ", "ῤ", "Ρ̓"},                           // GREEK SMALL LETTER RHO WITH PSILI
	0x1FE6: {"ῦ", "ῦ", "Υ͂"},                           // GREEK SMALL LETTER UPSILON WITH PERISPOMENI
	0x1FE7: {"ῧ", "ῧ", "Ϋ͂"},               // ... WITH DIALYTIKA AND PERISPOMENI
	0x1FF2: {"ῲ", "ὼι", "ῺΙ"},                           // GREEK SMALL LETTER OMEGA WITH VARIA AND YPOGEGRAMMENI
	0x1FF3: {"ῳ", "ωι", "ΩΙ", "Ωι"},           // GREEK SMALL LETTER OMEGA WITH YPOGEGRAMMENI
	0x1FF4: {"ῴ", "ώι", "ΏΙ"},                           // ... WITH OXIA AND YPOGEGRAMMENI
	0x1FF6: {"ῶ", "ῶ", "Ω͂"},                           // ... WITH PERISPOMENI
	0x1FF7: {"ῷ", "ῶι", "Ω͂Ι"},               // ... WITH PERISPOMENI AND YPOGEGRAMMENI
	0x1FFC: {"ῼ", "ωι", "ΩΙ"},                           // GREEK CAPITAL LETTER OMEGA WITH PROSGEGRAMMENI
	0xFB00: {"ﬀ", "ff", "fF", "Ff", "FF"},                                   // LATIN SMALL LIGATURE FF
	0xFB01: {"ﬁ", "fi", "fI", "Fi", "FI"},                                   // LATIN SMALL LIGATURE FI
	0xFB02: {"ﬂ", "fl", "fL", "Fl", "FL"},                                   // LATIN SMALL LIGATURE FL
	0xFB03: {"ﬃ", "ffi", "Ffi", "FFI"},                                      // LATIN SMALL LIGATURE FFI
	0xFB04: {"ﬄ", "ffl", "Ffl", "FFL"},                                      // LATIN SMALL LIGATURE FFL
	0xFB05: {"ﬅ", "ﬆ", "st", "sT", "St", "ST"},                         // LATIN SMALL LIGATURE LONG S T
	0xFB06: {"ﬆ", "ﬅ", "st", "sT", "St", "ST"},                         // LATIN SMALL LIGATURE ST
	0xFB13: {"ﬓ", "մն", "ՄՆ", "Մն"},           // ARMENIAN SMALL LIGATURE MEN NOW
	0xFB14: {"ﬔ", "մե", "ՄԵ", "Մե"},           // ARMENIAN SMALL LIGATURE MEN ECH
	0xFB15: {"ﬕ", "մի", "ՄԻ", "Մի"},           // ARMENIAN SMALL LIGATURE MEN INI
	0xFB16: {"ﬖ", "վն", "ՎՆ", "Վն"},           // ARMENIAN SMALL LIGATURE VEW NOW
	0xFB17: {"ﬗ", "մխ", "ՄԽ", "Մխ"},           // ARMENIAN SMALL LIGATURE MEN XEH
}

// HasMultiFold reports whether r case-folds to multiple characters.
func HasMultiFold(r rune) bool {
	_, ok := multiFolds[r]
	return ok
}

// FoldExpand returns a non-capturing alternation matching every case
// variant of r, for use under case-insensitive matching. Callers gate on
// HasMultiFold; a rune without a multi-character fold yields "".
func FoldExpand(r rune) string {
	variants, ok := multiFolds[r]
	if !ok {
		return ""
	}
	return "(?:" + strings.Join(variants, "|") + ")"
}
