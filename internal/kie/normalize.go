package kie

import (
	"regexp"
	"strings"
	"unicode"
)

// enumPrefix matches one leading enumeration marker such as "1.", "2、" or "3）".
var enumPrefix = regexp.MustCompile(`^\p{Nd}+[\s\p{Z}]*[.、)）:：][\s\p{Z}]*`)

// Normalize canonicalizes text for matching: surrounding whitespace is
// trimmed, a single leading enumeration marker is removed, and every remaining
// whitespace rune (including U+3000) is dropped. Nothing else is changed.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	t := strings.TrimFunc(text, unicode.IsSpace)
	if loc := enumPrefix.FindStringIndex(t); loc != nil {
		t = t[loc[1]:]
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, t)
}
