package kie

import (
	"regexp"
	"sort"
)

func matchesAny(norm string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(norm) {
			return true
		}
	}
	return false
}

// IsLabel reports whether the box's normalized text matches any pattern.
func IsLabel(b Box, patterns []*regexp.Regexp) bool {
	return matchesAny(Normalize(b.Text), patterns)
}

// LabelFlags computes, once per record, which boxes are labels of any field.
// A flagged box is never a value candidate, whichever field is being resolved.
func LabelFlags(boxes []Box, all []*regexp.Regexp) map[int]bool {
	flags := make(map[int]bool, len(boxes))
	for _, b := range boxes {
		flags[b.Index] = IsLabel(b, all)
	}
	return flags
}

// MatchLabelBoxes returns the boxes matching any of patterns in reading order:
// center y ascending, then center x ascending. Ties keep input order.
func MatchLabelBoxes(boxes []Box, patterns []*regexp.Regexp) []Box {
	var matched []Box
	for _, b := range boxes {
		if IsLabel(b, patterns) {
			matched = append(matched, b)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		ci, cj := matched[i].Center(), matched[j].Center()
		if ci.Y != cj.Y {
			return ci.Y < cj.Y
		}
		return ci.X < cj.X
	})
	return matched
}

// FindLabelBox returns the first label box in reading order.
func FindLabelBox(boxes []Box, patterns []*regexp.Regexp) (Box, bool) {
	matched := MatchLabelBoxes(boxes, patterns)
	if len(matched) == 0 {
		return Box{}, false
	}
	return matched[0], true
}
