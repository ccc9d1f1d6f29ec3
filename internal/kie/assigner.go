package kie

import (
	"regexp"
	"strings"

	"github.com/MeKo-Tech/kielabel/internal/labelfile"
)

// inlineSeparators are trimmed from both ends of an inline value.
const inlineSeparators = ":：/\\-| "

// Source tells how an assigned value was found.
type Source int

const (
	// SourceCandidate is a value box to the right of the label.
	SourceCandidate Source = iota
	// SourceInline is text left over inside the label box itself.
	SourceInline
)

func (s Source) String() string {
	if s == SourceInline {
		return "inline"
	}
	return "candidate"
}

// Assignment is one emitted value.
type Assignment struct {
	Key    string
	Text   string
	Box    Box
	Source Source
}

// Item converts the assignment into an output annotation item.
func (a Assignment) Item() labelfile.Item {
	return labelfile.NewItem(a.Text, a.Box.Polygon(), a.Key)
}

// Result is the outcome of assigning one record.
type Result struct {
	Record      labelfile.Record
	Assignments []Assignment
	// Skipped holds the items that could not be turned into boxes.
	Skipped []error
}

// CountBySource returns how many assignments came from the given source.
func (r Result) CountBySource(s Source) int {
	n := 0
	for _, a := range r.Assignments {
		if a.Source == s {
			n++
		}
	}
	return n
}

// Assigner runs the catalogue over records. It holds no per-record state and
// is safe to reuse.
type Assigner struct {
	cat  *CompiledCatalogue
	opts ResolveOptions
}

// NewAssigner returns an Assigner for a compiled catalogue.
func NewAssigner(cat *CompiledCatalogue, opts ResolveOptions) *Assigner {
	return &Assigner{cat: cat, opts: opts}
}

// AssignRecord builds boxes for rec, resolves every field spec in catalogue
// order and returns a new record holding only the assigned values, sorted in
// reading order. rec is not modified.
func (a *Assigner) AssignRecord(rec labelfile.Record) Result {
	boxes, skipped := BuildBoxes(rec.Items)
	assignments := a.AssignBoxes(boxes)

	items := make([]labelfile.Item, len(assignments))
	for i, as := range assignments {
		items[i] = as.Item()
	}
	SortReadingOrder(items)

	return Result{
		Record:      labelfile.Record{Image: rec.Image, Items: items},
		Assignments: assignments,
		Skipped:     skipped,
	}
}

// AssignBoxes resolves every field spec against boxes. Assignments are
// returned in catalogue order.
func (a *Assigner) AssignBoxes(boxes []Box) []Assignment {
	flags := LabelFlags(boxes, a.cat.AllPatterns())
	var out []Assignment
	for _, spec := range a.cat.Specs() {
		out = append(out, a.assignField(spec, boxes, flags)...)
	}
	return out
}

func (a *Assigner) assignField(spec CompiledSpec, boxes []Box, flags map[int]bool) []Assignment {
	label, ok := FindLabelBox(boxes, spec.Patterns)
	if !ok {
		return nil
	}

	candidates := ResolveCandidates(label, boxes, flags, a.opts)
	if len(candidates) > 0 {
		n := min(len(candidates), len(spec.ValueKeys))
		out := make([]Assignment, 0, n)
		for i := range n {
			out = append(out, Assignment{
				Key:    spec.ValueKeys[i],
				Text:   candidates[i].Text,
				Box:    candidates[i],
				Source: SourceCandidate,
			})
		}
		return out
	}

	value := ExtractInlineValue(label.Text, spec.Patterns)
	if value == "" {
		return nil
	}
	return []Assignment{{Key: spec.ValueKeys[0], Text: value, Box: label, Source: SourceInline}}
}

// ExtractInlineValue removes the first matching pattern's span from the
// normalized text and trims separators from what is left. The first pattern
// that matches decides the result, even when nothing is left over.
func ExtractInlineValue(text string, patterns []*regexp.Regexp) string {
	norm := Normalize(text)
	for _, p := range patterns {
		loc := p.FindStringIndex(norm)
		if loc == nil {
			continue
		}
		leftover := norm[:loc[0]] + norm[loc[1]:]
		return strings.Trim(strings.TrimSpace(leftover), inlineSeparators)
	}
	return ""
}
