package kie

import "sort"

const (
	// DefaultMinXGap is how far right of the label's edge a value's center must lie.
	DefaultMinXGap = 5.0
	// DefaultRowOverlap is the minimum vertical overlap, relative to the
	// shorter box, for two boxes to share a row.
	DefaultRowOverlap = 0.4
)

// ResolveOptions tunes the row and rightward tests.
type ResolveOptions struct {
	MinXGap         float64
	RowOverlapRatio float64
}

// DefaultResolveOptions returns the standard thresholds.
func DefaultResolveOptions() ResolveOptions {
	return ResolveOptions{MinXGap: DefaultMinXGap, RowOverlapRatio: DefaultRowOverlap}
}

// SameRow reports whether two boxes overlap vertically by a positive amount
// and the overlap covers at least ratio of the shorter box. A zero-height
// shorter box divides by 1.
func SameRow(a, b Box, ratio float64) bool {
	overlap := a.Bounds().VerticalOverlap(b.Bounds())
	if overlap <= 0 {
		return false
	}
	denom := min(a.Height(), b.Height())
	if denom <= 0 {
		denom = 1.0
	}
	return overlap/denom >= ratio
}

// ResolveCandidates returns the value candidates for label: boxes on the same
// row whose center lies right of label.MaxX+MinXGap, excluding the label and
// every box flagged as a label. Candidates are ordered left to right; callers
// truncate to the number of value keys.
func ResolveCandidates(label Box, boxes []Box, flags map[int]bool, opts ResolveOptions) []Box {
	limit := label.Bounds().MaxX + opts.MinXGap
	var out []Box
	for _, b := range boxes {
		if b.Index == label.Index || flags[b.Index] {
			continue
		}
		if !(b.Center().X > limit) {
			continue
		}
		if SameRow(label, b, opts.RowOverlapRatio) {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Center().X < out[j].Center().X
	})
	return out
}
