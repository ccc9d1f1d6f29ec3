// Package fix applies in-place corrections to label files written by the
// annotation tool.
package fix

import (
	"strings"

	"github.com/MeKo-Tech/kielabel/internal/labelfile"
)

// Stats counts what a fix did to one file.
type Stats struct {
	Records     int
	Changed     int
	PassThrough int
	Dropped     int
}

// ClearDifficultRecord sets every difficult=true item of rec to false and
// returns how many items changed.
func ClearDifficultRecord(rec *labelfile.Record) int {
	changed := 0
	for i := range rec.Items {
		it := &rec.Items[i]
		if it.Difficult != nil && *it.Difficult {
			it.SetDifficult(false)
			changed++
		}
	}
	return changed
}

// ClearDifficult rewrites the label file at path with every difficult flag
// cleared. Lines that do not parse, blank ones included, are kept verbatim.
func ClearDifficult(path string) (Stats, error) {
	var st Stats
	err := labelfile.Rewrite(path, func(l labelfile.Line) (string, bool, error) {
		if l.Blank() || l.Err != nil {
			st.PassThrough++
			return l.Raw, true, nil
		}
		rec := l.Record
		st.Records++
		st.Changed += ClearDifficultRecord(&rec)
		out, err := labelfile.FormatLine(rec)
		return out, true, err
	})
	return st, err
}

// PlaceholderOptions selects the items whose dash-like transcription is
// replaced.
type PlaceholderOptions struct {
	TargetKeys  []string
	Glyphs      []string
	Replacement string
}

// DefaultPlaceholderOptions covers the fields that are often printed as a
// single dash on the certificate.
func DefaultPlaceholderOptions() PlaceholderOptions {
	return PlaceholderOptions{
		TargetKeys:  []string{"vc_displace", "vc_emission_standard", "vc_carrying_num"},
		Glyphs:      []string{"一", "—", "－", "–", "-"},
		Replacement: "-",
	}
}

// Placeholder normalizes dash placeholders.
type Placeholder struct {
	opts   PlaceholderOptions
	keys   map[string]bool
	glyphs map[string]bool
}

// NewPlaceholder returns a Placeholder for opts.
func NewPlaceholder(opts PlaceholderOptions) *Placeholder {
	p := &Placeholder{opts: opts, keys: make(map[string]bool), glyphs: make(map[string]bool)}
	for _, k := range opts.TargetKeys {
		p.keys[k] = true
	}
	for _, g := range opts.Glyphs {
		p.glyphs[g] = true
	}
	return p
}

// FixRecord replaces placeholder transcriptions in rec and returns how many
// items changed. An item already holding the replacement is not counted.
func (p *Placeholder) FixRecord(rec *labelfile.Record) int {
	changed := 0
	for i := range rec.Items {
		it := &rec.Items[i]
		if !p.keys[it.Key()] || it.Transcription == nil {
			continue
		}
		text := *it.Transcription
		if !p.glyphs[strings.TrimSpace(text)] {
			continue
		}
		if text != p.opts.Replacement {
			changed++
		}
		it.SetTranscription(p.opts.Replacement)
	}
	return changed
}

// FixFile rewrites the label file at path. Blank lines and lines without a
// TAB are dropped; lines with an undecodable payload are kept verbatim.
func (p *Placeholder) FixFile(path string) (Stats, error) {
	var st Stats
	err := labelfile.Rewrite(path, func(l labelfile.Line) (string, bool, error) {
		if l.Blank() || !l.HasSeparator() {
			st.Dropped++
			return "", false, nil
		}
		if l.Err != nil {
			st.PassThrough++
			return l.Raw, true, nil
		}
		rec := l.Record
		st.Records++
		st.Changed += p.FixRecord(&rec)
		out, err := labelfile.FormatLine(rec)
		return out, true, err
	})
	return st, err
}
