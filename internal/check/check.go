// Package check validates key_cls annotations in a label file: unknown keys,
// keys assigned twice, and values left unrecognized.
package check

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/MeKo-Tech/kielabel/internal/labelfile"
	"github.com/MeKo-Tech/kielabel/internal/metrics"
)

// Reason kinds.
const (
	KindInvalidKey   = "invalid_key"
	KindDuplicateKey = "duplicate_key"
	KindDuplicate    = "duplicate_same"
	KindUnrecognized = "unrecognized_value"
	KindInvalidJSON  = "invalid_json"
)

// DefaultAllowedKeys are the key classes annotators may use.
var DefaultAllowedKeys = []string{
	"vc_no", "vc_issue_date", "vc_manu_enterprise", "vc_brands", "vc_type",
	"vc_model_no", "vc_vin", "vc_color", "vc_engineno", "vc_fuel",
	"vc_displace", "vc_power", "vc_emission_standard", "vc_tyre_size", "vc_wheelbase",
	"vc_totalw", "vc_curbw", "vc_carrying_num", "vc_manu_date", "vc_manu_addr",
}

// DefaultUnrecognizedTexts mark a value the annotator could not read.
var DefaultUnrecognizedTexts = []string{"待识别", ""}

// Options controls a validation run.
type Options struct {
	AllowedKeys       []string
	UnrecognizedTexts []string
	// AllowNone skips items without a key class.
	AllowNone bool
	// Dedup drops repeated (key_cls, transcription) pairs and rewrites the file.
	Dedup bool
}

// DefaultOptions returns the standard allow-list and placeholder texts.
func DefaultOptions() Options {
	return Options{
		AllowedKeys:       append([]string(nil), DefaultAllowedKeys...),
		UnrecognizedTexts: append([]string(nil), DefaultUnrecognizedTexts...),
	}
}

// Reason is one finding for an image. Key is empty for invalid_json.
type Reason struct {
	Kind string
	Key  string
}

func (r Reason) String() string {
	if r.Key == "" && r.Kind == KindInvalidJSON {
		return r.Kind
	}
	return r.Kind + ":" + r.Key
}

// Problem lists the distinct findings of one record, sorted.
type Problem struct {
	Image   string
	Line    int
	Reasons []Reason
}

// Report is the outcome of checking one file.
type Report struct {
	Path      string
	Records   int
	Problems  []Problem
	Rewritten bool
	Removed   int
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// Checker validates records against a fixed set of options.
type Checker struct {
	opts         Options
	allowed      map[string]bool
	unrecognized map[string]bool
}

// NewChecker returns a Checker for opts.
func NewChecker(opts Options) *Checker {
	return &Checker{
		opts:         opts,
		allowed:      toSet(opts.AllowedKeys),
		unrecognized: toSet(opts.UnrecognizedTexts),
	}
}

func transcription(it labelfile.Item) string {
	if it.Transcription == nil {
		return ""
	}
	return strings.TrimSpace(*it.Transcription)
}

// CheckRecord returns the sorted, distinct findings for rec together with
// the items that survive deduplication (all items when Dedup is off).
func (c *Checker) CheckRecord(rec labelfile.Record) ([]Reason, []labelfile.Item) {
	var reasons []Reason
	values := make(map[string]map[string]int)
	var order []string
	kept := make([]labelfile.Item, 0, len(rec.Items))
	seen := make(map[[2]string]bool)

	for _, it := range rec.Items {
		key := it.Key()
		text := transcription(it)
		if c.opts.Dedup {
			pair := [2]string{key, text}
			if seen[pair] {
				continue
			}
			seen[pair] = true
		}
		kept = append(kept, it)

		if key == labelfile.KeyNone && c.opts.AllowNone {
			continue
		}
		if key != labelfile.KeyNone {
			if !c.allowed[key] {
				reasons = append(reasons, Reason{Kind: KindInvalidKey, Key: key})
			}
			if values[key] == nil {
				values[key] = make(map[string]int)
				order = append(order, key)
			}
			values[key][text]++
		}
		if c.unrecognized[text] {
			reasons = append(reasons, Reason{Kind: KindUnrecognized, Key: key})
		}
	}

	for _, key := range order {
		counts := values[key]
		if len(counts) > 1 {
			reasons = append(reasons, Reason{Kind: KindDuplicateKey, Key: key})
			continue
		}
		for _, n := range counts {
			if n > 1 {
				reasons = append(reasons, Reason{Kind: KindDuplicate, Key: key})
			}
		}
	}
	return uniqueSorted(reasons), kept
}

func uniqueSorted(reasons []Reason) []Reason {
	if len(reasons) == 0 {
		return nil
	}
	sort.Slice(reasons, func(i, j int) bool { return reasons[i].String() < reasons[j].String() })
	out := reasons[:1]
	for _, r := range reasons[1:] {
		if r != out[len(out)-1] {
			out = append(out, r)
		}
	}
	return out
}

// CheckFile validates every record of the label file at path. Lines without
// a TAB are ignored; undecodable payloads are reported as invalid_json. With
// Dedup set, the file is rewritten with the deduplicated records when at
// least one line parsed and something was dropped. A clean file is left
// untouched so that watchers do not see a write.
func (c *Checker) CheckFile(path string, rec *metrics.Recorder) (*Report, error) {
	lines, err := labelfile.ReadAll(path)
	if err != nil {
		return nil, err
	}

	report := &Report{Path: path}
	var out []labelfile.Record
	removed, dropped := 0, 0
	for _, line := range lines {
		if line.Blank() {
			continue
		}
		if line.Err != nil {
			dropped++
			if errors.Is(line.Err, labelfile.ErrMalformedPayload) {
				image, _, _ := strings.Cut(line.Raw, labelfile.Separator)
				report.Problems = append(report.Problems, Problem{
					Image: image, Line: line.Number, Reasons: []Reason{{Kind: KindInvalidJSON}},
				})
				observe(rec, KindInvalidJSON)
			}
			continue
		}

		report.Records++
		reasons, kept := c.CheckRecord(line.Record)
		removed += len(line.Record.Items) - len(kept)
		if len(reasons) > 0 {
			report.Problems = append(report.Problems, Problem{Image: line.Record.Image, Line: line.Number, Reasons: reasons})
			for _, r := range reasons {
				observe(rec, r.Kind)
			}
		}
		out = append(out, labelfile.Record{Image: line.Record.Image, Items: kept})
	}

	if c.opts.Dedup && len(out) > 0 && removed+dropped > 0 {
		if err := labelfile.WriteRecords(path, out); err != nil {
			return report, fmt.Errorf("rewrite %s: %w", path, err)
		}
		report.Rewritten = true
		report.Removed = removed
		if rec != nil {
			rec.ObserveRewrite("check")
		}
	}
	return report, nil
}

func observe(rec *metrics.Recorder, kind string) {
	if rec != nil {
		rec.ObserveProblem(kind)
	}
}
