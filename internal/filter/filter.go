// Package filter strips annotations whose key class is not on a keep-list.
package filter

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/MeKo-Tech/kielabel/internal/check"
	"github.com/MeKo-Tech/kielabel/internal/labelfile"
)

// Default file names inside an annotation directory.
const (
	DefaultLabelFile = "Label.txt"
	DefaultCacheFile = "Cache.cach"
)

// Options controls which items survive.
type Options struct {
	KeepKeys  []string
	LabelFile string
	CacheFile string
}

// DefaultOptions keeps the validator's allow-list.
func DefaultOptions() Options {
	return Options{
		KeepKeys:  append([]string(nil), check.DefaultAllowedKeys...),
		LabelFile: DefaultLabelFile,
		CacheFile: DefaultCacheFile,
	}
}

// FileResult reports what happened to one file.
type FileResult struct {
	Path    string
	Missing bool
	Records int
	Kept    int
	Removed int
	Dropped int
}

// Filter removes items by key class.
type Filter struct {
	keep map[string]bool
}

// New returns a Filter keeping the given key classes.
func New(keepKeys []string) *Filter {
	f := &Filter{keep: make(map[string]bool, len(keepKeys))}
	for _, k := range keepKeys {
		f.keep[k] = true
	}
	return f
}

// Record returns rec with only the kept items and the number removed. Items
// without key_cls count as "None" and are removed unless "None" is kept.
func (f *Filter) Record(rec labelfile.Record) (labelfile.Record, int) {
	kept := make([]labelfile.Item, 0, len(rec.Items))
	for _, it := range rec.Items {
		if f.keep[it.Key()] {
			kept = append(kept, it)
		}
	}
	return labelfile.Record{Image: rec.Image, Items: kept}, len(rec.Items) - len(kept)
}

// File filters the label file at path in place. Lines that do not parse are
// dropped. A missing file is reported in the result, not as an error.
func (f *Filter) File(path string) (FileResult, error) {
	res := FileResult{Path: path}
	err := labelfile.Rewrite(path, func(l labelfile.Line) (string, bool, error) {
		if l.Blank() {
			return "", false, nil
		}
		if l.Err != nil {
			res.Dropped++
			slog.Debug("dropping unparsable line", "path", path, "line", l.Number, "reason", labelfile.ParseReason(l.Err))
			return "", false, nil
		}
		res.Records++
		out, removed := f.Record(l.Record)
		res.Removed += removed
		res.Kept += len(out.Items)
		line, err := labelfile.FormatLine(out)
		return line, true, err
	})
	if errors.Is(err, labelfile.ErrInputNotFound) {
		res.Missing = true
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("filter %s: %w", path, err)
	}
	return res, nil
}

// Dir filters the label and cache files inside dir.
func Dir(dir string, opts Options) ([]FileResult, error) {
	f := New(opts.KeepKeys)
	var results []FileResult
	for _, name := range []string{opts.LabelFile, opts.CacheFile} {
		if name == "" {
			continue
		}
		res, err := f.File(filepath.Join(dir, name))
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}
