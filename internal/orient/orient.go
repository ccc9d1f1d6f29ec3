// Package orient bakes EXIF orientation into image pixels so that polygon
// coordinates drawn by the annotation tool match the stored image.
package orient

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/MeKo-Tech/kielabel/internal/utils"
	"github.com/disintegration/imaging"
)

// Options controls a directory pass.
type Options struct {
	Extensions  []string
	JPEGQuality int
	Recursive   bool
}

// DefaultOptions matches the formats the annotation tool opens.
func DefaultOptions() Options {
	return Options{
		Extensions:  []string{".jpg", ".jpeg", ".png"},
		JPEGQuality: 95,
		Recursive:   true,
	}
}

// FileResult is the outcome for one image.
type FileResult struct {
	Path string
	Err  error
}

// OK reports whether the image was rewritten.
func (r FileResult) OK() bool { return r.Err == nil }

// Summary counts a directory pass.
type Summary struct {
	OK     int
	Failed int
}

// FixImage decodes path with EXIF orientation applied and re-encodes it in
// place. JPEGs are written without metadata at the configured quality; PNGs
// are re-encoded as PNG.
func FixImage(path string, opts Options) error {
	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		return &utils.ImageError{Operation: "format", Path: path, Err: err}
	}
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return &utils.ImageError{Operation: "decode", Path: path, Err: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &utils.ImageError{Operation: "encode", Path: path, Err: err}
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := imaging.Encode(tmp, img, format, imaging.JPEGQuality(opts.JPEGQuality)); err != nil {
		_ = tmp.Close()
		return &utils.ImageError{Operation: "encode", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &utils.ImageError{Operation: "encode", Path: path, Err: err}
	}
	if err := os.Chmod(tmpName, 0o644); err != nil { //nolint:gosec // G302: images are shared with the annotation tool
		return &utils.ImageError{Operation: "encode", Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		return &utils.ImageError{Operation: "replace", Path: path, Err: err}
	}
	return nil
}

// Dir fixes every matching image under root, calling report after each one.
// Per-image failures are reported and counted; only walk errors and context
// cancellation stop the pass.
func Dir(ctx context.Context, root string, opts Options, report func(FileResult)) (Summary, error) {
	var sum Summary
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if !opts.Recursive && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !utils.HasExtension(path, opts.Extensions) {
			return nil
		}

		res := FileResult{Path: path, Err: FixImage(path, opts)}
		if res.OK() {
			sum.OK++
		} else {
			sum.Failed++
		}
		if report != nil {
			report(res)
		}
		return nil
	})
	if err != nil {
		return sum, fmt.Errorf("walk %s: %w", root, err)
	}
	return sum, nil
}
