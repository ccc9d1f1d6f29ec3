// Package overlay draws assigned key classes over their images for review.
package overlay

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/MeKo-Tech/kielabel/internal/labelfile"
	"github.com/MeKo-Tech/kielabel/internal/utils"
	"github.com/disintegration/imaging"
)

// Options controls rendering and output placement.
type Options struct {
	OutputDir string
	// ImageRoot is the directory image identifiers are relative to. Empty
	// means the parent of the label file's directory, the PPOCRLabel layout.
	ImageRoot string
	BoxColor  color.Color
	FontColor color.Color
	Thickness int
	// SkipUnkeyed leaves items without key_cls undrawn.
	SkipUnkeyed bool
}

// DefaultOptions draws red outlines with blue captions.
func DefaultOptions() Options {
	return Options{
		OutputDir: "overlays",
		BoxColor:  color.RGBA{255, 0, 0, 255},
		FontColor: color.RGBA{0, 0, 255, 255},
		Thickness: 2,
	}
}

// Stats counts a rendering pass.
type Stats struct {
	Rendered int
	Failed   int
	Skipped  int
}

// Render returns a copy of img with every item's polygon and caption drawn.
// The caption is the key class, followed by the text when one is present.
func Render(img image.Image, rec labelfile.Record, opts Options) *image.RGBA {
	dst := utils.ToRGBA(img)
	for _, it := range rec.Items {
		if opts.SkipUnkeyed && it.KeyCls == nil {
			continue
		}
		pts := make([]utils.Point, 0, len(it.Points))
		for _, p := range it.Points {
			if len(p) >= 2 {
				pts = append(pts, utils.Point{X: p[0], Y: p[1]})
			}
		}
		if len(pts) == 0 {
			continue
		}
		utils.DrawPolygon(dst, pts, opts.BoxColor, opts.Thickness)
		bb := utils.BoundingBox(pts)
		utils.DrawCaption(dst, utils.Point{X: bb.MinX, Y: bb.MinY}, caption(it), opts.FontColor)
	}
	return dst
}

// caption keeps to ASCII; the bitmap face has no CJK glyphs.
func caption(it labelfile.Item) string {
	key := it.Key()
	text := it.Text()
	ascii := strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e {
			return -1
		}
		return r
	}, text)
	if ascii == "" {
		return key
	}
	return key + " " + ascii
}

// imageRoot resolves the base directory for image identifiers.
func imageRoot(labelPath string, opts Options) string {
	if opts.ImageRoot != "" {
		return opts.ImageRoot
	}
	return filepath.Dir(filepath.Dir(labelPath))
}

// OutputName returns the overlay file name for an image identifier.
func OutputName(image string) string {
	base := filepath.Base(filepath.FromSlash(image))
	return strings.TrimSuffix(base, filepath.Ext(base)) + "_kie.png"
}

// File renders every record of the label file at labelPath into
// opts.OutputDir. Missing or unreadable images are logged and counted.
func File(labelPath string, opts Options) (Stats, error) {
	var st Stats
	lines, err := labelfile.ReadAll(labelPath)
	if err != nil {
		return st, err
	}
	if err := os.MkdirAll(opts.OutputDir, 0o750); err != nil {
		return st, fmt.Errorf("create output directory: %w", err)
	}

	root := imageRoot(labelPath, opts)
	for _, line := range lines {
		if line.Blank() || line.Err != nil {
			st.Skipped++
			continue
		}
		rec := line.Record
		imgPath := filepath.Join(root, filepath.FromSlash(rec.Image))
		img, err := utils.LoadImage(imgPath, false)
		if err != nil {
			st.Failed++
			slog.Warn("cannot load image for overlay", "image", rec.Image, "path", imgPath, "error", err)
			continue
		}
		out := filepath.Join(opts.OutputDir, OutputName(rec.Image))
		if err := imaging.Save(Render(img, rec, opts), out); err != nil {
			st.Failed++
			slog.Warn("cannot save overlay", "path", out, "error", err)
			continue
		}
		st.Rendered++
		slog.Debug("overlay written", "image", rec.Image, "path", out, "items", len(rec.Items))
	}
	return st, nil
}

// ParseHexColor parses "#rrggbb" or "rrggbb".
func ParseHexColor(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil //nolint:gosec // G115: masked to 8 bits
}
