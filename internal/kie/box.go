package kie

import (
	"errors"
	"fmt"

	"github.com/MeKo-Tech/kielabel/internal/labelfile"
	"github.com/MeKo-Tech/kielabel/internal/utils"
)

// ErrDegeneratePolygon is returned for an item without usable coordinates.
var ErrDegeneratePolygon = errors.New("degenerate polygon")

// Box is one detected text region. The bounding geometry is derived from the
// polygon when the box is built; the polygon cannot be changed afterwards.
type Box struct {
	// Index is the position of the item in the record's annotation array.
	Index int
	// Text is the raw transcription.
	Text string

	polygon [][]float64
	bounds  utils.Box
}

// NewBox builds a Box from raw polygon points. Every point needs at least two
// coordinates; extra coordinates are ignored for geometry but kept on output.
func NewBox(index int, text string, points [][]float64) (Box, error) {
	if len(points) == 0 {
		return Box{}, fmt.Errorf("%w: no points", ErrDegeneratePolygon)
	}
	pts := make([]utils.Point, len(points))
	for i, p := range points {
		if len(p) < 2 {
			return Box{}, fmt.Errorf("%w: point %d has %d coordinates", ErrDegeneratePolygon, i, len(p))
		}
		pts[i] = utils.Point{X: p[0], Y: p[1]}
	}
	return Box{
		Index:   index,
		Text:    text,
		polygon: clonePolygon(points),
		bounds:  utils.BoundingBox(pts),
	}, nil
}

// Polygon returns a copy of the box outline.
func (b Box) Polygon() [][]float64 { return clonePolygon(b.polygon) }

// Bounds returns the axis-aligned envelope of the polygon.
func (b Box) Bounds() utils.Box { return b.bounds }

// Center returns the midpoint of the bounding box.
func (b Box) Center() utils.Point { return b.bounds.Center() }

// Width returns the bounding box width.
func (b Box) Width() float64 { return b.bounds.Width() }

// Height returns the bounding box height.
func (b Box) Height() float64 { return b.bounds.Height() }

// ItemError reports an annotation item that could not become a Box.
type ItemError struct {
	Index int
	Err   error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %d: %v", e.Index, e.Err)
}

func (e *ItemError) Unwrap() error { return e.Err }

// BuildBoxes converts annotation items into boxes. Items that fail are left
// out and reported; the rest keep their original index.
func BuildBoxes(items []labelfile.Item) ([]Box, []error) {
	boxes := make([]Box, 0, len(items))
	var errs []error
	for i, it := range items {
		b, err := NewBox(i, it.Text(), it.Points)
		if err != nil {
			errs = append(errs, &ItemError{Index: i, Err: err})
			continue
		}
		boxes = append(boxes, b)
	}
	return boxes, errs
}

func clonePolygon(points [][]float64) [][]float64 {
	out := make([][]float64, len(points))
	for i, p := range points {
		out[i] = append([]float64(nil), p...)
	}
	return out
}
