package utils

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDrawRectAndPolygon(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 10))
	DrawRect(img, image.Rect(2, 2, 10, 8), color.RGBA{0, 255, 0, 255}, 1)
	assert.NotEqual(t, color.RGBA{}, img.RGBAAt(2, 2), "expected top-left pixel colored")

	poly := []Point{{12, 2}, {18, 2}, {18, 8}, {12, 8}}
	DrawPolygon(img, poly, color.RGBA{0, 0, 255, 255}, 1)
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, img.RGBAAt(12, 2))
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, img.RGBAAt(18, 8))
}

func TestDrawPolygonIgnoresDegenerate(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 5, 5))
	DrawPolygon(img, []Point{{1, 1}}, color.RGBA{255, 0, 0, 255}, 1)
	assert.Equal(t, color.RGBA{}, img.RGBAAt(1, 1))
}

func TestDrawCaptionPaintsPixels(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 80, 30))
	DrawCaption(img, Point{X: 2, Y: 20}, "vc_no", color.RGBA{255, 0, 0, 255})

	painted := 0
	for y := 0; y < 30; y++ {
		for x := 0; x < 80; x++ {
			if img.RGBAAt(x, y).R > 0 {
				painted++
			}
		}
	}
	assert.Positive(t, painted)
}
