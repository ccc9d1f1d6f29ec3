package testutil

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
)

// CreateTestImage creates a simple test image with a solid background.
func CreateTestImage(width, height int, backgroundColor color.Color) *image.NRGBA {
	return imaging.New(width, height, backgroundColor)
}

// CreateMarkedImage returns a white image with a black square in its top-left
// corner, so rotations can be told apart.
func CreateMarkedImage(width, height int) *image.NRGBA {
	img := imaging.New(width, height, color.White)
	for y := 0; y < height/4; y++ {
		for x := 0; x < width/4; x++ {
			img.Set(x, y, color.Black)
		}
	}
	return img
}

// SaveImage saves an image as PNG to the specified path.
func SaveImage(t *testing.T, img image.Image, path string) {
	t.Helper()

	require.NoError(t, EnsureDir(filepath.Dir(path)))
	file, err := os.Create(path) //nolint:gosec // G304: Test file creation with controlled path
	require.NoError(t, err, "Failed to create file %s", path)
	defer func() {
		require.NoError(t, file.Close())
	}()

	require.NoError(t, png.Encode(file, img), "Failed to encode PNG image")
}

// SaveOrientedJPEG writes img as a JPEG carrying an EXIF orientation tag
// (1-8). The pixels are stored as given; viewers rotate them on display.
func SaveOrientedJPEG(t *testing.T, img image.Image, path string, orientation uint16) {
	t.Helper()
	require.NoError(t, WriteOrientedJPEG(img, path, orientation))
}

// WriteOrientedJPEG is SaveOrientedJPEG for callers without a *testing.T.
func WriteOrientedJPEG(img image.Image, path string, orientation uint16) error {
	var encoded bytes.Buffer
	if err := jpeg.Encode(&encoded, img, &jpeg.Options{Quality: 95}); err != nil {
		return err
	}
	data := encoded.Bytes()
	if len(data) < 2 || data[0] != 0xFF || data[1] != 0xD8 {
		return errors.New("missing JPEG SOI marker")
	}

	var out bytes.Buffer
	out.Write(data[:2])
	out.Write(exifOrientationSegment(orientation))
	out.Write(data[2:])

	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	return os.WriteFile(path, out.Bytes(), 0o600)
}

// exifOrientationSegment builds an APP1 segment with a single-entry IFD0.
func exifOrientationSegment(orientation uint16) []byte {
	var tiff bytes.Buffer
	be := binary.BigEndian
	tiff.WriteString("MM")
	_ = binary.Write(&tiff, be, uint16(42))
	_ = binary.Write(&tiff, be, uint32(8)) // IFD0 offset
	_ = binary.Write(&tiff, be, uint16(1)) // entry count
	_ = binary.Write(&tiff, be, uint16(0x0112))
	_ = binary.Write(&tiff, be, uint16(3)) // SHORT
	_ = binary.Write(&tiff, be, uint32(1))
	_ = binary.Write(&tiff, be, orientation)
	_ = binary.Write(&tiff, be, uint16(0))
	_ = binary.Write(&tiff, be, uint32(0)) // no next IFD

	payload := append([]byte("Exif\x00\x00"), tiff.Bytes()...)
	seg := []byte{0xFF, 0xE1, 0, 0}
	be.PutUint16(seg[2:], uint16(len(payload)+2)) //nolint:gosec // G115: fixed small segment
	return append(seg, payload...)
}

// LoadImageFile loads an image without applying EXIF orientation.
func LoadImageFile(path string) (image.Image, error) {
	return imaging.Open(path)
}
