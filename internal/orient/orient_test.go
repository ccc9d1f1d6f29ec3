package orient

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/MeKo-Tech/kielabel/internal/testutil"
	"github.com/MeKo-Tech/kielabel/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixImageAppliesOrientation(t *testing.T) {
	path := filepath.Join(testutil.CreateTempDir(t), "a.jpg")
	testutil.SaveOrientedJPEG(t, testutil.CreateMarkedImage(40, 20), path, 6)

	require.NoError(t, FixImage(path, DefaultOptions()))

	img, err := testutil.LoadImageFile(path)
	require.NoError(t, err)
	assert.Equal(t, 20, img.Bounds().Dx(), "pixels are rotated")
	assert.Equal(t, 40, img.Bounds().Dy())

	// The tag is gone, so a second pass changes nothing.
	require.NoError(t, FixImage(path, DefaultOptions()))
	again, err := testutil.LoadImageFile(path)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), again.Bounds())
}

func TestFixImagePNG(t *testing.T) {
	path := filepath.Join(testutil.CreateTempDir(t), "a.png")
	testutil.SaveImage(t, testutil.CreateMarkedImage(30, 10), path)

	require.NoError(t, FixImage(path, DefaultOptions()))
	img, err := testutil.LoadImageFile(path)
	require.NoError(t, err)
	assert.Equal(t, 30, img.Bounds().Dx())
}

func TestFixImageCorrupt(t *testing.T) {
	path := filepath.Join(testutil.CreateTempDir(t), "bad.jpg")
	require.NoError(t, os.WriteFile(path, []byte("not a jpeg"), 0o600))

	err := FixImage(path, DefaultOptions())
	var imgErr *utils.ImageError
	require.True(t, errors.As(err, &imgErr))
	assert.Equal(t, "decode", imgErr.Operation)
	assert.Equal(t, path, imgErr.Path)
}

func TestDir(t *testing.T) {
	root := testutil.CreateTempDir(t)
	testutil.SaveOrientedJPEG(t, testutil.CreateMarkedImage(40, 20), filepath.Join(root, "a.JPG"), 8)
	testutil.SaveImage(t, testutil.CreateMarkedImage(10, 10), filepath.Join(root, "sub", "b.png"))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "c.jpeg"), []byte("junk"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Label.txt"), []byte("a\t[]\n"), 0o600))

	var seen []FileResult
	sum, err := Dir(context.Background(), root, DefaultOptions(), func(r FileResult) { seen = append(seen, r) })
	require.NoError(t, err)
	assert.Equal(t, Summary{OK: 2, Failed: 1}, sum)
	assert.Len(t, seen, 3)

	data, err := os.ReadFile(filepath.Join(root, "Label.txt"))
	require.NoError(t, err)
	assert.Equal(t, "a\t[]\n", string(data), "other files are untouched")
}

func TestDirNonRecursive(t *testing.T) {
	root := testutil.CreateTempDir(t)
	testutil.SaveImage(t, testutil.CreateMarkedImage(10, 10), filepath.Join(root, "a.png"))
	testutil.SaveImage(t, testutil.CreateMarkedImage(10, 10), filepath.Join(root, "sub", "b.png"))

	opts := DefaultOptions()
	opts.Recursive = false
	sum, err := Dir(context.Background(), root, opts, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.OK)
}

func TestDirCancelled(t *testing.T) {
	root := testutil.CreateTempDir(t)
	testutil.SaveImage(t, testutil.CreateMarkedImage(10, 10), filepath.Join(root, "a.png"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Dir(ctx, root, DefaultOptions(), nil)
	assert.ErrorIs(t, err, context.Canceled)
}
