package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Annotation is a label file item as written by PPOCRLabel.
type Annotation struct {
	Transcription string      `json:"transcription"`
	Points        [][]float64 `json:"points"`
	Difficult     bool        `json:"difficult"`
	KeyCls        string      `json:"key_cls,omitempty"`
}

// Rect returns the four corners of an axis-aligned rectangle.
func Rect(x0, y0, x1, y1 float64) [][]float64 {
	return [][]float64{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
}

// Box is shorthand for an unlabelled rectangular annotation.
func Box(text string, x0, y0, x1, y1 float64) Annotation {
	return Annotation{Transcription: text, Points: Rect(x0, y0, x1, y1)}
}

// Keyed is shorthand for a rectangular annotation carrying key_cls.
func Keyed(key, text string, x0, y0, x1, y1 float64) Annotation {
	return Annotation{Transcription: text, Points: Rect(x0, y0, x1, y1), KeyCls: key}
}

// LabelLine renders "<image>\t<JSON array>" without HTML escaping.
func LabelLine(t *testing.T, image string, items ...Annotation) string {
	t.Helper()
	if items == nil {
		items = []Annotation{}
	}
	var sb strings.Builder
	enc := json.NewEncoder(&sb)
	enc.SetEscapeHTML(false)
	require.NoError(t, enc.Encode(items))
	return image + "\t" + strings.TrimRight(sb.String(), "\n")
}

// WriteLabelFile writes lines, newline terminated, to dir/name and returns the path.
func WriteLabelFile(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, EnsureDir(filepath.Dir(path)))
	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// ReadLines returns the non-empty lines of a file.
func ReadLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path) //nolint:gosec // G304: test file path
	require.NoError(t, err)
	var out []string
	for _, l := range strings.Split(string(data), "\n") {
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

// CertificateLine is a typical record of a vehicle conformity certificate.
func CertificateLine(t *testing.T, image string) string {
	t.Helper()
	return LabelLine(t, image,
		Box("1.合格证编号", 0, 0, 100, 20),
		Box("WAB0123456789", 110, 2, 260, 18),
		Box("燃料种类：汽油", 0, 40, 140, 60),
		Box("外廓尺寸", 0, 80, 80, 100),
		Box("4750", 100, 80, 140, 100),
		Box("1820", 160, 80, 200, 100),
		Box("1475", 220, 80, 260, 100),
	)
}
