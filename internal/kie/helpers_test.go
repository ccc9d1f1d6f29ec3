package kie

import (
	"testing"

	"github.com/MeKo-Tech/kielabel/internal/labelfile"
	"github.com/stretchr/testify/require"
)

// rect returns the four-point polygon of an axis-aligned rectangle.
func rect(x0, y0, x1, y1 float64) [][]float64 {
	return [][]float64{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
}

func rectBox(t *testing.T, idx int, text string, x0, y0, x1, y1 float64) Box {
	t.Helper()
	b, err := NewBox(idx, text, rect(x0, y0, x1, y1))
	require.NoError(t, err)
	return b
}

func rectItem(text string, x0, y0, x1, y1 float64) labelfile.Item {
	return labelfile.Item{Transcription: &text, Points: rect(x0, y0, x1, y1)}
}

func keysAndTexts(items []labelfile.Item) ([]string, []string) {
	keys := make([]string, len(items))
	texts := make([]string, len(items))
	for i, it := range items {
		keys[i] = it.Key()
		texts[i] = it.Text()
	}
	return keys, texts
}
