package kie

import (
	"math"
	"sort"

	"github.com/MeKo-Tech/kielabel/internal/labelfile"
)

// SortReadingOrder sorts items top to bottom by the minimum y of their
// points, then left to right by the minimum x. Ties keep their order.
func SortReadingOrder(items []labelfile.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		xi, yi := minXY(items[i].Points)
		xj, yj := minXY(items[j].Points)
		if yi != yj {
			return yi < yj
		}
		return xi < xj
	})
}

func minXY(points [][]float64) (float64, float64) {
	minX, minY := math.Inf(1), math.Inf(1)
	for _, p := range points {
		if len(p) < 2 {
			continue
		}
		minX = math.Min(minX, p[0])
		minY = math.Min(minY, p[1])
	}
	return minX, minY
}
