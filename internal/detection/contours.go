package detection

import (
	"math"
	"sort"
)

// Contour is one 8-connected group of edge pixels.
type Contour struct {
	Bounds Bounds `json:"bounds"`
	Center Point  `json:"center"`

	// Pixels is the number of edge pixels in the group.
	Pixels int `json:"pixels"`

	// Rectangularity compares Pixels with the outline length of Bounds:
	// 1 - |Pixels - perimeter| / perimeter, floored at 0. A one-pixel-wide
	// axis-aligned rectangle outline scores close to 1.
	Rectangularity float64 `json:"rectangularity"`
}

// ContoursResult lists contours largest first.
type ContoursResult struct {
	Contours []Contour `json:"contours"`
	Count    int       `json:"count"`
}

// FindContours groups connected edge pixels and drops groups smaller than
// minPixels. Values below 1 keep every group.
func FindContours(m *EdgeMap, minPixels int) *ContoursResult {
	visited := make([]bool, len(m.On))
	contours := make([]Contour, 0)

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			i := y*m.Width + x
			if !m.On[i] || visited[i] {
				continue
			}
			c := trace(m, visited, x, y)
			if c.Pixels >= minPixels {
				contours = append(contours, c)
			}
		}
	}

	sort.SliceStable(contours, func(i, j int) bool {
		return contours[i].Pixels > contours[j].Pixels
	})
	return &ContoursResult{Contours: contours, Count: len(contours)}
}

// trace flood-fills from (x, y) with an explicit stack.
func trace(m *EdgeMap, visited []bool, x, y int) Contour {
	b := Bounds{X1: x, Y1: y, X2: x + 1, Y2: y + 1}
	var sumX, sumY, n int

	stack := []Point{{X: x, Y: y}}
	visited[y*m.Width+x] = true
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n++
		sumX += p.X
		sumY += p.Y
		b.X1, b.Y1 = min(b.X1, p.X), min(b.Y1, p.Y)
		b.X2, b.Y2 = max(b.X2, p.X+1), max(b.Y2, p.Y+1)

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := p.X+dx, p.Y+dy
				if !m.At(nx, ny) || visited[ny*m.Width+nx] {
					continue
				}
				visited[ny*m.Width+nx] = true
				stack = append(stack, Point{X: nx, Y: ny})
			}
		}
	}

	return Contour{
		Bounds:         b,
		Center:         Point{X: sumX / n, Y: sumY / n},
		Pixels:         n,
		Rectangularity: rectangularity(n, b),
	}
}

func rectangularity(pixels int, b Bounds) float64 {
	w, h := b.X2-b.X1, b.Y2-b.Y1
	perimeter := 2*(w+h) - 4
	if w == 1 || h == 1 {
		perimeter = w * h
	}
	score := 1 - math.Abs(float64(pixels-perimeter))/float64(perimeter)
	return math.Round(max(score, 0)*1000) / 1000
}
