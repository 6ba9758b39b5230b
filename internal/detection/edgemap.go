package detection

import "github.com/ironsheep/canny-edge-mcp/internal/canny"

// Point is a pixel coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Bounds is a bounding box; X2 and Y2 are exclusive.
type Bounds struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// EdgeMap is a row-major boolean edge image.
type EdgeMap struct {
	Width  int
	Height int
	On     []bool
}

// NewEdgeMap allocates an empty EdgeMap.
func NewEdgeMap(width, height int) *EdgeMap {
	return &EdgeMap{Width: width, Height: height, On: make([]bool, width*height)}
}

// FromRaster marks every pixel whose red channel is non-zero.
func FromRaster(r *canny.Raster) *EdgeMap {
	m := NewEdgeMap(r.Width, r.Height)
	for i := range m.On {
		m.On[i] = r.Pix[i*r.Channels] != 0
	}
	return m
}

// At reports whether (x, y) is an edge pixel. Coordinates outside the map
// are never edges.
func (m *EdgeMap) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.On[y*m.Width+x]
}

// Set marks (x, y) as an edge pixel.
func (m *EdgeMap) Set(x, y int) {
	m.On[y*m.Width+x] = true
}

// Count returns the number of edge pixels.
func (m *EdgeMap) Count() int {
	n := 0
	for _, on := range m.On {
		if on {
			n++
		}
	}
	return n
}
