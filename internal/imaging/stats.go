package imaging

import "github.com/ironsheep/canny-edge-mcp/internal/canny"

// EdgeStats summarizes a stage output raster.
type EdgeStats struct {
	// EdgePixels counts pixels with any non-zero colour channel.
	EdgePixels int `json:"edge_pixels"`

	TotalPixels int `json:"total_pixels"`

	// Density is EdgePixels/TotalPixels, 0 for an empty raster.
	Density float64 `json:"density"`

	// MaxValue is the largest red-channel value, unclamped.
	MaxValue float64 `json:"max_value"`
}

// ComputeEdgeStats scans a 4-channel raster.
func ComputeEdgeStats(r *canny.Raster) EdgeStats {
	var s EdgeStats
	s.TotalPixels = r.Width * r.Height
	for i := 0; i+2 < len(r.Pix); i += r.Channels {
		if r.Pix[i] != 0 || r.Pix[i+1] != 0 || r.Pix[i+2] != 0 {
			s.EdgePixels++
		}
		if r.Pix[i] > s.MaxValue {
			s.MaxValue = r.Pix[i]
		}
	}
	if s.TotalPixels > 0 {
		s.Density = float64(s.EdgePixels) / float64(s.TotalPixels)
	}
	return s
}
