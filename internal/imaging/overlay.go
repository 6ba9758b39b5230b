package imaging

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/canny-edge-mcp/internal/canny"
)

// DefaultOverlayColor is used when no colour is given.
const DefaultOverlayColor = "#ff0000"

// Overlay copies base and paints every pixel whose red channel is non-zero
// in edges with a single colour given as "#rrggbb" or "#rgb". base and edges
// must have the same size.
func Overlay(base image.Image, edges *canny.Raster, hex string) (*image.NRGBA, error) {
	if hex == "" {
		hex = DefaultOverlayColor
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, fmt.Errorf("invalid overlay color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()

	bounds := base.Bounds()
	if bounds.Dx() != edges.Width || bounds.Dy() != edges.Height {
		return nil, fmt.Errorf("%w: image %dx%d vs edges %dx%d", canny.ErrDimensionMismatch,
			bounds.Dx(), bounds.Dy(), edges.Width, edges.Height)
	}

	out := image.NewNRGBA(image.Rect(0, 0, edges.Width, edges.Height))
	draw.Draw(out, out.Bounds(), base, bounds.Min, draw.Src)
	for y := 0; y < edges.Height; y++ {
		for x := 0; x < edges.Width; x++ {
			if edges.At(x, y, 0) == 0 {
				continue
			}
			o := out.PixOffset(x, y)
			out.Pix[o], out.Pix[o+1], out.Pix[o+2], out.Pix[o+3] = r, g, b, 255
		}
	}
	return out, nil
}

// EdgeOverlay runs the full pipeline and returns img with its edges painted
// in hex.
func (d *Detector) EdgeOverlay(img image.Image, cfg canny.Config, hex string) (*EdgeDetectResult, error) {
	cfg.StopAfter = canny.StageThreshold
	res, err := d.Run(img, cfg)
	if err != nil {
		return nil, err
	}

	painted, err := Overlay(img, res.Edges, hex)
	if err != nil {
		return nil, err
	}
	encoded, err := EncodePNGBase64(painted)
	if err != nil {
		return nil, fmt.Errorf("failed to encode overlay: %w", err)
	}

	return &EdgeDetectResult{
		Width:       res.Edges.Width,
		Height:      res.Edges.Height,
		Stage:       res.Stage.String(),
		ImageBase64: encoded,
		MimeType:    "image/png",
		Stats:       ComputeEdgeStats(res.Edges),
	}, nil
}
