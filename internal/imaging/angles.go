package imaging

import (
	"fmt"
	"image"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/canny-edge-mcp/internal/canny"
)

// GradientAnglesResult is a colour-coded view of the quantized gradient
// directions.
type GradientAnglesResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`

	// DirectionCounts maps "0", "45", "90" and "135" to the number of pixels
	// with a non-zero gradient in that direction.
	DirectionCounts map[string]int `json:"direction_counts"`
}

// directionHue spreads the four directions evenly around the colour wheel:
// 0 red, 45 yellow-green, 90 cyan, 135 violet.
func directionHue(d canny.Direction) float64 {
	return 2 * float64(d)
}

// RenderAngles paints each pixel with the hue of its direction and a
// brightness proportional to its magnitude relative to the strongest
// gradient. Pixels with zero magnitude are black.
func RenderAngles(mag *canny.Raster, angles *canny.AngleMap) (*image.NRGBA, error) {
	if mag.Width != angles.Width || mag.Height != angles.Height {
		return nil, fmt.Errorf("%w: magnitude %dx%d vs angles %dx%d", canny.ErrDimensionMismatch,
			mag.Width, mag.Height, angles.Width, angles.Height)
	}
	for i, d := range angles.Dirs {
		if !d.Valid() {
			return nil, fmt.Errorf("%w: %d at index %d", canny.ErrInvalidDirection, d, i)
		}
	}

	maxMag := ComputeEdgeStats(mag).MaxValue
	out := image.NewNRGBA(image.Rect(0, 0, mag.Width, mag.Height))
	for y := 0; y < mag.Height; y++ {
		for x := 0; x < mag.Width; x++ {
			o := y*out.Stride + x*4
			out.Pix[o+3] = 255

			m := mag.At(x, y, 0)
			if m <= 0 || maxMag <= 0 {
				continue
			}
			c := colorful.Hsv(directionHue(angles.At(x, y)), 1, m/maxMag)
			out.Pix[o], out.Pix[o+1], out.Pix[o+2] = c.Clamped().RGB255()
		}
	}
	return out, nil
}

// GradientAngles runs the pipeline through the gradient stage and renders
// the direction map.
func (d *Detector) GradientAngles(img image.Image, cfg canny.Config) (*GradientAnglesResult, error) {
	cfg.StopAfter = canny.StageGradient
	res, err := d.Run(img, cfg)
	if err != nil {
		return nil, err
	}

	rendered, err := RenderAngles(res.Magnitude, res.Angles)
	if err != nil {
		return nil, err
	}
	encoded, err := EncodePNGBase64(rendered)
	if err != nil {
		return nil, fmt.Errorf("failed to encode angle image: %w", err)
	}

	counts := map[string]int{"0": 0, "45": 0, "90": 0, "135": 0}
	for i, dir := range res.Angles.Dirs {
		if res.Magnitude.Pix[i*canny.RGBAChannels] > 0 {
			counts[fmt.Sprint(int(dir))]++
		}
	}

	return &GradientAnglesResult{
		Width:           rendered.Bounds().Dx(),
		Height:          rendered.Bounds().Dy(),
		ImageBase64:     encoded,
		MimeType:        "image/png",
		DirectionCounts: counts,
	}, nil
}
