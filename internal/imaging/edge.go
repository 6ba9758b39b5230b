package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/ironsheep/canny-edge-mcp/internal/canny"
)

// EdgeDetectResult is the output of one pipeline run, encoded as base64 PNG.
type EdgeDetectResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	// Stage is the last stage that ran: blur, gradient, suppress or threshold.
	Stage string `json:"stage"`

	// ImageBase64 holds the stage output. Values above 255 (gradient
	// magnitudes) saturate to white.
	ImageBase64 string `json:"image_base64"`

	// MimeType is always "image/png".
	MimeType string `json:"mime_type"`

	Stats EdgeStats `json:"stats"`
}

// Detector runs the edge pipeline over decoded images, reusing kernels
// across calls. It is safe for concurrent use.
type Detector struct {
	pipeline *canny.Pipeline
	kernels  *KernelCache
}

// NewDetector wires a pipeline to a kernel cache.
func NewDetector(p *canny.Pipeline, kernels *KernelCache) *Detector {
	return &Detector{pipeline: p, kernels: kernels}
}

// Run converts img to a raster and runs the pipeline up to cfg.StopAfter.
//
// Returns an error wrapping one of the canny sentinel errors when cfg is
// invalid; the configuration is not clamped here.
func (d *Detector) Run(img image.Image, cfg canny.Config) (*canny.Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	k, err := d.kernels.Get(cfg.KernelRadius, cfg.Sigma)
	if err != nil {
		return nil, err
	}
	return d.pipeline.RunWithKernel(ToRaster(img), k, cfg)
}

// EdgeDetect runs the pipeline and encodes the final stage output.
//
// With the default configuration the output is black except for thinned
// edge pixels, which keep their gradient magnitude as brightness.
//
// Threshold guidance:
//   - Clean diagrams: low=50, high=150
//   - Photographs: low=100, high=200
//   - Noisy images: low=75, high=175 with a larger radius
func (d *Detector) EdgeDetect(img image.Image, cfg canny.Config) (*EdgeDetectResult, error) {
	res, err := d.Run(img, cfg)
	if err != nil {
		return nil, err
	}
	out := res.Output()

	encoded, err := EncodePNGBase64(FromRaster(out))
	if err != nil {
		return nil, fmt.Errorf("failed to encode edge image: %w", err)
	}

	return &EdgeDetectResult{
		Width:       out.Width,
		Height:      out.Height,
		Stage:       res.Stage.String(),
		ImageBase64: encoded,
		MimeType:    "image/png",
		Stats:       ComputeEdgeStats(out),
	}, nil
}

// EncodePNGBase64 encodes img as PNG and returns the standard base64 text.
func EncodePNGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
