package canny

import (
	"fmt"
	"runtime"
)

// MaxThreshold is the largest accepted threshold value.
const MaxThreshold = 255

// Thresholds is the (low, high) pair used by Threshold.
type Thresholds struct {
	Low  int
	High int
}

// Validate enforces 0 <= Low <= High <= 255. It never clamps.
func (t Thresholds) Validate() error {
	if t.Low < 0 || t.High > MaxThreshold || t.Low > t.High {
		return fmt.Errorf("%w: need 0 <= low (%d) <= high (%d) <= %d",
			ErrInvalidThresholdOrdering, t.Low, t.High, MaxThreshold)
	}
	return nil
}

// Threshold classifies each pixel by the density in its red channel d:
//
//   - d >= High: strong edge, kept.
//   - Low <= d < High: weak edge, kept only if some pixel in its clamped 3x3
//     neighbourhood (itself included) has density >= High.
//   - d < Low: dropped.
//
// Kept pixels copy their R, G and B; dropped pixels become (0, 0, 0). Alpha
// is always 255.
//
// Promotion is single-hop: a chain of weak pixels does not carry strength
// from a distant strong pixel.
func Threshold(in *Raster, t Thresholds) (*Raster, error) {
	return threshold(in, t, runtime.GOMAXPROCS(0))
}

func threshold(in *Raster, t Thresholds, workers int) (*Raster, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := checkRGBA(in, "threshold input"); err != nil {
		return nil, err
	}

	w, h := in.Width, in.Height
	low, high := float64(t.Low), float64(t.High)
	out := NewRGBA(w, h)

	strongNear := func(x, y int) bool {
		for ky := -1; ky <= 1; ky++ {
			row := clamp(y+ky, 0, h-1) * w
			for kx := -1; kx <= 1; kx++ {
				if in.Pix[(row+clamp(x+kx, 0, w-1))*RGBAChannels] >= high {
					return true
				}
			}
		}
		return false
	}

	forEachRow(h, workers, func(y int) {
		for x := 0; x < w; x++ {
			o := (y*w + x) * RGBAChannels
			d := in.Pix[o]
			if d >= high || (d >= low && strongNear(x, y)) {
				copy(out.Pix[o:o+3], in.Pix[o:o+3])
			}
			out.Pix[o+3] = 255
		}
	})

	return out, nil
}
