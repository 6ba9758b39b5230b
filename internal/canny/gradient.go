package canny

import (
	"fmt"
	"math"
	"runtime"
)

// Direction is a gradient direction quantized to a multiple of 45 degrees.
type Direction uint8

// Quantized directions, in degrees.
const (
	Dir0   Direction = 0
	Dir45  Direction = 45
	Dir90  Direction = 90
	Dir135 Direction = 135
)

// AngleMap holds one quantized Direction per pixel, aligned index for index
// with a Raster of the same width and height.
type AngleMap struct {
	Width  int
	Height int
	Dirs   []Direction
}

// Valid reports whether d is one of the four quantized directions.
func (d Direction) Valid() bool {
	switch d {
	case Dir0, Dir45, Dir90, Dir135:
		return true
	}
	return false
}

// NewAngleMap allocates an AngleMap filled with Dir0.
func NewAngleMap(width, height int) *AngleMap {
	return &AngleMap{Width: width, Height: height, Dirs: make([]Direction, width*height)}
}

// At returns the direction at pixel (x, y).
func (a *AngleMap) At(x, y int) Direction {
	return a.Dirs[y*a.Width+x]
}

var (
	sobelX = [3][3]float64{
		{1, 0, -1},
		{2, 0, -2},
		{1, 0, -1},
	}
	sobelY = [3][3]float64{
		{1, 2, 1},
		{0, 0, 0},
		{-1, -2, -1},
	}
)

// QuantizeAngle maps an atan2 result in radians to one of the four
// directions. The absolute value is binned on half-open intervals:
//
//	[0, π/8) ∪ [7π/8, π]  -> 0
//	[π/8, 3π/8)           -> 45
//	[3π/8, 5π/8)          -> 90
//	[5π/8, 7π/8)          -> 135
func QuantizeAngle(rad float64) Direction {
	a := math.Abs(rad)
	switch {
	case a < math.Pi/8 || a >= 7*math.Pi/8:
		return Dir0
	case a < 3*math.Pi/8:
		return Dir45
	case a < 5*math.Pi/8:
		return Dir90
	default:
		return Dir135
	}
}

// Gradient applies the Sobel operators to the red channel of in.
//
// The red channel is expected to carry a density value, which Blur with
// grayscale guarantees. Border taps are edge-clamped. The magnitude
// sqrt(gx²+gy²) is written unclamped to R, G and B with alpha 255, and the
// quantized direction of atan2(gy, gx) goes to the returned AngleMap.
func Gradient(in *Raster) (*Raster, *AngleMap, error) {
	return gradient(in, runtime.GOMAXPROCS(0))
}

func gradient(in *Raster, workers int) (*Raster, *AngleMap, error) {
	if err := checkRGBA(in, "gradient input"); err != nil {
		return nil, nil, err
	}

	w, h := in.Width, in.Height
	out := NewRGBA(w, h)
	angles := NewAngleMap(w, h)

	forEachRow(h, workers, func(y int) {
		for x := 0; x < w; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				row := clamp(y+ky, 0, h-1) * w
				for kx := -1; kx <= 1; kx++ {
					d := in.Pix[(row+clamp(x+kx, 0, w-1))*RGBAChannels]
					gx += d * sobelX[ky+1][kx+1]
					gy += d * sobelY[ky+1][kx+1]
				}
			}

			mag := math.Sqrt(gx*gx + gy*gy)
			o := (y*w + x) * RGBAChannels
			out.Pix[o], out.Pix[o+1], out.Pix[o+2], out.Pix[o+3] = mag, mag, mag, 255
			angles.Dirs[y*w+x] = QuantizeAngle(math.Atan2(gy, gx))
		}
	})

	return out, angles, nil
}

func checkAngles(a *AngleMap, mag *Raster) error {
	if a == nil {
		return fmt.Errorf("%w: angle map is nil", ErrDimensionMismatch)
	}
	if a.Width != mag.Width || a.Height != mag.Height || len(a.Dirs) != a.Width*a.Height {
		return fmt.Errorf("%w: angle map %dx%d (%d entries) vs magnitude %dx%d",
			ErrDimensionMismatch, a.Width, a.Height, len(a.Dirs), mag.Width, mag.Height)
	}
	for i, d := range a.Dirs {
		if !d.Valid() {
			return fmt.Errorf("%w: %d at pixel (%d, %d)", ErrInvalidDirection, d, i%a.Width, i/a.Width)
		}
	}
	return nil
}
