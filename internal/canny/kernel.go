package canny

import (
	"fmt"
	"math"
)

// Kernel is a normalized square Gaussian convolution matrix of side
// 2*Radius+1. Its weights sum to 1 within floating-point tolerance.
//
// A Kernel is immutable once built and may be shared between goroutines and
// reused across pipeline runs.
type Kernel struct {
	Radius int
	Sigma  float64

	// Weights is row-major: Weights[(dy+Radius)*Size()+(dx+Radius)] is the
	// weight of the tap at offset (dx, dy).
	Weights []float64
}

// BuildKernel computes the Gaussian kernel for radius and sigma.
//
// Each tap at offset (x, y) in [-radius, radius]² starts as
//
//	1/(2π·σ²) · exp(-(x²+y²)/(2σ²))
//
// and is then divided by the sum of all taps. Radius 0 yields the identity
// kernel [1].
//
// Returns an error wrapping ErrInvalidKernelParameters when radius is
// negative or sigma is not a finite positive number.
func BuildKernel(radius int, sigma float64) (*Kernel, error) {
	if radius < 0 {
		return nil, fmt.Errorf("%w: radius %d is negative", ErrInvalidKernelParameters, radius)
	}
	if !(sigma > 0) || math.IsInf(sigma, 0) {
		return nil, fmt.Errorf("%w: sigma %v must be positive", ErrInvalidKernelParameters, sigma)
	}

	size := 2*radius + 1
	weights := make([]float64, size*size)
	twoSigmaSq := 2 * sigma * sigma
	norm := 1 / (math.Pi * twoSigmaSq)

	var sum float64
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			w := norm * math.Exp(-float64(x*x+y*y)/twoSigmaSq)
			weights[(y+radius)*size+(x+radius)] = w
			sum += w
		}
	}
	// Tiny sigma with a large radius can underflow every tap but the centre;
	// the centre is always norm*exp(0) > 0, so sum is never zero here.
	for i := range weights {
		weights[i] /= sum
	}

	return &Kernel{Radius: radius, Sigma: sigma, Weights: weights}, nil
}

// Size returns the side length 2*Radius+1.
func (k *Kernel) Size() int {
	return 2*k.Radius + 1
}

// At returns the weight of the tap at offset (dx, dy) from the centre.
func (k *Kernel) At(dy, dx int) float64 {
	return k.Weights[(dy+k.Radius)*k.Size()+(dx+k.Radius)]
}

// Sum returns the total of all weights.
func (k *Kernel) Sum() float64 {
	var s float64
	for _, w := range k.Weights {
		s += w
	}
	return s
}

// Matrix returns the weights as a fresh [][]float64, row by row.
func (k *Kernel) Matrix() [][]float64 {
	size := k.Size()
	m := make([][]float64, size)
	for i := range m {
		m[i] = append([]float64(nil), k.Weights[i*size:(i+1)*size]...)
	}
	return m
}

func (k *Kernel) validate() error {
	if k == nil {
		return fmt.Errorf("%w: kernel is nil", ErrInvalidKernelParameters)
	}
	if k.Radius < 0 || len(k.Weights) != k.Size()*k.Size() {
		return fmt.Errorf("%w: kernel radius %d with %d weights",
			ErrInvalidKernelParameters, k.Radius, len(k.Weights))
	}
	return nil
}
