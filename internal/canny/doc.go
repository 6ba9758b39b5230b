// Package canny implements the numeric core of a Canny-style edge detector.
//
// The detector is a chain of four stages, each a pure function from one fully
// materialized Raster to a freshly allocated one:
//
//  1. Blur: Gaussian convolution with a normalized (2r+1)x(2r+1) kernel,
//     optionally collapsing R, G and B into a single density value.
//  2. Gradient: 3x3 Sobel operators over the red channel. Produces an
//     unclamped magnitude Raster and an AngleMap quantized to 0, 45, 90 or
//     135 degrees.
//  3. Suppress: non-maximum suppression along the quantized gradient
//     direction. Ties keep the centre pixel.
//  4. Threshold: double threshold with single-hop hysteresis. A weak pixel is
//     kept only when one of its 8 neighbours is strong.
//
// Pipeline composes the stages, validates configuration up front and can stop
// after any stage.
//
// # Boundary Handling
//
// Every neighbourhood read clamps each coordinate independently to the raster
// bounds (replicate padding). Nothing is ever zero-padded or wrapped.
//
// # Pixel Layout
//
// Rasters are row-major with the origin at the top-left. Channel values are
// stored as float64 so gradient magnitudes above 255 pass between stages
// without clamping. Raster.Bytes rounds and clamps for display.
//
// # Thread Safety
//
// Stages never mutate their inputs and a Kernel is never modified after
// BuildKernel returns, so both can be shared freely. Each stage splits its
// output rows across a fixed-size worker pool; rows are written by exactly one
// worker and the stage returns only after every row is done.
//
// # Errors
//
// Invalid input is reported with errors wrapping ErrInvalidKernelParameters,
// ErrInvalidThresholdOrdering, ErrDimensionMismatch or ErrUnknownStage. No
// partial output is returned alongside an error.
package canny
