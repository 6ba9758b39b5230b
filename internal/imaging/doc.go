// Package imaging connects decoded images to the edge-detection core.
//
// It loads and caches images from disk, converts between image.Image and
// canny.Raster, crops and rescales input before detection and caches
// Gaussian kernels per (radius, sigma). A Detector ties a pipeline to a
// kernel cache and encodes stage output, colour-coded gradient directions
// or an edge overlay as base64 PNG.
// Coordinates follow the image package convention: (0,0) is the top-left
// corner, X grows rightward and Y grows downward.
//
// # Coordinate System
//
// For regions, (x1,y1) is inclusive (top-left) and (x2,y2) is exclusive
// (bottom-right).
//
// # Pixel Conversion
//
// ToRaster produces non-premultiplied 8-bit RGBA values in the layout of
// image.NRGBA. FromRaster rounds and clamps each channel to
// 0-255, so gradient magnitudes above 255 saturate to white on output.
//
// # Thread Safety
//
// ImageCache and KernelCache are safe for concurrent use. Conversion and
// encoding functions are stateless.
//
// # Parameter Clamping
//
// The functions here pass configuration to the core untouched; invalid
// values come back as errors from package canny. Clamping raw client input
// is the caller's job.
package imaging
