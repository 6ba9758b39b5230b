// Package detection interprets a thresholded edge raster as geometry.
//
// The edge pipeline answers "which pixels are edges"; this package answers
// "what do they form". It works on an EdgeMap, a boolean view of any
// pipeline output in which a pixel is on when its red channel is non-zero.
//
//   - FindContours groups 8-connected edge pixels into contours with a
//     bounding box and a rectangularity score.
//   - DetectLines runs a Hough line transform and returns straight segments.
//
// # Coordinate System
//
// Coordinates follow the image convention: origin at the top-left, X grows
// rightward, Y grows downward. Bounds are inclusive on X1/Y1 and exclusive on
// X2/Y2.
//
// Both functions work best on the final thresholded stage. On the blur or
// gradient stages nearly every pixel is on and results are meaningless.
package detection
