// Package server implements an MCP (Model Context Protocol) server that
// exposes the Canny edge pipeline as tools.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Edge Pipeline:
//   - image_edge_detect: All four stages, or up to stop_after
//   - image_gaussian_blur, image_sobel, image_nonmax_suppress: Single-stage shortcuts
//   - image_gradient_angles: Colour-coded gradient directions
//   - gaussian_kernel: The normalized blur kernel for a radius and sigma
//   - image_edge_overlay: Edges painted over the original
//
// Edge Geometry:
//   - image_detect_lines: Hough line segments in the final edges
//   - image_edge_contours: Connected edge groups with bounding boxes
//
// Every pipeline tool accepts radius, sigma and grayscale, plus an optional
// region or named_region crop and a scale factor applied before detection.
// Omitted parameters come from the server configuration. Out-of-range values
// are clamped (radius to 0-10, thresholds to 0-255, sigma to >= 0); sigma 0
// and low > high are still rejected by the pipeline.
//
// # Caching
//
// Decoded images are cached by path for the life of the process. Gaussian
// kernels are cached by (radius, sigma) in a bounded cache.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// Unparseable input lines get a -32700 response with a null id.
package server
