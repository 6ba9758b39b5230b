package server

import (
	"encoding/json"
	"fmt"
	"image"
	"time"

	"go.uber.org/zap"

	"github.com/ironsheep/canny-edge-mcp/internal/canny"
	"github.com/ironsheep/canny-edge-mcp/internal/config"
	"github.com/ironsheep/canny-edge-mcp/internal/detection"
	"github.com/ironsheep/canny-edge-mcp/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_edge_detect").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool failed", zap.String("tool", params.Name), zap.Error(err))
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}
	s.logger.Debug("tool complete",
		zap.String("tool", params.Name),
		zap.Duration("elapsed", time.Since(start)))

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Edge Pipeline
	case "image_edge_detect":
		return s.handleEdgeDetect(args, 0)
	case "image_gaussian_blur":
		return s.handleEdgeDetect(args, canny.StageBlur)
	case "image_sobel":
		return s.handleEdgeDetect(args, canny.StageGradient)
	case "image_nonmax_suppress":
		return s.handleEdgeDetect(args, canny.StageSuppress)
	case "image_gradient_angles":
		return s.handleGradientAngles(args)
	case "gaussian_kernel":
		return s.handleGaussianKernel(args)

	// Edge Geometry
	case "image_detect_lines":
		return s.handleDetectLines(args)
	case "image_edge_contours":
		return s.handleEdgeContours(args)
	case "image_edge_overlay":
		return s.handleEdgeOverlay(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// unmarshalArgs treats missing arguments as an empty object.
func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (a imageLoadArgs) validate() error {
	if a.Path == "" {
		return fmt.Errorf("path is required")
	}
	return nil
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Edge Pipeline Handlers ===

// detectArgs holds the parameters shared by every pipeline tool. Pointer
// fields distinguish "not given" from an explicit zero.
type detectArgs struct {
	Path          string          `json:"path"`
	Radius        *int            `json:"radius"`
	Sigma         *float64        `json:"sigma"`
	Grayscale     *bool           `json:"grayscale"`
	StopAfter     string          `json:"stop_after"`
	ThresholdLow  *int            `json:"threshold_low"`
	ThresholdHigh *int            `json:"threshold_high"`
	Region        *imaging.Region `json:"region"`
	NamedRegion   string          `json:"named_region"`
	Scale         float64         `json:"scale"`
}

// config fills omitted parameters from defaults and clamps the raw values.
// When only threshold_high is given, the low threshold is the configured
// default capped at high.
func (a detectArgs) config(defaults config.Detect) (canny.Config, error) {
	cfg := defaults.Canny()
	if a.Radius != nil {
		cfg.KernelRadius = *a.Radius
	}
	if a.Sigma != nil {
		cfg.Sigma = *a.Sigma
	}
	if a.Grayscale != nil {
		cfg.Grayscale = *a.Grayscale
	}
	if a.ThresholdHigh != nil {
		cfg.High = *a.ThresholdHigh
		if a.ThresholdLow == nil {
			cfg.Low = min(cfg.Low, cfg.High)
		}
	}
	if a.ThresholdLow != nil {
		cfg.Low = *a.ThresholdLow
	}

	stage, err := canny.ParseStage(a.StopAfter)
	if err != nil {
		return canny.Config{}, err
	}
	cfg.StopAfter = stage

	return config.Clamp(cfg), nil
}

// load parses args, loads and prepares the image and resolves the config.
func (s *Server) load(args json.RawMessage, v interface{ base() *detectArgs }) (image.Image, canny.Config, error) {
	if err := unmarshalArgs(args, v); err != nil {
		return nil, canny.Config{}, err
	}
	a := v.base()
	if a.Path == "" {
		return nil, canny.Config{}, fmt.Errorf("path is required")
	}

	cfg, err := a.config(s.defaults)
	if err != nil {
		return nil, canny.Config{}, err
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, canny.Config{}, err
	}
	img, err = imaging.Prepare(img, imaging.PrepareOptions{
		Region: a.Region,
		Named:  a.NamedRegion,
		Scale:  a.Scale,
	})
	if err != nil {
		return nil, canny.Config{}, err
	}
	return img, cfg, nil
}

func (a *detectArgs) base() *detectArgs { return a }

// handleEdgeDetect runs the pipeline. A non-zero stop overrides stop_after.
func (s *Server) handleEdgeDetect(args json.RawMessage, stop canny.Stage) (interface{}, error) {
	var a detectArgs
	img, cfg, err := s.load(args, &a)
	if err != nil {
		return nil, err
	}
	if stop != 0 {
		cfg.StopAfter = stop
	}
	return s.detector.EdgeDetect(img, cfg)
}

func (s *Server) handleGradientAngles(args json.RawMessage) (interface{}, error) {
	var a detectArgs
	img, cfg, err := s.load(args, &a)
	if err != nil {
		return nil, err
	}
	return s.detector.GradientAngles(img, cfg)
}

type gaussianKernelArgs struct {
	Radius *int     `json:"radius"`
	Sigma  *float64 `json:"sigma"`
}

// KernelResult describes a Gaussian kernel.
type KernelResult struct {
	Radius int         `json:"radius"`
	Sigma  float64     `json:"sigma"`
	Size   int         `json:"size"`
	Sum    float64     `json:"sum"`
	Matrix [][]float64 `json:"matrix"`
}

func (s *Server) handleGaussianKernel(args json.RawMessage) (interface{}, error) {
	var a gaussianKernelArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	cfg := s.defaults.Canny()
	if a.Radius != nil {
		cfg.KernelRadius = *a.Radius
	}
	if a.Sigma != nil {
		cfg.Sigma = *a.Sigma
	}
	cfg = config.Clamp(cfg)

	k, err := s.kernels.Get(cfg.KernelRadius, cfg.Sigma)
	if err != nil {
		return nil, err
	}
	return &KernelResult{
		Radius: k.Radius,
		Sigma:  k.Sigma,
		Size:   k.Size(),
		Sum:    k.Sum(),
		Matrix: k.Matrix(),
	}, nil
}

// === Edge Geometry Handlers ===

type detectLinesArgs struct {
	detectArgs
	MinLength int `json:"min_length"`
	MaxLines  int `json:"max_lines"`
}

func (s *Server) handleDetectLines(args json.RawMessage) (interface{}, error) {
	var a detectLinesArgs
	img, cfg, err := s.load(args, &a)
	if err != nil {
		return nil, err
	}
	if a.MinLength == 0 {
		a.MinLength = 20
	}
	if a.MaxLines == 0 {
		a.MaxLines = 50
	}

	edges, err := s.edgeMap(img, cfg)
	if err != nil {
		return nil, err
	}
	return detection.DetectLines(edges, a.MinLength, a.MaxLines), nil
}

type edgeContoursArgs struct {
	detectArgs
	MinPixels *int `json:"min_pixels"`
}

func (s *Server) handleEdgeContours(args json.RawMessage) (interface{}, error) {
	var a edgeContoursArgs
	img, cfg, err := s.load(args, &a)
	if err != nil {
		return nil, err
	}
	minPixels := 10
	if a.MinPixels != nil {
		minPixels = *a.MinPixels
	}

	edges, err := s.edgeMap(img, cfg)
	if err != nil {
		return nil, err
	}
	return detection.FindContours(edges, minPixels), nil
}

type edgeOverlayArgs struct {
	detectArgs
	Color string `json:"color"`
}

func (s *Server) handleEdgeOverlay(args json.RawMessage) (interface{}, error) {
	var a edgeOverlayArgs
	img, cfg, err := s.load(args, &a)
	if err != nil {
		return nil, err
	}
	return s.detector.EdgeOverlay(img, cfg, a.Color)
}

// edgeMap runs every stage regardless of stop_after.
func (s *Server) edgeMap(img image.Image, cfg canny.Config) (*detection.EdgeMap, error) {
	cfg.StopAfter = canny.StageThreshold
	res, err := s.detector.Run(img, cfg)
	if err != nil {
		return nil, err
	}
	return detection.FromRaster(res.Edges), nil
}
