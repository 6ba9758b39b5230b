package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var namedRegions = []string{
	"top-left", "top-right", "bottom-left", "bottom-right",
	"top-half", "bottom-half", "left-half", "right-half", "center",
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

// blurProperties are the parameters shared by every tool that runs at least
// the blur stage.
func blurProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": pathProperty(),
		"radius": map[string]interface{}{
			"type":        "integer",
			"description": "Gaussian kernel radius; the kernel is (2r+1)x(2r+1). Clamped to 0-10. Default from server config (2)",
			"minimum":     0,
			"maximum":     10,
		},
		"sigma": map[string]interface{}{
			"type":        "number",
			"description": "Gaussian standard deviation, must be > 0. Default from server config (1.4)",
		},
		"grayscale": map[string]interface{}{
			"type":        "boolean",
			"description": "Collapse RGB to its mean while blurring. Later stages read the red channel only, so colour input should keep this on. Default true",
		},
		"region": map[string]interface{}{
			"type":        "object",
			"description": "Optional crop rectangle applied before detection; x2/y2 exclusive",
			"properties": map[string]interface{}{
				"x1": map[string]interface{}{"type": "integer"},
				"y1": map[string]interface{}{"type": "integer"},
				"x2": map[string]interface{}{"type": "integer"},
				"y2": map[string]interface{}{"type": "integer"},
			},
			"required": []string{"x1", "y1", "x2", "y2"},
		},
		"named_region": map[string]interface{}{
			"type":        "string",
			"enum":        namedRegions,
			"description": "Optional named crop, ignored when region is set",
		},
		"scale": map[string]interface{}{
			"type":        "number",
			"description": "Optional Lanczos resize factor applied after cropping. Default 1.0",
			"default":     1.0,
		},
	}
}

// detectProperties adds the hysteresis thresholds to blurProperties.
func detectProperties() map[string]interface{} {
	p := blurProperties()
	p["threshold_low"] = map[string]interface{}{
		"type":        "integer",
		"description": "Weak edge threshold (0-255). Weak pixels survive only next to a strong one. Default 50",
		"minimum":     0,
		"maximum":     255,
	}
	p["threshold_high"] = map[string]interface{}{
		"type":        "integer",
		"description": "Strong edge threshold (0-255), must be >= threshold_low. Default 150",
		"minimum":     0,
		"maximum":     255,
	}
	return p
}

func objectSchema(props map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	edgeProps := detectProperties()
	edgeProps["stop_after"] = map[string]interface{}{
		"type":        "string",
		"enum":        []string{"blur", "gradient", "suppress", "threshold"},
		"description": "Return the output of an intermediate stage instead of the final edges. Default threshold",
	}

	linesProps := detectProperties()
	linesProps["min_length"] = map[string]interface{}{
		"type":        "integer",
		"description": "Minimum segment length in pixels. Default 20",
		"default":     20,
	}
	linesProps["max_lines"] = map[string]interface{}{
		"type":        "integer",
		"description": "Maximum number of segments returned, strongest first. Default 50",
		"default":     50,
	}

	contourProps := detectProperties()
	contourProps["min_pixels"] = map[string]interface{}{
		"type":        "integer",
		"description": "Drop connected edge groups with fewer pixels. Default 10",
		"default":     10,
	}

	overlayProps := detectProperties()
	overlayProps["color"] = map[string]interface{}{
		"type":        "string",
		"description": "Edge colour as #rrggbb or #rgb. Default #ff0000",
		"default":     "#ff0000",
	}

	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and alpha. The decoded image is cached for later calls.",
			InputSchema: objectSchema(map[string]interface{}{"path": pathProperty()}, "path"),
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: objectSchema(map[string]interface{}{"path": pathProperty()}, "path"),
		},

		// Edge Pipeline
		{
			Name:        "image_edge_detect",
			Description: "Canny edge detection: Gaussian blur, Sobel gradient, non-maximum suppression and hysteresis thresholding. Returns a base64 PNG where edge pixels keep their gradient strength as brightness, plus edge statistics.",
			InputSchema: objectSchema(edgeProps, "path"),
		},
		{
			Name:        "image_gaussian_blur",
			Description: "Run only the Gaussian blur stage and return the smoothed image as base64 PNG.",
			InputSchema: objectSchema(blurProperties(), "path"),
		},
		{
			Name:        "image_sobel",
			Description: "Run blur and Sobel gradient stages and return the gradient magnitude as base64 PNG. Magnitudes above 255 saturate to white in the image; stats.max_value reports the true peak.",
			InputSchema: objectSchema(blurProperties(), "path"),
		},
		{
			Name:        "image_nonmax_suppress",
			Description: "Run blur, gradient and non-maximum suppression, returning thinned but unthresholded edges as base64 PNG.",
			InputSchema: objectSchema(blurProperties(), "path"),
		},
		{
			Name:        "image_gradient_angles",
			Description: "Render quantized gradient directions as colour (0° red, 45° yellow-green, 90° cyan, 135° violet) with brightness from magnitude, and count pixels per direction.",
			InputSchema: objectSchema(blurProperties(), "path"),
		},
		{
			Name:        "gaussian_kernel",
			Description: "Return the normalized Gaussian kernel matrix for a radius and sigma.",
			InputSchema: objectSchema(map[string]interface{}{
				"radius": map[string]interface{}{
					"type":        "integer",
					"description": "Kernel radius, clamped to 0-10. Default 2",
				},
				"sigma": map[string]interface{}{
					"type":        "number",
					"description": "Standard deviation, must be > 0. Default 1.4",
				},
			}),
		},

		// Edge Geometry
		{
			Name:        "image_detect_lines",
			Description: "Find straight line segments in the detected edges with a Hough transform. Coordinates are relative to the cropped and scaled image.",
			InputSchema: objectSchema(linesProps, "path"),
		},
		{
			Name:        "image_edge_overlay",
			Description: "Paint the detected edges over the original image in a single colour and return it as base64 PNG.",
			InputSchema: objectSchema(overlayProps, "path"),
		},
		{
			Name:        "image_edge_contours",
			Description: "Group detected edge pixels into 8-connected contours with bounding boxes and a rectangularity score. Coordinates are relative to the cropped and scaled image.",
			InputSchema: objectSchema(contourProps, "path"),
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
