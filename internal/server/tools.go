package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// runProperties are the sampling parameters shared by buddhabrot_sample and
// buddhabrot_render.
func runProperties() map[string]interface{} {
	return map[string]interface{}{
		"goal": map[string]interface{}{
			"type":        "integer",
			"description": "Number of seeds to collect. Default 100",
			"default":     100,
		},
		"min_depth": map[string]interface{}{
			"type":        "integer",
			"description": "Smallest accepted escape depth. Default 10000",
			"default":     10000,
		},
		"max_depth": map[string]interface{}{
			"type":        "integer",
			"description": "Largest accepted escape depth. Default 100000",
			"default":     100000,
		},
		"max_passes": map[string]interface{}{
			"type":        "integer",
			"description": "Raster passes before the goal is reported unreachable. Default 1000",
			"default":     1000,
		},
		"no_jitter": map[string]interface{}{
			"type":        "boolean",
			"description": "Sample the exact raster without random displacement",
			"default":     false,
		},
		"seed": map[string]interface{}{
			"type":        "integer",
			"description": "Random seed for jitter. 0 picks a time-based seed",
		},
		"workers": map[string]interface{}{
			"type":        "integer",
			"description": "Worker goroutines. Default is the number of CPUs",
		},
	}
}

func withProperties(base map[string]interface{}, extra map[string]interface{}) map[string]interface{} {
	for k, v := range extra {
		base[k] = v
	}
	return base
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "buddhabrot_classify",
			Description: "Classify a point c of the complex plane under z = z^2 + c. Reports whether the orbit escapes, its escape depth, and how many iterations the classification needed.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"re": map[string]interface{}{
						"type":        "number",
						"description": "Real part of c",
					},
					"im": map[string]interface{}{
						"type":        "number",
						"description": "Imaginary part of c",
					},
					"max_depth": map[string]interface{}{
						"type":        "integer",
						"description": "Iteration cap. Default 1000000",
						"default":     1000000,
					},
				},
				"required": []string{"re", "im"},
			},
		},
		{
			Name:        "buddhabrot_sample",
			Description: "Sweep the plane for seeds whose escape depth lies in [min_depth, max_depth]. Seeds are returned inline or stored in a seed file when seeds_out is set. An existing seed file given as seeds_in is extended.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(runProperties(), map[string]interface{}{
					"seeds_in": map[string]interface{}{
						"type":        "string",
						"description": "Seed file to resume from",
					},
					"seeds_out": map[string]interface{}{
						"type":        "string",
						"description": "Seed file to write the accepted seeds to",
					},
				}),
			},
		},
		{
			Name:        "buddhabrot_render",
			Description: "Render a Buddhabrot density image to PNG. Uses the seeds in seeds_path, or samples new ones with the sampling parameters. Returns the output path, histogram statistics and a tonal summary.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(runProperties(), map[string]interface{}{
					"seeds_path": map[string]interface{}{
						"type":        "string",
						"description": "Seed file to render instead of sampling",
					},
					"plot_depth": map[string]interface{}{
						"type":        "integer",
						"description": "Iteration depth when plotting orbits. Default 1000000",
						"default":     1000000,
					},
					"resolution": map[string]interface{}{
						"type":        "integer",
						"description": "Image width and height in pixels. Default 1000",
						"default":     1000,
					},
					"exponent": map[string]interface{}{
						"type":        "number",
						"description": "Tone exponent: below 1 emphasizes rarely hit cells, above 1 frequently hit cells. Default 1.0",
						"default":     1.0,
					},
					"brightness": map[string]interface{}{
						"type":        "number",
						"description": "Overall brightness. Default 0.2",
						"default":     0.2,
					},
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Output image name; .png is appended when missing",
					},
					"palette": map[string]interface{}{
						"type":        "string",
						"description": "Two-color palette as #dark:#light. Default grayscale",
					},
					"include_edge": map[string]interface{}{
						"type":        "boolean",
						"description": "Count orbit visits on the first image row and column",
						"default":     false,
					},
					"thumbnail": map[string]interface{}{
						"type":        "integer",
						"description": "Also write a thumbnail of this width",
					},
				}),
				"required": []string{"output"},
			},
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
