package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/bruce5f/buddhabrotCLU/internal/config"
	"github.com/bruce5f/buddhabrotCLU/internal/fractal"
	"github.com/bruce5f/buddhabrotCLU/internal/render"
	"github.com/bruce5f/buddhabrotCLU/internal/sampler"
	"github.com/bruce5f/buddhabrotCLU/internal/sink"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "buddhabrot_render").
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
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

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
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	case "buddhabrot_classify":
		return s.handleClassify(args)
	case "buddhabrot_sample":
		return s.handleSample(ctx, args)
	case "buddhabrot_render":
		return s.handleRender(ctx, args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Classification ===

type classifyArgs struct {
	Re       float64 `json:"re"`
	Im       float64 `json:"im"`
	MaxDepth int     `json:"max_depth"`
}

// ClassifyResult is the outcome of buddhabrot_classify.
type ClassifyResult struct {
	Re               float64 `json:"re"`
	Im               float64 `json:"im"`
	Escaped          bool    `json:"escaped"`
	Depth            int     `json:"depth"`
	Steps            int     `json:"steps"`
	InCardioidOrBulb bool    `json:"in_cardioid_or_bulb"`
}

func (s *Server) handleClassify(args json.RawMessage) (interface{}, error) {
	var a classifyArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.MaxDepth == 0 {
		a.MaxDepth = fractal.MaxDepth
	}
	if a.MaxDepth < 0 {
		return nil, fmt.Errorf("%w: max_depth %d is negative", config.ErrInvalid, a.MaxDepth)
	}

	c := complex(a.Re, a.Im)
	r := fractal.Classify(c, a.MaxDepth)
	return &ClassifyResult{
		Re:               a.Re,
		Im:               a.Im,
		Escaped:          r.Escaped,
		Depth:            r.Depth,
		Steps:            r.Steps,
		InCardioidOrBulb: fractal.InCardioidOrBulb(c),
	}, nil
}

// === Sampling ===

// runArgs are the sampling parameters shared by the sample and render tools.
// Missing fields select the configured defaults.
type runArgs struct {
	Goal      *int  `json:"goal"`
	MinDepth  *int  `json:"min_depth"`
	MaxDepth  *int  `json:"max_depth"`
	MaxPasses *int  `json:"max_passes"`
	NoJitter  bool  `json:"no_jitter"`
	Seed      int64 `json:"seed"`
	Workers   *int  `json:"workers"`
}

func (a runArgs) apply(cfg *config.Config) {
	setInt(&cfg.Goal, a.Goal)
	setInt(&cfg.MinDepth, a.MinDepth)
	setInt(&cfg.MaxDepth, a.MaxDepth)
	setInt(&cfg.MaxPasses, a.MaxPasses)
	setInt(&cfg.Workers, a.Workers)
	cfg.NoJitter = a.NoJitter
	cfg.RandSeed = a.Seed
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

// validate checks cfg and points out the defaulted bound when only one side
// of the depth window was given.
func (a runArgs) validate(cfg config.Config) error {
	err := cfg.Validate()
	if err == nil || cfg.MinDepth <= cfg.MaxDepth {
		return err
	}
	switch {
	case a.MinDepth == nil && a.MaxDepth != nil:
		return fmt.Errorf("%w (min_depth defaults to %d)", err, cfg.MinDepth)
	case a.MaxDepth == nil && a.MinDepth != nil:
		return fmt.Errorf("%w (max_depth defaults to %d)", err, cfg.MaxDepth)
	}
	return err
}

// sample collects seeds for cfg, extending the seed file seedsIn when set.
// complete is false when the pass budget ran out first; the partial seeds
// are still returned.
func (s *Server) sample(ctx context.Context, cfg config.Config, seedsIn string) (seeds []complex128, complete bool, err error) {
	if seedsIn != "" {
		if seeds, err = s.cache.Load(seedsIn); err != nil {
			return nil, false, err
		}
	}

	smp := sampler.FromConfig(cfg, s.samplerOpts...)
	seeds, err = smp.Sample(ctx, seeds, cfg.Goal, cfg.MinDepth, cfg.MaxDepth)
	if errors.Is(err, sampler.ErrGoalUnreachable) {
		log.Printf("Sampling stopped early: %v", err)
		return seeds, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return seeds, true, nil
}

type sampleArgs struct {
	runArgs
	SeedsIn  string `json:"seeds_in"`
	SeedsOut string `json:"seeds_out"`
}

// SampleResult is the outcome of buddhabrot_sample.
type SampleResult struct {
	Found    int          `json:"found"`
	Goal     int          `json:"goal"`
	Complete bool         `json:"complete"`
	SeedsOut string       `json:"seeds_out,omitempty"`
	Seeds    [][2]float64 `json:"seeds,omitempty"`
}

func (s *Server) handleSample(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a sampleArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	cfg := config.Default()
	a.apply(&cfg)
	if err := a.validate(cfg); err != nil {
		return nil, err
	}

	seeds, complete, err := s.sample(ctx, cfg, a.SeedsIn)
	if err != nil {
		return nil, err
	}

	res := &SampleResult{
		Found:    len(seeds),
		Goal:     cfg.Goal,
		Complete: complete,
	}
	if a.SeedsOut != "" {
		if err := s.cache.Store(a.SeedsOut, seeds); err != nil {
			return nil, err
		}
		res.SeedsOut = a.SeedsOut
		return res, nil
	}

	res.Seeds = make([][2]float64, len(seeds))
	for i, c := range seeds {
		res.Seeds[i] = [2]float64{real(c), imag(c)}
	}
	return res, nil
}

// === Rendering ===

type renderArgs struct {
	runArgs
	SeedsPath   string   `json:"seeds_path"`
	PlotDepth   *int     `json:"plot_depth"`
	Resolution  *int     `json:"resolution"`
	Exponent    *float64 `json:"exponent"`
	Brightness  *float64 `json:"brightness"`
	Output      string   `json:"output"`
	Palette     string   `json:"palette"`
	IncludeEdge bool     `json:"include_edge"`
	Thumbnail   int      `json:"thumbnail"`
}

func (a renderArgs) config() config.Config {
	cfg := config.Default()
	a.apply(&cfg)
	setInt(&cfg.PlotDepth, a.PlotDepth)
	setInt(&cfg.Resolution, a.Resolution)
	if a.Exponent != nil {
		cfg.Exponent = *a.Exponent
	}
	if a.Brightness != nil {
		cfg.Brightness = *a.Brightness
	}
	cfg.Output = a.Output
	cfg.Palette = a.Palette
	cfg.IncludeEdge = a.IncludeEdge
	cfg.Thumbnail = a.Thumbnail
	return cfg
}

// RenderResult is the outcome of buddhabrot_render.
type RenderResult struct {
	Output     string       `json:"output"`
	Thumbnail  string       `json:"thumbnail,omitempty"`
	Seeds      int          `json:"seeds"`
	Complete   bool         `json:"complete"`
	Degenerate bool         `json:"degenerate"`
	Stats      render.Stats `json:"stats"`
	Summary    sink.Summary `json:"summary"`
}

func (s *Server) handleRender(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a renderArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	cfg := a.config()
	if err := a.validate(cfg); err != nil {
		return nil, err
	}
	palette, err := render.ParsePalette(cfg.Palette)
	if err != nil {
		return nil, err
	}

	var seeds []complex128
	complete := true
	if a.SeedsPath != "" {
		seeds, err = s.cache.Load(a.SeedsPath)
	} else {
		seeds, complete, err = s.sample(ctx, cfg, "")
	}
	if err != nil {
		return nil, err
	}

	res, err := render.Render(ctx, seeds, render.Options{
		PlotDepth:   cfg.PlotDepth,
		Resolution:  cfg.Resolution,
		Exponent:    cfg.Exponent,
		Brightness:  cfg.Brightness,
		Workers:     cfg.Workers,
		IncludeEdge: cfg.IncludeEdge,
		Palette:     palette,
	})
	if err != nil {
		return nil, err
	}

	out := &RenderResult{
		Output:     sink.OutputPath(cfg.Output),
		Seeds:      len(seeds),
		Complete:   complete,
		Degenerate: res.Degenerate(),
		Stats:      res.Stats,
		Summary:    sink.Summarize(res.Image),
	}
	if err := sink.WritePNG(out.Output, res.Image); err != nil {
		return nil, err
	}
	if cfg.Thumbnail > 0 {
		out.Thumbnail = sink.ThumbnailPath(cfg.Output)
		if err := sink.WriteThumbnail(out.Thumbnail, res.Image, cfg.Thumbnail); err != nil {
			return nil, err
		}
	}
	return out, nil
}
