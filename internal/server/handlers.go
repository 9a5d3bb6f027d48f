package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/map-translate/internal/imaging"
	"github.com/ironsheep/map-translate/internal/mapproc"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "map_translate_text", "map_process").
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
		s.log.Warn("tool failed", "tool", params.Name, "err", err)
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
	switch name {
	// Text Operations
	case "map_translate_text":
		return s.handleTranslateText(args)
	case "map_clean_text":
		return s.handleCleanText(args)
	case "map_phrases":
		return s.handlePhrases()

	// Image Operations
	case "image_load":
		return s.handleImageLoad(args)
	case "map_recognize":
		return s.handleRecognize(ctx, args)
	case "map_process":
		return s.handleProcess(ctx, args)

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

// decodeArgs unmarshals tool arguments, treating missing arguments as {}.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// === Text Handlers ===

type translateTextArgs struct {
	Text  string `json:"text"`
	Clean *bool  `json:"clean"`
}

// TranslateResult is the result of map_translate_text.
type TranslateResult struct {
	Original string `json:"original"`
	Romanian string `json:"romanian"`
	Cleaned  bool   `json:"cleaned"`
}

func (s *Server) handleTranslateText(args json.RawMessage) (interface{}, error) {
	var a translateTextArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	clean := s.cfg.Translate.Clean
	if a.Clean != nil {
		clean = *a.Clean
	}

	out := s.translator.Translate(a.Text)
	if clean {
		out = s.translator.CleanText(out)
	}
	return &TranslateResult{Original: a.Text, Romanian: out, Cleaned: clean}, nil
}

type cleanTextArgs struct {
	Text string `json:"text"`
}

func (s *Server) handleCleanText(args json.RawMessage) (interface{}, error) {
	var a cleanTextArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return map[string]string{"text": s.translator.CleanText(a.Text)}, nil
}

func (s *Server) handlePhrases() (interface{}, error) {
	return map[string]interface{}{"phrases": s.translator.Phrases()}, nil
}

// === Image Handlers ===

type pathArgs struct {
	Path string `json:"path"`
}

func (a *pathArgs) validate() error {
	if a.Path == "" {
		return errors.New("path is required")
	}
	return nil
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

// RecognizeResult is the result of map_recognize.
type RecognizeResult struct {
	Path   string          `json:"path"`
	Count  int             `json:"count"`
	Points []mapproc.Point `json:"points"`
}

func (s *Server) handleRecognize(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	enhanced := imaging.Enhance(img, s.cfg.Preprocess.Contrast)

	points, err := mapproc.RecognizePoints(ctx, enhanced, s.recognizer, s.translator, s.cfg.Translate.Clean)
	if err != nil {
		return nil, err
	}
	return &RecognizeResult{Path: a.Path, Count: len(points), Points: points}, nil
}

type processArgs struct {
	Path      string `json:"path"`
	OutputDir string `json:"output_dir"`
}

// ProcessResult is the result of map_process.
type ProcessResult struct {
	Path       string          `json:"path"`
	ResultsDir string          `json:"results_dir"`
	Count      int             `json:"count"`
	Points     []mapproc.Point `json:"points"`
}

func (s *Server) handleProcess(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a processArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}

	outputDir := a.OutputDir
	if outputDir == "" {
		outputDir = s.cfg.Output.Dir
	}

	p, err := mapproc.New(a.Path, mapproc.Options{
		Recognizer: s.recognizer,
		Translator: s.translator,
		Cache:      s.cache,
		Logger:     s.log,
		OutputRoot: outputDir,
		Debug:      s.cfg.Output.Debug,
		Contrast:   s.cfg.Preprocess.Contrast,
		CleanText:  s.cfg.Translate.Clean,
		Style:      s.cfg.Overlay,
	})
	if err != nil {
		return nil, err
	}

	points, err := p.Process(ctx)
	if err != nil {
		return nil, err
	}
	return &ProcessResult{
		Path:       a.Path,
		ResultsDir: p.ResultsDir(),
		Count:      len(points),
		Points:     points,
	}, nil
}
