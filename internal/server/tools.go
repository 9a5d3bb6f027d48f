package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Text Operations
		{
			Name:        "map_translate_text",
			Description: "Translate Cyrillic map text (Russian or Moldovan Cyrillic) into Latin-script Romanian. Phrase overrides are applied first, then letter-by-letter transliteration.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"text": map[string]interface{}{
						"type":        "string",
						"description": "Text to translate",
					},
					"clean": map[string]interface{}{
						"type":        "boolean",
						"description": "Strip everything except ASCII letters, digits, whitespace and . , ; : - from the result. Default false",
						"default":     false,
					},
				},
				"required": []string{"text"},
			},
		},
		{
			Name:        "map_clean_text",
			Description: "Remove every character that is not an ASCII letter, digit, whitespace or one of . , ; : -",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"text": map[string]interface{}{
						"type":        "string",
						"description": "Text to clean",
					},
				},
				"required": []string{"text"},
			},
		},
		{
			Name:        "map_phrases",
			Description: "List the phrase override dictionary in the order it is applied.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},

		// Image Operations
		{
			Name:        "image_load",
			Description: "Load a map image and return its dimensions and format.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "map_recognize",
			Description: "Run OCR on a map image and return every detected label with its translation, position and confidence. Nothing is written to disk.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "map_process",
			Description: "Run the full pipeline on a map image: OCR, translation, an annotated copy of the map, results.csv and report.txt in a new results directory.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"output_dir": map[string]interface{}{
						"type":        "string",
						"description": "Directory to create the results directory in. Defaults to the configured output directory, or the image's directory",
					},
				},
				"required": []string{"path"},
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
