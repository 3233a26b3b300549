package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/erauner12/toolbridge-genai/internal/gateway/client"
	"github.com/rs/zerolog/log"
)

// Generic failure messages returned when the cause is not a declared gateway error
const (
	msgAddFailed      = "Failed to call MCP tool"
	msgGenerateFailed = "Failed to call Gemini API"
	msgAnalyzeFailed  = "Failed to analyze image with Gemini"
)

// Request bodies keep each field as raw JSON: a mistyped value is forwarded
// unchanged and fails at the gateway, and an absent field is left out.

// addNumbersReq is the request body for POST /api/mcp-add
type addNumbersReq struct {
	A json.RawMessage `json:"a"`
	B json.RawMessage `json:"b"`
}

func (b addNumbersReq) arguments() map[string]any {
	args := map[string]any{}
	putRaw(args, "a", b.A)
	putRaw(args, "b", b.B)
	return args
}

// generateTextReq is the request body for POST /api/gemini-generate
type generateTextReq struct {
	Prompt      json.RawMessage `json:"prompt"`
	Temperature json.RawMessage `json:"temperature"`
	MaxTokens   json.RawMessage `json:"maxTokens"`
}

func (b generateTextReq) arguments() map[string]any {
	args := map[string]any{}
	putRaw(args, "prompt", b.Prompt)
	putRaw(args, "temperature", b.Temperature)
	putRaw(args, "max_tokens", b.MaxTokens)
	return args
}

// analyzeImageReq is the request body for POST /api/gemini-analyze-image.
// ImageData is base64 without the data URL prefix.
type analyzeImageReq struct {
	ImageData json.RawMessage `json:"imageData"`
	Prompt    json.RawMessage `json:"prompt"`
}

func (b analyzeImageReq) arguments() map[string]any {
	args := map[string]any{}
	putRaw(args, "image_data", b.ImageData)
	putRaw(args, "prompt", b.Prompt)
	return args
}

// toolRequest is a decoded browser body that maps onto gateway arguments
type toolRequest interface {
	arguments() map[string]any
}

// putRaw sets key only when the browser sent the field
func putRaw(args map[string]any, key string, v json.RawMessage) {
	if len(v) > 0 {
		args[key] = v
	}
}

// resultResp is the success body of every proxy endpoint
type resultResp struct {
	Result string `json:"result"`
}

// errorResp is the failure body of every proxy endpoint
type errorResp struct {
	Error string `json:"error"`
}

// AddNumbers handles POST /api/mcp-add
func (s *Server) AddNumbers(w http.ResponseWriter, r *http.Request) {
	var body addNumbersReq
	s.proxy(w, r, &body, client.ToolAddNumbers, msgAddFailed)
}

// GenerateText handles POST /api/gemini-generate
func (s *Server) GenerateText(w http.ResponseWriter, r *http.Request) {
	var body generateTextReq
	s.proxy(w, r, &body, client.ToolGenerateText, msgGenerateFailed)
}

// AnalyzeImage handles POST /api/gemini-analyze-image
func (s *Server) AnalyzeImage(w http.ResponseWriter, r *http.Request) {
	var body analyzeImageReq
	s.proxy(w, r, &body, client.ToolAnalyzeImage, msgAnalyzeFailed)
}

// proxy decodes the body, invokes the tool and writes {result} or {error}.
// Declared gateway errors pass their message through; every other failure
// collapses to the endpoint's generic message and is only logged.
func (s *Server) proxy(w http.ResponseWriter, r *http.Request, body toolRequest, tool, genericMsg string) {
	ctx := r.Context()
	logger := log.Ctx(ctx).With().Str("tool", tool).Logger()

	if err := json.NewDecoder(r.Body).Decode(body); err != nil {
		logger.Error().Err(err).Msg(genericMsg)
		writeJSON(w, http.StatusInternalServerError, errorResp{Error: genericMsg})
		return
	}

	result, err := s.Gateway.CallTool(ctx, tool, body.arguments())
	if err != nil {
		var remoteErr *client.RemoteError
		if errors.As(err, &remoteErr) {
			writeJSON(w, http.StatusInternalServerError, errorResp{Error: remoteErr.Message})
			return
		}

		logger.Error().Err(err).Msg(genericMsg)
		writeJSON(w, http.StatusInternalServerError, errorResp{Error: genericMsg})
		return
	}

	logger.Debug().Int("resultLength", len(result)).Msg("tool call succeeded")
	writeJSON(w, http.StatusOK, resultResp{Result: result})
}
