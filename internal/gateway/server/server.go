// Package server exposes the tool registry and the resource/prompt catalog
// over the gateway's HTTP surface: a ping, the listings and the JSON-RPC
// call endpoint.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/erauner12/toolbridge-genai/internal/gateway/catalog"
	"github.com/erauner12/toolbridge-genai/internal/gateway/tools"
	"github.com/erauner12/toolbridge-genai/internal/httpapi"
	"github.com/erauner12/toolbridge-genai/internal/jsonrpc"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

// ServiceName is reported by the ping endpoint
const ServiceName = "toolbridge-genai-gateway"

// GatewayServer serves the registered tools, resources and prompts over HTTP
type GatewayServer struct {
	registry  *tools.Registry
	resources *catalog.Resources
	prompts   *catalog.Prompts
}

// New creates a gateway server. A nil resources or prompts serves an empty set.
func New(registry *tools.Registry, resources *catalog.Resources, prompts *catalog.Prompts) *GatewayServer {
	return &GatewayServer{registry: registry, resources: resources, prompts: prompts}
}

// Routes builds the gateway router. CORS is open to any origin because the
// browser page fetches the tool listing directly.
func (s *GatewayServer) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(httpapi.CorrelationMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", s.handlePing)
		r.Get("/mcp/tools", s.handleListTools)
		r.Get("/mcp/resources", s.handleListResources)
		r.Get("/mcp/prompts", s.handleListPrompts)
		r.Post("/mcp/tools/call", s.handleToolCall)
	})

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"X-Correlation-ID"},
	})

	return c.Handler(r)
}

func (s *GatewayServer) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{
		"status":  "ok",
		"service": ServiceName,
	})
}

func (s *GatewayServer) handleListTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"tools": s.registry.List(),
	})
}

func (s *GatewayServer) handleListResources(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.resourceListing())
}

func (s *GatewayServer) handleListPrompts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.promptListing())
}

func (s *GatewayServer) resourceListing() map[string]any {
	resources, templates := []catalog.Resource{}, []catalog.ResourceTemplate{}
	if s.resources != nil {
		resources, templates = s.resources.List(), s.resources.Templates()
	}
	return map[string]any{"resources": resources, "resourceTemplates": templates}
}

func (s *GatewayServer) promptListing() map[string]any {
	prompts := []catalog.Prompt{}
	if s.prompts != nil {
		prompts = s.prompts.List()
	}
	return map[string]any{"prompts": prompts}
}

// handleToolCall handles POST /api/mcp/tools/call. Besides tools/call it
// answers the listing methods and resources/read and prompts/get.
func (s *GatewayServer) handleToolCall(w http.ResponseWriter, r *http.Request) {
	var req jsonrpc.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, nil, jsonrpc.ParseError, "invalid JSON-RPC request")
		return
	}

	logger := log.Ctx(r.Context()).With().Str("method", req.Method).Logger()

	switch req.Method {
	case jsonrpc.MethodToolsCall, "":
	case "tools/list":
		s.sendResult(w, req.ID, map[string]any{"tools": s.registry.List()})
		return
	case "resources/list":
		s.sendResult(w, req.ID, s.resourceListing())
		return
	case "prompts/list":
		s.sendResult(w, req.ID, s.promptListing())
		return
	case "resources/read":
		s.handleReadResource(w, req)
		return
	case "prompts/get":
		s.handleGetPrompt(w, req)
		return
	default:
		s.sendError(w, req.ID, jsonrpc.MethodNotFound, fmt.Sprintf("method not found: %s", req.Method))
		return
	}

	var callReq tools.CallRequest
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &callReq); err != nil {
			s.sendError(w, req.ID, jsonrpc.InvalidParams, "invalid tool call parameters")
			return
		}
	}
	if strings.TrimSpace(callReq.Name) == "" {
		s.sendError(w, req.ID, jsonrpc.InvalidParams, "Missing tool name")
		return
	}

	result, err := s.registry.Call(logger.WithContext(r.Context()), callReq)
	if err != nil {
		toolErr := tools.WrapError(err)
		logger.Warn().Err(err).Str("tool", callReq.Name).Msg("tool call failed")

		if toolErr.Code == tools.ErrCodeMethodNotFound {
			s.sendError(w, req.ID, toolErr.JSONRPCCode(), toolErr.Message)
			return
		}
		s.sendError(w, req.ID, toolErr.JSONRPCCode(), "Error calling MCP tool: "+toolErr.Message)
		return
	}

	logger.Debug().Str("tool", callReq.Name).Msg("tool call succeeded")
	s.sendResult(w, req.ID, result)
}

type readResourceParams struct {
	URI string `json:"uri"`
}

func (s *GatewayServer) handleReadResource(w http.ResponseWriter, req jsonrpc.Request) {
	var params readResourceParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			s.sendError(w, req.ID, jsonrpc.InvalidParams, "invalid resource parameters")
			return
		}
	}
	if strings.TrimSpace(params.URI) == "" {
		s.sendError(w, req.ID, jsonrpc.InvalidParams, "Missing resource uri")
		return
	}
	if s.resources == nil {
		s.sendError(w, req.ID, jsonrpc.InvalidParams, "Unknown resource: "+params.URI)
		return
	}

	contents, err := s.resources.Read(params.URI)
	if err != nil {
		toolErr := tools.WrapError(err)
		s.sendError(w, req.ID, toolErr.JSONRPCCode(), toolErr.Message)
		return
	}
	s.sendResult(w, req.ID, map[string]any{"contents": []catalog.ResourceContents{contents}})
}

type getPromptParams struct {
	Name      string            `json:"name"`
	Arguments map[string]string `json:"arguments"`
}

func (s *GatewayServer) handleGetPrompt(w http.ResponseWriter, req jsonrpc.Request) {
	var params getPromptParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			s.sendError(w, req.ID, jsonrpc.InvalidParams, "invalid prompt parameters")
			return
		}
	}
	if strings.TrimSpace(params.Name) == "" {
		s.sendError(w, req.ID, jsonrpc.InvalidParams, "Missing prompt name")
		return
	}
	if s.prompts == nil {
		s.sendError(w, req.ID, jsonrpc.InvalidParams, "Unknown prompt: "+params.Name)
		return
	}

	rendered, err := s.prompts.Get(params.Name, params.Arguments)
	if err != nil {
		toolErr := tools.WrapError(err)
		s.sendError(w, req.ID, toolErr.JSONRPCCode(), toolErr.Message)
		return
	}
	s.sendResult(w, req.ID, rendered)
}

// sendError writes a JSON-RPC error; JSON-RPC errors are still HTTP 200
func (s *GatewayServer) sendError(w http.ResponseWriter, id json.RawMessage, code int, message string) {
	writeJSON(w, jsonrpc.NewError(id, code, message))
}

func (s *GatewayServer) sendResult(w http.ResponseWriter, id json.RawMessage, result any) {
	resp, err := jsonrpc.NewResult(id, result)
	if err != nil {
		s.sendError(w, id, jsonrpc.InternalError, "failed to encode result")
		return
	}
	writeJSON(w, resp)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode json response")
	}
}
