// Package client is the adapter between this service and the tool-invocation gateway.
//
// Every call builds a fixed tools/call envelope, sends it with exactly one POST
// and unwraps the text of the first content item. No retries are attempted.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/erauner12/toolbridge-genai/internal/jsonrpc"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// Tool names understood by the gateway
const (
	ToolGenerateText   = "generate_text"
	ToolAnalyzeImage   = "analyze_image"
	ToolChatWithGemini = "chat_with_gemini"
	ToolAddNumbers     = "add_numbers"
)

// KnownTools lists every tool this adapter may invoke
var KnownTools = []string{ToolGenerateText, ToolAnalyzeImage, ToolChatWithGemini, ToolAddNumbers}

const (
	// RequestID is the envelope id sent with every call; the gateway does not correlate on it
	RequestID = 1

	callPath  = "/api/mcp/tools/call"
	toolsPath = "/api/mcp/tools"
	pingPath  = "/api/ping"
)

// ToolDescriptor is one entry of the gateway's tool listing
type ToolDescriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema,omitempty"`
}

// Client talks to a single gateway base URL
type Client struct {
	baseURL    string
	httpClient *http.Client
	nextID     func() any
}

// New creates a gateway client. A zero timeout leaves calls bounded only by the caller's context.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		nextID:     func() any { return RequestID },
	}
}

// WithRequestIDs replaces the constant envelope id with ids from fn
func (c *Client) WithRequestIDs(fn func() any) *Client {
	c.nextID = fn
	return c
}

// BaseURL returns the gateway address this client targets
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CallTool invokes a named tool and returns the text of the first content item.
// A declared gateway error is returned as *RemoteError.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	if !lo.Contains(KnownTools, name) {
		return "", fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	if args == nil {
		args = map[string]any{}
	}

	envelope, err := jsonrpc.NewToolCall(c.nextID(), name, args)
	if err != nil {
		return "", fmt.Errorf("failed to build envelope: %w", err)
	}
	body, err := json.Marshal(envelope)
	if err != nil {
		return "", fmt.Errorf("failed to encode envelope: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+callPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	logger := c.logger(ctx, req).With().Str("tool", name).Logger()

	resp, err := c.do(req, &logger)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var rpcResp jsonrpc.Response
	if err := decodeBody(resp, &rpcResp); err != nil {
		return "", err
	}

	if rpcResp.Error != nil {
		logger.Warn().
			Int("code", rpcResp.Error.Code).
			Str("remote_message", rpcResp.Error.Message).
			Msg("gateway declared tool error")
		return "", &RemoteError{Code: rpcResp.Error.Code, Message: rpcResp.Error.Message}
	}
	if len(rpcResp.Result) == 0 {
		return "", ErrMalformedResponse
	}

	var result jsonrpc.ToolCallResult
	if err := json.Unmarshal(rpcResp.Result, &result); err != nil {
		return "", fmt.Errorf("failed to decode tool result: %w", err)
	}

	first, ok := lo.First(result.Content)
	if !ok {
		return "", ErrEmptyContent
	}
	if result.IsError {
		logger.Warn().Str("remote_message", first.Text).Msg("gateway reported tool failure in result")
		return "", &RemoteError{Message: first.Text}
	}
	return first.Text, nil
}

// ListTools fetches the gateway's tool descriptors in the order received
func (c *Client) ListTools(ctx context.Context) ([]ToolDescriptor, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+toolsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	logger := c.logger(ctx, req)
	resp, err := c.do(req, &logger)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var listing struct {
		Tools []ToolDescriptor `json:"tools"`
	}
	if err := decodeBody(resp, &listing); err != nil {
		return nil, err
	}
	if listing.Tools == nil {
		return []ToolDescriptor{}, nil
	}
	return listing.Tools, nil
}

// Ping checks that the gateway answers its health endpoint
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+pingPath, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	logger := c.logger(ctx, req)
	resp, err := c.do(req, &logger)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ErrUnexpectedStatus{StatusCode: resp.StatusCode}
	}
	return nil
}

// logger builds a request-scoped logger. A correlation id taken from ctx is already
// on the context logger (see WithCorrelationID); a generated one is added here.
func (c *Client) logger(ctx context.Context, req *http.Request) zerolog.Logger {
	base := contextLogger(ctx)
	lc := base.With().
		Str("method", req.Method).
		Str("url", req.URL.String())

	correlationID := CorrelationIDFromContext(ctx)
	if correlationID == "" {
		correlationID = uuid.New().String()
		lc = lc.Str(correlationIDField, correlationID)
	}
	req.Header.Set("X-Correlation-ID", correlationID)

	return lc.Logger()
}

// do executes exactly one HTTP round trip
func (c *Client) do(req *http.Request, logger *zerolog.Logger) (*http.Response, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		logger.Error().Err(err).Dur("duration", duration).Msg("gateway request failed")
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}

	logger.Debug().
		Int("status", resp.StatusCode).
		Dur("duration", duration).
		Msg("gateway request completed")

	return resp, nil
}

// decodeBody decodes a JSON body regardless of status; the gateway reports errors in-band.
// Undecodable non-2xx bodies surface as ErrUnexpectedStatus.
func decodeBody(resp *http.Response, v any) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read gateway response: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return ErrUnexpectedStatus{StatusCode: resp.StatusCode}
		}
		return fmt.Errorf("failed to decode gateway response: %w", err)
	}
	return nil
}
