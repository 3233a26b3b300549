package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/erauner12/toolbridge-genai/internal/gateway/catalog"
	"github.com/erauner12/toolbridge-genai/internal/gateway/client"
	"github.com/erauner12/toolbridge-genai/internal/gateway/tools"
	"github.com/erauner12/toolbridge-genai/internal/jsonrpc"
)

type stubGenerator struct {
	err error
}

func (g *stubGenerator) GenerateText(_ context.Context, prompt string, _ float64, _ int) (string, error) {
	return "echo: " + prompt, g.err
}

func (g *stubGenerator) AnalyzeImage(context.Context, []byte, string, string) (string, error) {
	return "an image", g.err
}

func (g *stubGenerator) Chat(_ context.Context, messages []tools.ChatMessage, _ float64) (string, error) {
	return "reply to: " + messages[len(messages)-1].Content, g.err
}

func newTestGateway(t *testing.T, gen tools.Generator) *httptest.Server {
	t.Helper()

	registry := tools.NewRegistry()
	tools.RegisterAllTools(registry, gen)

	resources := catalog.NewResources(catalog.AppInfo{Name: "genai", Version: "test", Environment: "test"}, catalog.DemoProfiles())
	server := httptest.NewServer(New(registry, resources, catalog.NewPrompts()).Routes())
	t.Cleanup(server.Close)
	return server
}

func callRaw(t *testing.T, server *httptest.Server, body string) jsonrpc.Response {
	t.Helper()

	resp, err := http.Post(server.URL+"/api/mcp/tools/call", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var out jsonrpc.Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	return out
}

func TestAddNumbers_RoundTripThroughClient(t *testing.T) {
	server := newTestGateway(t, &stubGenerator{})
	c := client.New(server.URL, 0)

	got, err := c.CallTool(context.Background(), client.ToolAddNumbers, map[string]any{"a": 2.5, "b": 4.0})
	if err != nil {
		t.Fatalf("AddNumbers failed: %v", err)
	}
	if got != "6.5" {
		t.Errorf("sum = %s, want 6.5", got)
	}
}

func TestGenerateText_RoundTripThroughClient(t *testing.T) {
	server := newTestGateway(t, &stubGenerator{})
	c := client.New(server.URL, 0)

	got, err := c.CallTool(context.Background(), client.ToolGenerateText, map[string]any{"prompt": "hi", "max_tokens": 10})
	if err != nil {
		t.Fatalf("GenerateText failed: %v", err)
	}
	if got != "echo: hi" {
		t.Errorf("got %q", got)
	}
}

func TestToolFailure_SurfacesAsRemoteError(t *testing.T) {
	server := newTestGateway(t, &stubGenerator{err: errors.New("quota exceeded")})
	c := client.New(server.URL, 0)

	_, err := c.CallTool(context.Background(), client.ToolGenerateText, map[string]any{"prompt": "hi"})

	var remote *client.RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("expected RemoteError, got %v", err)
	}
	if !strings.HasPrefix(remote.Message, "Error calling MCP tool: ") || !strings.Contains(remote.Message, "quota exceeded") {
		t.Errorf("unexpected message %q", remote.Message)
	}
	if remote.Code != jsonrpc.InternalError {
		t.Errorf("code = %d, want %d", remote.Code, jsonrpc.InternalError)
	}
}

func TestToolCall_Errors(t *testing.T) {
	server := newTestGateway(t, &stubGenerator{})

	tests := []struct {
		name        string
		body        string
		wantCode    int
		wantMessage string
	}{
		{
			name:        "invalid json",
			body:        `{not json`,
			wantCode:    jsonrpc.ParseError,
			wantMessage: "invalid JSON-RPC request",
		},
		{
			name:        "missing tool name",
			body:        `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"arguments":{}}}`,
			wantCode:    jsonrpc.InvalidParams,
			wantMessage: "Missing tool name",
		},
		{
			name:        "unknown tool",
			body:        `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"nope","arguments":{}}}`,
			wantCode:    jsonrpc.MethodNotFound,
			wantMessage: "Tool not found: nope",
		},
		{
			name:        "invalid arguments",
			body:        `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"add_numbers","arguments":{"a":1}}}`,
			wantCode:    jsonrpc.InvalidParams,
			wantMessage: "Error calling MCP tool: a and b are required",
		},
		{
			name:        "unsupported method",
			body:        `{"jsonrpc":"2.0","id":1,"method":"sampling/createMessage"}`,
			wantCode:    jsonrpc.MethodNotFound,
			wantMessage: "method not found: sampling/createMessage",
		},
		{
			name:        "unknown resource",
			body:        `{"jsonrpc":"2.0","id":1,"method":"resources/read","params":{"uri":"files://etc/passwd"}}`,
			wantCode:    jsonrpc.InvalidParams,
			wantMessage: "Unknown resource: files://etc/passwd",
		},
		{
			name:        "missing resource uri",
			body:        `{"jsonrpc":"2.0","id":1,"method":"resources/read","params":{}}`,
			wantCode:    jsonrpc.InvalidParams,
			wantMessage: "Missing resource uri",
		},
		{
			name:        "prompt missing argument",
			body:        `{"jsonrpc":"2.0","id":1,"method":"prompts/get","params":{"name":"analyze_data","arguments":{}}}`,
			wantCode:    jsonrpc.InvalidParams,
			wantMessage: "Missing prompt argument: data",
		},
		{
			name:        "unknown prompt",
			body:        `{"jsonrpc":"2.0","id":1,"method":"prompts/get","params":{"name":"nope"}}`,
			wantCode:    jsonrpc.InvalidParams,
			wantMessage: "Unknown prompt: nope",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := callRaw(t, server, tt.body)

			if resp.Error == nil {
				t.Fatalf("expected error, got result %s", resp.Result)
			}
			if resp.Error.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", resp.Error.Code, tt.wantCode)
			}
			if resp.Error.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", resp.Error.Message, tt.wantMessage)
			}
		})
	}
}

func TestToolCall_ResultShape(t *testing.T) {
	server := newTestGateway(t, &stubGenerator{})

	resp := callRaw(t, server, `{"jsonrpc":"2.0","id":7,"method":"tools/call","params":{"name":"add_numbers","arguments":{"a":1,"b":2}}}`)
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
	if string(resp.ID) != "7" {
		t.Errorf("id = %s, want 7", resp.ID)
	}

	var result jsonrpc.ToolCallResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if len(result.Content) != 1 || result.Content[0].Type != "text" || result.Content[0].Text != "3" {
		t.Errorf("unexpected content: %+v", result.Content)
	}
}

func TestListToolsAndPing_ThroughClient(t *testing.T) {
	server := newTestGateway(t, &stubGenerator{})
	c := client.New(server.URL, 0)

	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}

	list, err := c.ListTools(context.Background())
	if err != nil {
		t.Fatalf("ListTools failed: %v", err)
	}

	want := []string{client.ToolGenerateText, client.ToolAnalyzeImage, client.ToolChatWithGemini, client.ToolAddNumbers}
	if len(list) != len(want) {
		t.Fatalf("expected %d tools, got %d", len(want), len(list))
	}
	for i, name := range want {
		if list[i].Name != name {
			t.Errorf("tool %d = %s, want %s", i, list[i].Name, name)
		}
		if list[i].InputSchema == nil {
			t.Errorf("tool %s has no input schema", name)
		}
	}
}

func TestCORS_AllowsAnyOrigin(t *testing.T) {
	server := newTestGateway(t, &stubGenerator{})

	req, _ := http.NewRequest(http.MethodGet, server.URL+"/api/mcp/tools", nil)
	req.Header.Set("Origin", "http://localhost:3000")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}

func TestChat_RoundTripThroughClient(t *testing.T) {
	server := newTestGateway(t, &stubGenerator{})
	c := client.New(server.URL, 0)

	got, err := c.CallTool(context.Background(), client.ToolChatWithGemini, map[string]any{
		"messages": []map[string]string{
			{"role": "user", "content": "hi"},
			{"role": "assistant", "content": "hello"},
			{"role": "user", "content": "tell me a joke"},
		},
	})
	if err != nil {
		t.Fatalf("chat failed: %v", err)
	}
	if got != "reply to: tell me a joke" {
		t.Errorf("got %q", got)
	}
}

func TestUnavailableGenerator_SurfacesThroughGateway(t *testing.T) {
	server := newTestGateway(t, tools.UnavailableGenerator{Reason: "API key is not set"})

	resp := callRaw(t, server, `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"generate_text","arguments":{"prompt":"hi"}}}`)
	if resp.Error == nil || resp.Error.Code != jsonrpc.InternalError {
		t.Fatalf("expected internal error, got %+v", resp)
	}
	if !strings.Contains(resp.Error.Message, "generative model unavailable: API key is not set") {
		t.Errorf("unexpected message %q", resp.Error.Message)
	}
}

func getJSON(t *testing.T, url string, out any) {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
}

func TestResourcesAndPromptsRoutes(t *testing.T) {
	server := newTestGateway(t, &stubGenerator{})

	var resources struct {
		Resources         []catalog.Resource         `json:"resources"`
		ResourceTemplates []catalog.ResourceTemplate `json:"resourceTemplates"`
	}
	getJSON(t, server.URL+"/api/mcp/resources", &resources)
	if len(resources.Resources) != 1 || resources.Resources[0].URI != "config://app" {
		t.Errorf("unexpected resources: %+v", resources.Resources)
	}
	if len(resources.ResourceTemplates) != 1 || resources.ResourceTemplates[0].URITemplate != "users://{user_id}/profile" {
		t.Errorf("unexpected templates: %+v", resources.ResourceTemplates)
	}

	var prompts struct {
		Prompts []catalog.Prompt `json:"prompts"`
	}
	getJSON(t, server.URL+"/api/mcp/prompts", &prompts)
	if len(prompts.Prompts) != 1 || prompts.Prompts[0].Name != "analyze_data" {
		t.Errorf("unexpected prompts: %+v", prompts.Prompts)
	}
}

func TestNilCatalog_ServesEmptyListings(t *testing.T) {
	registry := tools.NewRegistry()
	server := httptest.NewServer(New(registry, nil, nil).Routes())
	t.Cleanup(server.Close)

	var resources map[string][]json.RawMessage
	getJSON(t, server.URL+"/api/mcp/resources", &resources)
	if resources["resources"] == nil || len(resources["resources"]) != 0 {
		t.Errorf("expected an empty resource list, got %v", resources)
	}

	resp := callRaw(t, server, `{"jsonrpc":"2.0","id":1,"method":"resources/read","params":{"uri":"config://app"}}`)
	if resp.Error == nil || resp.Error.Code != jsonrpc.InvalidParams {
		t.Errorf("expected invalid params, got %+v", resp)
	}
}

func TestResourcesRead_JSONRPC(t *testing.T) {
	server := newTestGateway(t, &stubGenerator{})

	tests := []struct {
		name     string
		uri      string
		wantText string
	}{
		{"app config", "config://app", `"version": "test"`},
		{"known user", "users://1/profile", `"email": "john@example.com"`},
		{"unknown user", "users://42/profile", `"error": "User not found"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, _ := json.Marshal(map[string]string{"uri": tt.uri})
			resp := callRaw(t, server, `{"jsonrpc":"2.0","id":3,"method":"resources/read","params":`+string(params)+`}`)
			if resp.Error != nil {
				t.Fatalf("unexpected error: %+v", resp.Error)
			}

			var result struct {
				Contents []catalog.ResourceContents `json:"contents"`
			}
			if err := json.Unmarshal(resp.Result, &result); err != nil {
				t.Fatalf("decode result: %v", err)
			}
			if len(result.Contents) != 1 || result.Contents[0].URI != tt.uri {
				t.Fatalf("unexpected contents: %+v", result.Contents)
			}
			if !strings.Contains(result.Contents[0].Text, tt.wantText) {
				t.Errorf("text %q does not contain %q", result.Contents[0].Text, tt.wantText)
			}
		})
	}
}

func TestPromptsGet_JSONRPC(t *testing.T) {
	server := newTestGateway(t, &stubGenerator{})

	resp := callRaw(t, server, `{"jsonrpc":"2.0","id":4,"method":"prompts/get","params":{"name":"analyze_data","arguments":{"data":"sales: 10, 12, 90"}}}`)
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}

	var rendered catalog.RenderedPrompt
	if err := json.Unmarshal(resp.Result, &rendered); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if len(rendered.Messages) != 1 || !strings.Contains(rendered.Messages[0].Content.Text, "sales: 10, 12, 90") {
		t.Errorf("unexpected prompt: %+v", rendered)
	}
}

func TestListMethods_JSONRPC(t *testing.T) {
	server := newTestGateway(t, &stubGenerator{})

	for _, method := range []string{"resources/list", "prompts/list"} {
		resp := callRaw(t, server, `{"jsonrpc":"2.0","id":5,"method":"`+method+`"}`)
		if resp.Error != nil {
			t.Errorf("%s: unexpected error %+v", method, resp.Error)
		}
		if len(resp.Result) == 0 {
			t.Errorf("%s: empty result", method)
		}
	}
}
