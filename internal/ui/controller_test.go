package ui

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/erauner12/toolbridge-genai/internal/gateway/client"
)

type fakeLister struct {
	tools []client.ToolDescriptor
	err   error
}

func (f *fakeLister) ListTools(context.Context) ([]client.ToolDescriptor, error) {
	return f.tools, f.err
}

// proxyStub records requests sent to the proxy endpoints
type proxyStub struct {
	mu     sync.Mutex
	paths  []string
	bodies []map[string]any
}

func newProxyStub(t *testing.T, respond string) (*httptest.Server, *proxyStub) {
	t.Helper()

	stub := &proxyStub{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)

		stub.mu.Lock()
		stub.paths = append(stub.paths, r.URL.Path)
		stub.bodies = append(stub.bodies, body)
		stub.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(respond))
	}))
	t.Cleanup(server.Close)
	return server, stub
}

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func TestAnalyzeImage_SendsStrippedBase64(t *testing.T) {
	server, stub := newProxyStub(t, `{"result":"a cat"}`)
	c := NewController(server.URL, &fakeLister{}, server.Client())

	c.SelectImage("photo.png", pngBytes)
	c.SetImagePrompt("what is this?")
	c.AnalyzeImage(context.Background())

	if len(stub.bodies) != 1 {
		t.Fatalf("expected 1 request, got %d", len(stub.bodies))
	}
	if stub.paths[0] != "/api/gemini-analyze-image" {
		t.Errorf("unexpected path %s", stub.paths[0])
	}

	want := base64.StdEncoding.EncodeToString(pngBytes)
	if got := stub.bodies[0]["imageData"]; got != want {
		t.Errorf("imageData = %v, want %s", got, want)
	}
	if got := stub.bodies[0]["prompt"]; got != "what is this?" {
		t.Errorf("prompt = %v", got)
	}

	state := c.Snapshot()
	if state.Result != "a cat" {
		t.Errorf("expected result 'a cat', got %q", state.Result)
	}
	if state.Loading {
		t.Error("expected loading to be cleared")
	}
}

func TestAnalyzeImage_RequiresImageAndPrompt(t *testing.T) {
	server, stub := newProxyStub(t, `{"result":"x"}`)
	c := NewController(server.URL, &fakeLister{}, server.Client())

	c.SetImagePrompt("describe")
	c.AnalyzeImage(context.Background())

	c.SelectImage("photo.png", pngBytes)
	c.SetImagePrompt("   ")
	c.AnalyzeImage(context.Background())

	if len(stub.bodies) != 0 {
		t.Errorf("expected no requests, got %d", len(stub.bodies))
	}
}

func TestSelectImage_ReplacesPrevious(t *testing.T) {
	c := NewController("http://unused", &fakeLister{}, nil)

	c.SelectImage("first.png", pngBytes)
	c.SelectImage("second.gif", []byte("GIF89a"))

	state := c.Snapshot()
	if state.SelectedImage.Name != "second.gif" {
		t.Errorf("expected second image selected, got %s", state.SelectedImage.Name)
	}
	want := "data:image/gif;base64," + base64.StdEncoding.EncodeToString([]byte("GIF89a"))
	if state.ImagePreview != want {
		t.Errorf("preview = %s, want %s", state.ImagePreview, want)
	}
}

func TestGenerateText(t *testing.T) {
	tests := []struct {
		name    string
		respond string
		want    string
	}{
		{"result", `{"result":"hello there"}`, "hello there"},
		{"error string lands in result slot", `{"error":"Failed to call Gemini API"}`, "Failed to call Gemini API"},
		{"undecodable response", `not json`, ErrGenerateText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, stub := newProxyStub(t, tt.respond)
			c := NewController(server.URL, &fakeLister{}, server.Client())

			c.SetTextPrompt("say hi")
			c.GenerateText(context.Background())

			if len(stub.bodies) != 1 || stub.bodies[0]["prompt"] != "say hi" {
				t.Fatalf("unexpected requests: %v", stub.bodies)
			}
			if got := c.Snapshot().Result; got != tt.want {
				t.Errorf("result = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenerateText_BlankPromptIsIgnored(t *testing.T) {
	server, stub := newProxyStub(t, `{"result":"x"}`)
	c := NewController(server.URL, &fakeLister{}, server.Client())

	c.SetTextPrompt(" \n\t")
	c.GenerateText(context.Background())

	if len(stub.bodies) != 0 {
		t.Errorf("expected no requests, got %d", len(stub.bodies))
	}
}

func TestGenerateText_ProxyUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	c := NewController(url, &fakeLister{}, nil)
	c.SetTextPrompt("hi")
	c.GenerateText(context.Background())

	state := c.Snapshot()
	if state.Result != ErrGenerateText {
		t.Errorf("result = %q, want %q", state.Result, ErrGenerateText)
	}
	if state.Loading {
		t.Error("expected loading to be cleared")
	}
}

func TestLoadTools_RenderInOrder(t *testing.T) {
	lister := &fakeLister{tools: []client.ToolDescriptor{
		{Name: "generate_text", Description: "Generate text using Gemini."},
		{Name: "analyze_image", Description: "Analyze an image."},
		{Name: "add_numbers", Description: "Add two numbers."},
	}}
	c := NewController("http://unused", lister, nil)

	c.LoadTools(context.Background())

	var buf bytes.Buffer
	if err := c.RenderTools(&buf); err != nil {
		t.Fatalf("RenderTools failed: %v", err)
	}

	want := "1. generate_text\n   Generate text using Gemini.\n" +
		"2. analyze_image\n   Analyze an image.\n" +
		"3. add_numbers\n   Add two numbers.\n"
	if buf.String() != want {
		t.Errorf("rendered:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestLoadTools_EmptyAndFailure(t *testing.T) {
	tests := []struct {
		name   string
		lister *fakeLister
	}{
		{"empty listing", &fakeLister{tools: []client.ToolDescriptor{}}},
		{"listing fails", &fakeLister{err: errors.New("connection refused")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController("http://unused", tt.lister, nil)
			c.LoadTools(context.Background())

			var buf bytes.Buffer
			if err := c.RenderTools(&buf); err != nil {
				t.Fatalf("RenderTools failed: %v", err)
			}
			if buf.Len() != 0 {
				t.Errorf("expected no rows, got %q", buf.String())
			}
		})
	}
}

func TestStripDataURLPrefix(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"data:image/png;base64,iVBORw0KGgo=", "iVBORw0KGgo="},
		{"data:image/jpeg;base64,", ""},
		{"iVBORw0KGgo=", "iVBORw0KGgo="},
	}

	for _, tt := range tests {
		if got := StripDataURLPrefix(tt.in); got != tt.want {
			t.Errorf("StripDataURLPrefix(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEncodeDataURL_SniffsWithoutExtension(t *testing.T) {
	got := EncodeDataURL("noext", pngBytes)
	want := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
	if got != want {
		t.Errorf("EncodeDataURL = %s, want %s", got, want)
	}
}
