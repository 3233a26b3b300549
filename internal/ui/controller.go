// Package ui is the Go view controller behind the text, image and tool views.
//
// It owns one session's state and drives the proxy endpoints the same way the
// browser page does. Requests are not serialized: when two are in flight the
// later response overwrites the result.
package ui

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"sync"

	"github.com/erauner12/toolbridge-genai/internal/gateway/client"
	"github.com/rs/zerolog/log"
)

// Failure strings shown in the result slot when a proxy call cannot complete
const (
	ErrGenerateText = "Error: Failed to generate text"
	ErrAnalyzeImage = "Error: Failed to analyze image"
)

// ToolLister fetches the gateway's tool listing
type ToolLister interface {
	ListTools(ctx context.Context) ([]client.ToolDescriptor, error)
}

// Image is a locally selected image file
type Image struct {
	Name string
	Data []byte
}

// State is a snapshot of one session's UI state
type State struct {
	Tools         []client.ToolDescriptor
	TextPrompt    string
	ImagePrompt   string
	SelectedImage *Image
	ImagePreview  string // data URL of the selected image
	Result        string
	Loading       bool
}

// Controller holds the state of a single UI session
type Controller struct {
	mu         sync.Mutex
	state      State
	proxyURL   string
	httpClient *http.Client
	tools      ToolLister
}

// NewController creates a controller posting to the proxy at proxyURL
func NewController(proxyURL string, tools ToolLister, httpClient *http.Client) *Controller {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Controller{
		proxyURL:   strings.TrimRight(proxyURL, "/"),
		httpClient: httpClient,
		tools:      tools,
	}
}

// Snapshot returns a copy of the current state
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	s.Tools = append([]client.ToolDescriptor(nil), c.state.Tools...)
	return s
}

// SetTextPrompt updates the text generation prompt
func (c *Controller) SetTextPrompt(prompt string) {
	c.update(func(s *State) { s.TextPrompt = prompt })
}

// SetImagePrompt updates the image analysis prompt
func (c *Controller) SetImagePrompt(prompt string) {
	c.update(func(s *State) { s.ImagePrompt = prompt })
}

// SelectImage replaces the selected image and its preview
func (c *Controller) SelectImage(name string, data []byte) {
	img := &Image{Name: name, Data: data}
	preview := EncodeDataURL(name, data)
	c.update(func(s *State) {
		s.SelectedImage = img
		s.ImagePreview = preview
	})
}

// LoadTools fetches the tool listing once. Failures are logged and leave the list empty.
func (c *Controller) LoadTools(ctx context.Context) {
	tools, err := c.tools.ListTools(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Error fetching MCP data")
		return
	}
	c.update(func(s *State) { s.Tools = tools })
}

// GenerateText submits the text prompt. A blank prompt is ignored.
func (c *Controller) GenerateText(ctx context.Context) {
	snap := c.Snapshot()
	if strings.TrimSpace(snap.TextPrompt) == "" {
		return
	}

	c.submit(ctx, "/api/gemini-generate", map[string]any{"prompt": snap.TextPrompt}, ErrGenerateText)
}

// AnalyzeImage submits the selected image with the image prompt.
// Nothing is sent without an image or with a blank prompt.
func (c *Controller) AnalyzeImage(ctx context.Context) {
	snap := c.Snapshot()
	if snap.SelectedImage == nil || strings.TrimSpace(snap.ImagePrompt) == "" {
		return
	}

	dataURL := EncodeDataURL(snap.SelectedImage.Name, snap.SelectedImage.Data)
	body := map[string]any{
		"imageData": StripDataURLPrefix(dataURL),
		"prompt":    snap.ImagePrompt,
	}
	c.submit(ctx, "/api/gemini-analyze-image", body, ErrAnalyzeImage)
}

// submit runs idle -> loading -> idle-with-result; failures land in the same result slot
func (c *Controller) submit(ctx context.Context, path string, body any, failure string) {
	c.update(func(s *State) { s.Loading = true })
	defer c.update(func(s *State) { s.Loading = false })

	result, err := c.postJSON(ctx, path, body)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg(failure)
		result = failure
	}
	c.update(func(s *State) { s.Result = result })
}

// postJSON posts to a proxy endpoint and returns its result, or its error string
func (c *Controller) postJSON(ctx context.Context, path string, body any) (string, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.proxyURL+path, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out struct {
		Result *string `json:"result"`
		Error  *string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode proxy response: %w", err)
	}

	switch {
	case out.Result != nil:
		return *out.Result, nil
	case out.Error != nil:
		return *out.Error, nil
	default:
		return "", nil
	}
}

// RenderTools writes the tool listing as numbered name/description rows, in order.
// An empty listing writes nothing.
func (c *Controller) RenderTools(w io.Writer) error {
	for i, tool := range c.Snapshot().Tools {
		if _, err := fmt.Fprintf(w, "%d. %s\n   %s\n", i+1, tool.Name, tool.Description); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) update(fn func(*State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.state)
}

// EncodeDataURL builds a base64 data URL, taking the MIME type from the file
// extension or, failing that, from the content
func EncodeDataURL(name string, data []byte) string {
	mimeType := mime.TypeByExtension(filepath.Ext(name))
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// StripDataURLPrefix returns the payload after the "data:...;base64," prefix
func StripDataURLPrefix(dataURL string) string {
	_, payload, found := strings.Cut(dataURL, ",")
	if !found {
		return dataURL
	}
	return payload
}
