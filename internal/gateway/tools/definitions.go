package tools

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// Defaults applied by generate_text when the caller leaves the options out
const (
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 1024
)

// Chat roles accepted by chat_with_gemini
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Generator produces model output for the generative tools
type Generator interface {
	GenerateText(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error)
	AnalyzeImage(ctx context.Context, image []byte, mimeType, prompt string) (string, error)
	Chat(ctx context.Context, messages []ChatMessage, temperature float64) (string, error)
}

// ChatMessage is one turn of a conversation
type ChatMessage struct {
	Role    string `json:"role" jsonschema:"enum=user,enum=assistant,enum=system"`
	Content string `json:"content"`
}

// AddNumbersInput are the arguments of add_numbers
type AddNumbersInput struct {
	A *float64 `json:"a" jsonschema:"description=First addend"`
	B *float64 `json:"b" jsonschema:"description=Second addend"`
}

// GenerateTextInput are the arguments of generate_text
type GenerateTextInput struct {
	Prompt      string   `json:"prompt" jsonschema:"description=Prompt to send to the model"`
	Temperature *float64 `json:"temperature,omitempty" jsonschema:"description=Sampling temperature,default=0.7,minimum=0,maximum=2"`
	MaxTokens   *int     `json:"max_tokens,omitempty" jsonschema:"description=Maximum number of output tokens,default=1024,minimum=1"`
}

// AnalyzeImageInput are the arguments of analyze_image
type AnalyzeImageInput struct {
	ImageData string `json:"image_data" jsonschema:"description=Base64 encoded image data"`
	Prompt    string `json:"prompt" jsonschema:"description=Text prompt describing what to analyze in the image"`
}

// ChatInput are the arguments of chat_with_gemini
type ChatInput struct {
	Messages    []ChatMessage `json:"messages" jsonschema:"description=Conversation so far; the model answers the last turn"`
	Temperature *float64      `json:"temperature,omitempty" jsonschema:"description=Controls randomness,default=0.7,minimum=0,maximum=1"`
}

// RegisterAllTools registers the gateway tools; gen backs the generative ones
func RegisterAllTools(r *Registry, gen Generator) {
	r.MustRegister(ToolDefinition{
		Name:        "generate_text",
		Description: "Generate text using a generative language model.",
		InputSchema: SchemaFor[GenerateTextInput](),
	}, handleGenerateText(gen))

	r.MustRegister(ToolDefinition{
		Name:        "analyze_image",
		Description: "Analyze an image using the model's multimodal capabilities.",
		InputSchema: SchemaFor[AnalyzeImageInput](),
	}, handleAnalyzeImage(gen))

	r.MustRegister(ToolDefinition{
		Name:        "chat_with_gemini",
		Description: "Have a multi-turn conversation with the model.",
		InputSchema: SchemaFor[ChatInput](),
	}, handleChat(gen))

	r.MustRegister(ToolDefinition{
		Name:        "add_numbers",
		Description: "Add two numbers and return the sum.",
		InputSchema: SchemaFor[AddNumbersInput](),
	}, handleAddNumbers)
}

func handleAddNumbers(_ context.Context, raw json.RawMessage) (string, error) {
	var in AddNumbersInput
	if err := decodeArgs(raw, &in); err != nil {
		return "", err
	}
	if in.A == nil || in.B == nil {
		return "", NewToolError(ErrCodeInvalidParams, "a and b are required")
	}

	return strconv.FormatFloat(*in.A+*in.B, 'f', -1, 64), nil
}

func handleGenerateText(gen Generator) Handler {
	return func(ctx context.Context, raw json.RawMessage) (string, error) {
		var in GenerateTextInput
		if err := decodeArgs(raw, &in); err != nil {
			return "", err
		}
		if strings.TrimSpace(in.Prompt) == "" {
			return "", NewToolError(ErrCodeInvalidParams, "prompt is required")
		}

		temperature := DefaultTemperature
		if in.Temperature != nil {
			temperature = *in.Temperature
		}
		maxTokens := DefaultMaxTokens
		if in.MaxTokens != nil {
			maxTokens = *in.MaxTokens
		}

		return gen.GenerateText(ctx, in.Prompt, temperature, maxTokens)
	}
}

func handleAnalyzeImage(gen Generator) Handler {
	return func(ctx context.Context, raw json.RawMessage) (string, error) {
		var in AnalyzeImageInput
		if err := decodeArgs(raw, &in); err != nil {
			return "", err
		}
		if in.ImageData == "" {
			return "", NewToolError(ErrCodeInvalidParams, "image_data is required")
		}

		image, err := base64.StdEncoding.DecodeString(in.ImageData)
		if err != nil {
			return "", NewToolError(ErrCodeInvalidParams, fmt.Sprintf("image_data is not valid base64: %v", err))
		}

		mimeType := http.DetectContentType(image)
		if !strings.HasPrefix(mimeType, "image/") {
			return "", NewToolError(ErrCodeInvalidParams, fmt.Sprintf("image_data is not an image (%s)", mimeType))
		}

		return gen.AnalyzeImage(ctx, image, mimeType, in.Prompt)
	}
}

func handleChat(gen Generator) Handler {
	return func(ctx context.Context, raw json.RawMessage) (string, error) {
		var in ChatInput
		if err := decodeArgs(raw, &in); err != nil {
			return "", err
		}
		if len(in.Messages) == 0 {
			return "", NewToolError(ErrCodeInvalidParams, "messages are required")
		}
		for i, msg := range in.Messages {
			switch msg.Role {
			case RoleUser, RoleAssistant, RoleSystem:
			default:
				return "", NewToolError(ErrCodeInvalidParams, fmt.Sprintf("messages[%d]: unknown role %q", i, msg.Role))
			}
			if strings.TrimSpace(msg.Content) == "" {
				return "", NewToolError(ErrCodeInvalidParams, fmt.Sprintf("messages[%d]: content is required", i))
			}
		}

		temperature := DefaultTemperature
		if in.Temperature != nil {
			temperature = *in.Temperature
		}

		return gen.Chat(ctx, in.Messages, temperature)
	}
}

func decodeArgs(raw json.RawMessage, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return NewToolError(ErrCodeInvalidParams, fmt.Sprintf("invalid arguments: %v", err))
	}
	return nil
}
