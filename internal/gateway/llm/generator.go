// Package llm backs the gateway's generative tools with a langchaingo model.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erauner12/toolbridge-genai/internal/gateway/tools"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// ErrNoChoices is returned when the model answers without any completion
var ErrNoChoices = errors.New("model returned no choices")

// Options configure the OpenAI-compatible backend
type Options struct {
	Model   string
	APIKey  string
	BaseURL string
}

// Generator implements text generation, chat and image analysis on top of an llms.Model
type Generator struct {
	model llms.Model
	name  string
}

// New creates a Generator talking to an OpenAI-compatible endpoint
func New(opts Options) (*Generator, error) {
	clientOpts := []openai.Option{openai.WithModel(opts.Model)}
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, openai.WithToken(opts.APIKey))
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, openai.WithBaseURL(opts.BaseURL))
	}

	model, err := openai.New(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}

	return NewWithModel(model, opts.Model), nil
}

// NewWithModel wraps an existing model
func NewWithModel(model llms.Model, name string) *Generator {
	return &Generator{model: model, name: name}
}

// GenerateText completes a single prompt
func (g *Generator) GenerateText(ctx context.Context, prompt string, temperature float64, maxTokens int) (string, error) {
	start := time.Now()

	text, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt,
		llms.WithTemperature(temperature),
		llms.WithMaxTokens(maxTokens),
	)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("model", g.name).Msg("text generation failed")
		return "", fmt.Errorf("generate text: %w", err)
	}

	log.Ctx(ctx).Debug().
		Str("model", g.name).
		Int("prompt_len", len(prompt)).
		Dur("duration", time.Since(start)).
		Msg("text generated")
	return text, nil
}

// AnalyzeImage sends the image and prompt as one human message
func (g *Generator) AnalyzeImage(ctx context.Context, image []byte, mimeType, prompt string) (string, error) {
	start := time.Now()

	messages := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.BinaryPart(mimeType, image),
				llms.TextPart(prompt),
			},
		},
	}

	resp, err := g.model.GenerateContent(ctx, messages)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("model", g.name).Msg("image analysis failed")
		return "", fmt.Errorf("analyze image: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}

	log.Ctx(ctx).Debug().
		Str("model", g.name).
		Str("mime_type", mimeType).
		Int("image_bytes", len(image)).
		Dur("duration", time.Since(start)).
		Msg("image analyzed")
	return resp.Choices[0].Content, nil
}

// chatRoles maps conversation roles onto langchaingo message types
var chatRoles = map[string]llms.ChatMessageType{
	tools.RoleUser:      llms.ChatMessageTypeHuman,
	tools.RoleAssistant: llms.ChatMessageTypeAI,
	tools.RoleSystem:    llms.ChatMessageTypeSystem,
}

// Chat sends the whole conversation and returns the model's next turn
func (g *Generator) Chat(ctx context.Context, messages []tools.ChatMessage, temperature float64) (string, error) {
	history := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		role, ok := chatRoles[msg.Role]
		if !ok {
			return "", fmt.Errorf("unknown chat role %q", msg.Role)
		}
		history = append(history, llms.TextParts(role, msg.Content))
	}

	resp, err := g.model.GenerateContent(ctx, history, llms.WithTemperature(temperature))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("model", g.name).Msg("chat failed")
		return "", fmt.Errorf("chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}

	log.Ctx(ctx).Debug().Str("model", g.name).Int("turns", len(messages)).Msg("chat answered")
	return resp.Choices[0].Content, nil
}
