package catalog

import (
	"fmt"
	"strings"

	"github.com/erauner12/toolbridge-genai/internal/gateway/tools"
	"github.com/samber/lo"
)

// PromptArgument describes one input of a prompt template
type PromptArgument struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
}

// Prompt describes a prompt template
type Prompt struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Arguments   []PromptArgument `json:"arguments"`
}

// PromptMessage is one rendered message of a prompt
type PromptMessage struct {
	Role    string               `json:"role"`
	Content PromptMessageContent `json:"content"`
}

// PromptMessageContent is the text body of a rendered message
type PromptMessageContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// RenderedPrompt is the result of prompts/get
type RenderedPrompt struct {
	Description string          `json:"description,omitempty"`
	Messages    []PromptMessage `json:"messages"`
}

type promptEntry struct {
	prompt Prompt
	render func(args map[string]string) string
}

// Prompts serves the gateway's prompt templates
type Prompts struct {
	entries []promptEntry
}

// NewPrompts creates the prompt set
func NewPrompts() *Prompts {
	return &Prompts{entries: []promptEntry{{
		prompt: Prompt{
			Name:        "analyze_data",
			Description: "Create a prompt to analyze data.",
			Arguments:   []PromptArgument{{Name: "data", Description: "The data to analyze", Required: true}},
		},
		render: func(args map[string]string) string {
			return "Please analyze the following data and provide insights:\n\n" +
				args["data"] +
				"\n\nFocus on key patterns, anomalies, and actionable insights.\n"
		},
	}}}
}

// List returns the prompt descriptors in declaration order
func (p *Prompts) List() []Prompt {
	return lo.Map(p.entries, func(e promptEntry, _ int) Prompt { return e.prompt })
}

// Get renders a prompt; every required argument must be present
func (p *Prompts) Get(name string, args map[string]string) (RenderedPrompt, error) {
	entry, ok := lo.Find(p.entries, func(e promptEntry) bool { return e.prompt.Name == name })
	if !ok {
		return RenderedPrompt{}, tools.NewToolError(tools.ErrCodeInvalidParams, fmt.Sprintf("Unknown prompt: %s", name))
	}

	for _, arg := range entry.prompt.Arguments {
		if arg.Required && strings.TrimSpace(args[arg.Name]) == "" {
			return RenderedPrompt{}, tools.NewToolError(tools.ErrCodeInvalidParams, fmt.Sprintf("Missing prompt argument: %s", arg.Name))
		}
	}

	return RenderedPrompt{
		Description: entry.prompt.Description,
		Messages: []PromptMessage{{
			Role:    tools.RoleUser,
			Content: PromptMessageContent{Type: "text", Text: entry.render(args)},
		}},
	}, nil
}
