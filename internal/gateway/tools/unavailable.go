package tools

import "context"

// UnavailableGenerator stands in when no model backend could be configured.
// The generative tools fail with UNAVAILABLE; the rest of the registry keeps working.
type UnavailableGenerator struct {
	Reason string
}

func (g UnavailableGenerator) err() error {
	return NewToolError(ErrCodeUnavailable, "generative model unavailable: "+g.Reason)
}

func (g UnavailableGenerator) GenerateText(context.Context, string, float64, int) (string, error) {
	return "", g.err()
}

func (g UnavailableGenerator) AnalyzeImage(context.Context, []byte, string, string) (string, error) {
	return "", g.err()
}

func (g UnavailableGenerator) Chat(context.Context, []ChatMessage, float64) (string, error) {
	return "", g.err()
}
