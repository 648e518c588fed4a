package llm

import "context"

const (
	DefaultMaxOutputTokens = 8192
	DefaultTemperature     = 0.7
	DefaultTopP            = 0.9
)

// Request is a single text-completion call.
type Request struct {
	Prompt          string
	MaxOutputTokens int
	Temperature     float64
	TopP            float64
}

// NewRequest returns a request with the default sampling parameters.
func NewRequest(prompt string) Request {
	return Request{
		Prompt:          prompt,
		MaxOutputTokens: DefaultMaxOutputTokens,
		Temperature:     DefaultTemperature,
		TopP:            DefaultTopP,
	}
}

// Generator is a hosted text-generation model.
type Generator interface {
	// Generate returns the raw completion text for req.
	Generate(ctx context.Context, req Request) (string, error)
	// Name identifies the provider and model in logs.
	Name() string
}
