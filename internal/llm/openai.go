package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"
)

// DefaultOpenAIModel accepts temperature and top_p, unlike the reasoning models.
const DefaultOpenAIModel = shared.ChatModelGPT4_1Mini

// OpenAIGenerator calls the OpenAI Responses API.
type OpenAIGenerator struct {
	client openai.Client
	model  string
}

var _ Generator = (*OpenAIGenerator)(nil)

func NewOpenAIGenerator(apiKey, model string, opts ...option.RequestOption) *OpenAIGenerator {
	if model == "" {
		model = DefaultOpenAIModel
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &OpenAIGenerator{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

func (g *OpenAIGenerator) Name() string {
	return "openai/" + g.model
}

// Generate sends req.Prompt as a single user input and returns the output text.
func (g *OpenAIGenerator) Generate(ctx context.Context, req Request) (string, error) {
	params := responses.ResponseNewParams{
		Model: g.model,
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(req.Prompt),
		},
	}
	if req.MaxOutputTokens > 0 {
		params.MaxOutputTokens = openai.Int(int64(req.MaxOutputTokens))
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.TopP > 0 {
		params.TopP = openai.Float(req.TopP)
	}

	response, err := g.client.Responses.New(ctx, params)
	if err != nil {
		return "", err
	}
	text := response.OutputText()
	if strings.TrimSpace(text) == "" {
		return "", errors.New("empty response from model")
	}
	return text, nil
}
