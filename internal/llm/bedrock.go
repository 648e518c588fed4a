package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

// BedrockInvoker is the part of the Bedrock runtime client used here.
type BedrockInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockGenerator calls a text model hosted on AWS Bedrock. Mistral models
// use the prompt/outputs envelope; anthropic.* models use the messages API.
type BedrockGenerator struct {
	client  BedrockInvoker
	modelID string
}

var _ Generator = (*BedrockGenerator)(nil)

// NewBedrockGenerator loads AWS credentials from the default chain.
func NewBedrockGenerator(ctx context.Context, region, modelID string) (*BedrockGenerator, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewBedrockGeneratorWithClient(bedrockruntime.NewFromConfig(cfg), modelID), nil
}

func NewBedrockGeneratorWithClient(client BedrockInvoker, modelID string) *BedrockGenerator {
	return &BedrockGenerator{client: client, modelID: modelID}
}

func (g *BedrockGenerator) Name() string {
	return "bedrock/" + g.modelID
}

func (g *BedrockGenerator) Generate(ctx context.Context, req Request) (string, error) {
	body, err := encodeBedrockRequest(g.modelID, req)
	if err != nil {
		return "", err
	}

	out, err := g.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(g.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return "", err
	}
	return decodeBedrockResponse(g.modelID, out.Body)
}

type mistralRequest struct {
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
}

type mistralResponse struct {
	Outputs []struct {
		Text string `json:"text"`
	} `json:"outputs"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	AnthropicVersion string             `json:"anthropic_version"`
	MaxTokens        int                `json:"max_tokens"`
	Temperature      float64            `json:"temperature"`
	TopP             float64            `json:"top_p"`
	Messages         []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func isAnthropicModel(modelID string) bool {
	// Cross-region inference profiles prefix the vendor, e.g. "us.anthropic.".
	return strings.HasPrefix(modelID, "anthropic.") || strings.Contains(modelID, ".anthropic.")
}

func encodeBedrockRequest(modelID string, req Request) ([]byte, error) {
	var payload any
	if isAnthropicModel(modelID) {
		payload = anthropicRequest{
			AnthropicVersion: "bedrock-2023-05-31",
			MaxTokens:        req.MaxOutputTokens,
			Temperature:      req.Temperature,
			TopP:             req.TopP,
			Messages:         []anthropicMessage{{Role: "user", Content: req.Prompt}},
		}
	} else {
		payload = mistralRequest{
			Prompt:      req.Prompt,
			MaxTokens:   req.MaxOutputTokens,
			Temperature: req.Temperature,
			TopP:        req.TopP,
		}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode bedrock request: %w", err)
	}
	return body, nil
}

func decodeBedrockResponse(modelID string, body []byte) (string, error) {
	var text string
	if isAnthropicModel(modelID) {
		var resp anthropicResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", fmt.Errorf("failed to decode bedrock response: %w", err)
		}
		var sb strings.Builder
		for _, c := range resp.Content {
			if c.Type == "text" {
				sb.WriteString(c.Text)
			}
		}
		text = sb.String()
	} else {
		var resp mistralResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", fmt.Errorf("failed to decode bedrock response: %w", err)
		}
		if len(resp.Outputs) > 0 {
			text = resp.Outputs[0].Text
		}
	}
	if strings.TrimSpace(text) == "" {
		return "", errors.New("empty response from model")
	}
	return text, nil
}
