package llm

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

type fakeInvoker struct {
	body    []byte
	modelID string
	reply   string
}

func (f *fakeInvoker) InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.body = params.Body
	f.modelID = *params.ModelId
	return &bedrockruntime.InvokeModelOutput{Body: []byte(f.reply)}, nil
}

func TestBedrockGenerator_Mistral(t *testing.T) {
	fake := &fakeInvoker{reply: `{"outputs":[{"text":"1. Q\nA. a","stop_reason":"stop"}]}`}
	g := NewBedrockGeneratorWithClient(fake, "mistral.mistral-large-2402-v1:0")

	text, err := g.Generate(context.Background(), NewRequest("hello"))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if text != "1. Q\nA. a" {
		t.Errorf("Unexpected text %q", text)
	}

	var sent map[string]any
	if err := json.Unmarshal(fake.body, &sent); err != nil {
		t.Fatalf("Request body is not JSON: %v", err)
	}
	if sent["prompt"] != "hello" || sent["max_tokens"] != float64(8192) || sent["temperature"] != 0.7 || sent["top_p"] != 0.9 {
		t.Errorf("Unexpected request body %v", sent)
	}
}

func TestBedrockGenerator_Anthropic(t *testing.T) {
	fake := &fakeInvoker{reply: `{"content":[{"type":"text","text":"part one "},{"type":"text","text":"part two"}]}`}
	g := NewBedrockGeneratorWithClient(fake, "us.anthropic.claude-3-5-sonnet-20240620-v1:0")

	text, err := g.Generate(context.Background(), NewRequest("hello"))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if text != "part one part two" {
		t.Errorf("Unexpected text %q", text)
	}
	if !strings.Contains(string(fake.body), `"messages":[{"role":"user","content":"hello"}]`) {
		t.Errorf("Unexpected request body %s", fake.body)
	}
}

func TestBedrockGenerator_EmptyOutput(t *testing.T) {
	g := NewBedrockGeneratorWithClient(&fakeInvoker{reply: `{"outputs":[]}`}, "mistral.mistral-large-2402-v1:0")
	if _, err := g.Generate(context.Background(), NewRequest("hello")); err == nil {
		t.Error("Expected error for empty output")
	}
}

func TestBedrockGenerator_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	region := os.Getenv("AWS_MODEL_REGION")
	if region == "" {
		t.Skip("AWS_MODEL_REGION not set, skipping integration test")
	}

	ctx := context.Background()
	g, err := NewBedrockGenerator(ctx, region, "mistral.mistral-large-2402-v1:0")
	if err != nil {
		t.Fatalf("Failed to create generator: %v", err)
	}
	req := NewRequest("Reply with the single word: ready")
	req.MaxOutputTokens = 16
	text, err := g.Generate(ctx, req)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if strings.TrimSpace(text) == "" {
		t.Error("Expected non-empty completion")
	}
}

func TestOpenAIGenerator_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("OPENAI_API_KEY not set, skipping integration test")
	}

	g := NewOpenAIGenerator(apiKey, "")
	req := NewRequest("Reply with the single word: ready")
	req.MaxOutputTokens = 16
	text, err := g.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if strings.TrimSpace(text) == "" {
		t.Error("Expected non-empty completion")
	}
}
