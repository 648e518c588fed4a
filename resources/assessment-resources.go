package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Epistemic-Technology/assessa-mcp/internal/storage"
)

const scheme = "assessment://"

// AssessmentResourceHandler handles resource requests for stored assessments
type AssessmentResourceHandler struct {
	store storage.Store
}

// NewAssessmentResourceHandler creates a new assessment resource handler
func NewAssessmentResourceHandler(store storage.Store) *AssessmentResourceHandler {
	return &AssessmentResourceHandler{store: store}
}

// ReadResource reads a specific resource by URI
func (h *AssessmentResourceHandler) ReadResource(ctx context.Context, uri string) (*mcp.ReadResourceResult, error) {
	// Parse URI: assessment://id[/questions[/index]]
	if !strings.HasPrefix(uri, scheme) {
		return nil, fmt.Errorf("invalid URI scheme, expected %s", scheme)
	}

	parts := strings.Split(strings.TrimPrefix(uri, scheme), "/")
	id := parts[0]
	if id == "" {
		return nil, fmt.Errorf("invalid URI, missing assessment ID")
	}
	if len(parts) > 3 {
		return nil, fmt.Errorf("invalid URI: %s", uri)
	}

	var value any
	var err error

	switch {
	case len(parts) == 1:
		value, err = h.getAssessment(ctx, id)
	case parts[1] != "questions":
		return nil, fmt.Errorf("unknown resource type: %s", parts[1])
	case len(parts) == 2:
		value, err = h.getQuestions(ctx, id)
	default:
		index, convErr := strconv.Atoi(parts[2])
		if convErr != nil || index < 0 {
			return nil, fmt.Errorf("invalid question index: %s", parts[2])
		}
		value, err = h.store.GetQuestion(ctx, id, index)
	}
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(data),
			},
		},
	}, nil
}

func (h *AssessmentResourceHandler) getAssessment(ctx context.Context, id string) (map[string]any, error) {
	a, err := h.store.GetAssessment(ctx, id)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"assessment":          a,
		"question_count":      len(a.Questions),
		"total_marks":         a.TotalMarks(),
		"available_resources": storage.CalculateResourcePaths(id, len(a.Questions)),
	}, nil
}

func (h *AssessmentResourceHandler) getQuestions(ctx context.Context, id string) (map[string]any, error) {
	qs, err := h.store.GetQuestions(ctx, id)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"question_count": len(qs),
		"questions":      qs,
		"note":           fmt.Sprintf("Access individual questions with %s%s/questions/{index} (0-indexed)", scheme, id),
	}, nil
}
