package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/Epistemic-Technology/assessa-mcp/models"
)

// ErrNotFound is wrapped by every lookup of a missing assessment or question.
var ErrNotFound = errors.New("not found")

// Status filters assessments by approval state.
type Status string

const (
	StatusAll      Status = "all"
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
)

// ParseStatus accepts "", "all", "pending" and "approved".
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case "", StatusAll:
		return StatusAll, nil
	case StatusPending, StatusApproved:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown status %q (want pending, approved or all)", s)
}

// Store defines the interface for persisting assessments and their questions
type Store interface {
	// StoreAssessment saves an assessment with its questions and returns its ID.
	// A new UUID is assigned when a.ID is empty.
	StoreAssessment(ctx context.Context, a *models.Assessment) (string, error)

	// GetAssessment retrieves an assessment with its questions in order
	GetAssessment(ctx context.Context, id string) (*models.Assessment, error)

	// GetQuestions retrieves the ordered questions of an assessment
	GetQuestions(ctx context.Context, id string) ([]models.Question, error)

	// GetQuestion retrieves one question by index (0-indexed)
	GetQuestion(ctx context.Context, id string, index int) (*models.Question, error)

	// ListAssessments returns summaries, newest first
	ListAssessments(ctx context.Context, status Status) ([]models.AssessmentInfo, error)

	// ApproveAssessment marks an assessment as approved
	ApproveAssessment(ctx context.Context, id string) error

	// UpdateQuestions replaces the questions of an assessment
	UpdateQuestions(ctx context.Context, id string, questions []models.Question) error

	// DeleteAssessment removes an assessment and its questions
	DeleteAssessment(ctx context.Context, id string) error

	// Close closes the database connection
	Close() error
}
