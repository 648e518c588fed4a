package operations

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/Epistemic-Technology/assessa-mcp/internal/generation"
	"github.com/Epistemic-Technology/assessa-mcp/internal/logger"
	"github.com/Epistemic-Technology/assessa-mcp/internal/questions"
	"github.com/Epistemic-Technology/assessa-mcp/internal/storage"
	"github.com/Epistemic-Technology/assessa-mcp/models"
)

// markdownQuiz returns n well-formed Markdown questions.
func markdownQuiz(n int) []byte {
	var sb strings.Builder
	sb.WriteString("# Weekly quiz\n\n")
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&sb, "**%d. Original question %d?**\nA. one\nB. two\nC. three\n**Correct:** B\n\n", i, i)
	}
	return []byte(sb.String())
}

type fakeGenerator struct {
	calls atomic.Int32
	count int
	err   error
}

func (f *fakeGenerator) Generate(ctx context.Context, selected []models.Question) ([]models.Question, generation.Stats) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, generation.Stats{Err: f.err}
	}
	var qs []models.Question
	for i := range f.count {
		qs = append(qs, models.Question{
			QuestionText: fmt.Sprintf("Generated question %d?", i+1), Options: []string{"a", "b", "c", "d"},
			CorrectAnswer: i % 4, Marks: 1, Type: models.QuestionTypeMCQ, Origin: models.OriginGenerated,
		})
	}
	return qs, generation.Stats{Parsed: len(qs)}
}

func TestExtractQuestions_Markdown(t *testing.T) {
	qs, err := ExtractQuestions(markdownQuiz(3), models.FormatMarkdown, logger.NewNoOpLogger())
	if err != nil {
		t.Fatalf("ExtractQuestions failed: %v", err)
	}
	if len(qs) != 3 {
		t.Fatalf("Expected 3 questions, got %d", len(qs))
	}
	if qs[0].QuestionText != "Original question 1?" || qs[0].CorrectAnswer != 1 {
		t.Errorf("Unexpected first question %+v", qs[0])
	}
}

func TestExtractQuestions_NothingUsable(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		format  models.SourceFormat
		message string
	}{
		{"markdown without answers", []byte("1. Q?\nA. x\nB. y\n"), models.FormatMarkdown, "No questions extracted from MARKDOWN file"},
		{"empty markdown", nil, models.FormatMarkdown, "No questions extracted from MARKDOWN file"},
		{"unreadable pdf", []byte("%PDF-1.4 not really"), models.FormatPDF, "No questions extracted from PDF file"},
		{"empty pdf", nil, models.FormatPDF, "No questions extracted from PDF file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractQuestions(tt.data, tt.format, logger.NewNoOpLogger())
			if !errors.Is(err, questions.ErrNoQuestions) {
				t.Fatalf("Expected ErrNoQuestions, got %v", err)
			}
			if err.Error() != tt.message {
				t.Errorf("Expected %q, got %q", tt.message, err.Error())
			}
			var extractionErr *questions.ExtractionError
			if !errors.As(err, &extractionErr) || extractionErr.Format != tt.format {
				t.Errorf("Expected ExtractionError for %s, got %v", tt.format, err)
			}
		})
	}
}

func TestExtractQuestions_UnsupportedFormat(t *testing.T) {
	_, err := ExtractQuestions(markdownQuiz(2), models.SourceFormat("docx"), logger.NewNoOpLogger())
	if err == nil {
		t.Fatal("Expected error for unsupported format")
	}
	if errors.Is(err, questions.ErrNoQuestions) {
		t.Errorf("Expected a format error rather than ErrNoQuestions, got %v", err)
	}
}

func TestRunPipeline(t *testing.T) {
	tests := []struct {
		name          string
		extracted     int
		generated     int
		genErr        error
		wantTotal     int
		wantGenerated int
	}{
		{"blend", 10, 10, nil, 5, 4},
		{"generation failed", 10, 0, errors.New("boom"), 5, 0},
		{"few generated", 10, 2, nil, 5, 2},
		{"single question", 1, 10, nil, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{count: tt.generated, err: tt.genErr}
			res, err := RunPipeline(context.Background(), markdownQuiz(tt.extracted), models.FormatMarkdown, PipelineOptions{
				Generator: gen,
				Rand:      rand.New(rand.NewPCG(7, 7)),
				Log:       logger.NewNoOpLogger(),
			})
			if err != nil {
				t.Fatalf("RunPipeline failed: %v", err)
			}
			if gen.calls.Load() != 1 {
				t.Errorf("Expected one generation call, got %d", gen.calls.Load())
			}
			if len(res.Questions) != tt.wantTotal {
				t.Errorf("Expected %d questions, got %d", tt.wantTotal, len(res.Questions))
			}
			if res.Stats.GeneratedTaken != tt.wantGenerated {
				t.Errorf("Expected %d generated, got %d", tt.wantGenerated, res.Stats.GeneratedTaken)
			}
			if res.Stats.Extracted != tt.extracted || res.Stats.Desired != (tt.extracted+1)/2 {
				t.Errorf("Unexpected stats %+v", res.Stats)
			}
			if (tt.genErr != nil) != (res.Stats.GenerationErr != "") {
				t.Errorf("Unexpected generation error %q", res.Stats.GenerationErr)
			}
			for _, q := range res.Questions {
				if err := questions.Validate(q); err != nil {
					t.Errorf("Invalid question in result: %v", err)
				}
			}
		})
	}
}

func TestRunPipeline_FatalExtraction(t *testing.T) {
	gen := &fakeGenerator{count: 10}
	_, err := RunPipeline(context.Background(), []byte("no questions here"), models.FormatMarkdown, PipelineOptions{Generator: gen})
	if !errors.Is(err, questions.ErrNoQuestions) {
		t.Fatalf("Expected ErrNoQuestions, got %v", err)
	}
	if gen.calls.Load() != 0 {
		t.Error("Expected no generation call after a fatal extraction")
	}
}

func newTestStore(t *testing.T) *storage.SQLiteStore {
	t.Helper()
	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestUploadAssessment(t *testing.T) {
	tests := []struct {
		name          string
		perDifficulty bool
		wantCalls     int32
		wantStats     int
	}{
		{"shared result", false, 1, 1},
		{"per difficulty", true, 4, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := newTestStore(t)
			gen := &fakeGenerator{count: 8}

			res, err := UploadAssessment(ctx, store, gen, SourceCredentials{}, UploadParams{
				Source:        models.SourceInfo{Filename: "week-3.md"},
				RawData:       markdownQuiz(6),
				Subject:       "Science",
				PerDifficulty: tt.perDifficulty,
			}, logger.NewNoOpLogger())
			if err != nil {
				t.Fatalf("UploadAssessment failed: %v", err)
			}
			if gen.calls.Load() != tt.wantCalls {
				t.Errorf("Expected %d generation calls, got %d", tt.wantCalls, gen.calls.Load())
			}
			if res.Title != "week-3" || res.SourceFormat != models.FormatMarkdown {
				t.Errorf("Unexpected result %+v", res)
			}
			if len(res.Assessments) != 4 || len(res.Stats) != tt.wantStats {
				t.Fatalf("Expected 4 assessments and %d stats, got %d and %d", tt.wantStats, len(res.Assessments), len(res.Stats))
			}

			for i, u := range res.Assessments {
				a, err := store.GetAssessment(ctx, u.ID)
				if err != nil {
					t.Fatalf("GetAssessment failed: %v", err)
				}
				if a.Difficulty != models.Difficulties()[i] || a.Approved || a.TimeLimit != models.DefaultTimeLimit {
					t.Errorf("Unexpected assessment %+v", a)
				}
				if len(a.Questions) != 3 || a.FileRef != "week-3.md" || a.Subject != "Science" {
					t.Errorf("Unexpected stored assessment %+v", a)
				}
			}

			pending, err := store.ListAssessments(ctx, storage.StatusPending)
			if err != nil || len(pending) != 4 {
				t.Errorf("Expected 4 pending assessments, got %d (%v)", len(pending), err)
			}
		})
	}
}

func TestUploadAssessment_NoQuestions(t *testing.T) {
	store := newTestStore(t)
	_, err := UploadAssessment(context.Background(), store, nil, SourceCredentials{}, UploadParams{
		Source:  models.SourceInfo{Filename: "scan.pdf"},
		RawData: []byte("%PDF-1.7 broken"),
	}, logger.NewNoOpLogger())
	if err == nil || err.Error() != "No questions extracted from PDF file" {
		t.Fatalf("Expected PDF extraction error, got %v", err)
	}
	infos, _ := store.ListAssessments(context.Background(), storage.StatusAll)
	if len(infos) != 0 {
		t.Errorf("Expected nothing stored, got %d", len(infos))
	}
}

func TestUploadAssessment_NoSource(t *testing.T) {
	_, err := UploadAssessment(context.Background(), newTestStore(t), nil, SourceCredentials{}, UploadParams{}, logger.NewNoOpLogger())
	if err == nil {
		t.Fatal("Expected error for an upload without a source")
	}
}

func TestReplaceQuestions(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	id, err := store.StoreAssessment(ctx, &models.Assessment{
		Title: "Quiz", Difficulty: models.DifficultyEasy, SourceFormat: models.FormatMarkdown,
		Questions: []models.Question{{QuestionText: "Q?", Options: []string{"a", "b"}, Marks: 1, Type: models.QuestionTypeMCQ, Origin: models.OriginOriginal}},
	})
	if err != nil {
		t.Fatalf("StoreAssessment failed: %v", err)
	}

	edited, err := ReplaceQuestions(ctx, store, id, []models.Question{{QuestionText: "New?", Options: []string{"a", "b", "c"}, CorrectAnswer: 2}})
	if err != nil {
		t.Fatalf("ReplaceQuestions failed: %v", err)
	}
	if edited[0].Marks != 1 || edited[0].Type != models.QuestionTypeMCQ || edited[0].Origin != models.OriginOriginal {
		t.Errorf("Expected defaults to be filled, got %+v", edited[0])
	}

	_, err = ReplaceQuestions(ctx, store, id, []models.Question{{QuestionText: "Bad?", Options: []string{"a", "b"}, CorrectAnswer: 5}})
	if !errors.Is(err, questions.ErrAnswerRange) {
		t.Errorf("Expected ErrAnswerRange, got %v", err)
	}
	if _, err := ReplaceQuestions(ctx, store, id, nil); !errors.Is(err, ErrEmptyQuestions) {
		t.Errorf("Expected ErrEmptyQuestions, got %v", err)
	}

	stored, _ := store.GetQuestions(ctx, id)
	if len(stored) != 1 || stored[0].QuestionText != "New?" {
		t.Errorf("Expected only the valid edit to be stored, got %+v", stored)
	}

	if _, err := ReplaceQuestions(ctx, store, "missing", edited); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
