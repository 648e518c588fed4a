package models

import (
	"strings"
	"time"
)

// SourceFormat identifies how an uploaded assessment file is parsed.
type SourceFormat string

const (
	FormatPDF      SourceFormat = "pdf"
	FormatMarkdown SourceFormat = "markdown"
)

// Label returns the upper-case name used in user-facing messages (e.g. "PDF").
func (f SourceFormat) Label() string {
	return strings.ToUpper(string(f))
}

// Valid reports whether f is a supported format.
func (f SourceFormat) Valid() bool {
	return f == FormatPDF || f == FormatMarkdown
}

// Origin tracks whether a question came from the uploaded file or from the model.
type Origin string

const (
	OriginOriginal  Origin = "original"
	OriginGenerated Origin = "generated"
)

type QuestionType string

const QuestionTypeMCQ QuestionType = "mcq"

// DefaultMarks is the score assigned to every extracted or generated question.
const DefaultMarks = 1

// DraftQuestion is an unvalidated question block produced by text scanning.
type DraftQuestion struct {
	QuestionText string
	Options      []string
	// CorrectAnswerLetter is "A".."D", or empty when no answer has been resolved.
	CorrectAnswerLetter string
}

// Question is a validated multiple-choice question.
type Question struct {
	QuestionText  string       `json:"question_text"`
	Options       []string     `json:"options"`
	CorrectAnswer int          `json:"correct_answer"`
	Marks         int          `json:"marks"`
	Type          QuestionType `json:"type"`
	Origin        Origin       `json:"origin"`
}

// SourceQuestion is one numbered entry of a generation prompt.
type SourceQuestion struct {
	Index        int    `json:"index"`
	QuestionText string `json:"question_text"`
}

// GenerationRequest carries the sampled questions for a single model call.
type GenerationRequest struct {
	SourceQuestions []SourceQuestion `json:"source_questions"`
}

// NewGenerationRequest numbers the given questions from 1.
func NewGenerationRequest(questions []Question) GenerationRequest {
	req := GenerationRequest{SourceQuestions: make([]SourceQuestion, 0, len(questions))}
	for i, q := range questions {
		req.SourceQuestions = append(req.SourceQuestions, SourceQuestion{Index: i + 1, QuestionText: q.QuestionText})
	}
	return req
}

// PipelineStats records what happened at each pipeline stage.
type PipelineStats struct {
	Format         SourceFormat `json:"format"`
	Extracted      int          `json:"extracted"`
	Dropped        int          `json:"dropped"`
	Desired        int          `json:"desired"`
	Selected       int          `json:"selected"`
	DuplicatesUsed bool         `json:"duplicates_used,omitempty"`
	Generated      int          `json:"generated"`
	Rejected       int          `json:"rejected_generated"`
	GeneratedTaken int          `json:"generated_taken"`
	OriginalTaken  int          `json:"original_taken"`
	GenerationErr  string       `json:"generation_error,omitempty"`
}

// PipelineResult is the output of one extraction and composition run.
type PipelineResult struct {
	Questions []Question    `json:"questions"`
	Stats     PipelineStats `json:"stats"`
}

// Difficulty labels an assessment variant.
type Difficulty string

const (
	DifficultyEasy     Difficulty = "easy"
	DifficultyMedium   Difficulty = "medium"
	DifficultyHard     Difficulty = "hard"
	DifficultyVeryHard Difficulty = "very hard"
)

// Difficulties returns every difficulty label in ascending order.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyVeryHard}
}

// DefaultTimeLimit is the attempt duration, in minutes, when the uploader gives none.
const DefaultTimeLimit = 30

// Assessment is one persisted difficulty variant of an uploaded file.
type Assessment struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Subject      string       `json:"subject,omitempty"`
	GradeLevel   string       `json:"grade_level,omitempty"`
	TimeLimit    int          `json:"time_limit"`
	Difficulty   Difficulty   `json:"difficulty"`
	FileRef      string       `json:"file_ref,omitempty"`
	SourceFormat SourceFormat `json:"source_format"`
	Approved     bool         `json:"approved"`
	Questions    []Question   `json:"questions"`
	CreatedAt    time.Time    `json:"created_at"`
}

// TotalMarks sums the marks of every question.
func (a *Assessment) TotalMarks() int {
	total := 0
	for _, q := range a.Questions {
		total += q.Marks
	}
	return total
}

// AssessmentInfo is the listing view of an assessment.
type AssessmentInfo struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Subject       string       `json:"subject,omitempty"`
	GradeLevel    string       `json:"grade_level,omitempty"`
	Difficulty    Difficulty   `json:"difficulty"`
	SourceFormat  SourceFormat `json:"source_format"`
	Approved      bool         `json:"approved"`
	QuestionCount int          `json:"question_count"`
	TotalMarks    int          `json:"total_marks"`
	CreatedAt     time.Time    `json:"created_at"`
}

// SourceInfo contains information about where an assessment file came from
type SourceInfo struct {
	ZoteroID string `json:"zotero_id,omitempty"`
	URL      string `json:"url,omitempty"`
	Filename string `json:"filename,omitempty"`
	MIMEType string `json:"mime_type,omitempty"`
}

// FileRef returns a stable reference to the source for persistence.
func (s SourceInfo) FileRef() string {
	switch {
	case s.ZoteroID != "":
		return "zotero:" + s.ZoteroID
	case s.URL != "":
		return s.URL
	default:
		return s.Filename
	}
}

// DocumentData is a fetched file with whatever naming hints came with it.
type DocumentData struct {
	Data     []byte
	Filename string
	MIMEType string
}
