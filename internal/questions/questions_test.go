package questions

import (
	"errors"
	"math/rand/v2"
	"reflect"
	"strings"
	"testing"

	"github.com/Epistemic-Technology/assessa-mcp/models"
)

const samplePDFText = `Unit 3 Quiz
1. What is 2+2?
A. 3
B. 4
C. 5
D. 6

2) Capital of France?
A) Berlin
B) Paris
C) Rome

Q3. Largest planet?
A. Mars
B. Jupiter

4. Unanswered question?
A. yes
B. no

Answers:
1. B
2. b
3. B
`

func TestSegmentPDF(t *testing.T) {
	drafts := SegmentPDF(samplePDFText)
	if len(drafts) < 4 {
		t.Fatalf("Expected at least 4 drafts, got %d", len(drafts))
	}

	tests := []struct {
		text    string
		options []string
	}{
		{"What is 2+2?", []string{"3", "4", "5", "6"}},
		{"Capital of France?", []string{"Berlin", "Paris", "Rome"}},
		{"Largest planet?", []string{"Mars", "Jupiter"}},
		{"Unanswered question?", []string{"yes", "no"}},
	}
	for i, tt := range tests {
		if drafts[i].QuestionText != tt.text {
			t.Errorf("draft %d: expected text %q, got %q", i, tt.text, drafts[i].QuestionText)
		}
		if !reflect.DeepEqual(drafts[i].Options, tt.options) {
			t.Errorf("draft %d: expected options %v, got %v", i, tt.options, drafts[i].Options)
		}
	}
}

func TestParseAnswerKey(t *testing.T) {
	tests := []struct {
		name string
		text string
		want map[int]string
	}{
		{"no heading", "1. A\n2. B", map[int]string{}},
		{"colon heading", "Answers:\n1. a\n2. C", map[int]string{1: "A", 2: "C"}},
		{"dash heading upper", "ANSWERS -\n1. D 2. B", map[int]string{1: "D", 2: "B"}},
		{"later wins", "answers\n1. A\n1. C", map[int]string{1: "C"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAnswerKey(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestExtractFromPDFText(t *testing.T) {
	qs, dropped := ExtractFromPDFText(samplePDFText)
	if len(qs) != 3 {
		t.Fatalf("Expected 3 questions, got %d: %+v", len(qs), qs)
	}
	if dropped == 0 {
		t.Error("Expected unanswered drafts to be counted as dropped")
	}
	wantAnswers := []int{1, 1, 1}
	for i, q := range qs {
		if q.CorrectAnswer != wantAnswers[i] {
			t.Errorf("question %d: expected answer %d, got %d", i, wantAnswers[i], q.CorrectAnswer)
		}
		if q.Marks != 1 || q.Type != models.QuestionTypeMCQ || q.Origin != models.OriginOriginal {
			t.Errorf("question %d: unexpected defaults %+v", i, q)
		}
	}
}

func TestNormalizePDF(t *testing.T) {
	tests := []struct {
		name  string
		draft models.DraftQuestion
		keep  bool
	}{
		{"valid", models.DraftQuestion{QuestionText: "Q", Options: []string{"a", "b"}, CorrectAnswerLetter: "B"}, true},
		{"no letter", models.DraftQuestion{QuestionText: "Q", Options: []string{"a", "b"}}, false},
		{"one option", models.DraftQuestion{QuestionText: "Q", Options: []string{"a"}, CorrectAnswerLetter: "A"}, false},
		{"letter beyond options", models.DraftQuestion{QuestionText: "Q", Options: []string{"a", "b"}, CorrectAnswerLetter: "D"}, false},
		{"five options", models.DraftQuestion{QuestionText: "Q", Options: []string{"a", "b", "c", "d", "e"}, CorrectAnswerLetter: "A"}, false},
		{"empty text", models.DraftQuestion{QuestionText: "  ", Options: []string{"a", "b"}, CorrectAnswerLetter: "A"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs, dropped := NormalizePDF([]models.DraftQuestion{tt.draft})
			if tt.keep && (len(qs) != 1 || dropped != 0) {
				t.Errorf("Expected draft to be kept, got %d kept %d dropped", len(qs), dropped)
			}
			if !tt.keep && (len(qs) != 0 || dropped != 1) {
				t.Errorf("Expected draft to be dropped, got %d kept %d dropped", len(qs), dropped)
			}
		})
	}
}

const sampleMarkdown = `1. What is H2O?
A. Water
B. Salt
C. Sugar
Correct: A

2) Pick the prime
a) 4
b) 7
Answer: b
Key: A

3. No answer here
A. x
B. y

4. Only one option
A. x
Correct: A
`

func TestParseMarkdown(t *testing.T) {
	drafts := ParseMarkdown(sampleMarkdown)
	if len(drafts) != 4 {
		t.Fatalf("Expected 4 drafts, got %d", len(drafts))
	}
	if drafts[1].CorrectAnswerLetter != "B" {
		t.Errorf("Expected first answer line to win with B, got %q", drafts[1].CorrectAnswerLetter)
	}
	if drafts[2].CorrectAnswerLetter != "" {
		t.Errorf("Expected no answer for third draft, got %q", drafts[2].CorrectAnswerLetter)
	}

	qs, dropped := NormalizeMarkdown(drafts)
	if len(qs) != 2 || dropped != 2 {
		t.Fatalf("Expected 2 kept and 2 dropped, got %d and %d", len(qs), dropped)
	}
	if qs[0].CorrectAnswer != 0 || qs[1].CorrectAnswer != 1 {
		t.Errorf("Unexpected answers: %d, %d", qs[0].CorrectAnswer, qs[1].CorrectAnswer)
	}
	if !reflect.DeepEqual(qs[1].Options, []string{"4", "7"}) {
		t.Errorf("Unexpected options: %v", qs[1].Options)
	}
}

func TestParseMarkdown_AnswerWordNeedsLetter(t *testing.T) {
	drafts := ParseMarkdown("1. Q\nA. x\nB. y\nAnswer: Because\nSolution: b\n")
	if len(drafts) != 1 || drafts[0].CorrectAnswerLetter != "B" {
		t.Errorf("Expected answer B from solution line, got %+v", drafts)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	qs, _ := ExtractFromMarkdown(sampleMarkdown)
	if len(qs) == 0 {
		t.Fatal("Expected questions from sample markdown")
	}

	drafts := make([]models.DraftQuestion, len(qs))
	for i, q := range qs {
		if err := Validate(q); err != nil {
			t.Errorf("Normalized question %d fails validation: %v", i+1, err)
		}
		drafts[i] = models.DraftQuestion{
			QuestionText:        q.QuestionText,
			Options:             q.Options,
			CorrectAnswerLetter: string(rune('A' + q.CorrectAnswer)),
		}
	}

	again, dropped := NormalizeMarkdown(drafts)
	if dropped != 0 || !reflect.DeepEqual(again, qs) {
		t.Errorf("Expected normalized questions to pass unchanged, dropped %d", dropped)
	}
}

func TestValidateAll(t *testing.T) {
	good := models.Question{QuestionText: "Q", Options: []string{"a", "b"}, CorrectAnswer: 1, Marks: 1, Type: models.QuestionTypeMCQ}
	bad := good
	bad.CorrectAnswer = 2

	if err := ValidateAll([]models.Question{good}); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	err := ValidateAll([]models.Question{good, bad})
	if !errors.Is(err, ErrAnswerRange) {
		t.Errorf("Expected ErrAnswerRange, got %v", err)
	}
	if err != nil && !strings.Contains(err.Error(), "question 2") {
		t.Errorf("Expected error to name question 2, got %v", err)
	}
}

func makeQuestions(texts ...string) []models.Question {
	qs := make([]models.Question, 0, len(texts))
	for _, text := range texts {
		qs = append(qs, models.Question{
			QuestionText: text, Options: []string{"a", "b"}, Marks: 1,
			Type: models.QuestionTypeMCQ, Origin: models.OriginOriginal,
		})
	}
	return qs
}

func TestSample(t *testing.T) {
	tests := []struct {
		name      string
		texts     []string
		want      int
		wantDupes bool
	}{
		{"empty", nil, 0, false},
		{"one", []string{"a"}, 1, false},
		{"odd", []string{"a", "b", "c", "d", "e"}, 3, false},
		{"even", []string{"a", "b", "c", "d"}, 2, false},
		{"all duplicates", []string{"x", "x", "x", "x"}, 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Sample(makeQuestions(tt.texts...), rand.New(rand.NewPCG(1, 2)))
			if res.Desired != tt.want || len(res.Selected) != tt.want {
				t.Errorf("Expected %d selected, got desired=%d selected=%d", tt.want, res.Desired, len(res.Selected))
			}
			if res.DuplicatesUsed != tt.wantDupes {
				t.Errorf("Expected DuplicatesUsed=%v, got %v", tt.wantDupes, res.DuplicatesUsed)
			}
		})
	}
}

func TestSample_PrefersDistinctTexts(t *testing.T) {
	qs := makeQuestions("a", "a", "a", "b", "c", "d")
	for seed := uint64(0); seed < 50; seed++ {
		res := Sample(qs, rand.New(rand.NewPCG(seed, seed)))
		seen := map[string]bool{}
		for _, q := range res.Selected {
			if seen[q.QuestionText] {
				t.Fatalf("seed %d: duplicate %q selected although distinct texts were available", seed, q.QuestionText)
			}
			seen[q.QuestionText] = true
		}
	}
}

func TestSample_DoesNotModifyInput(t *testing.T) {
	qs := makeQuestions("a", "b", "c", "d")
	before := append([]models.Question(nil), qs...)
	Sample(qs, nil)
	if !reflect.DeepEqual(qs, before) {
		t.Error("Expected input order to be preserved")
	}
}

func generatedQuestions(texts ...string) []models.Question {
	qs := makeQuestions(texts...)
	for i := range qs {
		qs[i].Origin = models.OriginGenerated
	}
	return qs
}

func TestCompose(t *testing.T) {
	tests := []struct {
		name         string
		selected     []models.Question
		generated    []models.Question
		wantAI       int
		wantOriginal int
	}{
		{"enough generated", makeQuestions("o1", "o2", "o3", "o4", "o5"), generatedQuestions("g1", "g2", "g3", "g4", "g5", "g6", "g7", "g8"), 4, 1},
		{"no generated", makeQuestions("o1", "o2", "o3"), nil, 0, 3},
		{"shortfall", makeQuestions("o1", "o2", "o3", "o4", "o5"), generatedQuestions("g1"), 1, 4},
		{"skip overlap", makeQuestions("o1", "o2", "o3"), generatedQuestions("o1", "g1", "o2", "g2", "g3"), 3, 0},
		{"empty", nil, generatedQuestions("g1"), 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Compose(tt.selected, tt.generated)
			if res.AITaken != tt.wantAI || res.OriginalTaken != tt.wantOriginal {
				t.Errorf("Expected ai=%d original=%d, got ai=%d original=%d", tt.wantAI, tt.wantOriginal, res.AITaken, res.OriginalTaken)
			}
			if len(res.Questions) != len(tt.selected) {
				t.Errorf("Expected %d questions, got %d", len(tt.selected), len(res.Questions))
			}
			for i, q := range res.Questions {
				wantOrigin := models.OriginOriginal
				if i < res.AITaken {
					wantOrigin = models.OriginGenerated
				}
				if q.Origin != wantOrigin {
					t.Errorf("question %d: expected origin %s, got %s", i, wantOrigin, q.Origin)
				}
			}
		})
	}
}

func TestGeneratedTarget(t *testing.T) {
	for size, want := range map[int]int{0: 0, 1: 1, 3: 3, 5: 4, 10: 7, 11: 8, 30: 21} {
		if got := GeneratedTarget(size); got != want {
			t.Errorf("GeneratedTarget(%d): expected %d, got %d", size, want, got)
		}
	}
}

func TestExtractionError(t *testing.T) {
	err := &ExtractionError{Format: models.FormatMarkdown}
	if err.Error() != "No questions extracted from MARKDOWN file" {
		t.Errorf("Unexpected message %q", err.Error())
	}
	if !errors.Is(err, ErrNoQuestions) {
		t.Error("Expected errors.Is to match ErrNoQuestions")
	}
}
