package questions

import (
	"regexp"
	"strings"

	"github.com/Epistemic-Technology/assessa-mcp/models"
)

var (
	pdfQuestionStart = regexp.MustCompile(`(?m)^[ \t]*Q?\d+[.)]`)
	// Question bodies end at the first blank line or the first lettered line.
	pdfBodyEnd   = regexp.MustCompile(`\n\s*\n|\n[ \t]*[A-Za-z][.)]`)
	pdfOption    = regexp.MustCompile(`^([A-Da-d])[.)]\s*(.+)$`)
	answerHeader = regexp.MustCompile(`(?i)answers[\s:\-]*\n`)
	answerPair   = regexp.MustCompile(`(\d+)\.\s*([A-Da-d])`)
)

// SegmentPDF splits extracted PDF text into draft questions. Every line that
// begins with "<n>." / "<n>)" / "Q<n>." / "Q<n>)" opens a new draft; lettered
// A-D lines up to the next delimiter become its options in document order.
// Drafts carry no answer; see ResolveAnswerKey.
func SegmentPDF(text string) []models.DraftQuestion {
	starts := pdfQuestionStart.FindAllStringIndex(text, -1)
	drafts := make([]models.DraftQuestion, 0, len(starts))

	for i, loc := range starts {
		end := len(text)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}
		content := text[loc[1]:end]

		body := content
		if cut := pdfBodyEnd.FindStringIndex(content); cut != nil {
			body = content[:cut[0]]
		}

		draft := models.DraftQuestion{QuestionText: strings.TrimSpace(body)}
		for _, line := range strings.Split(content, "\n") {
			if m := pdfOption.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
				draft.Options = append(draft.Options, strings.TrimSpace(m[2]))
			}
		}
		drafts = append(drafts, draft)
	}
	return drafts
}

// ParseAnswerKey finds the first "answers" heading and maps each following
// "<ordinal>. <letter>" pair to its upper-case letter. A later pair for the
// same ordinal replaces an earlier one. Text without a heading has no key.
func ParseAnswerKey(text string) map[int]string {
	key := make(map[int]string)
	loc := answerHeader.FindStringIndex(text)
	if loc == nil {
		return key
	}
	for _, m := range answerPair.FindAllStringSubmatch(text[loc[1]:], -1) {
		ordinal := 0
		for _, c := range m[1] {
			ordinal = ordinal*10 + int(c-'0')
		}
		key[ordinal] = strings.ToUpper(m[2])
	}
	return key
}

// ResolveAnswerKey assigns each draft the key letter for its 1-based position.
// Drafts with no entry keep an empty letter.
func ResolveAnswerKey(drafts []models.DraftQuestion, key map[int]string) {
	for i := range drafts {
		drafts[i].CorrectAnswerLetter = key[i+1]
	}
}

// ExtractFromPDFText runs segmentation, answer-key resolution and PDF
// normalization over extracted text. It returns the valid questions and the
// number of drafts that were dropped.
func ExtractFromPDFText(text string) ([]models.Question, int) {
	drafts := SegmentPDF(text)
	ResolveAnswerKey(drafts, ParseAnswerKey(text))
	return NormalizePDF(drafts)
}
