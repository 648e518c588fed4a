package questions

import (
	"errors"
	"fmt"

	"github.com/Epistemic-Technology/assessa-mcp/models"
)

// ErrNoQuestions is the fatal condition of a document that yields no usable
// questions.
var ErrNoQuestions = errors.New("no questions extracted")

// ExtractionError reports a document, in a given format, that produced zero
// questions. Cause is set when the document could not be read at all; it is
// reachable through errors.Is/As but kept out of the message.
type ExtractionError struct {
	Format models.SourceFormat
	Cause  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("No questions extracted from %s file", e.Format.Label())
}

func (e *ExtractionError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrNoQuestions, e.Cause}
	}
	return []error{ErrNoQuestions}
}
