package operations

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/Epistemic-Technology/assessa-mcp/internal/documents"
	"github.com/Epistemic-Technology/assessa-mcp/internal/generation"
	"github.com/Epistemic-Technology/assessa-mcp/internal/logger"
	"github.com/Epistemic-Technology/assessa-mcp/internal/questions"
	"github.com/Epistemic-Technology/assessa-mcp/models"
)

// Generator produces new questions modeled on a sample of originals. It
// never fails; an empty result means nothing usable came back.
// *generation.Adapter is the production implementation.
type Generator interface {
	Generate(ctx context.Context, selected []models.Question) ([]models.Question, generation.Stats)
}

var _ Generator = (*generation.Adapter)(nil)

// PipelineOptions configures RunPipeline.
type PipelineOptions struct {
	// Generator may be nil, in which case the result is all originals.
	Generator Generator
	// Rand drives sampling; nil seeds a fresh source per run.
	Rand *rand.Rand
	Log  logger.Logger
}

// ExtractQuestions reads a PDF or Markdown file and returns its normalized
// questions. Zero usable questions is a *questions.ExtractionError.
func ExtractQuestions(data []byte, format models.SourceFormat, log logger.Logger) ([]models.Question, error) {
	qs, _, err := extract(data, format, log)
	return qs, err
}

func extract(data []byte, format models.SourceFormat, log logger.Logger) ([]models.Question, int, error) {
	if !format.Valid() {
		return nil, 0, fmt.Errorf("unsupported source format %q", format)
	}

	var qs []models.Question
	var dropped int
	var cause error

	switch format {
	case models.FormatPDF:
		text, err := documents.ExtractPDFText(data)
		if err != nil {
			log.Warn("Failed to read PDF text: %v", err)
			cause = err
		}
		qs, dropped = questions.ExtractFromPDFText(text)
	case models.FormatMarkdown:
		text := documents.CleanMarkdown(string(data))
		qs, dropped = questions.ExtractFromMarkdown(text)
	}

	log.Info("Extracted %d questions from %s file (%d dropped)", len(qs), format.Label(), dropped)
	if len(qs) == 0 {
		return nil, dropped, &questions.ExtractionError{Format: format, Cause: cause}
	}
	return qs, dropped, nil
}

// RunPipeline extracts, samples, generates and composes the final question
// list for one assessment. Only an extraction failure is fatal; generation
// problems degrade to an all-original result.
func RunPipeline(ctx context.Context, data []byte, format models.SourceFormat, opts PipelineOptions) (*models.PipelineResult, error) {
	log := opts.Log
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	extracted, dropped, err := extract(data, format, log)
	if err != nil {
		return nil, err
	}

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	sample := questions.Sample(extracted, rng)
	if sample.DuplicatesUsed {
		log.Warn("Only duplicate question texts left to reach %d sampled questions", sample.Desired)
	}
	log.Info("Sampled %d of %d questions", len(sample.Selected), len(extracted))

	var generated []models.Question
	var genStats generation.Stats
	if opts.Generator != nil {
		generated, genStats = opts.Generator.Generate(ctx, sample.Selected)
	}

	composed := questions.Compose(sample.Selected, generated)
	log.Info("Composed %d questions (%d generated, %d original)", len(composed.Questions), composed.AITaken, composed.OriginalTaken)

	stats := models.PipelineStats{
		Format:         format,
		Extracted:      len(extracted),
		Dropped:        dropped,
		Desired:        sample.Desired,
		Selected:       len(sample.Selected),
		DuplicatesUsed: sample.DuplicatesUsed,
		Generated:      len(generated),
		Rejected:       genStats.Rejected,
		GeneratedTaken: composed.AITaken,
		OriginalTaken:  composed.OriginalTaken,
	}
	if genStats.Err != nil {
		stats.GenerationErr = genStats.Err.Error()
	}

	return &models.PipelineResult{Questions: composed.Questions, Stats: stats}, nil
}
