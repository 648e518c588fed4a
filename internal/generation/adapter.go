package generation

import (
	"context"
	"time"

	"github.com/Epistemic-Technology/assessa-mcp/internal/llm"
	"github.com/Epistemic-Technology/assessa-mcp/internal/logger"
	"github.com/Epistemic-Technology/assessa-mcp/models"
)

// Stats describes one Generate call.
type Stats struct {
	Blocks   int
	Parsed   int
	Rejected int
	// Err is the model call failure, if any. Generate itself never fails.
	Err error
}

// Adapter turns sampled originals into generated questions through a single
// model call.
type Adapter struct {
	gen     llm.Generator
	timeout time.Duration
	log     logger.Logger
	Policy  llm.RetryPolicy
}

// NewAdapter returns an adapter using the default retry policy. A timeout of
// zero leaves the caller's deadline in charge.
func NewAdapter(gen llm.Generator, timeout time.Duration, log logger.Logger) *Adapter {
	return &Adapter{
		gen:     gen,
		timeout: timeout,
		log:     log,
		Policy:  llm.DefaultRetryPolicy(),
	}
}

// Generate asks the model for new questions in the style of selected. Model
// failures are logged and reported in Stats with an empty result.
func (a *Adapter) Generate(ctx context.Context, selected []models.Question) ([]models.Question, Stats) {
	var stats Stats
	if a == nil || a.gen == nil || len(selected) == 0 {
		return nil, stats
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	req := llm.NewRequest(BuildPrompt(models.NewGenerationRequest(selected)))
	a.log.Info("Requesting generated questions from %s (%d source questions)", a.gen.Name(), len(selected))

	text, err := llm.WithRetry(ctx, a.Policy, a.log, func(ctx context.Context) (string, error) {
		return a.gen.Generate(ctx, req)
	})
	if err != nil {
		a.log.Error("Question generation failed: %v", err)
		stats.Err = err
		return nil, stats
	}

	blocks := ParseBlocks(text)
	generated, rejected := Accepted(blocks)
	stats.Blocks = len(blocks)
	stats.Parsed = len(generated)
	stats.Rejected = rejected
	a.log.Info("Parsed %d generated questions (%d blocks rejected)", stats.Parsed, stats.Rejected)
	return generated, stats
}
