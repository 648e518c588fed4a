package operations

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Epistemic-Technology/assessa-mcp/internal/documents"
	"github.com/Epistemic-Technology/assessa-mcp/internal/logger"
	"github.com/Epistemic-Technology/assessa-mcp/internal/storage"
	"github.com/Epistemic-Technology/assessa-mcp/models"
)

// SourceCredentials holds the settings needed to fetch remote sources.
type SourceCredentials struct {
	ZoteroAPIKey    string
	ZoteroLibraryID string
}

// FetchDocument returns rawData (with the naming hints from src) when it is
// set, and otherwise downloads the file src points to.
func FetchDocument(ctx context.Context, rawData []byte, src models.SourceInfo, creds SourceCredentials) (models.DocumentData, error) {
	if len(rawData) > 0 {
		return models.DocumentData{Data: rawData, Filename: src.Filename, MIMEType: src.MIMEType}, nil
	}
	doc, err := documents.GetData(ctx, src, creds.ZoteroAPIKey, creds.ZoteroLibraryID)
	if err != nil {
		return models.DocumentData{}, fmt.Errorf("failed to fetch assessment file: %w", err)
	}
	return doc, nil
}

// UploadParams describes one assessment upload.
type UploadParams struct {
	Source     models.SourceInfo
	RawData    []byte
	Title      string
	Subject    string
	GradeLevel string
	// TimeLimit is in minutes; zero means models.DefaultTimeLimit.
	TimeLimit int
	// PerDifficulty runs a separate pipeline for every difficulty instead of
	// storing one result under all four labels.
	PerDifficulty bool
}

// UploadedAssessment is one persisted difficulty variant.
type UploadedAssessment struct {
	ID            string            `json:"id"`
	Difficulty    models.Difficulty `json:"difficulty"`
	QuestionCount int               `json:"question_count"`
	ResourcePaths []string          `json:"resource_paths"`
}

// UploadResult is returned by UploadAssessment.
type UploadResult struct {
	Title        string                 `json:"title"`
	SourceFormat models.SourceFormat    `json:"source_format"`
	Assessments  []UploadedAssessment   `json:"assessments"`
	Stats        []models.PipelineStats `json:"stats"`
}

// UploadAssessment fetches and classifies the file, runs the pipeline and
// stores one pending assessment per difficulty label. If any assessment
// cannot be stored, those already written are removed.
func UploadAssessment(ctx context.Context, store storage.Store, gen Generator, creds SourceCredentials, params UploadParams, log logger.Logger) (*UploadResult, error) {
	doc, err := FetchDocument(ctx, params.RawData, params.Source, creds)
	if err != nil {
		return nil, err
	}
	format := documents.ClassifyFormat(doc.Filename, doc.MIMEType, doc.Data)
	log.Info("Processing %s upload %q (%d bytes)", format.Label(), doc.Filename, len(doc.Data))

	difficulties := models.Difficulties()
	results := make([]*models.PipelineResult, len(difficulties))

	if params.PerDifficulty {
		g, gctx := errgroup.WithContext(ctx)
		for i := range difficulties {
			g.Go(func() error {
				res, err := RunPipeline(gctx, doc.Data, format, PipelineOptions{Generator: gen, Log: log})
				if err != nil {
					return err
				}
				results[i] = res
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		res, err := RunPipeline(ctx, doc.Data, format, PipelineOptions{Generator: gen, Log: log})
		if err != nil {
			return nil, err
		}
		for i := range results {
			results[i] = res
		}
	}

	title := params.Title
	if title == "" {
		title = defaultTitle(doc.Filename)
	}
	timeLimit := params.TimeLimit
	if timeLimit <= 0 {
		timeLimit = models.DefaultTimeLimit
	}

	out := &UploadResult{Title: title, SourceFormat: format}
	for i, d := range difficulties {
		a := &models.Assessment{
			Title:        title,
			Subject:      params.Subject,
			GradeLevel:   params.GradeLevel,
			TimeLimit:    timeLimit,
			Difficulty:   d,
			FileRef:      params.Source.FileRef(),
			SourceFormat: format,
			Questions:    results[i].Questions,
		}
		id, err := store.StoreAssessment(ctx, a)
		if err != nil {
			log.Error("Failed to store %s assessment: %v", d, err)
			return nil, errors.Join(fmt.Errorf("failed to store %s assessment: %w", d, err), removeUploaded(ctx, store, out.Assessments))
		}
		out.Assessments = append(out.Assessments, UploadedAssessment{
			ID:            id,
			Difficulty:    d,
			QuestionCount: len(a.Questions),
			ResourcePaths: storage.CalculateResourcePaths(id, len(a.Questions)),
		})
		if params.PerDifficulty || i == 0 {
			out.Stats = append(out.Stats, results[i].Stats)
		}
	}

	log.Info("Stored %d assessments for %q", len(out.Assessments), title)
	return out, nil
}

func removeUploaded(ctx context.Context, store storage.Store, uploaded []UploadedAssessment) error {
	var errs []error
	for _, u := range uploaded {
		if err := store.DeleteAssessment(ctx, u.ID); err != nil {
			errs = append(errs, fmt.Errorf("failed to remove assessment %s: %w", u.ID, err))
		}
	}
	return errors.Join(errs...)
}

func defaultTitle(filename string) string {
	base := strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	if base == "" || base == "." || base == "/" {
		return "Untitled assessment"
	}
	return base
}
