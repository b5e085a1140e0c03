package analysis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"hiresight/internal/contentmetrics"
	"hiresight/internal/extract"
	"hiresight/internal/lexicon"
	"hiresight/internal/shared/metrics"
	"hiresight/internal/shared/telemetry"
	"hiresight/internal/wordcloud"
)

// Normalizer turns raw text into space-separated lemmas.
type Normalizer interface {
	Normalize(text string) (string, error)
}

// Classifier predicts the category of normalized text.
type Classifier interface {
	Classify(normalized string) (lexicon.Category, error)
}

// SkillExtractor finds skills in raw text.
type SkillExtractor interface {
	Extract(raw string) ([]string, error)
}

// Renderer draws a word-frequency image from normalized text.
type Renderer interface {
	Render(normalized string) ([]byte, error)
}

// Service runs the résumé analysis pipeline. Its collaborators are
// read-only after construction and shared across requests.
type Service struct {
	Normalizer Normalizer
	Classifier Classifier
	Skills     SkillExtractor
	Renderer   Renderer
	Lexicon    *lexicon.Lexicon

	now   func() time.Time
	newID func() string
}

// NewService constructs a Service.
func NewService(normalizer Normalizer, classifier Classifier, skills SkillExtractor, renderer Renderer, lex *lexicon.Lexicon) *Service {
	return &Service{
		Normalizer: normalizer,
		Classifier: classifier,
		Skills:     skills,
		Renderer:   renderer,
		Lexicon:    lex,
		now:        func() time.Time { return time.Now().UTC() },
		newID:      uuid.NewString,
	}
}

// Analyze runs every stage in order. The first failing stage stops the run
// and is reported as a *StageError. An empty word cloud is not a failure.
func (s *Service) Analyze(ctx context.Context, req Request) (Result, error) {
	raw := req.Text
	source := req.Source
	if strings.TrimSpace(raw) != "" {
		source.Format = extract.FormatText
		if source.SizeBytes == 0 {
			source.SizeBytes = int64(len(raw))
		}
	} else if req.Document == nil {
		return Result{}, ErrInvalidInput
	}

	id := s.newID()
	startedAt := s.now()
	metrics.IncAnalysisStarted()
	telemetry.Info("analysis.status", map[string]any{
		"request_id":  requestIDFromContext(ctx),
		"analysis_id": id,
		"status":      "processing",
		"format":      string(requestFormat(req)),
		"size_bytes":  source.SizeBytes,
	})

	result, err := s.run(ctx, req, raw, source)
	completedAt := s.now()
	duration := float64(completedAt.Sub(startedAt).Microseconds()) / 1000.0
	metrics.ObserveAnalysisDurationMs(duration)

	if err != nil {
		stage := FailedStage(err)
		metrics.IncAnalysisFailed()
		if stage != "" {
			metrics.IncStageFailed(stage)
		}
		telemetry.Error("analysis.status", map[string]any{
			"request_id":  requestIDFromContext(ctx),
			"analysis_id": id,
			"status":      "failed",
			"stage":       stage,
			"error":       sanitizeError(err),
			"duration_ms": duration,
		})
		return Result{}, err
	}

	result.ID = id
	result.CreatedAt = completedAt
	metrics.IncAnalysisCompleted()
	telemetry.Info("analysis.status", map[string]any{
		"request_id":            requestIDFromContext(ctx),
		"analysis_id":           id,
		"status":                "completed",
		"category":              result.Category,
		"domain":                result.Domain,
		"skills":                len(result.Skills),
		"visualization_skipped": result.VisualizationSkipped,
		"duration_ms":           duration,
	})
	return result, nil
}

func (s *Service) run(ctx context.Context, req Request, raw string, source Source) (Result, error) {
	if strings.TrimSpace(raw) == "" {
		if err := ctx.Err(); err != nil {
			return Result{}, &StageError{Stage: StageExtraction, Err: err}
		}
		text, err := req.Document.Text()
		if err != nil {
			return Result{}, &StageError{Stage: StageExtraction, Err: err}
		}
		raw = text
		source.Format = req.Document.Format
		if source.SizeBytes == 0 {
			source.SizeBytes = int64(len(req.Document.Data))
		}
	}

	if err := ctx.Err(); err != nil {
		return Result{}, &StageError{Stage: StageNormalization, Err: err}
	}
	normalized, err := s.Normalizer.Normalize(raw)
	if err != nil {
		return Result{}, &StageError{Stage: StageNormalization, Err: err}
	}

	if err := ctx.Err(); err != nil {
		return Result{}, &StageError{Stage: StageClassification, Err: err}
	}
	category, err := s.Classifier.Classify(normalized)
	if err != nil {
		return Result{}, &StageError{Stage: StageClassification, Err: err}
	}

	domain := lexicon.FallbackDomain
	if category.Name != lexicon.UnknownCategory {
		domain, err = s.Lexicon.DomainOf(category.Name)
		if err != nil {
			return Result{}, &StageError{Stage: StageDomain, Err: err}
		}
	}

	if err := ctx.Err(); err != nil {
		return Result{}, &StageError{Stage: StageSkills, Err: err}
	}
	skills, err := s.Skills.Extract(raw)
	if err != nil {
		return Result{}, &StageError{Stage: StageSkills, Err: err}
	}

	contentMetrics := contentmetrics.Analyze(raw)

	if err := ctx.Err(); err != nil {
		return Result{}, &StageError{Stage: StageVisualization, Err: err}
	}
	image, err := s.Renderer.Render(normalized)
	skipped := false
	if err != nil {
		if !errors.Is(err, wordcloud.ErrEmptyInput) {
			return Result{}, &StageError{Stage: StageVisualization, Err: err}
		}
		image, skipped = nil, true
		metrics.IncVisualizationSkipped()
		telemetry.Warn("analysis.visualization_skipped", map[string]any{
			"request_id": requestIDFromContext(ctx),
			"reason":     err.Error(),
		})
	}

	return Result{
		CategoryID:           category.ID,
		Category:             category.Name,
		Domain:               domain,
		RelatedRoles:         s.Lexicon.RelatedCategories(category.Name, relatedRoles),
		Skills:               skills,
		Metrics:              contentMetrics,
		Feedback:             contentMetrics.Feedback(),
		Visualization:        image,
		VisualizationSkipped: skipped,
		Preview:              preview(raw),
		Source:               source,
	}, nil
}

func requestFormat(req Request) extract.Format {
	if strings.TrimSpace(req.Text) == "" && req.Document != nil {
		return req.Document.Format
	}
	return extract.FormatText
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.TrimSpace(msg)
	const maxLen = 500
	if len(msg) > maxLen {
		msg = msg[:maxLen]
	}
	return msg
}
