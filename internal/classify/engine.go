package classify

import (
	"context"
	"fmt"

	"hiresight/internal/lexicon"
	"hiresight/internal/shared/storage/object"
	"hiresight/internal/shared/telemetry"
)

// Predictor maps a batch of normalized texts to class ids.
type Predictor interface {
	Predict(texts []string) ([]int, error)
}

// Engine resolves a predicted class id to a lexicon category.
type Engine struct {
	Predictor Predictor
	Lexicon   *lexicon.Lexicon
}

func NewEngine(predictor Predictor, lex *lexicon.Lexicon) *Engine {
	return &Engine{Predictor: predictor, Lexicon: lex}
}

// Classify predicts the category of normalized text. Ids outside the
// lexicon resolve to lexicon.UnknownCategory. Empty text is a valid input.
func (e *Engine) Classify(normalized string) (lexicon.Category, error) {
	labels, err := e.Predictor.Predict([]string{normalized})
	if err != nil {
		return lexicon.Category{}, fmt.Errorf("%w: %v", ErrPrediction, err)
	}
	if len(labels) != 1 {
		return lexicon.Category{}, fmt.Errorf("%w: expected 1 label, got %d", ErrPrediction, len(labels))
	}
	return e.Lexicon.Category(labels[0]), nil
}

// Load reads and validates the pipeline artifact stored under key.
// Any failure is reported as ErrModelUnavailable.
func Load(ctx context.Context, store object.ObjectStore, key string) (*Pipeline, error) {
	data, err := object.ReadAll(ctx, store, key)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrModelUnavailable, key, err)
	}
	p, err := ParsePipeline(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrModelUnavailable, key, err)
	}
	telemetry.Info("classify.model.loaded", map[string]any{
		"key":      key,
		"version":  p.Version,
		"features": len(p.IDF),
		"classes":  len(p.Classes),
	})
	return p, nil
}
