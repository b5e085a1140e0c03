package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"hiresight/internal/analysis"
	"hiresight/internal/classify"
	"hiresight/internal/lexicon"
	"hiresight/internal/nlp"
	"hiresight/internal/services/health"
	"hiresight/internal/shared/config"
	"hiresight/internal/shared/server"
	"hiresight/internal/shared/server/middleware"
	"hiresight/internal/shared/storage/object"
	localstore "hiresight/internal/shared/storage/object/local"
	s3store "hiresight/internal/shared/storage/object/s3"
	"hiresight/internal/shared/telemetry"
	"hiresight/internal/skills"
	"hiresight/internal/wordcloud"
)

// App holds the loaded models and the services built on them.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	Store           object.ObjectStore
	Lexicon         *lexicon.Lexicon
	Model           *nlp.ProseModel
	Pipeline        *classify.Pipeline
	AnalysisService *analysis.Service
	AnalysisHandler *analysis.Handler
	HealthService   *health.Service
}

// Build loads every model up front and wires the pipeline and HTTP router.
// A model that cannot be loaded is fatal; the error wraps
// nlp.ErrModelUnavailable or classify.ErrModelUnavailable.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	app, err := Load(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.Router = server.NewRouter(app.Config, server.Deps{
		Analysis: app.AnalysisHandler,
		Health:   app.HealthService,
		Limiter:  middleware.NewRateLimiter(nil),
	})
	return app, nil
}

// Load is Build without the HTTP router, for callers that run the
// pipeline in process.
func Load(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ModelStoreType) == "" {
		cfg.ModelStoreType = "local"
	}

	lex, err := lexicon.LoadFile(cfg.LexiconPath)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	model, err := nlp.Load(ctx, nlp.Options{
		StopwordsPath: cfg.StopwordsPath,
		Gazetteer:     gazetteer(lex),
		Provision:     provisionStopwords(store, cfg.StopwordsKey, cfg.StopwordsPath),
	})
	if err != nil {
		return nil, err
	}

	pipeline, err := classify.Load(ctx, store, cfg.ModelKey)
	if err != nil {
		return nil, err
	}

	renderer, err := wordcloud.New(cfg.WordCloudScale)
	if err != nil {
		return nil, err
	}

	svc := analysis.NewService(
		nlp.NewNormalizer(model),
		classify.NewEngine(pipeline, lex),
		skills.New(model, lex.Skills),
		renderer,
		lex,
	)
	handler := analysis.NewHandler(svc, cfg.MaxUploadBytes)
	healthSvc := health.NewService(cfg.Env,
		health.ModelInfo{Version: pipeline.Version, Features: len(pipeline.IDF), Classes: len(pipeline.Classes)},
		health.LexiconInfo{Categories: len(lex.Categories), Domains: len(lex.Domains), Skills: len(lex.Skills)},
	)

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":        cfg.Env,
		"store":      cfg.ModelStoreType,
		"model_key":  cfg.ModelKey,
		"categories": len(lex.Categories),
	})
	return &App{
		Config:          cfg,
		Store:           store,
		Lexicon:         lex,
		Model:           model,
		Pipeline:        pipeline,
		AnalysisService: svc,
		AnalysisHandler: handler,
		HealthService:   healthSvc,
	}, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ModelStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.ModelDir), nil
	}
}

func gazetteer(lex *lexicon.Lexicon) []nlp.GazetteerEntry {
	out := make([]nlp.GazetteerEntry, 0, len(lex.Gazetteer))
	for _, g := range lex.Gazetteer {
		out = append(out, nlp.GazetteerEntry{Text: g.Text, Label: g.Label})
	}
	return out
}

// provisionStopwords copies the stopword list from the model store to the
// local path the language model reads.
func provisionStopwords(store object.ObjectStore, key, path string) func(context.Context) error {
	return func(ctx context.Context) error {
		if strings.TrimSpace(key) == "" || strings.TrimSpace(path) == "" {
			return errors.New("no stopwords source configured")
		}
		data, err := object.ReadAll(ctx, store, key)
		if err != nil {
			return fmt.Errorf("fetch stopwords %s: %w", key, err)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create stopwords dir: %w", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write stopwords: %w", err)
		}
		telemetry.Info("nlp.stopwords.provisioned", map[string]any{"key": key, "path": path, "bytes": len(data)})
		return nil
	}
}
