package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"hiresight/internal/contentmetrics"
	"hiresight/internal/extract"
	"hiresight/internal/lexicon"
	"hiresight/internal/wordcloud"
)

type fakeNormalizer struct {
	err   error
	calls int
	got   string
}

func (f *fakeNormalizer) Normalize(text string) (string, error) {
	f.calls++
	f.got = text
	if f.err != nil {
		return "", f.err
	}
	return strings.ToLower(text), nil
}

type fakeClassifier struct {
	category lexicon.Category
	err      error
	calls    int
}

func (f *fakeClassifier) Classify(normalized string) (lexicon.Category, error) {
	f.calls++
	return f.category, f.err
}

type fakeSkills struct {
	skills []string
	err    error
	calls  int
}

func (f *fakeSkills) Extract(raw string) ([]string, error) {
	f.calls++
	return f.skills, f.err
}

type fakeRenderer struct {
	image []byte
	err   error
	calls int
}

func (f *fakeRenderer) Render(normalized string) ([]byte, error) {
	f.calls++
	return f.image, f.err
}

type fixture struct {
	norm     *fakeNormalizer
	class    *fakeClassifier
	skills   *fakeSkills
	renderer *fakeRenderer
	svc      *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	lex, err := lexicon.Default()
	if err != nil {
		t.Fatalf("lexicon.Default: %v", err)
	}
	f := &fixture{
		norm:     &fakeNormalizer{},
		class:    &fakeClassifier{category: lexicon.Category{ID: 20, Name: "Python Developer"}},
		skills:   &fakeSkills{skills: []string{"Python", "AWS"}},
		renderer: &fakeRenderer{image: []byte("png")},
	}
	f.svc = NewService(f.norm, f.class, f.skills, f.renderer, lex)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	f.svc.now = func() time.Time { return fixed }
	f.svc.newID = func() string { return "analysis-1" }
	return f
}

func TestAnalyzeText(t *testing.T) {
	f := newFixture(t)
	result, err := f.svc.Analyze(context.Background(), Request{Text: "Python AWS engineer"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.ID != "analysis-1" || result.CreatedAt.IsZero() {
		t.Fatalf("expected id and timestamp, got %+v", result)
	}
	if result.Category != "Python Developer" || result.CategoryID != 20 {
		t.Fatalf("unexpected category %+v", result)
	}
	if result.Domain != "Technology" {
		t.Fatalf("expected Technology, got %q", result.Domain)
	}
	if len(result.RelatedRoles) != 3 {
		t.Fatalf("expected 3 related roles, got %v", result.RelatedRoles)
	}
	if strings.Join(result.Skills, ",") != "Python,AWS" {
		t.Fatalf("unexpected skills %v", result.Skills)
	}
	if result.Metrics.WordCount != 3 || result.Metrics.Complexity != contentmetrics.ComplexityLow {
		t.Fatalf("unexpected metrics %+v", result.Metrics)
	}
	if result.Feedback == "" {
		t.Fatal("expected feedback")
	}
	if string(result.Visualization) != "png" || result.VisualizationSkipped {
		t.Fatalf("unexpected visualization %q skipped=%v", result.Visualization, result.VisualizationSkipped)
	}
	if result.Source.Format != extract.FormatText || result.Source.SizeBytes != int64(len("Python AWS engineer")) {
		t.Fatalf("unexpected source %+v", result.Source)
	}
	if f.norm.got != "Python AWS engineer" {
		t.Fatalf("normalizer received %q", f.norm.got)
	}
}

func TestAnalyzeRequiresInput(t *testing.T) {
	f := newFixture(t)
	for _, req := range []Request{{}, {Text: "   \n"}} {
		if _, err := f.svc.Analyze(context.Background(), req); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	}
	if f.norm.calls != 0 {
		t.Fatalf("normalizer should not run, got %d calls", f.norm.calls)
	}
}

func TestAnalyzeTextTakesPrecedenceOverDocument(t *testing.T) {
	f := newFixture(t)
	doc := &extract.Document{Data: []byte("not a pdf"), Format: extract.FormatPDF}
	result, err := f.svc.Analyze(context.Background(), Request{Document: doc, Text: "pasted text"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if f.norm.got != "pasted text" || result.Source.Format != extract.FormatText {
		t.Fatalf("expected pasted text to win, normalizer got %q source %+v", f.norm.got, result.Source)
	}
}

func TestAnalyzeDocument(t *testing.T) {
	f := newFixture(t)
	doc := &extract.Document{Data: []byte("Plain resume body"), Format: extract.FormatText}
	result, err := f.svc.Analyze(context.Background(), Request{Document: doc, Source: Source{FileName: "cv.txt"}})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.Source.FileName != "cv.txt" || result.Source.SizeBytes != int64(len(doc.Data)) {
		t.Fatalf("unexpected source %+v", result.Source)
	}
	if result.Preview != "Plain resume body" {
		t.Fatalf("unexpected preview %q", result.Preview)
	}
}

func TestAnalyzeExtractionFailureStopsPipeline(t *testing.T) {
	f := newFixture(t)
	doc := &extract.Document{Data: []byte("%PDF-broken"), Format: extract.FormatPDF}
	_, err := f.svc.Analyze(context.Background(), Request{Document: doc})
	if !errors.Is(err, extract.ErrExtraction) {
		t.Fatalf("expected ErrExtraction, got %v", err)
	}
	if FailedStage(err) != StageExtraction {
		t.Fatalf("expected extraction stage, got %q", FailedStage(err))
	}
	if f.norm.calls != 0 || f.class.calls != 0 || f.skills.calls != 0 || f.renderer.calls != 0 {
		t.Fatal("later stages must not run after extraction fails")
	}
}

func TestAnalyzeStageFailures(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name  string
		setup func(f *fixture)
		stage string
		after func(f *fixture) int
	}{
		{
			name:  "normalization",
			setup: func(f *fixture) { f.norm.err = boom },
			stage: StageNormalization,
			after: func(f *fixture) int { return f.class.calls + f.skills.calls + f.renderer.calls },
		},
		{
			name:  "classification",
			setup: func(f *fixture) { f.class.err = boom },
			stage: StageClassification,
			after: func(f *fixture) int { return f.skills.calls + f.renderer.calls },
		},
		{
			name:  "skills",
			setup: func(f *fixture) { f.skills.err = boom },
			stage: StageSkills,
			after: func(f *fixture) int { return f.renderer.calls },
		},
		{
			name:  "visualization",
			setup: func(f *fixture) { f.renderer.err = boom },
			stage: StageVisualization,
			after: func(f *fixture) int { return 0 },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(f)
			_, err := f.svc.Analyze(context.Background(), Request{Text: "resume"})
			if !errors.Is(err, boom) {
				t.Fatalf("expected boom, got %v", err)
			}
			if got := FailedStage(err); got != tt.stage {
				t.Fatalf("expected stage %q, got %q", tt.stage, got)
			}
			if n := tt.after(f); n != 0 {
				t.Fatalf("expected later stages skipped, got %d calls", n)
			}
		})
	}
}

func TestAnalyzeUnmappedCategoryFailsDomainStage(t *testing.T) {
	f := newFixture(t)
	f.class.category = lexicon.Category{ID: 3, Name: "Astronaut"}
	_, err := f.svc.Analyze(context.Background(), Request{Text: "resume"})
	if !errors.Is(err, lexicon.ErrUnmappedCategory) || FailedStage(err) != StageDomain {
		t.Fatalf("expected domain stage failure, got %v", err)
	}
}

func TestAnalyzeUnknownCategoryFallsBack(t *testing.T) {
	f := newFixture(t)
	f.class.category = lexicon.Category{ID: 99, Name: lexicon.UnknownCategory}
	result, err := f.svc.Analyze(context.Background(), Request{Text: "resume"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.Domain != lexicon.FallbackDomain {
		t.Fatalf("expected %q, got %q", lexicon.FallbackDomain, result.Domain)
	}
	if len(result.RelatedRoles) != 0 {
		t.Fatalf("expected no related roles, got %v", result.RelatedRoles)
	}
}

func TestAnalyzeSkipsEmptyVisualization(t *testing.T) {
	f := newFixture(t)
	f.renderer.image = nil
	f.renderer.err = wordcloud.ErrEmptyInput
	result, err := f.svc.Analyze(context.Background(), Request{Text: "the and of"})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !result.VisualizationSkipped || result.Visualization != nil {
		t.Fatalf("expected skipped visualization, got %+v", result)
	}
}

func TestAnalyzeCancelledContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.svc.Analyze(ctx, Request{Text: "resume"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if f.norm.calls != 0 {
		t.Fatal("normalizer should not run on a cancelled context")
	}
}

func TestPreview(t *testing.T) {
	short := strings.Repeat("é", previewRunes)
	if got := preview(short); got != short {
		t.Fatal("text at the limit must not be truncated")
	}
	long := strings.Repeat("é", previewRunes+5)
	got := preview(long)
	if !strings.HasSuffix(got, "...") || len([]rune(got)) != previewRunes+3 {
		t.Fatalf("unexpected preview length %d", len([]rune(got)))
	}
}
