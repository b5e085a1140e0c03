package analysis

import (
	"time"

	"hiresight/internal/contentmetrics"
	"hiresight/internal/extract"
)

const (
	previewRunes = 1000
	relatedRoles = 3
)

// Request carries either an uploaded document or pasted text. Non-blank
// Text takes precedence over Document.
type Request struct {
	Document *extract.Document
	Text     string
	Source   Source
}

// Source describes where the analyzed text came from.
type Source struct {
	FileName  string         `json:"fileName,omitempty"`
	SizeBytes int64          `json:"sizeBytes"`
	Format    extract.Format `json:"format"`
	Digest    string         `json:"digest,omitempty"`
}

// Result is the assessment of a single résumé.
type Result struct {
	ID                   string                 `json:"id"`
	CategoryID           int                    `json:"categoryId"`
	Category             string                 `json:"category"`
	Domain               string                 `json:"domain"`
	RelatedRoles         []string               `json:"relatedRoles"`
	Skills               []string               `json:"skills"`
	Metrics              contentmetrics.Metrics `json:"metrics"`
	Feedback             string                 `json:"feedback"`
	Visualization        []byte                 `json:"visualization,omitempty"`
	VisualizationSkipped bool                   `json:"visualizationSkipped"`
	Preview              string                 `json:"preview"`
	Source               Source                 `json:"source"`
	CreatedAt            time.Time              `json:"createdAt"`
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewRunes {
		return text
	}
	return string(runes[:previewRunes]) + "..."
}
