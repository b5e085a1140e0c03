package skills

import (
	"fmt"
	"strings"

	"hiresight/internal/nlp"
)

// MaxSkills caps the number of skills reported per document.
const MaxSkills = 10

var entityLabels = map[string]struct{}{
	nlp.LabelOrg:     {},
	nlp.LabelProduct: {},
	nlp.LabelGPE:     {},
}

// Extractor finds skills through named entities and a curated keyword list.
type Extractor struct {
	model    nlp.Model
	keywords []string
}

func New(model nlp.Model, keywords []string) *Extractor {
	return &Extractor{model: model, keywords: append([]string(nil), keywords...)}
}

// Extract returns at most MaxSkills distinct skills from raw text in order of
// discovery: entity mentions first, then keyword hits.
func (e *Extractor) Extract(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return []string{}, nil
	}
	doc, err := e.model.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("extract skills: %w", err)
	}

	found := make([]string, 0, len(doc.Entities)+len(e.keywords))
	for _, ent := range doc.Entities {
		if _, ok := entityLabels[ent.Label]; ok {
			found = append(found, ent.Text)
		}
	}

	lowerRaw := strings.ToLower(raw)
	for _, kw := range e.keywords {
		if !strings.Contains(lowerRaw, strings.ToLower(kw)) {
			continue
		}
		if containsFold(found, kw) {
			continue
		}
		found = append(found, kw)
	}

	return dedupe(found, MaxSkills), nil
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

func dedupe(in []string, limit int) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, limit)
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
		if len(out) == limit {
			break
		}
	}
	return out
}
