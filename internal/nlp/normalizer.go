package nlp

import (
	"fmt"
	"strings"
)

// Normalizer reduces text to space-separated lemmas of its content words.
type Normalizer struct {
	model Model
}

func NewNormalizer(model Model) *Normalizer {
	return &Normalizer{model: model}
}

// Normalize keeps tokens that are alphabetic, not stopwords and not
// punctuation, replaces each with its lemma and joins them with single spaces.
func (n *Normalizer) Normalize(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	doc, err := n.model.Parse(text)
	if err != nil {
		return "", fmt.Errorf("normalize: %w", err)
	}
	kept := make([]string, 0, len(doc.Tokens))
	for _, tok := range doc.Tokens {
		if tok.IsStop || tok.IsPunct || !tok.IsAlpha {
			continue
		}
		lemma := strings.TrimSpace(tok.Lemma)
		if lemma == "" {
			lemma = tok.Text
		}
		kept = append(kept, lemma)
	}
	return strings.Join(kept, " "), nil
}
