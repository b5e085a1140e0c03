package contentmetrics

import (
	"math"
	"strings"
)

// Complexity bands a résumé by word count.
type Complexity string

const (
	ComplexityLow    Complexity = "Low"
	ComplexityMedium Complexity = "Medium"
	ComplexityHigh   Complexity = "High"
)

const (
	lowWordLimit  = 200
	highWordLimit = 800
)

// Metrics are simple size statistics of the raw text.
type Metrics struct {
	WordCount           int        `json:"wordCount"`
	SentenceCount       int        `json:"sentenceCount"`
	AvgWordsPerSentence float64    `json:"avgWordsPerSentence"`
	Complexity          Complexity `json:"complexity"`
}

// Analyze computes metrics over raw text. Sentences are the non-blank
// segments between periods; there is always at least one.
func Analyze(raw string) Metrics {
	words := len(strings.Fields(raw))

	sentences := 0
	for _, seg := range strings.Split(raw, ".") {
		if strings.TrimSpace(seg) != "" {
			sentences++
		}
	}
	if sentences < 1 {
		sentences = 1
	}

	avg := math.Round(float64(words)/float64(sentences)*10) / 10

	return Metrics{
		WordCount:           words,
		SentenceCount:       sentences,
		AvgWordsPerSentence: avg,
		Complexity:          complexityFor(words),
	}
}

func complexityFor(words int) Complexity {
	switch {
	case words < lowWordLimit:
		return ComplexityLow
	case words > highWordLimit:
		return ComplexityHigh
	default:
		return ComplexityMedium
	}
}

// Feedback returns advice for the complexity band.
func (m Metrics) Feedback() string {
	switch m.Complexity {
	case ComplexityLow:
		return "Your resume seems brief. Consider adding more details about your experience and skills."
	case ComplexityHigh:
		return "Your resume is quite detailed. Consider focusing on the most relevant information."
	default:
		return "Your resume has a good balance of detail and conciseness."
	}
}
