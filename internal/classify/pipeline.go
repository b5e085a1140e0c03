package classify

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

// tokenPattern approximates the default word pattern of the exporting
// vectorizer: runs of two or more word characters.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Pipeline is an exported TF-IDF vectorizer followed by a linear classifier.
type Pipeline struct {
	Version     int            `json:"version"`
	Vocabulary  map[string]int `json:"vocabulary"`
	IDF         []float64      `json:"idf"`
	SublinearTF bool           `json:"sublinearTF"`
	Classes     []int          `json:"classes"`
	Coef        [][]float64    `json:"coef"`
	Intercept   []float64      `json:"intercept"`
}

// ParsePipeline decodes and validates a JSON artifact.
func ParsePipeline(data []byte) (*Pipeline, error) {
	var p Pipeline
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidPipeline, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks that the vocabulary, idf, coefficient and intercept shapes agree.
func (p *Pipeline) Validate() error {
	features := len(p.IDF)
	if features == 0 || len(p.Vocabulary) == 0 {
		return fmt.Errorf("%w: empty vocabulary", ErrInvalidPipeline)
	}
	for term, col := range p.Vocabulary {
		if col < 0 || col >= features {
			return fmt.Errorf("%w: term %q maps to column %d outside [0,%d)", ErrInvalidPipeline, term, col, features)
		}
	}
	if len(p.Classes) < 2 {
		return fmt.Errorf("%w: need at least two classes, got %d", ErrInvalidPipeline, len(p.Classes))
	}

	rows := len(p.Coef)
	switch {
	case len(p.Classes) == 2 && rows == 1:
	case rows == len(p.Classes):
	default:
		return fmt.Errorf("%w: %d coefficient rows for %d classes", ErrInvalidPipeline, rows, len(p.Classes))
	}
	for i, row := range p.Coef {
		if len(row) != features {
			return fmt.Errorf("%w: coefficient row %d has %d columns, want %d", ErrInvalidPipeline, i, len(row), features)
		}
	}
	if len(p.Intercept) != rows {
		return fmt.Errorf("%w: %d intercepts for %d coefficient rows", ErrInvalidPipeline, len(p.Intercept), rows)
	}
	return nil
}

// Predict returns one class label per input text.
func (p *Pipeline) Predict(texts []string) ([]int, error) {
	out := make([]int, len(texts))
	for i, text := range texts {
		x := p.vectorize(text)
		out[i] = p.decide(x)
	}
	return out, nil
}

type feature struct {
	col int
	val float64
}

// vectorize returns the L2-normalized tf-idf weights ordered by column,
// so scores are summed in a fixed order.
func (p *Pipeline) vectorize(text string) []feature {
	counts := make(map[int]float64)
	for _, tok := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		if col, ok := p.Vocabulary[tok]; ok {
			counts[col]++
		}
	}

	x := make([]feature, 0, len(counts))
	for col, tf := range counts {
		x = append(x, feature{col: col, val: tf})
	}
	sort.Slice(x, func(i, j int) bool { return x[i].col < x[j].col })

	var norm float64
	for i := range x {
		tf := x[i].val
		if p.SublinearTF {
			tf = 1 + math.Log(tf)
		}
		x[i].val = tf * p.IDF[x[i].col]
		norm += x[i].val * x[i].val
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range x {
			x[i].val /= norm
		}
	}
	return x
}

func (p *Pipeline) decide(x []feature) int {
	score := func(row int) float64 {
		s := p.Intercept[row]
		for _, f := range x {
			s += p.Coef[row][f.col] * f.val
		}
		return s
	}

	if len(p.Coef) == 1 {
		if score(0) > 0 {
			return p.Classes[1]
		}
		return p.Classes[0]
	}

	best, bestScore := 0, math.Inf(-1)
	for row := range p.Coef {
		if s := score(row); s > bestScore {
			best, bestScore = row, s
		}
	}
	return p.Classes[best]
}
