package nlp

import (
	"bufio"
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"github.com/jdkato/prose/v2"

	"hiresight/internal/shared/telemetry"
)

//go:embed stopwords.txt
var defaultStopwords []byte

// GazetteerEntry tags a fixed proper noun with an entity label.
type GazetteerEntry struct {
	Text  string
	Label string
}

// Options configures Load.
type Options struct {
	// StopwordsPath overrides the embedded English stopword list.
	StopwordsPath string
	Gazetteer     []GazetteerEntry
	// Provision is called once when the first load attempt fails, to fetch
	// missing model resources before retrying.
	Provision func(ctx context.Context) error
}

// ProseModel is a Model backed by prose (tokens, entities) and golem (lemmas).
type ProseModel struct {
	tagger     *prose.Model
	lemmatizer *golem.Lemmatizer
	stopwords  map[string]struct{}
	gazetteer  []gazetteerPattern
}

type gazetteerPattern struct {
	entity Entity
	re     *regexp.Regexp
}

// Load builds the language model and runs a warm-up parse. A failed first
// attempt triggers Provision once; a second failure is ErrModelUnavailable.
func Load(ctx context.Context, opts Options) (*ProseModel, error) {
	model, err := build(opts)
	if err == nil {
		return model, nil
	}
	if opts.Provision == nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	telemetry.Warn("nlp.model.provision", map[string]any{"err": err.Error()})
	if perr := opts.Provision(ctx); perr != nil {
		return nil, fmt.Errorf("%w: provision: %v (initial load: %v)", ErrModelUnavailable, perr, err)
	}
	model, err = build(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	return model, nil
}

func build(opts Options) (*ProseModel, error) {
	words := defaultStopwords
	if path := strings.TrimSpace(opts.StopwordsPath); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read stopwords: %w", err)
		}
		words = data
	}
	stopwords, err := parseStopwords(words)
	if err != nil {
		return nil, err
	}

	lemmatizer, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("load lemmatizer: %w", err)
	}

	patterns := make([]gazetteerPattern, 0, len(opts.Gazetteer))
	for _, g := range opts.Gazetteer {
		text := strings.TrimSpace(g.Text)
		if text == "" {
			continue
		}
		patterns = append(patterns, gazetteerPattern{
			entity: Entity{Text: text, Label: g.Label},
			re:     regexp.MustCompile(`(?:^|[^\p{L}\p{N}])(` + regexp.QuoteMeta(text) + `)(?:$|[^\p{L}\p{N}])`),
		})
	}

	warm, err := prose.NewDocument("Warm up the tagger with a short sentence.", prose.WithSegmentation(false))
	if err != nil {
		return nil, fmt.Errorf("warm up: %w", err)
	}
	if warm.Model == nil {
		return nil, errors.New("warm up: tagger model not loaded")
	}

	return &ProseModel{tagger: warm.Model, lemmatizer: lemmatizer, stopwords: stopwords, gazetteer: patterns}, nil
}

func parseStopwords(data []byte) (map[string]struct{}, error) {
	out := make(map[string]struct{}, 512)
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		w := strings.ToLower(strings.TrimSpace(sc.Text()))
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		out[w] = struct{}{}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan stopwords: %w", err)
	}
	if len(out) == 0 {
		return nil, errors.New("stopword list is empty")
	}
	return out, nil
}

// Parse tokenizes text and tags entities with the tagger loaded by Load.
func (m *ProseModel) Parse(text string) (Doc, error) {
	if strings.TrimSpace(text) == "" {
		return Doc{}, nil
	}
	doc, err := prose.NewDocument(text, prose.WithSegmentation(false), prose.UsingModel(m.tagger))
	if err != nil {
		return Doc{}, fmt.Errorf("parse: %w", err)
	}

	proseTokens := doc.Tokens()
	tokens := make([]Token, 0, len(proseTokens))
	for _, tok := range proseTokens {
		lower := strings.ToLower(tok.Text)
		_, stop := m.stopwords[lower]
		tokens = append(tokens, Token{
			Text:    tok.Text,
			Lemma:   m.lemmatizer.Lemma(lower),
			IsStop:  stop,
			IsPunct: allRunes(tok.Text, unicode.IsPunct),
			IsAlpha: allRunes(tok.Text, unicode.IsLetter),
		})
	}

	var entities []Entity
	seen := make(map[string]struct{})
	for _, ent := range doc.Entities() {
		entities = append(entities, Entity{Text: ent.Text, Label: ent.Label})
		seen[ent.Text] = struct{}{}
	}
	entities = append(entities, m.matchGazetteer(text, seen)...)

	return Doc{Tokens: tokens, Entities: entities}, nil
}

// matchGazetteer returns gazetteer hits ordered by first occurrence,
// skipping texts the tagger already reported.
func (m *ProseModel) matchGazetteer(text string, seen map[string]struct{}) []Entity {
	type hit struct {
		pos    int
		entity Entity
	}
	var hits []hit
	for _, p := range m.gazetteer {
		if _, ok := seen[p.entity.Text]; ok {
			continue
		}
		loc := p.re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		hits = append(hits, hit{pos: loc[2], entity: p.entity})
		seen[p.entity.Text] = struct{}{}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })
	out := make([]Entity, len(hits))
	for i, h := range hits {
		out[i] = h.entity
	}
	return out
}

func allRunes(s string, pred func(rune) bool) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !pred(r) {
			return false
		}
	}
	return true
}
