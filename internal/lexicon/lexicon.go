package lexicon

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// UnknownCategory names any predicted id outside the category table.
	UnknownCategory = "Unknown"
	// FallbackDomain is the domain reported for UnknownCategory.
	FallbackDomain = "Other"
)

//go:embed lexicon.yaml
var defaultYAML []byte

// Category is a job-role label known to the classification model.
type Category struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Domain groups related categories into a career field.
type Domain struct {
	Name       string   `json:"name" yaml:"name"`
	Categories []string `json:"categories" yaml:"categories"`
}

// GazetteerEntry is a proper noun with a fixed entity label.
type GazetteerEntry struct {
	Text  string `json:"text" yaml:"text"`
	Label string `json:"label" yaml:"label"`
}

// Lexicon holds the static lookup tables used by the pipeline.
// It is read-only once Load returns.
type Lexicon struct {
	Categories []Category       `yaml:"categories"`
	Domains    []Domain         `yaml:"domains"`
	Skills     []string         `yaml:"skills"`
	Gazetteer  []GazetteerEntry `yaml:"gazetteer"`

	byID     map[int]string
	domainOf map[string]string
	members  map[string][]string
}

// Default returns the lexicon compiled into the binary.
func Default() (*Lexicon, error) {
	return Parse(defaultYAML)
}

// LoadFile reads a lexicon from a YAML file. An empty path yields Default.
func LoadFile(path string) (*Lexicon, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon %s: %w", path, err)
	}
	lex, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("lexicon %s: %w", path, err)
	}
	return lex, nil
}

// Parse decodes and validates a YAML lexicon document.
func Parse(data []byte) (*Lexicon, error) {
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, fmt.Errorf("decode lexicon: %w", err)
	}
	if err := lex.Validate(); err != nil {
		return nil, err
	}
	return &lex, nil
}

// Validate checks the table invariants and builds the lookup indexes.
// Every category name must belong to exactly one domain and every domain
// member must be a known category.
func (l *Lexicon) Validate() error {
	if len(l.Categories) == 0 {
		return fmt.Errorf("%w: no categories", ErrInvalidLexicon)
	}

	byID := make(map[int]string, len(l.Categories))
	names := make(map[string]struct{}, len(l.Categories))
	for _, c := range l.Categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return fmt.Errorf("%w: category %d has no name", ErrInvalidLexicon, c.ID)
		}
		if c.ID < 0 {
			return fmt.Errorf("%w: category %q has negative id %d", ErrInvalidLexicon, name, c.ID)
		}
		if _, dup := byID[c.ID]; dup {
			return fmt.Errorf("%w: duplicate category id %d", ErrInvalidLexicon, c.ID)
		}
		if _, dup := names[name]; dup {
			return fmt.Errorf("%w: duplicate category name %q", ErrInvalidLexicon, name)
		}
		if name == UnknownCategory {
			return fmt.Errorf("%w: %q is reserved", ErrInvalidLexicon, UnknownCategory)
		}
		byID[c.ID] = name
		names[name] = struct{}{}
	}

	domainOf := make(map[string]string, len(names))
	members := make(map[string][]string, len(l.Domains))
	for _, d := range l.Domains {
		if strings.TrimSpace(d.Name) == "" {
			return fmt.Errorf("%w: domain with no name", ErrInvalidLexicon)
		}
		if _, dup := members[d.Name]; dup {
			return fmt.Errorf("%w: duplicate domain %q", ErrInvalidLexicon, d.Name)
		}
		for _, member := range d.Categories {
			if _, ok := names[member]; !ok {
				return fmt.Errorf("%w: domain %q lists unknown category %q", ErrInvalidLexicon, d.Name, member)
			}
			if prev, dup := domainOf[member]; dup {
				return fmt.Errorf("%w: category %q mapped to both %q and %q", ErrInvalidLexicon, member, prev, d.Name)
			}
			domainOf[member] = d.Name
		}
		members[d.Name] = append([]string(nil), d.Categories...)
	}

	var unmapped []string
	for name := range names {
		if _, ok := domainOf[name]; !ok {
			unmapped = append(unmapped, name)
		}
	}
	if len(unmapped) > 0 {
		sort.Strings(unmapped)
		return fmt.Errorf("%w: %s", ErrUnmappedCategory, strings.Join(unmapped, ", "))
	}

	seenSkill := make(map[string]struct{}, len(l.Skills))
	for _, s := range l.Skills {
		key := strings.ToLower(strings.TrimSpace(s))
		if key == "" {
			return fmt.Errorf("%w: empty skill keyword", ErrInvalidLexicon)
		}
		if _, dup := seenSkill[key]; dup {
			return fmt.Errorf("%w: duplicate skill keyword %q", ErrInvalidLexicon, s)
		}
		seenSkill[key] = struct{}{}
	}

	for _, g := range l.Gazetteer {
		if strings.TrimSpace(g.Text) == "" || strings.TrimSpace(g.Label) == "" {
			return fmt.Errorf("%w: gazetteer entry needs text and label", ErrInvalidLexicon)
		}
	}

	l.byID = byID
	l.domainOf = domainOf
	l.members = members
	return nil
}

// CategoryName resolves a predicted id. Ids outside the table resolve to
// UnknownCategory with ok=false.
func (l *Lexicon) CategoryName(id int) (string, bool) {
	name, ok := l.byID[id]
	if !ok {
		return UnknownCategory, false
	}
	return name, true
}

// Category returns the Category for a predicted id.
func (l *Lexicon) Category(id int) Category {
	name, _ := l.CategoryName(id)
	return Category{ID: id, Name: name}
}

// DomainOf returns the domain group of a lexicon category.
func (l *Lexicon) DomainOf(category string) (string, error) {
	domain, ok := l.domainOf[category]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnmappedCategory, category)
	}
	return domain, nil
}

// RelatedCategories returns up to n other categories from the same domain,
// in lexicon order.
func (l *Lexicon) RelatedCategories(category string, n int) []string {
	domain, ok := l.domainOf[category]
	if !ok || n <= 0 {
		return []string{}
	}
	out := make([]string, 0, n)
	for _, member := range l.members[domain] {
		if member == category {
			continue
		}
		out = append(out, member)
		if len(out) == n {
			break
		}
	}
	return out
}

// CategoryNames returns every category name ordered by id.
func (l *Lexicon) CategoryNames() []string {
	cats := append([]Category(nil), l.Categories...)
	sort.Slice(cats, func(i, j int) bool { return cats[i].ID < cats[j].ID })
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = c.Name
	}
	return out
}

// DomainNames returns the domain names in lexicon order.
func (l *Lexicon) DomainNames() []string {
	out := make([]string, len(l.Domains))
	for i, d := range l.Domains {
		out[i] = d.Name
	}
	return out
}
