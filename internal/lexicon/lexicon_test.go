package lexicon

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefaultDomainMappingIsTotal(t *testing.T) {
	lex, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}

	names := lex.CategoryNames()
	if len(names) != 25 {
		t.Fatalf("expected 25 categories, got %d", len(names))
	}
	if got := len(lex.DomainNames()); got != 8 {
		t.Fatalf("expected 8 domains, got %d", got)
	}

	domains := map[string]struct{}{}
	for _, d := range lex.DomainNames() {
		domains[d] = struct{}{}
	}
	for _, name := range names {
		domain, err := lex.DomainOf(name)
		if err != nil {
			t.Fatalf("DomainOf(%q): %v", name, err)
		}
		if _, ok := domains[domain]; !ok {
			t.Fatalf("DomainOf(%q) = %q, not a declared domain", name, domain)
		}
		again, _ := lex.DomainOf(name)
		if again != domain {
			t.Fatalf("DomainOf(%q) not stable: %q vs %q", name, domain, again)
		}
	}
}

func TestCategoryNameResolvesClosedSet(t *testing.T) {
	lex, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}

	tests := []struct {
		id     int
		want   string
		wantOK bool
	}{
		{id: 0, want: "Advocate", wantOK: true},
		{id: 15, want: "Java Developer", wantOK: true},
		{id: 20, want: "Python Developer", wantOK: true},
		{id: 24, want: "Web Designing", wantOK: true},
		{id: 25, want: UnknownCategory},
		{id: -1, want: UnknownCategory},
		{id: 999, want: UnknownCategory},
	}
	for _, tt := range tests {
		got, ok := lex.CategoryName(tt.id)
		if got != tt.want || ok != tt.wantOK {
			t.Fatalf("CategoryName(%d) = %q,%v want %q,%v", tt.id, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestDomainOfExamples(t *testing.T) {
	lex, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	cases := map[string]string{
		"Python Developer":          "Technology",
		"Civil Engineer":            "Engineering",
		"Automation Testing":        "Quality Assurance",
		"HR":                        "Business",
		"Network Security Engineer": "Security",
		"Web Designing":             "Design",
		"Data Science":              "Data",
		"Advocate":                  "Other",
	}
	for category, want := range cases {
		got, err := lex.DomainOf(category)
		if err != nil {
			t.Fatalf("DomainOf(%q): %v", category, err)
		}
		if got != want {
			t.Fatalf("DomainOf(%q) = %q, want %q", category, got, want)
		}
	}

	if _, err := lex.DomainOf(UnknownCategory); !errors.Is(err, ErrUnmappedCategory) {
		t.Fatalf("expected ErrUnmappedCategory for sentinel, got %v", err)
	}
}

func TestRelatedCategories(t *testing.T) {
	lex, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}

	got := lex.RelatedCategories("Python Developer", 3)
	want := []string{"Java Developer", "DevOps Engineer", "DotNet Developer"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if got := lex.RelatedCategories("Data Science", 3); len(got) != 0 {
		t.Fatalf("expected no related roles for single-member domain, got %v", got)
	}
	if got := lex.RelatedCategories(UnknownCategory, 3); len(got) != 0 {
		t.Fatalf("expected no related roles for unknown category, got %v", got)
	}
}

func TestParseRejectsBrokenMappings(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{
			name: "unmapped category",
			doc: `
categories:
  - {id: 0, name: A}
  - {id: 1, name: B}
domains:
  - {name: D1, categories: [A]}
`,
			wantErr: ErrUnmappedCategory,
		},
		{
			name: "double mapped category",
			doc: `
categories:
  - {id: 0, name: A}
domains:
  - {name: D1, categories: [A]}
  - {name: D2, categories: [A]}
`,
			wantErr: ErrInvalidLexicon,
		},
		{
			name: "unknown member",
			doc: `
categories:
  - {id: 0, name: A}
domains:
  - {name: D1, categories: [A, Z]}
`,
			wantErr: ErrInvalidLexicon,
		},
		{
			name: "duplicate id",
			doc: `
categories:
  - {id: 0, name: A}
  - {id: 0, name: B}
domains:
  - {name: D1, categories: [A, B]}
`,
			wantErr: ErrInvalidLexicon,
		},
		{
			name: "duplicate skill ignoring case",
			doc: `
categories:
  - {id: 0, name: A}
domains:
  - {name: D1, categories: [A]}
skills: [Go, go]
`,
			wantErr: ErrInvalidLexicon,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadFileOverridesDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lexicon.yaml")
	doc := `
categories:
  - {id: 3, name: Golang Developer}
domains:
  - {name: Technology, categories: [Golang Developer]}
skills: [Go]
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write lexicon: %v", err)
	}

	lex, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if name, ok := lex.CategoryName(3); !ok || name != "Golang Developer" {
		t.Fatalf("unexpected category: %q %v", name, ok)
	}
	if !reflect.DeepEqual(lex.Skills, []string{"Go"}) {
		t.Fatalf("unexpected skills: %v", lex.Skills)
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
