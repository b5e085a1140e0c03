package nlp

// Token is one tokenized unit of text with the attributes the pipeline filters on.
type Token struct {
	Text    string
	Lemma   string
	IsStop  bool
	IsPunct bool
	IsAlpha bool
}

// Entity is a named-entity span.
type Entity struct {
	Text  string
	Label string
}

// Entity labels kept by skill extraction.
const (
	LabelOrg     = "ORG"
	LabelProduct = "PRODUCT"
	LabelGPE     = "GPE"
)

// Doc is the parse of a single text.
type Doc struct {
	Tokens   []Token
	Entities []Entity
}

// Model tokenizes, lemmatizes and tags entities. Implementations must be
// safe for concurrent use once loaded.
type Model interface {
	Parse(text string) (Doc, error)
}
