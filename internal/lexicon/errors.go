package lexicon

import "errors"

var (
	ErrInvalidLexicon   = errors.New("invalid lexicon")
	ErrUnmappedCategory = errors.New("category has no domain")
)
