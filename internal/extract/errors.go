package extract

import "errors"

var (
	ErrExtraction    = errors.New("text extraction failed")
	ErrUnknownFormat = errors.New("unknown document format")
)
