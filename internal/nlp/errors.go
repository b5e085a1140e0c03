package nlp

import "errors"

var ErrModelUnavailable = errors.New("language model unavailable")
