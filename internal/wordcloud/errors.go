package wordcloud

import "errors"

var ErrEmptyInput = errors.New("no words to render")
