package classify

import "errors"

var (
	ErrModelUnavailable = errors.New("classification model unavailable")
	ErrInvalidPipeline  = errors.New("invalid classification pipeline")
	ErrPrediction       = errors.New("prediction failed")
)
