package analysis

import (
	"errors"
	"fmt"
)

var ErrInvalidInput = errors.New("no resume text supplied")

// Pipeline stages, in execution order.
const (
	StageExtraction     = "extraction"
	StageNormalization  = "normalization"
	StageClassification = "classification"
	StageDomain         = "domain"
	StageSkills         = "skills"
	StageVisualization  = "visualization"
)

// StageError reports which pipeline stage failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// FailedStage returns the stage recorded in err, if any.
func FailedStage(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}
