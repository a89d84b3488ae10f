package service

import (
	"errors"
	"fmt"
)

// Stage is a step of a single submission attempt.
type Stage string

const (
	StageEditing    Stage = "editing"
	StageValidating Stage = "validating"
	StageUploading  Stage = "uploading"
	StagePersisting Stage = "persisting"
	StageSubmitted  Stage = "submitted"
)

// StageError reports the stage a submission failed in. The draft is back in editing either way.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("booking %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// FailedStage returns the stage carried by err, or "" when err did not come from Submit.
func FailedStage(err error) Stage {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.Stage
	}

	return ""
}
