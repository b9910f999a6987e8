package convert

import (
	"errors"
	"fmt"
)

// Stage names the step of the sticker pipeline that failed.
type Stage string

const (
	StageFetch  Stage = "fetch"
	StageDecode Stage = "decode"
	StageEncode Stage = "encode"
	StageSend   Stage = "send"
)

// StageError tags an error with the pipeline stage it came from.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Failed wraps err with the given stage. It returns nil for a nil err and
// keeps the innermost stage when err is already tagged.
func Failed(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	var se *StageError
	if errors.As(err, &se) {
		return err
	}
	return &StageError{Stage: stage, Err: err}
}

// StageOf reports the stage recorded in err, or "" if it carries none.
func StageOf(err error) Stage {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}
