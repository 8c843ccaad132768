package chessvision

import (
	"errors"
	"fmt"
)

// Pipeline stage names, reported inside StageError.
const (
	StageLoad    = "load"
	StageLocate  = "locate"
	StageRectify = "rectify"
)

var (
	// ErrBoardNotFound means no contour approximated to a 4-sided polygon.
	// The usual fix is a retake with the full board visible and better contrast.
	ErrBoardNotFound = errors.New("could not detect a 4-sided board outline")

	// ErrRectificationFailed means the detected corners are degenerate
	// (collinear or duplicated) and no homography exists.
	ErrRectificationFailed = errors.New("degenerate board corners, cannot rectify")
)

// StageError reports which pipeline stage failed. Stage failures are fatal
// for the image being processed; no partial board state is produced.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErr(stage string, err error) error {
	return &StageError{Stage: stage, Err: err}
}
