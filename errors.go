package spritegif

import "github.com/pkg/errors"

var (
	// ErrNoFrames is returned when a stage is handed an empty frame sequence.
	ErrNoFrames = errors.New("no frames")
	// ErrEmptyFrame is returned for nil or zero-area frames.
	ErrEmptyFrame = errors.New("empty frame")
	// ErrCellOutOfRange is returned when a cell selector lies outside the grid.
	ErrCellOutOfRange = errors.New("cell out of range")
	// ErrLengthMismatch is returned when per-frame sequences disagree in length.
	ErrLengthMismatch = errors.New("length mismatch")
)
