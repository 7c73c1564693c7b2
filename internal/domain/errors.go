package domain

import "errors"

var (
	ErrInvalidID              = errors.New("invalid id")
	ErrInvalidHandle          = errors.New("invalid resize handle")
	ErrInvalidGridParams      = errors.New("invalid grid parameters")
	ErrInvalidRect            = errors.New("invalid grid rect")
	ErrInvalidConstraints     = errors.New("invalid size constraints")
	ErrInvalidGestureSequence = errors.New("invalid gesture sequence")
	ErrGestureInProgress      = errors.New("gesture already in progress")
)
