package app

import "errors"

// ErrNotFound and related errors describe validation and runtime failures.
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidPhase  = errors.New("invalid gesture phase")
	ErrStaticItem    = errors.New("item is static")
	ErrDuplicateItem = errors.New("item already exists")
)
