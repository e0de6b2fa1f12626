package repository

import "errors"

// Sentinel kinds for deck store errors.
var (
	ErrNotFound     = errors.New("candidate not found")
	ErrInvalidLimit = errors.New("invalid deck limit")
)
