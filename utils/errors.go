package utils

import "errors"

// Error dasar yang dikembalikan service. Controller memetakan ke status HTTP
// lewat RespondServiceError; semuanya kondisi recoverable, bukan fatal.
var (
	ErrConflict   = errors.New("conflict")
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
)
