package workflow

import "errors"

// The error taxonomy every workflow and score-edit operation reports from.
// Callers match with errors.Is; messages carry the specifics.
var (
	ErrValidation        = errors.New("validation failed")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrConflict          = errors.New("conflicting concurrent update")
	ErrSheetNotFound     = errors.New("evaluation sheet not found")
	ErrScoreRowNotFound  = errors.New("score row not found")
)
