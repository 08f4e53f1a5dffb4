package templates

import (
	"errors"
	"fmt"
)

var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrNoActiveTemplate = errors.New("no active template for org unit and position")
	ErrNothingStaged    = errors.New("no staged import rows")
)

type RowError struct {
	Line   int    `json:"line"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ImportError carries every row-level failure of a batch. A batch with any
// row error commits nothing.
type ImportError struct {
	Rows []RowError
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("import rejected: %d row error(s)", len(e.Rows))
}
