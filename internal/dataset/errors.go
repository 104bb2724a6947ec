package dataset

import (
	"errors"
	"fmt"
)

var (
	ErrMissingHeader = errors.New("missing header row")
	ErrMissingColumn = errors.New("missing required column")
	ErrBadTime       = errors.New("invalid time of day")
)

// LoadError means the dataset as a whole could not be read. It is fatal at
// startup.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// RowError describes a single record that failed conversion. The record is
// skipped and the load continues.
type RowError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *RowError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: column %s=%q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }
