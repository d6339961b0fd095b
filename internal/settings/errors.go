package settings

import "fmt"

// ParseError reports malformed input with its location in the source file.
// Line and Column are 1-based and zero when the position is unknown.
type ParseError struct {
	File   string
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %v", e.File, e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// duplicateKeyError marks a repeated sibling key discovered during the
// pre-decode token walk. The offset points just past the repeated key.
type duplicateKeyError struct {
	path   string
	offset int64
}

func (e *duplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key %q", e.path)
}
