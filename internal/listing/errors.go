// Package listing scans the assembly bulletin board for the latest weekly menu post.
package listing

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no listing row qualifies.
var ErrNotFound = errors.New("no recent weekly menu post found")

// StructureError reports that the board markup no longer has the expected shape.
type StructureError struct {
	Selector string
	Message  string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("listing structure error: %s (selector %q)", e.Message, e.Selector)
}

// RefError reports a download hook that does not match the expected call shape.
type RefError struct {
	OnClick string
}

func (e *RefError) Error() string {
	return fmt.Sprintf("download hook does not match expected pattern: %q", e.OnClick)
}
