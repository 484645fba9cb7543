package split

import (
	"errors"
	"fmt"
)

// ErrInvalidSelector is returned when the split expression does not compile
// or does not evaluate to a node-set.
var ErrInvalidSelector = errors.New("invalid split selector")

// errEmptyHeading marks a heading whose anchor resolved but whose content
// came out empty.
var errEmptyHeading = errors.New("heading has no renderable content")

// SelectorError carries the offending expression.
type SelectorError struct {
	Expr string
	Err  error
}

func (e *SelectorError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("xpath expression %q is invalid", e.Expr)
	}
	return fmt.Sprintf("xpath expression %q is invalid: %v", e.Expr, e.Err)
}

func (e *SelectorError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidSelector}
	}
	return []error{ErrInvalidSelector, e.Err}
}
