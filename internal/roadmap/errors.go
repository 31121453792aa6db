// Package roadmap turns a profile and a set of technologies into a validated,
// repaired learning roadmap.
package roadmap

import (
	"fmt"
	"strings"
)

// InputError reports a request that cannot produce a roadmap
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("roadmap input error: %s", e.Message)
}

// DecodeError reports model output that could not be read as a JSON object
type DecodeError struct {
	Attempt int
	Message string
	Cause   error
}

func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("roadmap decode error (attempt %d): %s: %v", e.Attempt, e.Message, e.Cause)
	}
	return fmt.Sprintf("roadmap decode error (attempt %d): %s", e.Attempt, e.Message)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// StructuralError reports a roadmap that failed structural validation
type StructuralError struct {
	Attempt int
	Errors  []string
}

func (e *StructuralError) Error() string {
	const shown = 3
	head := e.Errors
	if len(head) > shown {
		head = head[:shown]
	}
	msg := fmt.Sprintf("roadmap structural error (attempt %d): %d violation(s): %s",
		e.Attempt, len(e.Errors), strings.Join(head, "; "))
	if len(e.Errors) > shown {
		msg += "; ..."
	}
	return msg
}
