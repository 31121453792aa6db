package analysis

import "fmt"

// InputError reports unusable caller input
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("analysis input error: %s", e.Message)
}

// ParseError represents an error reading the model response
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
