// Package server provides the HTTP REST API for the roadmap generator.
package server

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/roadmap-generator/internal/analysis"
	"github.com/jonathan/roadmap-generator/internal/llm"
	"github.com/jonathan/roadmap-generator/internal/roadmap"
)

// Error codes carried in the "error" field of every failure body
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeMissingFields      = "MISSING_FIELDS"
	CodeInvalidTools       = "INVALID_TOOLS"
	CodeInvalidHours       = "INVALID_HOURS"
	CodeResumeTooLong      = "RESUME_TOO_LONG"
	CodeRateLimited        = "RATE_LIMITED"
	CodeUpstreamAuth       = "UPSTREAM_AUTH"
	CodeTimeout            = "TIMEOUT_ERROR"
	CodeUpstreamError      = "UPSTREAM_ERROR"
	CodeInvalidModelOutput = "INVALID_MODEL_OUTPUT"
	CodeInternal           = "INTERNAL_ERROR"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Code    string
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error: %s", e.Message)
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	status, _ := classify(err)
	return status
}

// ErrorCode returns the API error code for an error
func ErrorCode(err error) string {
	_, code := classify(err)
	return code
}

func classify(err error) (int, string) {
	var (
		validationErr *ErrValidation
		roadmapInput  *roadmap.InputError
		analysisInput *analysis.InputError
		decodeErr     *roadmap.DecodeError
		structuralErr *roadmap.StructuralError
		parseErr      *analysis.ParseError
	)

	switch {
	case errors.As(err, &validationErr):
		code := validationErr.Code
		if code == "" {
			code = CodeInvalidRequest
		}
		return http.StatusBadRequest, code
	case errors.As(err, &roadmapInput):
		return http.StatusBadRequest, CodeInvalidTools
	case errors.As(err, &analysisInput):
		return http.StatusBadRequest, CodeMissingFields
	case errors.As(err, &decodeErr), errors.As(err, &structuralErr), errors.As(err, &parseErr):
		return http.StatusBadGateway, CodeInvalidModelOutput
	}

	switch llm.KindOf(err) {
	case llm.KindRateLimited:
		return http.StatusTooManyRequests, CodeRateLimited
	case llm.KindAuth:
		return http.StatusBadGateway, CodeUpstreamAuth
	case llm.KindTimeout:
		return http.StatusGatewayTimeout, CodeTimeout
	case llm.KindGeneric:
		return http.StatusBadGateway, CodeUpstreamError
	}

	return http.StatusInternalServerError, CodeInternal
}

// fieldCodes maps a failing request field to its error code
var fieldCodes = map[string]string{
	"selected_tools": CodeInvalidTools,
	"hours_per_week": CodeInvalidHours,
}

// validationError converts validator output into an *ErrValidation. Only the
// first failure is reported.
func validationError(err error) *ErrValidation {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ErrValidation{Code: CodeInvalidRequest, Message: "invalid request"}
	}

	fe := verrs[0]
	field := fe.Field()
	base, _, indexed := strings.Cut(field, "[")

	missing := !indexed && (fe.Tag() == "required" || (fe.Kind() == reflect.Slice && fe.Tag() == "min"))
	if missing {
		return &ErrValidation{Code: CodeMissingFields, Field: field, Message: "is required"}
	}

	code, ok := fieldCodes[base]
	if !ok {
		code = CodeInvalidRequest
	}
	msg := "is invalid"
	if fe.Param() != "" {
		msg = fmt.Sprintf("must satisfy %s=%s", fe.Tag(), fe.Param())
	} else if fe.Tag() == "required" {
		msg = "must not be empty"
	}
	return &ErrValidation{Code: code, Field: field, Message: msg}
}
