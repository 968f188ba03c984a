package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// Extraction errors, fatal for the request
	CodeUnsupportedPlatform ErrorCode = "UNSUPPORTED_PLATFORM"
	CodeInvalidURL          ErrorCode = "INVALID_URL"
	CodeExtractionFailed    ErrorCode = "EXTRACTION_FAILED"

	// Generation errors, swallowed and only ever logged
	CodeLLMServiceError ErrorCode = "LLM_SERVICE_ERROR"
	CodeParseError      ErrorCode = "PARSE_ERROR"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(CodeInternal, message, err)
}

func NewUnsupportedPlatformError(url string) *DomainError {
	return NewError(CodeUnsupportedPlatform,
		fmt.Sprintf("Unsupported platform for %q. Only YouTube, Udemy, Coursera supported for now.", url), nil)
}

func NewInvalidURLError(url string) *DomainError {
	return NewError(CodeInvalidURL, fmt.Sprintf("Invalid YouTube URL: %q", url), nil)
}

func NewExtractionError(url string, err error) *DomainError {
	return NewError(CodeExtractionFailed, fmt.Sprintf("Failed to extract content from %q", url), err)
}

// CodeOf returns the code of the first DomainError in err's chain, or CodeInternal.
func CodeOf(err error) ErrorCode {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeInternal
}

// IsCode reports whether err carries the given domain error code.
func IsCode(err error, code ErrorCode) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == code
}
