package validation

import (
	"fmt"
	"net/url"
	"strings"

	"quiz-gen/internal/domain"
)

// Validator provides request validation functionality
type Validator struct {
	maxTextBytes int
}

// NewValidator creates a validator; maxTextBytes <= 0 disables the size check.
func NewValidator(maxTextBytes int) *Validator {
	return &Validator{maxTextBytes: maxTextBytes}
}

// ValidateContentRequest checks the request shape before any extraction work.
// Platform support is left to the extractor.
func (v *Validator) ValidateContentRequest(req domain.ContentRequest) error {
	switch req.InputType {
	case domain.InputTypeText, "":
		if v.maxTextBytes > 0 && len(req.Data) > v.maxTextBytes {
			return domain.NewInvalidInputError(fmt.Sprintf("data exceeds %d bytes", v.maxTextBytes))
		}
		return nil
	case domain.InputTypeURL:
		raw := strings.TrimSpace(req.Data)
		if raw == "" {
			return domain.NewInvalidInputError("data must contain a URL when inputType is url")
		}
		if !looksLikeURL(raw) {
			return domain.NewError(domain.CodeInvalidURL, fmt.Sprintf("Invalid URL: %q", raw), nil)
		}
		return nil
	default:
		return domain.NewInvalidInputError(fmt.Sprintf("unsupported inputType %q, expected text or url", req.InputType))
	}
}

// looksLikeURL accepts scheme-less hosts such as "youtu.be/x".
func looksLikeURL(raw string) bool {
	if strings.ContainsAny(raw, " \t\n") {
		return false
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && strings.Contains(u.Host, ".")
}
