package domain

import (
	"strings"
)

// InputType selects how ContentRequest.Data is interpreted.
type InputType string

const (
	InputTypeText InputType = "text"
	InputTypeURL  InputType = "url"
)

// ContentRequest is the immutable input to a quiz generation run.
type ContentRequest struct {
	InputType InputType
	Data      string
}

// QuizQuestion is one multiple-choice question.
type QuizQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// OptionsPerQuestion is the number of choices every question carries.
const OptionsPerQuestion = 4

// Validate checks the shape invariants of a question: non-empty text,
// exactly four non-empty options and an answer equal to one of them.
func (q QuizQuestion) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return NewValidationError("question text is empty")
	}
	if len(q.Options) != OptionsPerQuestion {
		return NewValidationError("question must have exactly 4 options")
	}
	for _, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return NewValidationError("question has an empty option")
		}
	}
	for _, opt := range q.Options {
		if opt == q.Answer {
			return nil
		}
	}
	return NewValidationError("answer does not match any option")
}

// Clone returns a copy that shares no backing arrays with q.
func (q QuizQuestion) Clone() QuizQuestion {
	q.Options = append([]string(nil), q.Options...)
	return q
}

// QuizDocument is the final result of a generation run. Questions is never empty.
type QuizDocument struct {
	Topic     string         `json:"topic"`
	Questions []QuizQuestion `json:"questions"`
}

// ValidationError represents a validation error
type ValidationError struct {
	message string
}

func (e *ValidationError) Error() string {
	return e.message
}

func NewValidationError(message string) error {
	return &ValidationError{message: message}
}
