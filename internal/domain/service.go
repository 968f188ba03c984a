package domain

import "context"

// ContentExtractor resolves a URL into a normalized text body.
type ContentExtractor interface {
	Extract(ctx context.Context, url string) (string, error)
}

// TextSplitter splits a text body into ordered, overlapping chunks.
type TextSplitter interface {
	Split(text string) ([]string, error)
}

// PromptBuilder renders the generation instruction for one chunk.
type PromptBuilder interface {
	Build(chunk string) (string, error)
}

// CompletionClient sends one prompt to the model. An empty result means the
// model produced nothing usable; it never returns an error.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) string
}

// ResponseParser turns raw model output into validated questions. It is total:
// malformed input yields an empty slice.
type ResponseParser interface {
	Parse(raw string) []QuizQuestion
}

// QuizGenerator runs the whole pipeline for one request.
type QuizGenerator interface {
	GenerateQuiz(ctx context.Context, req ContentRequest) (*QuizDocument, error)
}
