package prompt

import (
	"fmt"

	"quiz-gen/internal/domain"

	"github.com/tmc/langchaingo/prompts"
)

const DefaultQuestionCount = 5

const quizTemplate = `Generate exactly {{.count}} multiple-choice quiz questions from the following content.

Content:
{{.content}}

Rules:
1. Each question must have exactly 4 options.
2. The "answer" field must exactly match one of the 4 options, character for character.
3. Return ONLY a JSON array. Do not wrap it in markdown code fences and do not add any commentary before or after it.

Return the result in this JSON format:
[
  {
    "question": "What is ...?",
    "options": ["Option A", "Option B", "Option C", "Option D"],
    "answer": "Option A"
  }
]`

// Builder renders the quiz-generation instruction for a chunk of content.
type Builder struct {
	count    int
	template prompts.PromptTemplate
}

func NewBuilder(questionCount int) (*Builder, error) {
	if questionCount <= 0 {
		return nil, fmt.Errorf("question count must be positive, got %d", questionCount)
	}
	return &Builder{
		count:    questionCount,
		template: prompts.NewPromptTemplate(quizTemplate, []string{"count", "content"}),
	}, nil
}

// Build is pure: the same chunk always renders the same prompt.
func (b *Builder) Build(chunk string) (string, error) {
	out, err := b.template.Format(map[string]any{
		"count":   b.count,
		"content": chunk,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render quiz prompt: %w", err)
	}
	return out, nil
}

var _ domain.PromptBuilder = (*Builder)(nil)
