package dto

import "quiz-gen/internal/domain"

// GenerateQuizRequest is the body of POST /generate-quiz
// @Description Content to turn into a quiz. inputType defaults to text.
type GenerateQuizRequest struct {
	InputType string `json:"inputType" example:"url" enums:"text,url"`
	Data      string `json:"data" example:"https://www.youtube.com/watch?v=dQw4w9WgXcQ"`
}

// ToDomain converts the request into the pipeline input.
func (r GenerateQuizRequest) ToDomain() domain.ContentRequest {
	return domain.ContentRequest{
		InputType: domain.InputType(r.InputType),
		Data:      r.Data,
	}
}

// QuizQuestionResponse is one multiple-choice question
type QuizQuestionResponse struct {
	Question string   `json:"question" example:"What is AWS?"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer" example:"Amazon Web Services"`
}

// QuizResponse is the generated quiz document
type QuizResponse struct {
	Topic     string                 `json:"topic" example:"AI-Generated Quiz"`
	Questions []QuizQuestionResponse `json:"questions"`
}

// GenerateQuizResponse wraps the quiz on success
// @Description Generated quiz
type GenerateQuizResponse struct {
	Quiz QuizResponse `json:"quiz"`
}

// NewGenerateQuizResponse maps a domain document onto the response body.
func NewGenerateQuizResponse(doc *domain.QuizDocument) GenerateQuizResponse {
	questions := make([]QuizQuestionResponse, 0, len(doc.Questions))
	for _, q := range doc.Questions {
		questions = append(questions, QuizQuestionResponse{
			Question: q.Question,
			Options:  q.Options,
			Answer:   q.Answer,
		})
	}
	return GenerateQuizResponse{Quiz: QuizResponse{Topic: doc.Topic, Questions: questions}}
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error" example:"Unsupported platform: https://example.com"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	// Cache is empty when the extraction cache is disabled.
	Cache string `json:"cache,omitempty" example:"ok"`
}
