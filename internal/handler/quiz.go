package handler

import (
	"quiz-gen/internal/domain"
	"quiz-gen/internal/dto"
	"quiz-gen/internal/logger"
	"quiz-gen/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuizHandler handles quiz generation HTTP requests
type QuizHandler struct {
	generator domain.QuizGenerator
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(generator domain.QuizGenerator) *QuizHandler {
	return &QuizHandler{generator: generator}
}

// GenerateQuiz godoc
// @Summary Generate a quiz
// @Description Builds a multiple-choice quiz from raw text or from a YouTube or course page URL
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.GenerateQuizRequest true "Content to generate a quiz from"
// @Success 200 {object} dto.GenerateQuizResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /generate-quiz [post]
func (h *QuizHandler) GenerateQuiz(c *fiber.Ctx) error {
	req, ok := c.Locals(middleware.ValidatedRequestKey).(domain.ContentRequest)
	if !ok {
		var body dto.GenerateQuizRequest
		if err := c.BodyParser(&body); err != nil {
			return domain.NewError(domain.CodeInvalidInput, "Invalid request body", err)
		}
		req = body.ToDomain()
	}

	doc, err := h.generator.GenerateQuiz(c.UserContext(), req)
	if err != nil {
		return err
	}
	if doc == nil {
		logger.Get().Error("Quiz generator returned nil document without error",
			zap.Any("request_id", c.Locals(middleware.RequestIDKey)))
		return domain.NewInternalError("quiz generation produced no document", nil)
	}

	return c.JSON(dto.NewGenerateQuizResponse(doc))
}
