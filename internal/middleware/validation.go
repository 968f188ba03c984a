package middleware

import (
	"quiz-gen/internal/domain"
	"quiz-gen/internal/dto"
	"quiz-gen/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ValidatedRequestKey is the fiber Locals key holding the domain.ContentRequest.
const ValidatedRequestKey = "validated_content_request"

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

func NewValidationMiddleware(validator *validation.Validator) *ValidationMiddleware {
	return &ValidationMiddleware{validator: validator}
}

// ValidateGenerateQuiz decodes the JSON body and rejects malformed requests
// before they reach the handler.
func (vm *ValidationMiddleware) ValidateGenerateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req dto.GenerateQuizRequest
		if err := c.BodyParser(&req); err != nil {
			return domain.NewError(domain.CodeInvalidInput, "Invalid request body", err)
		}

		content := req.ToDomain()
		if err := vm.validator.ValidateContentRequest(content); err != nil {
			return err
		}

		c.Locals(ValidatedRequestKey, content)
		return c.Next()
	}
}
