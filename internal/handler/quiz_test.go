package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"quiz-gen/internal/domain"
	"quiz-gen/internal/dto"
	"quiz-gen/internal/handler"
	"quiz-gen/internal/middleware"
	"quiz-gen/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockQuizGenerator struct {
	mock.Mock
}

func (m *MockQuizGenerator) GenerateQuiz(ctx context.Context, req domain.ContentRequest) (*domain.QuizDocument, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuizDocument), args.Error(1)
}

func setupApp(gen domain.QuizGenerator) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Use(middleware.RequestLogger())

	quizHandler := handler.NewQuizHandler(gen)
	validator := middleware.NewValidationMiddleware(validation.NewValidator(1 << 20))
	app.Post("/generate-quiz", validator.ValidateGenerateQuiz(), quizHandler.GenerateQuiz)
	app.Get("/health", handler.NewHealthHandler(nil).Health)
	return app
}

func postJSON(t *testing.T, app *fiber.App, body string) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/generate-quiz", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

var sampleDoc = &domain.QuizDocument{
	Topic: "AI-Generated Quiz",
	Questions: []domain.QuizQuestion{{
		Question: "What is AWS?",
		Options:  []string{"Amazon Web Services", "Advanced Web Server", "Automated Workflow System", "Application Web Stack"},
		Answer:   "Amazon Web Services",
	}},
}

func TestGenerateQuiz_Success(t *testing.T) {
	gen := new(MockQuizGenerator)
	gen.On("GenerateQuiz", mock.Anything, domain.ContentRequest{InputType: domain.InputTypeText, Data: "Some text"}).
		Return(sampleDoc, nil).Once()

	resp, raw := postJSON(t, setupApp(gen), `{"inputType":"text","data":"Some text"}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))

	var body dto.GenerateQuizResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "AI-Generated Quiz", body.Quiz.Topic)
	require.Len(t, body.Quiz.Questions, 1)
	assert.Equal(t, "Amazon Web Services", body.Quiz.Questions[0].Answer)
	gen.AssertExpectations(t)
}

func TestGenerateQuiz_ResponseShape(t *testing.T) {
	gen := new(MockQuizGenerator)
	gen.On("GenerateQuiz", mock.Anything, mock.Anything).Return(sampleDoc, nil).Once()

	_, raw := postJSON(t, setupApp(gen), `{"data":"no input type"}`)
	assert.JSONEq(t, `{"quiz":{"topic":"AI-Generated Quiz","questions":[{"question":"What is AWS?","options":["Amazon Web Services","Advanced Web Server","Automated Workflow System","Application Web Stack"],"answer":"Amazon Web Services"}]}}`, string(raw))
}

func TestGenerateQuiz_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		genErr     error
		wantStatus int
		wantError  string
	}{
		{
			name:       "malformed body",
			body:       `{"inputType":`,
			wantStatus: fiber.StatusBadRequest,
			wantError:  "Invalid request body",
		},
		{
			name:       "unknown input type",
			body:       `{"inputType":"pdf","data":"x"}`,
			wantStatus: fiber.StatusBadRequest,
			wantError:  `unsupported inputType "pdf", expected text or url`,
		},
		{
			name:       "empty url",
			body:       `{"inputType":"url","data":""}`,
			wantStatus: fiber.StatusBadRequest,
		},
		{
			name:       "unsupported platform",
			body:       `{"inputType":"url","data":"https://example.com/post"}`,
			genErr:     domain.NewUnsupportedPlatformError("https://example.com/post"),
			wantStatus: fiber.StatusBadRequest,
			wantError:  domain.NewUnsupportedPlatformError("https://example.com/post").Message,
		},
		{
			name:       "extraction failure",
			body:       `{"inputType":"url","data":"https://youtu.be/dQw4w9WgXcQ"}`,
			genErr:     domain.NewExtractionError("https://youtu.be/dQw4w9WgXcQ", errors.New("timeout")),
			wantStatus: fiber.StatusBadGateway,
		},
		{
			name:       "unexpected error",
			body:       `{"inputType":"text","data":"x"}`,
			genErr:     errors.New("boom"),
			wantStatus: fiber.StatusInternalServerError,
			wantError:  "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := new(MockQuizGenerator)
			if tt.genErr != nil {
				gen.On("GenerateQuiz", mock.Anything, mock.Anything).Return(nil, tt.genErr).Once()
			}

			resp, raw := postJSON(t, setupApp(gen), tt.body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body dto.ErrorResponse
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.NotEmpty(t, body.Error)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body.Error)
			}
			if tt.genErr == nil {
				gen.AssertNotCalled(t, "GenerateQuiz", mock.Anything, mock.Anything)
			}
			gen.AssertExpectations(t)
		})
	}
}

func TestGenerateQuiz_WithoutValidationMiddleware(t *testing.T) {
	gen := new(MockQuizGenerator)
	gen.On("GenerateQuiz", mock.Anything, domain.ContentRequest{InputType: domain.InputTypeURL, Data: "https://youtu.be/dQw4w9WgXcQ"}).
		Return(sampleDoc, nil).Once()

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Post("/generate-quiz", handler.NewQuizHandler(gen).GenerateQuiz)

	resp, _ := postJSON(t, app, `{"inputType":"url","data":"https://youtu.be/dQw4w9WgXcQ"}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	gen.AssertExpectations(t)
}
