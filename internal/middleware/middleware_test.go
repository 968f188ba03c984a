package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"quiz-gen/internal/domain"
	"quiz-gen/internal/logger"
	"quiz-gen/internal/util"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestStatusForCode(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusForCode(domain.CodeInvalidInput))
	assert.Equal(t, http.StatusBadRequest, StatusForCode(domain.CodeUnsupportedPlatform))
	assert.Equal(t, http.StatusBadRequest, StatusForCode(domain.CodeInvalidURL))
	assert.Equal(t, http.StatusBadGateway, StatusForCode(domain.CodeExtractionFailed))
	assert.Equal(t, http.StatusInternalServerError, StatusForCode(domain.CodeInternal))
	assert.Equal(t, http.StatusInternalServerError, StatusForCode(domain.CodeLLMServiceError))
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"domain error", domain.NewInvalidInputError("bad"), http.StatusBadRequest, `{"error":"bad"}`},
		{"wrapped domain error", errors.Join(errors.New("ctx"), domain.NewExtractionError("u", nil)), http.StatusBadGateway, `{"error":"Failed to extract content from \"u\""}`},
		{"fiber error", fiber.ErrMethodNotAllowed, http.StatusMethodNotAllowed, `{"error":"Method Not Allowed"}`},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError, `{"error":"Internal server error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
			app.Get("/", func(c *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			raw, _ := io.ReadAll(resp.Body)
			assert.JSONEq(t, tt.wantBody, string(raw))
		})
	}
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger.Set(zap.New(core))
	t.Cleanup(func() { logger.Set(zap.NewNop()) })

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Use(RequestLogger())
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/fail", func(c *fiber.Ctx) error { return domain.NewInvalidInputError("nope") })

	t.Run("generates request id", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ok", nil))
		require.NoError(t, err)
		assert.True(t, util.IsValidULID(resp.Header.Get(RequestIDHeader)))
	})

	t.Run("reuses valid incoming id", func(t *testing.T) {
		id := util.NewULID()
		req := httptest.NewRequest(http.MethodGet, "/ok", nil)
		req.Header.Set(RequestIDHeader, id)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, id, resp.Header.Get(RequestIDHeader))
	})

	t.Run("logs rendered error status", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/fail", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		entries := logs.FilterMessage("HTTP Request").FilterField(zap.String("path", "/fail")).All()
		require.Len(t, entries, 1)
		assert.EqualValues(t, http.StatusBadRequest, entries[0].ContextMap()["status"])
	})
}
