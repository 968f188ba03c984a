// Command generate runs the quiz pipeline once and prints the quiz as JSON.
//
//	generate -url https://youtu.be/dQw4w9WgXcQ
//	generate -text "Go is a statically typed language..."
//	cat notes.txt | generate
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quiz-gen/internal/app"
	"quiz-gen/internal/config"
	"quiz-gen/internal/domain"
	"quiz-gen/internal/dto"
	"quiz-gen/internal/logger"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	os.Exit(run())
}

func run() int {
	text := flag.String("text", "", "raw text to generate a quiz from")
	url := flag.String("url", "", "YouTube, Udemy or Coursera URL to generate a quiz from")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall time limit")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	// stdout carries the quiz, so logs go to stderr.
	l, err := logger.New(cfg.Logger, zapcore.Lock(os.Stderr))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	logger.Set(l)
	defer logger.Sync()

	req, err := buildRequest(*text, *url, os.Stdin)
	if err != nil {
		logger.Get().Error("Invalid input", zap.Error(err))
		return 2
	}

	pipeline, err := app.NewPipeline(cfg)
	if err != nil {
		logger.Get().Error("Failed to build quiz pipeline", zap.Error(err))
		return 1
	}
	defer pipeline.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	doc, err := pipeline.Generator.GenerateQuiz(ctx, req)
	if err != nil {
		logger.Get().Error("Quiz generation failed",
			zap.String("code", string(domain.CodeOf(err))),
			zap.Error(err))
		_ = writeJSON(os.Stdout, dto.ErrorResponse{Error: errorMessage(err)})
		return 1
	}

	if err := writeQuiz(os.Stdout, doc); err != nil {
		logger.Get().Error("Failed to write quiz", zap.Error(err))
		return 1
	}
	return 0
}

// buildRequest prefers -url, then -text, then stdin.
func buildRequest(text, url string, stdin io.Reader) (domain.ContentRequest, error) {
	switch {
	case url != "" && text != "":
		return domain.ContentRequest{}, domain.NewInvalidInputError("use either -text or -url, not both")
	case url != "":
		return domain.ContentRequest{InputType: domain.InputTypeURL, Data: url}, nil
	case text != "":
		return domain.ContentRequest{InputType: domain.InputTypeText, Data: text}, nil
	}

	raw, err := io.ReadAll(stdin)
	if err != nil {
		return domain.ContentRequest{}, fmt.Errorf("failed to read stdin: %w", err)
	}
	return domain.ContentRequest{InputType: domain.InputTypeText, Data: string(raw)}, nil
}

func writeQuiz(w io.Writer, doc *domain.QuizDocument) error {
	return writeJSON(w, dto.NewGenerateQuizResponse(doc).Quiz)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// errorMessage hides wrapped causes the same way the HTTP error handler does.
func errorMessage(err error) string {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return "Internal server error"
}
