package service

import (
	"context"
	"time"

	"quiz-gen/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockContentExtractor ---
type MockContentExtractor struct {
	mock.Mock
}

func (m *MockContentExtractor) Extract(ctx context.Context, url string) (string, error) {
	args := m.Called(ctx, url)
	return args.String(0), args.Error(1)
}

// --- MockTextSplitter ---
type MockTextSplitter struct {
	mock.Mock
}

func (m *MockTextSplitter) Split(text string) ([]string, error) {
	args := m.Called(text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// --- MockPromptBuilder ---
type MockPromptBuilder struct {
	mock.Mock
}

func (m *MockPromptBuilder) Build(chunk string) (string, error) {
	args := m.Called(chunk)
	return args.String(0), args.Error(1)
}

// --- MockCompletionClient ---
type MockCompletionClient struct {
	mock.Mock
}

func (m *MockCompletionClient) Complete(ctx context.Context, prompt string) string {
	args := m.Called(ctx, prompt)
	return args.String(0)
}

// --- MockResponseParser ---
type MockResponseParser struct {
	mock.Mock
}

func (m *MockResponseParser) Parse(raw string) []domain.QuizQuestion {
	args := m.Called(raw)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.QuizQuestion)
}

// --- MockCache ---
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
