// Package app wires the quiz generation pipeline from configuration. It is
// shared by the HTTP server and the command line generator.
package app

import (
	"fmt"
	"net/http"
	"time"

	"quiz-gen/internal/adapter"
	"quiz-gen/internal/adapter/llm"
	"quiz-gen/internal/cache"
	"quiz-gen/internal/chunker"
	"quiz-gen/internal/config"
	"quiz-gen/internal/domain"
	"quiz-gen/internal/extractor"
	"quiz-gen/internal/logger"
	"quiz-gen/internal/parser"
	"quiz-gen/internal/prompt"
	"quiz-gen/internal/service"

	"go.uber.org/zap"
)

const extractorHTTPTimeout = 30 * time.Second

// Pipeline is a fully wired generator plus the resources it holds.
type Pipeline struct {
	Generator domain.QuizGenerator
	// Cache is nil when the extraction cache is disabled or redis is unreachable.
	Cache   domain.Cache
	closers []func() error
}

// Close releases held resources such as the redis connection.
func (p *Pipeline) Close() {
	for _, closeFn := range p.closers {
		if err := closeFn(); err != nil {
			logger.Get().Warn("Failed to release pipeline resource", zap.Error(err))
		}
	}
}

// NewPipeline builds every stage from cfg. A redis connection failure only
// disables the extraction cache.
func NewPipeline(cfg *config.Config) (*Pipeline, error) {
	appLogger := logger.Get()
	p := &Pipeline{}

	httpClient := &http.Client{Timeout: extractorHTTPTimeout}
	transcripts := extractor.NewYouTubeTranscriptFetcher(httpClient, cfg.Extractor.TranscriptLang)
	pages := extractor.NewHTMLPageScraper(httpClient, cfg.Extractor.UserAgent)

	var contentExtractor domain.ContentExtractor
	contentExtractor, err := extractor.New(transcripts, pages, cfg.Extractor.PageTextLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to create extractor: %w", err)
	}

	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			appLogger.Warn("Redis unavailable, extraction cache disabled", zap.Error(err))
		} else {
			appLogger.Info("Extraction cache enabled",
				zap.String("redis", cfg.Redis.Address),
				zap.Duration("ttl", cfg.Cache.ExtractTTL))
			p.closers = append(p.closers, redisClient.Close)
			p.Cache = adapter.NewRedisCacheAdapter(redisClient)
			contentExtractor = service.NewCachedExtractor(contentExtractor, p.Cache, cfg.Cache.ExtractTTL)
		}
	}

	splitter, err := chunker.New(cfg.Chunker.Size, cfg.Chunker.Overlap)
	if err != nil {
		return nil, fmt.Errorf("failed to create chunker: %w", err)
	}

	prompts, err := prompt.NewBuilder(cfg.Quiz.QuestionsPerChunk)
	if err != nil {
		return nil, fmt.Errorf("failed to create prompt builder: %w", err)
	}

	llmClient, err := llm.NewClient(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	appLogger.Info("LLM client initialized",
		zap.String("provider", cfg.LLM.Provider),
		zap.String("endpoint", cfg.LLM.EndpointURL),
		zap.String("model", cfg.LLM.Model))

	generator, err := service.NewQuizGeneratorService(contentExtractor, splitter, prompts, llmClient, parser.New(), cfg.Quiz)
	if err != nil {
		return nil, fmt.Errorf("failed to create quiz generator: %w", err)
	}
	p.Generator = generator
	return p, nil
}
