package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"quiz-gen/internal/config"
	"quiz-gen/internal/domain"
	"quiz-gen/internal/logger"
	"quiz-gen/internal/util"

	"go.uber.org/zap"
)

const DefaultTopic = "AI-Generated Quiz"

// quizGeneratorService runs Extracting -> Chunking -> PerChunkGenerate -> Aggregating.
type quizGeneratorService struct {
	extractor domain.ContentExtractor
	splitter  domain.TextSplitter
	prompts   domain.PromptBuilder
	llm       domain.CompletionClient
	parser    domain.ResponseParser
	topic     string
	fallback  domain.QuizQuestion
}

// NewQuizGeneratorService wires the pipeline stages. The fallback question is
// validated here so a misconfigured fallback fails at startup, not per request.
func NewQuizGeneratorService(
	extractor domain.ContentExtractor,
	splitter domain.TextSplitter,
	prompts domain.PromptBuilder,
	llm domain.CompletionClient,
	parser domain.ResponseParser,
	quizCfg config.QuizConfig,
) (domain.QuizGenerator, error) {
	if extractor == nil || splitter == nil || prompts == nil || llm == nil || parser == nil {
		return nil, fmt.Errorf("quiz generator dependencies cannot be nil")
	}

	fallback := FallbackFromConfig(quizCfg.Fallback)
	if err := fallback.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fallback question: %w", err)
	}

	topic := quizCfg.Topic
	if topic == "" {
		topic = DefaultTopic
	}

	return &quizGeneratorService{
		extractor: extractor,
		splitter:  splitter,
		prompts:   prompts,
		llm:       llm,
		parser:    parser,
		topic:     topic,
		fallback:  fallback,
	}, nil
}

// FallbackFromConfig converts the configured fallback into a domain question.
func FallbackFromConfig(fb config.FallbackQuestion) domain.QuizQuestion {
	return domain.QuizQuestion{
		Question: fb.Question,
		Options:  append([]string(nil), fb.Options...),
		Answer:   fb.Answer,
	}
}

// GenerateQuiz returns a document with at least one question. Only input
// validation and extraction failures are returned as errors.
func (s *quizGeneratorService) GenerateQuiz(ctx context.Context, req domain.ContentRequest) (*domain.QuizDocument, error) {
	l := logger.Get().With(zap.String("generation_id", util.NewULID()))
	start := time.Now()

	text, err := s.acquireText(ctx, req)
	if err != nil {
		l.Warn("Quiz generation aborted during extraction",
			zap.String("input_type", string(req.InputType)),
			zap.String("code", string(domain.CodeOf(err))),
			zap.Error(err))
		return nil, err
	}

	chunks, err := s.splitter.Split(text)
	if err != nil {
		l.Error("Chunking failed, continuing with no chunks", zap.Error(err))
		chunks = nil
	}
	l.Info("Text chunked",
		zap.Int("text_chars", len(text)),
		zap.Int("chunks", len(chunks)))

	var questions []domain.QuizQuestion
	fallbacks := 0
	for i, chunk := range chunks {
		if ctx.Err() != nil {
			l.Warn("Context done, skipping remaining chunks",
				zap.Int("processed", i),
				zap.Int("remaining", len(chunks)-i),
				zap.Error(ctx.Err()))
			break
		}

		generated := s.generateForChunk(ctx, l, i, chunk)
		if len(generated) == 0 {
			fallbacks++
			generated = []domain.QuizQuestion{s.fallback.Clone()}
		}
		questions = append(questions, generated...)
	}

	if len(questions) == 0 {
		l.Info("No questions generated, using fallback question")
		fallbacks++
		questions = []domain.QuizQuestion{s.fallback.Clone()}
	}

	l.Info("Quiz generated",
		zap.Int("questions", len(questions)),
		zap.Int("fallbacks", fallbacks),
		zap.Duration("duration", time.Since(start)))

	return &domain.QuizDocument{
		Topic:     s.topic,
		Questions: questions,
	}, nil
}

func (s *quizGeneratorService) acquireText(ctx context.Context, req domain.ContentRequest) (string, error) {
	switch req.InputType {
	case domain.InputTypeText, "":
		return req.Data, nil
	case domain.InputTypeURL:
		url := strings.TrimSpace(req.Data)
		if url == "" {
			return "", domain.NewInvalidInputError("data must contain a URL when inputType is url")
		}
		return s.extractor.Extract(ctx, url)
	default:
		return "", domain.NewInvalidInputError(fmt.Sprintf("unsupported inputType %q, expected text or url", req.InputType))
	}
}

func (s *quizGeneratorService) generateForChunk(ctx context.Context, l *zap.Logger, index int, chunk string) []domain.QuizQuestion {
	prompt, err := s.prompts.Build(chunk)
	if err != nil {
		l.Error("Failed to build prompt", zap.Int("chunk", index), zap.Error(err))
		return nil
	}

	raw := s.llm.Complete(ctx, prompt)
	if raw == "" {
		l.Warn("LLM returned no output for chunk", zap.Int("chunk", index))
		return nil
	}

	questions := s.parser.Parse(raw)
	if len(questions) == 0 {
		l.Warn("No valid questions parsed from LLM output",
			zap.Int("chunk", index),
			zap.String("code", string(domain.CodeParseError)),
			zap.Int("raw_chars", len(raw)))
		return nil
	}

	l.Debug("Chunk generated", zap.Int("chunk", index), zap.Int("questions", len(questions)))
	return questions
}

var _ domain.QuizGenerator = (*quizGeneratorService)(nil)
