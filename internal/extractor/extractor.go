// Package extractor resolves content URLs into plain text: video transcripts
// for YouTube and scraped paragraph text for course pages.
package extractor

import (
	"context"
	"fmt"
	"strings"

	"quiz-gen/internal/domain"
	"quiz-gen/internal/logger"

	"go.uber.org/zap"
)

// Extractor dispatches a URL to the transcript fetcher or the page scraper.
type Extractor struct {
	transcripts   TranscriptFetcher
	pages         PageFetcher
	pageTextLimit int
}

func New(transcripts TranscriptFetcher, pages PageFetcher, pageTextLimit int) (*Extractor, error) {
	if transcripts == nil {
		return nil, fmt.Errorf("transcript fetcher cannot be nil")
	}
	if pages == nil {
		return nil, fmt.Errorf("page fetcher cannot be nil")
	}
	if pageTextLimit <= 0 {
		return nil, fmt.Errorf("page text limit must be positive, got %d", pageTextLimit)
	}
	return &Extractor{
		transcripts:   transcripts,
		pages:         pages,
		pageTextLimit: pageTextLimit,
	}, nil
}

// Extract returns the text body behind url. Every failure is a *domain.DomainError
// with code UNSUPPORTED_PLATFORM, INVALID_URL or EXTRACTION_FAILED.
func (e *Extractor) Extract(ctx context.Context, url string) (string, error) {
	platform := DetectPlatform(url)
	switch {
	case platform == PlatformUnknown:
		return "", domain.NewUnsupportedPlatformError(url)
	case platform.IsVideo():
		return e.fromVideo(ctx, url)
	default:
		return e.fromPage(ctx, url, platform)
	}
}

func (e *Extractor) fromVideo(ctx context.Context, url string) (string, error) {
	videoID, ok := VideoID(url)
	if !ok {
		return "", domain.NewInvalidURLError(url)
	}

	entries, err := e.transcripts.FetchTranscript(ctx, videoID)
	if err != nil {
		logger.Get().Warn("Transcript fetch failed", zap.String("video_id", videoID), zap.Error(err))
		return "", domain.NewExtractionError(url, err)
	}

	texts := make([]string, 0, len(entries))
	for _, entry := range entries {
		texts = append(texts, entry.Text)
	}
	text := strings.Join(texts, " ")

	logger.Get().Info("Extracted video transcript",
		zap.String("video_id", videoID),
		zap.Int("entries", len(entries)),
		zap.Int("chars", len(text)))
	return text, nil
}

func (e *Extractor) fromPage(ctx context.Context, url string, platform Platform) (string, error) {
	text, err := e.pages.FetchPageText(ctx, url)
	if err != nil {
		logger.Get().Warn("Page fetch failed", zap.String("url", url), zap.Error(err))
		return "", domain.NewExtractionError(url, err)
	}

	text = truncateRunes(text, e.pageTextLimit)
	logger.Get().Info("Extracted course page text",
		zap.String("platform", string(platform)),
		zap.Int("chars", len(text)))
	return text, nil
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

var _ domain.ContentExtractor = (*Extractor)(nil)
