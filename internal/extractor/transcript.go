package extractor

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/kkdai/youtube/v2"
)

// TranscriptEntry is one timed caption line. Start and Duration are seconds.
type TranscriptEntry struct {
	Text     string
	Start    float64
	Duration float64
}

// TranscriptFetcher looks up the caption track of a video.
type TranscriptFetcher interface {
	FetchTranscript(ctx context.Context, videoID string) ([]TranscriptEntry, error)
}

// ErrNoTranscript is returned when a video has no caption track.
var ErrNoTranscript = errors.New("no transcript available")

// videoSource is the subset of *youtube.Client the fetcher needs.
type videoSource interface {
	GetVideoContext(ctx context.Context, id string) (*youtube.Video, error)
	GetTranscriptCtx(ctx context.Context, video *youtube.Video, lang string) (youtube.VideoTranscript, error)
}

// YouTubeTranscriptFetcher resolves the video's caption track through the
// player API and returns its timed segments.
type YouTubeTranscriptFetcher struct {
	source videoSource
	lang   string
}

func NewYouTubeTranscriptFetcher(client *http.Client, lang string) *YouTubeTranscriptFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return newTranscriptFetcher(&youtube.Client{HTTPClient: client}, lang)
}

func newTranscriptFetcher(source videoSource, lang string) *YouTubeTranscriptFetcher {
	if lang == "" {
		lang = "en"
	}
	return &YouTubeTranscriptFetcher{source: source, lang: lang}
}

func (f *YouTubeTranscriptFetcher) FetchTranscript(ctx context.Context, videoID string) ([]TranscriptEntry, error) {
	video, err := f.source.GetVideoContext(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to load video %s: %w", videoID, err)
	}

	segments, err := f.source.GetTranscriptCtx(ctx, video, f.lang)
	if errors.Is(err, youtube.ErrTranscriptDisabled) {
		return nil, fmt.Errorf("video %s: %w", videoID, ErrNoTranscript)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transcript for video %s: %w", videoID, err)
	}

	entries := make([]TranscriptEntry, 0, len(segments))
	for _, s := range segments {
		text := strings.TrimSpace(html.UnescapeString(s.Text))
		if text == "" {
			continue
		}
		entries = append(entries, TranscriptEntry{
			Text:     text,
			Start:    float64(s.StartMs) / 1000,
			Duration: float64(s.Duration) / 1000,
		})
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("video %s: %w", videoID, ErrNoTranscript)
	}
	return entries, nil
}

var _ TranscriptFetcher = (*YouTubeTranscriptFetcher)(nil)
