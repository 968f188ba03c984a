package extractor

import (
	"context"
	"errors"
	"testing"

	"github.com/kkdai/youtube/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockVideoSource struct {
	mock.Mock
}

func (m *mockVideoSource) GetVideoContext(ctx context.Context, id string) (*youtube.Video, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*youtube.Video), args.Error(1)
}

func (m *mockVideoSource) GetTranscriptCtx(ctx context.Context, video *youtube.Video, lang string) (youtube.VideoTranscript, error) {
	args := m.Called(ctx, video, lang)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(youtube.VideoTranscript), args.Error(1)
}

const testVideoID = "dQw4w9WgXcQ"

func TestYouTubeTranscriptFetcher_FetchTranscript(t *testing.T) {
	ctx := context.Background()
	video := &youtube.Video{ID: testVideoID, Title: "Never Gonna Give You Up"}

	t.Run("maps segments to entries", func(t *testing.T) {
		source := new(mockVideoSource)
		source.On("GetVideoContext", ctx, testVideoID).Return(video, nil).Once()
		source.On("GetTranscriptCtx", ctx, video, "en").Return(youtube.VideoTranscript{
			{Text: "Hello &amp; welcome", StartMs: 500, Duration: 2100},
			{Text: "  ", StartMs: 2600, Duration: 100},
			{Text: "it&#39;s   a   test", StartMs: 2700, Duration: 3000},
		}, nil).Once()

		entries, err := newTranscriptFetcher(source, "").FetchTranscript(ctx, testVideoID)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, TranscriptEntry{Text: "Hello & welcome", Start: 0.5, Duration: 2.1}, entries[0])
		assert.Equal(t, "it's   a   test", entries[1].Text)
		assert.Equal(t, 3.0, entries[1].Duration)
		source.AssertExpectations(t)
	})

	t.Run("requested language is forwarded", func(t *testing.T) {
		source := new(mockVideoSource)
		source.On("GetVideoContext", ctx, testVideoID).Return(video, nil).Once()
		source.On("GetTranscriptCtx", ctx, video, "de").Return(youtube.VideoTranscript{{Text: "Hallo"}}, nil).Once()

		entries, err := newTranscriptFetcher(source, "de").FetchTranscript(ctx, testVideoID)
		require.NoError(t, err)
		assert.Equal(t, "Hallo", entries[0].Text)
		source.AssertExpectations(t)
	})

	t.Run("disabled transcript means no transcript", func(t *testing.T) {
		source := new(mockVideoSource)
		source.On("GetVideoContext", ctx, testVideoID).Return(video, nil).Once()
		source.On("GetTranscriptCtx", ctx, video, "en").Return(nil, youtube.ErrTranscriptDisabled).Once()

		_, err := newTranscriptFetcher(source, "en").FetchTranscript(ctx, testVideoID)
		assert.True(t, errors.Is(err, ErrNoTranscript))
	})

	t.Run("empty transcript means no transcript", func(t *testing.T) {
		source := new(mockVideoSource)
		source.On("GetVideoContext", ctx, testVideoID).Return(video, nil).Once()
		source.On("GetTranscriptCtx", ctx, video, "en").Return(youtube.VideoTranscript{}, nil).Once()

		_, err := newTranscriptFetcher(source, "en").FetchTranscript(ctx, testVideoID)
		assert.True(t, errors.Is(err, ErrNoTranscript))
	})

	t.Run("video lookup failure", func(t *testing.T) {
		source := new(mockVideoSource)
		source.On("GetVideoContext", ctx, testVideoID).Return(nil, youtube.ErrVideoPrivate).Once()

		_, err := newTranscriptFetcher(source, "en").FetchTranscript(ctx, testVideoID)
		require.Error(t, err)
		assert.ErrorIs(t, err, youtube.ErrVideoPrivate)
		assert.False(t, errors.Is(err, ErrNoTranscript))
		source.AssertNotCalled(t, "GetTranscriptCtx", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("transcript request failure", func(t *testing.T) {
		source := new(mockVideoSource)
		source.On("GetVideoContext", ctx, testVideoID).Return(video, nil).Once()
		source.On("GetTranscriptCtx", ctx, video, "en").Return(nil, errors.New("unexpected status code: 500")).Once()

		_, err := newTranscriptFetcher(source, "en").FetchTranscript(ctx, testVideoID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to fetch transcript")
	})
}

func TestNewYouTubeTranscriptFetcher_DefaultsLanguage(t *testing.T) {
	f := NewYouTubeTranscriptFetcher(nil, "")
	assert.Equal(t, "en", f.lang)
	assert.NotNil(t, f.source)
}
