package extractor

import (
	"net/url"
	"regexp"
	"strings"
)

// Platform identifies where a content URL points.
type Platform string

const (
	PlatformUnknown  Platform = ""
	PlatformYouTube  Platform = "youtube"
	PlatformCoursera Platform = "coursera"
	PlatformUdemy    Platform = "udemy"
)

// IsVideo reports whether content for p comes from a transcript.
func (p Platform) IsVideo() bool {
	return p == PlatformYouTube
}

var videoIDPattern = regexp.MustCompile(`(?:v=|youtu\.be/|/embed/|/shorts/)([a-zA-Z0-9_-]{11})`)

// DetectPlatform matches the URL host against the supported platforms.
func DetectPlatform(rawURL string) Platform {
	host := strings.ToLower(hostOf(rawURL))
	switch {
	case strings.Contains(host, "youtube.com"), strings.Contains(host, "youtu.be"):
		return PlatformYouTube
	case strings.Contains(host, "coursera.org"):
		return PlatformCoursera
	case strings.Contains(host, "udemy.com"):
		return PlatformUdemy
	default:
		return PlatformUnknown
	}
}

// VideoID returns the 11-character YouTube video identifier, if present.
func VideoID(rawURL string) (string, bool) {
	m := videoIDPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func hostOf(rawURL string) string {
	s := strings.TrimSpace(rawURL)
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
