package extractor

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PageFetcher downloads a course page and returns its readable text.
type PageFetcher interface {
	FetchPageText(ctx context.Context, url string) (string, error)
}

// HTMLPageScraper collects <p> and <li> text from a page in document order.
type HTMLPageScraper struct {
	client    *http.Client
	userAgent string
}

func NewHTMLPageScraper(client *http.Client, userAgent string) *HTMLPageScraper {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTMLPageScraper{client: client, userAgent: userAgent}
}

func (s *HTMLPageScraper) FetchPageText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build page request: %w", err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("page request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse page HTML: %w", err)
	}

	var parts []string
	doc.Find("p, li").Each(func(_ int, sel *goquery.Selection) {
		text := strings.Join(strings.Fields(sel.Text()), " ")
		if text != "" {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, " "), nil
}

var _ PageFetcher = (*HTMLPageScraper)(nil)
