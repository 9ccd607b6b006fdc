// Package scraper extracts basic article metadata from bookmarked URLs. The
// scrape is best-effort: missing fields stay empty and only an unloadable
// page fails the operation.
package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"notebookmark-backend/domain"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36"

// Scraper loads a page and pulls title, author, description and publication
// date out of its head metadata.
type Scraper struct {
	client *http.Client
	logger *zap.Logger
}

// New creates a scraper with a sane request timeout.
func New(logger *zap.Logger) *Scraper {
	return &Scraper{
		client: &http.Client{Timeout: 30 * time.Second},
		logger: logger,
	}
}

// ExtractPost loads the page and assembles an unread post from its metadata.
// The post gets a generated id, the creation year-month as partition key and
// the publication date from the page when one parses, now otherwise.
func (s *Scraper) ExtractPost(ctx context.Context, rawURL string) (*domain.Post, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("load page %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("load page %s: unexpected status %d", rawURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse page %s: %w", rawURL, err)
	}

	post := domain.NewPost()
	post.URL = rawURL
	post.Title = strings.TrimSpace(doc.Find("head title").First().Text())
	post.DatePublished = publicationDate(doc).Format("2006-01-02T15:04:05Z")
	unread := false
	post.IsRead = &unread

	if parsed, err := url.Parse(rawURL); err == nil {
		post.Domain = parsed.Host
	}
	if author, ok := doc.Find("meta[name='author']").Attr("content"); ok {
		post.Author = strings.TrimSpace(author)
	}
	if description, ok := doc.Find("meta[name='description']").Attr("content"); ok {
		post.Excerpt = strings.TrimSpace(description)
	}

	s.logger.Info("extracted post details",
		zap.String("url", rawURL),
		zap.String("title", post.Title),
	)
	return &post, nil
}

// publicationDate walks the known metadata spots for a publication date and
// falls back to now when none parses.
func publicationDate(doc *goquery.Document) time.Time {
	candidates := []string{
		attrOr(doc, "meta[property='article:published_time']", "content"),
		attrOr(doc, "meta[name='pubdate']", "content"),
		attrOr(doc, "time.entry-date", "datetime"),
		strings.TrimSpace(doc.Find("time.entry-date").First().Text()),
	}

	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		for _, layout := range layouts {
			if parsed, err := time.Parse(layout, candidate); err == nil {
				return parsed.UTC()
			}
		}
	}
	return time.Now().UTC()
}

func attrOr(doc *goquery.Document, selector, attr string) string {
	value, _ := doc.Find(selector).First().Attr(attr)
	return strings.TrimSpace(value)
}
