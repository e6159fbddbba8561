// Package scraper extracts SEO-relevant content from web pages for the
// website content generator.
package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/rankforge/seosuite/internal/domain"
	"github.com/rankforge/seosuite/internal/domain/content"
	"github.com/rankforge/seosuite/internal/metrics"
)

const (
	userAgent       = "Mozilla/5.0 (compatible; SEOSuiteBot/1.0)"
	maxParagraphs   = 10
	maxSnippetChars = 2000
)

// Scraper fetches pages and pulls out title, meta description, headings and
// the opening paragraphs.
type Scraper struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// Config holds the scraper settings.
type Config struct {
	Timeout time.Duration
	Logger  *zap.Logger
}

// New creates a page scraper.
func New(cfg *Config) *Scraper {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Scraper{
		httpClient: &http.Client{Timeout: timeout},
		logger:     cfg.Logger,
	}
}

// Scrape fetches the URL and extracts its SEO content.
func (s *Scraper) Scrape(ctx context.Context, pageURL string) (content.PageData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return content.PageData{}, fmt.Errorf("build request: %w: %w", err, domain.ErrInvalidInput)
	}
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()

	resp, err := s.httpClient.Do(req)

	duration := time.Since(start)

	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues("scraper", "error").Inc()
		return content.PageData{}, fmt.Errorf("fetch %s: %w: %w", pageURL, err, domain.ErrProviderError)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ProviderRequestsTotal.WithLabelValues("scraper", "error").Inc()
		return content.PageData{}, fmt.Errorf("fetch %s: status %d: %w", pageURL, resp.StatusCode, domain.ErrProviderError)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		metrics.ProviderRequestsTotal.WithLabelValues("scraper", "error").Inc()
		return content.PageData{}, fmt.Errorf("parse %s: %w: %w", pageURL, err, domain.ErrProviderError)
	}

	metrics.ProviderRequestsTotal.WithLabelValues("scraper", "success").Inc()
	metrics.ProviderRequestDuration.WithLabelValues("scraper").Observe(duration.Seconds())

	page := extract(doc)
	page.URL = pageURL
	return page, nil
}

func extract(doc *html.Node) content.PageData {
	var page content.PageData
	var paragraphs []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if page.Title == "" {
					page.Title = textContent(n)
				}
			case "meta":
				if attr(n, "name") == "description" && page.MetaDescription == "" {
					page.MetaDescription = attr(n, "content")
				}
			case "h1":
				if t := textContent(n); t != "" {
					page.H1 = append(page.H1, t)
				}
			case "h2":
				if t := textContent(n); t != "" {
					page.H2 = append(page.H2, t)
				}
			case "p":
				if len(paragraphs) < maxParagraphs {
					if t := textContent(n); t != "" {
						paragraphs = append(paragraphs, t)
					}
				}
			case "script", "style":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	snippet := strings.Join(paragraphs, " ")
	if len(snippet) > maxSnippetChars {
		cut := maxSnippetChars
		// Back up to a rune boundary so the cut never splits a multi-byte
		// character.
		for cut > 0 && !utf8.RuneStart(snippet[cut]) {
			cut--
		}
		snippet = snippet[:cut]
	}
	page.ContentSnippet = snippet
	return page
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(strings.Join(strings.Fields(sb.String()), " "))
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
