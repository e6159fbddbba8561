package contentuc

import (
	"context"

	"github.com/rankforge/seosuite/internal/domain/content"
	"github.com/rankforge/seosuite/internal/similarity"
)

// Completer runs chat completions, optionally with image inputs.
type Completer interface {
	CompleteJSON(ctx context.Context, task, system, user string, out any) error
	CompleteJSONVision(ctx context.Context, task, system, user string, imageURLs []string, out any) error
}

// Scraper pulls SEO content from a web page.
type Scraper interface {
	Scrape(ctx context.Context, pageURL string) (content.PageData, error)
}

// Checker scores candidate text against the reference corpus.
type Checker interface {
	Score(candidate string) (similarity.Result, error)
	ScoreAgainst(candidate string, references []string) (similarity.Result, error)
	CorpusSize() int
}
