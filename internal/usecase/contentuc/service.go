// Package contentuc generates SEO content (product and website copy) and
// checks it for uniqueness against the reference corpus.
package contentuc

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rankforge/seosuite/internal/domain"
	"github.com/rankforge/seosuite/internal/domain/content"
	"github.com/rankforge/seosuite/internal/metrics"
	"github.com/rankforge/seosuite/internal/similarity"
)

const contentSystemPrompt = "You are an SEO copywriting expert. Always reply with valid JSON matching the requested structure, no extra text."

// highRiskPercent is the plagiarism percentage above which the verdict
// flips to high risk.
const highRiskPercent = 30.0

// Verdict strings exposed over the API.
const (
	VerdictNoReferences = "No references available - assumed original"
	VerdictHighRisk     = "High plagiarism risk"
	VerdictLowRisk      = "Low plagiarism risk"
)

// Result bundles generated content with its uniqueness report.
type Result struct {
	Content    content.Generated        `json:"generated_content"`
	Uniqueness content.UniquenessReport `json:"plagiarism"`
	Scraped    *content.PageData        `json:"scraped_data,omitempty"`
}

// Service generates content and runs uniqueness checks.
type Service struct {
	llm     Completer
	scraper Scraper
	checker Checker
	logger  *zap.Logger
}

// New creates a content Service.
func New(llm Completer, scraper Scraper, checker Checker, logger *zap.Logger) *Service {
	return &Service{
		llm:     llm,
		scraper: scraper,
		checker: checker,
		logger:  logger,
	}
}

type generatedReply struct {
	ProductDescription string   `json:"product_description"`
	SEOTitle           string   `json:"seo_title"`
	MetaDescription    string   `json:"meta_description"`
	BulletFeatures     []string `json:"bullet_features"`
}

// GenerateProduct produces SEO product copy from a prompt and product images.
// At least one image URL is required.
func (s *Service) GenerateProduct(ctx context.Context, prompt string, imageURLs []string) (Result, error) {
	if len(imageURLs) == 0 {
		return Result{}, fmt.Errorf("at least one image url is required: %w", domain.ErrInvalidInput)
	}

	user := fmt.Sprintf(
		"Analyze the product image(s) and generate SEO-optimized content.\nUser prompt: %s\n"+
			`Return JSON: {"product_description": "...", "seo_title": "...", "meta_description": "...", "bullet_features": ["..."]}`,
		prompt,
	)

	var reply generatedReply
	if err := s.llm.CompleteJSONVision(ctx, "product_content", contentSystemPrompt, user, imageURLs, &reply); err != nil {
		return Result{}, err
	}

	return s.finish(reply, nil)
}

// GenerateWebsite scrapes a page and produces SEO copy for it.
func (s *Service) GenerateWebsite(ctx context.Context, pageURL, prompt string) (Result, error) {
	page, err := s.scraper.Scrape(ctx, pageURL)
	if err != nil {
		return Result{}, err
	}

	user := fmt.Sprintf(
		"Generate SEO-optimized content for this website.\nTitle: %s\nMeta description: %s\nHeadings: %v %v\nPage content: %s\nUser prompt: %s\n"+
			`Return JSON: {"product_description": "...", "seo_title": "...", "meta_description": "...", "bullet_features": ["..."]}`,
		page.Title, page.MetaDescription, page.H1, page.H2, page.ContentSnippet, prompt,
	)

	var reply generatedReply
	if err := s.llm.CompleteJSON(ctx, "website_content", contentSystemPrompt, user, &reply); err != nil {
		return Result{}, err
	}

	return s.finish(reply, &page)
}

// CheckText scores a text for uniqueness. With references it scores against
// them, otherwise against the configured corpus.
func (s *Service) CheckText(text string, references []string) (content.UniquenessReport, error) {
	hasReferences := len(references) > 0 || s.checker.CorpusSize() > 0

	res, err := s.score(text, references)
	if err != nil {
		return content.UniquenessReport{}, err
	}

	report := content.UniquenessReport{
		IsUnique:        res.IsUnique,
		PlagiarismScore: roundPercent(res.Score * 100),
		SourcesFound:    res.MatchedSources,
	}
	switch {
	case !hasReferences:
		report.Verdict = VerdictNoReferences
	case report.PlagiarismScore > highRiskPercent:
		report.Verdict = VerdictHighRisk
	default:
		report.Verdict = VerdictLowRisk
	}

	verdictLabel := "unique"
	if !report.IsUnique {
		verdictLabel = "duplicate"
	}
	metrics.UniquenessChecksTotal.WithLabelValues(verdictLabel).Inc()

	return report, nil
}

func (s *Service) score(text string, references []string) (similarity.Result, error) {
	if len(references) > 0 {
		return s.checker.ScoreAgainst(text, references)
	}
	return s.checker.Score(text)
}

func (s *Service) finish(reply generatedReply, page *content.PageData) (Result, error) {
	generated := content.Generated{
		GenerationID:       uuid.NewString(),
		ProductDescription: reply.ProductDescription,
		SEOTitle:           reply.SEOTitle,
		MetaDescription:    reply.MetaDescription,
		BulletFeatures:     reply.BulletFeatures,
	}

	report, err := s.CheckText(generated.Text(), nil)
	if err != nil {
		// Generation succeeded, report the content anyway.
		s.logger.Warn("Uniqueness check failed for generated content",
			zap.String("generation_id", generated.GenerationID),
			zap.Error(err))
		report = content.UniquenessReport{Verdict: VerdictNoReferences, IsUnique: true}
	}

	return Result{Content: generated, Uniqueness: report, Scraped: page}, nil
}

func roundPercent(v float64) float64 {
	return math.Round(v*100) / 100
}
