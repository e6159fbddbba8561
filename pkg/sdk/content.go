package seosuite

import (
	"context"

	"github.com/rankforge/seosuite/internal/domain/content"
	"github.com/rankforge/seosuite/internal/usecase/contentuc"
)

// ProductContentRequest generates SEO content for a product.
// At least one image URL is required.
type ProductContentRequest struct {
	Prompt    string   `json:"prompt"`
	ImageURLs []string `json:"image_urls"`
}

// GenerateProduct generates product SEO content from a prompt and images,
// with a uniqueness check against the server corpus.
func (c *Client) GenerateProduct(ctx context.Context, req ProductContentRequest) (contentuc.Result, error) {
	var result contentuc.Result
	err := c.post(ctx, "/api/v1/content/product", req, &result)
	return result, err
}

// WebsiteContentRequest generates SEO content for an existing web page.
type WebsiteContentRequest struct {
	URL    string `json:"url"`
	Prompt string `json:"prompt,omitempty"`
}

// GenerateWebsite scrapes the page and generates improved SEO content.
func (c *Client) GenerateWebsite(ctx context.Context, req WebsiteContentRequest) (contentuc.Result, error) {
	var result contentuc.Result
	err := c.post(ctx, "/api/v1/content/website", req, &result)
	return result, err
}

// CheckRequest scores a text for uniqueness. With references the text is
// scored against them instead of the server corpus.
type CheckRequest struct {
	Text       string   `json:"text"`
	References []string `json:"references,omitempty"`
}

// CheckUniqueness scores a candidate text against reference material.
func (c *Client) CheckUniqueness(ctx context.Context, req CheckRequest) (content.UniquenessReport, error) {
	var report content.UniquenessReport
	err := c.post(ctx, "/api/v1/content/check", req, &report)
	return report, err
}
