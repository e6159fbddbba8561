// Package content defines the AI content generation domain model.
package content

// Generated is the structured SEO content produced by the model.
type Generated struct {
	GenerationID       string   `json:"generation_id"`
	ProductDescription string   `json:"product_description"`
	SEOTitle           string   `json:"seo_title"`
	MetaDescription    string   `json:"meta_description"`
	BulletFeatures     []string `json:"bullet_features"`
}

// Text concatenates the generated fields into a single candidate text
// for the uniqueness check.
func (g *Generated) Text() string {
	out := g.ProductDescription + " " + g.SEOTitle + " " + g.MetaDescription
	for _, b := range g.BulletFeatures {
		out += " " + b
	}
	return out
}

// PageData is the SEO-relevant content scraped from a web page.
type PageData struct {
	URL             string   `json:"url"`
	Title           string   `json:"title"`
	MetaDescription string   `json:"meta_description"`
	H1              []string `json:"h1"`
	H2              []string `json:"h2"`
	ContentSnippet  string   `json:"content_snippet"`
}

// UniquenessReport is the plagiarism verdict for a candidate text
// as exposed over the API (percentage scale).
type UniquenessReport struct {
	IsUnique        bool    `json:"is_unique"`
	PlagiarismScore float64 `json:"plagiarism_score"`
	SourcesFound    int     `json:"sources_found"`
	Verdict         string  `json:"verdict"`
}
