// Package seosuite provides a Go client for the seosuite SEO research API.
//
// The client covers keyword research, SERP analysis, AI content generation
// and uniqueness checks:
//
//	client, _ := seosuite.New(
//	    seosuite.WithBaseURL("https://seo.example.com"),
//	    seosuite.WithAPIKey(os.Getenv("SEOSUITE_API_KEY")),
//	)
//
//	suggestions, _ := client.Suggest(ctx, seosuite.SuggestRequest{
//	    Keyword: "coffee grinder",
//	    Limit:   20,
//	})
//
//	report, _ := client.Analyze(ctx, seosuite.AnalyzeRequest{Keyword: "coffee grinder"})
//
// API failures come back as *APIError and unwrap to the package sentinel
// errors, so errors.Is(err, seosuite.ErrRateLimited) works across the wire.
package seosuite
