package serpuc

import (
	"context"

	"github.com/rankforge/seosuite/internal/domain/serp"
)

// Fetcher retrieves a SERP snapshot from a provider.
type Fetcher interface {
	Fetch(ctx context.Context, q serp.Query) (serp.Analysis, error)
	Provider() string
}

// Insighter mines content gap insights from a SERP snapshot.
type Insighter interface {
	SERPInsights(ctx context.Context, analysis serp.Analysis) *serp.Insights
}
