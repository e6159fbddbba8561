package health

import "context"

// CachePinger checks cache connectivity.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// LLMChecker verifies the completion API is reachable.
type LLMChecker interface {
	HealthCheck(ctx context.Context) error
}
