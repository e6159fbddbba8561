// Package domain holds the core types and sentinel errors shared across
// the SEO suite use cases.
package domain

import "errors"

var (
	// ErrInvalidInput signals a malformed or out-of-range request value.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidCandidate signals a candidate text that cannot be scored
	// (empty, whitespace-only, or no terms survive tokenization).
	ErrInvalidCandidate = errors.New("invalid candidate text")
	// ErrCorpusUnavailable signals that the reference corpus failed to load.
	ErrCorpusUnavailable = errors.New("reference corpus unavailable")
	// ErrAPIKeyMissing signals missing or rejected provider credentials.
	ErrAPIKeyMissing = errors.New("api key missing or invalid")
	// ErrRateLimited signals an upstream provider rate limit.
	ErrRateLimited = errors.New("rate limited")
	// ErrProviderError signals an SEO data provider failure.
	ErrProviderError = errors.New("provider error")
	// ErrLLMError signals a generative model failure.
	ErrLLMError = errors.New("llm error")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
)
