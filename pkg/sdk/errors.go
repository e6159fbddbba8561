package seosuite

import (
	"fmt"

	"github.com/rankforge/seosuite/internal/domain"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidInput      = domain.ErrInvalidInput
	ErrInvalidCandidate  = domain.ErrInvalidCandidate
	ErrNotFound          = domain.ErrNotFound
	ErrAPIKeyMissing     = domain.ErrAPIKeyMissing
	ErrRateLimited       = domain.ErrRateLimited
	ErrProviderError     = domain.ErrProviderError
	ErrLLMError          = domain.ErrLLMError
	ErrCorpusUnavailable = domain.ErrCorpusUnavailable
)

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("seosuite: %s (%d): %s", e.Code, e.Status, e.Message)
}

// Unwrap maps the wire error code back to a sentinel error.
func (e *APIError) Unwrap() error {
	switch e.Code {
	case "bad_request", "validation_failed":
		return ErrInvalidInput
	case "not_found":
		return ErrNotFound
	case "api_key_missing":
		return ErrAPIKeyMissing
	case "rate_limited":
		return ErrRateLimited
	case "provider_error":
		return ErrProviderError
	case "llm_error":
		return ErrLLMError
	case "corpus_unavailable":
		return ErrCorpusUnavailable
	default:
		return nil
	}
}
