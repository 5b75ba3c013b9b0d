package llm

import (
	"fmt"
	"time"

	"github.com/helios-engine/helios/internal/httpclient"
)

// TransportError is a network/protocol-level failure talking to the
// provider (connection refused, timeout, a body or stream that cannot be
// read). Non-2xx responses are reported as ProviderError instead.
type TransportError struct {
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("llm transport: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("llm transport: %s", e.Message)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError means the provider responded but the payload (or a tool
// call's arguments) could not be parsed.
type DecodeError struct {
	Message string
	Err     error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("llm decode: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("llm decode: %s", e.Message)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ProviderError carries a status/code the provider itself returned (e.g.
// HTTP 429 rate limiting, 401 auth failure), plus whatever rate-limit
// quota the response headers disclosed, parsed by internal/httpclient the
// same way the teacher's httpclient.Client does for its own retry loop.
type ProviderError struct {
	StatusCode int
	Code       string
	Message    string
	RetryAfter time.Duration
	RateLimit  httpclient.RateLimitInfo
}

func (e *ProviderError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("llm provider error %d (%s): %s (retry after %v)", e.StatusCode, e.Code, e.Message, e.RetryAfter)
	}
	return fmt.Sprintf("llm provider error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

// Retryable reports whether the provider hinted this request can be
// retried (e.g. rate limiting).
func (e *ProviderError) Retryable() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}
