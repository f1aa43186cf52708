package ai

import "errors"

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrUpstream wraps any other remote-service failure. The HTTP layer renders
// it generically; the wrapped detail is only logged.
var ErrUpstream = errors.New("ai upstream failure")
