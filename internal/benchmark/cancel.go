// internal/benchmark/cancel.go
package benchmark

import "sync/atomic"

// CancelToken is a stop request shared between a caller and a running batch.
// Setting it takes effect at the next checkpoint; in-flight calls finish.
type CancelToken struct {
	set atomic.Bool
}

// NewCancelToken returns an unset token.
func NewCancelToken() *CancelToken { return &CancelToken{} }

// Cancel requests a stop. It is safe to call from any goroutine, more than once.
func (t *CancelToken) Cancel() {
	if t != nil {
		t.set.Store(true)
	}
}

// Cancelled reports whether a stop was requested. A nil token is never set.
func (t *CancelToken) Cancelled() bool {
	return t != nil && t.set.Load()
}

// Reset clears the token so it can be reused for the next batch.
func (t *CancelToken) Reset() {
	if t != nil {
		t.set.Store(false)
	}
}
