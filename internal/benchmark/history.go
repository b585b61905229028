// internal/benchmark/history.go
package benchmark

import (
	"sync"
	"time"
)

// DefaultHistorySize is the number of single-run sessions kept by default.
const DefaultHistorySize = 5

// SingleSession is one completed single-run comparison.
type SingleSession struct {
	Timestamp  time.Time    `json:"timestamp"`
	DataLength int          `json:"dataLength"`
	Results    []TestResult `json:"results"`
}

// Result returns the result for algorithm, if the session holds one.
func (s SingleSession) Result(algorithm string) (TestResult, bool) {
	for _, r := range s.Results {
		if r.Algorithm == algorithm {
			return r, true
		}
	}
	return TestResult{}, false
}

// ResultHistory is a bounded, newest-first record of single-run sessions.
type ResultHistory struct {
	mu       sync.Mutex
	capacity int
	sessions []SingleSession
}

// NewResultHistory returns a history holding at most capacity sessions.
// A negative capacity selects DefaultHistorySize; zero disables retention.
func NewResultHistory(capacity int) *ResultHistory {
	if capacity < 0 {
		capacity = DefaultHistorySize
	}
	return &ResultHistory{capacity: capacity}
}

// Add prepends s and evicts the oldest sessions beyond capacity.
func (h *ResultHistory) Add(s SingleSession) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.capacity == 0 {
		return
	}
	h.sessions = append([]SingleSession{s}, h.sessions...)
	if len(h.sessions) > h.capacity {
		h.sessions = h.sessions[:h.capacity]
	}
}

// Sessions returns a copy of the retained sessions, newest first.
func (h *ResultHistory) Sessions() []SingleSession {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]SingleSession, len(h.sessions))
	copy(out, h.sessions)
	return out
}

// Latest returns the newest session.
func (h *ResultHistory) Latest() (SingleSession, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.sessions) == 0 {
		return SingleSession{}, false
	}
	return h.sessions[0], true
}

func (h *ResultHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

func (h *ResultHistory) Capacity() int { return h.capacity }

// Clear drops all sessions.
func (h *ResultHistory) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions = nil
}
