// Package events publishes batch progress to NATS so that other processes can
// follow a long run.
package events

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/benchmark"
	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/logging"
)

// Event types.
const (
	TypeProgress = "progress"
	TypeFinished = "finished"
)

// Publisher is the subset of *nats.Conn used here.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Event is the JSON envelope sent on the subject.
type Event struct {
	Type      string                  `json:"type"`
	RunID     string                  `json:"runId"`
	Sequence  int                     `json:"sequence"`
	Timestamp time.Time               `json:"timestamp"`
	Progress  *benchmark.Progress     `json:"progress,omitempty"`
	Results   *benchmark.BatchResults `json:"results,omitempty"`
}

// ProgressPublisher turns progress callbacks into NATS messages. Publish
// failures are logged and never interrupt the batch.
type ProgressPublisher struct {
	mu       sync.Mutex
	pub      Publisher
	subject  string
	runID    string
	sequence int
	now      func() time.Time
}

// NewProgressPublisher returns a publisher for one batch run on subject.
func NewProgressPublisher(pub Publisher, subject string) *ProgressPublisher {
	return &ProgressPublisher{
		pub:     pub,
		subject: subject,
		runID:   uuid.NewString(),
		now:     time.Now,
	}
}

// RunID identifies the batch in every event.
func (p *ProgressPublisher) RunID() string { return p.runID }

// Observe is a benchmark.ProgressFunc.
func (p *ProgressPublisher) Observe(progress benchmark.Progress) {
	p.send(Event{Type: TypeProgress, Progress: &progress})
}

// Finished publishes the final results.
func (p *ProgressPublisher) Finished(results benchmark.BatchResults) {
	p.send(Event{Type: TypeFinished, Results: &results})
}

func (p *ProgressPublisher) send(ev Event) {
	p.mu.Lock()
	p.sequence++
	ev.Sequence = p.sequence
	ev.RunID = p.runID
	ev.Timestamp = p.now().UTC()
	p.mu.Unlock()

	data, err := json.Marshal(ev)
	if err != nil {
		logging.LogWarn("encode %s event: %v", ev.Type, err)
		return
	}
	if err := p.pub.Publish(p.subject, data); err != nil {
		logging.LogWarn("publish %s event to %s: %v", ev.Type, p.subject, err)
	}
}

// Fanout calls every non-nil observer in order.
func Fanout(observers ...benchmark.ProgressFunc) benchmark.ProgressFunc {
	return func(p benchmark.Progress) {
		for _, fn := range observers {
			if fn != nil {
				fn(p)
			}
		}
	}
}

// Connect dials NATS with reconnect handling.
func Connect(url string) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name("cryptobench"),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logging.LogWarn("disconnected from NATS: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logging.LogEvent("reconnected to NATS at %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logging.LogEvent("NATS connection closed")
		}),
	}
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS at %s: %w", url, err)
	}
	return nc, nil
}
