// internal/metrics/aggregator.go
package metrics

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/logging"
)

// Aggregator collects per provider and operation call telemetry.
type Aggregator struct {
	mutex   sync.Mutex
	metrics map[string]*CallMetrics
	now     func() time.Time
}

// NewAggregator creates and initializes a new Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		metrics: make(map[string]*CallMetrics),
		now:     time.Now,
	}
}

// Record adds one call outcome.
func (a *Aggregator) Record(provider, algorithm, operation string, elapsed time.Duration, err error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	key := provider + "/" + operation
	m, exists := a.metrics[key]
	if !exists {
		m = &CallMetrics{Provider: provider, Algorithm: algorithm, Operation: operation}
		a.metrics[key] = m
	}
	m.LastUpdatedUTC = a.now().UTC()
	if err != nil {
		m.Errors++
	}
	updateRunningStat(&m.LatencyMillis, float64(elapsed)/float64(time.Millisecond))
}

// Snapshot returns a copy of all metrics ordered by provider then operation.
func (a *Aggregator) Snapshot() []CallMetrics {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	out := make([]CallMetrics, 0, len(a.metrics))
	for _, m := range a.metrics {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Provider != out[j].Provider {
			return out[i].Provider < out[j].Provider
		}
		return operationOrder(out[i].Operation) < operationOrder(out[j].Operation)
	})
	return out
}

// Save writes the current snapshot as indented JSON.
func (a *Aggregator) Save(path string) error {
	logging.LogEvent("[METRICS] Saving metrics to %s", path)
	data, err := json.MarshalIndent(a.Snapshot(), "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics dir: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// updateRunningStat updates a single running statistic using Welford's online algorithm.
func updateRunningStat(rs *RunningStat, value float64) {
	rs.Count++
	if rs.Count == 1 {
		rs.Min = value
		rs.Max = value
	} else {
		if value < rs.Min {
			rs.Min = value
		}
		if value > rs.Max {
			rs.Max = value
		}
	}

	delta := value - rs.Mean
	rs.Mean += delta / float64(rs.Count)
	delta2 := value - rs.Mean
	rs.M2 += delta * delta2
}

func operationOrder(op string) int {
	switch op {
	case OpGenerateKeys:
		return 0
	case OpEncrypt:
		return 1
	case OpDecrypt:
		return 2
	default:
		return 3
	}
}
