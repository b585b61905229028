// internal/metrics/types.go
package metrics

import (
	"math"
	"time"
)

// CallMetrics aggregates every call one provider made for one operation.
type CallMetrics struct {
	Provider       string      `json:"provider"`
	Algorithm      string      `json:"algorithm"`
	Operation      string      `json:"operation"`
	Errors         int64       `json:"errors"`
	LatencyMillis  RunningStat `json:"latency_ms"`
	LastUpdatedUTC time.Time   `json:"last_updated_utc"`
}

// Calls returns the number of recorded calls, failed ones included.
func (c CallMetrics) Calls() int64 { return c.LatencyMillis.Count }

// RunningStat holds the necessary values for online calculation of mean, variance, and stddev.
type RunningStat struct {
	Count int64   `json:"count"`
	Mean  float64 `json:"mean"`
	M2    float64 `json:"-"` // Sum of squares of differences from the current mean
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// StdDev returns the sample standard deviation, or 0 with fewer than two values.
func (rs RunningStat) StdDev() float64 {
	if rs.Count < 2 {
		return 0
	}
	return math.Sqrt(rs.M2 / float64(rs.Count-1))
}
