// Package report renders benchmark results as terminal text.
package report

import (
	"fmt"
	"math"
	"time"

	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/benchmark"
)

// FormatDuration renders d in microseconds below 1ms, milliseconds below 1s,
// seconds otherwise, with two decimals.
func FormatDuration(d time.Duration) string {
	ms := float64(d) / float64(time.Millisecond)
	switch {
	case ms < 1:
		return fmt.Sprintf("%.2fμs", ms*1000)
	case ms < 1000:
		return fmt.Sprintf("%.2fms", ms)
	default:
		return fmt.Sprintf("%.2fs", ms/1000)
	}
}

// FormatMillis renders a float millisecond value like FormatDuration.
func FormatMillis(ms float64) string {
	return FormatDuration(time.Duration(ms * float64(time.Millisecond)))
}

// FormatPercent renders p with an explicit sign.
func FormatPercent(p float64) string {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%+.2f%%", p)
}

// Faster names the faster side of a phase comparison, or "tie".
func Faster(c benchmark.PhaseComparison, a, b string) string {
	switch {
	case c.PercentDiff > 0:
		return b
	case c.PercentDiff < 0:
		return a
	default:
		return "tie"
	}
}

// SpeedRatio is how many times faster the quicker side is, 1 when equal.
func SpeedRatio(c benchmark.PhaseComparison) float64 {
	fast, slow := c.AvgA, c.AvgB
	if fast > slow {
		fast, slow = slow, fast
	}
	if fast <= 0 {
		return 1
	}
	return float64(slow) / float64(fast)
}

// ProgressLine is the one-line status printed per iteration without a TUI.
func ProgressLine(p benchmark.Progress) string {
	head := fmt.Sprintf("[%d/%d]", p.Completed, p.Requested)
	if p.Latest == nil {
		return head + " stopped before the pair completed"
	}
	pair := p.Latest
	line := fmt.Sprintf("%s #%d %s", head, pair.TestNumber, legSummary(pair.A))
	line += " | " + legSummary(pair.B)
	if p.Comparison != nil {
		c := p.Comparison
		leader := c.Leader()
		if leader == "" {
			leader = "even"
		}
		line += fmt.Sprintf(" | leader %s (%s) wins %d:%d", leader, FormatPercent(c.Total.PercentDiff), c.WinsA, c.WinsB)
	}
	return line
}

func legSummary(r benchmark.TestResult) string {
	if r.Success {
		return fmt.Sprintf("%s %s", r.Algorithm, FormatDuration(r.TotalTime))
	}
	return fmt.Sprintf("%s failed: %s", r.Algorithm, r.Diagnostic())
}

// LimitAdvisory warns when dataSize exceeds the payload advisory for a leg.
func LimitAdvisory(algorithm string, keySize, dataSize int) string {
	limit := benchmark.MaxPlaintextSize(algorithm, keySize)
	if dataSize <= limit {
		return ""
	}
	return fmt.Sprintf("%s-%d is advised for payloads up to %d bytes, got %d; consider a hybrid scheme", algorithm, keySize, limit, dataSize)
}
