// internal/benchmark/types.go
package benchmark

import (
	"context"
	"time"

	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/providers"
)

// FailureKind classifies why a TestResult did not succeed.
type FailureKind string

const (
	FailureNone         FailureKind = ""
	FailureProtocol     FailureKind = "protocol"
	FailureProvider     FailureKind = "provider"
	FailureTransport    FailureKind = "transport"
	FailureVerification FailureKind = "verification"
)

// TimingPolicy controls how TotalTime is measured.
type TimingPolicy struct {
	ExcludeKeyGen bool `json:"excludeKeyGen"`
}

// TestResult is the outcome of one round-trip test against one provider.
type TestResult struct {
	Algorithm      string        `json:"algorithm"`
	Success        bool          `json:"success"`
	KeyGenTime     time.Duration `json:"keyGenTime"`
	EncryptTime    time.Duration `json:"encryptTime"`
	DecryptTime    time.Duration `json:"decryptTime"`
	TotalTime      time.Duration `json:"totalTime"`
	SessionID      string        `json:"sessionId,omitempty"`
	KeySize        int           `json:"keySize"`
	DataLength     int           `json:"dataLength"`
	ExcludedKeyGen bool          `json:"excludedKeyGen"`
	Failure        FailureKind   `json:"failure,omitempty"`
	Error          string        `json:"error,omitempty"`
	Err            error         `json:"-"`
}

// VerificationFailed reports a silent verification mismatch: the round trip completed
// but the decrypted text differs from the input.
func (r TestResult) VerificationFailed() bool {
	return !r.Success && r.Failure == FailureVerification
}

// Diagnostic returns the error message, or a generic text for verification failures.
func (r TestResult) Diagnostic() string {
	switch {
	case r.Success:
		return ""
	case r.Error != "":
		return r.Error
	default:
		return "verification failed"
	}
}

// PairedResult is one executed batch iteration.
type PairedResult struct {
	TestNumber int        `json:"testNumber"`
	DataLength int        `json:"dataLength"`
	A          TestResult `json:"a"`
	B          TestResult `json:"b"`
}

// Succeeded reports whether both legs succeeded, the condition for feeding statistics.
func (p PairedResult) Succeeded() bool { return p.A.Success && p.B.Success }

// BatchSession is the mutable state of one batch run. It is owned by the
// orchestrator while the run is in progress.
type BatchSession struct {
	RequestedTests  int            `json:"requestedTests"`
	AttemptedTests  int            `json:"attemptedTests"`
	CompletedTests  int            `json:"completedTests"`
	DataSize        int            `json:"dataSize"`
	ExcludeKeyGen   bool           `json:"excludeKeyGen"`
	Pairs           []PairedResult `json:"pairs"`
	WasStoppedEarly bool           `json:"wasStoppedEarly"`
	StartedAt       time.Time      `json:"startedAt"`
}

// Trend names the side leading on average total time.
type Trend string

const (
	TrendEven   Trend = "even"
	TrendFirst  Trend = "first"
	TrendSecond Trend = "second"
)

// PhaseComparison holds the averages of one phase for both sides.
// PercentDiff is (AvgA-AvgB)/AvgA*100: positive means B is faster.
type PhaseComparison struct {
	AvgA        time.Duration `json:"avgA"`
	AvgB        time.Duration `json:"avgB"`
	PercentDiff float64       `json:"percentDiff"`
}

// RealTimeComparison is the running snapshot after each successful pair.
type RealTimeComparison struct {
	AlgorithmA     string          `json:"algorithmA"`
	AlgorithmB     string          `json:"algorithmB"`
	CompletedTests int             `json:"completedTests"`
	WinsA          int             `json:"winsA"`
	WinsB          int             `json:"winsB"`
	Ties           int             `json:"ties"`
	Total          PhaseComparison `json:"total"`
	Encrypt        PhaseComparison `json:"encrypt"`
	Decrypt        PhaseComparison `json:"decrypt"`
	Trend          Trend           `json:"trend"`
}

// Leader returns the algorithm currently leading, or "" when even.
func (c RealTimeComparison) Leader() string {
	return leaderName(c.Trend, c.AlgorithmA, c.AlgorithmB)
}

// PhaseStats describes the distribution of one phase for one side.
type PhaseStats struct {
	Average time.Duration `json:"average"`
	Min     time.Duration `json:"min"`
	Max     time.Duration `json:"max"`
	Median  time.Duration `json:"median"`
	P95     time.Duration `json:"p95"`
	StdDev  time.Duration `json:"stdDev"`
}

// SideSummary holds per-phase statistics for one algorithm.
type SideSummary struct {
	Algorithm string            `json:"algorithm"`
	KeySize   int               `json:"keySize"`
	KeyGen    PhaseStats        `json:"keyGen"`
	Encrypt   PhaseStats        `json:"encrypt"`
	Decrypt   PhaseStats        `json:"decrypt"`
	Total     PhaseStats        `json:"total"`
	Security  *SecurityEstimate `json:"security,omitempty"`
}

// Comparisons holds the per-phase differentials. KeyGen is nil when key
// generation was excluded from timing.
type Comparisons struct {
	KeyGen  *PhaseComparison `json:"keyGen,omitempty"`
	Encrypt PhaseComparison  `json:"encrypt"`
	Decrypt PhaseComparison  `json:"decrypt"`
	Total   PhaseComparison  `json:"total"`
}

// BatchResults is the final summary of a batch. When HasData is false no
// successful pair exists and A, B and Differences are nil.
type BatchResults struct {
	AlgorithmA      string        `json:"algorithmA"`
	AlgorithmB      string        `json:"algorithmB"`
	RequestedTests  int           `json:"requestedTests"`
	AttemptedTests  int           `json:"attemptedTests"`
	CompletedTests  int           `json:"completedTests"`
	SuccessfulTests int           `json:"successfulTests"`
	DataSize        int           `json:"dataSize"`
	ExcludeKeyGen   bool          `json:"excludeKeyGen"`
	WasStoppedEarly bool          `json:"wasStoppedEarly"`
	HasData         bool          `json:"hasData"`
	WinsA           int           `json:"winsA"`
	WinsB           int           `json:"winsB"`
	Ties            int           `json:"ties"`
	Trend           Trend         `json:"trend"`
	A               *SideSummary  `json:"a,omitempty"`
	B               *SideSummary  `json:"b,omitempty"`
	Differences     *Comparisons  `json:"differences,omitempty"`
	Session         *BatchSession `json:"session,omitempty"`
	FinishedAt      time.Time     `json:"finishedAt"`
}

// Leader returns the algorithm leading on total time, or "" when even or without data.
func (r BatchResults) Leader() string {
	return leaderName(r.Trend, r.AlgorithmA, r.AlgorithmB)
}

// Progress is delivered to the observer once per executed iteration.
// Latest is nil when the iteration was cut short, Comparison is nil until the
// first successful pair and on iterations where a leg failed.
type Progress struct {
	Completed  int                 `json:"completed"`
	Requested  int                 `json:"requested"`
	Latest     *PairedResult       `json:"latest,omitempty"`
	Comparison *RealTimeComparison `json:"comparison,omitempty"`
}

// Ratio is completed/requested in [0,1].
func (p Progress) Ratio() float64 {
	if p.Requested <= 0 {
		return 0
	}
	return float64(p.Completed) / float64(p.Requested)
}

// ProgressFunc observes batch progress. It runs on the orchestrator goroutine.
type ProgressFunc func(Progress)

// Leg is one side of a comparison: a provider and the key size to request.
type Leg struct {
	Provider providers.CryptoProvider
	KeySize  int
}

// Algorithm returns the provider's label.
func (l Leg) Algorithm() string {
	if l.Provider == nil {
		return ""
	}
	return l.Provider.Algorithm()
}

// TextSource supplies the plaintext for each iteration.
type TextSource interface {
	Generate(ctx context.Context, length int) (string, error)
}

// Clock supplies timestamps for phase timing.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock. time.Time carries a monotonic reading, so
// differences are immune to wall-clock adjustments.
var SystemClock Clock = systemClock{}

func leaderName(t Trend, a, b string) string {
	switch t {
	case TrendFirst:
		return a
	case TrendSecond:
		return b
	default:
		return ""
	}
}
