// internal/benchmark/stats.go
package benchmark

import (
	"time"

	"github.com/montanaflynn/stats"
	"github.com/samber/lo"
)

type phaseFunc func(TestResult) time.Duration

func keyGenOf(r TestResult) time.Duration  { return r.KeyGenTime }
func encryptOf(r TestResult) time.Duration { return r.EncryptTime }
func decryptOf(r TestResult) time.Duration { return r.DecryptTime }
func totalOf(r TestResult) time.Duration   { return r.TotalTime }

// FinalizeOptions carries the batch facts Finalize cannot derive from the pairs.
type FinalizeOptions struct {
	AlgorithmA      string
	AlgorithmB      string
	KeySizeA        int
	KeySizeB        int
	RequestedTests  int
	AttemptedTests  int
	CompletedTests  int
	DataSize        int
	WasStoppedEarly bool
	ExcludeKeyGen   bool
}

// UpdateRunning derives the running comparison from the successful pairs so
// far. pairsA[i] and pairsB[i] belong to the same iteration.
func UpdateRunning(pairsA, pairsB []TestResult) RealTimeComparison {
	a, b := lockStep(pairsA, pairsB)
	cmp := RealTimeComparison{CompletedTests: len(a), Trend: TrendEven}
	if len(a) == 0 {
		return cmp
	}
	cmp.AlgorithmA = a[0].Algorithm
	cmp.AlgorithmB = b[0].Algorithm
	cmp.WinsA, cmp.WinsB, cmp.Ties = headToHead(a, b)
	cmp.Total = comparePhase(a, b, totalOf)
	cmp.Encrypt = comparePhase(a, b, encryptOf)
	cmp.Decrypt = comparePhase(a, b, decryptOf)
	cmp.Trend = trendOf(cmp.Total.PercentDiff)
	return cmp
}

// Finalize packages the final statistics. It reads nothing but its arguments,
// so calling it twice with the same input yields equal results.
func Finalize(pairsA, pairsB []TestResult, opts FinalizeOptions) BatchResults {
	a, b := lockStep(pairsA, pairsB)
	res := BatchResults{
		AlgorithmA:      opts.AlgorithmA,
		AlgorithmB:      opts.AlgorithmB,
		RequestedTests:  opts.RequestedTests,
		AttemptedTests:  opts.AttemptedTests,
		CompletedTests:  opts.CompletedTests,
		SuccessfulTests: len(a),
		DataSize:        opts.DataSize,
		ExcludeKeyGen:   opts.ExcludeKeyGen,
		WasStoppedEarly: opts.WasStoppedEarly,
		Trend:           TrendEven,
	}
	if len(a) == 0 {
		return res
	}
	if res.AlgorithmA == "" {
		res.AlgorithmA = a[0].Algorithm
	}
	if res.AlgorithmB == "" {
		res.AlgorithmB = b[0].Algorithm
	}

	res.HasData = true
	res.WinsA, res.WinsB, res.Ties = headToHead(a, b)
	res.A = summarize(res.AlgorithmA, keySizeOr(opts.KeySizeA, a), a)
	res.B = summarize(res.AlgorithmB, keySizeOr(opts.KeySizeB, b), b)

	diff := &Comparisons{
		Encrypt: comparePhase(a, b, encryptOf),
		Decrypt: comparePhase(a, b, decryptOf),
		Total:   comparePhase(a, b, totalOf),
	}
	if !opts.ExcludeKeyGen {
		kg := comparePhase(a, b, keyGenOf)
		diff.KeyGen = &kg
	}
	res.Differences = diff
	res.Trend = trendOf(diff.Total.PercentDiff)
	return res
}

// PercentDiff returns (a-b)/a*100, defined as 0 when a is 0.
func PercentDiff(a, b float64) float64 {
	if a == 0 {
		return 0
	}
	return (a - b) * 100 / a
}

func lockStep(a, b []TestResult) ([]TestResult, []TestResult) {
	n := min(len(a), len(b))
	return a[:n], b[:n]
}

// headToHead counts index-wise strict wins on total time.
func headToHead(a, b []TestResult) (winsA, winsB, ties int) {
	for i := range a {
		switch {
		case a[i].TotalTime < b[i].TotalTime:
			winsA++
		case b[i].TotalTime < a[i].TotalTime:
			winsB++
		default:
			ties++
		}
	}
	return winsA, winsB, ties
}

func comparePhase(a, b []TestResult, fn phaseFunc) PhaseComparison {
	avgA := mean(a, fn)
	avgB := mean(b, fn)
	return PhaseComparison{
		AvgA:        time.Duration(avgA),
		AvgB:        time.Duration(avgB),
		PercentDiff: PercentDiff(avgA, avgB),
	}
}

func mean(results []TestResult, fn phaseFunc) float64 {
	if len(results) == 0 {
		return 0
	}
	sum := lo.SumBy(results, func(r TestResult) float64 { return float64(fn(r)) })
	return sum / float64(len(results))
}

func trendOf(totalDiff float64) Trend {
	switch {
	case totalDiff > 0:
		return TrendSecond
	case totalDiff < 0:
		return TrendFirst
	default:
		return TrendEven
	}
}

func summarize(algorithm string, keySize int, results []TestResult) *SideSummary {
	return &SideSummary{
		Algorithm: algorithm,
		KeySize:   keySize,
		KeyGen:    phaseStats(results, keyGenOf),
		Encrypt:   phaseStats(results, encryptOf),
		Decrypt:   phaseStats(results, decryptOf),
		Total:     phaseStats(results, totalOf),
		Security:  EstimateSecurity(algorithm, keySize),
	}
}

func keySizeOr(keySize int, results []TestResult) int {
	if keySize > 0 || len(results) == 0 {
		return keySize
	}
	return results[0].KeySize
}

// phaseStats computes the distribution of one phase. Statistics that are
// undefined for the sample size are reported as zero.
func phaseStats(results []TestResult, fn phaseFunc) PhaseStats {
	data := stats.Float64Data(lo.Map(results, func(r TestResult, _ int) float64 { return float64(fn(r)) }))
	if data.Len() == 0 {
		return PhaseStats{}
	}
	ps := PhaseStats{Average: time.Duration(mean(results, fn))}
	if v, err := data.Min(); err == nil {
		ps.Min = time.Duration(v)
	}
	if v, err := data.Max(); err == nil {
		ps.Max = time.Duration(v)
	}
	if v, err := data.Median(); err == nil {
		ps.Median = time.Duration(v)
	}
	if v, err := data.Percentile(95); err == nil {
		ps.P95 = time.Duration(v)
	}
	if data.Len() > 1 {
		if v, err := stats.StandardDeviationSample(data); err == nil {
			ps.StdDev = time.Duration(v)
		}
	}
	return ps
}
