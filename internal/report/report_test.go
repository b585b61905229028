package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/benchmark"
	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/metrics"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{500 * time.Microsecond, "500.00μs"},
		{1500 * time.Microsecond, "1.50ms"},
		{250 * time.Millisecond, "250.00ms"},
		{2500 * time.Millisecond, "2.50s"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Fatalf("FormatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatPercentAndFaster(t *testing.T) {
	if got := FormatPercent(20); got != "+20.00%" {
		t.Fatalf("unexpected %q", got)
	}
	if got := FormatPercent(-5.5); got != "-5.50%" {
		t.Fatalf("unexpected %q", got)
	}
	c := benchmark.PhaseComparison{AvgA: 100 * time.Millisecond, AvgB: 25 * time.Millisecond, PercentDiff: 75}
	if Faster(c, "RSA", "ECC") != "ECC" {
		t.Fatalf("expected ECC faster")
	}
	if SpeedRatio(c) != 4 {
		t.Fatalf("expected 4x, got %v", SpeedRatio(c))
	}
	if Faster(benchmark.PhaseComparison{}, "RSA", "ECC") != "tie" {
		t.Fatalf("expected tie")
	}
}

func TestProgressLine(t *testing.T) {
	pair := benchmark.PairedResult{
		TestNumber: 2,
		A:          benchmark.TestResult{Algorithm: "RSA", Success: true, TotalTime: 100 * time.Millisecond},
		B:          benchmark.TestResult{Algorithm: "ECC", Failure: benchmark.FailureProvider, Error: "decryption failed: bad tag"},
	}
	line := ProgressLine(benchmark.Progress{Completed: 2, Requested: 5, Latest: &pair})
	if !strings.HasPrefix(line, "[2/5] #2 RSA 100.00ms") || !strings.Contains(line, "ECC failed: decryption failed: bad tag") {
		t.Fatalf("unexpected progress line %q", line)
	}

	cut := ProgressLine(benchmark.Progress{Completed: 3, Requested: 5})
	if !strings.Contains(cut, "stopped") {
		t.Fatalf("unexpected line for cut iteration %q", cut)
	}
}

func TestLimitAdvisory(t *testing.T) {
	if LimitAdvisory("RSA", 2048, 150) != "" {
		t.Fatalf("no advisory expected within the limit")
	}
	if msg := LimitAdvisory("RSA", 2048, 245); !strings.Contains(msg, "200 bytes") {
		t.Fatalf("unexpected advisory %q", msg)
	}
	if LimitAdvisory("RSA+AES", 2048, 1<<20) != "" {
		t.Fatalf("hybrid schemes have no limit")
	}
}

func sampleResults() benchmark.BatchResults {
	a := []benchmark.TestResult{
		{Algorithm: "RSA", Success: true, KeyGenTime: 400 * time.Millisecond, EncryptTime: 2 * time.Millisecond, DecryptTime: 4 * time.Millisecond, TotalTime: 406 * time.Millisecond},
		{Algorithm: "RSA", Success: true, KeyGenTime: 600 * time.Millisecond, EncryptTime: 2 * time.Millisecond, DecryptTime: 4 * time.Millisecond, TotalTime: 606 * time.Millisecond},
	}
	b := []benchmark.TestResult{
		{Algorithm: "ECC", Success: true, KeyGenTime: time.Millisecond, EncryptTime: time.Millisecond, DecryptTime: time.Millisecond, TotalTime: 3 * time.Millisecond},
		{Algorithm: "ECC", Success: true, KeyGenTime: time.Millisecond, EncryptTime: time.Millisecond, DecryptTime: time.Millisecond, TotalTime: 3 * time.Millisecond},
	}
	return benchmark.Finalize(a, b, benchmark.FinalizeOptions{
		AlgorithmA: "RSA", AlgorithmB: "ECC", KeySizeA: 2048, KeySizeB: 256,
		RequestedTests: 2, AttemptedTests: 2, CompletedTests: 2, DataSize: 150,
	})
}

func TestPrinterBatchResults(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, false).BatchResults(sampleResults())
	out := buf.String()

	for _, want := range []string{
		"RSA vs ECC: 150 byte payload",
		"completed 2, successful 2",
		"keygen",
		"winner: ECC",
		"RSA-2048: 112-bit security",
		"ECC-256: 128-bit security",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no escape codes with color disabled")
	}
}

func TestPrinterBatchResultsNoData(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, false).BatchResults(benchmark.BatchResults{AlgorithmA: "RSA", AlgorithmB: "ECC", RequestedTests: 3, WasStoppedEarly: true})
	out := buf.String()
	if !strings.Contains(out, "no successful pairs") || !strings.Contains(out, "stopped early") {
		t.Fatalf("unexpected no-data output:\n%s", out)
	}
}

func TestPrinterSessionAndHistory(t *testing.T) {
	session := benchmark.SingleSession{
		Timestamp:  time.Date(2025, 5, 1, 10, 30, 0, 0, time.UTC),
		DataLength: 100,
		Results: []benchmark.TestResult{
			{Algorithm: "RSA", KeySize: 2048, Success: true, TotalTime: 80 * time.Millisecond},
			{Algorithm: "ECC", KeySize: 256, Success: true, TotalTime: 20 * time.Millisecond},
		},
	}
	var buf bytes.Buffer
	p := NewPrinter(&buf, false)
	p.Session(session)
	p.History([]benchmark.SingleSession{session})
	out := buf.String()

	for _, want := range []string{"RSA-2048", "ECC faster by 4.00x", "10:30:00", "100B", "ECC 20.00ms"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestPrinterMetrics(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, false).Metrics([]metrics.CallMetrics{{
		Provider:      "rsa",
		Operation:     "encrypt",
		Errors:        1,
		LatencyMillis: metrics.RunningStat{Count: 3, Mean: 2, Min: 1, Max: 3},
	}})
	out := buf.String()
	if !strings.Contains(out, "provider calls") || !strings.Contains(out, "encrypt") || !strings.Contains(out, "2.00ms") {
		t.Fatalf("unexpected metrics output:\n%s", out)
	}
}
