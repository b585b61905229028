// internal/report/printer.go
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/benchmark"
	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/metrics"
	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/util"
)

const (
	labelWidth = 14
	cellWidth  = 12
)

// Printer writes reports to out.
type Printer struct {
	out     io.Writer
	good    *color.Color
	bad     *color.Color
	warn    *color.Color
	heading *color.Color
}

// NewPrinter returns a Printer. Without useColor output is plain text.
func NewPrinter(out io.Writer, useColor bool) *Printer {
	p := &Printer{
		out:     out,
		good:    color.New(color.FgGreen),
		bad:     color.New(color.FgRed),
		warn:    color.New(color.FgYellow),
		heading: color.New(color.FgCyan, color.Bold),
	}
	for _, c := range []*color.Color{p.good, p.bad, p.warn, p.heading} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *Printer) printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

func (p *Printer) row(cells ...string) {
	var b strings.Builder
	for i, c := range cells {
		if i == 0 {
			b.WriteString(util.PadRight(c, labelWidth))
			continue
		}
		b.WriteString(" ")
		b.WriteString(util.PadLeft(c, cellWidth))
	}
	fmt.Fprintln(p.out, strings.TrimRight(b.String(), " "))
}

// Advisory prints a warning line when non-empty.
func (p *Printer) Advisory(msg string) {
	if msg != "" {
		p.printf("%s %s\n", p.warn.Sprint("!"), msg)
	}
}

// BatchResults prints the final summary of a batch.
func (p *Printer) BatchResults(r benchmark.BatchResults) {
	p.printf("%s\n", p.heading.Sprintf("%s vs %s: %d byte payload", r.AlgorithmA, r.AlgorithmB, r.DataSize))
	p.printf("requested %d, attempted %d, completed %d, successful %d\n",
		r.RequestedTests, r.AttemptedTests, r.CompletedTests, r.SuccessfulTests)
	if r.ExcludeKeyGen {
		p.printf("key generation excluded from total time\n")
	}
	if r.WasStoppedEarly {
		p.printf("%s\n", p.warn.Sprint("stopped early: partial results"))
	}
	if !r.HasData {
		p.printf("%s\n", p.bad.Sprint("no successful pairs: nothing to compare"))
		return
	}

	p.printf("\n")
	p.row("phase", r.AlgorithmA, r.AlgorithmB, "diff", "faster")
	d := r.Differences
	if d.KeyGen != nil {
		p.comparisonRow("keygen", *d.KeyGen, r)
	}
	p.comparisonRow("encrypt", d.Encrypt, r)
	p.comparisonRow("decrypt", d.Decrypt, r)
	p.comparisonRow("total", d.Total, r)

	p.printf("\n")
	p.sideStats(r.A)
	p.sideStats(r.B)

	p.printf("\nhead to head: %s %d, %s %d, ties %d\n", r.AlgorithmA, r.WinsA, r.AlgorithmB, r.WinsB, r.Ties)
	if leader := r.Leader(); leader != "" {
		p.printf("%s\n", p.good.Sprintf("winner: %s, %.2fx faster on total time", leader, SpeedRatio(d.Total)))
	} else {
		p.printf("result: even\n")
	}
	p.security(r.A)
	p.security(r.B)
}

func (p *Printer) comparisonRow(label string, c benchmark.PhaseComparison, r benchmark.BatchResults) {
	p.row(label, FormatDuration(c.AvgA), FormatDuration(c.AvgB), FormatPercent(c.PercentDiff), Faster(c, r.AlgorithmA, r.AlgorithmB))
}

func (p *Printer) sideStats(s *benchmark.SideSummary) {
	if s == nil {
		return
	}
	p.printf("%s\n", p.heading.Sprintf("%s-%d total time", s.Algorithm, s.KeySize))
	t := s.Total
	p.row("", "min", "median", "p95", "max", "stddev")
	p.row("", FormatDuration(t.Min), FormatDuration(t.Median), FormatDuration(t.P95), FormatDuration(t.Max), FormatDuration(t.StdDev))
}

func (p *Printer) security(s *benchmark.SideSummary) {
	if s == nil || s.Security == nil {
		return
	}
	p.printf("%s-%d: %d-bit security, break time: %s\n", s.Algorithm, s.KeySize, s.Security.SecurityBits, s.Security.EstimatedBreakTime)
}

// Session prints one single-run session.
func (p *Printer) Session(s benchmark.SingleSession) {
	p.printf("%s\n", p.heading.Sprintf("%s, %d byte payload", s.Timestamp.Format("2006-01-02 15:04:05"), s.DataLength))
	p.row("algorithm", "keygen", "encrypt", "decrypt", "total", "status")
	for _, r := range s.Results {
		p.row(fmt.Sprintf("%s-%d", r.Algorithm, r.KeySize),
			FormatDuration(r.KeyGenTime), FormatDuration(r.EncryptTime), FormatDuration(r.DecryptTime), FormatDuration(r.TotalTime),
			status(r))
	}
	for _, r := range s.Results {
		if !r.Success {
			p.printf("  %s: %s\n", r.Algorithm, p.bad.Sprint(r.Diagnostic()))
		}
	}
	if len(s.Results) == 2 && s.Results[0].Success && s.Results[1].Success {
		a, b := s.Results[0], s.Results[1]
		c := benchmark.PhaseComparison{
			AvgA:        a.TotalTime,
			AvgB:        b.TotalTime,
			PercentDiff: benchmark.PercentDiff(float64(a.TotalTime), float64(b.TotalTime)),
		}
		if faster := Faster(c, a.Algorithm, b.Algorithm); faster != "tie" {
			p.printf("%s\n", p.good.Sprintf("%s faster by %.2fx", faster, SpeedRatio(c)))
		} else {
			p.printf("tie\n")
		}
	}
}

// status is plain text: escape codes would break cell padding.
func status(r benchmark.TestResult) string {
	if r.Success {
		return "ok"
	}
	return string(r.Failure)
}

// History prints the retained sessions, newest first.
func (p *Printer) History(sessions []benchmark.SingleSession) {
	if len(sessions) == 0 {
		p.printf("no sessions yet\n")
		return
	}
	p.row("time", "size", "first", "second")
	for _, s := range sessions {
		cells := []string{s.Timestamp.Format("15:04:05"), fmt.Sprintf("%dB", s.DataLength)}
		for _, r := range s.Results {
			if r.Success {
				cells = append(cells, fmt.Sprintf("%s %s", r.Algorithm, FormatDuration(r.TotalTime)))
			} else {
				cells = append(cells, r.Algorithm+" failed")
			}
		}
		p.row(cells...)
	}
}

// Metrics prints the call telemetry snapshot.
func (p *Printer) Metrics(snapshot []metrics.CallMetrics) {
	if len(snapshot) == 0 {
		return
	}
	p.printf("%s\n", p.heading.Sprint("provider calls"))
	p.row("provider", "operation", "calls", "errors", "mean", "min", "max", "stddev")
	for _, m := range snapshot {
		ls := m.LatencyMillis
		p.row(m.Provider, m.Operation, fmt.Sprint(m.Calls()), fmt.Sprint(m.Errors),
			FormatMillis(ls.Mean), FormatMillis(ls.Min), FormatMillis(ls.Max), FormatMillis(ls.StdDev()))
	}
}
