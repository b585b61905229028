// internal/tui/styles.go
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/benchmark"
	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/report"
	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/util"
)

var (
	headerStyle  = lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	leaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("40"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boardStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(0, 1)
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
)

// renderBadge returns a Lipgloss-styled badge string.
func renderBadge(label string, on bool) string {
	style := lipgloss.NewStyle().Background(lipgloss.Color("255")).Foreground(lipgloss.Color("0")).Padding(0, 1).MarginLeft(1)
	if on {
		style = style.Background(lipgloss.Color("229"))
	}
	return style.Render(label)
}

// renderTimingBadge shows whether key generation counts toward total time.
func renderTimingBadge(policy benchmark.TimingPolicy) string {
	if policy.ExcludeKeyGen {
		return renderBadge("KeyGen: excluded", true)
	}
	return renderBadge("KeyGen: included", false)
}

// renderLeaderboard draws the running head-to-head between the two sides.
func renderLeaderboard(cmp *benchmark.RealTimeComparison, algA, algB string) string {
	if cmp == nil || cmp.CompletedTests == 0 {
		return boardStyle.Render(labelStyle.Render("waiting for the first successful pair"))
	}

	const nameWidth, cell = 10, 12
	row := func(name string, wins int, total, enc, dec string, leading bool) string {
		line := util.PadRight(name, nameWidth) +
			util.PadLeft(fmt.Sprint(wins), 6) +
			util.PadLeft(total, cell) +
			util.PadLeft(enc, cell) +
			util.PadLeft(dec, cell)
		if leading {
			return leaderStyle.Render(line + " ◀")
		}
		return line
	}

	leader := cmp.Leader()
	lines := []string{
		labelStyle.Render(util.PadRight("", nameWidth) + util.PadLeft("wins", 6) + util.PadLeft("avg total", cell) + util.PadLeft("avg enc", cell) + util.PadLeft("avg dec", cell)),
		row(algA, cmp.WinsA, report.FormatDuration(cmp.Total.AvgA), report.FormatDuration(cmp.Encrypt.AvgA), report.FormatDuration(cmp.Decrypt.AvgA), leader == algA && leader != ""),
		row(algB, cmp.WinsB, report.FormatDuration(cmp.Total.AvgB), report.FormatDuration(cmp.Encrypt.AvgB), report.FormatDuration(cmp.Decrypt.AvgB), leader == algB && leader != ""),
	}
	summary := fmt.Sprintf("%d pairs, %d ties, total diff %s", cmp.CompletedTests, cmp.Ties, report.FormatPercent(cmp.Total.PercentDiff))
	if leader == "" {
		summary += ", even"
	} else {
		summary += fmt.Sprintf(", %s leading", leader)
	}
	lines = append(lines, labelStyle.Render(summary))
	return boardStyle.Render(strings.Join(lines, "\n"))
}

// renderPair summarizes the most recent iteration.
func renderPair(p *benchmark.PairedResult) string {
	if p == nil {
		return ""
	}
	side := func(r benchmark.TestResult) string {
		if r.Success {
			return fmt.Sprintf("%s %s", r.Algorithm, report.FormatDuration(r.TotalTime))
		}
		return errorStyle.Render(fmt.Sprintf("%s %s", r.Algorithm, r.Diagnostic()))
	}
	return fmt.Sprintf("#%d  %s  |  %s", p.TestNumber, side(p.A), side(p.B))
}

// renderSummary is the compact final result shown when a batch finishes.
func renderSummary(r benchmark.BatchResults) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d of %d pairs completed, %d successful", r.CompletedTests, r.RequestedTests, r.SuccessfulTests)
	if r.WasStoppedEarly {
		b.WriteString(warnStyle.Render("  (stopped early)"))
	}
	b.WriteString("\n")
	if !r.HasData {
		b.WriteString(errorStyle.Render("no successful pairs: nothing to compare"))
		return b.String()
	}
	if leader := r.Leader(); leader != "" {
		b.WriteString(leaderStyle.Render(fmt.Sprintf("%s wins: %.2fx faster on total time (%s)", leader, report.SpeedRatio(r.Differences.Total), report.FormatPercent(r.Differences.Total.PercentDiff))))
	} else {
		b.WriteString("even on total time")
	}
	return b.String()
}
