// internal/tui/dashboard.go
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/benchmark"
	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/report"
)

// Engine is the orchestrator surface the dashboard drives.
type Engine interface {
	BatchRunner
	RunPair(ctx context.Context, input string, first, second benchmark.Leg, policy benchmark.TimingPolicy) (benchmark.SingleSession, error)
	GenerateInput(ctx context.Context, n int) (string, error)
	History() *benchmark.ResultHistory
}

// DashboardOptions configures the interactive dashboard.
type DashboardOptions struct {
	First      benchmark.Leg
	Second     benchmark.Leg
	DataSize   int
	BatchCount int
	Policy     benchmark.TimingPolicy
	OnProgress benchmark.ProgressFunc
}

type activity int

const (
	idle activity = iota
	runningPair
	runningBatch
)

type pairDoneMsg struct {
	session benchmark.SingleSession
	err     error
}

type dashboardModel struct {
	ctx      context.Context
	engine   Engine
	opts     DashboardOptions
	program  *tea.Program
	spinner  spinner.Model
	bar      progress.Model
	sizes    []int
	sizeIdx  int
	state    activity
	token    *benchmark.CancelToken
	latest   benchmark.Progress
	board    *benchmark.RealTimeComparison
	batch    *benchmark.BatchResults
	err      error
	quitting bool
	width    int
}

func newDashboardModel(ctx context.Context, engine Engine, opts DashboardOptions) *dashboardModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	sizes := make([]int, 0, len(benchmark.DataSizePresets)+1)
	for _, p := range benchmark.DataSizePresets {
		sizes = append(sizes, p.Size)
	}
	idx := -1
	for i, size := range sizes {
		if size == opts.DataSize {
			idx = i
		}
	}
	if idx < 0 && opts.DataSize > 0 {
		sizes = append(sizes, opts.DataSize)
		idx = len(sizes) - 1
	}
	if idx < 0 {
		idx = 0
	}
	if opts.BatchCount <= 0 {
		opts.BatchCount = 20
	}

	return &dashboardModel{
		ctx:     ctx,
		engine:  engine,
		opts:    opts,
		spinner: s,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		sizes:   sizes,
		sizeIdx: idx,
		token:   benchmark.NewCancelToken(),
	}
}

func (m *dashboardModel) dataSize() int { return m.sizes[m.sizeIdx] }

func (m *dashboardModel) Init() tea.Cmd { return nil }

func (m *dashboardModel) runPairCmd() tea.Cmd {
	size := m.dataSize()
	return func() tea.Msg {
		input, err := m.engine.GenerateInput(m.ctx, size)
		if err != nil {
			return pairDoneMsg{err: fmt.Errorf("text generation: %w", err)}
		}
		session, err := m.engine.RunPair(m.ctx, input, m.opts.First, m.opts.Second, m.opts.Policy)
		return pairDoneMsg{session: session, err: err}
	}
}

func (m *dashboardModel) runBatchCmd() tea.Cmd {
	m.token.Reset()
	observer := m.opts.OnProgress
	program := m.program
	req := benchmark.BatchRequest{
		Count:    m.opts.BatchCount,
		DataSize: m.dataSize(),
		First:    m.opts.First,
		Second:   m.opts.Second,
		Policy:   m.opts.Policy,
		Cancel:   m.token,
		OnProgress: func(p benchmark.Progress) {
			if observer != nil {
				observer(p)
			}
			if program != nil {
				program.Send(progressMsg(p))
			}
		},
	}
	return func() tea.Msg {
		res, err := m.engine.RunBatch(m.ctx, req)
		return batchDoneMsg{results: res, err: err}
	}
}

func (m *dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = min(max(msg.Width-20, 10), 60)

	case pairDoneMsg:
		m.state = idle
		m.err = msg.err
		if m.quitting {
			return m, tea.Quit
		}

	case progressMsg:
		m.latest = benchmark.Progress(msg)
		if msg.Comparison != nil {
			m.board = msg.Comparison
		}

	case batchDoneMsg:
		m.state = idle
		m.err = msg.err
		if msg.err == nil {
			res := msg.results
			m.batch = &res
		}
		if m.quitting {
			return m, tea.Quit
		}

	case spinner.TickMsg:
		if m.state == idle {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *dashboardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		if m.state == idle {
			return m, tea.Quit
		}
		m.quitting = true
		m.token.Cancel()
	case "s":
		if m.state == runningBatch {
			m.token.Cancel()
		}
	case "r":
		if m.state == idle {
			m.state = runningPair
			m.err = nil
			return m, tea.Batch(m.spinner.Tick, m.runPairCmd())
		}
	case "b":
		if m.state == idle {
			m.state = runningBatch
			m.err = nil
			m.board = nil
			m.latest = benchmark.Progress{Requested: m.opts.BatchCount}
			return m, tea.Batch(m.spinner.Tick, m.runBatchCmd())
		}
	case "c":
		if m.state == idle {
			m.engine.History().Clear()
			m.batch = nil
		}
	case "k":
		if m.state == idle {
			m.opts.Policy.ExcludeKeyGen = !m.opts.Policy.ExcludeKeyGen
		}
	case "+", "right", "l":
		if m.state == idle {
			m.sizeIdx = (m.sizeIdx + 1) % len(m.sizes)
		}
	case "-", "left", "h":
		if m.state == idle {
			m.sizeIdx = (m.sizeIdx + len(m.sizes) - 1) % len(m.sizes)
		}
	}
	return m, nil
}

func (m *dashboardModel) View() string {
	var b strings.Builder
	title := fmt.Sprintf("%s-%d vs %s-%d", m.opts.First.Algorithm(), m.opts.First.KeySize, m.opts.Second.Algorithm(), m.opts.Second.KeySize)
	b.WriteString("\n  " + headerStyle.Render(title) + renderTimingBadge(m.opts.Policy) + renderBadge(fmt.Sprintf("Payload: %d bytes", m.dataSize()), false) + "\n")

	for _, leg := range []benchmark.Leg{m.opts.First, m.opts.Second} {
		if msg := report.LimitAdvisory(leg.Algorithm(), leg.KeySize, m.dataSize()); msg != "" {
			b.WriteString("  " + warnStyle.Render("! "+msg) + "\n")
		}
	}
	b.WriteString("\n")

	switch m.state {
	case runningPair:
		b.WriteString(fmt.Sprintf("  %s running %s then %s...\n\n", m.spinner.View(), m.opts.First.Algorithm(), m.opts.Second.Algorithm()))
	case runningBatch:
		b.WriteString("  " + m.bar.ViewAs(m.latest.Ratio()) + "\n")
		b.WriteString(fmt.Sprintf("  %s %d/%d\n\n", m.spinner.View(), m.latest.Completed, m.latest.Requested))
		b.WriteString(indent(renderLeaderboard(m.board, m.opts.First.Algorithm(), m.opts.Second.Algorithm())) + "\n\n")
	}

	if m.err != nil {
		b.WriteString("  " + errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n")
	}

	if m.batch != nil && m.state != runningBatch {
		b.WriteString("  " + labelStyle.Render("last batch") + "\n")
		b.WriteString(indent(renderSummary(*m.batch)) + "\n\n")
	}

	b.WriteString("  " + labelStyle.Render(fmt.Sprintf("history (last %d)", m.engine.History().Capacity())) + "\n")
	b.WriteString(indent(renderHistory(m.engine.History().Sessions())) + "\n")

	b.WriteString("\n  " + helpStyle.Render("r run pair  b batch  s stop  +/- payload  k keygen  c clear  q quit") + "\n")
	return b.String()
}

func renderHistory(sessions []benchmark.SingleSession) string {
	if len(sessions) == 0 {
		return labelStyle.Render("no sessions yet, press r")
	}
	lines := make([]string, 0, len(sessions))
	for _, s := range sessions {
		parts := []string{s.Timestamp.Format("15:04:05"), fmt.Sprintf("%4dB", s.DataLength)}
		var totals []benchmark.TestResult
		for _, r := range s.Results {
			if r.Success {
				parts = append(parts, fmt.Sprintf("%s %s", r.Algorithm, report.FormatDuration(r.TotalTime)))
				totals = append(totals, r)
			} else {
				parts = append(parts, errorStyle.Render(fmt.Sprintf("%s %s", r.Algorithm, r.Diagnostic())))
			}
		}
		if len(totals) == 2 {
			c := benchmark.PhaseComparison{
				AvgA:        totals[0].TotalTime,
				AvgB:        totals[1].TotalTime,
				PercentDiff: benchmark.PercentDiff(float64(totals[0].TotalTime), float64(totals[1].TotalTime)),
			}
			if faster := report.Faster(c, totals[0].Algorithm, totals[1].Algorithm); faster != "tie" {
				parts = append(parts, leaderStyle.Render(fmt.Sprintf("%s %.2fx", faster, report.SpeedRatio(c))))
			}
		}
		lines = append(lines, strings.Join(parts, "  "))
	}
	return strings.Join(lines, "\n")
}

// RunDashboard opens the interactive dashboard and blocks until it is closed.
func RunDashboard(ctx context.Context, engine Engine, opts DashboardOptions) error {
	m := newDashboardModel(ctx, engine, opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	m.program = p
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running dashboard: %w", err)
	}
	return nil
}
