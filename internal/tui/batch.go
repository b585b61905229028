// internal/tui/batch.go
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/benchmark"
)

// progressMsg carries one orchestrator progress event into the program.
type progressMsg benchmark.Progress

// batchDoneMsg is sent when RunBatch returns.
type batchDoneMsg struct {
	results benchmark.BatchResults
	err     error
}

// BatchRunner runs a batch; *benchmark.Orchestrator implements it.
type BatchRunner interface {
	RunBatch(ctx context.Context, req benchmark.BatchRequest) (benchmark.BatchResults, error)
}

// batchModel is the live view of a single batch run.
type batchModel struct {
	ctx      context.Context
	runner   BatchRunner
	req      benchmark.BatchRequest
	program  *tea.Program
	spinner  spinner.Model
	bar      progress.Model
	started  time.Time
	latest   benchmark.Progress
	board    *benchmark.RealTimeComparison
	stopping bool
	done     bool
	results  benchmark.BatchResults
	err      error
	width    int
}

func newBatchModel(ctx context.Context, runner BatchRunner, req benchmark.BatchRequest) *batchModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle
	if req.Cancel == nil {
		req.Cancel = benchmark.NewCancelToken()
	}
	return &batchModel{
		ctx:     ctx,
		runner:  runner,
		req:     req,
		spinner: s,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		started: time.Now(),
		latest:  benchmark.Progress{Requested: req.Count},
	}
}

// runCmd executes the batch off the UI goroutine. Progress reaches the
// model through program.Send.
func (m *batchModel) runCmd() tea.Cmd {
	req := m.req
	observer := req.OnProgress
	program := m.program
	req.OnProgress = func(p benchmark.Progress) {
		if observer != nil {
			observer(p)
		}
		if program != nil {
			program.Send(progressMsg(p))
		}
	}
	return func() tea.Msg {
		res, err := m.runner.RunBatch(m.ctx, req)
		return batchDoneMsg{results: res, err: err}
	}
}

// Init starts the spinner and the batch.
func (m *batchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.runCmd())
}

// Update handles progress, completion and the stop keys.
func (m *batchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "s", "ctrl+c", "esc", "q":
			if m.done {
				return m, tea.Quit
			}
			m.stopping = true
			m.req.Cancel.Cancel()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = min(max(msg.Width-20, 10), 60)
		return m, nil

	case progressMsg:
		m.latest = benchmark.Progress(msg)
		if msg.Comparison != nil {
			m.board = msg.Comparison
		}
		return m, nil

	case batchDoneMsg:
		m.done = true
		m.results = msg.results
		m.err = msg.err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the progress bar, the leaderboard and the latest pair.
func (m *batchModel) View() string {
	if m.err != nil {
		return errorStyle.Padding(1).Render(fmt.Sprintf("Error: %v", m.err)) + "\n"
	}

	var b strings.Builder
	title := fmt.Sprintf("%s vs %s  %d bytes", m.req.First.Algorithm(), m.req.Second.Algorithm(), m.req.DataSize)
	b.WriteString("\n  " + headerStyle.Render(title) + renderTimingBadge(m.req.Policy) + "\n\n")

	status := fmt.Sprintf("%s %d/%d  %ss", m.spinner.View(), m.latest.Completed, m.latest.Requested, elapsed(m.started))
	if m.stopping && !m.done {
		status += warnStyle.Render("  stopping after the current call...")
	}
	b.WriteString("  " + m.bar.ViewAs(m.latest.Ratio()) + "\n")
	b.WriteString("  " + status + "\n\n")

	b.WriteString(indent(renderLeaderboard(m.board, m.req.First.Algorithm(), m.req.Second.Algorithm())) + "\n")
	if pair := renderPair(m.latest.Latest); pair != "" {
		b.WriteString("\n  " + labelStyle.Render("latest ") + pair + "\n")
	}
	if m.done {
		b.WriteString("\n" + indent(renderSummary(m.results)) + "\n")
	}
	b.WriteString("\n  " + helpStyle.Render("s stop  ctrl+c stop") + "\n")
	return b.String()
}

// RunBatch runs req with a live terminal view and returns the batch results.
func RunBatch(ctx context.Context, runner BatchRunner, req benchmark.BatchRequest) (benchmark.BatchResults, error) {
	m := newBatchModel(ctx, runner, req)
	p := tea.NewProgram(m)
	m.program = p
	if _, err := p.Run(); err != nil && !m.done {
		return benchmark.BatchResults{}, fmt.Errorf("error running batch view: %w", err)
	}
	return m.results, m.err
}

func elapsed(since time.Time) string {
	return fmt.Sprintf("%.1f", time.Since(since).Seconds())
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n")
}
