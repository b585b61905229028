// internal/cli/batch.go
package cryptobench

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/benchmark"
	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/events"
	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/logging"
	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/report"
	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/tui"
)

// Hooks swapped in tests.
var (
	runBatchTUI = tui.RunBatch
	connectNATS = func(url string) (events.Publisher, func(), error) {
		nc, err := events.Connect(url)
		if err != nil {
			return nil, nil, err
		}
		return nc, func() { _ = nc.Drain() }, nil
	}
)

// batchCmd implements 'batch', N paired comparisons with live statistics.
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run a batch of paired comparisons",
	Long: `Batch runs the configured number of paired tests, first provider then second,
and reports running and final statistics. Press s or ctrl+c to stop early; the
pairs completed so far are still summarized.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := requireConfig()
		if err != nil {
			return err
		}
		count, _ := cmd.Flags().GetInt("count")
		if !cmd.Flags().Changed("count") {
			count = cfg.BatchCount
		}
		size, _ := cmd.Flags().GetInt("size")
		if !cmd.Flags().Changed("size") {
			size = cfg.DataSize
		}
		noTUI, _ := cmd.Flags().GetBool("no-tui")
		return runBatch(cmd.Context(), cmd, count, size, noTUI)
	},
}

func runBatch(ctx context.Context, cmd *cobra.Command, count, size int, noTUI bool) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}
	if err := benchmark.ValidateBatchSize(count); err != nil {
		return err
	}
	s, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	printer := report.NewPrinter(out, useColor(cmd))
	for _, leg := range []benchmark.Leg{s.first, s.second} {
		printer.Advisory(report.LimitAdvisory(leg.Algorithm(), leg.KeySize, size))
	}

	var publisher *events.ProgressPublisher
	if cfg.NATSURL != "" {
		pub, closeFn, err := connectNATS(cfg.NATSURL)
		if err != nil {
			logging.LogWarn("progress publishing disabled: %v", err)
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		} else {
			defer closeFn()
			publisher = events.NewProgressPublisher(pub, cfg.ProgressSubject())
			logging.LogEvent("publishing batch %s progress on %s", publisher.RunID(), cfg.ProgressSubject())
		}
	}

	token := benchmark.NewCancelToken()
	req := benchmark.BatchRequest{
		Count:    count,
		DataSize: size,
		First:    s.first,
		Second:   s.second,
		Policy:   s.policy(),
		Cancel:   token,
	}
	if publisher != nil {
		req.OnProgress = publisher.Observe
	}

	var results benchmark.BatchResults
	if !noTUI && isTerminal(out) {
		results, err = runBatchTUI(ctx, s.orch, req)
	} else {
		results, err = runBatchPlain(ctx, cmd, s.orch, req)
	}
	if err != nil {
		return err
	}
	if publisher != nil {
		publisher.Finished(results)
	}

	fmt.Fprintln(out)
	printer.BatchResults(results)
	if s.metrics != nil {
		fmt.Fprintln(out)
		printer.Metrics(s.metrics.Snapshot())
	}
	if cfg.ExportPath != "" {
		path, err := benchmark.WriteResults(cfg.ExportPath, results)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nresults written to %s\n", path)
		if s.metrics != nil {
			metricsPath := strings.TrimSuffix(path, ".json") + "-metrics.json"
			if err := s.metrics.Save(metricsPath); err != nil {
				return err
			}
			fmt.Fprintf(out, "call metrics written to %s\n", metricsPath)
		}
	}
	return nil
}

// runBatchPlain prints one line per iteration. The first interrupt asks the
// batch to stop at the next checkpoint, a second one aborts in-flight calls.
func runBatchPlain(ctx context.Context, cmd *cobra.Command, runner tui.BatchRunner, req benchmark.BatchRequest) (benchmark.BatchResults, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	signals := make(chan os.Signal, 2)
	signal.Notify(signals, os.Interrupt)
	defer signal.Stop(signals)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-signals:
				if req.Cancel.Cancelled() {
					cancel()
					return
				}
				fmt.Fprintln(cmd.ErrOrStderr(), "stopping after the current call, interrupt again to abort")
				req.Cancel.Cancel()
			case <-done:
				return
			}
		}
	}()

	out := cmd.OutOrStdout()
	req.OnProgress = events.Fanout(req.OnProgress, func(p benchmark.Progress) {
		fmt.Fprintln(out, report.ProgressLine(p))
	})
	return runner.RunBatch(ctx, req)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func useColor(cmd *cobra.Command) bool {
	return isTerminal(cmd.OutOrStdout())
}

func init() {
	batchCmd.Flags().Int("count", 0, "number of paired tests, 1-200 (defaults to batchCount)")
	batchCmd.Flags().Int("size", 0, "plaintext length in characters (defaults to dataSize)")
	batchCmd.Flags().Bool("no-tui", false, "print plain progress lines instead of the live view")
	rootCmd.AddCommand(batchCmd)
}
