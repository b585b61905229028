// internal/cli/dashboard.go
package cryptobench

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/events"
	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/logging"
	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/tui"
)

var runDashboard = tui.RunDashboard

// dashboardCmd implements 'dashboard', the interactive comparison view.
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Open the interactive comparison dashboard",
	Long: `Dashboard runs single comparisons and batches on demand and keeps the most
recent single-run sessions on screen.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := requireConfig()
		if err != nil {
			return err
		}
		if !isTerminal(cmd.OutOrStdout()) {
			return fmt.Errorf("dashboard needs an interactive terminal")
		}
		s, err := newSession(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		opts := tui.DashboardOptions{
			First:      s.first,
			Second:     s.second,
			DataSize:   cfg.DataSize,
			BatchCount: cfg.BatchCount,
			Policy:     s.policy(),
		}
		if cfg.NATSURL != "" {
			pub, closeFn, err := connectNATS(cfg.NATSURL)
			if err != nil {
				logging.LogWarn("progress publishing disabled: %v", err)
			} else {
				defer closeFn()
				opts.OnProgress = events.NewProgressPublisher(pub, cfg.ProgressSubject()).Observe
			}
		}
		return runDashboard(cmd.Context(), s.orch, opts)
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
