// internal/cli/run.go
package cryptobench

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/benchmark"
	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/report"
)

// runCmd implements 'run', a single paired comparison.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one round trip on both providers",
	Long: `Run generates one plaintext and sends it through key generation, encryption,
decryption and verification on the first provider, then on the second.
With --only a single provider is exercised.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := requireConfig()
		if err != nil {
			return err
		}
		size, _ := cmd.Flags().GetInt("size")
		if !cmd.Flags().Changed("size") {
			size = cfg.DataSize
		}
		only, _ := cmd.Flags().GetString("only")
		text, _ := cmd.Flags().GetString("text")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return runSingle(ctx, cmd, size, only, text)
	},
}

func runSingle(ctx context.Context, cmd *cobra.Command, size int, only, text string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}
	s, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	if text == "" {
		if size < 1 {
			return fmt.Errorf("size must be positive, got %d", size)
		}
		if text, err = s.orch.GenerateInput(ctx, size); err != nil {
			return fmt.Errorf("generate input: %w", err)
		}
	}

	printer := report.NewPrinter(cmd.OutOrStdout(), useColor(cmd))
	var result benchmark.SingleSession
	if only != "" {
		leg, err := s.leg(only)
		if err != nil {
			return err
		}
		printer.Advisory(report.LimitAdvisory(leg.Algorithm(), leg.KeySize, len(text)))
		if result, err = s.orch.RunOne(ctx, text, leg, s.policy()); err != nil {
			return err
		}
	} else {
		for _, leg := range []benchmark.Leg{s.first, s.second} {
			printer.Advisory(report.LimitAdvisory(leg.Algorithm(), leg.KeySize, len(text)))
		}
		if result, err = s.orch.RunPair(ctx, text, s.first, s.second, s.policy()); err != nil {
			return err
		}
	}

	printer.Session(result)
	if s.metrics != nil {
		fmt.Fprintln(cmd.OutOrStdout())
		printer.Metrics(s.metrics.Snapshot())
	}
	return nil
}

func init() {
	runCmd.Flags().Int("size", 0, "plaintext length in characters (defaults to dataSize)")
	runCmd.Flags().String("only", "", "run a single side: first or second")
	runCmd.Flags().String("text", "", "use this plaintext instead of generating one")
	rootCmd.AddCommand(runCmd)
}
