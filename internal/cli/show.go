// internal/cli/show.go
package cryptobench

import (
	"fmt"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"

	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/appconfig"
)

// showCmd represents the 'show' command group for displaying resources.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Group commands for displaying resources",
	Long:  `The 'show' command groups subcommands that display resources or information related to cryptobench.`,
}

// showConfigCmd prints the merged configuration.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON configs are loaded properly and overridden by flags accordingly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := requireConfig()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		appconfig.ShowConfig(out, cfg.ConfigPath, cfg)
		if cfg.Debug {
			fmt.Fprintln(out)
			pp.Fprintln(out, cfg)
		}
		return nil
	},
}

func init() {
	showCmd.AddCommand(showConfigCmd)
	rootCmd.AddCommand(showCmd)
}
