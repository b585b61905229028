// internal/cli/root.go
package cryptobench

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/appconfig"
	"github.com/Arda-Arancioglu/RsaVsEccComparison/internal/logging"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

var (
	boolFlags   = []string{"debug", "metrics", "excludeKeyGen"}
	stringFlags = []string{"logFile", "export", "natsUrl", "textSourceUrl"}
	intFlags    = []string{"timeout", "retryCount"}
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cryptobench",
	Short: "cryptobench: round-trip latency comparison of RSA and ECC crypto back-ends",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureConfigLoaded(); err != nil {
			return err
		}

		for _, name := range boolFlags {
			if !cmd.Flags().Changed(name) {
				_ = cmd.Flags().Set(name, strconv.FormatBool(viper.GetBool(name)))
			}
		}
		for _, name := range stringFlags {
			if !cmd.Flags().Changed(name) {
				_ = cmd.Flags().Set(name, viper.GetString(name))
			}
		}
		for _, name := range intFlags {
			if !cmd.Flags().Changed(name) {
				_ = cmd.Flags().Set(name, strconv.Itoa(viper.GetInt(name)))
			}
		}

		var cfg appconfig.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		cfg.ApplyDefaults()
		if err := cfg.Validate(); err != nil {
			return err
		}
		cfg.ConfigPath = viper.ConfigFileUsed()
		currentConfig = &cfg

		if err := logging.Init(cfg.LogFilePath(), cfg.Debug); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	defer logging.Close()
	if err := rootCmd.Execute(); err != nil {
		logging.Close()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/config.json)")

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging on stderr")
	rootCmd.PersistentFlags().Bool("metrics", false, "record per-call provider telemetry")
	rootCmd.PersistentFlags().Bool("excludeKeyGen", false, "exclude key generation from total time")
	rootCmd.PersistentFlags().String("logFile", "", "path to the log file")
	rootCmd.PersistentFlags().String("export", "", "directory for JSON batch exports")
	rootCmd.PersistentFlags().String("natsUrl", "", "publish batch progress to this NATS server")
	rootCmd.PersistentFlags().String("textSourceUrl", "", "remote text generator endpoint (local sampler when empty)")
	rootCmd.PersistentFlags().Int("timeout", 0, "seconds before a remote call times out (0 = default)")
	rootCmd.PersistentFlags().Int("retryCount", 0, "transport retries per remote call")

	for _, name := range append(append(append([]string{}, boolFlags...), stringFlags...), intFlags...) {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
}

// initConfig points viper at the config file.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// ensureConfigLoaded reads the config file when present and checks it against
// the schema. A missing file leaves the defaults in place.
func ensureConfigLoaded() error {
	path := viper.ConfigFileUsed()
	if path == "" {
		path = cfgFile
	}
	if path != "" {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if err := appconfig.ValidateSchemaFile(path); err != nil {
			return err
		}
	}
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to load config: %w", err)
	}
	return nil
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	return currentConfig
}

// DebugEnabled returns true if debug mode is enabled.
func DebugEnabled() bool { return viper.GetBool("debug") }

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}
