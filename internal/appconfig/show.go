package appconfig

import (
	"fmt"
	"io"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  First:            %s\n", cfg.First)
	fmt.Fprintf(out, "  Second:           %s\n", cfg.Second)
	fmt.Fprintf(out, "  Batch Count:      %d\n", cfg.BatchCount)
	fmt.Fprintf(out, "  Data Size:        %d chars\n", cfg.DataSize)
	fmt.Fprintf(out, "  Exclude KeyGen:   %v\n", cfg.ExcludeKeyGen)
	fmt.Fprintf(out, "  Leg Delay:        %s\n", cfg.LegDelay())
	fmt.Fprintf(out, "  Iteration Delay:  %s\n", cfg.IterationDelay())
	fmt.Fprintf(out, "  Pair Delay:       %s\n", cfg.PairDelay())
	fmt.Fprintf(out, "  History Size:     %d\n", cfg.HistoryCapacity())
	fmt.Fprintf(out, "  Request Timeout:  %s\n", cfg.RequestTimeout())
	fmt.Fprintf(out, "  Retry Count:      %d\n", cfg.RetryCount)
	fmt.Fprintf(out, "  Debug:            %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Metrics:          %v\n", cfg.Metrics)
	fmt.Fprintf(out, "  Log File:         %s\n", cfg.LogFilePath())
	if cfg.ExportPath != "" {
		fmt.Fprintf(out, "  Export Dir:       %s\n", cfg.ExportPath)
	}
	if cfg.TextSourceURL != "" {
		fmt.Fprintf(out, "  Text Source:      %s\n", cfg.TextSourceURL)
	}
	if cfg.NATSURL != "" {
		fmt.Fprintf(out, "  NATS:             %s (%s)\n", cfg.NATSURL, cfg.ProgressSubject())
	}

	fmt.Fprintln(out, "\nProviders:")
	for _, p := range cfg.Providers {
		target := p.URL
		if p.TypeOrDefault() == ProviderTypeInProcess {
			target = "(in-process)"
		}
		hybrid := ""
		if p.Hybrid {
			hybrid = " hybrid"
		}
		fmt.Fprintf(out, "  - %-10s %-8s %5d-bit %s/%s%s\n", p.Name, p.Algorithm, p.KeySize, target, p.APIPath(), hybrid)
	}
}
