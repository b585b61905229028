// cmd/cryptobench/main.go
package main

import (
	cmd "github.com/Arda-Arancioglu/RsaVsEccComparison/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// main starts the cryptobench CLI by delegating to the cobra root command.
func main() {
	cmd.SetVersionInfo(version, commit, date)
	cmd.Execute()
}
