// Command orangensaft is the CLI entry point: check, run, lsp, and
// completion subcommands live in internal/cli/commands.
package main

import (
	"os"

	"github.com/orangensaft-lang/orangensaft/internal/cli/commands"
)

var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	commands.Version = version
	commands.GitCommit = gitCommit
	commands.BuildDate = buildDate

	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
