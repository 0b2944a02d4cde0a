// Command cachecmd memoizes external command output, keyed by declared
// environment variables and file dependencies.
package main

import (
	"os"

	"github.com/cachecmd/cachecmd/internal/cli"
	"github.com/cachecmd/cachecmd/pkg/version"
)

func main() {
	os.Exit(run())
}

// run executes the root command and maps errors to the exit code.
// Separated from main so tests can exercise it.
func run() int {
	root := cli.NewRootCmd(version.GetVersion())
	if err := root.Execute(); err != nil {
		return 1
	}
	return 0
}
