// Command keycalc drives the keypad calculator from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/keycalc/internal/cli"
)

func main() {
	root := cli.NewRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
