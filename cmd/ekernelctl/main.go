// Command ekernelctl runs the reference scenarios on port/sim, prints
// switch-time/CPU-share statistics, and dumps scheduler/event-registry
// state for debugging. It is the only part of this repository that
// depends on a config-file parser, a CLI framework, or table/dump
// pretty-printers — the core ekernel package stays embeddable in a
// real firmware image that has no business linking any of them.
package main

import (
	"fmt"
	"os"

	"github.com/user-none/go-ekernel/cmd/ekernelctl/cli"
)

func main() {
	rootCmd := cli.SetupCLI()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
