// Command precreuse converts, inspects and tracks CEGAR abstraction
// precisions across verification runs.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/precreuse/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
