// Command sitesync synchronises a remote site database with its central
// server through a file transport.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/roach88/sitesync/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
