// Command multicorn runs requests against the access points of a site description.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/rbiro/Multicorn/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCommand(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
