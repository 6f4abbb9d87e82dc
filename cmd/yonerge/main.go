// Command yonerge answers questions about university regulations from an
// indexed collection of PDF documents.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/yonerge/internal/adapters/driving/cli"
	"github.com/custodia-labs/yonerge/internal/bootstrap"
)

// version is set with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetDependencies(bootstrap.Dependencies())

	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
