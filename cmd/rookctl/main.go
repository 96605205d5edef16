// Package main is the entry point for the rookctl CLI.
//
// rookctl deploys Rook-Ceph onto a Kubernetes cluster from the upstream
// release manifests and resets it again, wiping the storage devices it
// used. It also runs as an Ansible binary module.
//
// For detailed usage information, run:
//
//	rookctl --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/rookctl/cmd/rookctl/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
