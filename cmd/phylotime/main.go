package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cophylo/phylotime/internal/cli"
	pkgerrors "github.com/cophylo/phylotime/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode distinguishes malformed input (2) from other failures (1).
// An infeasible reconciliation never reaches here: it is a verdict, and
// the check command reports it with exit 0.
func exitCode(err error) int {
	switch pkgerrors.GetCode(err) {
	case pkgerrors.ErrCodeInvalidInput, pkgerrors.ErrCodeInvalidTree,
		pkgerrors.ErrCodeInvalidReconciliation, pkgerrors.ErrCodeInvalidFormat:
		return 2
	default:
		return 1
	}
}
