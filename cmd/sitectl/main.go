package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/codeharbor/portfolio/internal/apiclient"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if apiclient.IsUnauthorized(err) {
			fmt.Fprintln(os.Stderr, "the API rejected the stored token; run `sitectl login <token>` again")
		}
		stop()
		os.Exit(1)
	}
}
