package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := execute(ctx, newApp(), nil)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "clmm: %v\n", err)
		os.Exit(1)
	}
}
