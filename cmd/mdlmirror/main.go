// mdlmirror mirrors remote LMS courses into a local SQLite store and renders
// them to Markdown with downloaded attachments.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mdlmirror/mdlmirror/internal/cli"
	"github.com/mdlmirror/mdlmirror/internal/config"
	"github.com/mdlmirror/mdlmirror/internal/log"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := log.Init(config.LogDir()); err != nil {
		fmt.Fprintf(os.Stderr, "warning: file logging disabled: %v\n", err)
	}
	defer func() { _ = log.Close() }()

	if err := cli.Execute(ctx); err != nil {
		os.Exit(1)
	}
}
