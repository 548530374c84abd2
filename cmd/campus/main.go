// Command campus is a terminal client for the campus platform: a streaming
// AI assistant with a persistent chat history, plus the community feed.
//
// Usage:
//
//	campus [global flags] <command> [flags] [args]
//
// Configuration is read from $XDG_CONFIG_HOME/campus/config.yaml, then
// CAMPUS_* environment variables (a .env file in the working directory is
// loaded first), then global flags. Run "campus help" for the command list.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "campus: .env: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newApp(os.Stdout, os.Stderr).Run(ctx, os.Args)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "campus: %v\n", err)
		os.Exit(1)
	}
}
