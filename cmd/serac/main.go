// Command serac is the incremental, point-in-time file archiver's
// command-line entry point. Wiring order (logger -> cli -> exit code)
// follows cmd/alexander-server/main.go's own wiring order (logger init,
// config load, dependency construction, run) adapted to a CLI instead of
// an HTTP server lifecycle.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/prn-tf/serac/internal/cli"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := cli.New(logger)
	root.SetArgs(os.Args[1:])

	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "serac:", err)
	}
	os.Exit(cli.ExitCode(err))
}
