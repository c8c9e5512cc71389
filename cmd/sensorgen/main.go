// sensorgen adds named Mijia BLE sensors to a Grafana dashboard and to the
// openHAB JSON database.
//
// The device mapping (NAMES_INPUT) lists one identifier=name pair per line.
// For every device, sensorgen appends missing dashboard targets and inserts
// missing openHAB items, Google Assistant metadata and Homie channel links.
// Existing entries are never removed or rewritten.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/nerrad567/sensorgen/internal/infrastructure/config"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Exit statuses.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// errFlag marks command line parsing errors.
var errFlag = errors.New("invalid command line")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// execute runs the command line and maps the outcome to an exit status.
//
// Parameters:
//   - ctx: Context cancelled on interrupt
//   - args: Command line arguments without the program name
//   - stdout: Destination for command output
//   - stderr: Destination for error and usage messages
//
// Returns:
//   - int: 0 on success, 2 for usage errors, 1 for any other failure
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, config.ErrUsage):
		fmt.Fprintln(stderr, config.Usage)
		return exitUsage
	case errors.Is(err, errFlag):
		fmt.Fprintf(stderr, "Error: %v\n", err)
		fmt.Fprintln(stderr, root.UsageString())
		return exitUsage
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
}
