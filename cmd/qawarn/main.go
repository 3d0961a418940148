package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"qawarn/internal/version"
)

// exitError carries a process exit code without printing anything extra.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// cli owns one command tree; tests build a fresh one per case so flag state
// does not leak between runs.
type cli struct {
	root         *cobra.Command
	cleanupTrace func(failed bool)
}

func newCLI() *cli {
	c := &cli{}
	c.root = &cobra.Command{
		Use:           "qawarn",
		Short:         "Aggregate and report data-quality warnings",
		Long:          `qawarn reduces QA warning files by aggregation id and renders the result as text, JSON or SARIF`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cleanup, err := setupTracing(cmd)
			if err != nil {
				return err
			}
			c.cleanupTrace = cleanup
			return nil
		},
	}

	c.root.AddCommand(newAggregateCmd())
	c.root.AddCommand(newInitCmd())
	c.root.AddCommand(newCacheCmd())
	c.root.AddCommand(newVersionCmd())

	// Глобальные флаги
	pf := c.root.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-warnings", 0, "maximum number of warning groups to show (0=all)")
	pf.String("config", "", "path to qawarn.toml (default: search upwards from the working directory)")
	pf.String("trace", "", "write trace events to a file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.Int("trace-ring-size", 4096, "events kept in ring mode")
	return c
}

// execute runs the command line and returns the process exit code.
func (c *cli) execute(args []string) int {
	c.root.SetArgs(args)
	err := c.root.Execute()
	if c.cleanupTrace != nil {
		var exit *exitError
		c.cleanupTrace(err != nil && !errors.As(err, &exit))
		c.cleanupTrace = nil
	}
	if err == nil {
		return 0
	}
	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	fmt.Fprintf(c.root.ErrOrStderr(), "qawarn: %v\n", err)
	return 1
}

// main builds the CLI and exits with the status of the executed command.
func main() {
	os.Exit(newCLI().execute(os.Args[1:]))
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
