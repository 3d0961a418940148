package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"qawarn/internal/driver"
	"qawarn/internal/observ"
	"qawarn/internal/qa"
	"qawarn/internal/qafmt"
	"qawarn/internal/trace"
	"qawarn/internal/version"
)

func newAggregateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aggregate [flags] <file|dir|->...",
		Short: "Aggregate warning files and report the groups by severity",
		Long: `Load QA warnings from JSON, NDJSON or YAML files (directories are searched
recursively, - reads stdin), merge warnings that share an aggregation id and
print the groups, most severe first.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAggregate,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json|sarif|short)")
	cmd.Flags().String("input-format", "auto", "input format (auto|json|yaml)")
	cmd.Flags().String("min-severity", "INFO", "hide groups below this severity")
	cmd.Flags().String("fail-on", "none", "exit with status 1 when a group at or above this severity exists")
	cmd.Flags().Int("jobs", 0, "max parallel workers for loading files (0=auto)")
	cmd.Flags().Bool("normalize", false, "fold type and bucket id to Unicode NFC before aggregating")
	cmd.Flags().Bool("disk-cache", false, "cache decoded files on disk keyed by content hash")
	cmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
	cmd.Flags().Bool("no-properties", false, "omit warning properties from the output")
	return cmd
}

// runAggregate executes the "aggregate" command: it resolves settings, loads
// and reduces the inputs, renders the surviving groups and turns --fail-on
// into the exit status. Files that fail to load are reported on stderr and
// make the command fail after the output is written.
func runAggregate(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	inputFormat, err := driver.ParseInputFormat(s.inputFormat)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	tracer := trace.FromContext(ctx)
	runSpan := trace.Begin(tracer, trace.ScopeRun, "aggregate_cmd", 0)
	defer runSpan.End("")
	ctx = trace.WithSpan(ctx, runSpan)

	timer := observ.NewTimer()
	errOut := cmd.ErrOrStderr()

	opts := driver.Options{
		Jobs:      s.jobs,
		Normalize: s.normalize,
		Format:    inputFormat,
		Stdin:     cmd.InOrStdin(),
	}
	if s.diskCache {
		cache, err := driver.OpenDiskCache("qawarn")
		if err != nil {
			fmt.Fprintf(errOut, "warning: disk cache disabled: %v\n", err)
		} else {
			opts.Cache = cache
		}
	}

	files, err := driver.ListInputs(args)
	if err != nil {
		return err
	}

	loadIdx := timer.Begin("load")
	var result *driver.Result
	if shouldUseTUI(mode, quiet) {
		result, err = runAggregateWithUI(ctx, "aggregating", files, opts)
	} else {
		result, err = driver.AggregateFiles(ctx, files, opts)
	}
	if err != nil {
		return fmt.Errorf("aggregation failed: %w", err)
	}
	timer.End(loadIdx, len(result.Files), "")

	failed := result.Failed()
	for _, f := range failed {
		fmt.Fprintf(errOut, "error: %v\n", f.Err)
	}

	aggIdx := timer.Begin("aggregate")
	set := result.Set
	if s.minSeverity > qa.SevInfo {
		set = set.Filter(s.minSeverity)
	}
	set.Sort()
	timer.End(aggIdx, set.Len(), "min "+s.minSeverity.String())

	renderIdx := timer.Begin("render")
	if err := render(cmd.OutOrStdout(), set, s, quiet, args); err != nil {
		return err
	}
	timer.End(renderIdx, set.Len(), s.format)

	if showTimings {
		fmt.Fprint(errOut, timer.Summary())
	}

	runSpan.WithExtra("groups", strconv.Itoa(set.Len()))
	runSpan.WithExtra("failed_files", strconv.Itoa(len(failed)))

	if len(failed) > 0 {
		return fmt.Errorf("%d of %d input(s) could not be read", len(failed), len(result.Files))
	}
	if s.hasFailOn && set.HasAtLeast(s.failOn) {
		if !quiet {
			fmt.Fprintf(errOut, "found warnings at or above %s\n", s.failOn)
		}
		return &exitError{code: 1}
	}
	return nil
}

func render(out io.Writer, set *qa.Set, s settings, quiet bool, args []string) error {
	switch s.format {
	case "pretty":
		return qafmt.Pretty(out, set, qafmt.PrettyOpts{
			Color:          useColor(s.color, stdoutFile(out)),
			Width:          s.width,
			Max:            s.maxWarnings,
			ShowProperties: s.properties,
			ShowSummary:    !quiet,
		})
	case "short":
		return qafmt.Short(out, set)
	case "json":
		return qafmt.JSON(out, set, qafmt.JSONOpts{
			Max:            s.maxWarnings,
			OmitProperties: !s.properties,
		})
	case "sarif":
		return qafmt.Sarif(out, set, qafmt.SarifRunMeta{
			ToolName:       "qawarn",
			ToolVersion:    version.Version,
			InvocationArgs: args,
		})
	default:
		return fmt.Errorf("unknown format: %s", s.format)
	}
}

// stdoutFile returns out as a file when it is one, so auto colour can inspect it.
func stdoutFile(out io.Writer) *os.File {
	if f, ok := out.(*os.File); ok {
		return f
	}
	return nil
}
