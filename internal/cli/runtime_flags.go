package cli

import (
	"fmt"
	"time"

	"github.com/example/signal-worker/internal/config"
	"github.com/spf13/cobra"
)

// runtimeFlagSet tracks shared scan/init/doctor flags before they are converted into config overrides.
type runtimeFlagSet struct {
	targets      string
	targetsFile  string
	signals      string
	threads      int
	outputDir    string
	formats      string
	dryRun       bool
	summaryFile  string
	metricsFile  string
	timeout      time.Duration
	maxBodyBytes int64
	userAgent    string
}

func bindRuntimeFlags(cmd *cobra.Command, flags *runtimeFlagSet) {
	cmd.Flags().StringVar(&flags.targets, "targets", "", "Comma-separated list of URLs or page fixture files (overrides config)")
	cmd.Flags().StringVar(&flags.targetsFile, "targets-file", "", "Path to a file with one target per line")
	cmd.Flags().StringVar(&flags.signals, "signals", "", "Comma-separated signal ids to evaluate (default: all)")
	cmd.Flags().IntVar(&flags.threads, "threads", 0, fmt.Sprintf("Number of targets evaluated concurrently (1-%d)", config.MaxThreads))
	cmd.Flags().StringVar(&flags.outputDir, "output-dir", "", "Directory for detection artifacts")
	cmd.Flags().StringVar(&flags.formats, "formats", "", "Comma-separated output formats (json,csv)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Skip page evaluation and emit placeholder artifacts")
	cmd.Flags().StringVar(&flags.summaryFile, "summary-file", "", "Optional summary JSON output path")
	cmd.Flags().StringVar(&flags.metricsFile, "metrics-file", "", "Optional Prometheus textfile output path")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "Per-page fetch timeout (e.g. 15s)")
	cmd.Flags().Int64Var(&flags.maxBodyBytes, "max-body-bytes", 0, "Maximum number of response bytes read per page")
	cmd.Flags().StringVar(&flags.userAgent, "user-agent", "", "User-Agent header sent when fetching pages")
}

func (f runtimeFlagSet) toOverrides(cmd *cobra.Command) config.Overrides {
	ov := config.Overrides{}
	if cmd.Flags().Changed("targets") {
		ov.Targets = config.ParseTargetsList(f.targets)
	}

	if cmd.Flags().Changed("targets-file") {
		ov.TargetsFile = f.targetsFile
	}

	if cmd.Flags().Changed("signals") {
		ov.Signals = config.ParseSignals(f.signals)
	}

	if cmd.Flags().Changed("threads") {
		ov.Threads = f.threads
		ov.ThreadsSet = true
	}

	if cmd.Flags().Changed("output-dir") {
		ov.OutputDir = f.outputDir
	}

	if cmd.Flags().Changed("formats") {
		ov.Formats = config.ParseFormats(f.formats)
	}

	if cmd.Flags().Changed("dry-run") {
		ov.DryRun = &f.dryRun
	}

	if cmd.Flags().Changed("summary-file") {
		ov.SummaryFile = f.summaryFile
	}

	if cmd.Flags().Changed("metrics-file") {
		ov.MetricsFile = f.metricsFile
	}

	if cmd.Flags().Changed("timeout") {
		ov.Timeout = f.timeout
	}

	if cmd.Flags().Changed("max-body-bytes") {
		ov.MaxBodyBytes = f.maxBodyBytes
	}

	if cmd.Flags().Changed("user-agent") {
		ov.UserAgent = f.userAgent
	}

	return ov
}
