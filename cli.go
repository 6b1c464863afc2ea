package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// ExitError carries a specific process exit code.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string { return e.Message }

func usageError(err error) error {
	return &ExitError{Code: 2, Message: err.Error()}
}

// app holds the raw flag values and, once a subcommand starts, the resolved
// configuration built from defaults, the config file and explicit flags.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	flags      Config
	sweepRange string
	geneRange  string

	cfg    Config
	logger *slog.Logger
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}
	def := DefaultConfig()

	root := &cobra.Command{
		Use:           "trfbench",
		Short:         "Benchmark and plot a tandem repeat finder across parameter sweeps",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML config file")
	pf.StringVar(&a.flags.Binary, "binary", def.Binary, "Tandem repeat finder executable")
	pf.StringVar(&a.flags.FileList, "files", def.FileList, "File listing one sequence path per line")
	pf.StringVar(&a.flags.OutputDir, "out-dir", def.OutputDir, "Directory for PNG output")
	pf.IntVar(&a.flags.DPI, "dpi", def.DPI, "PNG resolution")
	pf.IntVar(&a.flags.Jobs, "jobs", def.Jobs, "Maximum concurrent finder runs (sweep and per-gene)")
	pf.DurationVar(&a.flags.Timeout, "timeout", def.Timeout, "Per-run timeout, 0 disables")
	pf.StringVar(&a.flags.LogLevel, "log-level", def.LogLevel, "Log level: debug, info, warn, error")
	pf.StringVar(&a.flags.LogFormat, "log-format", def.LogFormat, "Log format: text or json")

	root.AddCommand(a.sweepCmd(def), a.perGeneCmd(def), a.runtimeCmd(def))
	return root
}

func (a *app) sweepCmd(def Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Average repeat count and coverage per gene group across thresholds",
		Args:  cobra.NoArgs,
		RunE:  a.runSweep,
	}
	f := cmd.Flags()
	f.IntVar(&a.flags.Sweep.MaxPeriod, "max-period", def.Sweep.MaxPeriod, "Maximum repeat period")
	f.StringVar(&a.sweepRange, "thresholds", def.Sweep.Thresholds.String(), "Threshold sweep start:stop:step (inclusive)")
	f.IntVar(&a.flags.Sweep.Cases, "cases", def.Sweep.Cases, "Number of repeat-expansion genes at the head of the list")
	f.IntVar(&a.flags.Sweep.Controls, "controls", def.Sweep.Controls, "Number of control genes at the tail of the list")
	return cmd
}

func (a *app) perGeneCmd(def Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "per-gene",
		Short: "Plot each gene's repeat count and coverage across thresholds",
		Args:  cobra.NoArgs,
		RunE:  a.runPerGene,
	}
	f := cmd.Flags()
	f.IntVar(&a.flags.PerGene.MaxPeriod, "max-period", def.PerGene.MaxPeriod, "Maximum repeat period")
	f.StringVar(&a.geneRange, "thresholds", def.PerGene.Thresholds.String(), "Threshold sweep start:stop:step (inclusive)")
	f.IntVar(&a.flags.PerGene.Cases, "cases", def.PerGene.Cases, "Number of repeat-expansion genes")
	f.IntVar(&a.flags.PerGene.Controls, "controls", def.PerGene.Controls, "Number of control genes following the cases")
	return cmd
}

func (a *app) runtimeCmd(def Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runtime",
		Short: "Time the finder on random sequences of increasing length",
		Args:  cobra.NoArgs,
		RunE:  a.runRuntime,
	}
	f := cmd.Flags()
	f.IntVar(&a.flags.Runtime.MaxPeriod, "max-period", def.Runtime.MaxPeriod, "Maximum repeat period")
	f.IntVar(&a.flags.Runtime.Threshold, "threshold", def.Runtime.Threshold, "Detection threshold")
	f.IntSliceVar(&a.flags.Runtime.Sizes, "sizes", def.Runtime.Sizes, "Sequence lengths to time")
	f.Int64Var(&a.flags.Runtime.Seed, "seed", def.Runtime.Seed, "Random seed, 0 picks one from the clock")
	return cmd
}

// resolve layers defaults, the optional config file and explicitly set flags,
// then validates the result and builds the logger.
func (a *app) resolve(cmd *cobra.Command) error {
	cfg := DefaultConfig()
	if a.configPath != "" {
		if err := LoadConfigFile(a.configPath, &cfg); err != nil {
			return usageError(err)
		}
	}

	f := cmd.Flags()
	set := func(name string, apply func()) {
		if f.Changed(name) {
			apply()
		}
	}
	set("binary", func() { cfg.Binary = a.flags.Binary })
	set("files", func() { cfg.FileList = a.flags.FileList })
	set("out-dir", func() { cfg.OutputDir = a.flags.OutputDir })
	set("dpi", func() { cfg.DPI = a.flags.DPI })
	set("jobs", func() { cfg.Jobs = a.flags.Jobs })
	set("timeout", func() { cfg.Timeout = a.flags.Timeout })
	set("log-level", func() { cfg.LogLevel = a.flags.LogLevel })
	set("log-format", func() { cfg.LogFormat = a.flags.LogFormat })

	var rangeErr error
	switch cmd.Name() {
	case "sweep":
		set("max-period", func() { cfg.Sweep.MaxPeriod = a.flags.Sweep.MaxPeriod })
		set("cases", func() { cfg.Sweep.Cases = a.flags.Sweep.Cases })
		set("controls", func() { cfg.Sweep.Controls = a.flags.Sweep.Controls })
		set("thresholds", func() { cfg.Sweep.Thresholds, rangeErr = ParseRange(a.sweepRange) })
	case "per-gene":
		set("max-period", func() { cfg.PerGene.MaxPeriod = a.flags.PerGene.MaxPeriod })
		set("cases", func() { cfg.PerGene.Cases = a.flags.PerGene.Cases })
		set("controls", func() { cfg.PerGene.Controls = a.flags.PerGene.Controls })
		set("thresholds", func() { cfg.PerGene.Thresholds, rangeErr = ParseRange(a.geneRange) })
	case "runtime":
		set("max-period", func() { cfg.Runtime.MaxPeriod = a.flags.Runtime.MaxPeriod })
		set("threshold", func() { cfg.Runtime.Threshold = a.flags.Runtime.Threshold })
		set("sizes", func() { cfg.Runtime.Sizes = a.flags.Runtime.Sizes })
		set("seed", func() { cfg.Runtime.Seed = a.flags.Runtime.Seed })
	}
	if rangeErr != nil {
		return usageError(rangeErr)
	}
	if err := cfg.Validate(); err != nil {
		return usageError(err)
	}

	a.cfg = cfg
	a.logger = newLogger(cfg.LogLevel, cfg.LogFormat, a.stderr)
	a.logger.Debug("Configuration resolved.", "command", cmd.Name(), "config", fmt.Sprintf("%+v", cfg))
	return nil
}

func (a *app) runner(tempDir string) *Runner {
	return &Runner{
		Binary:  a.cfg.Binary,
		Timeout: a.cfg.Timeout,
		TempDir: tempDir,
		Logger:  a.logger,
	}
}

// loadInputs reads the file list and stages any gzipped inputs into a scratch
// directory. The returned cleanup removes it.
func (a *app) loadInputs() (files, staged []string, scratch string, cleanup func(), err error) {
	files, err = ReadFileList(a.cfg.FileList)
	if err != nil {
		return nil, nil, "", nil, fmt.Errorf("error reading file list: %w", err)
	}
	scratch, err = os.MkdirTemp("", "trfbench-")
	if err != nil {
		return nil, nil, "", nil, err
	}
	cleanup = func() { os.RemoveAll(scratch) }

	staged, err = PrepareInputs(scratch, files)
	if err != nil {
		cleanup()
		return nil, nil, "", nil, err
	}
	a.logger.Debug("Inputs loaded.", "list", a.cfg.FileList, "files", len(files), "scratch", scratch)
	return files, staged, scratch, cleanup, nil
}

func (a *app) runSweep(cmd *cobra.Command, _ []string) error {
	if err := a.resolve(cmd); err != nil {
		return err
	}
	files, staged, scratch, cleanup, err := a.loadInputs()
	if err != nil {
		return err
	}
	defer cleanup()
	a.logger.Info("Starting threshold sweep.", "files", len(files), "thresholds", a.cfg.Sweep.Thresholds.String())

	start := time.Now()
	res, err := ThresholdSweep(cmd.Context(), a.runner(scratch), a.cfg.Sweep, staged, a.cfg.Jobs, a.stdout)
	if err != nil {
		return err
	}
	printSweepSummary(a.stdout, res)

	written, err := RenderSweep(a.cfg.OutputDir, a.cfg.DPI, res)
	if err != nil {
		return fmt.Errorf("rendering plots: %w", err)
	}
	printWritten(a.stdout, written...)
	a.logger.Info("Threshold sweep finished.", "elapsed", time.Since(start))
	return nil
}

func (a *app) runPerGene(cmd *cobra.Command, _ []string) error {
	if err := a.resolve(cmd); err != nil {
		return err
	}
	files, staged, scratch, cleanup, err := a.loadInputs()
	if err != nil {
		return err
	}
	defer cleanup()
	a.logger.Info("Starting per-gene sweep.", "files", len(files), "thresholds", a.cfg.PerGene.Thresholds.String())

	start := time.Now()
	res, err := PerGeneSweep(cmd.Context(), a.runner(scratch), a.cfg.PerGene, staged, files, a.cfg.Jobs, a.stdout)
	if err != nil {
		return err
	}
	printPerGeneSummary(a.stdout, res)

	written, err := RenderPerGene(a.cfg.OutputDir, a.cfg.DPI, res)
	if err != nil {
		return fmt.Errorf("rendering plots: %w", err)
	}
	printWritten(a.stdout, written...)
	a.logger.Info("Per-gene sweep finished.", "elapsed", time.Since(start))
	return nil
}

func (a *app) runRuntime(cmd *cobra.Command, _ []string) error {
	if err := a.resolve(cmd); err != nil {
		return err
	}
	if a.cfg.Jobs > 1 {
		a.logger.Warn("Ignoring --jobs, runtime runs are sequential.", "jobs", a.cfg.Jobs)
	}
	a.logger.Info("Starting runtime benchmark.", "sizes", len(a.cfg.Runtime.Sizes))

	scratch, err := os.MkdirTemp("", "trfbench-runtime-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(scratch)

	res, err := RuntimeBenchmark(cmd.Context(), a.runner(scratch), a.cfg.Runtime, scratch, a.stdout)
	if err != nil {
		return err
	}
	printRuntimeSummary(a.stdout, res)

	written, err := RenderRuntime(a.cfg.OutputDir, a.cfg.DPI, res)
	if err != nil {
		return fmt.Errorf("rendering plots: %w", err)
	}
	printWritten(a.stdout, written...)
	return nil
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	return exitCode(ctx, root.ExecuteContext(ctx), stderr)
}

// exitCode reports err on stderr and maps it to an exit code: 130 once ctx
// is cancelled, ExitError's own code, 1 for anything else.
func exitCode(ctx context.Context, err error, stderr io.Writer) int {
	if ctx.Err() != nil {
		fmt.Fprintln(stderr, "Interrupted.")
		return 130
	}
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		fmt.Fprintln(stderr, exitErr.Message)
		return exitErr.Code
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return 1
}
