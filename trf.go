package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Invocation is one call of the finder over a set of sequence files.
type Invocation struct {
	Files     []string
	MaxPeriod int
	Threshold int
}

func (inv Invocation) args(listPath string) []string {
	return []string{
		"--input", listPath,
		"--max-period", strconv.Itoa(inv.MaxPeriod),
		"--threshold", strconv.Itoa(inv.Threshold),
	}
}

// RunError reports a finder process that exited unsuccessfully.
type RunError struct {
	Binary   string
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *RunError) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Binary, strings.Join(e.Args, " "), e.Err)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *RunError) Unwrap() error { return e.Err }

// Finder runs the external tool. Benchmarks depend on this rather than on
// Runner so they can be driven without a binary.
type Finder interface {
	Run(ctx context.Context, inv Invocation) (Output, error)
	Time(ctx context.Context, inv Invocation) (time.Duration, error)
}

// Runner invokes the finder binary as a subprocess.
type Runner struct {
	Binary  string
	Timeout time.Duration
	// TempDir holds the per-invocation list files; empty means os.TempDir.
	TempDir string
	Logger  *slog.Logger
}

// Run executes the binary and parses its stdout.
func (r *Runner) Run(ctx context.Context, inv Invocation) (Output, error) {
	var stdout bytes.Buffer
	if _, err := r.exec(ctx, inv, &stdout); err != nil {
		return Output{}, err
	}
	return ParseOutput(stdout.String()), nil
}

// Time executes the binary with its output discarded and reports the wall
// clock time it took, including process start-up.
func (r *Runner) Time(ctx context.Context, inv Invocation) (time.Duration, error) {
	return r.exec(ctx, inv, io.Discard)
}

func (r *Runner) exec(ctx context.Context, inv Invocation, stdout io.Writer) (time.Duration, error) {
	listPath, err := WriteFileList(r.TempDir, inv.Files)
	if err != nil {
		return 0, fmt.Errorf("writing input list: %w", err)
	}
	defer os.Remove(listPath)

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	args := inv.args(listPath)
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.Binary, args...)
	cmd.Stdout = stdout
	cmd.Stderr = &stderr

	r.logger().Debug("Invoking finder.", "binary", r.Binary, "args", args, "files", len(inv.Files))
	start := time.Now()
	err = cmd.Run()
	elapsed := time.Since(start)

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%w: %w", ctxErr, err)
		}
		runErr := &RunError{
			Binary:   r.Binary,
			Args:     args,
			ExitCode: -1,
			Stderr:   strings.TrimSpace(stderr.String()),
			Err:      err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			runErr.ExitCode = exitErr.ExitCode()
		}
		return 0, runErr
	}

	r.logger().Debug("Finder finished.", "elapsed", elapsed)
	return elapsed, nil
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}
