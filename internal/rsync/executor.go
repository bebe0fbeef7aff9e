package rsync

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"time"
)

// Result holds the outcome of a single rsync invocation.
type Result struct {
	// ExitCode is rsync's exit status, or -1 when it could not be started or
	// was killed by a signal.
	ExitCode int

	// Stderr is everything rsync wrote to standard error.
	Stderr string

	// Duration is the wall time of the invocation.
	Duration time.Duration

	// Err is the error from starting or waiting on the process.
	Err error
}

// Failed reports whether the invocation did not exit cleanly.
func (r Result) Failed() bool {
	return r.ExitCode != 0 || r.Err != nil
}

// Runner runs a fully built command line. args[0] is the executable.
type Runner interface {
	Run(ctx context.Context, args []string) Result
}

// ExecRunner runs rsync as a child process. Output is passed through to
// Stdout and Stderr as it is produced; stderr is also captured in the Result.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner creates an ExecRunner. Either writer may be nil to discard
// that stream.
func NewExecRunner(stdout, stderr io.Writer) *ExecRunner {
	return &ExecRunner{Stdout: stdout, Stderr: stderr}
}

// Run starts the command and waits for it to finish. No timeout is applied;
// cancelling ctx kills the process.
func (r *ExecRunner) Run(ctx context.Context, args []string) Result {
	if len(args) == 0 {
		return Result{ExitCode: -1, Err: errors.New("empty command line")}
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stderrBuf bytes.Buffer
	if r.Stderr != nil {
		cmd.Stderr = io.MultiWriter(&stderrBuf, r.Stderr)
	} else {
		cmd.Stderr = &stderrBuf
	}
	cmd.Stdout = r.Stdout

	start := time.Now()
	err := cmd.Run()
	res := Result{
		Stderr:   stderrBuf.String(),
		Duration: time.Since(start),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
	default:
		res.ExitCode = -1
		res.Err = err
	}
	return res
}
