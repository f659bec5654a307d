package solver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/specialistvlad/foilsweep/internal/config"
	"github.com/specialistvlad/foilsweep/internal/ctxlog"
)

var (
	// ErrUnavailable means the solver executable cannot be found or started.
	// It is fatal for the whole sweep.
	ErrUnavailable = errors.New("solver executable unavailable")

	// ErrFailed means one solver run ended badly. It is fatal only for the
	// configuration being run.
	ErrFailed = errors.New("solver run failed")
)

// maxCaptureBytes bounds how much of each output stream is kept.
const maxCaptureBytes = 64 << 10

// waitDelay bounds how long Wait blocks on output pipes after the process
// has been killed.
const waitDelay = 2 * time.Second

// Result describes a completed solver process.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// RunError is returned for a run that started but did not succeed. It
// matches ErrFailed with errors.Is.
type RunError struct {
	ExitCode int
	TimedOut bool
	Stderr   string
	Cause    error
}

func (e *RunError) Error() string {
	var reason string
	switch {
	case e.TimedOut:
		reason = "timed out"
	case e.ExitCode >= 0:
		reason = fmt.Sprintf("exit code %d", e.ExitCode)
	default:
		reason = e.Cause.Error()
	}
	if tail := lastLine(e.Stderr); tail != "" {
		return fmt.Sprintf("%s: %s: %s", ErrFailed, reason, tail)
	}
	return fmt.Sprintf("%s: %s", ErrFailed, reason)
}

func (e *RunError) Unwrap() []error {
	return []error{ErrFailed, e.Cause}
}

// Adapter launches the solver as a subprocess. The zero value is not usable;
// construct it with NewAdapter.
type Adapter struct {
	Executable string
	Args       []string
	// Dir is the solver's working directory; artifacts are written there.
	Dir     string
	Timeout time.Duration
	// Env, when non-nil, replaces the inherited environment.
	Env []string
}

// NewAdapter returns an adapter for the configured solver.
func NewAdapter(controls config.Solver) *Adapter {
	return &Adapter{
		Executable: controls.Executable,
		Args:       append([]string(nil), controls.Args...),
		Dir:        controls.WorkDir,
		Timeout:    controls.Timeout,
	}
}

// Check resolves the executable without running it.
func (a *Adapter) Check() error {
	if _, err := exec.LookPath(a.Executable); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Run starts one solver process, feeds it script on standard input and
// waits for it to exit.
func (a *Adapter) Run(ctx context.Context, script string) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("solver run interrupted: %w", err)
	}

	runCtx := ctx
	if a.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, a.Executable, a.Args...)
	cmd.Dir = a.Dir
	cmd.Env = a.Env
	cmd.Stdin = strings.NewReader(script)
	cmd.WaitDelay = waitDelay

	stdout := &cappedBuffer{max: maxCaptureBytes}
	stderr := &cappedBuffer{max: maxCaptureBytes}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	logger.Debug("Solver process started.", "pid", cmd.Process.Pid, "executable", a.Executable)

	waitErr := cmd.Wait()
	res := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: cmd.ProcessState.ExitCode(),
		Duration: time.Since(start),
	}

	switch {
	case ctx.Err() != nil:
		return res, fmt.Errorf("solver run interrupted: %w", ctx.Err())
	case runCtx.Err() != nil:
		return res, &RunError{ExitCode: res.ExitCode, TimedOut: true, Stderr: res.Stderr, Cause: runCtx.Err()}
	case waitErr != nil:
		return res, &RunError{ExitCode: res.ExitCode, Stderr: res.Stderr, Cause: waitErr}
	}

	logger.Debug("Solver process finished.", "elapsed", res.Duration)
	return res, nil
}

// cappedBuffer keeps the first max bytes written and discards the rest.
type cappedBuffer struct {
	buf bytes.Buffer
	max int
}

func (c *cappedBuffer) Write(p []byte) (int, error) {
	if room := c.max - c.buf.Len(); room > 0 {
		if len(p) > room {
			c.buf.Write(p[:room])
		} else {
			c.buf.Write(p)
		}
	}
	return len(p), nil
}

func (c *cappedBuffer) String() string {
	return c.buf.String()
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}
