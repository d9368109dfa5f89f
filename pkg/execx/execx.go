// Package execx runs external commands with bounded timeouts and a single
// retry for transient spawn failures.
//
// Every collaborator process (poetry, pipreqs, pip) is invoked through the
// Runner interface so that packages driving external tools can be tested
// against a scripted fake.
package execx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a single external command invocation. Poetry's
// dependency solver can legitimately run for minutes on a cold cache.
const DefaultTimeout = 5 * time.Minute

// Runner executes an external command and returns its combined standard
// output. Implementations must be safe for sequential reuse; concurrent
// calls are not part of the contract because the manifest file mutated by
// poetry does not tolerate overlapping writers.
type Runner interface {
	// Run executes name with args and returns stdout. A non-nil error
	// carries trailing stderr output in its message.
	Run(ctx context.Context, name string, args ...string) (string, error)

	// LookPath reports whether name resolves to an executable.
	LookPath(name string) error
}

// CmdRunner is the production Runner backed by os/exec.
type CmdRunner struct {
	Timeout time.Duration // per-invocation bound; DefaultTimeout if zero
}

// NewRunner creates a CmdRunner with the default timeout.
func NewRunner() *CmdRunner {
	return &CmdRunner{Timeout: DefaultTimeout}
}

// Run executes the command, retrying once if the process could not be
// spawned (exec.ErrNotFound excluded: a missing binary will not appear on
// a second attempt). Command failures with an exit code are returned
// immediately; only spawn-class errors are considered transient.
func (r *CmdRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	var out string
	err := retrySpawn(ctx, func() error {
		cctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		var stdout, stderr bytes.Buffer
		cmd := exec.CommandContext(cctx, name, args...)
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		err := cmd.Run()
		out = stdout.String()
		if err == nil {
			return nil
		}
		if cctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("%s timed out after %s", name, timeout)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return commandError(name, args, stderr.String(), err)
		}
		// Spawn failure (fork/exec level): worth one more attempt unless
		// the binary simply does not exist.
		if isMissingExecutable(err) {
			return err
		}
		return &spawnError{err: err}
	})
	return out, err
}

// LookPath reports whether name resolves to an executable on PATH.
func (r *CmdRunner) LookPath(name string) error {
	_, err := exec.LookPath(name)
	return err
}

// commandError formats a process failure, keeping the tail of stderr so the
// report has something actionable without dumping pages of solver output.
func commandError(name string, args []string, stderr string, err error) error {
	msg := strings.TrimSpace(stderr)
	if n := len(msg); n > 400 {
		msg = "..." + msg[n-400:]
	}
	if msg == "" {
		return fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, msg)
}

func isMissingExecutable(err error) bool {
	return strings.Contains(err.Error(), exec.ErrNotFound.Error())
}

// spawnError marks a process start failure as retryable.
type spawnError struct{ err error }

func (e *spawnError) Error() string { return e.err.Error() }
func (e *spawnError) Unwrap() error { return e.err }

// retrySpawn executes fn, retrying exactly once after a short delay when fn
// fails with a spawnError. All other errors are returned as-is.
func retrySpawn(ctx context.Context, fn func() error) error {
	err := fn()
	var se *spawnError
	if err == nil || !errors.As(err, &se) {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(time.Second):
	}
	if err := fn(); err != nil {
		if errors.As(err, &se) {
			return se.err
		}
		return err
	}
	return nil
}
