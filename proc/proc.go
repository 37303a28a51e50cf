// Package proc runs external commands: supervised long-running processes
// for audio capture and bounded one-shot calls for delivery tools.
package proc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"
)

// Handle supervises a single running command.
type Handle struct {
	name    string
	process *os.Process
	stderr  *bytes.Buffer
	waitErr <-chan error

	stopOnce sync.Once
	stopErr  error
}

// Start launches the command with stderr captured. The returned handle must
// be finished with Stop or by draining Done.
func Start(name string, arg ...string) (*Handle, error) {
	cmd := exec.Command(name, arg...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", name, err)
	}

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- cmd.Wait()
		close(waitErr)
	}()

	return &Handle{
		name:    name,
		process: cmd.Process,
		stderr:  &stderr,
		waitErr: waitErr,
	}, nil
}

// Done yields the exit result when the command terminates on its own.
func (h *Handle) Done() <-chan error {
	return h.waitErr
}

func (h *Handle) Pid() int {
	return h.process.Pid
}

// Stderr returns the captured stderr. Only valid after the command exited.
func (h *Handle) Stderr() string {
	return strings.TrimSpace(h.stderr.String())
}

// Stop terminates the command: polite SIGTERM, wait up to grace, then
// kill. An exit provoked by our own signal is not an error. Idempotent.
func (h *Handle) Stop(grace time.Duration) error {
	h.stopOnce.Do(func() {
		_ = h.process.Signal(syscall.SIGTERM)

		select {
		case err, ok := <-h.waitErr:
			if ok {
				h.stopErr = normalizeExit(err)
			}
		case <-time.After(grace):
			_ = h.process.Kill()
			err, ok := <-h.waitErr
			if ok {
				h.stopErr = normalizeExit(err)
			}
		}

		if h.stopErr != nil && h.stderr.Len() > 0 {
			h.stopErr = fmt.Errorf("%w: %s", h.stopErr, h.Stderr())
		}
	})
	return h.stopErr
}

func normalizeExit(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil
	}
	return err
}

// Run executes a command to completion under ctx. Extra env entries are
// appended to the inherited environment. A non-zero exit surfaces the
// command's stderr in the error.
func Run(ctx context.Context, stdin io.Reader, env []string, name string, arg ...string) error {
	cmd := exec.CommandContext(ctx, name, arg...)
	if stdin != nil {
		cmd.Stdin = stdin
	}
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Output is Run with trimmed stdout captured.
func Output(ctx context.Context, name string, arg ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, arg...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return strings.TrimSpace(stdout.String()), nil
}
