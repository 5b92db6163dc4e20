// Package cmd provides helpers for executing external commands with
// bounded lifetimes and proper error handling.
package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/raphi011/mcpgit/internal/log"
)

// Options controls a single command invocation.
type Options struct {
	// Timeout bounds the process lifetime. Zero means no timeout.
	Timeout time.Duration
	// OKCodes lists exit codes treated as success. Nil means [0].
	OKCodes []int
	// Stdin is written to the process input stream, then closed.
	Stdin string
	// Env entries are appended to the inherited environment.
	Env map[string]string
}

// Result holds the captured output of a successful invocation. Code is the
// exit code, relevant when OKCodes accepts more than one value.
type Result struct {
	Stdout string
	Stderr string
	Code   int
}

// ExitError reports a process that exited with a non-accepted code.
type ExitError struct {
	Code   int
	Stdout string
	Stderr string
}

func (e *ExitError) Error() string {
	if msg := strings.TrimSpace(e.Stderr); msg != "" {
		return msg
	}
	if msg := strings.TrimSpace(e.Stdout); msg != "" {
		return msg
	}
	return fmt.Sprintf("exited with code %d", e.Code)
}

// Combined returns stdout and stderr joined, for marker scanning.
func (e *ExitError) Combined() string {
	return e.Stdout + "\n" + e.Stderr
}

// TimeoutError reports a process killed after exceeding its timeout.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("command timed out after %s", e.Timeout)
}

// IsNotFound reports whether err means the executable could not be launched
// because it does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist)
}

// Run executes name with args in dir and returns the captured output.
// The call fails with *ExitError for non-accepted exit codes, *TimeoutError
// when the timeout elapses (the process is killed and no output is
// returned), or a launch error when the executable cannot be started.
func Run(ctx context.Context, dir string, opts Options, name string, args ...string) (Result, error) {
	runCtx := ctx
	var cancel context.CancelFunc
	if opts.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	// #nosec G204 -- argv elements come from internal logic, never a shell
	c := exec.CommandContext(runCtx, name, args...)
	if dir != "" {
		c.Dir = dir
	}
	if len(opts.Env) > 0 {
		c.Env = append(os.Environ(), formatEnv(opts.Env)...)
	}
	if opts.Stdin != "" {
		c.Stdin = strings.NewReader(opts.Stdin)
	}

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	done := log.FromContext(ctx).Command(dir, name, redact(args)...)
	start := time.Now()
	err := c.Run()
	done(time.Since(start))

	// Timed out: the process was killed, discard whatever it wrote.
	if runCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
		return Result{}, &TimeoutError{Timeout: opts.Timeout}
	}
	if ctx.Err() != nil {
		return Result{}, ctx.Err()
	}

	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if codeAccepted(code, opts.OKCodes) {
			res.Code = code
			return res, nil
		}
		return Result{}, &ExitError{Code: code, Stdout: res.Stdout, Stderr: res.Stderr}
	}

	return Result{}, err
}

func codeAccepted(code int, ok []int) bool {
	if len(ok) == 0 {
		return code == 0
	}
	for _, c := range ok {
		if c == code {
			return true
		}
	}
	return false
}

func formatEnv(env map[string]string) []string {
	formatted := make([]string, 0, len(env))
	for k, v := range env {
		formatted = append(formatted, k+"="+v)
	}
	return formatted
}

// redact masks argv elements carrying credentials so verbose logging never
// echoes an auth header.
func redact(args []string) []string {
	masked := args
	copied := false
	for i, a := range args {
		if strings.Contains(a, "http.extraHeader") {
			if !copied {
				masked = append([]string(nil), args...)
				copied = true
			}
			masked[i] = "http.extraHeader=***"
		}
	}
	return masked
}
