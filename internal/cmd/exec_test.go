package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/raphi011/mcpgit/internal/log"
)

func logCtx() context.Context {
	l := log.New(&bytes.Buffer{}, false, false)
	return log.WithLogger(context.Background(), l)
}

func TestRun_Success(t *testing.T) {
	t.Parallel()
	res, err := Run(logCtx(), "", Options{}, "echo", "hello")
	if err != nil {
		t.Fatalf("Run(echo hello) = %v, want nil", err)
	}
	if res.Stdout != "hello\n" {
		t.Errorf("stdout = %q, want %q", res.Stdout, "hello\n")
	}
}

func TestRun_Failure(t *testing.T) {
	t.Parallel()
	_, err := Run(logCtx(), "", Options{}, "sh", "-c", "exit 3")
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("Run(exit 3) = %v, want *ExitError", err)
	}
	if exitErr.Code != 3 {
		t.Errorf("Code = %d, want 3", exitErr.Code)
	}
	if got := exitErr.Error(); got != "exited with code 3" {
		t.Errorf("Error() = %q, want %q", got, "exited with code 3")
	}
}

func TestRun_StderrMessage(t *testing.T) {
	t.Parallel()
	_, err := Run(logCtx(), "", Options{}, "sh", "-c", "echo 'bad thing' >&2; exit 1")
	if err == nil {
		t.Fatal("Run = nil, want error")
	}
	if err.Error() != "bad thing" {
		t.Errorf("error = %q, want %q", err.Error(), "bad thing")
	}
}

func TestRun_StdoutFallbackMessage(t *testing.T) {
	t.Parallel()
	_, err := Run(logCtx(), "", Options{}, "sh", "-c", "echo 'only stdout'; exit 1")
	if err == nil {
		t.Fatal("Run = nil, want error")
	}
	if err.Error() != "only stdout" {
		t.Errorf("error = %q, want %q", err.Error(), "only stdout")
	}
}

func TestRun_AcceptedExitCode(t *testing.T) {
	t.Parallel()
	res, err := Run(logCtx(), "", Options{OKCodes: []int{0, 1}}, "sh", "-c", "echo diff; exit 1")
	if err != nil {
		t.Fatalf("Run with OKCodes [0 1] = %v, want nil", err)
	}
	if res.Stdout != "diff\n" {
		t.Errorf("stdout = %q, want %q", res.Stdout, "diff\n")
	}
}

func TestRun_Timeout(t *testing.T) {
	t.Parallel()
	start := time.Now()
	_, err := Run(logCtx(), "", Options{Timeout: 100 * time.Millisecond}, "sleep", "10")
	var timeoutErr *TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("Run(sleep 10) = %v, want *TimeoutError", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Run took %s, process was not killed at timeout", elapsed)
	}
	if !strings.Contains(timeoutErr.Error(), "100ms") {
		t.Errorf("error = %q, want to mention the timeout", timeoutErr.Error())
	}
}

func TestRun_ContextCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(logCtx())
	cancel()
	_, err := Run(ctx, "", Options{}, "sleep", "10")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run with cancelled context = %v, want context.Canceled", err)
	}
}

func TestRun_NotFound(t *testing.T) {
	t.Parallel()
	_, err := Run(logCtx(), "", Options{}, "definitely-not-a-real-binary-xyz")
	if err == nil {
		t.Fatal("Run = nil, want error")
	}
	if !IsNotFound(err) {
		t.Errorf("IsNotFound(%v) = false, want true", err)
	}
}

func TestRun_Stdin(t *testing.T) {
	t.Parallel()
	res, err := Run(logCtx(), "", Options{Stdin: "piped in\n"}, "cat")
	if err != nil {
		t.Fatalf("Run(cat) = %v, want nil", err)
	}
	if res.Stdout != "piped in\n" {
		t.Errorf("stdout = %q, want %q", res.Stdout, "piped in\n")
	}
}

func TestRun_Dir(t *testing.T) {
	t.Parallel()
	res, err := Run(logCtx(), "/tmp", Options{}, "pwd")
	if err != nil {
		t.Fatalf("Run with dir = %v, want nil", err)
	}
	if strings.TrimSpace(res.Stdout) == "" {
		t.Error("pwd produced no output")
	}
}

func TestRun_ExtraEnv(t *testing.T) {
	t.Parallel()
	res, err := Run(logCtx(), "", Options{Env: map[string]string{"MCPGIT_TEST_VAR": "42"}}, "sh", "-c", "echo $MCPGIT_TEST_VAR")
	if err != nil {
		t.Fatalf("Run = %v, want nil", err)
	}
	if res.Stdout != "42\n" {
		t.Errorf("stdout = %q, want %q", res.Stdout, "42\n")
	}
}

func TestRedact(t *testing.T) {
	t.Parallel()
	args := []string{"-c", "http.extraHeader=Authorization: Basic c2VjcmV0", "push"}
	got := redact(args)
	if got[1] != "http.extraHeader=***" {
		t.Errorf("redact = %v, header not masked", got)
	}
	if args[1] == "http.extraHeader=***" {
		t.Error("redact mutated the original slice")
	}
}
