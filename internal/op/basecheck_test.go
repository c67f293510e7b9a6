package op

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type stubRunner struct {
	err  error
	args []string
}

func (s *stubRunner) Output(_ context.Context, name string, args ...string) ([]byte, error) {
	s.args = append([]string{name}, args...)
	return []byte("g++ (GCC) 11.4.0"), s.err
}

func TestToolchainCheck(t *testing.T) {
	tests := []struct {
		name       string
		lookErr    error
		runErr     error
		want       bool
		wantReason string
	}{
		{"compiler works", nil, nil, true, ""},
		{"compiler missing", errors.New("not found"), nil, false, "not found on PATH"},
		{"compiler broken", nil, errors.New("exit status 1"), false, "is not usable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &stubRunner{err: tt.runErr}
			check := NewToolchainCheck("c++", 0)
			check.Runner = runner
			check.LookPath = func(string) (string, error) { return "/usr/bin/c++", tt.lookErr }

			ok, reason := check.Compatible(context.Background())
			if ok != tt.want {
				t.Errorf("Compatible() = %v, want %v", ok, tt.want)
			}
			if !strings.Contains(reason, tt.wantReason) {
				t.Errorf("reason = %q, want it to contain %q", reason, tt.wantReason)
			}
			if tt.lookErr == nil && strings.Join(runner.args, " ") != "/usr/bin/c++ --version" {
				t.Errorf("Unexpected invocation: %v", runner.args)
			}
		})
	}
}

type deadlineRunner struct {
	hasDeadline bool
}

func (d *deadlineRunner) Output(ctx context.Context, _ string, _ ...string) ([]byte, error) {
	_, d.hasDeadline = ctx.Deadline()
	return nil, nil
}

func TestToolchainCheck_Timeout(t *testing.T) {
	runner := &deadlineRunner{}
	check := NewToolchainCheck("c++", 5*time.Second)
	check.Runner = runner
	check.LookPath = func(string) (string, error) { return "/usr/bin/c++", nil }

	if ok, reason := check.Compatible(context.Background()); !ok {
		t.Fatalf("Compatible() = false (%s), want true", reason)
	}
	if !runner.hasDeadline {
		t.Error("Expected the compiler probe to run with a deadline")
	}
}
