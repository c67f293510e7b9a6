package op

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"opbuilder/internal/gpu"
)

// BaseCheck is the broader compatibility check every op shares.
// It returns a human-readable reason when it fails.
type BaseCheck interface {
	Compatible(ctx context.Context) (bool, string)
}

// BaseCheckFunc adapts a function to BaseCheck
type BaseCheckFunc func(ctx context.Context) (bool, string)

// Compatible implements BaseCheck
func (f BaseCheckFunc) Compatible(ctx context.Context) (bool, string) {
	return f(ctx)
}

// ToolchainCheck verifies that the host C++ compiler exists and runs
type ToolchainCheck struct {
	Compiler string
	Timeout  time.Duration
	Runner   gpu.CommandRunner
	LookPath func(string) (string, error)
}

// NewToolchainCheck creates a check for compiler using os/exec
func NewToolchainCheck(compiler string, timeout time.Duration) *ToolchainCheck {
	return &ToolchainCheck{
		Compiler: compiler,
		Timeout:  timeout,
		Runner:   gpu.ExecRunner{},
		LookPath: exec.LookPath,
	}
}

// Compatible implements BaseCheck
func (c *ToolchainCheck) Compatible(ctx context.Context) (bool, string) {
	path, err := c.LookPath(c.Compiler)
	if err != nil {
		return false, fmt.Sprintf("C++ compiler %q not found on PATH", c.Compiler)
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	if _, err := c.Runner.Output(ctx, path, "--version"); err != nil {
		return false, fmt.Sprintf("C++ compiler %s is not usable: %v", path, err)
	}
	return true, ""
}
