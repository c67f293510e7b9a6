package gpu

import (
	"context"
	"strings"
)

// fakeRunner returns canned output and records the invoked command line
type fakeRunner struct {
	out   string
	err   error
	calls []string
}

func (f *fakeRunner) Output(_ context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, strings.Join(append([]string{name}, args...), " "))
	return []byte(f.out), f.err
}
