package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedVersion is matched by every MalformedVersionError
var ErrMalformedVersion = errors.New("malformed version")

// MalformedVersionError reports a version string that has no integer major component
type MalformedVersionError struct {
	Input string
}

func (e *MalformedVersionError) Error() string {
	return fmt.Sprintf("malformed version %q", e.Input)
}

// Is lets errors.Is match ErrMalformedVersion
func (e *MalformedVersionError) Is(target error) bool {
	return target == ErrMalformedVersion
}

// ParseMajor returns the leading integer of a dot-separated version such as "11.8" or "12".
func ParseMajor(s string) (int, error) {
	major, _, err := parse(s, false)
	return major, err
}

// ParseMajorMinor returns the first two integer components. A missing minor is an error.
func ParseMajorMinor(s string) (int, int, error) {
	return parse(s, true)
}

func parse(s string, needMinor bool) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	major, err := component(parts[0])
	if err != nil {
		return 0, 0, &MalformedVersionError{Input: s}
	}
	if !needMinor {
		return major, 0, nil
	}
	if len(parts) < 2 {
		return 0, 0, &MalformedVersionError{Input: s}
	}
	minor, err := component(parts[1])
	if err != nil {
		return 0, 0, &MalformedVersionError{Input: s}
	}
	return major, minor, nil
}

func component(s string) (int, error) {
	if s == "" || strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrMalformedVersion
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return n, nil
}
