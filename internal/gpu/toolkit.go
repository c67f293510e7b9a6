package gpu

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"opbuilder/internal/logging"
	"opbuilder/internal/version"
)

// DefaultCUDAHome is used when no other location is known
const DefaultCUDAHome = "/usr/local/cuda"

// ErrNVCCNotFound is returned when no nvcc binary exists under the CUDA home
var ErrNVCCNotFound = errors.New("nvcc not found")

// ToolkitDetector locates the installed CUDA toolkit and reads its release
type ToolkitDetector struct {
	logger   *logging.Logger
	runner   CommandRunner
	cudaHome string
	getenv   func(string) string
	lookPath func(string) (string, error)
	stat     func(string) (os.FileInfo, error)
}

// NewToolkitDetector creates a new toolkit detector. cudaHome may be empty.
func NewToolkitDetector(logger *logging.Logger, cudaHome string) *ToolkitDetector {
	return &ToolkitDetector{
		logger:   logger,
		runner:   ExecRunner{},
		cudaHome: cudaHome,
		getenv:   os.Getenv,
		lookPath: exec.LookPath,
		stat:     os.Stat,
	}
}

// NewToolkitDetectorWithRunner creates a detector with injected command execution (for testing)
func NewToolkitDetectorWithRunner(logger *logging.Logger, cudaHome string, runner CommandRunner) *ToolkitDetector {
	td := NewToolkitDetector(logger, cudaHome)
	td.runner = runner
	return td
}

// ResolveCUDAHome picks the toolkit root: explicit setting, hint (the runtime's own
// CUDA_HOME), $CUDA_HOME, $CUDA_PATH, the parent of nvcc on PATH, then /usr/local/cuda.
func (td *ToolkitDetector) ResolveCUDAHome(hint string) string {
	for _, candidate := range []string{td.cudaHome, hint, td.getenv("CUDA_HOME"), td.getenv("CUDA_PATH")} {
		if candidate = strings.TrimSpace(candidate); candidate != "" {
			return filepath.Clean(candidate)
		}
	}
	if nvcc, err := td.lookPath("nvcc"); err == nil {
		return filepath.Dir(filepath.Dir(nvcc))
	}
	return DefaultCUDAHome
}

// DetectInstalled runs "<cuda_home>/bin/nvcc -V" and parses the "release X.Y," token
func (td *ToolkitDetector) DetectInstalled(ctx context.Context, hint string) (ToolkitReport, error) {
	home := td.ResolveCUDAHome(hint)
	report := ToolkitReport{
		CUDAHome: home,
		NVCCPath: filepath.Join(home, "bin", "nvcc"),
	}

	if _, err := td.stat(report.NVCCPath); err != nil {
		return report, fmt.Errorf("%w at %s", ErrNVCCNotFound, report.NVCCPath)
	}

	out, err := td.runner.Output(ctx, report.NVCCPath, "-V")
	if err != nil {
		return report, fmt.Errorf("failed to query nvcc version: %w", err)
	}

	release, err := parseNVCCRelease(string(out))
	if err != nil {
		return report, err
	}
	report.Release = release

	major, minor, err := version.ParseMajorMinor(release)
	if err != nil {
		return report, fmt.Errorf("failed to parse nvcc release: %w", err)
	}
	report.Major = major
	report.Minor = minor

	td.logger.Debug("gpu.toolkit.detected", "CUDA toolkit detected", map[string]interface{}{
		"cuda_home": home,
		"release":   release,
	})

	return report, nil
}

// parseNVCCRelease extracts "11.3" from "... Cuda compilation tools, release 11.3, V11.3.109"
func parseNVCCRelease(output string) (string, error) {
	fields := strings.Fields(output)
	for i, f := range fields {
		if f == "release" && i+1 < len(fields) {
			return strings.TrimSuffix(fields[i+1], ","), nil
		}
	}
	return "", fmt.Errorf("no release token in nvcc output")
}
