package gpu

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"

	"github.com/goccy/go-json"

	"opbuilder/internal/logging"
)

// probeScript prints one JSON object describing torch and the framework package.
// argv[1] is the framework package name; an empty name skips the lookup.
const probeScript = `
import json, os, sys
info = {"available": False}
try:
    import torch
except ImportError as e:
    info["error"] = str(e)
    print(json.dumps(info))
    sys.exit(0)
info["available"] = True
info["version"] = str(torch.__version__)
info["cuda"] = torch.version.cuda or ""
info["hip"] = getattr(torch.version, "hip", None) or ""
info["cuda_available"] = bool(torch.cuda.is_available())
info["device_count"] = 0
if info["cuda_available"]:
    info["device_count"] = torch.cuda.device_count()
    props = torch.cuda.get_device_properties(0)
    info["capability"] = [props.major, props.minor]
    info["device_name"] = props.name
try:
    from torch.utils import cpp_extension
    info["cuda_home"] = cpp_extension.CUDA_HOME or ""
except Exception:
    pass
if len(sys.argv) > 1 and sys.argv[1]:
    try:
        mod = __import__(sys.argv[1])
        info["package_root"] = os.path.dirname(mod.__file__)
    except Exception:
        pass
print(json.dumps(info))
`

// ErrInterpreterNotFound means the configured Python interpreter does not exist
var ErrInterpreterNotFound = errors.New("python interpreter not found")

// RuntimeProbe asks a Python interpreter about the installed numerics runtime
type RuntimeProbe struct {
	logger  *logging.Logger
	runner  CommandRunner
	python  string
	pkgName string
}

// NewRuntimeProbe creates a probe running the given interpreter. pkgName is the
// framework package whose install directory should be reported (may be empty).
func NewRuntimeProbe(logger *logging.Logger, python, pkgName string) *RuntimeProbe {
	return NewRuntimeProbeWithRunner(logger, python, pkgName, ExecRunner{})
}

// NewRuntimeProbeWithRunner creates a probe with injected command execution (for testing)
func NewRuntimeProbeWithRunner(logger *logging.Logger, python, pkgName string, runner CommandRunner) *RuntimeProbe {
	return &RuntimeProbe{
		logger:  logger,
		runner:  runner,
		python:  python,
		pkgName: pkgName,
	}
}

// Probe runs the interpreter. An error means the probe itself could not run
// (ErrInterpreterNotFound when the interpreter is absent); a missing torch is
// reported through RuntimeReport.Available.
func (p *RuntimeProbe) Probe(ctx context.Context) (RuntimeReport, error) {
	p.logger.Debug("gpu.runtime.probe.start", "Probing numerics runtime", map[string]interface{}{
		"python": p.python,
	})

	out, err := p.runner.Output(ctx, p.python, "-c", probeScript, p.pkgName)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return RuntimeReport{ErrorMessage: err.Error()}, fmt.Errorf("%w: %s: %v", ErrInterpreterNotFound, p.python, err)
		}
		return RuntimeReport{ErrorMessage: err.Error()}, fmt.Errorf("runtime probe failed: %w", err)
	}

	report, err := parseProbeOutput(out)
	if err != nil {
		return RuntimeReport{ErrorMessage: err.Error()}, err
	}

	p.logger.Debug("gpu.runtime.probe.done", "Numerics runtime probed", map[string]interface{}{
		"available": report.Available,
		"version":   report.Version,
		"cuda":      report.CUDA,
		"hip":       report.HIP,
	})

	return report, nil
}

// parseProbeOutput decodes the last non-empty line; imports may print noise first
func parseProbeOutput(out []byte) (RuntimeReport, error) {
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	last := strings.TrimSpace(lines[len(lines)-1])

	var report RuntimeReport
	if err := json.Unmarshal([]byte(last), &report); err != nil {
		return RuntimeReport{}, fmt.Errorf("failed to decode runtime probe output: %w", err)
	}
	return report, nil
}
