package hostenv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"opbuilder/internal/gpu"
	"opbuilder/internal/logging"
)

// DeviceSource selects where device facts come from
type DeviceSource string

const (
	// SourceAuto uses NVML when compiled in and working, the runtime probe otherwise.
	SourceAuto DeviceSource = "auto"
	// SourceNVML always uses NVML.
	SourceNVML DeviceSource = "nvml"
	// SourceRuntime always uses the numerics runtime probe.
	SourceRuntime DeviceSource = "runtime"
)

// RuntimeProber reports on the numerics runtime
type RuntimeProber interface {
	Probe(ctx context.Context) (gpu.RuntimeReport, error)
}

// DeviceScanner enumerates GPUs
type DeviceScanner interface {
	DetectDevices() gpu.DeviceReport
}

// ToolkitLocator finds the installed CUDA toolkit
type ToolkitLocator interface {
	DetectInstalled(ctx context.Context, hint string) (gpu.ToolkitReport, error)
}

// Options configures a Host
type Options struct {
	Runtime      RuntimeProber
	Devices      DeviceScanner
	Toolkit      ToolkitLocator
	DeviceSource DeviceSource

	// ProbeTimeout bounds each subprocess probe; zero means no extra bound.
	ProbeTimeout time.Duration
}

// Host is the live Environment. Each probe runs at most once per Host,
// so a Host should be created per invocation.
type Host struct {
	logger *logging.Logger
	opts   Options

	runtimeDone   bool
	runtimeReport gpu.RuntimeReport
	runtimeErr    error

	devicesDone  bool
	deviceReport gpu.DeviceReport

	toolkitDone   bool
	toolkitReport gpu.ToolkitReport
	toolkitErr    error
}

// NewHost creates a Host from probes
func NewHost(logger *logging.Logger, opts Options) *Host {
	if opts.DeviceSource == "" {
		opts.DeviceSource = SourceAuto
	}
	return &Host{logger: logger, opts: opts}
}

// Runtime returns the (cached) runtime probe result
func (h *Host) Runtime(ctx context.Context) (gpu.RuntimeReport, error) {
	if !h.runtimeDone {
		pctx, cancel := h.probeContext(ctx)
		defer cancel()
		h.runtimeReport, h.runtimeErr = h.opts.Runtime.Probe(pctx)
		h.runtimeDone = true
	}
	return h.runtimeReport, h.runtimeErr
}

// Devices returns the (cached) NVML scan, or an empty report when no scanner is configured
func (h *Host) Devices() gpu.DeviceReport {
	if !h.devicesDone {
		if h.opts.Devices != nil {
			h.deviceReport = h.opts.Devices.DetectDevices()
		} else {
			h.deviceReport = gpu.DeviceReport{Devices: []gpu.DeviceInfo{}, ErrorMessage: "no device scanner configured"}
		}
		h.devicesDone = true
	}
	return h.deviceReport
}

// Toolkit returns the (cached) installed toolkit report
func (h *Host) Toolkit(ctx context.Context) (gpu.ToolkitReport, error) {
	if !h.toolkitDone {
		hint := ""
		if rt, err := h.Runtime(ctx); err == nil {
			hint = rt.CUDAHome
		}
		pctx, cancel := h.probeContext(ctx)
		defer cancel()
		h.toolkitReport, h.toolkitErr = h.opts.Toolkit.DetectInstalled(pctx, hint)
		h.toolkitDone = true
	}
	return h.toolkitReport, h.toolkitErr
}

// PackageRoot returns the framework package directory reported by the runtime probe
func (h *Host) PackageRoot(ctx context.Context) (string, error) {
	rt, err := h.Runtime(ctx)
	if err != nil {
		return "", err
	}
	if rt.PackageRoot == "" {
		return "", errors.New("framework package not importable by the configured interpreter")
	}
	return rt.PackageRoot, nil
}

// Numerics implements Environment
func (h *Host) Numerics(ctx context.Context) (Numerics, error) {
	rt, err := h.Runtime(ctx)
	if err != nil {
		if errors.Is(err, gpu.ErrInterpreterNotFound) {
			return Numerics{}, fmt.Errorf("%w: %v", ErrNumericsUnavailable, err)
		}
		return Numerics{}, fmt.Errorf("failed to probe numerics runtime: %w", err)
	}
	if !rt.Available {
		return Numerics{}, fmt.Errorf("%w: %s", ErrNumericsUnavailable, rt.ErrorMessage)
	}
	return Numerics{
		Name:         "torch",
		Version:      rt.Version,
		BoundToolkit: rt.CUDA,
	}, nil
}

// GPUVendor implements Environment
func (h *Host) GPUVendor(ctx context.Context) (Vendor, error) {
	rt, err := h.Runtime(ctx)
	if err != nil {
		return "", err
	}
	if rt.IsROCm() {
		return VendorAMD, nil
	}
	return VendorNVIDIA, nil
}

// GPUPresent implements Environment. A device counts only when the numerics
// runtime can use it; NVML alone cannot tell a CPU-only build apart.
func (h *Host) GPUPresent(ctx context.Context) (bool, error) {
	rt, err := h.Runtime(ctx)
	if err != nil {
		return false, err
	}
	if !rt.CUDAAvailable {
		return false, nil
	}

	useNVML, err := h.useNVML(ctx)
	if err != nil {
		return false, err
	}
	if useNVML {
		return len(h.Devices().Devices) > 0, nil
	}
	return rt.DeviceCount > 0, nil
}

// InstalledToolkitMajor implements Environment
func (h *Host) InstalledToolkitMajor(ctx context.Context) (int, error) {
	report, err := h.Toolkit(ctx)
	if err != nil {
		return 0, err
	}
	return report.Major, nil
}

// DeviceComputeCapabilityMajor implements Environment
func (h *Host) DeviceComputeCapabilityMajor(ctx context.Context, index int) (int, error) {
	major, _, err := h.DeviceCapability(ctx, index)
	return major, err
}

// DeviceCapability returns the major and minor compute capability of device index
// from the active device source
func (h *Host) DeviceCapability(ctx context.Context, index int) (int, int, error) {
	useNVML, err := h.useNVML(ctx)
	if err != nil {
		return 0, 0, err
	}
	if useNVML {
		device, ok := h.Devices().Device(index)
		if !ok {
			return 0, 0, fmt.Errorf("device %d not reported by NVML", index)
		}
		return device.ComputeMajor, device.ComputeMinor, nil
	}

	rt, err := h.Runtime(ctx)
	if err != nil {
		return 0, 0, err
	}
	if index != 0 || len(rt.Capability) < 2 {
		return 0, 0, fmt.Errorf("runtime probe has no capability for device %d", index)
	}
	return rt.Capability[0], rt.Capability[1], nil
}

func (h *Host) useNVML(ctx context.Context) (bool, error) {
	switch h.opts.DeviceSource {
	case SourceRuntime:
		return false, nil
	case SourceNVML:
		report := h.Devices()
		if !report.NVMLOk {
			return false, fmt.Errorf("nvml device source unavailable: %s", report.ErrorMessage)
		}
		return true, nil
	default:
		if !gpu.NVMLCompiled || h.opts.Devices == nil {
			return false, nil
		}
		// NVML cannot see ROCm devices
		if rt, err := h.Runtime(ctx); err == nil && rt.IsROCm() {
			return false, nil
		}
		ok := h.Devices().NVMLOk
		if !ok {
			h.logger.Debug("hostenv.nvml.fallback", "NVML unavailable, using runtime device facts", nil)
		}
		return ok, nil
	}
}

func (h *Host) probeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.opts.ProbeTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.opts.ProbeTimeout)
}
