// Package hostenv gathers the host facts the op compatibility gate depends on.
package hostenv

import (
	"context"
	"errors"
)

// Vendor identifies the accelerator stack the numerics runtime was built for
type Vendor string

const (
	// VendorNVIDIA is the standard CUDA stack.
	VendorNVIDIA Vendor = "nvidia"
	// VendorAMD is the ROCm/HIP stack.
	VendorAMD Vendor = "amd"
)

// ErrNumericsUnavailable means the numerics runtime could not be located or imported
var ErrNumericsUnavailable = errors.New("numerics runtime unavailable")

// Numerics describes the located numerics runtime
type Numerics struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`

	// BoundToolkit is the raw CUDA version string the runtime was built against, e.g. "11.8".
	BoundToolkit string `json:"bound_toolkit,omitempty" yaml:"bound_toolkit,omitempty"`
}

// Environment answers the questions asked by the compatibility gate.
// Implementations may query lazily; callers ask only what they need.
type Environment interface {
	// Numerics returns ErrNumericsUnavailable (possibly wrapped) when the runtime is missing.
	Numerics(ctx context.Context) (Numerics, error)
	GPUVendor(ctx context.Context) (Vendor, error)
	GPUPresent(ctx context.Context) (bool, error)
	InstalledToolkitMajor(ctx context.Context) (int, error)
	DeviceComputeCapabilityMajor(ctx context.Context, index int) (int, error)
}
