package hostenv

import (
	"context"
	"errors"
	"fmt"

	"opbuilder/internal/version"
)

// Snapshot is a captured, read-only view of an Environment.
// Static turns it back into an Environment, which is how tests build fixtures.
type Snapshot struct {
	NumericsAvailable            bool     `json:"numerics_available" yaml:"numerics_available"`
	Numerics                     Numerics `json:"numerics" yaml:"numerics"`
	Vendor                       Vendor   `json:"gpu_vendor" yaml:"gpu_vendor"`
	GPUPresent                   bool     `json:"gpu_present" yaml:"gpu_present"`
	InstalledToolkitMajor        int      `json:"installed_toolkit_major" yaml:"installed_toolkit_major"`
	BoundToolkitMajor            int      `json:"bound_toolkit_major" yaml:"bound_toolkit_major"`
	DeviceComputeCapabilityMajor int      `json:"device_compute_capability_major" yaml:"device_compute_capability_major"`

	// Errors records facts that could not be gathered, keyed by fact name.
	Errors map[string]string `json:"errors,omitempty" yaml:"errors,omitempty"`

	// Injected failures for tests; never serialised.
	NumericsErr         error `json:"-" yaml:"-"`
	InstalledToolkitErr error `json:"-" yaml:"-"`
	CapabilityErr       error `json:"-" yaml:"-"`
}

// Capture queries every fact of env. Failures are recorded in Errors rather than returned.
func Capture(ctx context.Context, env Environment) Snapshot {
	snap := Snapshot{Errors: map[string]string{}}

	numerics, err := env.Numerics(ctx)
	if err != nil {
		snap.Errors["numerics"] = err.Error()
	} else {
		snap.NumericsAvailable = true
		snap.Numerics = numerics
		if numerics.BoundToolkit != "" {
			if major, perr := version.ParseMajor(numerics.BoundToolkit); perr == nil {
				snap.BoundToolkitMajor = major
			} else {
				snap.Errors["bound_toolkit_major"] = perr.Error()
			}
		}
	}

	if vendor, err := env.GPUVendor(ctx); err == nil {
		snap.Vendor = vendor
	} else {
		snap.Errors["gpu_vendor"] = err.Error()
	}

	if present, err := env.GPUPresent(ctx); err == nil {
		snap.GPUPresent = present
	} else {
		snap.Errors["gpu_present"] = err.Error()
	}

	if major, err := env.InstalledToolkitMajor(ctx); err == nil {
		snap.InstalledToolkitMajor = major
	} else {
		snap.Errors["installed_toolkit_major"] = err.Error()
	}

	if snap.GPUPresent {
		if major, err := env.DeviceComputeCapabilityMajor(ctx, 0); err == nil {
			snap.DeviceComputeCapabilityMajor = major
		} else {
			snap.Errors["device_compute_capability_major"] = err.Error()
		}
	}

	if len(snap.Errors) == 0 {
		snap.Errors = nil
	}
	return snap
}

func (s Snapshot) numerics() (Numerics, error) {
	if s.NumericsErr != nil {
		return Numerics{}, s.NumericsErr
	}
	if !s.NumericsAvailable {
		return Numerics{}, ErrNumericsUnavailable
	}
	n := s.Numerics
	if n.BoundToolkit == "" && s.BoundToolkitMajor > 0 {
		n.BoundToolkit = fmt.Sprintf("%d.0", s.BoundToolkitMajor)
	}
	return n, nil
}

// Static adapts a Snapshot to the Environment interface
func (s Snapshot) Static() Environment {
	return staticEnv{snap: s}
}

type staticEnv struct {
	snap Snapshot
}

func (e staticEnv) Numerics(context.Context) (Numerics, error) {
	return e.snap.numerics()
}

func (e staticEnv) GPUVendor(context.Context) (Vendor, error) {
	if e.snap.Vendor == "" {
		return VendorNVIDIA, nil
	}
	return e.snap.Vendor, nil
}

func (e staticEnv) GPUPresent(context.Context) (bool, error) {
	return e.snap.GPUPresent, nil
}

func (e staticEnv) InstalledToolkitMajor(context.Context) (int, error) {
	if e.snap.InstalledToolkitErr != nil {
		return 0, e.snap.InstalledToolkitErr
	}
	return e.snap.InstalledToolkitMajor, nil
}

func (e staticEnv) DeviceComputeCapabilityMajor(_ context.Context, index int) (int, error) {
	if e.snap.CapabilityErr != nil {
		return 0, e.snap.CapabilityErr
	}
	if index != 0 {
		return 0, errors.New("snapshot only records device 0")
	}
	return e.snap.DeviceComputeCapabilityMajor, nil
}
