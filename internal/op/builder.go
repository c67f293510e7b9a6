package op

import (
	"context"
	"errors"
	"fmt"

	"opbuilder/internal/hostenv"
	"opbuilder/internal/logging"
	"opbuilder/internal/version"
)

// ampereMajor is the first compute capability major of the Ampere generation
const ampereMajor = 8

// Warning is a diagnostic raised while checking compatibility
type Warning struct {
	Type    string `json:"type" yaml:"type"`
	Message string `json:"message" yaml:"message"`
}

// Result is the outcome of a compatibility check. GateCompatible is the verdict of
// the vendor/toolkit gate alone; BaseCompatible is false when the base check never ran.
type Result struct {
	Op             string    `json:"op" yaml:"op"`
	Compatible     bool      `json:"compatible" yaml:"compatible"`
	GateCompatible bool      `json:"gate_compatible" yaml:"gate_compatible"`
	BaseCompatible bool      `json:"base_compatible" yaml:"base_compatible"`
	Warnings       []Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Builder checks and describes one op
type Builder struct {
	desc   Descriptor
	base   BaseCheck
	logger *logging.Logger
}

// NewBuilder creates a builder. A nil base check always passes.
func NewBuilder(desc Descriptor, base BaseCheck, logger *logging.Logger) *Builder {
	if base == nil {
		base = BaseCheckFunc(func(context.Context) (bool, string) { return true, "" })
	}
	return &Builder{desc: desc.Clone(), base: base, logger: logger}
}

// Descriptor returns a copy of the op descriptor
func (b *Builder) Descriptor() Descriptor {
	return b.desc.Clone()
}

// IsCompatible reports whether the op may be precompiled on env
func (b *Builder) IsCompatible(ctx context.Context, env hostenv.Environment) (bool, error) {
	result, err := b.Check(ctx, env)
	return result.Compatible, err
}

// Check runs the compatibility gate followed by the base check.
// A missing numerics runtime or a toolkit that is too old yields Compatible=false
// with a warning; errors are returned only when a host query fails.
func (b *Builder) Check(ctx context.Context, env hostenv.Environment) (Result, error) {
	result := Result{Op: b.desc.Name, GateCompatible: true}

	numerics, err := env.Numerics(ctx)
	if err != nil {
		if !errors.Is(err, hostenv.ErrNumericsUnavailable) {
			return result, fmt.Errorf("failed to locate numerics runtime: %w", err)
		}
		b.warn(&result, "op.compat.numerics.missing",
			"Please install torch if trying to pre-compile inference kernels",
			map[string]interface{}{"error": err.Error()})
		result.GateCompatible = false
		return result, nil
	}

	vendor, err := env.GPUVendor(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to determine GPU vendor: %w", err)
	}
	present, err := env.GPUPresent(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to determine GPU availability: %w", err)
	}

	if vendor != hostenv.VendorAMD && present {
		ok, err := b.toolkitGate(ctx, env, numerics, &result)
		if err != nil {
			return result, err
		}
		result.GateCompatible = ok
	}

	baseOK, reason := b.base.Compatible(ctx)
	result.BaseCompatible = baseOK
	if !baseOK {
		b.warn(&result, "op.compat.base.failed", reason, nil)
	}

	result.Compatible = result.GateCompatible && result.BaseCompatible
	b.logger.Debug("op.compat.result", "Compatibility check finished", map[string]interface{}{
		"op":         b.desc.Name,
		"compatible": result.Compatible,
	})
	return result, nil
}

func (b *Builder) toolkitGate(ctx context.Context, env hostenv.Environment, numerics hostenv.Numerics, result *Result) (bool, error) {
	installed, err := env.InstalledToolkitMajor(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to determine installed CUDA toolkit: %w", err)
	}

	bound, err := version.ParseMajor(numerics.BoundToolkit)
	if err != nil {
		if !errors.Is(err, version.ErrMalformedVersion) {
			return false, err
		}
		b.warn(result, "op.compat.version.malformed",
			fmt.Sprintf("Cannot parse the CUDA version %s was built with", numerics.Name),
			map[string]interface{}{"bound_toolkit": numerics.BoundToolkit})
		return false, nil
	}

	capability, err := env.DeviceComputeCapabilityMajor(ctx, 0)
	if err != nil {
		return false, fmt.Errorf("failed to query device 0 compute capability: %w", err)
	}

	minMajor := b.desc.AmpereMinCUDAMajor
	if capability >= ampereMajor && (bound < minMajor || installed < minMajor) {
		b.warn(result, "op.compat.ampere",
			fmt.Sprintf("On Ampere and higher architectures please use CUDA %d+", minMajor),
			map[string]interface{}{
				"compute_capability_major": capability,
				"bound_toolkit_major":      bound,
				"installed_toolkit_major":  installed,
			})
		return false, nil
	}
	return true, nil
}

func (b *Builder) warn(result *Result, eventType, message string, payload map[string]interface{}) {
	if payload == nil {
		payload = map[string]interface{}{}
	}
	payload["op"] = b.desc.Name
	b.logger.Warn(eventType, message, payload)
	result.Warnings = append(result.Warnings, Warning{Type: eventType, Message: message})
}
