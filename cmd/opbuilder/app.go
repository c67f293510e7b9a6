package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"opbuilder/internal/config"
	"opbuilder/internal/gpu"
	"opbuilder/internal/hostenv"
	"opbuilder/internal/logging"
	"opbuilder/internal/op"
	"opbuilder/internal/opdef"
)

// app bundles what every command needs
type app struct {
	cfg      config.Config
	logger   *logging.Logger
	registry *op.Registry
}

func loadApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	registry := op.NewRegistry()
	if err := opdef.NewLoader(logger).RegisterDir(registry, cfg.OpsDir); err != nil {
		_ = logger.Close()
		return nil, fmt.Errorf("failed to load op definitions: %w", err)
	}

	return &app{cfg: cfg, logger: logger, registry: registry}, nil
}

func loadConfig() (config.Config, error) {
	if configPath != "" {
		return config.LoadFrom(configPath)
	}
	return config.Load()
}

func newLogger(cfg config.Config) (*logging.Logger, error) {
	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	format := cfg.Logging.Format
	if logFormat != "" {
		format = logFormat
	}

	if cfg.Logging.File != "" {
		logger, err := logging.NewFileLogger(logging.ParseLevel(level), cfg.Logging.File)
		if err != nil {
			return nil, err
		}
		logger.SetFormat(logging.Format(format))
		return logger, nil
	}
	return logging.NewWriterLogger(logging.ParseLevel(level), logging.Format(format), os.Stderr), nil
}

func (a *app) close() {
	_ = a.logger.Close()
}

func (a *app) newHost() *hostenv.Host {
	return hostenv.NewHost(a.logger, hostenv.Options{
		Runtime:      gpu.NewRuntimeProbe(a.logger, a.cfg.Python, a.cfg.FrameworkPackage),
		Devices:      gpu.NewDetector(a.logger),
		Toolkit:      gpu.NewToolkitDetector(a.logger, a.cfg.CUDAHome),
		DeviceSource: hostenv.DeviceSource(a.cfg.DeviceSource),
		ProbeTimeout: a.cfg.ProbeTimeout(),
	})
}

func (a *app) newBuilder(desc op.Descriptor) *op.Builder {
	return op.NewBuilder(desc, op.NewToolchainCheck(a.cfg.Compiler, a.cfg.ProbeTimeout()), a.logger)
}

func (a *app) descriptor(args []string) (op.Descriptor, error) {
	name := op.InferenceName
	if len(args) > 0 {
		name = args[0]
	}
	return a.registry.Get(name)
}

// resolvePackageRoot prefers the flag, then config, then asks the interpreter.
// host may be nil to skip the probe.
func (a *app) resolvePackageRoot(ctx context.Context, host *hostenv.Host) string {
	if root := strings.TrimSpace(packageRoot); root != "" {
		return root
	}
	if a.cfg.PackageRoot != "" {
		return a.cfg.PackageRoot
	}
	if host == nil {
		return ""
	}

	root, err := host.PackageRoot(ctx)
	if err != nil {
		a.logger.Warn("op.package_root.unresolved", "Could not locate the framework package", map[string]interface{}{
			"package": a.cfg.FrameworkPackage,
			"error":   err.Error(),
		})
		return ""
	}
	return root
}

func resolveArchList() string {
	if v := strings.TrimSpace(archList); v != "" {
		return v
	}
	return os.Getenv(op.ArchListVar)
}
