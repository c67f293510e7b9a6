package config

import (
	"fmt"
	"path/filepath"
	"regexp"
)

var packageNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

// Validate checks if the configuration is valid
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateRuntime()...)
	errors = append(errors, c.validatePaths()...)
	errors = append(errors, c.validateDeviceSource()...)
	errors = append(errors, c.validateProbeTimeout()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

func (c *Config) validateRuntime() []ValidationError {
	var errors []ValidationError

	if c.Python == "" {
		errors = append(errors, ValidationError{Path: "python", Message: "must not be empty"})
	}
	if c.Compiler == "" {
		errors = append(errors, ValidationError{Path: "compiler", Message: "must not be empty"})
	}
	if c.FrameworkPackage != "" && !packageNamePattern.MatchString(c.FrameworkPackage) {
		errors = append(errors, ValidationError{
			Path:    "framework_package",
			Message: fmt.Sprintf("must be a Python module name, got '%s'", c.FrameworkPackage),
		})
	}

	return errors
}

func (c *Config) validatePaths() []ValidationError {
	var errors []ValidationError

	paths := []struct {
		path  string
		value string
	}{
		{"cuda_home", c.CUDAHome},
		{"package_root", c.PackageRoot},
	}
	for _, p := range paths {
		if p.value != "" && !filepath.IsAbs(p.value) {
			errors = append(errors, ValidationError{
				Path:    p.path,
				Message: fmt.Sprintf("must be an absolute path, got '%s'", p.value),
			})
		}
	}

	return errors
}

func (c *Config) validateDeviceSource() []ValidationError {
	validSources := []string{"auto", "nvml", "runtime"}
	if contains(validSources, c.DeviceSource) {
		return nil
	}

	return []ValidationError{{
		Path:    "device_source",
		Message: fmt.Sprintf("must be one of %v, got '%s'", validSources, c.DeviceSource),
	}}
}

func (c *Config) validateProbeTimeout() []ValidationError {
	if c.ProbeTimeoutSeconds >= 1 && c.ProbeTimeoutSeconds <= 600 {
		return nil
	}

	return []ValidationError{{
		Path:    "probe_timeout_seconds",
		Message: fmt.Sprintf("must be between 1 and 600, got %d", c.ProbeTimeoutSeconds),
	}}
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError
	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, c.Logging.Level) {
		errors = append(errors, ValidationError{
			Path:    "logging.level",
			Message: fmt.Sprintf("must be one of %v, got '%s'", validLevels, c.Logging.Level),
		})
	}

	validFormats := []string{"json", "text"}
	if !contains(validFormats, c.Logging.Format) {
		errors = append(errors, ValidationError{
			Path:    "logging.format",
			Message: fmt.Sprintf("must be one of %v, got '%s'", validFormats, c.Logging.Format),
		})
	}

	return errors
}

// contains checks if a string is in a slice
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
