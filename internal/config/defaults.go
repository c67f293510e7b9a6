package config

import (
	"opbuilder/internal/configdir"
	"opbuilder/internal/fsutil"
)

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		FrameworkPackage:    "deepspeed",
		Python:              "python3",
		Compiler:            "c++",
		DeviceSource:        "auto",
		OpsDir:              configdir.OpsDir(),
		ProbeTimeoutSeconds: 20,
		ReportDir:           fsutil.DefaultReportDir,
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}
