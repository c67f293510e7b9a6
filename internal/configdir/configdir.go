package configdir

import (
	"os"
	"path/filepath"
)

const defaultConfigDir = "/etc/opbuilder"

// ConfigDir resolves the configuration directory respecting overrides
func ConfigDir() string {
	if env := os.Getenv("OPBUILDER_CONFIG_DIR"); env != "" {
		if abs, err := filepath.Abs(env); err == nil {
			return abs
		}
	}
	return defaultConfigDir
}

// OpsDir is the default location of op definition files
func OpsDir() string {
	return filepath.Join(ConfigDir(), "ops.d")
}
