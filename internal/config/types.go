package config

// Config represents the complete opbuilder configuration
type Config struct {
	PackageRoot         string        `yaml:"package_root"`
	FrameworkPackage    string        `yaml:"framework_package"`
	Python              string        `yaml:"python"`
	CUDAHome            string        `yaml:"cuda_home"`
	Compiler            string        `yaml:"compiler"`
	DeviceSource        string        `yaml:"device_source"`
	OpsDir              string        `yaml:"ops_dir"`
	ProbeTimeoutSeconds int           `yaml:"probe_timeout_seconds"`
	ReportDir           string        `yaml:"report_dir"`
	Logging             LoggingConfig `yaml:"logging"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Path    string
	Message string
}

func (e ValidationError) Error() string {
	return e.Path + ": " + e.Message
}
