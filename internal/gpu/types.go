package gpu

// DeviceInfo describes a single accelerator as seen by NVML
type DeviceInfo struct {
	Index        int    `json:"index" yaml:"index"`
	Name         string `json:"name" yaml:"name"`
	UUID         string `json:"uuid,omitempty" yaml:"uuid,omitempty"`
	MemoryMB     uint64 `json:"memory_mb" yaml:"memory_mb"`
	ComputeMajor int    `json:"compute_major" yaml:"compute_major"`
	ComputeMinor int    `json:"compute_minor" yaml:"compute_minor"`
}

// DeviceReport is the result of an NVML device scan
type DeviceReport struct {
	DriverVersion string       `json:"driver_version,omitempty" yaml:"driver_version,omitempty"`
	CUDAVersion   int          `json:"cuda_version,omitempty" yaml:"cuda_version,omitempty"`
	NVMLOk        bool         `json:"nvml_ok" yaml:"nvml_ok"`
	Devices       []DeviceInfo `json:"devices" yaml:"devices"`
	ErrorMessage  string       `json:"error_message,omitempty" yaml:"error_message,omitempty"`
}

// RuntimeReport describes the numerics runtime (torch) visible to the configured interpreter
type RuntimeReport struct {
	Available     bool   `json:"available" yaml:"available"`
	Version       string `json:"version,omitempty" yaml:"version,omitempty"`
	CUDA          string `json:"cuda,omitempty" yaml:"cuda,omitempty"`
	HIP           string `json:"hip,omitempty" yaml:"hip,omitempty"`
	CUDAAvailable bool   `json:"cuda_available" yaml:"cuda_available"`
	DeviceCount   int    `json:"device_count" yaml:"device_count"`
	Capability    []int  `json:"capability,omitempty" yaml:"capability,omitempty"`
	DeviceName    string `json:"device_name,omitempty" yaml:"device_name,omitempty"`
	CUDAHome      string `json:"cuda_home,omitempty" yaml:"cuda_home,omitempty"`
	PackageRoot   string `json:"package_root,omitempty" yaml:"package_root,omitempty"`
	ErrorMessage  string `json:"error,omitempty" yaml:"error,omitempty"`
}

// IsROCm reports whether the runtime is a ROCm/HIP build
func (r RuntimeReport) IsROCm() bool {
	return r.HIP != ""
}

// ToolkitReport describes the CUDA toolkit found on the host
type ToolkitReport struct {
	CUDAHome string `json:"cuda_home" yaml:"cuda_home"`
	NVCCPath string `json:"nvcc_path" yaml:"nvcc_path"`
	Release  string `json:"release" yaml:"release"`
	Major    int    `json:"major" yaml:"major"`
	Minor    int    `json:"minor" yaml:"minor"`
}
