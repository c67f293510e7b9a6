//go:build cuda

package gpu

import (
	"fmt"

	"opbuilder/internal/logging"

	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

// NVMLCompiled reports whether this binary was built with NVML support
const NVMLCompiled = true

// Detector scans GPUs through NVML
type Detector struct {
	nvml   NVMLInterface
	logger *logging.Logger
}

// NewDetector creates a new GPU detector
func NewDetector(logger *logging.Logger) *Detector {
	return &Detector{
		nvml:   NewRealNVML(),
		logger: logger,
	}
}

// NewDetectorWithNVML creates a detector with a custom NVML interface (for testing)
func NewDetectorWithNVML(nvmlInterface NVMLInterface, logger *logging.Logger) *Detector {
	return &Detector{
		nvml:   nvmlInterface,
		logger: logger,
	}
}

// DetectDevices performs GPU detection and returns a report
func (d *Detector) DetectDevices() DeviceReport {
	d.logger.Debug("gpu.detect.start", "Starting NVML device scan", nil)

	report := DeviceReport{
		Devices: make([]DeviceInfo, 0),
	}

	ret := d.nvml.Init()
	if ret != nvml.SUCCESS {
		report.ErrorMessage = fmt.Sprintf("Failed to initialize NVML: %v", nvml.ErrorString(ret))
		d.logger.Warn("gpu.nvml.init.failed", "NVML initialization failed", map[string]interface{}{
			"error": report.ErrorMessage,
		})
		return report
	}
	defer d.shutdown()

	report.NVMLOk = true

	if driverVersion, ret := d.nvml.SystemGetDriverVersion(); ret == nvml.SUCCESS {
		report.DriverVersion = driverVersion
	} else {
		d.logger.Warn("gpu.driver.version.failed", "Failed to get driver version", map[string]interface{}{
			"error": nvml.ErrorString(ret),
		})
	}

	if cudaVersion, ret := d.nvml.SystemGetCudaDriverVersion(); ret == nvml.SUCCESS {
		report.CUDAVersion = cudaVersion
	} else {
		d.logger.Warn("gpu.cuda.version.failed", "Failed to get CUDA driver version", map[string]interface{}{
			"error": nvml.ErrorString(ret),
		})
	}

	count, ret := d.nvml.DeviceGetCount()
	if ret != nvml.SUCCESS {
		report.ErrorMessage = fmt.Sprintf("Failed to get device count: %v", nvml.ErrorString(ret))
		d.logger.Error("gpu.device.count.failed", "Failed to get GPU count", map[string]interface{}{
			"error": report.ErrorMessage,
		})
		return report
	}

	for i := 0; i < count; i++ {
		device, ret := d.nvml.DeviceGetHandleByIndex(i)
		if ret != nvml.SUCCESS {
			d.logger.Warn("gpu.device.handle.failed", "Failed to get device handle", map[string]interface{}{
				"index": i,
				"error": nvml.ErrorString(ret),
			})
			continue
		}

		info := DeviceInfo{Index: i}

		if name, ret := device.GetName(); ret == nvml.SUCCESS {
			info.Name = name
		}
		if uuid, ret := device.GetUUID(); ret == nvml.SUCCESS {
			info.UUID = uuid
		}
		if mem, ret := device.GetMemoryInfo(); ret == nvml.SUCCESS {
			info.MemoryMB = mem.Total / (1024 * 1024)
		}
		if major, minor, ret := device.GetCudaComputeCapability(); ret == nvml.SUCCESS {
			info.ComputeMajor = major
			info.ComputeMinor = minor
		} else {
			d.logger.Warn("gpu.device.capability.failed", "Failed to get compute capability", map[string]interface{}{
				"index": i,
				"error": nvml.ErrorString(ret),
			})
		}

		report.Devices = append(report.Devices, info)

		d.logger.Debug("gpu.device.detected", "GPU device detected", map[string]interface{}{
			"index":      i,
			"name":       info.Name,
			"capability": info.Capability(),
		})
	}

	return report
}

func (d *Detector) shutdown() {
	if ret := d.nvml.Shutdown(); ret != nvml.SUCCESS {
		d.logger.Warn("gpu.nvml.shutdown.failed", "NVML shutdown reported an error", map[string]interface{}{
			"error": nvml.ErrorString(ret),
		})
	}
}
