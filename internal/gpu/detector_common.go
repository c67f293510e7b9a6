package gpu

import "fmt"

// Capability formats the compute capability as "major.minor"
func (d DeviceInfo) Capability() string {
	return fmt.Sprintf("%d.%d", d.ComputeMajor, d.ComputeMinor)
}

// Device returns the device at index, if the scan found it
func (r DeviceReport) Device(index int) (DeviceInfo, bool) {
	for _, d := range r.Devices {
		if d.Index == index {
			return d, true
		}
	}
	return DeviceInfo{}, false
}
