package gpu

import (
	"strings"

	"github.com/openfluke/webgpu/wgpu"

	"github.com/openfluke/maxbench/compute"
)

// shaderWidth is the @workgroup_size every maxInt pipeline is compiled with.
// Launches may use smaller groups; the surplus invocations idle.
const shaderWidth = 256

type device struct {
	adapter *wgpu.Adapter
	dev     *wgpu.Device
	queue   *wgpu.Queue
	info    compute.DeviceInfo
	limits  wgpu.Limits
}

func (d *device) Info() compute.DeviceInfo {
	info := d.info
	info.MaxWorkItemSizes = append([]int(nil), d.info.MaxWorkItemSizes...)
	info.Extensions = append([]string(nil), d.info.Extensions...)
	return info
}

func (d *device) release() {
	if d.dev != nil {
		d.dev.Release()
		d.dev = nil
	}
	if d.adapter != nil {
		d.adapter.Release()
		d.adapter = nil
	}
}

func deviceInfo(a *wgpu.Adapter, class compute.DeviceType) compute.DeviceInfo {
	info := a.GetInfo()
	l := a.GetLimits().Limits

	group := min(int(l.MaxComputeInvocationsPerWorkgroup), int(l.MaxComputeWorkgroupSizeX), shaderWidth)
	var ext []string
	for _, f := range a.EnumerateFeatures() {
		ext = append(ext, f.String())
	}
	return compute.DeviceInfo{
		Name:   strings.TrimSpace(info.Name),
		Vendor: strings.TrimSpace(info.VendorName),
		Type:   class,
		// WebGPU does not report compute units.
		MaxComputeUnits: 0,
		MaxWorkItemSizes: []int{
			min(int(l.MaxComputeWorkgroupSizeX), shaderWidth),
			int(l.MaxComputeWorkgroupSizeY),
			int(l.MaxComputeWorkgroupSizeZ),
		},
		MaxWorkGroupSize: group,
		GlobalMemSize:    uint64(l.MaxStorageBufferBindingSize),
		LocalMemSize:     uint64(l.MaxComputeWorkgroupStorageSize),
		Extensions:       append([]string{info.BackendType.String()}, ext...),
	}
}
