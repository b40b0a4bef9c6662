package host

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/cpu"

	"github.com/openfluke/maxbench/compute"
)

const (
	cpuMaxWorkGroupSize = 1024
	gpuMaxWorkGroupSize = 256
)

type device struct {
	info    compute.DeviceInfo
	workers int
}

func (d *device) Info() compute.DeviceInfo {
	info := d.info
	info.MaxWorkItemSizes = append([]int(nil), d.info.MaxWorkItemSizes...)
	info.Extensions = append([]string(nil), d.info.Extensions...)
	return info
}

// CPUDeviceInfo describes the host processor as a CPU-class device.
func CPUDeviceInfo() compute.DeviceInfo {
	return compute.DeviceInfo{
		Name:             fmt.Sprintf("host-cpu (%s/%s)", runtime.GOOS, runtime.GOARCH),
		Vendor:           "maxbench",
		Type:             compute.DeviceTypeCPU,
		MaxComputeUnits:  uint32(runtime.NumCPU()),
		MaxWorkItemSizes: []int{cpuMaxWorkGroupSize, cpuMaxWorkGroupSize, cpuMaxWorkGroupSize},
		MaxWorkGroupSize: cpuMaxWorkGroupSize,
		GlobalMemSize:    systemMemory(),
		LocalMemSize:     32 * 1024,
		Extensions:       append([]string{"cl_khr_global_int32_base_atomics"}, cpuExtensions()...),
	}
}

// GPUDeviceInfo describes a GPU-class device simulated on host threads. Its
// limits follow a typical discrete GPU so that sizing differs from the CPU
// device.
func GPUDeviceInfo() compute.DeviceInfo {
	return compute.DeviceInfo{
		Name:             "host-gpu-sim",
		Vendor:           "maxbench",
		Type:             compute.DeviceTypeGPU,
		MaxComputeUnits:  uint32(runtime.NumCPU()),
		MaxWorkItemSizes: []int{gpuMaxWorkGroupSize, gpuMaxWorkGroupSize, 64},
		MaxWorkGroupSize: gpuMaxWorkGroupSize,
		GlobalMemSize:    systemMemory(),
		LocalMemSize:     64 * 1024,
		Extensions:       []string{"cl_khr_global_int32_base_atomics", "cl_khr_local_int32_base_atomics"},
	}
}

func cpuExtensions() []string {
	var ext []string
	add := func(ok bool, name string) {
		if ok {
			ext = append(ext, name)
		}
	}
	switch runtime.GOARCH {
	case "amd64", "386":
		add(cpu.X86.HasSSE41, "sse4.1")
		add(cpu.X86.HasAVX, "avx")
		add(cpu.X86.HasAVX2, "avx2")
		add(cpu.X86.HasFMA, "fma")
		add(cpu.X86.HasAVX512F, "avx512f")
	case "arm64":
		add(cpu.ARM64.HasASIMD, "asimd")
		add(cpu.ARM64.HasATOMICS, "lse")
		add(cpu.ARM64.HasSVE, "sve")
	}
	return ext
}
