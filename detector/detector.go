package detector

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/openfluke/maxbench/compute"
	"github.com/openfluke/maxbench/logging"
)

/* ---------- public API ---------- */

// Report is a portable summary of one compute device.
type Report struct {
	WhenISO     string            `json:"when_iso"`
	Runtime     string            `json:"runtime"` // "native" or "wasm" (best-effort)
	Backend     string            `json:"backend"`
	DeviceType  string            `json:"device_type"`
	Name        string            `json:"name"`
	Vendor      string            `json:"vendor"`
	Recommended Recommendations   `json:"recommended"`
	Limits      Limits            `json:"limits"`
	Extensions  []string          `json:"extensions"`
	Env         map[string]string `json:"env,omitempty"`
}

type Limits struct {
	MaxComputeUnits  uint32 `json:"max_compute_units"`
	MaxWorkItemSizes []int  `json:"max_work_item_sizes"`
	MaxWorkGroupSize int    `json:"max_work_group_size"`
	GlobalMemSize    uint64 `json:"global_mem_size"`
	LocalMemSize     uint64 `json:"local_mem_size"`
}

type Recommendations struct {
	// Conservative 1D work-group that should run everywhere.
	WorkgroupX int `json:"workgroup_x"`
	// Local scratch the maxInt kernel needs at that width.
	ScratchBytes int `json:"scratch_bytes"`
}

// FromDevice builds a report from a device capability snapshot.
func FromDevice(backend string, info compute.DeviceInfo) *Report {
	wgX := chooseWorkgroup(info)
	return &Report{
		WhenISO:    time.Now().UTC().Format(time.RFC3339),
		Runtime:    detectRuntime(),
		Backend:    backend,
		DeviceType: info.Type.String(),
		Name:       strings.TrimSpace(info.Name),
		Vendor:     strings.TrimSpace(info.Vendor),
		Limits: Limits{
			MaxComputeUnits:  info.MaxComputeUnits,
			MaxWorkItemSizes: info.MaxWorkItemSizes,
			MaxWorkGroupSize: info.MaxWorkGroupSize,
			GlobalMemSize:    info.GlobalMemSize,
			LocalMemSize:     info.LocalMemSize,
		},
		Extensions: info.Extensions,
		Recommended: Recommendations{
			WorkgroupX:   wgX,
			ScratchBytes: 4 * wgX,
		},
		Env: pickEnv([]string{"MAXBENCH_BACKEND", "MAXBENCH_KERNEL_PATH"}),
	}
}

// Detect probes every device of the given class on a backend.
func Detect(b compute.Backend, class compute.DeviceType) ([]*Report, error) {
	ctx, err := b.CreateContext(class)
	if err != nil {
		return nil, fmt.Errorf("create context: %w", err)
	}
	defer ctx.Release()

	devs := ctx.Devices()
	if len(devs) == 0 {
		return nil, fmt.Errorf("no %s device", class)
	}
	reps := make([]*Report, 0, len(devs))
	for _, d := range devs {
		reps = append(reps, FromDevice(b.Name(), d.Info()))
	}
	return reps, nil
}

// DetectJSON runs a probe and returns the JSON string.
func DetectJSON(b compute.Backend, class compute.DeviceType) (string, error) {
	reps, err := Detect(b, class)
	if err != nil {
		return "", err
	}
	out, err := json.MarshalIndent(reps, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Log writes the capability lines shown before a device is used.
func (r *Report) Log(log *logging.Logger, method string) {
	firstItemSize := 0
	if len(r.Limits.MaxWorkItemSizes) > 0 {
		firstItemSize = r.Limits.MaxWorkItemSizes[0]
	}
	log.Infof(method, "device: %s (%s, %s)", r.Name, r.DeviceType, r.Backend)
	log.Infof(method, "max compute units: %d", r.Limits.MaxComputeUnits)
	log.Infof(method, "max work item sizes: %d", firstItemSize)
	log.Infof(method, "max work group sizes: %d", r.Limits.MaxWorkGroupSize)
	log.Infof(method, "max global mem size (KB): %d", r.Limits.GlobalMemSize/1024)
	log.Infof(method, "max local mem size (KB): %d", r.Limits.LocalMemSize/1024)
	if len(r.Extensions) > 0 {
		log.Debugf(method, "extensions: %s", strings.Join(r.Extensions, " "))
	}
}

/* ---------- helpers ---------- */

func chooseWorkgroup(info compute.DeviceInfo) int {
	maxX := info.MaxWorkGroupSize
	if len(info.MaxWorkItemSizes) > 0 && info.MaxWorkItemSizes[0] < maxX {
		maxX = info.MaxWorkItemSizes[0]
	}

	candidates := []int{256, 128, 64, 32, 16, 8, 4, 1}
	for _, c := range candidates {
		if c <= maxX && uint64(4*c) <= info.LocalMemSize {
			return c
		}
	}
	// absolute portability fallback
	return 1
}

func detectRuntime() string {
	if runtime.GOOS == "js" {
		return "wasm"
	}
	return "native"
}

func pickEnv(keys []string) map[string]string {
	out := map[string]string{}
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			out[k] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
