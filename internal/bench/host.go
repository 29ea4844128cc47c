package bench

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Host describes the machine a measurement ran on. Fields gopsutil cannot
// determine are left zero.
type Host struct {
	OS            string `json:"os" yaml:"os"`
	Arch          string `json:"arch" yaml:"arch"`
	GoVersion     string `json:"go_version" yaml:"go_version"`
	CPUModel      string `json:"cpu_model,omitempty" yaml:"cpu_model,omitempty"`
	PhysicalCores int    `json:"physical_cores,omitempty" yaml:"physical_cores,omitempty"`
	LogicalCores  int    `json:"logical_cores" yaml:"logical_cores"`
	TotalMemory   uint64 `json:"total_memory_bytes,omitempty" yaml:"total_memory_bytes,omitempty"`
}

// DescribeHost collects a best-effort description of the current machine.
func DescribeHost(ctx context.Context) Host {
	h := Host{
		OS:           runtime.GOOS,
		Arch:         runtime.GOARCH,
		GoVersion:    runtime.Version(),
		LogicalCores: runtime.NumCPU(),
	}

	if infos, err := cpu.InfoWithContext(ctx); err == nil && len(infos) > 0 {
		h.CPUModel = strings.TrimSpace(infos[0].ModelName)
	}
	if n, err := cpu.CountsWithContext(ctx, false); err == nil && n > 0 {
		h.PhysicalCores = n
	}
	if n, err := cpu.CountsWithContext(ctx, true); err == nil && n > 0 {
		h.LogicalCores = n
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		h.TotalMemory = vm.Total
	}
	return h
}

// String returns a one-line description of the host.
func (h Host) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s/%s, %s", h.OS, h.Arch, h.GoVersion)
	if h.CPUModel != "" {
		fmt.Fprintf(&b, ", %s", h.CPUModel)
	}
	if h.PhysicalCores > 0 {
		fmt.Fprintf(&b, ", %d cores / %d threads", h.PhysicalCores, h.LogicalCores)
	} else {
		fmt.Fprintf(&b, ", %d threads", h.LogicalCores)
	}
	if h.TotalMemory > 0 {
		fmt.Fprintf(&b, ", %.1f GB RAM", float64(h.TotalMemory)/(1<<30))
	}
	return b.String()
}
