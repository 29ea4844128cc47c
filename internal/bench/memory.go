package bench

import (
	"fmt"
	"math"
	"runtime"
)

// MemoryStats holds memory usage statistics.
type MemoryStats struct {
	AllocBytes      uint64  `json:"alloc_bytes" yaml:"alloc_bytes"`             // Currently allocated bytes
	TotalAllocBytes uint64  `json:"total_alloc_bytes" yaml:"total_alloc_bytes"` // Total allocated bytes (cumulative)
	SysBytes        uint64  `json:"sys_bytes" yaml:"sys_bytes"`                 // Total bytes from system
	Mallocs         uint64  `json:"mallocs" yaml:"mallocs"`
	NumGC           uint32  `json:"num_gc" yaml:"num_gc"`
	GCCPUFraction   float64 `json:"gc_cpu_fraction" yaml:"gc_cpu_fraction"`
}

// GetMemoryStats returns current memory statistics.
func GetMemoryStats() MemoryStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return MemoryStats{
		AllocBytes:      m.Alloc,
		TotalAllocBytes: m.TotalAlloc,
		SysBytes:        m.Sys,
		Mallocs:         m.Mallocs,
		NumGC:           m.NumGC,
		GCCPUFraction:   m.GCCPUFraction,
	}
}

// AllocDelta returns the change in live heap bytes since before.
func (m MemoryStats) AllocDelta(before MemoryStats) int64 {
	return signedDiff(m.AllocBytes, before.AllocBytes)
}

// TotalAllocDelta returns the bytes allocated since before, including freed ones.
func (m MemoryStats) TotalAllocDelta(before MemoryStats) int64 {
	return signedDiff(m.TotalAllocBytes, before.TotalAllocBytes)
}

// String returns a formatted string representation of memory stats.
func (m MemoryStats) String() string {
	return fmt.Sprintf("Alloc: %d KB, Total: %d KB, Sys: %d KB, GC: %d (%.2f%% CPU)",
		m.AllocBytes/1024,
		m.TotalAllocBytes/1024,
		m.SysBytes/1024,
		m.NumGC,
		m.GCCPUFraction*100)
}

func signedDiff(after, before uint64) int64 {
	if after >= before {
		d := after - before
		if d > math.MaxInt64 {
			return math.MaxInt64
		}
		return int64(d)
	}
	d := before - after
	if d > math.MaxInt64 {
		return math.MinInt64
	}
	return -int64(d)
}
