package utils

import (
	"fmt"
	"math"
	"runtime"
)

// MemUsage is a snapshot of the runtime heap, sizes in MiB
type MemUsage struct {
	AllocMiB, TotalAllocMiB, SysMiB uint64
	NumGC                           uint32
}

func ReadMemUsage() MemUsage {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemUsage{
		AllocMiB:      m.Alloc >> 20,
		TotalAllocMiB: m.TotalAlloc >> 20,
		SysMiB:        m.Sys >> 20,
		NumGC:         m.NumGC,
	}
}

func (mu MemUsage) String() string {
	return fmt.Sprintf("Alloc = %v MiB TotalAlloc = %v MiB Sys = %v MiB NumGC = %v",
		mu.AllocMiB, mu.TotalAllocMiB, mu.SysMiB, mu.NumGC)
}

// IsNan reports NaN or Inf anywhere in A
func IsNan(A any) bool {
	switch v := A.(type) {
	case float64:
		return math.IsNaN(v) || math.IsInf(v, 0)
	case []float64:
		for _, f := range v {
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return true
			}
		}
	case Vector:
		return IsNan(v.DataP())
	case []Vector:
		for _, vec := range v {
			if IsNan(vec.DataP()) {
				return true
			}
		}
	}
	return false
}
