// SPDX-License-Identifier: MIT

package bench

import (
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sys/cpu"
)

// Host describes the machine a sweep ran on.
type Host struct {
	GOOS       string
	GOARCH     string
	GoVersion  string
	NumCPU     int
	GOMAXPROCS int
	// Features lists SIMD extensions relevant to dense kernels.
	Features []string
}

// DetectHost inspects the current process and CPU.
func DetectHost() Host {
	h := Host{
		GOOS:       runtime.GOOS,
		GOARCH:     runtime.GOARCH,
		GoVersion:  runtime.Version(),
		NumCPU:     runtime.NumCPU(),
		GOMAXPROCS: runtime.GOMAXPROCS(0),
	}
	flags := []struct {
		name string
		on   bool
	}{
		{"sse4.2", cpu.X86.HasSSE42},
		{"avx", cpu.X86.HasAVX},
		{"avx2", cpu.X86.HasAVX2},
		{"fma", cpu.X86.HasFMA},
		{"avx512f", cpu.X86.HasAVX512F},
		{"asimd", cpu.ARM64.HasASIMD},
		{"sve", cpu.ARM64.HasSVE},
	}
	for _, f := range flags {
		if f.on {
			h.Features = append(h.Features, f.name)
		}
	}

	return h
}

// String renders a one-line summary.
func (h Host) String() string {
	feats := "none"
	if len(h.Features) > 0 {
		feats = strings.Join(h.Features, ",")
	}

	return fmt.Sprintf("%s/%s %s cpus=%d gomaxprocs=%d simd=%s",
		h.GOOS, h.GOARCH, h.GoVersion, h.NumCPU, h.GOMAXPROCS, feats)
}
