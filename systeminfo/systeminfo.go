// Package systeminfo captures a snapshot of the host a scan ran on,
// for embedding in machine-readable reports.
package systeminfo

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"ftanalyzer/logger"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

type SystemInfo struct {
	Hostname      string `json:"hostname,omitempty"`
	OS            string `json:"os"`
	Platform      string `json:"platform,omitempty"`
	OSVersion     string `json:"osVersion,omitempty"`
	KernelVersion string `json:"kernelVersion,omitempty"`
	Architecture  string `json:"architecture"`
	CPUModel      string `json:"cpuModel,omitempty"`
	CPUCores      int    `json:"cpuCores"`
	TotalMemory   uint64 `json:"totalMemory,omitempty"`
	CollectedAt   string `json:"collectedAt"`
}

// Collect gathers the snapshot. Individual probe failures degrade to
// warnings; the returned value is always usable.
func Collect() *SystemInfo {
	info := &SystemInfo{
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
		CPUCores:     runtime.NumCPU(),
		CollectedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	if hostname, err := os.Hostname(); err == nil {
		info.Hostname = hostname
	}
	if hi, err := host.Info(); err == nil {
		info.OS = hi.OS
		info.Platform = hi.Platform
		info.OSVersion = fmt.Sprintf("%s %s", hi.Platform, hi.PlatformVersion)
		info.KernelVersion = hi.KernelVersion
	} else {
		logger.Warnf("Failed to gather host info: %v", err)
	}
	if cpus, err := cpu.Info(); err == nil && len(cpus) > 0 {
		info.CPUModel = cpus[0].ModelName
	} else if err != nil {
		logger.Warnf("Failed to gather CPU info: %v", err)
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		info.TotalMemory = vm.Total
	} else {
		logger.Warnf("Failed to gather memory info: %v", err)
	}
	return info
}
