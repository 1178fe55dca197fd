package observability

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/process"
)

// HealthStatus is the body served on /health.
type HealthStatus struct {
	Service    string  `json:"service"`
	Status     string  `json:"status"`
	Pid        int32   `json:"pid"`
	CpuPercent float64 `json:"cpu_percent"`
	RamBytes   uint64  `json:"ram_bytes"`
	Goroutines int     `json:"goroutines"`
	Uptime     string  `json:"uptime"`
}

// Health reports the technical state of the current process.
type Health struct {
	log     *slog.Logger
	service string
	started time.Time
	proc    *process.Process
}

func NewHealth(log *slog.Logger, service string) (*Health, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	return &Health{log: log, service: service, started: time.Now(), proc: p}, nil
}

// Check collects memory and CPU usage of the process.
func (h *Health) Check() (HealthStatus, error) {
	memInfo, err := h.proc.MemoryInfo()
	if err != nil {
		return HealthStatus{}, err
	}
	cpuPercent, err := h.proc.CPUPercent()
	if err != nil {
		return HealthStatus{}, err
	}
	return HealthStatus{
		Service:    h.service,
		Status:     "UP",
		Pid:        h.proc.Pid,
		CpuPercent: cpuPercent,
		RamBytes:   memInfo.RSS,
		Goroutines: runtime.NumGoroutine(),
		Uptime:     time.Since(h.started).Round(time.Second).String(),
	}, nil
}

func (h *Health) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	status, err := h.Check()
	if err != nil {
		h.log.Error("Failed to collect self stats", "err", err)
		status = HealthStatus{Service: h.service, Status: "DEGRADED", Pid: h.proc.Pid}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(status); err != nil {
		h.log.Debug("Unable to write health status", "err", err)
	}
}
