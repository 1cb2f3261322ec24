package health

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

const timestampLayout = "2006-01-02 15:04:05"

type Response struct {
	Status      string  `json:"status"`
	Timestamp   string  `json:"timestamp"`
	Uptime      float64 `json:"uptime"`
	Version     string  `json:"version"`
	Environment string  `json:"environment"`
}

type SystemStatus struct {
	Status            string  `json:"status"`
	CPUUsage          float64 `json:"cpu_usage"`
	MemoryUsage       float64 `json:"memory_usage"`
	DiskUsage         float64 `json:"disk_usage"`
	ActiveConnections int     `json:"active_connections"`
}

// Usage is a point-in-time reading of host load, in percent.
type Usage struct {
	CPU, Memory, Disk float64
}

type Probe func(ctx context.Context) (Usage, error)

// HostProbe samples CPU over one second, plus memory and root disk usage.
func HostProbe(ctx context.Context) (Usage, error) {
	pct, err := cpu.PercentWithContext(ctx, time.Second, false)
	if err != nil {
		return Usage{}, err
	}
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return Usage{}, err
	}
	du, err := disk.UsageWithContext(ctx, "/")
	if err != nil {
		return Usage{}, err
	}
	u := Usage{Memory: vm.UsedPercent, Disk: du.UsedPercent}
	if len(pct) > 0 {
		u.CPU = pct[0]
	}
	return u, nil
}

type Handler struct {
	Version     string
	Environment string
	Started     time.Time

	// Ready reports whether requests can be served, i.e. an engine is configured.
	Ready func() bool
	// Keys lists credential names and whether they are set, for /info.
	Keys map[string]bool

	Probe Probe
	Now   func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	writeJSON(w, http.StatusOK, Response{
		Status:      "healthy",
		Timestamp:   now.Format(timestampLayout),
		Uptime:      now.Sub(h.Started).Seconds(),
		Version:     h.Version,
		Environment: h.Environment,
	})
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	probe := h.Probe
	if probe == nil {
		probe = HostProbe
	}
	u, err := probe(r.Context())
	if err != nil {
		writeJSON(w, http.StatusOK, SystemStatus{Status: "error"})
		return
	}
	writeJSON(w, http.StatusOK, SystemStatus{
		Status:      "operational",
		CPUUsage:    u.CPU,
		MemoryUsage: u.Memory,
		DiskUsage:   u.Disk,
	})
}

func (h *Handler) ReadyCheck(w http.ResponseWriter, r *http.Request) {
	if h.Ready != nil && h.Ready() {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready", "message": "System is ready to serve requests"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "not_ready", "message": "no LLM engine configured"})
}

func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive", "timestamp": h.now().Format(timestampLayout)})
}

func (h *Handler) Info(w http.ResponseWriter, r *http.Request) {
	keys := make(map[string]string, len(h.Keys))
	for k, ok := range h.Keys {
		if ok {
			keys[k] = "configured"
		} else {
			keys[k] = "not_configured"
		}
	}
	env := map[string]any{"environment": h.Environment}
	for k, v := range keys {
		env[k] = v
	}

	proc := map[string]any{"pid": os.Getpid()}
	if p, err := process.NewProcessWithContext(r.Context(), int32(os.Getpid())); err == nil {
		if mi, err := p.MemoryInfoWithContext(r.Context()); err == nil {
			proc["memory_info"] = map[string]uint64{"rss": mi.RSS, "vms": mi.VMS}
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"system": map[string]string{
			"platform":     runtime.GOOS,
			"go_version":   runtime.Version(),
			"architecture": runtime.GOARCH,
		},
		"environment": env,
		"process":     proc,
	})
}

// Healthz is the plain-text liveness probe used by the container platform.
func Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
