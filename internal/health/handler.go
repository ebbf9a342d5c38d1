// AngelaMos | 2026
// handler.go

package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
)

// Info identifies the service in every health payload so a probe hitting the
// wrong backend is obvious from the response alone.
type Info struct {
	Name    string
	Version string
}

type Checker interface {
	Ping(ctx context.Context) error
}

type probe struct {
	name    string
	checker Checker
}

type Handler struct {
	info     Info
	probes   []probe
	started  time.Time
	ready    atomic.Bool
	shutdown atomic.Bool
}

// NewHandler wires the two backends the API cannot serve without: Postgres
// for catalog and review data, Redis for rate limiting.
func NewHandler(info Info, db, redis Checker) *Handler {
	h := &Handler{
		info:    info,
		started: time.Now(),
		probes: []probe{
			{name: "postgres", checker: db},
			{name: "redis", checker: redis},
		},
	}
	h.ready.Store(true)
	return h
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Liveness)
	r.Get("/livez", h.Liveness)
	r.Get("/readyz", h.Readiness)
}

func (h *Handler) Liveness(w http.ResponseWriter, r *http.Request) {
	if h.shutdown.Load() {
		h.writeStatus(w, http.StatusServiceUnavailable,
			h.statusResponse("shutting_down"))
		return
	}

	h.writeStatus(w, http.StatusOK, h.statusResponse("ok"))
}

func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.shutdown.Load() {
		h.writeStatus(w, http.StatusServiceUnavailable,
			h.readinessResponse("shutting_down", nil))
		return
	}

	if !h.ready.Load() {
		h.writeStatus(w, http.StatusServiceUnavailable,
			h.readinessResponse("not_ready", nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := h.runChecks(ctx)

	status := "ok"
	statusCode := http.StatusOK
	for _, check := range checks {
		if !check.Healthy {
			status = "degraded"
			statusCode = http.StatusServiceUnavailable
			break
		}
	}

	h.writeStatus(w, statusCode, h.readinessResponse(status, checks))
}

func (h *Handler) runChecks(ctx context.Context) []CheckResult {
	var wg sync.WaitGroup
	results := make([]CheckResult, len(h.probes))

	for i, p := range h.probes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = runCheck(ctx, p)
		}()
	}

	wg.Wait()
	return results
}

func runCheck(ctx context.Context, p probe) CheckResult {
	result := CheckResult{
		Name:    p.name,
		Healthy: true,
	}

	if p.checker == nil {
		result.Healthy = false
		result.Message = "checker not configured"
		return result
	}

	start := time.Now()
	err := p.checker.Ping(ctx)
	result.Latency = time.Since(start).String()

	if err != nil {
		result.Healthy = false
		result.Message = "ping failed"
	}

	return result
}

func (h *Handler) SetReady(ready bool) {
	h.ready.Store(ready)
}

func (h *Handler) SetShutdown(shutdown bool) {
	h.shutdown.Store(shutdown)
}

func (h *Handler) statusResponse(status string) StatusResponse {
	return StatusResponse{
		Service: h.info.Name,
		Version: h.info.Version,
		Status:  status,
	}
}

func (h *Handler) readinessResponse(
	status string,
	checks []CheckResult,
) ReadinessResponse {
	return ReadinessResponse{
		StatusResponse: h.statusResponse(status),
		Uptime:         time.Since(h.started).Round(time.Second).String(),
		Checks:         checks,
	}
}

func (h *Handler) writeStatus(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(status)
	//nolint:errcheck // best-effort response
	_ = json.NewEncoder(w).Encode(data)
}

type StatusResponse struct {
	Service string `json:"service"`
	Version string `json:"version,omitempty"`
	Status  string `json:"status"`
}

type ReadinessResponse struct {
	StatusResponse
	Uptime string        `json:"uptime"`
	Checks []CheckResult `json:"checks,omitempty"`
}

type CheckResult struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}
