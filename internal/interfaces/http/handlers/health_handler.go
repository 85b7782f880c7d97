package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// HealthChecker is a component that can report its health.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

type checkFunc struct {
	name string
	fn   func(ctx context.Context) error
}

func (c checkFunc) Name() string                    { return c.name }
func (c checkFunc) Check(ctx context.Context) error { return c.fn(ctx) }

// NewCheck adapts fn into a HealthChecker called name.
func NewCheck(name string, fn func(ctx context.Context) error) HealthChecker {
	return checkFunc{name: name, fn: fn}
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	checkers []HealthChecker
	ready    func() bool
	version  string
	startAt  time.Time
	timeout  time.Duration
}

// NewHealthHandler creates a HealthHandler.  ready reports whether the first
// snapshot has been published; nil means always ready.
func NewHealthHandler(version string, ready func() bool, checkers ...HealthChecker) *HealthHandler {
	return &HealthHandler{
		checkers: checkers,
		ready:    ready,
		version:  version,
		startAt:  time.Now(),
		timeout:  5 * time.Second,
	}
}

// RegisterRoutes mounts the probes on r.
func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/healthz", h.Liveness)
	r.GET("/readyz", h.Readiness)
	r.GET("/healthz/detail", h.Detailed)
}

// LivenessResponse is the body of GET /healthz.
type LivenessResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// ReadinessResponse is the body of GET /readyz.
type ReadinessResponse struct {
	Status     string                    `json:"status"`
	Components map[string]ComponentCheck `json:"components,omitempty"`
}

// DetailedResponse is the body of GET /healthz/detail.
type DetailedResponse struct {
	Status     string                    `json:"status"`
	Version    string                    `json:"version"`
	Uptime     string                    `json:"uptime"`
	Components map[string]ComponentCheck `json:"components"`
}

// ComponentCheck is the health of a single dependency.
type ComponentCheck struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Liveness handles GET /healthz.  It never checks dependencies.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, LivenessResponse{
		Status:  "alive",
		Version: h.version,
		Uptime:  h.uptime(),
	})
}

// Readiness handles GET /readyz.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	components, healthy := h.checkAll(ctx)
	resp := ReadinessResponse{Status: "ready", Components: components}
	if !healthy {
		resp.Status = "not_ready"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Detailed handles GET /healthz/detail.
func (h *HealthHandler) Detailed(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*h.timeout)
	defer cancel()

	components, healthy := h.checkAll(ctx)
	resp := DetailedResponse{
		Status:     "healthy",
		Version:    h.version,
		Uptime:     h.uptime(),
		Components: components,
	}
	code := http.StatusOK
	if !healthy {
		resp.Status = "degraded"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, resp)
}

func (h *HealthHandler) uptime() string {
	return time.Since(h.startAt).Truncate(time.Second).String()
}

// checkAll runs every checker concurrently.  The snapshot readiness is
// reported as the "snapshot" component.
func (h *HealthHandler) checkAll(ctx context.Context) (map[string]ComponentCheck, bool) {
	results := make(map[string]ComponentCheck, len(h.checkers)+1)
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, checker := range h.checkers {
		checker := checker
		g.Go(func() error {
			start := time.Now()
			err := checker.Check(gctx)
			cc := ComponentCheck{
				Status:  "healthy",
				Latency: time.Since(start).Truncate(time.Microsecond).String(),
			}
			if err != nil {
				cc.Status = "unhealthy"
				cc.Error = err.Error()
			}
			mu.Lock()
			results[checker.Name()] = cc
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if h.ready != nil {
		cc := ComponentCheck{Status: "healthy"}
		if !h.ready() {
			cc = ComponentCheck{Status: "unhealthy", Error: "no snapshot loaded"}
		}
		results["snapshot"] = cc
	}

	healthy := true
	for _, cc := range results {
		if cc.Status != "healthy" {
			healthy = false
			break
		}
	}
	return results, healthy
}

//Personal.AI order the ending
