package site

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/codeharbor/portfolio/internal/apiclient"
)

type HealthResponse struct {
	Status    string          `json:"status"`
	Timestamp time.Time       `json:"timestamp"`
	Service   string          `json:"service"`
	Version   string          `json:"version"`
	Session   string          `json:"session"`
	Upstream  *UpstreamHealth `json:"upstream,omitempty"`
}

type UpstreamHealth struct {
	Calls            int64   `json:"calls"`
	Errors           int64   `json:"errors"`
	ErrorRate        float64 `json:"error_rate"`
	AverageLatencyMS float64 `json:"avg_latency_ms"`
}

type HealthHandler struct {
	serviceName string
	version     string
	upstream    func() apiclient.Metrics
}

func NewHealthHandler(serviceName, version string, upstream func() apiclient.Metrics) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		upstream:    upstream,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	sessionStatus := "anonymous"
	if isAuthenticated(c) {
		sessionStatus = "authenticated"
	}

	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		Session:   sessionStatus,
	}
	if h.upstream != nil {
		m := h.upstream()
		resp.Upstream = &UpstreamHealth{
			Calls:            m.Calls,
			Errors:           m.Errors,
			ErrorRate:        m.ErrorRate(),
			AverageLatencyMS: m.AverageLatency(),
		}
	}

	c.JSON(http.StatusOK, resp)
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
