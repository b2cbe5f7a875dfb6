// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/biolink-labs/biolink-api/internal/core"
)

type Handler struct {
	mongoPing  func(ctx context.Context) error
	redisPing  func(ctx context.Context) error
	redisStats func() *redis.PoolStats
}

type HandlerConfig struct {
	MongoPing  func(ctx context.Context) error
	RedisPing  func(ctx context.Context) error
	RedisStats func() *redis.PoolStats
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		mongoPing:  cfg.MongoPing,
		redisPing:  cfg.RedisPing,
		redisStats: cfg.RedisStats,
	}
}

// RegisterRoutes mounts the stats surface behind the system API key: these
// endpoints serve operators and the payments service, not end users.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	apiKeyGuard func(http.Handler) http.Handler,
) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(apiKeyGuard)

		r.Get("/stats", h.GetSystemStats)
		r.Get("/stats/redis", h.GetRedisStats)
		r.Get("/stats/runtime", h.GetRuntimeStats)
	})
}

func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	response := SystemStatsResponse{
		Mongo:   h.pingStatus(ctx, h.mongoPing),
		Redis:   h.pingStatus(ctx, h.redisPing),
		Runtime: currentRuntimeStats(),
	}
	response.Redis.Stats = h.getRedisStats()

	core.OK(w, response)
}

func (h *Handler) GetRedisStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, h.getRedisStats())
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, currentRuntimeStats())
}

func (h *Handler) pingStatus(
	ctx context.Context,
	ping func(ctx context.Context) error,
) ServiceStatus {
	status := ServiceStatus{Healthy: true}

	if ping == nil {
		status.Healthy = false
		return status
	}

	start := time.Now()
	if err := ping(ctx); err != nil {
		status.Healthy = false
	}
	status.Latency = time.Since(start).String()

	return status
}

func (h *Handler) getRedisStats() *RedisPoolStats {
	if h.redisStats == nil {
		return nil
	}

	stats := h.redisStats()
	return &RedisPoolStats{
		Hits:       stats.Hits,
		Misses:     stats.Misses,
		Timeouts:   stats.Timeouts,
		TotalConns: stats.TotalConns,
		IdleConns:  stats.IdleConns,
		StaleConns: stats.StaleConns,
	}
}

func currentRuntimeStats() RuntimeStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     memStats.Alloc,
		MemSys:       memStats.Sys,
		NumGC:        memStats.NumGC,
	}
}

type SystemStatsResponse struct {
	Mongo   ServiceStatus `json:"mongo"`
	Redis   ServiceStatus `json:"redis"`
	Runtime RuntimeStats  `json:"runtime"`
}

type ServiceStatus struct {
	Healthy bool            `json:"healthy"`
	Latency string          `json:"latency,omitempty"`
	Stats   *RedisPoolStats `json:"stats,omitempty"`
}

type RedisPoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"total_conns"`
	IdleConns  uint32 `json:"idle_conns"`
	StaleConns uint32 `json:"stale_conns"`
}

type RuntimeStats struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	NumCPU       int    `json:"num_cpu"`
	MemAlloc     uint64 `json:"mem_alloc_bytes"`
	MemSys       uint64 `json:"mem_sys_bytes"`
	NumGC        uint32 `json:"num_gc"`
}
