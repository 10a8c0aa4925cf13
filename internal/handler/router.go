package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Chung-Chi-Lin/LineBot-openAI/internal/metrics"
	"github.com/Chung-Chi-Lin/LineBot-openAI/internal/middleware"
)

// NewRouter 組裝 HTTP 路由。
// 全域套用 panic 復原與存取記錄；速率限制只包住 webhook 回呼，
// 健康檢查與指標端點不受限。
func NewRouter(
	webhook *WebhookHandler,
	limiter *middleware.RateLimiter,
	gatherer prometheus.Gatherer,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(logger))

	r.Group(func(r chi.Router) {
		r.Use(limiter.Middleware())
		r.Post("/callback", webhook.Callback)
	})

	r.Get("/healthcheck", Healthcheck)
	r.Handle("/metrics", metrics.Handler(gatherer))

	return r
}
