// Package app 負責應用程式的初始化、依賴組裝與啟動。
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/Chung-Chi-Lin/LineBot-openAI/internal/bot"
	"github.com/Chung-Chi-Lin/LineBot-openAI/internal/config"
	"github.com/Chung-Chi-Lin/LineBot-openAI/internal/database"
	"github.com/Chung-Chi-Lin/LineBot-openAI/internal/fare"
	"github.com/Chung-Chi-Lin/LineBot-openAI/internal/handler"
	"github.com/Chung-Chi-Lin/LineBot-openAI/internal/line"
	"github.com/Chung-Chi-Lin/LineBot-openAI/internal/logger"
	"github.com/Chung-Chi-Lin/LineBot-openAI/internal/metrics"
	"github.com/Chung-Chi-Lin/LineBot-openAI/internal/middleware"
	"github.com/Chung-Chi-Lin/LineBot-openAI/internal/repository"
	"github.com/Chung-Chi-Lin/LineBot-openAI/internal/schedule"
	"github.com/Chung-Chi-Lin/LineBot-openAI/internal/security"
)

// Init 初始化應用程式：設定 JSON 結構化日誌後自環境變數讀取設定。
// 指定 writer 時日誌輸出到該 writer。
func Init(w io.Writer) (*config.Config, error) {
	logger.SetupDefault(w)

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run 是應用程式的主進入點。
// 自命令列引數解析子指令，以對應的模式啟動。args 傳入 os.Args[1:]。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck 是輕量子指令，跳過完整初始化。
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "3000"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe 以 webhook 伺服器模式啟動。
// 開啟 DB 連線、組裝全部依賴後啟動 HTTP 伺服器。
// 收到 SIGINT 或 SIGTERM 時進行優雅關閉。
func runServe(cfg *config.Config) error {
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")

	// 儲存層
	userRepo := repository.NewPostgresUserRepo(db)
	paymentRepo := repository.NewPostgresPaymentRepo(db)
	adjustmentRepo := repository.NewPostgresAdjustmentRepo(db)
	availabilityRepo := repository.NewPostgresAvailabilityRepo(db)

	// LINE 用戶端：端點可由環境變數覆寫，出站請求經 SSRF 防護。
	if err := security.ValidateEndpoint(cfg.LineAPIBase); err != nil {
		return fmt.Errorf("invalid LINE_API_BASE: %w", err)
	}
	lineClient := line.NewClient(
		security.NewOutboundClient(cfg.LineTimeout),
		cfg.ChannelSecret,
		cfg.ChannelAccessToken,
		slog.Default(),
	)
	lineClient.SetEndpoint(cfg.LineAPIBase)

	// 指標
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 服務層
	fareService := fare.NewService(userRepo, paymentRepo, adjustmentRepo)
	scheduleService := schedule.NewService(availabilityRepo)
	eventBot := bot.New(userRepo, lineClient, fareService, scheduleService, collector)

	// 路由
	// 設定值以每分鐘為單位，換算為每秒。
	rateLimiterCfg := middleware.DefaultRateLimiterConfig()
	rateLimiterCfg.Rate = rate.Limit(float64(cfg.RateLimitWebhook) / 60.0)
	rateLimiterCfg.Burst = cfg.RateLimitWebhook
	rateLimiter := middleware.NewRateLimiter(rateLimiterCfg)
	defer rateLimiter.Stop()

	webhook := handler.NewWebhookHandler(lineClient, eventBot, collector, slog.Default())
	router := handler.NewRouter(webhook, rateLimiter, registry, slog.Default())

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("webhook server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down webhook server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("webhook server stopped gracefully")
	return nil
}

// runMigrate 執行資料庫遷移，依序套用所有未套用的遷移。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck 執行健康檢查。
// distroless 環境的 Docker healthcheck 用子指令：
// 對 /healthcheck 端點送出 HTTP 請求並回傳結果。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/healthcheck", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL 遮蔽資料庫 URL 中的認證資訊。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
