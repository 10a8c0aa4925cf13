// Package config 由環境變數載入應用程式設定。
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config 保存應用程式全部的設定。
// 啟動時自環境變數讀取一次，之後視為不可變。
type Config struct {
	// Database
	DatabaseURL string

	// LINE
	ChannelSecret      string
	ChannelAccessToken string
	LineAPIBase        string
	LineTimeout        time.Duration

	// Rate Limit
	RateLimitWebhook int

	// Server
	ServerPort string
}

// Load 自環境變數讀取 Config。
// 必要環境變數未設定時回傳錯誤。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.ChannelSecret = os.Getenv("CHANNEL_SECRET")
	if cfg.ChannelSecret == "" {
		missing = append(missing, "CHANNEL_SECRET")
	}

	cfg.ChannelAccessToken = os.Getenv("CHANNEL_ACCESS_TOKEN")
	if cfg.ChannelAccessToken == "" {
		missing = append(missing, "CHANNEL_ACCESS_TOKEN")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.LineAPIBase = getEnvString("LINE_API_BASE", "https://api.line.me")
	cfg.LineTimeout = getEnvDuration("LINE_TIMEOUT", 10*time.Second)
	cfg.RateLimitWebhook = getEnvInt("RATE_LIMIT_WEBHOOK", 300)
	cfg.ServerPort = getEnvString("SERVER_PORT", "3000")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
