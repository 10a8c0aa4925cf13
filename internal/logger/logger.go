package logger

import (
	"io"
	"log/slog"
	"os"
)

// Setup 產生輸出 JSON 結構化日誌的 slog.Logger。
// 指定 writer 時輸出到該 writer。
func Setup(w io.Writer) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return slog.New(handler)
}

// SetupDefault 將 JSON 結構化日誌設定為全域 logger。
// 正式環境預期傳入 os.Stdout。
func SetupDefault(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	logger := Setup(w)
	slog.SetDefault(logger)
}
