// Package handler 提供 HTTP 端點：webhook 回呼、健康檢查與指標。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Chung-Chi-Lin/LineBot-openAI/internal/line"
	"github.com/Chung-Chi-Lin/LineBot-openAI/internal/metrics"
)

// signatureHeader 是 LINE 平台附在 webhook 請求上的簽章標頭。
const signatureHeader = "X-Line-Signature"

// maxBodySize 是 webhook 請求本體的大小上限。
const maxBodySize = 1 << 20

// msgBusy 是系統性失敗時回覆給使用者的固定訊息。
const msgBusy = "伺服器忙碌中，請稍後重試"

// Messenger 是 webhook 處理層需要的訊息平台介面。
type Messenger interface {
	// VerifyAndParse 驗證簽章後解析事件陣列。
	VerifyAndParse(body []byte, signature string) ([]line.Event, error)
	// ReplyMessage 對事件回覆一則文字訊息。
	ReplyMessage(ctx context.Context, replyToken, text string) error
}

// EventHandler 是單一事件的處理介面。
type EventHandler interface {
	HandleEvent(ctx context.Context, event line.Event) (string, error)
}

// eventResult 是單一事件的處理結果，組成 200 回應的本體。
type eventResult struct {
	UserID string `json:"userId"`
	Status string `json:"status"`
}

// WebhookHandler 處理 LINE webhook 回呼。
type WebhookHandler struct {
	messenger Messenger
	bot       EventHandler
	metrics   metrics.Recorder
	logger    *slog.Logger
}

// NewWebhookHandler 產生 WebhookHandler。
func NewWebhookHandler(messenger Messenger, bot EventHandler, recorder metrics.Recorder, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		messenger: messenger,
		bot:       bot,
		metrics:   recorder,
		logger:    logger,
	}
}

// Callback 處理一批 webhook 事件。
// 批次中的事件各自獨立處理：單一事件失敗不中斷其他事件的回覆。
// 只要有任何事件失敗，盡力以第一個事件的 replyToken 回覆固定的
// 忙碌訊息後回 500；全部成功時回 200 與逐事件結果。
func (h *WebhookHandler) Callback(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	events, err := h.messenger.VerifyAndParse(body, r.Header.Get(signatureHeader))
	if err != nil {
		if errors.Is(err, line.ErrInvalidSignature) {
			h.logger.Warn("webhook 簽章驗證失敗")
			http.Error(w, "invalid signature", http.StatusBadRequest)
			return
		}
		h.logger.Warn("webhook 本體解析失敗",
			slog.String("error", err.Error()),
		)
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	results := make([]eventResult, 0, len(events))
	failed := false

	for _, event := range events {
		// 非文字訊息事件靜默確認，不回覆。
		if !event.IsTextMessage() {
			h.metrics.RecordEvent("ignored")
			results = append(results, eventResult{UserID: event.Source.UserID, Status: "ignored"})
			continue
		}

		start := time.Now()
		reply, err := h.bot.HandleEvent(ctx, event)
		h.metrics.RecordEventLatency(time.Since(start))
		if err != nil {
			failed = true
			h.metrics.RecordEvent("error")
			h.metrics.RecordStoreFailure()
			h.logger.Error("事件處理失敗",
				slog.String("user_id", event.Source.UserID),
				slog.String("error", err.Error()),
			)
			continue
		}

		if err := h.messenger.ReplyMessage(ctx, event.ReplyToken, reply); err != nil {
			failed = true
			h.metrics.RecordEvent("error")
			h.metrics.RecordReplyFailure()
			h.logger.Error("回覆送出失敗",
				slog.String("user_id", event.Source.UserID),
				slog.String("error", err.Error()),
			)
			continue
		}

		h.metrics.RecordEvent("ok")
		h.metrics.RecordReplySent()
		results = append(results, eventResult{UserID: event.Source.UserID, Status: "ok"})
	}

	if failed {
		// 盡力通知使用者系統忙碌；這裡的失敗只記錄、不影響回應狀態。
		if len(events) > 0 {
			if err := h.messenger.ReplyMessage(ctx, events[0].ReplyToken, msgBusy); err != nil {
				h.metrics.RecordReplyFailure()
				h.logger.Error("忙碌訊息送出失敗",
					slog.String("error", err.Error()),
				)
			}
		}
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]eventResult{"results": results})
}

// Healthcheck 回應健康檢查：無認證、不解析本體。
func Healthcheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
