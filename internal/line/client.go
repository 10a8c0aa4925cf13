package line

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// defaultEndpoint 是 LINE Messaging API 的端點。
const defaultEndpoint = "https://api.line.me"

// ErrInvalidSignature 表示 webhook 簽章驗證失敗，
// 請求不是 LINE 平台送來的或 channel secret 設定錯誤。
var ErrInvalidSignature = errors.New("invalid webhook signature")

// Client 是 LINE Messaging API 的用戶端。
type Client struct {
	httpClient    *http.Client
	channelSecret string
	channelToken  string
	logger        *slog.Logger
	endpoint      string // 測試用可替換端點
}

// NewClient 產生 Client 的新實例。
func NewClient(httpClient *http.Client, channelSecret, channelToken string, logger *slog.Logger) *Client {
	return &Client{
		httpClient:    httpClient,
		channelSecret: channelSecret,
		channelToken:  channelToken,
		logger:        logger,
		endpoint:      defaultEndpoint,
	}
}

// SetEndpoint 替換 API 端點，供測試指向 httptest 伺服器。
func (c *Client) SetEndpoint(endpoint string) {
	c.endpoint = endpoint
}

// VerifyAndParse 驗證 webhook 簽章後解析事件陣列。
// 簽章為以 channel secret 對原始請求本體計算的 HMAC-SHA256 再 base64，
// 與 X-Line-Signature 標頭做定時比較。
func (c *Client) VerifyAndParse(body []byte, signature string) ([]Event, error) {
	mac := hmac.New(sha256.New, []byte(c.channelSecret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return nil, ErrInvalidSignature
	}

	var parsed webhookBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse webhook body: %w", err)
	}

	return parsed.Events, nil
}

// replyRequest 是回覆 API 的請求本體。
type replyRequest struct {
	ReplyToken string         `json:"replyToken"`
	Messages   []replyMessage `json:"messages"`
}

type replyMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ReplyMessage 透過回覆 API 對事件回覆一則文字訊息。
// 每個 replyToken 只能使用一次，失敗時不自動重試。
func (c *Client) ReplyMessage(ctx context.Context, replyToken, text string) error {
	payload, err := json.Marshal(replyRequest{
		ReplyToken: replyToken,
		Messages:   []replyMessage{{Type: "text", Text: text}},
	})
	if err != nil {
		return fmt.Errorf("failed to marshal reply: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint+"/v2/bot/message/reply", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create reply request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.channelToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("回覆 API 呼叫失敗",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to call reply API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("回覆 API 回傳錯誤狀態",
			slog.Int("http_status", resp.StatusCode),
			slog.String("body", string(respBody)),
		)
		return fmt.Errorf("reply API returned status %d", resp.StatusCode)
	}

	return nil
}

// GetProfile 透過個人資料 API 取得使用者的顯示名稱。
func (c *Client) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.endpoint+"/v2/bot/profile/"+userID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.channelToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("個人資料 API 呼叫失敗",
			slog.String("error", err.Error()),
			slog.String("user_id", userID),
		)
		return nil, fmt.Errorf("failed to call profile API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("profile API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile response: %w", err)
	}

	var profile Profile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile response: %w", err)
	}

	return &profile, nil
}
