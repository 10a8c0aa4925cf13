// Package line 提供 LINE Messaging API 的介接：
// webhook 簽章驗證與事件解析、回覆 API 與個人資料 API。
package line

// Event 是 webhook 送來的單一事件。
// 只有 type 為 message 且 message.type 為 text 的事件會被處理，
// 其餘事件靜默確認、不回覆。
type Event struct {
	Type       string  `json:"type"`
	Message    Message `json:"message"`
	Source     Source  `json:"source"`
	ReplyToken string  `json:"replyToken"`
}

// Message 是事件攜帶的訊息內容。
type Message struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Source 是事件的傳送者。
type Source struct {
	UserID string `json:"userId"`
}

// IsTextMessage 回傳事件是否為文字訊息。
func (e *Event) IsTextMessage() bool {
	return e.Type == "message" && e.Message.Type == "text"
}

// Profile 是個人資料 API 回傳的使用者資訊。
type Profile struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

// webhookBody 是 webhook 請求本體。
type webhookBody struct {
	Events []Event `json:"events"`
}
