package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Chung-Chi-Lin/LineBot-openAI/internal/line"
	"github.com/Chung-Chi-Lin/LineBot-openAI/internal/metrics"
)

type mockMessenger struct {
	verifyFunc func(body []byte, signature string) ([]line.Event, error)
	replyFunc  func(ctx context.Context, replyToken, text string) error
}

func (m *mockMessenger) VerifyAndParse(body []byte, signature string) ([]line.Event, error) {
	return m.verifyFunc(body, signature)
}

func (m *mockMessenger) ReplyMessage(ctx context.Context, replyToken, text string) error {
	return m.replyFunc(ctx, replyToken, text)
}

type mockEventHandler struct {
	handleFunc func(ctx context.Context, event line.Event) (string, error)
}

func (m *mockEventHandler) HandleEvent(ctx context.Context, event line.Event) (string, error) {
	return m.handleFunc(ctx, event)
}

type sentReply struct {
	token string
	text  string
}

func textEvent(userID, replyToken string) line.Event {
	return line.Event{
		Type:       "message",
		ReplyToken: replyToken,
		Source:     line.Source{UserID: userID},
		Message:    line.Message{Type: "text", Text: "車費查詢"},
	}
}

func newTestHandler(messenger *mockMessenger, bot *mockEventHandler) *WebhookHandler {
	return NewWebhookHandler(messenger, bot, metrics.NopRecorder{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func postCallback(h *WebhookHandler) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/callback", strings.NewReader(`{"events":[]}`))
	req.Header.Set("X-Line-Signature", "sig")
	w := httptest.NewRecorder()
	h.Callback(w, req)
	return w
}

func TestCallback_InvalidSignature_Returns400(t *testing.T) {
	messenger := &mockMessenger{
		verifyFunc: func(_ []byte, _ string) ([]line.Event, error) {
			return nil, line.ErrInvalidSignature
		},
	}

	w := postCallback(newTestHandler(messenger, nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCallback_MalformedBody_Returns400(t *testing.T) {
	messenger := &mockMessenger{
		verifyFunc: func(_ []byte, _ string) ([]line.Event, error) {
			return nil, errors.New("failed to parse webhook body")
		},
	}

	w := postCallback(newTestHandler(messenger, nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCallback_AllEventsSucceed_Returns200WithResults(t *testing.T) {
	var replies []sentReply
	messenger := &mockMessenger{
		verifyFunc: func(_ []byte, _ string) ([]line.Event, error) {
			return []line.Event{textEvent("U1", "rt1"), textEvent("U2", "rt2")}, nil
		},
		replyFunc: func(_ context.Context, token, text string) error {
			replies = append(replies, sentReply{token, text})
			return nil
		},
	}
	bot := &mockEventHandler{
		handleFunc: func(_ context.Context, event line.Event) (string, error) {
			return "回覆給 " + event.Source.UserID, nil
		},
	}

	w := postCallback(newTestHandler(messenger, bot))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	if len(replies) != 2 {
		t.Fatalf("replies = %d, want 2", len(replies))
	}
	if replies[0].token != "rt1" || replies[0].text != "回覆給 U1" {
		t.Errorf("reply 1 = %+v, want rt1 / 回覆給 U1", replies[0])
	}

	var body map[string][]eventResult
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response body: %v", err)
	}
	results := body["results"]
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].UserID != "U1" || results[0].Status != "ok" {
		t.Errorf("result 1 = %+v, want U1 ok", results[0])
	}
}

func TestCallback_NonTextEventsAcknowledgedSilently(t *testing.T) {
	messenger := &mockMessenger{
		verifyFunc: func(_ []byte, _ string) ([]line.Event, error) {
			return []line.Event{
				{Type: "follow", ReplyToken: "rt1", Source: line.Source{UserID: "U1"}},
				{Type: "message", ReplyToken: "rt2", Source: line.Source{UserID: "U2"}, Message: line.Message{Type: "sticker"}},
			}, nil
		},
		replyFunc: func(_ context.Context, _, _ string) error {
			t.Fatal("non-text events must not be replied to")
			return nil
		},
	}
	bot := &mockEventHandler{
		handleFunc: func(_ context.Context, _ line.Event) (string, error) {
			t.Fatal("non-text events must not reach the bot")
			return "", nil
		},
	}

	w := postCallback(newTestHandler(messenger, bot))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body map[string][]eventResult
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response body: %v", err)
	}
	for _, result := range body["results"] {
		if result.Status != "ignored" {
			t.Errorf("status = %q, want ignored", result.Status)
		}
	}
}

func TestCallback_OneEventFails_OthersStillReplied(t *testing.T) {
	var replies []sentReply
	messenger := &mockMessenger{
		verifyFunc: func(_ []byte, _ string) ([]line.Event, error) {
			return []line.Event{
				textEvent("U1", "rt1"),
				textEvent("U2", "rt2"),
				textEvent("U3", "rt3"),
			}, nil
		},
		replyFunc: func(_ context.Context, token, text string) error {
			replies = append(replies, sentReply{token, text})
			return nil
		},
	}
	bot := &mockEventHandler{
		handleFunc: func(_ context.Context, event line.Event) (string, error) {
			if event.Source.UserID == "U2" {
				return "", errors.New("store failure")
			}
			return "ok", nil
		},
	}

	w := postCallback(newTestHandler(messenger, bot))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}

	// 第 1、3 個事件照常回覆，外加一則對第一個 replyToken 的忙碌訊息
	if len(replies) != 3 {
		t.Fatalf("replies = %d, want 3", len(replies))
	}
	if replies[0].token != "rt1" || replies[1].token != "rt3" {
		t.Errorf("normal replies = %+v, want rt1 then rt3", replies[:2])
	}
	last := replies[2]
	if last.token != "rt1" || last.text != msgBusy {
		t.Errorf("busy reply = %+v, want rt1 / %q", last, msgBusy)
	}
}

func TestCallback_ReplyFailure_TriggersBusyMessage(t *testing.T) {
	var busySent int
	messenger := &mockMessenger{
		verifyFunc: func(_ []byte, _ string) ([]line.Event, error) {
			return []line.Event{textEvent("U1", "rt1")}, nil
		},
		replyFunc: func(_ context.Context, _, text string) error {
			if text == msgBusy {
				busySent++
				return nil
			}
			return errors.New("reply API returned status 500")
		},
	}
	bot := &mockEventHandler{
		handleFunc: func(_ context.Context, _ line.Event) (string, error) {
			return "ok", nil
		},
	}

	w := postCallback(newTestHandler(messenger, bot))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if busySent != 1 {
		t.Errorf("busy replies = %d, want exactly 1", busySent)
	}
}

func TestCallback_BusyReplyFailure_Still500(t *testing.T) {
	messenger := &mockMessenger{
		verifyFunc: func(_ []byte, _ string) ([]line.Event, error) {
			return []line.Event{textEvent("U1", "rt1")}, nil
		},
		replyFunc: func(_ context.Context, _, _ string) error {
			return errors.New("reply API unreachable")
		},
	}
	bot := &mockEventHandler{
		handleFunc: func(_ context.Context, _ line.Event) (string, error) {
			return "ok", nil
		},
	}

	w := postCallback(newTestHandler(messenger, bot))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestCallback_EmptyEventBatch_Returns200(t *testing.T) {
	messenger := &mockMessenger{
		verifyFunc: func(_ []byte, _ string) ([]line.Event, error) {
			return nil, nil
		},
	}

	w := postCallback(newTestHandler(messenger, nil))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestHealthcheck_Returns200OK(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	w := httptest.NewRecorder()
	Healthcheck(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if w.Body.String() != "OK" {
		t.Errorf("body = %q, want OK", w.Body.String())
	}
}
