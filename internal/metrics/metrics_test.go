package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector_RecordEvent(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordEvent("ok")
	c.RecordEvent("ok")
	c.RecordEvent("error")
	c.RecordEvent("ignored")

	if got := testutil.ToFloat64(c.events.WithLabelValues("ok")); got != 2 {
		t.Errorf("events{outcome=ok} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.events.WithLabelValues("error")); got != 1 {
		t.Errorf("events{outcome=error} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.events.WithLabelValues("ignored")); got != 1 {
		t.Errorf("events{outcome=ignored} = %v, want 1", got)
	}
}

func TestCollector_RecordCommand(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordCommand("transfer_fare")
	c.RecordCommand("transfer_fare")
	c.RecordCommand("query_fare")

	if got := testutil.ToFloat64(c.commands.WithLabelValues("transfer_fare")); got != 2 {
		t.Errorf("commands{kind=transfer_fare} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.commands.WithLabelValues("query_fare")); got != 1 {
		t.Errorf("commands{kind=query_fare} = %v, want 1", got)
	}
}

func TestCollector_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordReplySent()
	c.RecordReplySent()
	c.RecordReplyFailure()
	c.RecordStoreFailure()

	if got := testutil.ToFloat64(c.replySent); got != 2 {
		t.Errorf("replies_sent = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.replyFail); got != 1 {
		t.Errorf("replies_fail = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.storeFail); got != 1 {
		t.Errorf("store_failures = %v, want 1", got)
	}
}

func TestHandler_ExposesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordEvent("ok")
	c.RecordEventLatency(50 * time.Millisecond)

	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "linebot_events_total") {
		t.Error("expected linebot_events_total in metrics output")
	}
	if !strings.Contains(body, "linebot_event_latency_seconds") {
		t.Error("expected linebot_event_latency_seconds in metrics output")
	}
}
