// Package metrics 提供 Prometheus 指標的收集與公開。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder 是指標收集的介面，供 webhook 處理層使用。
type Recorder interface {
	RecordEvent(outcome string)
	RecordCommand(kind string)
	RecordReplySent()
	RecordReplyFailure()
	RecordStoreFailure()
	RecordEventLatency(duration time.Duration)
}

// NopRecorder 是不做任何事的 Recorder，供測試使用。
type NopRecorder struct{}

func (NopRecorder) RecordEvent(string)               {}
func (NopRecorder) RecordCommand(string)             {}
func (NopRecorder) RecordReplySent()                 {}
func (NopRecorder) RecordReplyFailure()              {}
func (NopRecorder) RecordStoreFailure()              {}
func (NopRecorder) RecordEventLatency(time.Duration) {}

var _ Recorder = NopRecorder{}

// Collector 是收集 Prometheus 指標的實作。
type Collector struct {
	events       *prometheus.CounterVec
	commands     *prometheus.CounterVec
	replySent    prometheus.Counter
	replyFail    prometheus.Counter
	storeFail    prometheus.Counter
	eventLatency prometheus.Histogram
}

// NewCollector 產生新的 Collector 並把指標註冊到指定的 registry。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "linebot_events_total",
			Help: "處理的 webhook 事件數（依結果分類）",
		}, []string{"outcome"}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "linebot_commands_total",
			Help: "辨識出的指令數（依種類分類）",
		}, []string{"kind"}),
		replySent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "linebot_replies_sent_total",
			Help: "成功送出的回覆數",
		}),
		replyFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "linebot_replies_fail_total",
			Help: "回覆 API 失敗數",
		}),
		storeFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "linebot_store_failures_total",
			Help: "儲存層失敗數",
		}),
		eventLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "linebot_event_latency_seconds",
			Help:    "單一事件處理的延遲（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.events,
		c.commands,
		c.replySent,
		c.replyFail,
		c.storeFail,
		c.eventLatency,
	)

	return c
}

// RecordEvent 記錄一個事件的處理結果。
func (c *Collector) RecordEvent(outcome string) {
	c.events.WithLabelValues(outcome).Inc()
}

// RecordCommand 記錄辨識出的指令種類。
func (c *Collector) RecordCommand(kind string) {
	c.commands.WithLabelValues(kind).Inc()
}

// RecordReplySent 記錄成功送出的回覆。
func (c *Collector) RecordReplySent() {
	c.replySent.Inc()
}

// RecordReplyFailure 記錄回覆 API 失敗。
func (c *Collector) RecordReplyFailure() {
	c.replyFail.Inc()
}

// RecordStoreFailure 記錄儲存層失敗。
func (c *Collector) RecordStoreFailure() {
	c.storeFail.Inc()
}

// RecordEventLatency 記錄事件處理延遲。
func (c *Collector) RecordEventLatency(duration time.Duration) {
	c.eventLatency.Observe(duration.Seconds())
}

// Handler 回傳 Prometheus 抓取用的 HTTP 處理器。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
