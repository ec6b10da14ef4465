// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// HTTPミドルウェア、検証チェーン、ハンドラーから利用する。
type MetricsCollector interface {
	RecordHTTPRequest(method, route string, statusCode int, duration time.Duration)
	RecordValidationRejection(code string)
	RecordUserCreated()
	RecordProActivated()
	RecordTodoCreated()
	RecordTodoCompleted()
	RecordTodoDeleted()
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpRequests         *prometheus.CounterVec
	httpDuration         *prometheus.HistogramVec
	validationRejections *prometheus.CounterVec
	usersCreated         prometheus.Counter
	proActivated         prometheus.Counter
	todosCreated         prometheus.Counter
	todosCompleted       prometheus.Counter
	todosDeleted         prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "todoman_http_requests_total",
			Help: "メソッド・ルート・ステータスコード別のHTTPリクエスト数",
		}, []string{"method", "route", "status_code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "todoman_http_request_duration_seconds",
			Help:    "HTTPリクエストの処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		validationRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "todoman_validation_rejections_total",
			Help: "検証チェーンで拒否されたリクエスト数（エラーコード別）",
		}, []string{"code"}),
		usersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "todoman_users_created_total",
			Help: "作成されたユーザーの合計数",
		}),
		proActivated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "todoman_pro_activated_total",
			Help: "Proプランが有効化された合計数",
		}),
		todosCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "todoman_todos_created_total",
			Help: "作成されたTodoの合計数",
		}),
		todosCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "todoman_todos_completed_total",
			Help: "完了にされたTodoの合計数",
		}),
		todosDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "todoman_todos_deleted_total",
			Help: "削除されたTodoの合計数",
		}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.validationRejections,
		c.usersCreated,
		c.proActivated,
		c.todosCreated,
		c.todosCompleted,
		c.todosDeleted,
	)

	return c
}

// RecordHTTPRequest はHTTPリクエストのステータスと処理時間を記録する。
func (c *Collector) RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordValidationRejection は検証チェーンでの拒否を記録する。
func (c *Collector) RecordValidationRejection(code string) {
	c.validationRejections.WithLabelValues(code).Inc()
}

// RecordUserCreated はユーザー作成を記録する。
func (c *Collector) RecordUserCreated() {
	c.usersCreated.Inc()
}

// RecordProActivated はProプランの有効化を記録する。
func (c *Collector) RecordProActivated() {
	c.proActivated.Inc()
}

// RecordTodoCreated はTodo作成を記録する。
func (c *Collector) RecordTodoCreated() {
	c.todosCreated.Inc()
}

// RecordTodoCompleted はTodoの完了を記録する。
func (c *Collector) RecordTodoCompleted() {
	c.todosCompleted.Inc()
}

// RecordTodoDeleted はTodo削除を記録する。
func (c *Collector) RecordTodoDeleted() {
	c.todosDeleted.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
