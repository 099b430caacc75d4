package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// PollsTotal - количество опросов API по результату (ok, no_change, error)
	PollsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homework_bot_polls_total",
			Help: "Total number of review API polls",
		},
		[]string{"result"},
	)

	PollFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homework_bot_poll_failures_total",
			Help: "Number of failed polls by error kind",
		},
		[]string{"kind"},
	)

	PollDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "homework_bot_poll_duration_seconds",
			Help:    "Duration of review API requests",
			Buckets: prometheus.DefBuckets,
		},
	)

	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homework_bot_notifications_total",
			Help: "Telegram notifications by send status",
		},
		[]string{"status"},
	)

	Watermark = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "homework_bot_watermark_seconds",
			Help: "current_date used as from_date for the next poll",
		},
	)
)

var initOnce sync.Once

// Init регистрирует метрики, повторные вызовы ничего не делают
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(PollsTotal, PollFailures, PollDuration, NotificationsTotal, Watermark)
	})
}
