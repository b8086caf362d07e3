// monitor/monitor.go
package monitor

import (
	"expvar"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	OnlinePlayers     prometheus.Gauge
	AdminConnected    prometheus.Gauge
	EventsReceived    prometheus.Counter
	LeaderboardPushes prometheus.Counter
	AnswerChecks      prometheus.Counter
	StoreLatency      prometheus.Histogram
}

func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		OnlinePlayers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "online_players",
			Help:      "Number of connected player sessions",
		}),
		AdminConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "admin_connected",
			Help:      "Whether an admin console is connected (0 or 1)",
		}),
		EventsReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_received_total",
			Help:      "Total number of realtime events received",
		}),
		LeaderboardPushes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "leaderboard_pushes_total",
			Help:      "Total number of leaderboard updates pushed to the admin",
		}),
		AnswerChecks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answer_checks_total",
			Help:      "Total number of answer submissions checked",
		}),
		StoreLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_latency_seconds",
			Help:      "Document store operation latency",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 10),
		}),
	}

	prometheus.MustRegister(
		m.OnlinePlayers,
		m.AdminConnected,
		m.EventsReceived,
		m.LeaderboardPushes,
		m.AnswerChecks,
		m.StoreLatency,
	)

	return m
}

type Monitor struct {
	metrics   *Metrics
	startTime time.Time
}

func NewMonitor(namespace string) *Monitor {
	return &Monitor{
		metrics:   NewMetrics(namespace),
		startTime: time.Now(),
	}
}

func (m *Monitor) StartServer(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	expvar.Publish("uptime", expvar.Func(func() interface{} {
		return time.Since(m.startTime).Seconds()
	}))
	mux.Handle("/debug/vars", expvar.Handler())

	go http.ListenAndServe(addr, mux)
}

func (m *Monitor) IncOnlinePlayers() {
	m.metrics.OnlinePlayers.Inc()
}

func (m *Monitor) DecOnlinePlayers() {
	m.metrics.OnlinePlayers.Dec()
}

func (m *Monitor) SetAdminConnected(connected bool) {
	if connected {
		m.metrics.AdminConnected.Set(1)
	} else {
		m.metrics.AdminConnected.Set(0)
	}
}

func (m *Monitor) IncEventsReceived() {
	m.metrics.EventsReceived.Inc()
}

func (m *Monitor) IncLeaderboardPushes() {
	m.metrics.LeaderboardPushes.Inc()
}

func (m *Monitor) IncAnswerChecks() {
	m.metrics.AnswerChecks.Inc()
}

func (m *Monitor) ObserveStoreLatency(duration time.Duration) {
	m.metrics.StoreLatency.Observe(duration.Seconds())
}
