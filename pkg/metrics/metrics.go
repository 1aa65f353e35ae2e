package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "support_relay"

// Collector holds the relay's Prometheus metrics on a private registry.
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	ChatRequests       *prometheus.CounterVec
	CompletionDuration *prometheus.HistogramVec
	Notifications      *prometheus.CounterVec
	Sessions           prometheus.GaugeFunc
}

// New creates a Collector. sessionCount feeds the live-sessions gauge and may be nil.
func New(sessionCount func() int) *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		registry: reg,
		ChatRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_requests_total",
			Help:      "Chat requests by routing outcome",
		}, []string{"route"}),
		CompletionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "completion_duration_seconds",
			Help:      "Latency of completion API calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Support notifications by transport and outcome",
		}, []string{"transport", "status"}),
	}

	reg.MustRegister(c.ChatRequests, c.CompletionDuration, c.Notifications)

	if sessionCount != nil {
		c.Sessions = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions",
			Help:      "Conversation sessions held in memory",
		}, func() float64 { return float64(sessionCount()) })
		reg.MustRegister(c.Sessions)
	}

	return c
}

// Handler exposes the registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveChat counts one chat request by route (notification, intent, completion, fallback, invalid, error)
func (c *Collector) ObserveChat(route string) {
	if c == nil {
		return
	}
	c.ChatRequests.WithLabelValues(route).Inc()
}

// ObserveCompletion records a completion call latency
func (c *Collector) ObserveCompletion(status string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.CompletionDuration.WithLabelValues(status).Observe(elapsed.Seconds())
}

// ObserveNotification counts one transport delivery attempt
func (c *Collector) ObserveNotification(transport string, err error) {
	if c == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	c.Notifications.WithLabelValues(transport, status).Inc()
}
