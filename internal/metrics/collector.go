// Package metrics exposes device status and command outcomes to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/five82/monarchctl/internal/state"
)

var (
	upDesc = prometheus.NewDesc(
		"monarch_up", "Whether the last status poll reached the device.", nil, nil,
	)
	healthDesc = prometheus.NewDesc(
		"monarch_connection_health", "Connection indicator (0=unknown, 1=ok, 2=warning, 3=error).", nil, nil,
	)
	recordDesc = prometheus.NewDesc(
		"monarch_record_status", "Current record status reported by the device.", []string{"status"}, nil,
	)
	streamDesc = prometheus.NewDesc(
		"monarch_stream_status", "Current stream status reported by the device.", []string{"status"}, nil,
	)
	failuresDesc = prometheus.NewDesc(
		"monarch_poll_consecutive_failures", "Consecutive failed status polls.", nil, nil,
	)
	lastPollDesc = prometheus.NewDesc(
		"monarch_last_poll_timestamp_seconds", "Unix time of the last completed status poll.", nil, nil,
	)
)

// Collector reads the state store at scrape time and counts command outcomes.
type Collector struct {
	store    *state.Store
	commands *prometheus.CounterVec
	retries  *prometheus.CounterVec
}

// NewCollector builds a collector backed by store.
func NewCollector(store *state.Store) *Collector {
	return &Collector{
		store: store,
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "monarch_commands_total",
			Help: "Dispatched commands grouped by action and outcome.",
		}, []string{"action", "outcome"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "monarch_command_attempts_total",
			Help: "Requests sent for dispatched commands, busy retries included.",
		}, []string{"action"}),
	}
}

// ObserveCommand records the outcome of one dispatched action.
func (c *Collector) ObserveCommand(action, outcome string, attempts int) {
	c.commands.WithLabelValues(action, outcome).Inc()
	if attempts > 0 {
		c.retries.WithLabelValues(action).Add(float64(attempts))
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- upDesc
	ch <- healthDesc
	ch <- recordDesc
	ch <- streamDesc
	ch <- failuresDesc
	ch <- lastPollDesc
	c.commands.Describe(ch)
	c.retries.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	snap := c.store.Snapshot()

	up := 0.0
	if !snap.LastPolled.IsZero() && snap.LastError == nil {
		up = 1.0
	}
	ch <- prometheus.MustNewConstMetric(upDesc, prometheus.GaugeValue, up)
	ch <- prometheus.MustNewConstMetric(healthDesc, prometheus.GaugeValue, float64(snap.Health))
	ch <- prometheus.MustNewConstMetric(recordDesc, prometheus.GaugeValue, 1, snap.RecordStatus)
	ch <- prometheus.MustNewConstMetric(streamDesc, prometheus.GaugeValue, 1, snap.StreamStatus)
	ch <- prometheus.MustNewConstMetric(failuresDesc, prometheus.GaugeValue, float64(snap.ConsecutiveFailures))
	if !snap.LastPolled.IsZero() {
		ch <- prometheus.MustNewConstMetric(lastPollDesc, prometheus.GaugeValue, float64(snap.LastPolled.Unix()))
	}

	c.commands.Collect(ch)
	c.retries.Collect(ch)
}

// Handler returns an HTTP handler serving reg on /metrics. errorLog may be
// nil; a logrus logger satisfies promhttp.Logger.
func Handler(reg *prometheus.Registry, errorLog promhttp.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{
		ErrorLog: errorLog,
	}))
	return mux
}
