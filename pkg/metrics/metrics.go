package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// IndexerMetrics are the collectors of the indexer process. A nil *IndexerMetrics records nothing.
type IndexerMetrics struct {
	registry *prometheus.Registry

	events            *prometheus.CounterVec
	eventFailures     *prometheus.CounterVec
	snapshotDecisions *prometheus.CounterVec
	assetFailures     prometheus.Counter
	blockDuration     *prometheus.HistogramVec
	lastIndexed       prometheus.Gauge
}

// New registers the indexer collectors on a private registry, labelled with the chain id.
func New(chainID string) *IndexerMetrics {
	reg := prometheus.NewRegistry()
	labels := prometheus.Labels{"chain": chainID}
	m := &IndexerMetrics{
		registry: reg,
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "loansx_events_total",
			Help:        "Decoded lending events handled, by kind.",
			ConstLabels: labels,
		}, []string{"kind"}),
		eventFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "loansx_event_failures_total",
			Help:        "Events whose derivation failed, by kind.",
			ConstLabels: labels,
		}, []string{"kind"}),
		snapshotDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "loansx_snapshot_decisions_total",
			Help:        "Snapshot scheduler decisions, by policy and outcome.",
			ConstLabels: labels,
		}, []string{"policy", "outcome"}),
		assetFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "loansx_snapshot_asset_failures_total",
			Help:        "Assets skipped by the market aggregator after a failed read.",
			ConstLabels: labels,
		}),
		blockDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "loansx_block_stage_seconds",
			Help:        "Time spent per block, by pipeline stage.",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"stage"}),
		lastIndexed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "loansx_last_indexed_height",
			Help:        "Highest block height fully indexed.",
			ConstLabels: labels,
		}),
	}
	reg.MustRegister(
		m.events,
		m.eventFailures,
		m.snapshotDecisions,
		m.assetFailures,
		m.blockDuration,
		m.lastIndexed,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *IndexerMetrics) ObserveEvent(kind string, failed bool) {
	if m == nil {
		return
	}
	if kind == "" {
		kind = "Unknown"
	}
	m.events.WithLabelValues(kind).Inc()
	if failed {
		m.eventFailures.WithLabelValues(kind).Inc()
	}
}

// ObserveSnapshot records one scheduler decision and the assets the aggregator had to skip.
func (m *IndexerMetrics) ObserveSnapshot(policy string, run bool, failedAssets int) {
	if m == nil {
		return
	}
	outcome := "skipped"
	if run {
		outcome = "run"
	}
	m.snapshotDecisions.WithLabelValues(policy, outcome).Inc()
	if failedAssets > 0 {
		m.assetFailures.Add(float64(failedAssets))
	}
}

func (m *IndexerMetrics) ObserveStage(stage string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.blockDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
}

func (m *IndexerMetrics) SetLastIndexed(height uint64) {
	if m == nil {
		return
	}
	m.lastIndexed.Set(float64(height))
}

// Handler exposes the registry in the Prometheus text format.
func (m *IndexerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
