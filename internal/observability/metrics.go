package observability

import (
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds ingest counters on a private registry. A nil *Metrics is a
// valid no-op.
type Metrics struct {
	registry *prometheus.Registry

	NodesUpserted *prometheus.CounterVec
	EdgesLinked   *prometheus.CounterVec
	EdgesMissing  *prometheus.CounterVec
	PassDuration  *prometheus.HistogramVec
	RunsTotal     *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		NodesUpserted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "worldgraph",
				Name:      "nodes_upserted_total",
				Help:      "Nodes merged by natural key",
			},
			[]string{"label"},
		),
		EdgesLinked: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "worldgraph",
				Name:      "edges_linked_total",
				Help:      "Edges merged between existing endpoints",
			},
			[]string{"label"},
		),
		EdgesMissing: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "worldgraph",
				Name:      "edges_missing_total",
				Help:      "Edges skipped because an endpoint node does not exist",
			},
			[]string{"label"},
		),
		PassDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "worldgraph",
				Name:      "pass_duration_seconds",
				Help:      "Duration of a single ingest pass",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"pass"},
		),
		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "worldgraph",
				Name:      "runs_total",
				Help:      "Ingest runs by outcome",
			},
			[]string{"status"},
		),
	}
	m.registry.MustRegister(m.NodesUpserted, m.EdgesLinked, m.EdgesMissing, m.PassDuration, m.RunsTotal)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveNodes(label string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.NodesUpserted.WithLabelValues(label).Add(float64(n))
}

func (m *Metrics) ObserveEdges(label string, linked, missing int) {
	if m == nil {
		return
	}
	if linked > 0 {
		m.EdgesLinked.WithLabelValues(label).Add(float64(linked))
	}
	if missing > 0 {
		m.EdgesMissing.WithLabelValues(label).Add(float64(missing))
	}
}

func (m *Metrics) ObservePass(pass string, d time.Duration) {
	if m == nil {
		return
	}
	m.PassDuration.WithLabelValues(pass).Observe(d.Seconds())
}

func (m *Metrics) ObserveRun(err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.RunsTotal.WithLabelValues(status).Inc()
}

// WriteTextfile dumps the registry in the node-exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || strings.TrimSpace(path) == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("observability: write metrics textfile: %w", err)
	}
	return nil
}
