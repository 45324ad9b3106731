package observability

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()
	m.ObserveNodes("Character", 4)
	m.ObserveNodes("Character", 0)
	m.ObserveEdges("LIVES_IN", 3, 1)
	m.ObservePass("nodes:characters", 25*time.Millisecond)
	m.ObserveRun(nil)
	m.ObserveRun(errors.New("boom"))

	assert.Equal(t, 4.0, testutil.ToFloat64(m.NodesUpserted.WithLabelValues("Character")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.EdgesLinked.WithLabelValues("LIVES_IN")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EdgesMissing.WithLabelValues("LIVES_IN")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("error")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.PassDuration))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveNodes("Character", 1)
	m.ObserveEdges("LIVES_IN", 1, 1)
	m.ObservePass("x", time.Second)
	m.ObserveRun(nil)
	assert.NoError(t, m.WriteTextfile("/nonexistent/worldgraph.prom"))
	assert.Nil(t, m.Registry())
}

func TestWriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.ObserveNodes("Tools", 2)
	path := filepath.Join(t.TempDir(), "worldgraph.prom")

	require.NoError(t, m.WriteTextfile(path))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `worldgraph_nodes_upserted_total{label="Tools"} 2`)
}
