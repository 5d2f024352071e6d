package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New("parallel")

	m.ObserveEvent("Transfer", false)
	m.ObserveEvent("Transfer", true)
	m.ObserveEvent("", false)
	m.ObserveSnapshot("Hourly", true, 2)
	m.ObserveSnapshot("Blockly", false, 0)
	m.SetLastIndexed(42)

	require.Equal(t, 2.0, testutil.ToFloat64(m.events.WithLabelValues("Transfer")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.eventFailures.WithLabelValues("Transfer")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.events.WithLabelValues("Unknown")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.snapshotDecisions.WithLabelValues("Hourly", "run")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.snapshotDecisions.WithLabelValues("Blockly", "skipped")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.assetFailures))
	require.Equal(t, 42.0, testutil.ToFloat64(m.lastIndexed))
}

func TestHandlerServesText(t *testing.T) {
	m := New("parallel")
	m.ObserveStage("snapshot", 30*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `loansx_block_stage_seconds_count{chain="parallel",stage="snapshot"} 1`)
}

func TestNilIsNoop(t *testing.T) {
	var m *IndexerMetrics
	m.ObserveEvent("Transfer", true)
	m.ObserveSnapshot("Daily", true, 1)
	m.ObserveStage("fetch", time.Second)
	m.SetLastIndexed(1)
}
