package temporal

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNames(t *testing.T) {
	c := New(nil, "loansx", "parallel")
	require.Equal(t, "index:parallel", c.IndexerQueue)
	require.Equal(t, "parallel:headscan", c.HeadScanWorkflowID)
	require.Equal(t, "parallel:index:42", c.GetIndexBlockWorkflowID(42))
	c.Close()
}

func TestZapAdapter(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	a := NewZapAdapter(zap.New(core))

	a.Info("worker started", "TaskQueue", "index:parallel")
	a.With("WorkflowID", "parallel:headscan").Warn("retrying")

	all := logs.All()
	require.Len(t, all, 2)
	require.Equal(t, "temporal", all[0].LoggerName)
	require.Equal(t, "index:parallel", all[0].ContextMap()["TaskQueue"])
	require.Equal(t, zap.WarnLevel, all[1].Level)
	require.Equal(t, "parallel:headscan", all[1].ContextMap()["WorkflowID"])
}
