package temporal

import (
	"context"
	"fmt"
	"time"

	"github.com/loansx/loansx/pkg/retry"
	"github.com/loansx/loansx/pkg/utils"
	"go.uber.org/zap"

	"go.temporal.io/api/enums/v1"
	taskqueuepb "go.temporal.io/api/taskqueue/v1"
	workflowservicepb "go.temporal.io/api/workflowservice/v1"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/log"
)

// Workflow names registered by the indexer worker.
const (
	IndexBlockWorkflowName = "IndexBlockWorkflow"
	HeadScanWorkflowName   = "HeadScanWorkflow"
)

// Client is the Temporal connection of one chain's indexer.
type Client struct {
	TClient   client.Client
	Namespace string
	ChainID   string

	// IndexerQueue is index:<chain>; workflows and activities share it.
	IndexerQueue string
	// HeadScanWorkflowID is fixed per chain so overlapping cron ticks are rejected.
	HeadScanWorkflowID   string
	IndexBlockWorkflowID string
}

type Health struct {
	ConnectionOK bool                      `json:"connection_ok"`
	IndexerQueue []*taskqueuepb.PollerInfo `json:"indexer_queue"`
}

func NewClient(ctx context.Context, logger *zap.Logger, chainID string) (*Client, error) {
	host := utils.Env("TEMPORAL_HOSTPORT", "localhost:7233")
	ns := utils.Env("TEMPORAL_NAMESPACE", "loansx")
	adapter := NewZapAdapter(logger)

	connCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	logger.Info("Connecting to Temporal", zap.String("host", host), zap.String("namespace", ns))
	var tClient client.Client
	err := retry.WithBackoff(connCtx, retry.DefaultConfig(), logger, "temporal_connection", func() error {
		c, err := Dial(connCtx, host, ns, adapter)
		if err != nil {
			return err
		}
		if _, err = c.CheckHealth(connCtx, nil); err != nil {
			c.Close()
			return err
		}
		tClient = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return New(tClient, ns, chainID), nil
}

// New wraps an established SDK client.
func New(tClient client.Client, namespace, chainID string) *Client {
	return &Client{
		TClient:              tClient,
		Namespace:            namespace,
		ChainID:              chainID,
		IndexerQueue:         fmt.Sprintf("index:%s", chainID),
		HeadScanWorkflowID:   fmt.Sprintf("%s:headscan", chainID),
		IndexBlockWorkflowID: "%s:index:%d",
	}
}

// Dial connects to Temporal using the provided hostPort and namespace.
func Dial(ctx context.Context, hostPort, namespace string, logger log.Logger) (client.Client, error) {
	return client.DialContext(
		ctx,
		client.Options{
			HostPort:  hostPort,
			Namespace: namespace,
			Logger:    logger,
		},
	)
}

// GetIndexBlockWorkflowID is deterministic per height so a height is indexed at most once at a time.
func (c *Client) GetIndexBlockWorkflowID(height uint64) string {
	return fmt.Sprintf(c.IndexBlockWorkflowID, c.ChainID, height)
}

// Health reports the pollers of the indexer queue.
func (c *Client) Health(ctx context.Context) (Health, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	if _, err := c.TClient.CheckHealth(ctx, nil); err != nil {
		return Health{}, err
	}
	h := Health{ConnectionOK: true}
	if svc := c.TClient.WorkflowService(); svc != nil {
		if rep, err := svc.DescribeTaskQueue(ctx, &workflowservicepb.DescribeTaskQueueRequest{
			Namespace:     c.Namespace,
			TaskQueue:     &taskqueuepb.TaskQueue{Name: c.IndexerQueue},
			TaskQueueType: enums.TASK_QUEUE_TYPE_WORKFLOW,
		}); err == nil {
			h.IndexerQueue = rep.GetPollers()
		}
	}
	return h, nil
}

func (c *Client) Close() {
	if c.TClient != nil {
		c.TClient.Close()
	}
}
