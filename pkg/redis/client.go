package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/loansx/loansx/pkg/retry"
	"github.com/loansx/loansx/pkg/utils"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	PositionUpdatedEvent  = "position.updated"
	BlockSnapshottedEvent = "block.snapshotted"
)

// Channel returns the pub/sub channel of an event for a chain, e.g. loansx:<chain>:position.updated.
func Channel(chainID, event string) string {
	return fmt.Sprintf("loansx:%s:%s", chainID, event)
}

// BlockSnapshotted is published after a qualifying snapshot pass finished its writes.
type BlockSnapshotted struct {
	Height   uint64   `json:"height"`
	Policy   string   `json:"policy"`
	EndOfDay bool     `json:"endOfDay"`
	Assets   int      `json:"assets"`
	Failed   []uint32 `json:"failed,omitempty"`
}

// Client publishes real-time notifications. Publishing is best-effort: failures are
// logged and never returned. A nil *Client is a valid no-op publisher.
type Client struct {
	client  *redis.Client
	logger  *zap.Logger
	chainID string
}

// NewClient connects using REDIS_HOST, REDIS_PORT, REDIS_PASSWORD and REDIS_DB.
// It returns a nil client when REDIS_ENABLED is false.
func NewClient(ctx context.Context, logger *zap.Logger, chainID string) (*Client, error) {
	if !utils.EnvBool("REDIS_ENABLED", false) {
		logger.Info("Redis publishing disabled")
		return nil, nil
	}
	addr := fmt.Sprintf("%s:%s", utils.Env("REDIS_HOST", "localhost"), utils.Env("REDIS_PORT", "6379"))
	db := utils.EnvInt("REDIS_DB", 0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: utils.Env("REDIS_PASSWORD", ""),
		DB:       db,

		PoolSize:     10,
		MinIdleConns: 2,

		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	cfg := retry.DefaultConfig()
	cfg.MaxRetries = 3
	err := retry.WithBackoff(ctx, cfg, logger, "redis_connection", func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return rdb.Ping(pingCtx).Err()
	})
	if err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	logger.Info("Connected to Redis", zap.String("addr", addr), zap.Int("db", db))
	return NewFromClient(rdb, logger, chainID), nil
}

// NewFromClient wraps an existing go-redis client.
func NewFromClient(rdb *redis.Client, logger *zap.Logger, chainID string) *Client {
	return &Client{client: rdb, logger: logger, chainID: chainID}
}

func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

// Health pings the server; a disabled publisher is always healthy.
func (c *Client) Health(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Publish marshals message as JSON and publishes it on the chain channel of event.
func (c *Client) Publish(ctx context.Context, event string, message any) {
	if c == nil {
		return
	}
	channel := Channel(c.chainID, event)
	payload, err := json.Marshal(message)
	if err != nil {
		c.logger.Warn("Failed to encode Redis message", zap.String("channel", channel), zap.Error(err))
		return
	}
	if err := c.client.Publish(ctx, channel, payload).Err(); err != nil {
		c.logger.Warn("Failed to publish Redis message",
			zap.String("channel", channel),
			zap.Error(err))
	}
}
