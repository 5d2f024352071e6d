package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestChannel(t *testing.T) {
	require.Equal(t, "loansx:parallel:position.updated", Channel("parallel", PositionUpdatedEvent))
	require.Equal(t, "loansx:parallel:block.snapshotted", Channel("parallel", BlockSnapshottedEvent))
}

func TestDisabledClientIsNoop(t *testing.T) {
	t.Setenv("REDIS_ENABLED", "false")
	c, err := NewClient(context.Background(), zap.NewNop(), "parallel")
	require.NoError(t, err)
	require.Nil(t, c)

	c.Publish(context.Background(), BlockSnapshottedEvent, BlockSnapshotted{Height: 1})
	require.NoError(t, c.Health(context.Background()))
	require.NoError(t, c.Close())
}

func TestPublishFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	c := NewFromClient(rdb, zap.New(core), "parallel")
	defer func() { _ = c.Close() }()

	c.Publish(context.Background(), BlockSnapshottedEvent, BlockSnapshotted{Height: 42, Policy: "Hourly", Assets: 3})

	entries := logs.FilterMessage("Failed to publish Redis message").All()
	require.Len(t, entries, 1)
	require.Equal(t, "loansx:parallel:block.snapshotted", entries[0].ContextMap()["channel"])
}

func TestPublishUnencodableIsLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	c := NewFromClient(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}), zap.New(core), "parallel")
	defer func() { _ = c.Close() }()

	c.Publish(context.Background(), PositionUpdatedEvent, make(chan int))
	require.Equal(t, 1, logs.FilterMessage("Failed to encode Redis message").Len())
}
