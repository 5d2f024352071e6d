package lending

import (
	"context"
	"fmt"
	"time"

	"github.com/loansx/loansx/pkg/db/clickhouse"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DB is the ClickHouse implementation of Store. It implements Store.
type DB struct {
	clickhouse.Client
	Name    string
	ChainID string
}

// New connects to ClickHouse and makes sure the database and every table exist.
// dbName is combined with the chain id so several chains can share one server.
func New(ctx context.Context, logger *zap.Logger, dbName, chainID string) (*DB, error) {
	name := clickhouse.SanitizeName(fmt.Sprintf("%s_%s", dbName, chainID))

	client, err := clickhouse.New(ctx, logger.With(
		zap.String("db", name),
		zap.String("chainId", chainID),
	), name, clickhouse.GetPoolConfigForComponent("indexer"))
	if err != nil {
		return nil, err
	}

	db := &DB{Client: client, Name: name, ChainID: chainID}
	if err := db.InitializeDB(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

func (db *DB) DatabaseName() string {
	return db.Name
}

// Close terminates the underlying ClickHouse connection.
func (db *DB) Close() error {
	return db.Db.Close()
}

// InitializeDB creates the database and then all tables concurrently.
func (db *DB) InitializeDB(ctx context.Context) error {
	start := time.Now()
	if err := db.CreateDbIfNotExists(ctx, db.Name); err != nil {
		return fmt.Errorf("failed to create database %s: %w", db.Name, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, spec := range tableSpecs {
		g.Go(func() error {
			if err := db.Exec(gctx, spec.DDL(db.Name)); err != nil {
				return fmt.Errorf("create %s: %w", spec.Name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	db.Logger.Info("database initialized",
		zap.String("database", db.Name),
		zap.Int("tables", len(tableSpecs)),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}
