package indexer

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/gorilla/mux"
	"github.com/loansx/loansx/app/indexer/activity"
	"github.com/loansx/loansx/app/indexer/types"
	"github.com/loansx/loansx/app/indexer/workflow"
	lendingstore "github.com/loansx/loansx/pkg/db/lending"
	"github.com/loansx/loansx/pkg/loans"
	"github.com/loansx/loansx/pkg/logging"
	"github.com/loansx/loansx/pkg/metrics"
	"github.com/loansx/loansx/pkg/redis"
	"github.com/loansx/loansx/pkg/rpc"
	"github.com/loansx/loansx/pkg/temporal"
	"github.com/loansx/loansx/pkg/utils"
	"github.com/robfig/cron/v3"
	"go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	temporalworkflow "go.temporal.io/sdk/workflow"
	"go.uber.org/zap"
)

type App struct {
	Worker         worker.Worker
	TemporalClient *temporal.Client
	Store          lendingstore.Store
	Redis          *redis.Client
	Pool           pond.Pool
	Metrics        *metrics.IndexerMetrics
	Logger         *zap.Logger

	// Cron starts HeadScanWorkflow every CronSpec tick.
	Cron     *cron.Cron
	CronSpec string

	// Server serves /healthz, /readyz and /metrics.
	Server *http.Server
}

// Initialize wires the indexer for CHAIN_ID. Missing infrastructure is fatal.
func Initialize(ctx context.Context) *App {
	logger, err := logging.New()
	if err != nil {
		// nothing else to do here, we'll just log to stderr
		panic(err)
	}

	chainID := utils.Env("CHAIN_ID", "")
	if chainID == "" {
		logger.Fatal("CHAIN_ID environment variable is required")
	}
	logger = logger.With(zap.String("chain", chainID))

	store, err := newStore(ctx, logger, chainID)
	if err != nil {
		logger.Fatal("Unable to initialize lending database", zap.Error(err))
	}

	temporalClient, err := temporal.NewClient(ctx, logger, chainID)
	if err != nil {
		logger.Fatal("Unable to establish temporal connection", zap.Error(err))
	}

	redisClient, err := redis.NewClient(ctx, logger, chainID)
	if err != nil {
		// best-effort: the indexer runs without notifications
		logger.Warn("Redis unavailable, publishing disabled", zap.Error(err))
		redisClient = nil
	}

	rpcClient := rpc.NewHTTPFactory(rpc.Opts{
		RPS:             utils.EnvInt("RPC_RPS", 200),
		Burst:           utils.EnvInt("RPC_BURST", 400),
		BreakerFailures: 10,
		BreakerCooldown: 30 * time.Second,
	}).NewClient(utils.EnvList("RPC_ENDPOINTS", "http://localhost:8080"))

	workers := activity.WorkerParallelism(utils.EnvInt("INDEXER_WORKERS", 0))
	pool := pond.NewPool(workers, pond.WithQueueSize(activity.WorkerQueueSize(workers)))

	m := metrics.New(chainID)
	activityContext := &activity.Context{
		Logger:  logger,
		ChainID: chainID,
		Store:   store,
		RPC:     rpcClient,
		Engine: loans.NewIndexer(loans.Config{
			Logger: logger.Named("loans"),
			Chain:  rpcClient,
			Store:  store,
			Pool:   pool,
		}),
		Redis:   redisClient,
		Metrics: m,
	}
	workflowContext := &workflow.Context{
		TemporalClient:  temporalClient,
		ActivityContext: activityContext,
		Config:          workflow.Config{HeadScanBatch: uint64(utils.EnvInt("HEADSCAN_BATCH", 500))},
	}

	// One worker per chain; heights are processed one at a time by HeadScanWorkflow, so
	// the limits stay small.
	wkr := worker.New(
		temporalClient.TClient,
		temporalClient.IndexerQueue,
		worker.Options{
			MaxConcurrentWorkflowTaskPollers:       4,
			MaxConcurrentActivityTaskPollers:       4,
			MaxConcurrentWorkflowTaskExecutionSize: 64,
			MaxConcurrentActivityExecutionSize:     64,
			WorkerStopTimeout:                      time.Minute,
		},
	)
	wkr.RegisterWorkflowWithOptions(
		workflowContext.IndexBlockWorkflow,
		temporalworkflow.RegisterOptions{Name: temporal.IndexBlockWorkflowName},
	)
	wkr.RegisterWorkflowWithOptions(
		workflowContext.HeadScanWorkflow,
		temporalworkflow.RegisterOptions{Name: temporal.HeadScanWorkflowName},
	)
	wkr.RegisterActivity(activityContext.FetchBlock)
	wkr.RegisterActivity(activityContext.IndexEvents)
	wkr.RegisterActivity(activityContext.SnapshotBlock)
	wkr.RegisterActivity(activityContext.RecordIndexed)
	wkr.RegisterActivity(activityContext.GetLatestHead)
	wkr.RegisterActivity(activityContext.GetLastIndexed)

	app := &App{
		Worker:         wkr,
		TemporalClient: temporalClient,
		Store:          store,
		Redis:          redisClient,
		Pool:           pool,
		Metrics:        m,
		Logger:         logger,
		CronSpec:       utils.Env("HEADSCAN_CRON", "*/6 * * * * *"),
	}
	if err := app.SetupScheduler(ctx); err != nil {
		logger.Fatal("Unable to set up head scan cron", zap.Error(err), zap.String("cronSpec", app.CronSpec))
	}
	app.SetupServer()
	return app
}

// newStore selects the persistence backend. STORE=memory keeps everything in process.
func newStore(ctx context.Context, logger *zap.Logger, chainID string) (lendingstore.Store, error) {
	if utils.Env("STORE", "clickhouse") == "memory" {
		logger.Warn("Using in-memory store, nothing is persisted")
		return lendingstore.NewMemoryStore(), nil
	}
	return lendingstore.New(ctx, logger, utils.Env("CLICKHOUSE_DB", "loansx"), chainID)
}

// SetupScheduler registers the head scan trigger. Each tick tries to start HeadScanWorkflow
// under its fixed id; a tick that finds a scan still running is a no-op.
func (a *App) SetupScheduler(ctx context.Context) error {
	a.Cron = cron.New(cron.WithSeconds(), cron.WithChain(cron.Recover(cron.DefaultLogger)))
	_, err := a.Cron.AddFunc(a.CronSpec, func() {
		rctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		a.startHeadScan(rctx)
	})
	return err
}

func (a *App) startHeadScan(ctx context.Context) {
	_, err := a.TemporalClient.TClient.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:                       a.TemporalClient.HeadScanWorkflowID,
		TaskQueue:                a.TemporalClient.IndexerQueue,
		WorkflowIDReusePolicy:    enums.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
		WorkflowExecutionTimeout: time.Hour,
		// report a running scan instead of attaching to it
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}, temporal.HeadScanWorkflowName, types.HeadScanInput{})

	var started *serviceerror.WorkflowExecutionAlreadyStarted
	switch {
	case err == nil:
		a.Logger.Debug("HeadScan started")
	case errors.As(err, &started):
		a.Logger.Debug("HeadScan still running, tick skipped")
	default:
		a.Logger.Warn("HeadScan start failed", zap.Error(err))
	}
}

// SetupServer sets up the HTTP server.
func (a *App) SetupServer() {
	// use <ip>:<port> to bind to a specific interface or :<port> to bind to all interfaces
	addr := utils.Env("ADDR", ":3003")
	a.Server = &http.Server{Addr: addr, Handler: a.Router(), ReadHeaderTimeout: 5 * time.Second}
}

// Router exposes liveness, readiness and Prometheus metrics.
func (a *App) Router() *mux.Router {
	r := mux.NewRouter()
	r.Handle("/healthz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })).Methods(http.MethodGet)
	r.Handle("/readyz", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if err := a.Ready(req.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})).Methods(http.MethodGet)
	r.Handle("/metrics", a.Metrics.Handler()).Methods(http.MethodGet)
	return r
}

// Ready reports whether the store, Temporal and the optional publisher answer.
func (a *App) Ready(ctx context.Context) error {
	if _, err := a.Store.LastIndexed(ctx); err != nil {
		return err
	}
	if a.TemporalClient != nil && a.TemporalClient.TClient != nil {
		if _, err := a.TemporalClient.Health(ctx); err != nil {
			return err
		}
	}
	return a.Redis.Health(ctx)
}

// Start starts the worker, the cron and the HTTP server, then blocks until ctx is canceled.
func (a *App) Start(ctx context.Context) {
	if err := a.Worker.Start(); err != nil {
		a.Logger.Fatal("Unable to start worker", zap.Error(err))
	}
	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.Error("HTTP server stopped", zap.Error(err))
		}
	}()
	a.Cron.Start()
	a.Logger.Info("Indexer started",
		zap.String("queue", a.TemporalClient.IndexerQueue),
		zap.String("cronSpec", a.CronSpec),
		zap.String("addr", a.Server.Addr),
	)

	<-ctx.Done()
	a.Stop()
}

// Stop drains everything in reverse start order.
func (a *App) Stop() {
	<-a.Cron.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = a.Server.Shutdown(shutdownCtx)

	a.Worker.Stop()
	a.Pool.StopAndWait()
	_ = a.Redis.Close()
	_ = a.Store.Close()
	a.TemporalClient.Close()
	a.Logger.Info("さようなら!")
	_ = a.Logger.Sync()
}
