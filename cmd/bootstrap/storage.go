package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"library-lending/internal/infra"
	"library-lending/internal/infra/db"
	"library-lending/internal/infra/memory"
	"library-lending/internal/infra/mongodb"
	"library-lending/internal/infra/observability"
	"library-lending/internal/infra/postgres"
	"library-lending/internal/pkg/config"
	"library-lending/internal/pkg/errs"
	"library-lending/internal/usecase/shared"

	"go.uber.org/fx"
)

const connectTimeout = 30 * time.Second

var StorageModule = fx.Module("storage",
	fx.Provide(
		NewStorage,
	),
)

// StoragePorts exposes one backend's implementations of every storage port.
type StoragePorts struct {
	fx.Out

	Pool       shared.CapacityPool
	Ledger     shared.BorrowingLedger
	Catalog    shared.ItemCatalog
	Users      shared.UserDirectory
	Sagas      shared.SagaLog
	Statistics shared.StatisticsReadStore
}

func NewStorage(lc fx.Lifecycle, cfg config.Config, metrics *observability.MetricsCollector, logger *slog.Logger) (StoragePorts, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	logger.Info("Initializing storage", "driver", cfg.Storage.Driver)
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		return newPostgresStorage(ctx, lc, cfg, metrics)
	case config.DriverMongo:
		return newMongoStorage(ctx, lc, cfg, metrics)
	case config.DriverMemory:
		return newMemoryStorage(), nil
	default:
		return StoragePorts{}, errs.Newf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}

func newRetrier(cfg config.Config, metrics *observability.MetricsCollector, backend string, classifier infra.TransientClassifier) (*infra.Retrier, error) {
	return infra.NewRetrier(
		infra.WithMaxAttempts(cfg.Storage.RetryMaxAttempts),
		infra.WithBaseDelay(cfg.Storage.RetryBaseDelay),
		infra.WithOpTimeout(cfg.Storage.OpTimeout),
		infra.WithClassifier(classifier),
		infra.WithMetrics(metrics, backend),
	)
}

func newPostgresStorage(ctx context.Context, lc fx.Lifecycle, cfg config.Config, metrics *observability.MetricsCollector) (StoragePorts, error) {
	retrier, err := newRetrier(cfg, metrics, postgres.Backend, postgres.IsTransient)
	if err != nil {
		return StoragePorts{}, err
	}

	pool, closePool, err := db.ConnectPool(ctx, cfg.DB)
	if err != nil {
		return StoragePorts{}, err
	}
	if err := postgres.ApplySchema(ctx, pool); err != nil {
		closePool()
		return StoragePorts{}, err
	}
	reader, closeReader, err := db.ConnectReader(ctx, cfg.DB)
	if err != nil {
		closePool()
		return StoragePorts{}, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			closeReader()
			closePool()
			return nil
		},
	})

	store := postgres.NewStore(pool, retrier)
	return StoragePorts{
		Pool:       postgres.NewCapacityPool(store),
		Ledger:     postgres.NewBorrowingLedger(store),
		Catalog:    postgres.NewItemCatalog(store),
		Users:      postgres.NewUserDirectory(store),
		Sagas:      postgres.NewSagaLog(store),
		Statistics: postgres.NewStatisticsReadStore(reader, retrier),
	}, nil
}

func newMongoStorage(ctx context.Context, lc fx.Lifecycle, cfg config.Config, metrics *observability.MetricsCollector) (StoragePorts, error) {
	retrier, err := newRetrier(cfg, metrics, mongodb.Backend, mongodb.IsTransient)
	if err != nil {
		return StoragePorts{}, err
	}

	client, disconnect, err := mongodb.Connect(ctx, cfg.Mongo)
	if err != nil {
		return StoragePorts{}, err
	}
	database := client.Database(cfg.Mongo.Database)
	if err := mongodb.EnsureIndexes(ctx, database); err != nil {
		disconnect()
		return StoragePorts{}, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			disconnect()
			return nil
		},
	})

	store := mongodb.NewStore(database, retrier)
	return StoragePorts{
		Pool:       mongodb.NewCapacityPool(store),
		Ledger:     mongodb.NewBorrowingLedger(store),
		Catalog:    mongodb.NewItemCatalog(store),
		Users:      mongodb.NewUserDirectory(store),
		Sagas:      mongodb.NewSagaLog(store),
		Statistics: mongodb.NewStatisticsReadStore(store),
	}, nil
}

func newMemoryStorage() StoragePorts {
	store := memory.NewStore()
	return StoragePorts{
		Pool:       memory.NewCapacityPool(store),
		Ledger:     memory.NewBorrowingLedger(store),
		Catalog:    memory.NewItemCatalog(store),
		Users:      memory.NewUserDirectory(store),
		Sagas:      memory.NewSagaLog(store),
		Statistics: memory.NewStatisticsReadStore(store),
	}
}
