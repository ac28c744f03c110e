package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/elemming-specialisterne/uge8-OrderDocker/internal/domain"
	"github.com/elemming-specialisterne/uge8-OrderDocker/internal/service/catalog"
	"github.com/elemming-specialisterne/uge8-OrderDocker/internal/storage/memory"
	"github.com/elemming-specialisterne/uge8-OrderDocker/internal/storage/postgres"
)

// defaultUsers — демонстрационный реестр пользователей. В памяти он
// и есть хранилище; в postgres дозаписывается при старте.
var defaultUsers = []domain.User{
	{ID: 1, Name: "alice"},
	{ID: 2, Name: "bob"},
	{ID: 3, Name: "carol"},
}

// Dependencies содержит все зависимости приложения.
type Dependencies struct {
	Orders      domain.OrderRepository
	Users       domain.UserRepository
	Outbox      domain.OutboxRepository
	Idempotency domain.IdempotencyRepository
	Catalog     domain.ProductCatalog
	Store       *postgres.Store
	Logger      *log.Entry
}

// NewDependencies собирает зависимости согласно выбранному драйверу хранилища.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	deps := &Dependencies{
		Logger: logger,
		Catalog: catalog.NewClient(
			cfg.CatalogURL,
			catalog.WithTimeout(cfg.CatalogTimeout),
			catalog.WithLogger(logger.WithField("component", "catalog-client")),
		),
	}

	switch cfg.StorageDriver {
	case StorageDriverPostgres:
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}

		users := postgres.NewUserRepository(store)
		if err := users.Seed(ctx, defaultUsers); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("seed users: %w", err)
		}

		deps.Store = store
		deps.Orders = postgres.NewOrderRepository(store)
		deps.Users = users
		deps.Outbox = postgres.NewOutboxRepository(store)
		deps.Idempotency = postgres.NewIdempotencyRepository(store)
		logger.Info("using postgres storage")

	case StorageDriverMemory:
		deps.Orders = memory.NewOrderRepository()
		deps.Users = memory.NewUserRepository(defaultUsers...)
		deps.Outbox = memory.NewOutboxRepository()
		deps.Idempotency = memory.NewIdempotencyRepository()
		logger.Info("using in-memory storage")

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}

	return deps, nil
}

// Close освобождает ресурсы зависимостей.
func (d *Dependencies) Close() {
	if d == nil {
		return
	}
	if d.Store != nil {
		if err := d.Store.Close(); err != nil {
			d.Logger.WithError(err).Warn("failed to close postgres store")
		}
	}
}
