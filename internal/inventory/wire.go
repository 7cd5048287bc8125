//go:build wireinject
// +build wireinject

package inventory

import (
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	httpDelivery "github.com/oakbarn/farmstand/internal/inventory/delivery/http"
	"github.com/oakbarn/farmstand/internal/inventory/domain"
	"github.com/oakbarn/farmstand/internal/inventory/repository"
	"github.com/oakbarn/farmstand/internal/inventory/validation"
	"github.com/oakbarn/farmstand/pkg/monitoring"
)

// ProvideItemRepository provides the item repository wrapped with tracing
func ProvideItemRepository(db *gorm.DB) domain.ItemRepository {
	return repository.NewTracingItemRepository(repository.NewGormItemRepository(db))
}

// ProvideMovementRepository provides the append-only movement repository
func ProvideMovementRepository(db *gorm.DB) domain.MovementRepository {
	return repository.NewGormMovementRepository(db)
}

// ProvideAckStore provides the alert acknowledgment store
func ProvideAckStore(client *redis.Client) domain.AlertAckStore {
	return repository.NewRedisAckStore(client)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideItemRepository,
	ProvideMovementRepository,
	ProvideAckStore,
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, redisClient *redis.Client, monitor monitoring.Monitor, notifier domain.WorkflowNotifier) *httpDelivery.InventoryHandler {
	wire.Build(
		RepositorySet,
		validation.NewGateway,
		httpDelivery.NewInventoryHandler,
	)
	return nil
}
