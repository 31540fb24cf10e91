package ports

import (
	"context"

	"github.com/bnema/animation-wardrobe/internal/domain"
	"github.com/google/uuid"
)

// ModService is the mod-management service's versioned RPC surface.
type ModService interface {
	ApiVersion(ctx context.Context) (int, error)
	EnabledState(ctx context.Context) (bool, error)
	ModList(ctx context.Context) (map[string]string, error)
	Collections(ctx context.Context) (map[uuid.UUID]string, error)
	// CurrentCollection returns nil when no collection is assigned to the given type.
	CurrentCollection(ctx context.Context, kind domain.CollectionType) (*domain.CollectionSnapshot, error)
	SetCollection(ctx context.Context, kind domain.CollectionType, id uuid.UUID, allowCreate, allowDelete bool) (domain.ApiErrorCode, *domain.CollectionSnapshot, error)
	// CurrentModSettings returns nil settings when the mod has none in the collection.
	CurrentModSettings(ctx context.Context, collection uuid.UUID, modPath, modName string, ignoreInheritance bool) (domain.ApiErrorCode, *domain.ModSettings, error)
	TrySetMod(ctx context.Context, collection uuid.UUID, modPath, modName string, enabled bool) (domain.ApiErrorCode, error)
	TryInheritMod(ctx context.Context, collection uuid.UUID, modPath, modName string, inherit bool) (domain.ApiErrorCode, error)
	ChangedItems(ctx context.Context, modPath, modName string) (map[string]any, error)
}

// ServiceEventSource delivers the service's lifecycle signals until ctx ends.
type ServiceEventSource interface {
	WatchEvents(ctx context.Context, handle func(domain.ServiceEvent)) error
}
