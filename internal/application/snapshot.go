package application

import (
	"context"

	"github.com/bnema/animation-wardrobe/internal/domain"
)

// Snapshot is the service state one operation works against. It is fetched fresh and never
// mutated, since the service may switch collections at any time.
type Snapshot struct {
	Collection domain.CollectionSnapshot
	Catalog    domain.ModCatalog
}

func (g *Gateway) Snapshot(ctx context.Context) Snapshot {
	return Snapshot{
		Collection: g.CurrentCollection(ctx),
		Catalog:    g.ModCatalog(ctx),
	}
}

// Resolve maps an entry's mod name to the identifier known to the service.
func (s Snapshot) Resolve(modName string) (domain.ModID, bool) {
	return s.Catalog.Resolve(modName)
}
