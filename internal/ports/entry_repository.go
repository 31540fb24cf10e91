package ports

import (
	"context"

	"github.com/bnema/animation-wardrobe/internal/domain"
)

type EntryRepository interface {
	GetByID(ctx context.Context, id domain.EntryID) (domain.ModEntry, error)
	List(ctx context.Context) ([]domain.ModEntry, error)
	Save(ctx context.Context, entry domain.ModEntry) error
	Delete(ctx context.Context, id domain.EntryID) error
}

type SettingsRepository interface {
	Get(ctx context.Context) (domain.Settings, error)
	Save(ctx context.Context, settings domain.Settings) error
}
