package application

import (
	"time"

	"github.com/bnema/animation-wardrobe/internal/domain"
)

type EntryStatus struct {
	Entry    domain.ModEntry
	Resolved bool
}

type EntryGroup struct {
	Category string
	Entries  []EntryStatus
}

type ServiceStatus struct {
	Available  bool
	Version    int
	Enabled    bool
	Error      string
	Collection domain.CollectionSnapshot
	ModCount   int
}

type Status struct {
	Service   ServiceStatus
	Groups    []EntryGroup
	Pending   []domain.PendingCommand
	CheckedAt time.Time
}
