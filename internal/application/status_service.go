package application

import (
	"context"

	"github.com/bnema/animation-wardrobe/internal/domain"
	"github.com/bnema/animation-wardrobe/internal/ports"
)

type StatusService struct {
	gateway   *Gateway
	entries   *EntryService
	scheduler *Scheduler
	clock     ports.Clock
}

func NewStatusService(gateway *Gateway, entries *EntryService, scheduler *Scheduler, clock ports.Clock) *StatusService {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &StatusService{gateway: gateway, entries: entries, scheduler: scheduler, clock: clock}
}

func (s *StatusService) Status(ctx context.Context) (Status, error) {
	status := Status{CheckedAt: s.clock.Now()}

	probe := s.gateway.Probe(ctx)
	status.Service = ServiceStatus{
		Available:  probe.Available,
		Version:    probe.Version,
		Enabled:    probe.Enabled,
		Collection: domain.NoCollection,
	}
	if probe.Err != nil {
		status.Service.Error = probe.Err.Error()
	}

	catalog := domain.ModCatalog{}
	if probe.Available {
		snapshot := s.gateway.Snapshot(ctx)
		status.Service.Collection = snapshot.Collection
		catalog = snapshot.Catalog
		status.Service.ModCount = len(catalog)
	}

	entries, err := s.entries.List(ctx)
	if err != nil {
		return Status{}, err
	}
	settings, err := s.entries.Settings(ctx)
	if err != nil {
		return Status{}, err
	}

	for _, group := range GroupByCategory(entries, settings.Categories) {
		statusGroup := EntryGroup{Category: group[0].Category, Entries: make([]EntryStatus, 0, len(group))}
		for _, entry := range group {
			_, resolved := catalog.Resolve(entry.ModName)
			statusGroup.Entries = append(statusGroup.Entries, EntryStatus{Entry: entry, Resolved: resolved})
		}
		status.Groups = append(status.Groups, statusGroup)
	}

	if s.scheduler != nil {
		status.Pending = s.scheduler.Pending()
	}

	return status, nil
}
