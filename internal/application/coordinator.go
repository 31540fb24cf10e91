package application

import (
	"context"

	"github.com/bnema/animation-wardrobe/internal/domain"
	"github.com/bnema/animation-wardrobe/internal/ports"
	"github.com/rs/zerolog"
)

// Mutation records what one activation attempted for one entry's mod.
type Mutation struct {
	EntryID  domain.EntryID
	ModName  string
	ModID    domain.ModID
	State    domain.ModState
	Resolved bool
	Applied  bool
}

type ActivationReport struct {
	Entry            domain.ModEntry
	ServiceAvailable bool
	Collection       domain.CollectionSnapshot
	Mutations        []Mutation
	Command          string
	Pending          *domain.PendingCommand
}

// Coordinator turns one entry activation into mod state changes, an animation command and an
// optional delayed pose command. It never fails: every external call is contained.
type Coordinator struct {
	gateway   *Gateway
	sink      ports.CommandSink
	scheduler *Scheduler
	settings  ports.SettingsRepository
	log       zerolog.Logger
}

func NewCoordinator(gateway *Gateway, sink ports.CommandSink, scheduler *Scheduler, settings ports.SettingsRepository, logger zerolog.Logger) *Coordinator {
	return &Coordinator{
		gateway:   gateway,
		sink:      sink,
		scheduler: scheduler,
		settings:  settings,
		log:       logger.With().Str("component", "coordinator").Logger(),
	}
}

func (c *Coordinator) Activate(ctx context.Context, entry domain.ModEntry, all []domain.ModEntry) ActivationReport {
	report := ActivationReport{Entry: entry, Collection: domain.NoCollection}
	log := c.log.With().Str("entry", entry.DisplayLabel()).Str("animation", entry.Animation).Logger()

	report.ServiceAvailable = c.gateway.IsAvailable(ctx)
	if report.ServiceAvailable {
		snapshot := c.gateway.Snapshot(ctx)
		report.Collection = snapshot.Collection
		if snapshot.Collection.IsNone() {
			log.Warn().Msg("no current collection, skipping mod changes")
		} else {
			report.Mutations = c.applyModStates(ctx, log, entry, all, snapshot)
		}
	} else {
		log.Warn().Msg("mod service unavailable, skipping mod changes")
	}

	if entry.HasAnimation() {
		report.Command = domain.AnimationCommand(entry.Animation)
		log.Info().Str("command", report.Command).Msg("executing animation")
		if err := c.sink.Submit(ctx, report.Command); err != nil {
			log.Warn().Err(err).Str("command", report.Command).Msg("animation command failed")
		}
	}

	if entry.WantsPose() {
		delay := c.loadSettings(ctx).PoseDelay(entry.Animation)
		pending := c.scheduler.Enqueue(domain.PoseCommand(entry.Pose), delay)
		report.Pending = &pending
		log.Info().Int("pose", entry.Pose).Dur("delay", delay).Msg("scheduled pose")
	}

	return report
}

func (c *Coordinator) applyModStates(ctx context.Context, log zerolog.Logger, entry domain.ModEntry, all []domain.ModEntry, snapshot Snapshot) []Mutation {
	if !entry.HasAnimation() {
		mutation := c.apply(ctx, log, entry, domain.ModStateEnable, snapshot)
		return []Mutation{mutation}
	}

	group := domain.EmoteGroup(all, entry.Animation)
	if !containsEntry(group, entry) {
		group = append(group, entry)
	}

	mutations := make([]Mutation, 0, len(group))
	for _, member := range group {
		state := domain.ModStateDisable
		if member.ModName == entry.ModName {
			state = domain.ModStateEnable
		}
		mutations = append(mutations, c.apply(ctx, log, member, state, snapshot))
	}

	return mutations
}

func (c *Coordinator) apply(ctx context.Context, log zerolog.Logger, member domain.ModEntry, state domain.ModState, snapshot Snapshot) Mutation {
	mutation := Mutation{EntryID: member.ID, ModName: member.ModName, State: state}

	id, ok := snapshot.Resolve(member.ModName)
	if !ok {
		event := log.Info().Str("mod", member.ModName)
		if suggestion, found := snapshot.Catalog.Suggest(member.ModName); found {
			event = event.Str("did_you_mean", suggestion)
		}
		event.Msg("mod not found in catalog, skipping")
		return mutation
	}

	mutation.ModID = id
	mutation.Resolved = true
	mutation.Applied = c.gateway.SetModState(ctx, snapshot.Collection.ID, id, member.ModName, state)

	if state == domain.ModStateEnable && log.GetLevel() <= zerolog.DebugLevel {
		log.Debug().Str("mod", member.ModName).Strs("changes", c.gateway.AffectedNames(ctx, id, member.ModName)).Msg("mod changes")
	}

	return mutation
}

func (c *Coordinator) loadSettings(ctx context.Context) domain.Settings {
	if c.settings == nil {
		return domain.DefaultSettings()
	}

	settings, err := c.settings.Get(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("could not load settings, using defaults")
		return domain.DefaultSettings()
	}

	return settings
}

func containsEntry(entries []domain.ModEntry, entry domain.ModEntry) bool {
	for _, candidate := range entries {
		if candidate == entry {
			return true
		}
	}

	return false
}
