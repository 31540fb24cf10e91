package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bnema/animation-wardrobe/internal/domain"
	"github.com/bnema/animation-wardrobe/internal/ports"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const DefaultMinApiVersion = 4

var (
	errNoModSettings   = errors.New("service returned no settings for mod")
	errNoCollection    = errors.New("no target collection")
	errUnsupportedMode = errors.New("unsupported mod state")
)

type GatewayConfig struct {
	MinVersion int
	// AvailabilityTTL caches the IsAvailable verdict; zero queries the service every time.
	AvailabilityTTL time.Duration
}

// Availability is one uncached probe of the service.
type Availability struct {
	Version   int
	Enabled   bool
	Available bool
	Err       error
}

type availabilityState int

const (
	availabilityUnknown availabilityState = iota
	availabilityUp
	availabilityDown
)

// Gateway is the defensive adapter over the mod service. None of its methods return transport
// errors; failures become false, empty or sentinel values and are logged here.
type Gateway struct {
	svc    ports.ModService
	events ports.ServiceEventSource
	clock  ports.Clock
	log    zerolog.Logger
	cfg    GatewayConfig

	mu        sync.Mutex
	cached    bool
	available bool
	checkedAt time.Time
	state     availabilityState
	observers map[int]func(domain.ServiceEvent)
	nextID    int
}

func NewGateway(svc ports.ModService, events ports.ServiceEventSource, clock ports.Clock, logger zerolog.Logger, cfg GatewayConfig) *Gateway {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if cfg.MinVersion <= 0 {
		cfg.MinVersion = DefaultMinApiVersion
	}

	return &Gateway{
		svc:       svc,
		events:    events,
		clock:     clock,
		log:       logger.With().Str("component", "gateway").Logger(),
		cfg:       cfg,
		observers: map[int]func(domain.ServiceEvent){},
	}
}

func (g *Gateway) IsAvailable(ctx context.Context) bool {
	now := g.clock.Now()

	g.mu.Lock()
	if g.cached && g.cfg.AvailabilityTTL > 0 && now.Sub(g.checkedAt) < g.cfg.AvailabilityTTL {
		available := g.available
		g.mu.Unlock()
		return available
	}
	g.mu.Unlock()

	probe := g.Probe(ctx)

	g.mu.Lock()
	g.cached = true
	g.available = probe.Available
	g.checkedAt = now
	g.recordTransitionLocked(probe)
	g.mu.Unlock()

	return probe.Available
}

// Probe queries version and enabled state without touching the cache.
func (g *Gateway) Probe(ctx context.Context) Availability {
	var result Availability

	err := guard("query api version", func() error {
		version, err := g.svc.ApiVersion(ctx)
		result.Version = version
		return err
	})
	if err == nil {
		err = guard("query enabled state", func() error {
			enabled, err := g.svc.EnabledState(ctx)
			result.Enabled = enabled
			return err
		})
	}

	result.Err = err
	result.Available = err == nil && result.Version >= g.cfg.MinVersion && result.Enabled
	g.log.Debug().
		Int("version", result.Version).
		Bool("enabled", result.Enabled).
		Bool("available", result.Available).
		AnErr("error", err).
		Msg("availability probe")

	return result
}

func (g *Gateway) recordTransitionLocked(probe Availability) {
	next := availabilityDown
	if probe.Available {
		next = availabilityUp
	}
	if next == g.state {
		return
	}
	g.state = next

	if probe.Available {
		g.log.Info().Int("version", probe.Version).Msg("mod service available")
		return
	}

	event := g.log.Warn().Int("version", probe.Version).Int("min_version", g.cfg.MinVersion).Bool("enabled", probe.Enabled)
	if probe.Err != nil {
		event = event.Err(probe.Err)
	}
	event.Msg("mod service unavailable")
}

// Invalidate drops the cached availability verdict.
func (g *Gateway) Invalidate() {
	g.mu.Lock()
	g.cached = false
	g.mu.Unlock()
}

func (g *Gateway) ModCatalog(ctx context.Context) domain.ModCatalog {
	var mods map[string]string
	err := guard("get mod list", func() error {
		var err error
		mods, err = g.svc.ModList(ctx)
		return err
	})
	if err != nil {
		g.log.Debug().Err(err).Msg("could not get mod list")
		return domain.ModCatalog{}
	}

	catalog := make(domain.ModCatalog, len(mods))
	for path, name := range mods {
		catalog[domain.ModID(path)] = name
	}

	return catalog
}

func (g *Gateway) Collections(ctx context.Context) map[uuid.UUID]string {
	var collections map[uuid.UUID]string
	err := guard("get collections", func() error {
		var err error
		collections, err = g.svc.Collections(ctx)
		return err
	})
	if err != nil || collections == nil {
		if err != nil {
			g.log.Debug().Err(err).Msg("could not get collections")
		}
		return map[uuid.UUID]string{}
	}

	return collections
}

// CurrentCollection resolves the collection applied to the player, or domain.NoCollection.
func (g *Gateway) CurrentCollection(ctx context.Context) domain.CollectionSnapshot {
	var current *domain.CollectionSnapshot
	err := guard("get current collection", func() error {
		var err error
		current, err = g.svc.CurrentCollection(ctx, domain.CollectionTypeYourself)
		return err
	})
	if err != nil {
		g.log.Debug().Err(err).Msg("could not get current collection")
		return domain.NoCollection
	}
	if current == nil || current.IsNone() {
		return domain.NoCollection
	}

	return *current
}

func (g *Gateway) SetCollection(ctx context.Context, id uuid.UUID) bool {
	var (
		code     domain.ApiErrorCode
		assigned *domain.CollectionSnapshot
	)
	err := guard("set collection", func() error {
		var err error
		code, assigned, err = g.svc.SetCollection(ctx, domain.CollectionTypeYourself, id, true, true)
		return err
	})
	if err != nil {
		g.log.Warn().Err(err).Stringer("collection", id).Msg("could not set collection")
		return false
	}

	event := g.log.Info().Stringer("collection", id).Stringer("result", code)
	if assigned != nil {
		event = event.Str("previous", assigned.Name)
	}
	event.Msg("set collection")

	return code.Ok()
}

// SetModState drives one mod in one collection to the requested state.
func (g *Gateway) SetModState(ctx context.Context, collection uuid.UUID, mod domain.ModID, modName string, state domain.ModState) bool {
	var code domain.ApiErrorCode
	err := guard("set mod state", func() error {
		if collection == uuid.Nil {
			return errNoCollection
		}

		var err error
		switch state {
		case domain.ModStateEnable, domain.ModStateDisable:
			code, err = g.svc.TrySetMod(ctx, collection, string(mod), modName, state == domain.ModStateEnable)
		case domain.ModStateInherit:
			code, err = g.svc.TryInheritMod(ctx, collection, string(mod), modName, true)
		case domain.ModStateToggle:
			code, err = g.toggle(ctx, collection, mod, modName)
		default:
			return fmt.Errorf("%w: %s", errUnsupportedMode, state)
		}
		return err
	})
	if err != nil {
		g.log.Warn().Err(err).Str("mod", modName).Stringer("state", state).Msg("could not set mod state")
		return false
	}

	ok := code.Ok()
	event := g.log.Info()
	if !ok {
		event = g.log.Warn()
	}
	event.
		Str("mod", modName).
		Str("mod_id", string(mod)).
		Stringer("collection", collection).
		Stringer("state", state).
		Stringer("result", code).
		Msg("set mod state")

	return ok
}

func (g *Gateway) toggle(ctx context.Context, collection uuid.UUID, mod domain.ModID, modName string) (domain.ApiErrorCode, error) {
	code, settings, err := g.svc.CurrentModSettings(ctx, collection, string(mod), modName, false)
	if err != nil {
		return code, fmt.Errorf("get current mod settings: %w", err)
	}
	if code != domain.ApiSuccess {
		return code, fmt.Errorf("get current mod settings: %s", code)
	}
	if settings == nil {
		return code, errNoModSettings
	}

	return g.svc.TrySetMod(ctx, collection, string(mod), modName, !settings.Enabled)
}

// AffectedNames lists what a mod changes, for diagnostics only.
func (g *Gateway) AffectedNames(ctx context.Context, mod domain.ModID, modName string) []string {
	var items map[string]any
	err := guard("get changed items", func() error {
		var err error
		items, err = g.svc.ChangedItems(ctx, string(mod), modName)
		return err
	})
	if err != nil {
		g.log.Debug().Err(err).Str("mod", modName).Msg("could not get changed items")
		return []string{}
	}

	names := make([]string, 0, len(items))
	for name := range items {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Subscribe registers an observer for lifecycle events. Call the returned func to unregister.
func (g *Gateway) Subscribe(observer func(domain.ServiceEvent)) func() {
	g.mu.Lock()
	id := g.nextID
	g.nextID++
	g.observers[id] = observer
	g.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.observers, id)
			g.mu.Unlock()
		})
	}
}

// Watch consumes lifecycle events until ctx ends.
func (g *Gateway) Watch(ctx context.Context) error {
	if g.events == nil {
		<-ctx.Done()
		return nil
	}

	err := g.events.WatchEvents(ctx, g.HandleEvent)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watch service events: %w", err)
	}

	return nil
}

// HandleEvent invalidates cached availability and forwards the event to observers.
func (g *Gateway) HandleEvent(event domain.ServiceEvent) {
	g.Invalidate()
	g.log.Info().Str("event", string(event)).Msg("mod service lifecycle event")

	g.mu.Lock()
	observers := make([]func(domain.ServiceEvent), 0, len(g.observers))
	for _, observer := range g.observers {
		observers = append(observers, observer)
	}
	g.mu.Unlock()

	for _, observer := range observers {
		observer(event)
	}
}

func guard(op string, fn func() error) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("%s: panic: %v", op, recovered)
		}
	}()

	if err := fn(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
