package application

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/bnema/animation-wardrobe/internal/domain"
	"github.com/google/uuid"
)

var errServiceDown = errors.New("ipc channel closed")

// fakeModService keeps per-collection enabled flags the way the real service would.
type fakeModService struct {
	mu sync.Mutex

	version     int
	enabled     bool
	versionErr  error
	enabledErr  error
	panicOnList bool
	mods        map[string]string
	collections map[uuid.UUID]string
	current     uuid.UUID
	states      map[uuid.UUID]map[string]bool
	noSettings  bool
	failSet     map[string]domain.ApiErrorCode
	setErr      map[string]error
	events      *eventLog
	changed     map[string]map[string]any
	versionCall int
	setCalls    []string
}

func newFakeModService() *fakeModService {
	collection := uuid.MustParse("8d5f0e46-4b6a-4f4e-9d6f-0f3c2a1b9e01")
	return &fakeModService{
		version:     5,
		enabled:     true,
		mods:        map[string]string{},
		collections: map[uuid.UUID]string{collection: "Default"},
		current:     collection,
		states:      map[uuid.UUID]map[string]bool{collection: {}},
		failSet:     map[string]domain.ApiErrorCode{},
		setErr:      map[string]error{},
		changed:     map[string]map[string]any{},
	}
}

func (f *fakeModService) addMod(path, name string, enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.mods[path] = name
	f.states[f.current][path] = enabled
}

func (f *fakeModService) isEnabled(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.states[f.current][path]
}

func (f *fakeModService) ApiVersion(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.versionCall++
	return f.version, f.versionErr
}

func (f *fakeModService) EnabledState(context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.enabled, f.enabledErr
}

func (f *fakeModService) ModList(context.Context) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.panicOnList {
		panic("mod list unavailable")
	}

	mods := make(map[string]string, len(f.mods))
	for path, name := range f.mods {
		mods[path] = name
	}
	return mods, nil
}

func (f *fakeModService) Collections(context.Context) (map[uuid.UUID]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	collections := make(map[uuid.UUID]string, len(f.collections))
	for id, name := range f.collections {
		collections[id] = name
	}
	return collections, nil
}

func (f *fakeModService) CurrentCollection(context.Context, domain.CollectionType) (*domain.CollectionSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.current == uuid.Nil {
		return nil, nil
	}
	return &domain.CollectionSnapshot{ID: f.current, Name: f.collections[f.current]}, nil
}

func (f *fakeModService) SetCollection(_ context.Context, _ domain.CollectionType, id uuid.UUID, _, _ bool) (domain.ApiErrorCode, *domain.CollectionSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.collections[id]; !ok {
		return domain.ApiCollectionMissing, nil, nil
	}

	previous := &domain.CollectionSnapshot{ID: f.current, Name: f.collections[f.current]}
	if f.current == id {
		return domain.ApiNothingChanged, previous, nil
	}
	f.current = id
	if f.states[id] == nil {
		f.states[id] = map[string]bool{}
	}
	return domain.ApiSuccess, previous, nil
}

func (f *fakeModService) CurrentModSettings(_ context.Context, collection uuid.UUID, modPath, _ string, _ bool) (domain.ApiErrorCode, *domain.ModSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.mods[modPath]; !ok {
		return domain.ApiModMissing, nil, nil
	}
	if f.noSettings {
		return domain.ApiSuccess, nil, nil
	}
	return domain.ApiSuccess, &domain.ModSettings{Enabled: f.states[collection][modPath]}, nil
}

func (f *fakeModService) TrySetMod(_ context.Context, collection uuid.UUID, modPath, _ string, enabled bool) (domain.ApiErrorCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.setCalls = append(f.setCalls, modPath)
	f.events.add("set:" + modPath)
	if err, ok := f.setErr[modPath]; ok {
		return domain.ApiUnknownError, err
	}
	if code, ok := f.failSet[modPath]; ok {
		return code, nil
	}
	if _, ok := f.mods[modPath]; !ok {
		return domain.ApiModMissing, nil
	}
	states, ok := f.states[collection]
	if !ok {
		return domain.ApiCollectionMissing, nil
	}
	if states[modPath] == enabled {
		return domain.ApiNothingChanged, nil
	}
	states[modPath] = enabled
	return domain.ApiSuccess, nil
}

func (f *fakeModService) TryInheritMod(_ context.Context, collection uuid.UUID, modPath, _ string, _ bool) (domain.ApiErrorCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.mods[modPath]; !ok {
		return domain.ApiModMissing, nil
	}
	delete(f.states[collection], modPath)
	return domain.ApiSuccess, nil
}

func (f *fakeModService) ChangedItems(_ context.Context, modPath, _ string) (map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.changed[modPath], nil
}

// eventLog interleaves calls made on different fakes. A nil log records nothing.
type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(event string) {
	if l == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

func (l *eventLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]string(nil), l.events...)
}

type memEntryRepository struct {
	entries []domain.ModEntry
	err     error
}

func (r *memEntryRepository) GetByID(_ context.Context, id domain.EntryID) (domain.ModEntry, error) {
	for _, entry := range r.entries {
		if entry.ID == id {
			return entry, nil
		}
	}
	return domain.ModEntry{}, domain.ErrEntryNotFound
}

func (r *memEntryRepository) List(context.Context) ([]domain.ModEntry, error) {
	if r.err != nil {
		return nil, r.err
	}
	entries := append([]domain.ModEntry(nil), r.entries...)
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}

func (r *memEntryRepository) Save(_ context.Context, entry domain.ModEntry) error {
	for i := range r.entries {
		if r.entries[i].ID == entry.ID {
			r.entries[i] = entry
			return nil
		}
	}
	r.entries = append(r.entries, entry)
	return nil
}

func (r *memEntryRepository) Delete(_ context.Context, id domain.EntryID) error {
	for i := range r.entries {
		if r.entries[i].ID == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return domain.ErrEntryNotFound
}

type memSettingsRepository struct {
	settings domain.Settings
	err      error
}

func newMemSettingsRepository() *memSettingsRepository {
	return &memSettingsRepository{settings: domain.DefaultSettings()}
}

func (r *memSettingsRepository) Get(context.Context) (domain.Settings, error) {
	if r.err != nil {
		return domain.Settings{}, r.err
	}
	return r.settings, nil
}

func (r *memSettingsRepository) Save(_ context.Context, settings domain.Settings) error {
	r.settings = settings
	return nil
}

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
