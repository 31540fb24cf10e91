package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bnema/animation-wardrobe/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	commands []string
	err      error
	events   *eventLog
}

func (s *recordingSink) Submit(_ context.Context, text string) error {
	s.commands = append(s.commands, text)
	s.events.add("cmd:" + text)
	return s.err
}

type coordinatorFixture struct {
	svc       *fakeModService
	sink      *recordingSink
	events    *eventLog
	clock     *fixedClock
	scheduler *Scheduler
	settings  *memSettingsRepository
	coord     *Coordinator
}

func newCoordinatorFixture() coordinatorFixture {
	events := &eventLog{}
	svc := newFakeModService()
	svc.events = events
	clock := &fixedClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	sink := &recordingSink{events: events}
	settings := newMemSettingsRepository()
	gateway := NewGateway(svc, nil, clock, zerolog.Nop(), GatewayConfig{})
	scheduler := NewScheduler(sink, clock, zerolog.Nop())

	return coordinatorFixture{
		svc:       svc,
		sink:      sink,
		events:    events,
		clock:     clock,
		scheduler: scheduler,
		settings:  settings,
		coord:     NewCoordinator(gateway, sink, scheduler, settings, zerolog.Nop()),
	}
}

var (
	sit1 = domain.ModEntry{ID: "1", ModName: "Sit A", Label: "Sit1", Animation: "sit", Pose: 2}
	sit2 = domain.ModEntry{ID: "2", ModName: "Sit B", Label: "Sit2", Animation: "sit"}
	wave = domain.ModEntry{ID: "3", ModName: "Wave Fix", Animation: "wave"}
	hat  = domain.ModEntry{ID: "4", ModName: "Big Hat"}
)

func TestCoordinatorSitScenario(t *testing.T) {
	t.Parallel()

	f := newCoordinatorFixture()
	f.svc.addMod("dir-a", "Sit A", false)
	f.svc.addMod("dir-b", "Sit B", true)
	all := []domain.ModEntry{sit1, sit2, wave}

	report := f.coord.Activate(context.Background(), sit1, all)

	assert.True(t, report.ServiceAvailable)
	assert.Equal(t, "Default", report.Collection.Name)
	assert.True(t, f.svc.isEnabled("dir-a"))
	assert.False(t, f.svc.isEnabled("dir-b"))
	assert.Equal(t, []string{"/sit"}, f.sink.commands)
	assert.Equal(t, "/sit", report.Command)

	require.NotNil(t, report.Pending)
	assert.Equal(t, "/dpose 2", report.Pending.Text)
	assert.Equal(t, f.clock.Now().Add(time.Second), report.Pending.Due)
	assert.Equal(t, 1, f.scheduler.Len())

	f.clock.Advance(time.Second)
	assert.Equal(t, 1, f.scheduler.Tick(context.Background(), f.clock.Now()))
	assert.Equal(t, []string{"/sit", "/dpose 2"}, f.sink.commands)
	assert.Equal(t, 0, f.scheduler.Tick(context.Background(), f.clock.Now().Add(time.Minute)))
}

func TestCoordinatorGroupExclusivityIsIdempotent(t *testing.T) {
	t.Parallel()

	f := newCoordinatorFixture()
	f.svc.addMod("dir-a", "Sit A", true)
	f.svc.addMod("dir-b", "Sit B", true)
	all := []domain.ModEntry{sit1, sit2}

	first := f.coord.Activate(context.Background(), sit2, all)
	second := f.coord.Activate(context.Background(), sit2, all)

	for _, report := range []ActivationReport{first, second} {
		require.Len(t, report.Mutations, 2)
		for _, mutation := range report.Mutations {
			assert.True(t, mutation.Applied, mutation.ModName)
		}
	}
	assert.False(t, f.svc.isEnabled("dir-a"))
	assert.True(t, f.svc.isEnabled("dir-b"))
	assert.Nil(t, first.Pending)
}

func TestCoordinatorUnresolvableSibling(t *testing.T) {
	t.Parallel()

	f := newCoordinatorFixture()
	f.svc.addMod("dir-a", "Sit A", false)
	ghost := domain.ModEntry{ID: "9", ModName: "Sit Ghost", Animation: "sit"}

	report := f.coord.Activate(context.Background(), sit1, []domain.ModEntry{sit1, ghost})

	require.Len(t, report.Mutations, 2)
	assert.True(t, report.Mutations[0].Applied)
	assert.False(t, report.Mutations[1].Resolved)
	assert.False(t, report.Mutations[1].Applied)
	assert.True(t, f.svc.isEnabled("dir-a"))
	assert.Equal(t, []string{"dir-a"}, f.svc.setCalls)
	assert.Equal(t, []string{"/sit"}, f.sink.commands)
}

func TestCoordinatorServiceUnavailableStillRunsAnimation(t *testing.T) {
	t.Parallel()

	f := newCoordinatorFixture()
	f.svc.addMod("dir-a", "Sit A", false)
	f.svc.enabled = false

	report := f.coord.Activate(context.Background(), sit1, []domain.ModEntry{sit1, sit2})

	assert.False(t, report.ServiceAvailable)
	assert.Empty(t, report.Mutations)
	assert.Empty(t, f.svc.setCalls)
	assert.Equal(t, []string{"/sit"}, f.sink.commands)
	require.NotNil(t, report.Pending)
}

func TestCoordinatorNoCollectionSkipsMutations(t *testing.T) {
	t.Parallel()

	f := newCoordinatorFixture()
	f.svc.addMod("dir-a", "Sit A", false)
	f.svc.current = uuid.Nil

	report := f.coord.Activate(context.Background(), sit1, []domain.ModEntry{sit1})

	assert.True(t, report.ServiceAvailable)
	assert.True(t, report.Collection.IsNone())
	assert.Empty(t, report.Mutations)
	assert.Equal(t, []string{"/sit"}, f.sink.commands)
}

func TestCoordinatorEntryWithoutAnimation(t *testing.T) {
	t.Parallel()

	f := newCoordinatorFixture()
	f.svc.addMod("dir-h", "Big Hat", false)
	f.svc.addMod("dir-a", "Sit A", true)

	report := f.coord.Activate(context.Background(), hat, []domain.ModEntry{hat, sit1})

	require.Len(t, report.Mutations, 1)
	assert.Equal(t, domain.ModStateEnable, report.Mutations[0].State)
	assert.True(t, f.svc.isEnabled("dir-h"))
	assert.True(t, f.svc.isEnabled("dir-a"))
	assert.Empty(t, f.sink.commands)
	assert.Empty(t, report.Command)
	assert.Nil(t, report.Pending)
}

func TestCoordinatorEntryMissingFromListJoinsGroup(t *testing.T) {
	t.Parallel()

	f := newCoordinatorFixture()
	f.svc.addMod("dir-a", "Sit A", false)
	f.svc.addMod("dir-b", "Sit B", true)

	report := f.coord.Activate(context.Background(), sit1, []domain.ModEntry{sit2})

	require.Len(t, report.Mutations, 2)
	assert.True(t, f.svc.isEnabled("dir-a"))
	assert.False(t, f.svc.isEnabled("dir-b"))
}

func TestCoordinatorPoseIgnoredForOtherAnimations(t *testing.T) {
	t.Parallel()

	f := newCoordinatorFixture()
	waving := wave
	waving.Pose = 3

	report := f.coord.Activate(context.Background(), waving, []domain.ModEntry{waving})

	assert.Nil(t, report.Pending)
	assert.Equal(t, 0, f.scheduler.Len())
	assert.Equal(t, []string{"/wave"}, f.sink.commands)
}

func TestCoordinatorUsesConfiguredPoseDelay(t *testing.T) {
	t.Parallel()

	f := newCoordinatorFixture()
	f.settings.settings.PoseDelays["doze"] = 2500 * time.Millisecond
	doze := domain.ModEntry{ID: "5", ModName: "Doze", Animation: "doze", Pose: 1}

	report := f.coord.Activate(context.Background(), doze, []domain.ModEntry{doze})

	require.NotNil(t, report.Pending)
	assert.Equal(t, f.clock.Now().Add(2500*time.Millisecond), report.Pending.Due)
}

func TestCoordinatorSettingsErrorFallsBackToDefaults(t *testing.T) {
	t.Parallel()

	f := newCoordinatorFixture()
	f.settings.err = errors.New("settings unreadable")

	report := f.coord.Activate(context.Background(), sit1, []domain.ModEntry{sit1})

	require.NotNil(t, report.Pending)
	assert.Equal(t, f.clock.Now().Add(domain.DefaultPoseDelay), report.Pending.Due)
}

func TestCoordinatorSinkFailureDoesNotPanic(t *testing.T) {
	t.Parallel()

	f := newCoordinatorFixture()
	f.sink.err = errors.New("chat closed")

	assert.NotPanics(t, func() {
		report := f.coord.Activate(context.Background(), sit1, []domain.ModEntry{sit1})
		assert.Equal(t, "/sit", report.Command)
	})
}

func TestCoordinatorSiblingFailureDoesNotAbortGroup(t *testing.T) {
	t.Parallel()

	f := newCoordinatorFixture()
	f.svc.addMod("dir-b", "Sit B", true)
	f.svc.addMod("dir-c", "Sit C", true)
	f.svc.addMod("dir-a", "Sit A", false)
	f.svc.failSet["dir-c"] = domain.ApiModMissing
	sit3 := domain.ModEntry{ID: "5", ModName: "Sit C", Animation: "sit"}

	report := f.coord.Activate(context.Background(), sit1, []domain.ModEntry{sit2, sit3, sit1})

	require.Len(t, report.Mutations, 3)
	assert.Equal(t, "Sit B", report.Mutations[0].ModName)
	assert.True(t, report.Mutations[0].Applied)
	assert.Equal(t, "Sit C", report.Mutations[1].ModName)
	assert.True(t, report.Mutations[1].Resolved)
	assert.False(t, report.Mutations[1].Applied)
	assert.Equal(t, "Sit A", report.Mutations[2].ModName)
	assert.True(t, report.Mutations[2].Applied)

	assert.Equal(t, []string{"dir-b", "dir-c", "dir-a"}, f.svc.setCalls)
	assert.False(t, f.svc.isEnabled("dir-b"))
	assert.True(t, f.svc.isEnabled("dir-c"))
	assert.True(t, f.svc.isEnabled("dir-a"))
	assert.Equal(t, []string{"/sit"}, f.sink.commands)
}

func TestCoordinatorMutatesBeforeAnimation(t *testing.T) {
	t.Parallel()

	f := newCoordinatorFixture()
	f.svc.addMod("dir-a", "Sit A", false)
	f.svc.addMod("dir-b", "Sit B", true)

	f.coord.Activate(context.Background(), sit2, []domain.ModEntry{sit1, sit2})

	assert.Equal(t, []string{"set:dir-a", "set:dir-b", "cmd:/sit"}, f.events.snapshot())
}
