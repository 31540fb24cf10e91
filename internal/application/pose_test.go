package application

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/animation-wardrobe/internal/domain"
	"github.com/bnema/animation-wardrobe/internal/ports"
	"github.com/bnema/animation-wardrobe/internal/ports/mocks"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cyclingSubject advances its pose by one on every cycle command, wrapping at poses.
type cyclingSubject struct {
	index    int
	poses    int
	commands []string
}

func (s *cyclingSubject) CurrentPose(context.Context) (int, error) {
	return s.index, nil
}

func (s *cyclingSubject) Submit(_ context.Context, text string) error {
	s.commands = append(s.commands, text)
	if text == domain.CyclePoseCommand {
		s.index = (s.index + 1) % s.poses
	}
	return nil
}

func TestPoseConvergerReachesTarget(t *testing.T) {
	t.Parallel()

	subject := &cyclingSubject{poses: 20}
	converger := NewPoseConverger(subject, subject, 0, zerolog.Nop())

	result, err := converger.ConvergeTo(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, ConvergeResult{Target: 3, Final: 3, MaxSeen: 3, Commands: 3}, result)
	assert.Equal(t, []string{"/cpose", "/cpose", "/cpose"}, subject.commands)
}

func TestPoseConvergerAlreadyThere(t *testing.T) {
	t.Parallel()

	subject := &cyclingSubject{index: 2, poses: 5}
	converger := NewPoseConverger(subject, subject, 8, zerolog.Nop())

	result, err := converger.ConvergeTo(context.Background(), 2)
	require.NoError(t, err)
	assert.Zero(t, result.Commands)
	assert.Empty(t, subject.commands)
}

func TestPoseConvergerExhaustsBudget(t *testing.T) {
	t.Parallel()

	subject := &cyclingSubject{poses: 20}
	converger := NewPoseConverger(subject, subject, 8, zerolog.Nop())

	result, err := converger.ConvergeTo(context.Background(), 10)
	require.Error(t, err)

	var convergenceErr *domain.ConvergenceError
	require.True(t, errors.As(err, &convergenceErr))
	assert.Equal(t, 10, convergenceErr.Target)
	assert.Equal(t, 8, convergenceErr.MaxSeen)
	assert.Equal(t, "failed to change pose index to 10 (max seen: 8)", err.Error())
	assert.Equal(t, 8, result.Commands)
}

func TestPoseConvergerUnreachableTargetWraps(t *testing.T) {
	t.Parallel()

	subject := &cyclingSubject{index: 1, poses: 3}
	converger := NewPoseConverger(subject, subject, 8, zerolog.Nop())

	result, err := converger.ConvergeTo(context.Background(), 5)
	require.Error(t, err)
	assert.Equal(t, 2, result.MaxSeen)
}

func TestPoseConvergerRejectsNegativeTarget(t *testing.T) {
	t.Parallel()

	reader := mocks.NewMockPoseReader(t)
	sink := mocks.NewMockCommandSink(t)
	converger := NewPoseConverger(reader, sink, 8, zerolog.Nop())

	_, err := converger.ConvergeTo(context.Background(), -1)
	require.Error(t, err)
}

func TestPoseConvergerReadErrorCountsAsZero(t *testing.T) {
	t.Parallel()

	reader := mocks.NewMockPoseReader(t)
	sink := mocks.NewMockCommandSink(t)
	reader.EXPECT().CurrentPose(mockAnyContext()).Return(0, errors.New("no subject"))
	converger := NewPoseConverger(reader, sink, 8, zerolog.Nop())

	assert.Equal(t, 0, converger.CurrentPose(context.Background()))
	result, err := converger.ConvergeTo(context.Background(), 0)
	require.NoError(t, err)
	assert.Zero(t, result.Commands)
}

func TestPoseConvergerStopsOnCanceledContext(t *testing.T) {
	t.Parallel()

	reader := mocks.NewMockPoseReader(t)
	sink := mocks.NewMockCommandSink(t)
	reader.EXPECT().CurrentPose(mockAnyContext()).Return(0, nil).Once()
	converger := NewPoseConverger(reader, sink, 8, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := converger.ConvergeTo(ctx, 4)
	require.ErrorIs(t, err, context.Canceled)
}

func TestCommandRouter(t *testing.T) {
	t.Parallel()

	subject := &cyclingSubject{poses: 10}
	router := NewCommandRouter(NewPoseConverger(subject, subject, 8, zerolog.Nop()), zerolog.Nop())
	ctx := context.Background()

	assert.ErrorIs(t, router.Submit(ctx, "/sit"), ports.ErrCommandNotHandled)
	assert.ErrorIs(t, router.Submit(ctx, ""), ports.ErrCommandNotHandled)
	assert.ErrorIs(t, router.Submit(ctx, "/dposer 1"), ports.ErrCommandNotHandled)

	require.NoError(t, router.Submit(ctx, "/dpose"))
	assert.Empty(t, subject.commands)

	require.NoError(t, router.Submit(ctx, "/dpose 2"))
	assert.Equal(t, 2, subject.index)

	assert.ErrorIs(t, router.Submit(ctx, "/dpose abc"), ports.ErrCommandRejected)
	assert.ErrorIs(t, router.Submit(ctx, "/dpose 256"), ports.ErrCommandRejected)

	err := router.Submit(ctx, "/dpose 9")
	require.NoError(t, err)
	subject.poses = 5
	subject.index = 0
	err = router.Submit(ctx, "/dpose 7")
	var convergenceErr *domain.ConvergenceError
	require.ErrorAs(t, err, &convergenceErr)
	assert.ErrorIs(t, err, ports.ErrCommandRejected)
}

func TestParsePoseIndex(t *testing.T) {
	t.Parallel()

	index, err := ParsePoseIndex(" 7 ")
	require.NoError(t, err)
	assert.Equal(t, 7, index)

	for _, raw := range []string{"", "-1", "x", "300"} {
		_, err := ParsePoseIndex(raw)
		assert.Error(t, err, raw)
	}
}
