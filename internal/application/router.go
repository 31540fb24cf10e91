package application

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bnema/animation-wardrobe/internal/domain"
	"github.com/bnema/animation-wardrobe/internal/ports"
	"github.com/rs/zerolog"
)

const maxPoseIndex = 255

// CommandRouter handles the commands this program implements itself and reports every other
// command as not handled, so a chain can pass it on to the game.
type CommandRouter struct {
	poses *PoseConverger
	log   zerolog.Logger
}

var _ ports.CommandSink = (*CommandRouter)(nil)

func NewCommandRouter(poses *PoseConverger, logger zerolog.Logger) *CommandRouter {
	return &CommandRouter{
		poses: poses,
		log:   logger.With().Str("component", "router").Logger(),
	}
}

func (r *CommandRouter) Submit(ctx context.Context, text string) error {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.EqualFold(fields[0], domain.PoseCommandName) {
		return ports.ErrCommandNotHandled
	}

	if len(fields) == 1 {
		r.log.Info().Int("pose", r.poses.CurrentPose(ctx)).Msg("current pose index")
		return nil
	}

	index, err := ParsePoseIndex(fields[1])
	if err != nil {
		return fmt.Errorf("%w: %w", ports.ErrCommandRejected, err)
	}

	if _, err := r.poses.ConvergeTo(ctx, index); err != nil {
		return fmt.Errorf("%w: %w", ports.ErrCommandRejected, err)
	}

	return nil
}

func ParsePoseIndex(raw string) (int, error) {
	index, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || index < 0 || index > maxPoseIndex {
		return 0, fmt.Errorf("invalid pose index %q (usage: %s <index>)", raw, domain.PoseCommandName)
	}

	return index, nil
}
