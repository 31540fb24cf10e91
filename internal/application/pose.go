package application

import (
	"context"
	"fmt"

	"github.com/bnema/animation-wardrobe/internal/domain"
	"github.com/bnema/animation-wardrobe/internal/ports"
	"github.com/rs/zerolog"
)

type ConvergeResult struct {
	Target   int
	Final    int
	MaxSeen  int
	Commands int
}

// PoseConverger reaches a pose index by cycling, since poses can only be advanced one step
// at a time. It issues one cycle command per step and does not wait between steps.
type PoseConverger struct {
	reader ports.PoseReader
	sink   ports.CommandSink
	budget int
	log    zerolog.Logger
}

func NewPoseConverger(reader ports.PoseReader, sink ports.CommandSink, budget int, logger zerolog.Logger) *PoseConverger {
	if budget <= 0 {
		budget = domain.DefaultPoseBudget
	}

	return &PoseConverger{
		reader: reader,
		sink:   sink,
		budget: budget,
		log:    logger.With().Str("component", "pose").Logger(),
	}
}

// CurrentPose reads the pose index, treating read failures as no active subject.
func (c *PoseConverger) CurrentPose(ctx context.Context) int {
	index, err := c.reader.CurrentPose(ctx)
	if err != nil {
		c.log.Debug().Err(err).Msg("could not read pose index")
		return 0
	}

	return index
}

func (c *PoseConverger) ConvergeTo(ctx context.Context, target int) (ConvergeResult, error) {
	result := ConvergeResult{Target: target}
	if target < 0 {
		return result, fmt.Errorf("pose index must not be negative: %d", target)
	}

	for attempt := 0; ; attempt++ {
		current := c.CurrentPose(ctx)
		result.Final = current
		if current > result.MaxSeen {
			result.MaxSeen = current
		}
		if current == target {
			c.log.Info().Int("target", target).Int("commands", result.Commands).Msg("pose reached")
			return result, nil
		}

		if attempt >= c.budget {
			err := &domain.ConvergenceError{Target: target, MaxSeen: result.MaxSeen}
			c.log.Error().Int("target", target).Int("max_seen", result.MaxSeen).Msg(err.Error())
			return result, err
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if err := c.sink.Submit(ctx, domain.CyclePoseCommand); err != nil {
			c.log.Debug().Err(err).Msg("cycle pose command failed")
		}
		result.Commands++
	}
}
