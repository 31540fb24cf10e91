package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	DefaultPoseDelay  = 1000 * time.Millisecond
	MinPoseDelay      = 1000 * time.Millisecond
	MaxPoseDelay      = 5000 * time.Millisecond
	DefaultPoseBudget = 8

	CyclePoseCommand = "/cpose"
	PoseCommandName  = "/dpose"
)

var poseCapable = map[string]struct{}{
	"groundsit": {},
	"sit":       {},
	"doze":      {},
}

// IsPoseCapable reports whether the animation has selectable pose variants.
func IsPoseCapable(animation string) bool {
	_, ok := poseCapable[strings.ToLower(strings.TrimSpace(animation))]
	return ok
}

func PoseCapableAnimations() []string {
	return []string{"doze", "groundsit", "sit"}
}

func AnimationCommand(animation string) string {
	return "/" + strings.TrimPrefix(strings.TrimSpace(animation), "/")
}

func PoseCommand(index int) string {
	return fmt.Sprintf("%s %d", PoseCommandName, index)
}

type PendingCommand struct {
	Text string
	Due  time.Time
}

// Settings are the user-tunable parameters the engine reads on each activation.
type Settings struct {
	PoseDelays   map[string]time.Duration
	PoseDelayMin time.Duration
	PoseDelayMax time.Duration
	Categories   []string
}

func DefaultSettings() Settings {
	return Settings{
		PoseDelays: map[string]time.Duration{
			"groundsit": DefaultPoseDelay,
			"sit":       DefaultPoseDelay,
			"doze":      DefaultPoseDelay,
		},
		PoseDelayMin: MinPoseDelay,
		PoseDelayMax: MaxPoseDelay,
	}
}

// PoseDelay returns the settling delay for animation, clamped to the configured range.
func (s Settings) PoseDelay(animation string) time.Duration {
	delay, ok := s.PoseDelays[strings.ToLower(strings.TrimSpace(animation))]
	if !ok || delay <= 0 {
		delay = DefaultPoseDelay
	}

	lo, hi := s.PoseDelayMin, s.PoseDelayMax
	if lo <= 0 {
		lo = MinPoseDelay
	}
	if hi < lo {
		hi = lo
	}

	switch {
	case delay < lo:
		return lo
	case delay > hi:
		return hi
	default:
		return delay
	}
}

// NormalizeCategories trims, deduplicates and drops empty category names.
func (s *Settings) NormalizeCategories() {
	if s == nil {
		return
	}

	categories := make([]string, 0, len(s.Categories))
	seen := make(map[string]struct{}, len(s.Categories))
	for _, category := range s.Categories {
		trimmed := strings.TrimSpace(category)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		categories = append(categories, trimmed)
	}

	s.Categories = categories
}
