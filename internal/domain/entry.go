package domain

import (
	"fmt"
	"strings"
)

type EntryID string

// ModEntry binds one mod, and optionally an animation, to a single activation.
type ModEntry struct {
	ID        EntryID
	ModName   string
	Label     string
	Animation string
	Pose      int
	Category  string
}

func (e ModEntry) DisplayLabel() string {
	if strings.TrimSpace(e.Label) != "" {
		return e.Label
	}

	return e.ModName
}

func (e ModEntry) HasAnimation() bool {
	return strings.TrimSpace(e.Animation) != ""
}

// WantsPose reports whether activating e should schedule a pose follow-up.
func (e ModEntry) WantsPose() bool {
	return e.Pose > 0 && IsPoseCapable(e.Animation)
}

func (e ModEntry) Validate() error {
	if strings.TrimSpace(string(e.ID)) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidEntry)
	}
	if strings.TrimSpace(e.ModName) == "" {
		return fmt.Errorf("%w: mod name is required", ErrInvalidEntry)
	}
	if e.Pose < 0 {
		return fmt.Errorf("%w: pose must not be negative", ErrInvalidEntry)
	}

	return nil
}

// Normalize trims user-typed fields and drops a leading command slash from the animation.
func (e *ModEntry) Normalize() {
	if e == nil {
		return
	}

	e.ID = EntryID(strings.TrimSpace(string(e.ID)))
	e.ModName = strings.TrimSpace(e.ModName)
	e.Label = strings.TrimSpace(e.Label)
	e.Animation = strings.TrimPrefix(strings.TrimSpace(e.Animation), "/")
	e.Category = strings.TrimSpace(e.Category)
}

// EmoteGroup returns every entry sharing the given non-empty animation, in input order.
func EmoteGroup(entries []ModEntry, animation string) []ModEntry {
	if strings.TrimSpace(animation) == "" {
		return nil
	}

	group := make([]ModEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Animation == animation {
			group = append(group, entry)
		}
	}

	return group
}
