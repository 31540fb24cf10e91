package application

import "github.com/bnema/animation-wardrobe/internal/domain"

type AddEntryCommand struct {
	ID        domain.EntryID
	ModName   string
	Label     string
	Animation string
	Pose      int
	Category  string
}

func (c AddEntryCommand) entry() domain.ModEntry {
	return domain.ModEntry{
		ID:        c.ID,
		ModName:   c.ModName,
		Label:     c.Label,
		Animation: c.Animation,
		Pose:      c.Pose,
		Category:  c.Category,
	}
}

type SetModStateCommand struct {
	ModName string
	State   domain.ModState
}
