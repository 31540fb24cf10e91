package application

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bnema/animation-wardrobe/internal/domain"
	"github.com/bnema/animation-wardrobe/internal/ports"
)

type EntryService struct {
	entries  ports.EntryRepository
	settings ports.SettingsRepository
}

func NewEntryService(entries ports.EntryRepository, settings ports.SettingsRepository) *EntryService {
	return &EntryService{entries: entries, settings: settings}
}

func (s *EntryService) List(ctx context.Context) ([]domain.ModEntry, error) {
	entries, err := s.entries.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	return entries, nil
}

// Find resolves an entry by id, then by label, then by mod name (case-insensitive).
func (s *EntryService) Find(ctx context.Context, selector string) (domain.ModEntry, error) {
	trimmed := strings.TrimSpace(selector)
	if trimmed == "" {
		return domain.ModEntry{}, fmt.Errorf("%w: empty selector", domain.ErrEntryNotFound)
	}

	entries, err := s.List(ctx)
	if err != nil {
		return domain.ModEntry{}, err
	}

	for _, entry := range entries {
		if string(entry.ID) == trimmed {
			return entry, nil
		}
	}
	for _, entry := range entries {
		if strings.EqualFold(entry.DisplayLabel(), trimmed) {
			return entry, nil
		}
	}
	for _, entry := range entries {
		if strings.EqualFold(entry.ModName, trimmed) {
			return entry, nil
		}
	}

	return domain.ModEntry{}, fmt.Errorf("%w: %q", domain.ErrEntryNotFound, selector)
}

// Add stores a new entry. Warnings describe settings that are accepted but have no effect.
func (s *EntryService) Add(ctx context.Context, cmd AddEntryCommand) (domain.ModEntry, []string, error) {
	entry := cmd.entry()
	entry.Normalize()

	entries, err := s.List(ctx)
	if err != nil {
		return domain.ModEntry{}, nil, err
	}

	if entry.ID == "" || entry.ID == "0" {
		entry.ID = nextEntryID(entries)
	} else if n, err := strconv.Atoi(string(entry.ID)); err == nil && n <= 0 {
		return domain.ModEntry{}, nil, fmt.Errorf("%w: id must be a positive number or empty for auto assignment", domain.ErrInvalidEntry)
	}

	if err := entry.Validate(); err != nil {
		return domain.ModEntry{}, nil, err
	}

	var warnings []string
	if entry.Pose > 0 && !domain.IsPoseCapable(entry.Animation) {
		warnings = append(warnings, fmt.Sprintf("pose %d is ignored: %q has no pose variants (supported: %s)",
			entry.Pose, entry.Animation, strings.Join(domain.PoseCapableAnimations(), ", ")))
	}
	for _, existing := range entries {
		if existing.ID != entry.ID && entry.HasAnimation() && existing.Animation == entry.Animation && existing.ModName != entry.ModName {
			warnings = append(warnings, fmt.Sprintf("activating %q disables %q (same animation %q)", entry.DisplayLabel(), existing.DisplayLabel(), entry.Animation))
		}
	}

	if err := s.entries.Save(ctx, entry); err != nil {
		return domain.ModEntry{}, nil, fmt.Errorf("save entry: %w", err)
	}

	if entry.Category != "" {
		if err := s.ensureCategory(ctx, entry.Category); err != nil {
			return entry, warnings, err
		}
	}

	return entry, warnings, nil
}

func (s *EntryService) Remove(ctx context.Context, selector string) (domain.ModEntry, error) {
	entry, err := s.Find(ctx, selector)
	if err != nil {
		return domain.ModEntry{}, err
	}

	if err := s.entries.Delete(ctx, entry.ID); err != nil {
		return domain.ModEntry{}, fmt.Errorf("delete entry: %w", err)
	}

	return entry, nil
}

func (s *EntryService) Settings(ctx context.Context) (domain.Settings, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("load settings: %w", err)
	}

	return settings, nil
}

func (s *EntryService) ensureCategory(ctx context.Context, category string) error {
	settings, err := s.Settings(ctx)
	if err != nil {
		return err
	}

	for _, existing := range settings.Categories {
		if existing == category {
			return nil
		}
	}

	settings.Categories = append(settings.Categories, category)
	settings.NormalizeCategories()
	if err := s.settings.Save(ctx, settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	return nil
}

// GroupByCategory orders uncategorised entries first, then configured categories, then the rest.
func GroupByCategory(entries []domain.ModEntry, categories []string) [][]domain.ModEntry {
	byCategory := make(map[string][]domain.ModEntry)
	var unknown []string
	known := make(map[string]struct{}, len(categories))
	for _, category := range categories {
		known[category] = struct{}{}
	}

	for _, entry := range entries {
		if _, ok := byCategory[entry.Category]; !ok && entry.Category != "" {
			if _, isKnown := known[entry.Category]; !isKnown {
				unknown = append(unknown, entry.Category)
			}
		}
		byCategory[entry.Category] = append(byCategory[entry.Category], entry)
	}

	order := append([]string{""}, categories...)
	order = append(order, unknown...)

	groups := make([][]domain.ModEntry, 0, len(order))
	for _, category := range order {
		if group, ok := byCategory[category]; ok {
			groups = append(groups, group)
			delete(byCategory, category)
		}
	}

	return groups
}

func nextEntryID(entries []domain.ModEntry) domain.EntryID {
	used := make(map[int]struct{}, len(entries))
	for _, entry := range entries {
		n, err := strconv.Atoi(string(entry.ID))
		if err != nil || n <= 0 {
			continue
		}
		used[n] = struct{}{}
	}

	for i := 1; ; i++ {
		if _, ok := used[i]; !ok {
			return domain.EntryID(strconv.Itoa(i))
		}
	}
}
