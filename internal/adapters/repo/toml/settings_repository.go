package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/bnema/animation-wardrobe/internal/domain"
	"github.com/bnema/animation-wardrobe/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	SettingsPathKey = "settings.path"
	settingsFile    = "settings.toml"
)

// SettingsRepository persists pose delays and entry categories. A missing file yields defaults.
type SettingsRepository struct {
	path string
	mu   *sync.RWMutex
}

var _ ports.SettingsRepository = (*SettingsRepository)(nil)

func NewSettingsRepository(cfg *viper.Viper) (*SettingsRepository, error) {
	path, err := resolvePath(cfg, SettingsPathKey, settingsFile)
	if err != nil {
		return nil, err
	}

	return &SettingsRepository{path: path, mu: lockForPath(path)}, nil
}

func (r *SettingsRepository) Get(ctx context.Context) (domain.Settings, error) {
	if err := ctx.Err(); err != nil {
		return domain.Settings{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.DefaultSettings(), nil
		}
		return domain.Settings{}, fmt.Errorf("read settings file: %w", err)
	}

	var file settingsFileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return domain.Settings{}, fmt.Errorf("decode settings file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return domain.Settings{}, err
	}

	return fromSettingsSchema(file), nil
}

func (r *SettingsRepository) Save(ctx context.Context, settings domain.Settings) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file := toSettingsSchema(settings)
	file.applyDefaults()
	if err := writeTOMLFile(r.path, file); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func toSettingsSchema(settings domain.Settings) settingsFileSchema {
	delays := make(map[string]int64, len(settings.PoseDelays))
	for animation, delay := range settings.PoseDelays {
		delays[animation] = delay.Milliseconds()
	}

	return settingsFileSchema{
		PoseDelayMinMs: settings.PoseDelayMin.Milliseconds(),
		PoseDelayMaxMs: settings.PoseDelayMax.Milliseconds(),
		PoseDelaysMs:   delays,
		Categories:     append([]string(nil), settings.Categories...),
	}
}

func fromSettingsSchema(file settingsFileSchema) domain.Settings {
	settings := domain.DefaultSettings()
	if file.PoseDelayMinMs > 0 {
		settings.PoseDelayMin = time.Duration(file.PoseDelayMinMs) * time.Millisecond
	}
	if file.PoseDelayMaxMs > 0 {
		settings.PoseDelayMax = time.Duration(file.PoseDelayMaxMs) * time.Millisecond
	}
	for animation, delay := range file.PoseDelaysMs {
		if delay <= 0 {
			continue
		}
		settings.PoseDelays[strings.ToLower(strings.TrimSpace(animation))] = time.Duration(delay) * time.Millisecond
	}
	settings.Categories = file.Categories
	settings.NormalizeCategories()

	return settings
}
