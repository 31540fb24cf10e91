package toml

import "fmt"

const (
	currentEntriesSchemaVersion  = 1
	currentSettingsSchemaVersion = 1
)

type entriesFileSchema struct {
	Version int           `toml:"version"`
	Entries []entrySchema `toml:"entries"`
}

func (s *entriesFileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentEntriesSchemaVersion
	}
}

func (s entriesFileSchema) validateVersion() error {
	if s.Version > currentEntriesSchemaVersion {
		return fmt.Errorf("unsupported entries schema version %d (current %d)", s.Version, currentEntriesSchemaVersion)
	}

	return nil
}

type entrySchema struct {
	ID        string `toml:"id"`
	ModName   string `toml:"mod_name"`
	Label     string `toml:"label,omitempty"`
	Animation string `toml:"animation,omitempty"`
	Pose      int    `toml:"pose,omitempty"`
	Category  string `toml:"category,omitempty"`
}

type settingsFileSchema struct {
	Version        int              `toml:"version"`
	PoseDelayMinMs int64            `toml:"pose_delay_min_ms"`
	PoseDelayMaxMs int64            `toml:"pose_delay_max_ms"`
	PoseDelaysMs   map[string]int64 `toml:"pose_delays_ms"`
	Categories     []string         `toml:"categories"`
}

func (s *settingsFileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSettingsSchemaVersion
	}
}

func (s settingsFileSchema) validateVersion() error {
	if s.Version > currentSettingsSchemaVersion {
		return fmt.Errorf("unsupported settings schema version %d (current %d)", s.Version, currentSettingsSchemaVersion)
	}

	return nil
}
