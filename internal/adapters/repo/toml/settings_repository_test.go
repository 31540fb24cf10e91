package toml

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bnema/animation-wardrobe/internal/domain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSettingsRepository(t *testing.T, path string) *SettingsRepository {
	t.Helper()

	config := viper.New()
	config.Set(SettingsPathKey, path)
	repo, err := NewSettingsRepository(config)
	require.NoError(t, err)

	return repo
}

func TestSettingsRepositoryMissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()

	repo := newTestSettingsRepository(t, filepath.Join(t.TempDir(), "settings.toml"))

	settings, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), settings)
}

func TestSettingsRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	repo := newTestSettingsRepository(t, filepath.Join(t.TempDir(), "settings.toml"))
	ctx := context.Background()

	settings := domain.DefaultSettings()
	settings.PoseDelays["doze"] = 2500 * time.Millisecond
	settings.PoseDelayMax = 4 * time.Second
	settings.Categories = []string{"Chairs", "Poses"}

	require.NoError(t, repo.Save(ctx, settings))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, settings, got)
}

func TestSettingsRepositoryPartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte("version = 1\ncategories = [' Chairs ', '', 'Chairs']\n\n[pose_delays_ms]\nSit = 1500\n"), 0o600))
	repo := newTestSettingsRepository(t, path)

	settings, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, settings.PoseDelays["sit"])
	assert.Equal(t, domain.DefaultPoseDelay, settings.PoseDelays["groundsit"])
	assert.Equal(t, domain.MinPoseDelay, settings.PoseDelayMin)
	assert.Equal(t, []string{"Chairs"}, settings.Categories)
}

func TestSettingsRepositoryFutureSchemaVersionReturnsError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(path, []byte("version = 7\n"), 0o600))
	repo := newTestSettingsRepository(t, path)

	_, err := repo.Get(context.Background())
	assert.ErrorContains(t, err, "unsupported settings schema version")
}
