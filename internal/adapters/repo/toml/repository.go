package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/bnema/animation-wardrobe/internal/domain"
	"github.com/bnema/animation-wardrobe/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	EntriesPathKey = "entries.path"
	entriesFile    = "entries.toml"
)

// Repository stores mod entries in a single TOML file, in insertion order.
type Repository struct {
	path string
	mu   *sync.RWMutex
}

var _ ports.EntryRepository = (*Repository)(nil)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	path, err := resolvePath(cfg, EntriesPathKey, entriesFile)
	if err != nil {
		return nil, err
	}

	return &Repository{path: path, mu: lockForPath(path)}, nil
}

func (r *Repository) Path() string {
	return r.path
}

func (r *Repository) Save(ctx context.Context, entry domain.ModEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := entry.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}

	encoded := toEntrySchema(entry)
	updated := false
	for i := range file.Entries {
		if file.Entries[i].ID == encoded.ID {
			file.Entries[i] = encoded
			updated = true
			break
		}
	}
	if !updated {
		file.Entries = append(file.Entries, encoded)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := writeTOMLFile(r.path, file); err != nil {
		return fmt.Errorf("write entries file: %w", err)
	}

	return nil
}

func (r *Repository) GetByID(ctx context.Context, id domain.EntryID) (domain.ModEntry, error) {
	if err := ctx.Err(); err != nil {
		return domain.ModEntry{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.ModEntry{}, err
	}

	for _, entry := range file.Entries {
		if entry.ID == string(id) {
			return fromEntrySchema(entry), nil
		}
	}

	return domain.ModEntry{}, domain.ErrEntryNotFound
}

func (r *Repository) List(ctx context.Context) ([]domain.ModEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return nil, err
	}

	entries := make([]domain.ModEntry, 0, len(file.Entries))
	for _, entry := range file.Entries {
		entries = append(entries, fromEntrySchema(entry))
	}

	return entries, nil
}

func (r *Repository) Delete(ctx context.Context, id domain.EntryID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}

	kept := file.Entries[:0]
	removed := false
	for _, entry := range file.Entries {
		if entry.ID == string(id) {
			removed = true
			continue
		}
		kept = append(kept, entry)
	}
	if !removed {
		return domain.ErrEntryNotFound
	}
	file.Entries = kept

	if err := writeTOMLFile(r.path, file); err != nil {
		return fmt.Errorf("write entries file: %w", err)
	}

	return nil
}

func (r *Repository) readSchema() (entriesFileSchema, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			file := entriesFileSchema{}
			file.applyDefaults()
			return file, nil
		}
		return entriesFileSchema{}, fmt.Errorf("read entries file: %w", err)
	}

	var file entriesFileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return entriesFileSchema{}, fmt.Errorf("decode entries file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return entriesFileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func toEntrySchema(entry domain.ModEntry) entrySchema {
	return entrySchema{
		ID:        string(entry.ID),
		ModName:   entry.ModName,
		Label:     entry.Label,
		Animation: entry.Animation,
		Pose:      entry.Pose,
		Category:  entry.Category,
	}
}

func fromEntrySchema(entry entrySchema) domain.ModEntry {
	return domain.ModEntry{
		ID:        domain.EntryID(entry.ID),
		ModName:   entry.ModName,
		Label:     entry.Label,
		Animation: entry.Animation,
		Pose:      entry.Pose,
		Category:  entry.Category,
	}
}
