package application

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/bnema/animation-wardrobe/internal/domain"
	"github.com/google/uuid"
)

type ModInfo struct {
	ID   domain.ModID
	Name string
}

type CollectionInfo struct {
	ID      uuid.UUID
	Name    string
	Current bool
}

// ModManager exposes single mod and collection operations outside of an activation.
type ModManager struct {
	gateway *Gateway
}

func NewModManager(gateway *Gateway) *ModManager {
	return &ModManager{gateway: gateway}
}

// List returns catalog entries whose name or identifier contains filter (case-insensitive).
func (m *ModManager) List(ctx context.Context, filter string) ([]ModInfo, error) {
	if !m.gateway.IsAvailable(ctx) {
		return nil, domain.ErrServiceUnavailable
	}

	needle := strings.ToLower(strings.TrimSpace(filter))
	catalog := m.gateway.ModCatalog(ctx)
	mods := make([]ModInfo, 0, len(catalog))
	for id, name := range catalog {
		if needle != "" && !strings.Contains(strings.ToLower(name), needle) && !strings.Contains(strings.ToLower(string(id)), needle) {
			continue
		}
		mods = append(mods, ModInfo{ID: id, Name: name})
	}

	sort.Slice(mods, func(i, j int) bool {
		if mods[i].Name == mods[j].Name {
			return mods[i].ID < mods[j].ID
		}
		return mods[i].Name < mods[j].Name
	})

	return mods, nil
}

func (m *ModManager) SetState(ctx context.Context, cmd SetModStateCommand) (Mutation, error) {
	mutation := Mutation{ModName: cmd.ModName, State: cmd.State}
	if !cmd.State.Valid() {
		return mutation, fmt.Errorf("unsupported mod state %s", cmd.State)
	}
	if !m.gateway.IsAvailable(ctx) {
		return mutation, domain.ErrServiceUnavailable
	}

	snapshot := m.gateway.Snapshot(ctx)
	if snapshot.Collection.IsNone() {
		return mutation, fmt.Errorf("%w: no current collection", domain.ErrCollectionNotFound)
	}

	id, err := m.resolve(snapshot.Catalog, cmd.ModName)
	if err != nil {
		return mutation, err
	}

	mutation.ModID = id
	mutation.Resolved = true
	mutation.Applied = m.gateway.SetModState(ctx, snapshot.Collection.ID, id, cmd.ModName, cmd.State)
	if !mutation.Applied {
		return mutation, fmt.Errorf("set %s to %s in %s failed", cmd.ModName, cmd.State, snapshot.Collection.Name)
	}

	return mutation, nil
}

// Changed lists the names a mod affects.
func (m *ModManager) Changed(ctx context.Context, modName string) ([]string, error) {
	if !m.gateway.IsAvailable(ctx) {
		return nil, domain.ErrServiceUnavailable
	}

	id, err := m.resolve(m.gateway.ModCatalog(ctx), modName)
	if err != nil {
		return nil, err
	}

	return m.gateway.AffectedNames(ctx, id, modName), nil
}

func (m *ModManager) Collections(ctx context.Context) ([]CollectionInfo, error) {
	if !m.gateway.IsAvailable(ctx) {
		return nil, domain.ErrServiceUnavailable
	}

	current := m.gateway.CurrentCollection(ctx)
	collections := m.gateway.Collections(ctx)
	infos := make([]CollectionInfo, 0, len(collections))
	for id, name := range collections {
		infos = append(infos, CollectionInfo{ID: id, Name: name, Current: id == current.ID})
	}

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Name == infos[j].Name {
			return infos[i].ID.String() < infos[j].ID.String()
		}
		return infos[i].Name < infos[j].Name
	})

	return infos, nil
}

func (m *ModManager) CurrentCollection(ctx context.Context) (domain.CollectionSnapshot, error) {
	if !m.gateway.IsAvailable(ctx) {
		return domain.NoCollection, domain.ErrServiceUnavailable
	}

	return m.gateway.CurrentCollection(ctx), nil
}

// SetCollection assigns the collection matching selector (an id or a case-insensitive name).
func (m *ModManager) SetCollection(ctx context.Context, selector string) (domain.CollectionSnapshot, error) {
	collections, err := m.Collections(ctx)
	if err != nil {
		return domain.NoCollection, err
	}

	trimmed := strings.TrimSpace(selector)
	target, found := domain.CollectionSnapshot{}, false
	if id, parseErr := uuid.Parse(trimmed); parseErr == nil {
		for _, info := range collections {
			if info.ID == id {
				target, found = domain.CollectionSnapshot{ID: info.ID, Name: info.Name}, true
				break
			}
		}
	}
	if !found {
		for _, info := range collections {
			if strings.EqualFold(info.Name, trimmed) {
				target, found = domain.CollectionSnapshot{ID: info.ID, Name: info.Name}, true
				break
			}
		}
	}
	if !found {
		return domain.NoCollection, fmt.Errorf("%w: %q", domain.ErrCollectionNotFound, selector)
	}

	if !m.gateway.SetCollection(ctx, target.ID) {
		return domain.NoCollection, fmt.Errorf("set collection %s failed", target.Name)
	}

	return target, nil
}

func (m *ModManager) resolve(catalog domain.ModCatalog, modName string) (domain.ModID, error) {
	id, ok := catalog.Resolve(modName)
	if ok {
		return id, nil
	}
	if _, known := catalog[domain.ModID(modName)]; known {
		return domain.ModID(modName), nil
	}

	if suggestion, found := catalog.Suggest(modName); found {
		return "", fmt.Errorf("%w: %q (did you mean %q?)", domain.ErrModNotFound, modName, suggestion)
	}

	return "", fmt.Errorf("%w: %q", domain.ErrModNotFound, modName)
}
