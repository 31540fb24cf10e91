package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// ModID is the service's opaque mod identifier (the mod directory).
type ModID string

// ModCatalog maps mod identifiers to display names as last reported by the service.
type ModCatalog map[ModID]string

// Resolve finds the identifier whose display name equals name. When several mods share the
// name the lexically smallest identifier wins.
func (c ModCatalog) Resolve(name string) (ModID, bool) {
	if name == "" {
		return "", false
	}

	var (
		found ModID
		ok    bool
	)
	for id, display := range c {
		if display != name {
			continue
		}
		if !ok || id < found {
			found = id
			ok = true
		}
	}

	return found, ok
}

// Suggest returns the display name closest to name, for diagnostics.
func (c ModCatalog) Suggest(name string) (string, bool) {
	if len(c) == 0 || name == "" {
		return "", false
	}

	target := strings.ToLower(name)
	best := ""
	bestDistance := -1
	for _, display := range c.Names() {
		distance := levenshtein.ComputeDistance(target, strings.ToLower(display))
		if bestDistance < 0 || distance < bestDistance {
			best = display
			bestDistance = distance
		}
	}

	// Anything further away than half the name is noise rather than a typo.
	if bestDistance > len(target)/2+1 {
		return "", false
	}

	return best, true
}

// Names returns the sorted display names.
func (c ModCatalog) Names() []string {
	names := make([]string, 0, len(c))
	for _, display := range c {
		names = append(names, display)
	}
	sort.Strings(names)

	return names
}

type ModState int

const (
	ModStateEnable ModState = iota
	ModStateDisable
	ModStateToggle
	ModStateInherit
)

func (s ModState) String() string {
	switch s {
	case ModStateEnable:
		return "enable"
	case ModStateDisable:
		return "disable"
	case ModStateToggle:
		return "toggle"
	case ModStateInherit:
		return "inherit"
	default:
		return fmt.Sprintf("ModState(%d)", int(s))
	}
}

func (s ModState) Valid() bool {
	return s >= ModStateEnable && s <= ModStateInherit
}

func ParseModState(raw string) (ModState, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "enable", "on":
		return ModStateEnable, nil
	case "disable", "off":
		return ModStateDisable, nil
	case "toggle":
		return ModStateToggle, nil
	case "inherit":
		return ModStateInherit, nil
	default:
		return 0, fmt.Errorf("unknown mod state %q (want enable, disable, toggle or inherit)", raw)
	}
}

// ModSettings are a mod's settings within one collection.
type ModSettings struct {
	Enabled  bool
	Priority int
	Options  map[string][]string
	// Inherited is set when the settings come from a parent collection.
	Inherited bool
}

// ApiErrorCode is the result code returned by mutating service calls.
type ApiErrorCode int

const (
	ApiSuccess ApiErrorCode = iota
	ApiNothingChanged
	ApiCollectionMissing
	ApiModMissing
	ApiOptionGroupMissing
	ApiOptionMissing
	ApiTooManyPriorities
	ApiInvalidArgument
	ApiUnknownError ApiErrorCode = 255
)

// Ok reports whether the service left the mod in the requested state.
func (c ApiErrorCode) Ok() bool {
	return c == ApiSuccess || c == ApiNothingChanged
}

func (c ApiErrorCode) String() string {
	switch c {
	case ApiSuccess:
		return "success"
	case ApiNothingChanged:
		return "nothing_changed"
	case ApiCollectionMissing:
		return "collection_missing"
	case ApiModMissing:
		return "mod_missing"
	case ApiOptionGroupMissing:
		return "option_group_missing"
	case ApiOptionMissing:
		return "option_missing"
	case ApiTooManyPriorities:
		return "too_many_priorities"
	case ApiInvalidArgument:
		return "invalid_argument"
	case ApiUnknownError:
		return "unknown_error"
	default:
		return fmt.Sprintf("code_%d", int(c))
	}
}
