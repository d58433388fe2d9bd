// Package registry provides a global registry of built-in maps.
// Map packages register themselves in init() functions, allowing the
// platform to list and load maps without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/ulvestein/internal/world"
)

// Source returns the YAML document of a map.
type Source func() []byte

// MapInfo contains metadata about a registered map.
type MapInfo struct {
	ID    string
	Title string
}

var (
	sources = make(map[string]Source)
	titles  = make(map[string]string)
	mu      sync.RWMutex
)

// Register adds a map source to the registry.
// Typically called from an init() function.
// Panics if a map with the same ID is already registered.
func Register(id, title string, src Source) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := sources[id]; exists {
		panic(fmt.Sprintf("registry: map %q already registered", id))
	}

	sources[id] = src
	if title == "" {
		title = id
	}
	titles[id] = title
}

// List returns information about all registered maps, sorted by ID.
func List() []MapInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]MapInfo, 0, len(sources))
	for id := range sources {
		result = append(result, MapInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Load parses a registered map.
// Returns an error if the map ID is not registered or fails to parse.
func Load(id string, opts world.LoadOptions) (*world.Map, error) {
	mu.RLock()
	src, ok := sources[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown map %q", id)
	}

	m, err := world.ParseMap(src(), opts)
	if err != nil {
		return nil, fmt.Errorf("registry: map %q: %w", id, err)
	}
	if m.ID == "" {
		m.ID = id
	}
	return m, nil
}

// Exists checks if a map with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := sources[id]
	return ok
}

// First returns the ID of the first map in List order, or "" if none.
func First() string {
	maps := List()
	if len(maps) == 0 {
		return ""
	}
	return maps[0].ID
}
