package world

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/vovakirdan/ulvestein/internal/core"
	"gopkg.in/yaml.v3"
)

// Map validation errors.
var (
	ErrEmptyLayout    = errors.New("world: map layout is empty")
	ErrNoSpawn        = errors.New("world: map has no spawn point")
	ErrMultipleSpawns = errors.New("world: map has more than one spawn point")
	ErrUnknownSymbol  = errors.New("world: layout symbol not in legend")
	ErrConflictingID  = errors.New("world: material id reused with different properties")
)

// DefaultDarkFactor scales Up and Down faces when the caller does not say.
const DefaultDarkFactor uint8 = 0xB0

// MapFile is the YAML layout of a map file.
type MapFile struct {
	ID        string         `yaml:"id"`
	Name      string         `yaml:"name"`
	Materials []MaterialSpec `yaml:"materials"`
	Things    []ThingSpec    `yaml:"things,omitempty"`
	Layout    []string       `yaml:"layout"`
}

// MaterialSpec is one legend entry.
type MaterialSpec struct {
	Symbol      string `yaml:"symbol"`
	ID          int    `yaml:"id"`
	Texture     string `yaml:"texture"`
	Transparent bool   `yaml:"transparent,omitempty"`
	Mirror      *bool  `yaml:"mirror,omitempty"` // Unset: only id 26 is a mirror
}

// ThingSpec places a billboard.
type ThingSpec struct {
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	Radius  float64 `yaml:"radius,omitempty"`
	Texture string  `yaml:"texture"`
}

// LoadOptions controls texture resolution while building a map.
type LoadOptions struct {
	Textures   *TextureLoader
	DarkFactor uint8

	// Dir is the directory of the map file, used for relative texture paths.
	Dir string
}

func (o LoadOptions) withDefaults() LoadOptions {
	if o.Textures == nil {
		o.Textures = NewTextureLoader("")
	}
	if o.DarkFactor == 0 {
		o.DarkFactor = DefaultDarkFactor
	}
	return o
}

// spawn characters and the angle they face
var spawnAngles = map[rune]float64{
	'>': 0,
	'v': math.Pi / 2,
	'<': math.Pi,
	'^': 3 * math.Pi / 2,
}

func isSpawn(r rune) bool {
	_, ok := spawnAngles[r]
	return ok
}

// LoadMapFile reads and parses a map file from disk.
func LoadMapFile(path string, opts LoadOptions) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("world: reading map %s: %w", path, err)
	}
	if opts.Dir == "" {
		opts.Dir = filepath.Dir(path)
	}
	m, err := ParseMap(data, opts)
	if err != nil {
		return nil, fmt.Errorf("parsing map %s: %w", path, err)
	}
	return m, nil
}

// ParseMap parses YAML map data.
func ParseMap(data []byte, opts LoadOptions) (*Map, error) {
	var mf MapFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("world: yaml unmarshal: %w", err)
	}
	return mf.Build(opts)
}

// Build validates the file and constructs the map with its textures.
func (mf *MapFile) Build(opts LoadOptions) (*Map, error) {
	opts = opts.withDefaults()

	if len(mf.Layout) == 0 {
		return nil, ErrEmptyLayout
	}

	m := &Map{
		ID:        mf.ID,
		Name:      mf.Name,
		Height:    len(mf.Layout),
		materials: make(map[Mat]*Material),
	}
	if m.Name == "" {
		m.Name = mf.ID
	}
	for _, row := range mf.Layout {
		m.Width = max(m.Width, utf8.RuneCountInString(row))
	}
	if m.Width == 0 {
		return nil, ErrEmptyLayout
	}

	legend, err := m.buildMaterials(mf.Materials, opts)
	if err != nil {
		return nil, err
	}

	// Short rows are padded with empty cells
	m.grid = make([]Mat, m.Width*m.Height)
	spawns := 0
	for y, row := range mf.Layout {
		x := 0
		for _, r := range row {
			switch {
			case r == '.' || r == ' ':
			case isSpawn(r):
				spawns++
				m.spawnX, m.spawnY, m.spawnAngle = x, y, spawnAngles[r]
			default:
				id, ok := legend[r]
				if !ok {
					return nil, fmt.Errorf("%w: %q at row %d, column %d", ErrUnknownSymbol, r, y, x)
				}
				m.grid[y*m.Width+x] = id
			}
			x++
		}
	}

	switch {
	case spawns == 0:
		return nil, ErrNoSpawn
	case spawns > 1:
		return nil, fmt.Errorf("%w: found %d", ErrMultipleSpawns, spawns)
	}

	for i, ts := range mf.Things {
		tex, err := opts.Textures.Load(ts.Texture, opts.Dir)
		if err != nil {
			return nil, fmt.Errorf("world: thing %d: %w", i, err)
		}
		radius := ts.Radius
		if radius <= 0 {
			radius = 0.3
		}
		m.things = append(m.things, Thing{
			Pos:         core.V(ts.X, ts.Y),
			Radius:      radius,
			TextureName: ts.Texture,
			tex:         tex,
		})
	}

	return m, nil
}

// buildMaterials loads the legend and returns the symbol lookup.
func (m *Map) buildMaterials(specs []MaterialSpec, opts LoadOptions) (map[rune]Mat, error) {
	legend := make(map[rune]Mat, len(specs))

	for _, spec := range specs {
		sym, size := utf8.DecodeRuneInString(spec.Symbol)
		if size == 0 || size != len(spec.Symbol) {
			return nil, fmt.Errorf("world: material symbol %q must be a single character", spec.Symbol)
		}
		if sym == '.' || sym == ' ' || isSpawn(sym) {
			return nil, fmt.Errorf("world: material symbol %q is reserved", spec.Symbol)
		}
		if spec.ID <= 0 || spec.ID > math.MaxUint8 {
			return nil, fmt.Errorf("world: material %q: id %d out of range 1..255", spec.Symbol, spec.ID)
		}
		if _, dup := legend[sym]; dup {
			return nil, fmt.Errorf("world: material symbol %q defined twice", spec.Symbol)
		}

		id := Mat(spec.ID)
		mirror := id == DefaultMirror
		if spec.Mirror != nil {
			mirror = *spec.Mirror
		}

		// Symbols may share an id only when they describe the same material
		if prev := m.materials[id]; prev != nil {
			if prev.TextureName != spec.Texture || prev.Transparent != spec.Transparent || prev.Mirror != mirror {
				return nil, fmt.Errorf("%w: id %d for %q and %q", ErrConflictingID, id, string(prev.Symbol), spec.Symbol)
			}
			legend[sym] = id
			continue
		}

		tex, err := opts.Textures.Load(spec.Texture, opts.Dir)
		if err != nil {
			return nil, fmt.Errorf("world: material %q: %w", spec.Symbol, err)
		}

		legend[sym] = id
		m.materials[id] = &Material{
			ID:          id,
			Symbol:      sym,
			TextureName: spec.Texture,
			Transparent: spec.Transparent,
			Mirror:      mirror,
			tex:         tex,
			dark:        tex.Darken(opts.DarkFactor),
		}
	}

	return legend, nil
}
