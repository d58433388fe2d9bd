// Package maps bundles the built-in maps and registers them.
// Import it for side effects.
package maps

import (
	"embed"
	"io/fs"
	"path"
	"strings"

	"github.com/vovakirdan/ulvestein/internal/registry"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var data embed.FS

// header is the part of a map file needed for the registry listing.
type header struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

func init() {
	entries, err := fs.ReadDir(data, "data")
	if err != nil {
		panic("maps: " + err.Error())
	}

	for _, e := range entries {
		raw, err := data.ReadFile(path.Join("data", e.Name()))
		if err != nil {
			panic("maps: " + err.Error())
		}

		var h header
		if err := yaml.Unmarshal(raw, &h); err != nil {
			panic("maps: " + e.Name() + ": " + err.Error())
		}
		if h.ID == "" {
			h.ID = strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
		}

		registry.Register(h.ID, h.Name, func() []byte { return raw })
	}
}
