// Package world holds the playable state: the grid map and its materials,
// textures, billboard things, the player and the column renderer that turns
// all of it into a framebuffer.
package world

// Mat is a material id stored in a map cell.
type Mat uint8

const (
	// Empty cells can be walked through and never stop a ray.
	Empty Mat = 0
	// DefaultMirror is treated as a mirror unless the legend says otherwise.
	DefaultMirror Mat = 26
)

// Solid reports whether the material blocks movement.
func (m Mat) Solid() bool {
	return m != Empty
}

// Material describes how a material id looks and behaves.
type Material struct {
	ID          Mat
	Symbol      rune
	TextureName string
	Transparent bool // Rays continue behind it
	Mirror      bool // Rays are reflected

	tex  *Texture
	dark *Texture
}

// Texture returns the texture for a face, the darkened one for Up/Down faces.
func (m *Material) Texture(dark bool) *Texture {
	if dark {
		return m.dark
	}
	return m.tex
}

// Opaque reports whether a ray stops at the material.
func (m *Material) Opaque() bool {
	return !m.Transparent && !m.Mirror
}
