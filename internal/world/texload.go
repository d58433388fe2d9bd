package world

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"os"
	"path/filepath"
	"time"

	"github.com/patrickmn/go-cache"
	_ "golang.org/x/image/bmp" // Register BMP decoder
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// MaxTextureSize caps both sides of a texture loaded from a file.
const MaxTextureSize = 256

// ErrTextureNotFound is returned when no candidate path holds the texture.
var ErrTextureNotFound = errors.New("world: texture not found")

// TextureLoader resolves texture names to textures. Decoded files are
// cached by absolute path and shared by every map that uses them.
type TextureLoader struct {
	dir   string
	cache *cache.Cache
}

// NewTextureLoader creates a loader. dir, when set, is searched before the
// directory of the map that references a texture.
func NewTextureLoader(dir string) *TextureLoader {
	return &TextureLoader{
		dir:   dir,
		cache: cache.New(30*time.Minute, 10*time.Minute),
	}
}

// Load returns a built-in texture by name, or decodes an image file.
func (l *TextureLoader) Load(name, mapDir string) (*Texture, error) {
	if tex, ok := Builtin(name); ok {
		return tex, nil
	}

	for _, path := range l.candidates(name, mapDir) {
		full, err := filepath.Abs(path)
		if err != nil {
			continue
		}
		if cached, ok := l.cache.Get(full); ok {
			return cached.(*Texture), nil
		}
		if _, err := os.Stat(full); err != nil {
			continue
		}

		tex, err := decodeTexture(full)
		if err != nil {
			return nil, err
		}
		l.cache.Set(full, tex, cache.DefaultExpiration)
		return tex, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrTextureNotFound, name)
}

func (l *TextureLoader) candidates(name, mapDir string) []string {
	if filepath.IsAbs(name) {
		return []string{name}
	}
	var paths []string
	if l.dir != "" {
		paths = append(paths, filepath.Join(l.dir, name))
	}
	if mapDir != "" {
		paths = append(paths, filepath.Join(mapDir, name))
	}
	return append(paths, name)
}

func decodeTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("world: open texture: %w", err)
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("world: decode texture %s: %w", path, err)
	}

	return TextureFromImage(fitTexture(img)), nil
}

// fitTexture scales an image down so neither side exceeds MaxTextureSize.
func fitTexture(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= MaxTextureSize && h <= MaxTextureSize {
		return img
	}

	if w >= h {
		h = max(h*MaxTextureSize/w, 1)
		w = MaxTextureSize
	} else {
		w = max(w*MaxTextureSize/h, 1)
		h = MaxTextureSize
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}
