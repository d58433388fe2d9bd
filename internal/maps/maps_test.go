package maps

import (
	"testing"

	"github.com/vovakirdan/ulvestein/internal/registry"
	"github.com/vovakirdan/ulvestein/internal/world"
)

func TestBundledMapsLoad(t *testing.T) {
	list := registry.List()
	if len(list) < 3 {
		t.Fatalf("expected the bundled maps, got %v", list)
	}

	for _, info := range list {
		t.Run(info.ID, func(t *testing.T) {
			m, err := registry.Load(info.ID, world.LoadOptions{})
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}

			// Every bundled map is closed: the border is solid
			for x := 0; x < m.Width; x++ {
				for _, y := range []int{0, m.Height - 1} {
					if mat, _ := m.Get(x, y); !mat.Solid() {
						t.Errorf("border cell (%d, %d) is open", x, y)
					}
				}
			}
			for y := 0; y < m.Height; y++ {
				for _, x := range []int{0, m.Width - 1} {
					if mat, _ := m.Get(x, y); !mat.Solid() {
						t.Errorf("border cell (%d, %d) is open", x, y)
					}
				}
			}

			// Things stand in open cells
			for _, th := range m.Things() {
				if mat, ok := m.Get(th.Pos.Floor()); !ok || mat.Solid() {
					t.Errorf("thing at %v is inside a wall", th.Pos)
				}
			}
		})
	}
}

func TestMirrorsMapHasMirrors(t *testing.T) {
	m, err := registry.Load("mirrors", world.LoadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if mat := m.Material(26); mat == nil || !mat.Mirror {
		t.Error("mirrors map should use the mirror material")
	}
}
