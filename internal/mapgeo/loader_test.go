package mapgeo

import (
	"strings"
	"testing"
)

// minimalDoc returns a valid single-area document tests can break one
// field at a time.
func minimalDoc() *MapDocument {
	return &MapDocument{
		Name: "test",
		Size: []float64{32, 32},
		Areas: []BoundaryDoc{
			{Name: "main", X: 0, Y: 0, W: 32, H: 32},
		},
		BombSites: []BoundaryDoc{
			{Name: "A", X: 24, Y: 24, W: 6, H: 6},
		},
		Spawns: SpawnsDoc{
			Attackers: []PointDoc{{X: 2, Y: 2}},
			Defenders: []PointDoc{{X: 30, Y: 30}},
		},
	}
}

func TestFromDocumentValid(t *testing.T) {
	m, err := FromDocument(minimalDoc())
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}
	if m.Name != "test" || m.Width != 32 || m.Height != 32 {
		t.Errorf("unexpected map header: %q %gx%g", m.Name, m.Width, m.Height)
	}
	if len(m.BombSites()) != 1 {
		t.Errorf("want 1 bomb site, got %d", len(m.BombSites()))
	}
}

func TestFromDocumentValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*MapDocument)
		wantErr string
	}{
		{
			"missing size",
			func(d *MapDocument) { d.Size = nil },
			"size must be",
		},
		{
			"negative extent",
			func(d *MapDocument) { d.Size = []float64{-1, 32} },
			"size must be",
		},
		{
			"no areas",
			func(d *MapDocument) { d.Areas = nil },
			"at least one area",
		},
		{
			"no spawns",
			func(d *MapDocument) { d.Spawns.Attackers = nil },
			"spawn point",
		},
		{
			"unnamed boundary",
			func(d *MapDocument) { d.Areas[0].Name = "" },
			"without a name",
		},
		{
			"zero width boundary",
			func(d *MapDocument) { d.Areas[0].W = 0 },
			"extents must be positive",
		},
		{
			"footprint out of bounds",
			func(d *MapDocument) { d.BombSites[0].X = 30 },
			"exceeds map bounds",
		},
		{
			"duplicate area name",
			func(d *MapDocument) {
				d.Areas = append(d.Areas, BoundaryDoc{Name: "main", X: 0, Y: 0, W: 4, H: 4})
			},
			"duplicate",
		},
		{
			"ramp without rise",
			func(d *MapDocument) {
				d.Ramps = []BoundaryDoc{{Name: "r", X: 0, Y: 0, W: 4, H: 4, Direction: "east"}}
			},
			"rise must be positive",
		},
		{
			"ramp with bad direction",
			func(d *MapDocument) {
				d.Ramps = []BoundaryDoc{{Name: "r", X: 0, Y: 0, W: 4, H: 4, HeightZ: 2, Direction: "up"}}
			},
			"unknown slope direction",
		},
		{
			"adjacency to unknown area",
			func(d *MapDocument) {
				d.Adjacency = map[string][]string{"ghost": {"main"}}
			},
			"unknown area",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := minimalDoc()
			tt.mutate(doc)
			_, err := FromDocument(doc)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadYAML(t *testing.T) {
	data := []byte(`
name: yard
size: [16, 16]
areas:
  - {name: main, x: 0, y: 0, w: 16, h: 16}
stairs:
  - {name: s, x: 4, y: 4, w: 2, h: 4, height_z: 1.5, direction: north}
bomb_sites:
  - {name: A, x: 10, y: 10, w: 4, h: 4}
spawns:
  attackers:
    - {x: 1, y: 1}
  defenders:
    - {x: 15, y: 15}
`)

	m, err := Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Name != "yard" {
		t.Errorf("name = %q, want yard", m.Name)
	}
	// Steps default to 4 when the document omits them.
	if top := m.ElevationAt(5, 7.9); !almostEqual(top, 1.5) {
		t.Errorf("stairs top elevation = %g, want 1.5", top)
	}

	if _, err := Load([]byte("{not yaml")); err == nil {
		t.Error("malformed YAML should fail")
	}
}
