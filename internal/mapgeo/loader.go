package mapgeo

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MapDocument is the declarative YAML description of a map. Boundaries are
// grouped by type; spawn points and area adjacency are listed separately.
type MapDocument struct {
	Name       string              `yaml:"name"`
	Size       []float64           `yaml:"size"` // [width, height]
	Areas      []BoundaryDoc       `yaml:"areas"`
	Walls      []BoundaryDoc       `yaml:"walls"`
	Objects    []BoundaryDoc       `yaml:"objects"`
	Stairs     []BoundaryDoc       `yaml:"stairs"`
	Ramps      []BoundaryDoc       `yaml:"ramps"`
	BombSites  []BoundaryDoc       `yaml:"bomb_sites"`
	Spawns     SpawnsDoc           `yaml:"spawns"`
	Adjacency  map[string][]string `yaml:"adjacency"`
}

// BoundaryDoc is one named boundary in a map document.
type BoundaryDoc struct {
	Name      string  `yaml:"name"`
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	W         float64 `yaml:"w"`
	H         float64 `yaml:"h"`
	Z         float64 `yaml:"z"`
	HeightZ   float64 `yaml:"height_z"`
	Direction string  `yaml:"direction,omitempty"` // east/west/north/south, ramps and stairs only
	Steps     int     `yaml:"steps,omitempty"`
}

// SpawnsDoc lists the per-side spawn points.
type SpawnsDoc struct {
	Attackers []PointDoc `yaml:"attackers"`
	Defenders []PointDoc `yaml:"defenders"`
}

// PointDoc is a 3D point in a map document.
type PointDoc struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// LoadFile reads and validates a YAML map document from disk.
// Any malformed geometry fails here, before a round can be constructed.
func LoadFile(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read map file: %w", err)
	}
	return Load(data)
}

// Load parses and validates a YAML map document.
func Load(data []byte) (*Map, error) {
	var doc MapDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse map document: %w", err)
	}
	return FromDocument(&doc)
}

// FromDocument builds a Map from a parsed document, validating every
// boundary. Construction is all-or-nothing: no partially initialized Map is
// ever returned.
func FromDocument(doc *MapDocument) (*Map, error) {
	if len(doc.Size) != 2 || doc.Size[0] <= 0 || doc.Size[1] <= 0 {
		return nil, fmt.Errorf("map %q: size must be [width, height] with positive extents", doc.Name)
	}

	m := &Map{
		Name:      doc.Name,
		Width:     doc.Size[0],
		Height:    doc.Size[1],
		adjacency: doc.Adjacency,
	}

	seen := make(map[string]bool)
	add := func(docs []BoundaryDoc, typ BoundaryType, dst *[]*Boundary) error {
		for i := range docs {
			b, err := buildBoundary(&docs[i], typ, m.Width, m.Height)
			if err != nil {
				return err
			}
			key := typ.String() + "/" + b.Name
			if seen[key] {
				return fmt.Errorf("duplicate %s name %q", typ, b.Name)
			}
			seen[key] = true
			*dst = append(*dst, b)
			if top := b.Top(); top > m.maxElevation {
				m.maxElevation = top
			}
		}
		return nil
	}

	if err := add(doc.Areas, TypeArea, &m.areas); err != nil {
		return nil, err
	}
	if err := add(doc.Walls, TypeWall, &m.walls); err != nil {
		return nil, err
	}
	if err := add(doc.Objects, TypeObject, &m.objects); err != nil {
		return nil, err
	}
	if err := add(doc.Stairs, TypeStairs, &m.stairs); err != nil {
		return nil, err
	}
	if err := add(doc.Ramps, TypeRamp, &m.ramps); err != nil {
		return nil, err
	}
	if err := add(doc.BombSites, TypeBombSite, &m.bombSites); err != nil {
		return nil, err
	}

	if len(m.areas) == 0 {
		return nil, fmt.Errorf("map %q: at least one area is required", doc.Name)
	}
	if len(doc.Spawns.Attackers) == 0 || len(doc.Spawns.Defenders) == 0 {
		return nil, fmt.Errorf("map %q: both sides need at least one spawn point", doc.Name)
	}

	for _, p := range doc.Spawns.Attackers {
		m.attackerSpawns = append(m.attackerSpawns, Vec3{p.X, p.Y, p.Z})
	}
	for _, p := range doc.Spawns.Defenders {
		m.defenderSpawns = append(m.defenderSpawns, Vec3{p.X, p.Y, p.Z})
	}

	m.solids = make([]*Boundary, 0, len(m.walls)+len(m.objects))
	m.solids = append(m.solids, m.walls...)
	m.solids = append(m.solids, m.objects...)

	for name := range m.adjacency {
		if !m.hasArea(name) {
			return nil, fmt.Errorf("map %q: adjacency references unknown area %q", doc.Name, name)
		}
	}

	return m, nil
}

func (m *Map) hasArea(name string) bool {
	for _, b := range m.areas {
		if b.Name == name {
			return true
		}
	}
	return false
}

func buildBoundary(doc *BoundaryDoc, typ BoundaryType, width, height float64) (*Boundary, error) {
	if doc.Name == "" {
		return nil, fmt.Errorf("%s boundary without a name", typ)
	}
	if doc.W <= 0 || doc.H <= 0 {
		return nil, fmt.Errorf("%s %q: extents must be positive, got w=%g h=%g", typ, doc.Name, doc.W, doc.H)
	}
	if doc.X < 0 || doc.Y < 0 || doc.X+doc.W > width || doc.Y+doc.H > height {
		return nil, fmt.Errorf("%s %q: footprint exceeds map bounds", typ, doc.Name)
	}
	if doc.HeightZ < 0 {
		return nil, fmt.Errorf("%s %q: height_z must not be negative", typ, doc.Name)
	}

	b := &Boundary{
		Name:    doc.Name,
		Type:    typ,
		X:       doc.X,
		Y:       doc.Y,
		W:       doc.W,
		H:       doc.H,
		Z:       doc.Z,
		HeightZ: doc.HeightZ,
		Steps:   doc.Steps,
	}

	if typ == TypeRamp || typ == TypeStairs {
		if doc.HeightZ <= 0 {
			return nil, fmt.Errorf("%s %q: rise must be positive", typ, doc.Name)
		}
		dir, err := parseDirection(doc.Direction)
		if err != nil {
			return nil, fmt.Errorf("%s %q: %w", typ, doc.Name, err)
		}
		b.Direction = dir
		if typ == TypeStairs && b.Steps < 2 {
			b.Steps = 4
		}
	}

	return b, nil
}

func parseDirection(s string) (SlopeDirection, error) {
	switch s {
	case "east":
		return SlopeEast, nil
	case "west":
		return SlopeWest, nil
	case "north":
		return SlopeNorth, nil
	case "south":
		return SlopeSouth, nil
	default:
		return 0, fmt.Errorf("unknown slope direction %q", s)
	}
}
