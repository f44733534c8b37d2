package mapgeo

import (
	"math"
)

// groundTolerance absorbs float error when comparing a position against the
// terrain surface under it.
const groundTolerance = 0.05

// Map is the immutable geometry store for one map. All queries are safe for
// concurrent use because nothing mutates after construction.
type Map struct {
	Name   string
	Width  float64
	Height float64

	areas     []*Boundary
	walls     []*Boundary
	objects   []*Boundary
	stairs    []*Boundary
	ramps     []*Boundary
	bombSites []*Boundary

	// solids is walls + objects, the raycast/collision set.
	solids []*Boundary

	attackerSpawns []Vec3
	defenderSpawns []Vec3

	adjacency map[string][]string

	maxElevation float64
}

// Hit describes the nearest boundary struck by a raycast.
type Hit struct {
	T        float64 // Distance along the normalized ray direction
	Point    Vec3
	Boundary *Boundary
}

// AttackerSpawns returns the attacker spawn points.
func (m *Map) AttackerSpawns() []Vec3 { return m.attackerSpawns }

// DefenderSpawns returns the defender spawn points.
func (m *Map) DefenderSpawns() []Vec3 { return m.defenderSpawns }

// BombSites returns the named plantable regions.
func (m *Map) BombSites() []*Boundary { return m.bombSites }

// MaxElevation returns the highest walkable or solid surface on the map.
func (m *Map) MaxElevation() float64 { return m.maxElevation }

// AdjacentAreas returns the names of areas connected to the given area for
// pathing, or nil when none are declared.
func (m *Map) AdjacentAreas(name string) []string {
	return m.adjacency[name]
}

// ElevationAt returns the walkable surface elevation at (x, y).
// Ramp and stair interpolation takes precedence inside their footprint,
// then object top surfaces, then the highest containing area's base.
func (m *Map) ElevationAt(x, y float64) float64 {
	found := false
	best := 0.0

	for _, b := range m.ramps {
		if b.Contains(x, y) {
			if e := b.SurfaceElevation(x, y); !found || e > best {
				best, found = e, true
			}
		}
	}
	for _, b := range m.stairs {
		if b.Contains(x, y) {
			if e := b.SurfaceElevation(x, y); !found || e > best {
				best, found = e, true
			}
		}
	}
	if found {
		return best
	}

	for _, b := range m.objects {
		if b.Contains(x, y) {
			if e := b.Top(); !found || e > best {
				best, found = e, true
			}
		}
	}
	if found {
		return best
	}

	for _, b := range m.areas {
		if b.Contains(x, y) {
			if !found || b.Z > best {
				best, found = b.Z, true
			}
		}
	}
	return best
}

// AreaAt returns the name of the highest-elevation area containing (x, y),
// or "" when the point lies outside every area.
func (m *Map) AreaAt(x, y float64) string {
	name := ""
	best := math.Inf(-1)
	for _, b := range m.areas {
		if b.Contains(x, y) && b.Z > best {
			name, best = b.Name, b.Z
		}
	}
	return name
}

// BombSiteAt returns the name of the bomb site containing (x, y), or "".
func (m *Map) BombSiteAt(x, y float64) string {
	for _, b := range m.bombSites {
		if b.Contains(x, y) {
			return b.Name
		}
	}
	return ""
}

// IsValidPosition reports whether a player cylinder of the given radius and
// height can occupy (x, y, z): inside map bounds, inside at least one area,
// not below the terrain surface, and not interpenetrating a wall or object.
// Standing on top of an object is valid.
func (m *Map) IsValidPosition(x, y, z, radius, height float64) bool {
	if x < 0 || x > m.Width || y < 0 || y > m.Height {
		return false
	}
	if m.AreaAt(x, y) == "" {
		return false
	}
	if z < m.ElevationAt(x, y)-groundTolerance {
		return false
	}
	for _, b := range m.solids {
		if b.overlapsCircle(x, y, radius) && b.overlapsVertical(z+groundTolerance, height-groundTolerance) {
			return false
		}
	}
	return true
}

// CanMove reports whether a player can step from from to to: the destination
// must be valid and the elevation change climbable, either within maxStep or
// mediated by a ramp or stairs at one of the endpoints.
func (m *Map) CanMove(from, to Vec3, radius, height, maxStep float64) bool {
	if !m.IsValidPosition(to.X, to.Y, to.Z, radius, height) {
		return false
	}
	dz := m.ElevationAt(to.X, to.Y) - m.ElevationAt(from.X, from.Y)
	if math.Abs(dz) <= maxStep {
		return true
	}
	return m.onSlope(from.X, from.Y) || m.onSlope(to.X, to.Y)
}

func (m *Map) onSlope(x, y float64) bool {
	for _, b := range m.ramps {
		if b.Contains(x, y) {
			return true
		}
	}
	for _, b := range m.stairs {
		if b.Contains(x, y) {
			return true
		}
	}
	return false
}

// Raycast casts a ray from origin along dir against every wall and object
// AABB using per-axis slab intersection, returning the nearest hit within
// maxRange. dir need not be normalized.
func (m *Map) Raycast(origin, dir Vec3, maxRange float64) (Hit, bool) {
	n := dir.Normalized()
	if n == (Vec3{}) || maxRange <= 0 {
		return Hit{}, false
	}

	best := Hit{T: math.Inf(1)}
	for _, b := range m.solids {
		if t, ok := rayAABB(origin, n, b.Min(), b.Max(), maxRange); ok && t < best.T {
			best = Hit{T: t, Point: origin.Add(n.Scale(t)), Boundary: b}
		}
	}
	if best.Boundary == nil {
		return Hit{}, false
	}
	return best, true
}

// LineOfSight reports whether the segment from a to b is unobstructed by
// walls, objects, and the given smoke volumes.
func (m *Map) LineOfSight(a, b Vec3, smokes []Sphere) bool {
	d := b.Sub(a)
	dist := d.Length()
	if dist > 0 {
		if hit, ok := m.Raycast(a, d, dist); ok && hit.T < dist {
			return false
		}
	}
	for _, s := range smokes {
		if s.Blocks(a, b) {
			return false
		}
	}
	return true
}
