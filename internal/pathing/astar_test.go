package pathing

import (
	"math"
	"testing"

	"tacsim/internal/mapgeo"
)

const (
	testRadius = 0.4
	testHeight = 1.8
)

func rangeFinder() *PathFinder {
	return NewPathFinder(NewNavGrid(mapgeo.DefaultMap(), 1.0, testRadius, testHeight))
}

// dividedMap is a 16x16 field split by a full-width wall. When gap is true
// the wall leaves a 4 unit opening in the middle.
func dividedMap(t *testing.T, gap bool) *mapgeo.Map {
	t.Helper()

	walls := []mapgeo.BoundaryDoc{
		{Name: "divider", X: 0, Y: 7, W: 16, H: 2, HeightZ: 4},
	}
	if gap {
		walls = []mapgeo.BoundaryDoc{
			{Name: "divider-west", X: 0, Y: 7, W: 6, H: 2, HeightZ: 4},
			{Name: "divider-east", X: 10, Y: 7, W: 6, H: 2, HeightZ: 4},
		}
	}

	doc := &mapgeo.MapDocument{
		Name:  "divided",
		Size:  []float64{16, 16},
		Areas: []mapgeo.BoundaryDoc{{Name: "main", X: 0, Y: 0, W: 16, H: 16}},
		Walls: walls,
		BombSites: []mapgeo.BoundaryDoc{
			{Name: "A", X: 12, Y: 12, W: 3, H: 3},
		},
		Spawns: mapgeo.SpawnsDoc{
			Attackers: []mapgeo.PointDoc{{X: 2, Y: 2}},
			Defenders: []mapgeo.PointDoc{{X: 14, Y: 14}},
		},
	}

	m, err := mapgeo.FromDocument(doc)
	if err != nil {
		t.Fatalf("building divided map: %v", err)
	}
	return m
}

func TestFindPathThroughMidGap(t *testing.T) {
	pf := rangeFinder()

	start := mapgeo.Vec3{X: 32, Y: 10}
	goal := mapgeo.Vec3{X: 32, Y: 58}
	path := pf.FindPath(start, goal)
	if path == nil {
		t.Fatal("no path across mid")
	}

	if path[0] != start {
		t.Errorf("path starts at %v, want %v", path[0], start)
	}
	if path[len(path)-1] != goal {
		t.Errorf("path ends at %v, want %v", path[len(path)-1], goal)
	}

	// The mid wall spans y 30-32 except for the gap at x 20-34. Any
	// waypoint in the wall band must sit inside the gap.
	crossed := false
	for _, wp := range path {
		if wp.Y > 29 && wp.Y < 33 {
			crossed = true
			if wp.X <= 20 || wp.X >= 34 {
				t.Fatalf("waypoint %v crosses the mid wall outside the gap", wp)
			}
		}
	}
	if !crossed {
		t.Error("path never entered the mid band")
	}
}

func TestFindPathClimbLimit(t *testing.T) {
	pf := rangeFinder()

	// Heaven sits 3 units up. The only way in is the ramp, so every step
	// of the path must stay within the climb limit.
	path := pf.FindPath(mapgeo.Vec3{X: 10, Y: 40}, mapgeo.Vec3{X: 10, Y: 46, Z: 3})
	if path == nil {
		t.Fatal("no path onto heaven")
	}
	for i := 1; i < len(path); i++ {
		if d := math.Abs(path[i].Z - path[i-1].Z); d > MaxClimbHeight+1e-9 {
			t.Fatalf("step %d climbs %g, limit %g", i, d, MaxClimbHeight)
		}
	}
}

func TestFindPathUnreachable(t *testing.T) {
	m := dividedMap(t, false)
	pf := NewPathFinder(NewNavGrid(m, 1.0, testRadius, testHeight))

	if path := pf.FindPath(mapgeo.Vec3{X: 8, Y: 2}, mapgeo.Vec3{X: 8, Y: 14}); path != nil {
		t.Fatalf("path across a solid wall: %v", path)
	}

	// With a gap the same query succeeds.
	open := NewPathFinder(NewNavGrid(dividedMap(t, true), 1.0, testRadius, testHeight))
	if open.FindPath(mapgeo.Vec3{X: 8, Y: 2}, mapgeo.Vec3{X: 8, Y: 14}) == nil {
		t.Error("no path through the gap")
	}
}

func TestFindPathBlockedEndpoints(t *testing.T) {
	pf := rangeFinder()

	// Start inside the mid wall.
	if pf.FindPath(mapgeo.Vec3{X: 10, Y: 31}, mapgeo.Vec3{X: 10, Y: 10}) != nil {
		t.Error("path from inside a wall")
	}
	// Goal inside the mid wall.
	if pf.FindPath(mapgeo.Vec3{X: 10, Y: 10}, mapgeo.Vec3{X: 10, Y: 31}) != nil {
		t.Error("path into a wall")
	}
	// Goal outside the map.
	if pf.FindPath(mapgeo.Vec3{X: 10, Y: 10}, mapgeo.Vec3{X: -5, Y: 10}) != nil {
		t.Error("path off the map")
	}
}

func TestFindPathSameCell(t *testing.T) {
	pf := rangeFinder()

	start := mapgeo.Vec3{X: 10.2, Y: 10.2}
	goal := mapgeo.Vec3{X: 10.7, Y: 10.7}
	path := pf.FindPath(start, goal)
	if len(path) != 2 || path[0] != start || path[1] != goal {
		t.Fatalf("same-cell path = %v, want [start goal]", path)
	}
}

func TestNavGridSampling(t *testing.T) {
	m := mapgeo.DefaultMap()
	g := NewNavGrid(m, 1.0, testRadius, testHeight)

	cols, rows, cell := g.Dimensions()
	if cols != 64 || rows != 64 || cell != 1.0 {
		t.Fatalf("dimensions = %dx%d cell %g", cols, rows, cell)
	}

	if !g.Walkable(32, 10) {
		t.Error("open ground not walkable")
	}
	if g.Walkable(10, 31) {
		t.Error("wall interior walkable")
	}
	if g.Walkable(-1, 10) {
		t.Error("off-grid position walkable")
	}

	// Sampled elevation comes from the cell center.
	if e := g.ElevationAt(10, 46); !(math.Abs(e-3) < 1e-9) {
		t.Errorf("heaven cell elevation = %g, want 3", e)
	}
	if e := g.ElevationAt(-1, -1); e != 0 {
		t.Errorf("off-grid elevation = %g, want 0", e)
	}
}
