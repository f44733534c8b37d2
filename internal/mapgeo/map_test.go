package mapgeo

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestElevationAt(t *testing.T) {
	m := DefaultMap()

	tests := []struct {
		name string
		x, y float64
		want float64
	}{
		{"flat ground", 32, 10, 0},
		{"heaven platform", 10, 46, 3},
		{"object top", 11, 49, 1.2},
		{"ramp bottom edge", 22, 46, 0},
		{"ramp midpoint", 19, 46, 1.5},
		{"ramp top edge", 16, 46, 3},
		{"stairs bottom", 42, 40, 0},
		{"stairs top", 42, 46, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.ElevationAt(tt.x, tt.y)
			if !almostEqual(got, tt.want) {
				t.Errorf("ElevationAt(%g, %g) = %g, want %g", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestRampElevationMonotonic(t *testing.T) {
	m := DefaultMap()

	// heaven-ramp rises westward: elevation must never increase as x grows.
	prev := math.Inf(1)
	for x := 16.0; x <= 22.0; x += 0.25 {
		e := m.ElevationAt(x, 46)
		if e > prev+1e-9 {
			t.Fatalf("ramp elevation increased moving east: %g -> %g at x=%g", prev, e, x)
		}
		if e < 0 || e > 3 {
			t.Fatalf("ramp elevation %g outside [0, 3] at x=%g", e, x)
		}
		prev = e
	}
}

func TestStairsQuantized(t *testing.T) {
	m := DefaultMap()

	// b-stairs has 5 discrete levels; walking the footprint must only ever
	// produce one of them.
	levels := map[float64]bool{}
	for y := 40.0; y <= 46.0; y += 0.1 {
		levels[m.ElevationAt(42, y)] = true
	}
	if len(levels) != 5 {
		t.Fatalf("expected 5 stair levels, got %d: %v", len(levels), levels)
	}
}

func TestAreaAt(t *testing.T) {
	m := DefaultMap()

	tests := []struct {
		name string
		x, y float64
		want string
	}{
		{"attacker side", 32, 10, "attacker-side"},
		{"mid", 32, 30, "mid"},
		{"higher area wins", 10, 46, "heaven"},
		{"area boundary is inclusive", 0, 0, "attacker-side"},
		{"outside all areas", -1, -1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.AreaAt(tt.x, tt.y); got != tt.want {
				t.Errorf("AreaAt(%g, %g) = %q, want %q", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestBombSiteAt(t *testing.T) {
	m := DefaultMap()

	if got := m.BombSiteAt(10, 50); got != "A" {
		t.Errorf("BombSiteAt(10, 50) = %q, want A", got)
	}
	if got := m.BombSiteAt(48, 52); got != "B" {
		t.Errorf("BombSiteAt(48, 52) = %q, want B", got)
	}
	if got := m.BombSiteAt(5, 5); got != "" {
		t.Errorf("BombSiteAt(5, 5) = %q, want empty", got)
	}
}

func TestIsValidPosition(t *testing.T) {
	m := DefaultMap()

	tests := []struct {
		name    string
		x, y, z float64
		want    bool
	}{
		{"open ground", 32, 10, 0, true},
		{"outside bounds", -1, 10, 0, false},
		{"inside wall", 10, 31, 0, false},
		{"inside crate", 11, 49, 0, false},
		{"on crate top", 11, 49, 1.2, true},
		{"below terrain on heaven", 10, 46, 0, false},
		{"on heaven surface", 10, 46, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.IsValidPosition(tt.x, tt.y, tt.z, 0.4, 1.8)
			if got != tt.want {
				t.Errorf("IsValidPosition(%g, %g, %g) = %v, want %v", tt.x, tt.y, tt.z, got, tt.want)
			}
		})
	}
}

func TestCanMove(t *testing.T) {
	m := DefaultMap()

	flat := func(x, y float64) Vec3 { return Vec3{x, y, m.ElevationAt(x, y)} }

	// Flat walking is always fine.
	if !m.CanMove(flat(32, 10), flat(32.5, 10), 0.4, 1.8, 0.5) {
		t.Error("flat step rejected")
	}
	// A 1.2 unit crate top exceeds step height away from any slope.
	if m.CanMove(flat(9, 49), flat(11, 49), 0.4, 1.8, 0.5) {
		t.Error("step onto crate top should exceed max step height")
	}
	// Moving along the ramp crosses more than step height but is slope-mediated.
	if !m.CanMove(flat(21, 46), flat(17, 46), 0.4, 1.8, 0.5) {
		t.Error("ramp traversal rejected")
	}
}

func TestRaycast(t *testing.T) {
	m := DefaultMap()

	// Straight north into the site-split wall.
	hit, ok := m.Raycast(Vec3{29, 20, 1}, Vec3{0, 1, 0}, 100)
	if !ok {
		t.Fatal("expected a hit")
	}
	if hit.Boundary.Name != "site-split" {
		t.Fatalf("hit %q, want site-split", hit.Boundary.Name)
	}
	if !almostEqual(hit.T, 24) {
		t.Errorf("hit.T = %g, want 24", hit.T)
	}

	// Limited range stops short of the wall.
	if _, ok := m.Raycast(Vec3{29, 20, 1}, Vec3{0, 1, 0}, 10); ok {
		t.Error("hit reported beyond max range")
	}

	// Ray above the wall passes over it.
	if hit, ok := m.Raycast(Vec3{29, 20, 5}, Vec3{0, 1, 0}, 100); ok {
		t.Errorf("ray above wall top hit %q", hit.Boundary.Name)
	}

	// Zero direction never hits.
	if _, ok := m.Raycast(Vec3{29, 20, 1}, Vec3{}, 100); ok {
		t.Error("zero direction produced a hit")
	}
}

func TestLineOfSight(t *testing.T) {
	m := DefaultMap()

	a := Vec3{10, 28, 1.5}
	b := Vec3{10, 34, 1.5}
	if m.LineOfSight(a, b, nil) {
		t.Error("sight through mid-wall-west should be blocked")
	}

	open1 := Vec3{26, 28, 1.5}
	open2 := Vec3{26, 34, 1.5}
	if !m.LineOfSight(open1, open2, nil) {
		t.Error("sight through the mid gap should be clear")
	}

	smoke := []Sphere{{Center: Vec3{26, 31, 1.5}, Radius: 2}}
	if m.LineOfSight(open1, open2, smoke) {
		t.Error("smoke on the segment should block sight")
	}

	offSmoke := []Sphere{{Center: Vec3{40, 31, 1.5}, Radius: 2}}
	if !m.LineOfSight(open1, open2, offSmoke) {
		t.Error("smoke away from the segment should not block sight")
	}
}

func TestDefaultMapShape(t *testing.T) {
	m := DefaultMap()

	if len(m.AttackerSpawns()) != 5 || len(m.DefenderSpawns()) != 5 {
		t.Fatalf("want 5 spawns per side, got %d/%d", len(m.AttackerSpawns()), len(m.DefenderSpawns()))
	}
	if len(m.BombSites()) != 2 {
		t.Fatalf("want 2 bomb sites, got %d", len(m.BombSites()))
	}
	if m.MaxElevation() < 3 {
		t.Errorf("max elevation %g, want at least 3 (heaven walls)", m.MaxElevation())
	}
	if adj := m.AdjacentAreas("mid"); len(adj) != 2 {
		t.Errorf("mid adjacency = %v, want 2 entries", adj)
	}
	if m.AdjacentAreas("nope") != nil {
		t.Error("unknown area should have nil adjacency")
	}
}
