package mapgeo

// DefaultMap returns a small two-site map used by the CLI and the test
// suites: a 64x64 field with a mid wall, a crate cluster, a ramp up to a
// heaven platform over site A, and stairs into site B.
func DefaultMap() *Map {
	doc := &MapDocument{
		Name: "range",
		Size: []float64{64, 64},
		Areas: []BoundaryDoc{
			{Name: "attacker-side", X: 0, Y: 0, W: 64, H: 24},
			{Name: "mid", X: 0, Y: 24, W: 64, H: 16},
			{Name: "defender-side", X: 0, Y: 40, W: 64, H: 24},
			{Name: "heaven", X: 4, Y: 44, W: 12, H: 8, Z: 3},
		},
		Walls: []BoundaryDoc{
			{Name: "mid-wall-west", X: 0, Y: 30, W: 20, H: 2, HeightZ: 4},
			{Name: "mid-wall-east", X: 34, Y: 30, W: 30, H: 2, HeightZ: 4},
			{Name: "site-split", X: 28, Y: 44, W: 2, H: 16, HeightZ: 4},
		},
		Objects: []BoundaryDoc{
			{Name: "crate-a", X: 10, Y: 48, W: 3, H: 3, HeightZ: 1.2},
			{Name: "crate-b", X: 44, Y: 50, W: 3, H: 3, HeightZ: 1.2},
			{Name: "mid-box", X: 30, Y: 34, W: 2, H: 2, HeightZ: 1},
		},
		Ramps: []BoundaryDoc{
			{Name: "heaven-ramp", X: 16, Y: 44, W: 6, H: 4, HeightZ: 3, Direction: "west"},
		},
		Stairs: []BoundaryDoc{
			{Name: "b-stairs", X: 40, Y: 40, W: 4, H: 6, HeightZ: 1.5, Direction: "north", Steps: 5},
		},
		BombSites: []BoundaryDoc{
			{Name: "A", X: 4, Y: 48, W: 12, H: 12},
			{Name: "B", X: 42, Y: 48, W: 14, H: 12},
		},
		Spawns: SpawnsDoc{
			Attackers: []PointDoc{
				{X: 10, Y: 4}, {X: 20, Y: 4}, {X: 32, Y: 4}, {X: 44, Y: 4}, {X: 54, Y: 4},
			},
			Defenders: []PointDoc{
				{X: 10, Y: 58}, {X: 22, Y: 56}, {X: 32, Y: 58}, {X: 44, Y: 56}, {X: 54, Y: 58},
			},
		},
		Adjacency: map[string][]string{
			"attacker-side": {"mid"},
			"mid":           {"attacker-side", "defender-side"},
			"defender-side": {"mid", "heaven"},
			"heaven":        {"defender-side"},
		},
	}

	m, err := FromDocument(doc)
	if err != nil {
		// The built-in map is validated by tests; a failure here is a bug.
		panic("mapgeo: default map invalid: " + err.Error())
	}
	return m
}
