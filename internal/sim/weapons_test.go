package sim

import (
	"testing"
)

func TestGetWeaponFallback(t *testing.T) {
	if w := GetWeapon("Vandal"); w.Name != "Vandal" {
		t.Errorf("got %q", w.Name)
	}
	// Unknown names fall back to the Classic so nobody is ever unarmed.
	if w := GetWeapon("not-a-gun"); w.Name != "Classic" {
		t.Errorf("fallback = %q, want Classic", w.Name)
	}
}

func TestGetAllWeaponsOrdered(t *testing.T) {
	weapons := GetAllWeapons()
	if len(weapons) != len(Weapons) {
		t.Fatalf("catalog = %d entries, want %d", len(weapons), len(Weapons))
	}
	for i := 1; i < len(weapons); i++ {
		prev, cur := weapons[i-1], weapons[i]
		if prev.Cost > cur.Cost || (prev.Cost == cur.Cost && prev.Name > cur.Name) {
			t.Fatalf("catalog out of order at %d: %s before %s", i, prev.Name, cur.Name)
		}
	}
	if weapons[0].Name != "Classic" {
		t.Errorf("cheapest weapon = %s, want Classic", weapons[0].Name)
	}
}

func TestRangeMultipliers(t *testing.T) {
	r := RangeMultipliers{Close: 1.2, Medium: 0.8, Long: 0.4}

	tests := []struct {
		distance float64
		want     float64
	}{
		{0, 1.2},
		{9.9, 1.2},
		{10, 0.8},
		{24.9, 0.8},
		{25, 0.4},
		{100, 0.4},
	}
	for _, tt := range tests {
		if got := r.At(tt.distance); got != tt.want {
			t.Errorf("At(%g) = %g, want %g", tt.distance, got, tt.want)
		}
	}
}
