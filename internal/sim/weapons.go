package sim

import "sort"

// WeaponType classifies a weapon for buy logic and duel tier math.
type WeaponType uint8

const (
	WeaponPistol WeaponType = iota
	WeaponSMG
	WeaponShotgun
	WeaponRifle
	WeaponSniper
	WeaponHeavy
)

// String returns a human-readable weapon type name.
func (t WeaponType) String() string {
	switch t {
	case WeaponPistol:
		return "pistol"
	case WeaponSMG:
		return "smg"
	case WeaponShotgun:
		return "shotgun"
	case WeaponRifle:
		return "rifle"
	case WeaponSniper:
		return "sniper"
	case WeaponHeavy:
		return "heavy"
	default:
		return "unknown"
	}
}

// RangeMultipliers scale damage by engagement distance bracket.
type RangeMultipliers struct {
	Close  float64 // Under 10 units
	Medium float64 // 10 to 25 units
	Long   float64 // Over 25 units
}

// At returns the multiplier for a given distance.
func (r RangeMultipliers) At(distance float64) float64 {
	switch {
	case distance < 10:
		return r.Close
	case distance < 25:
		return r.Medium
	default:
		return r.Long
	}
}

// Weapon stats. Tier feeds the duel advantage formula; the remaining fields
// drive damage application and buy decisions.
type Weapon struct {
	Name             string
	Type             WeaponType
	Cost             int
	Damage           int
	FireRate         float64 // Rounds per second
	Ranges           RangeMultipliers
	ArmorPenetration float64 // Fraction of damage that bypasses armor
	Accuracy         float64
	MovementAccuracy float64 // Accuracy retained while moving
	MagazineSize     int
	ReloadTime       float64
	EquipTime        float64
	WallPenetration  float64
	Tier             float64 // Duel advantage multiplier
}

// Weapons is the full catalog, keyed by name.
var Weapons = map[string]Weapon{
	// Pistols
	"Classic": {
		Name: "Classic", Type: WeaponPistol, Cost: 0, Damage: 26, FireRate: 6.75,
		Ranges: RangeMultipliers{1.0, 0.85, 0.7}, ArmorPenetration: 0.5,
		Accuracy: 0.75, MovementAccuracy: 0.6, MagazineSize: 12,
		ReloadTime: 1.75, EquipTime: 0.75, WallPenetration: 0.5, Tier: 1.0,
	},
	"Shorty": {
		Name: "Shorty", Type: WeaponPistol, Cost: 150, Damage: 36, FireRate: 3.3,
		Ranges: RangeMultipliers{1.2, 0.6, 0.3}, ArmorPenetration: 0.4,
		Accuracy: 0.7, MovementAccuracy: 0.65, MagazineSize: 2,
		ReloadTime: 1.75, EquipTime: 0.75, WallPenetration: 0.3, Tier: 1.0,
	},
	"Frenzy": {
		Name: "Frenzy", Type: WeaponPistol, Cost: 450, Damage: 26, FireRate: 10.0,
		Ranges: RangeMultipliers{1.0, 0.8, 0.6}, ArmorPenetration: 0.5,
		Accuracy: 0.65, MovementAccuracy: 0.6, MagazineSize: 13,
		ReloadTime: 1.5, EquipTime: 1.0, WallPenetration: 0.4, Tier: 1.1,
	},
	"Ghost": {
		Name: "Ghost", Type: WeaponPistol, Cost: 500, Damage: 30, FireRate: 6.75,
		Ranges: RangeMultipliers{1.0, 0.9, 0.8}, ArmorPenetration: 0.65,
		Accuracy: 0.85, MovementAccuracy: 0.65, MagazineSize: 15,
		ReloadTime: 1.5, EquipTime: 0.75, WallPenetration: 0.55, Tier: 1.2,
	},
	"Sheriff": {
		Name: "Sheriff", Type: WeaponPistol, Cost: 800, Damage: 55, FireRate: 4.0,
		Ranges: RangeMultipliers{1.0, 1.0, 0.9}, ArmorPenetration: 0.75,
		Accuracy: 0.8, MovementAccuracy: 0.45, MagazineSize: 6,
		ReloadTime: 2.25, EquipTime: 1.0, WallPenetration: 0.65, Tier: 1.3,
	},

	// SMGs
	"Stinger": {
		Name: "Stinger", Type: WeaponSMG, Cost: 950, Damage: 27, FireRate: 16.0,
		Ranges: RangeMultipliers{1.0, 0.8, 0.6}, ArmorPenetration: 0.6,
		Accuracy: 0.7, MovementAccuracy: 0.6, MagazineSize: 20,
		ReloadTime: 2.25, EquipTime: 0.75, WallPenetration: 0.5, Tier: 1.4,
	},
	"Spectre": {
		Name: "Spectre", Type: WeaponSMG, Cost: 1600, Damage: 26, FireRate: 13.33,
		Ranges: RangeMultipliers{1.0, 0.85, 0.7}, ArmorPenetration: 0.65,
		Accuracy: 0.75, MovementAccuracy: 0.65, MagazineSize: 30,
		ReloadTime: 2.25, EquipTime: 0.75, WallPenetration: 0.6, Tier: 1.5,
	},

	// Shotguns
	"Bucky": {
		Name: "Bucky", Type: WeaponShotgun, Cost: 850, Damage: 40, FireRate: 1.1,
		Ranges: RangeMultipliers{1.3, 0.6, 0.25}, ArmorPenetration: 0.5,
		Accuracy: 0.7, MovementAccuracy: 0.6, MagazineSize: 5,
		ReloadTime: 2.5, EquipTime: 1.0, WallPenetration: 0.3, Tier: 1.3,
	},
	"Judge": {
		Name: "Judge", Type: WeaponShotgun, Cost: 1850, Damage: 34, FireRate: 3.5,
		Ranges: RangeMultipliers{1.3, 0.65, 0.3}, ArmorPenetration: 0.55,
		Accuracy: 0.65, MovementAccuracy: 0.6, MagazineSize: 7,
		ReloadTime: 2.2, EquipTime: 1.0, WallPenetration: 0.4, Tier: 1.4,
	},

	// Rifles
	"Bulldog": {
		Name: "Bulldog", Type: WeaponRifle, Cost: 2050, Damage: 35, FireRate: 9.15,
		Ranges: RangeMultipliers{1.0, 0.95, 0.9}, ArmorPenetration: 0.75,
		Accuracy: 0.8, MovementAccuracy: 0.4, MagazineSize: 24,
		ReloadTime: 2.5, EquipTime: 1.0, WallPenetration: 0.6, Tier: 1.7,
	},
	"Guardian": {
		Name: "Guardian", Type: WeaponRifle, Cost: 2250, Damage: 65, FireRate: 5.25,
		Ranges: RangeMultipliers{1.0, 1.0, 0.95}, ArmorPenetration: 0.85,
		Accuracy: 0.95, MovementAccuracy: 0.35, MagazineSize: 12,
		ReloadTime: 2.5, EquipTime: 1.0, WallPenetration: 0.7, Tier: 1.8,
	},
	"Phantom": {
		Name: "Phantom", Type: WeaponRifle, Cost: 2900, Damage: 40, FireRate: 9.75,
		Ranges: RangeMultipliers{1.0, 1.0, 1.0}, ArmorPenetration: 0.8,
		Accuracy: 0.9, MovementAccuracy: 0.4, MagazineSize: 25,
		ReloadTime: 2.5, EquipTime: 1.0, WallPenetration: 0.8, Tier: 2.0,
	},
	"Vandal": {
		Name: "Vandal", Type: WeaponRifle, Cost: 2900, Damage: 40, FireRate: 9.25,
		Ranges: RangeMultipliers{1.0, 1.0, 1.0}, ArmorPenetration: 0.8,
		Accuracy: 0.85, MovementAccuracy: 0.35, MagazineSize: 25,
		ReloadTime: 2.5, EquipTime: 1.0, WallPenetration: 0.7, Tier: 2.0,
	},

	// Snipers
	"Marshal": {
		Name: "Marshal", Type: WeaponSniper, Cost: 950, Damage: 101, FireRate: 1.5,
		Ranges: RangeMultipliers{1.0, 1.0, 1.0}, ArmorPenetration: 0.9,
		Accuracy: 0.95, MovementAccuracy: 0.15, MagazineSize: 5,
		ReloadTime: 2.5, EquipTime: 1.25, WallPenetration: 0.7, Tier: 1.6,
	},
	"Outlaw": {
		Name: "Outlaw", Type: WeaponSniper, Cost: 2400, Damage: 127, FireRate: 1.25,
		Ranges: RangeMultipliers{1.0, 1.0, 1.0}, ArmorPenetration: 0.95,
		Accuracy: 0.98, MovementAccuracy: 0.12, MagazineSize: 5,
		ReloadTime: 2.76, EquipTime: 1.25, WallPenetration: 0.8, Tier: 2.1,
	},
	"Operator": {
		Name: "Operator", Type: WeaponSniper, Cost: 4700, Damage: 150, FireRate: 0.75,
		Ranges: RangeMultipliers{1.0, 1.0, 1.0}, ArmorPenetration: 1.0,
		Accuracy: 1.0, MovementAccuracy: 0.1, MagazineSize: 5,
		ReloadTime: 3.7, EquipTime: 1.5, WallPenetration: 0.9, Tier: 2.5,
	},

	// Heavy weapons
	"Ares": {
		Name: "Ares", Type: WeaponHeavy, Cost: 1600, Damage: 30, FireRate: 10.0,
		Ranges: RangeMultipliers{1.0, 0.9, 0.75}, ArmorPenetration: 0.7,
		Accuracy: 0.75, MovementAccuracy: 0.3, MagazineSize: 50,
		ReloadTime: 3.25, EquipTime: 1.25, WallPenetration: 0.8, Tier: 1.6,
	},
	"Odin": {
		Name: "Odin", Type: WeaponHeavy, Cost: 3200, Damage: 38, FireRate: 12.0,
		Ranges: RangeMultipliers{1.0, 0.9, 0.8}, ArmorPenetration: 0.8,
		Accuracy: 0.7, MovementAccuracy: 0.25, MagazineSize: 100,
		ReloadTime: 5.0, EquipTime: 1.5, WallPenetration: 0.9, Tier: 1.7,
	},
}

// GetWeapon returns the weapon with the given name, defaulting to the
// Classic for unknown names so a player is never unarmed.
func GetWeapon(name string) Weapon {
	if w, ok := Weapons[name]; ok {
		return w
	}
	return Weapons["Classic"]
}

// GetAllWeapons returns the catalog sorted by cost, then name.
func GetAllWeapons() []Weapon {
	weapons := make([]Weapon, 0, len(Weapons))
	for _, w := range Weapons {
		weapons = append(weapons, w)
	}
	sort.Slice(weapons, func(i, j int) bool {
		if weapons[i].Cost != weapons[j].Cost {
			return weapons[i].Cost < weapons[j].Cost
		}
		return weapons[i].Name < weapons[j].Name
	})
	return weapons
}
