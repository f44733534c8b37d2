package sim

import (
	"sort"

	"tacsim/internal/mapgeo"
)

// Team identifies a side within a round.
type Team uint8

const (
	TeamAttackers Team = iota
	TeamDefenders
)

// String returns the team name.
func (t Team) String() string {
	if t == TeamAttackers {
		return "attackers"
	}
	return "defenders"
}

// Other returns the opposing team.
func (t Team) Other() Team {
	if t == TeamAttackers {
		return TeamDefenders
	}
	return TeamAttackers
}

// ShieldType is the armor purchase a player carries.
type ShieldType uint8

const (
	ShieldNone ShieldType = iota
	ShieldLight
	ShieldHeavy
)

// Armor returns the armor points granted by the shield.
func (s ShieldType) Armor() int {
	switch s {
	case ShieldLight:
		return 25
	case ShieldHeavy:
		return 50
	default:
		return 0
	}
}

// Cost returns the shield's buy price.
func (s ShieldType) Cost() int {
	switch s {
	case ShieldLight:
		return 400
	case ShieldHeavy:
		return 1000
	default:
		return 0
	}
}

// String returns the shield name.
func (s ShieldType) String() string {
	switch s {
	case ShieldLight:
		return "light"
	case ShieldHeavy:
		return "heavy"
	default:
		return "none"
	}
}

// StatusEffect is a timed condition applied to a player by an ability.
type StatusEffect uint8

const (
	StatusFlashed StatusEffect = iota
	StatusSlowed
	StatusSmoked
	StatusBurning
	StatusRevealed
)

// String returns the status effect name.
func (s StatusEffect) String() string {
	switch s {
	case StatusFlashed:
		return "flashed"
	case StatusSlowed:
		return "slowed"
	case StatusSmoked:
		return "smoked"
	case StatusBurning:
		return "burning"
	case StatusRevealed:
		return "revealed"
	default:
		return "unknown"
	}
}

// Sound is a noise a player heard this tick.
type Sound struct {
	Kind      string // footstep, gunshot, ability
	SourceID  string
	Location  mapgeo.Vec3
	Intensity float64
}

// AbilitySlot is one equipped ability with its remaining charges.
type AbilitySlot struct {
	Def     *AbilityDefinition
	Charges int
}

// Player is the full per-player simulation state. A Player is owned
// exclusively by its Round for the round's lifetime; cross-round carryover
// is applied by the Match between rounds.
type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Team  Team   `json:"-"`
	Role  string `json:"role"`
	Agent string `json:"agent"`

	Health  int        `json:"health"`
	Armor   int        `json:"armor"`
	Credits int        `json:"credits"`
	Weapon  Weapon     `json:"-"`
	Shield  ShieldType `json:"shield"`
	Alive   bool       `json:"alive"`

	// Skill ratings on a 0-100 scale, fixed for the match.
	AimRating        float64 `json:"-"`
	MovementAccuracy float64 `json:"-"`

	Pos     mapgeo.Vec3 `json:"pos"`
	Vel     mapgeo.Vec3 `json:"-"`
	ViewDir mapgeo.Vec3 `json:"-"` // Unit horizontal facing

	Walking      bool `json:"-"`
	Crouching    bool `json:"-"`
	Jumping      bool `json:"-"`
	Falling      bool `json:"-"`
	Grounded     bool `json:"-"`
	ForcedCrouch bool `json:"-"`
	fallStartZ   float64

	Statuses map[StatusEffect]float64 `json:"-"` // Remaining seconds per effect

	HasSpike       bool    `json:"hasSpike"`
	IsPlanting     bool    `json:"-"`
	IsDefusing     bool    `json:"-"`
	PlantProgress  float64 `json:"-"`
	DefuseProgress float64 `json:"-"`

	Kills       int `json:"kills"`
	Deaths      int `json:"deaths"`
	Plants      int `json:"-"`
	Defuses     int `json:"-"`
	DamageDealt int `json:"-"`
	UltPoints   int `json:"-"`

	Abilities []AbilitySlot `json:"-"`

	// Per-tick perception state, rebuilt by the round.
	VisibleEnemies      map[string]bool
	KnownEnemyPositions map[string]mapgeo.Vec3
	HeardSounds         []Sound

	duelCooldown float64

	// Per-round counters feeding the carryover formula. Reset by the
	// round at construction; the exported totals accumulate for stats.
	roundKills   int
	roundPlants  int
	roundDefuses int
}

// PlayerOptions configures a roster entry.
type PlayerOptions struct {
	Name             string
	Role             string
	Agent            string
	AimRating        float64
	MovementAccuracy float64
	Credits          int
	Abilities        []AbilitySlot
}

// NewPlayer creates a player with full health and default ratings.
func NewPlayer(id string, team Team, opts PlayerOptions) *Player {
	p := &Player{
		ID:                  id,
		Name:                opts.Name,
		Team:                team,
		Role:                opts.Role,
		Agent:               opts.Agent,
		Health:              100,
		Credits:             opts.Credits,
		Weapon:              GetWeapon("Classic"),
		Alive:               true,
		Grounded:            true,
		AimRating:           opts.AimRating,
		MovementAccuracy:    opts.MovementAccuracy,
		ViewDir:             mapgeo.Vec3{X: 1},
		Statuses:            make(map[StatusEffect]float64),
		Abilities:           opts.Abilities,
		VisibleEnemies:      make(map[string]bool),
		KnownEnemyPositions: make(map[string]mapgeo.Vec3),
	}
	if p.Name == "" {
		p.Name = id
	}
	if p.AimRating <= 0 {
		p.AimRating = 60
	}
	if p.MovementAccuracy <= 0 {
		p.MovementAccuracy = 60
	}
	return p
}

// HasStatus reports whether the effect is currently active.
func (p *Player) HasStatus(s StatusEffect) bool {
	return p.Statuses[s] > 0
}

// AddStatus applies or refreshes a timed effect. The longer remaining
// duration wins.
func (p *Player) AddStatus(s StatusEffect, duration float64) {
	if p.Statuses[s] < duration {
		p.Statuses[s] = duration
	}
}

// ClearStatus removes an effect outright.
func (p *Player) ClearStatus(s StatusEffect) {
	delete(p.Statuses, s)
}

// TickStatuses decays effect durations and drops expired ones.
func (p *Player) TickStatuses(dt float64) {
	for s, remaining := range p.Statuses {
		remaining -= dt
		if remaining <= 0 {
			delete(p.Statuses, s)
		} else {
			p.Statuses[s] = remaining
		}
	}
}

// IsMoving reports whether the player has horizontal velocity.
func (p *Player) IsMoving() bool {
	return p.Vel.X != 0 || p.Vel.Y != 0
}

// ApplyDamage deals damage with the given armor penetration fraction:
// that share goes straight to health, the rest is absorbed by armor first.
// Returns true when the player died.
func (p *Player) ApplyDamage(damage int, armorPen float64) bool {
	if !p.Alive || damage <= 0 {
		return false
	}

	healthDamage := int(float64(damage) * armorPen)
	armorDamage := damage - healthDamage

	if p.Armor > 0 {
		absorbed := armorDamage
		if absorbed > p.Armor {
			// Armor breaks, the remainder hits health.
			healthDamage += absorbed - p.Armor
			absorbed = p.Armor
		}
		p.Armor -= absorbed
	} else {
		healthDamage += armorDamage
	}

	p.Health -= healthDamage
	if p.Health <= 0 {
		p.Health = 0
		p.Alive = false
		return true
	}
	return false
}

// Heal restores health up to the 100 cap.
func (p *Player) Heal(amount int) {
	if !p.Alive {
		return
	}
	p.Health += amount
	if p.Health > 100 {
		p.Health = 100
	}
}

// AbilityCharges returns the remaining charges in a slot, or 0 for an
// invalid slot.
func (p *Player) AbilityCharges(slot int) int {
	if slot < 0 || slot >= len(p.Abilities) {
		return 0
	}
	return p.Abilities[slot].Charges
}

// sortedIDs returns map keys in a stable order. Simulation code must never
// range over player maps directly when the iteration affects outcomes.
func sortedIDs[V any](m map[string]V) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
