package sim

import (
	"fmt"

	"tacsim/internal/mapgeo"
)

// AbilityType is the effect family an ability belongs to.
type AbilityType uint8

const (
	AbilityFlash AbilityType = iota
	AbilitySmoke
	AbilityMolly
	AbilityRecon
	AbilityTrap
	AbilityHeal
)

// String returns the ability type name.
func (t AbilityType) String() string {
	switch t {
	case AbilityFlash:
		return "flash"
	case AbilitySmoke:
		return "smoke"
	case AbilityMolly:
		return "molly"
	case AbilityRecon:
		return "recon"
	case AbilityTrap:
		return "trap"
	case AbilityHeal:
		return "heal"
	default:
		return "unknown"
	}
}

// TargetKind is how an ability is aimed.
type TargetKind uint8

const (
	TargetPoint TargetKind = iota // Placed at a map position
	TargetProjectile                // Thrown along a direction
	TargetSelf                      // Centered on the caster
	TargetArea                      // Placed area, armed until triggered
)

// String returns the targeting kind name.
func (t TargetKind) String() string {
	switch t {
	case TargetPoint:
		return "point"
	case TargetProjectile:
		return "projectile"
	case TargetSelf:
		return "self"
	case TargetArea:
		return "area"
	default:
		return "unknown"
	}
}

// FlashFacingDot is the minimum dot product between a player's view
// direction and the direction to a flash detonation for the flash to blind
// them. A flash behind a player does not blind them.
const FlashFacingDot = 0.2

// AbilityDefinition is an immutable ability template. Damage and Healing
// are per second for lingering effects (molly, heal) and instantaneous for
// the rest.
type AbilityDefinition struct {
	Name            string
	Type            AbilityType
	Target          TargetKind
	CastTime        float64
	Duration        float64
	Charges         int
	Radius          float64
	Damage          float64
	Healing         float64
	StatusDuration  float64 // How long applied statuses last, defaults to Duration
	ProjectileSpeed float64
}

// Validate rejects out-of-range parameters. Definitions are checked at
// round construction so a bad template can never reach the tick loop.
func (d *AbilityDefinition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("ability without a name")
	}
	if d.Duration <= 0 {
		return fmt.Errorf("ability %q: duration must be positive, got %g", d.Name, d.Duration)
	}
	if d.Radius <= 0 {
		return fmt.Errorf("ability %q: radius must be positive, got %g", d.Name, d.Radius)
	}
	if d.Charges <= 0 {
		return fmt.Errorf("ability %q: charges must be positive, got %d", d.Name, d.Charges)
	}
	if d.Target == TargetProjectile && d.ProjectileSpeed <= 0 {
		return fmt.Errorf("ability %q: projectile speed must be positive", d.Name)
	}
	return nil
}

// Standard ability templates. Tuning values follow the usual utility kit:
// short hard flashes, long smokes, damage-over-time mollies.
var (
	DefFlash = AbilityDefinition{
		Name: "Flashpoint", Type: AbilityFlash, Target: TargetProjectile,
		CastTime: 0.3, Duration: 1.5, Charges: 2, Radius: 8,
		StatusDuration: 1.5, ProjectileSpeed: 20,
	}
	DefSmoke = AbilityDefinition{
		Name: "Sky Smoke", Type: AbilitySmoke, Target: TargetPoint,
		CastTime: 0.5, Duration: 15, Charges: 2, Radius: 4,
		StatusDuration: 0.5,
	}
	DefMolly = AbilityDefinition{
		Name: "Incendiary", Type: AbilityMolly, Target: TargetProjectile,
		CastTime: 0.4, Duration: 6, Charges: 1, Radius: 3.5,
		Damage: 30, StatusDuration: 1, ProjectileSpeed: 15,
	}
	DefRecon = AbilityDefinition{
		Name: "Recon Pulse", Type: AbilityRecon, Target: TargetPoint,
		CastTime: 0.6, Duration: 3, Charges: 1, Radius: 12,
		StatusDuration: 3,
	}
	DefTrap = AbilityDefinition{
		Name: "Tripwire", Type: AbilityTrap, Target: TargetPoint,
		CastTime: 0.8, Duration: 45, Charges: 1, Radius: 2.5,
		StatusDuration: 4,
	}
	DefHeal = AbilityDefinition{
		Name: "Healing Orb", Type: AbilityHeal, Target: TargetSelf,
		CastTime: 0.5, Duration: 5, Charges: 1, Radius: 6,
		Healing: 12, StatusDuration: 1,
	}
)

// DefaultLoadout returns the standard four-slot utility kit.
func DefaultLoadout() []AbilitySlot {
	return []AbilitySlot{
		{Def: &DefFlash, Charges: DefFlash.Charges},
		{Def: &DefSmoke, Charges: DefSmoke.Charges},
		{Def: &DefMolly, Charges: DefMolly.Charges},
		{Def: &DefRecon, Charges: DefRecon.Charges},
	}
}

// AbilityInstance is the live occurrence of an ability during a round.
// Its remaining duration is monotonically non-increasing; the round removes
// it once the duration reaches zero and its statuses are cleared.
type AbilityInstance struct {
	Def     *AbilityDefinition
	OwnerID string
	Team    Team

	Origin mapgeo.Vec3
	Pos    mapgeo.Vec3
	Vel    mapgeo.Vec3

	ActivatedAt float64
	EndsAt      float64
	Active      bool

	// inFlight is true while a projectile is still traveling; the effect
	// only starts once it lands.
	inFlight  bool
	detonated bool // Flash burst applied
	triggered bool // Trap sprung

	Affected map[string]bool

	// effectAcc carries fractional per-player damage or healing between
	// ticks so sub-point amounts are not lost at high tick rates.
	effectAcc map[string]float64
}

// NewAbilityInstance creates an inactive instance from a definition.
func NewAbilityInstance(def *AbilityDefinition, ownerID string, team Team) *AbilityInstance {
	return &AbilityInstance{
		Def:       def,
		OwnerID:   ownerID,
		Team:      team,
		Affected:  make(map[string]bool),
		effectAcc: make(map[string]float64),
	}
}

// Activate starts the instance at the given origin. For projectiles, dir
// sets the initial velocity; for point targets the instance is placed at
// origin directly.
func (a *AbilityInstance) Activate(now float64, origin, dir mapgeo.Vec3) {
	a.Origin = origin
	a.Pos = origin
	a.ActivatedAt = now
	a.EndsAt = now + a.Def.CastTime + a.Def.Duration
	a.Active = true

	if a.Def.Target == TargetProjectile {
		a.Vel = dir.Normalized().Scale(a.Def.ProjectileSpeed)
		a.inFlight = true
	}
}

// RemainingDuration returns the seconds left before expiry, never negative.
func (a *AbilityInstance) RemainingDuration(now float64) float64 {
	if !a.Active {
		return 0
	}
	left := a.EndsAt - now
	if left < 0 {
		return 0
	}
	return left
}

// update advances the instance one step: projectile travel with map
// collision, then the per-type effect application against players in
// radius.
func (a *AbilityInstance) update(r *Round, dt, now float64) {
	if !a.Active {
		return
	}

	if a.inFlight {
		a.advanceProjectile(r.Map, dt)
		return
	}

	a.applyEffect(r, dt, now)
}

// advanceProjectile moves the projectile, stopping at the first wall or
// object hit and settling onto the terrain surface when it lands.
func (a *AbilityInstance) advanceProjectile(m *mapgeo.Map, dt float64) {
	step := a.Vel.Scale(dt)
	dist := step.Length()
	if dist > 0 {
		if hit, ok := m.Raycast(a.Pos, step, dist); ok {
			// Settle just short of the surface that was struck.
			a.Pos = a.Pos.Add(step.Normalized().Scale(hit.T * 0.95))
			a.land(m)
			return
		}
		a.Pos = a.Pos.Add(step)
	}

	ground := m.ElevationAt(a.Pos.X, a.Pos.Y)
	if a.Pos.Z <= ground {
		a.Pos.Z = ground
		a.land(m)
	}
}

func (a *AbilityInstance) land(m *mapgeo.Map) {
	a.inFlight = false
	a.Vel = mapgeo.Vec3{}
	a.Pos.Z = m.ElevationAt(a.Pos.X, a.Pos.Y)
}

// applyEffect scans players within the effect radius and applies the
// ability's statuses, damage, or healing. Iteration is in sorted id order
// to keep outcomes deterministic.
func (a *AbilityInstance) applyEffect(r *Round, dt, now float64) {
	def := a.Def

	switch def.Type {
	case AbilityFlash:
		if a.detonated {
			return
		}
		a.detonated = true
		for _, id := range sortedIDs(r.Players) {
			p := r.Players[id]
			if !p.Alive || mapgeo.Dist(p.Pos, a.Pos) > def.Radius {
				continue
			}
			toFlash := a.Pos.Sub(p.Pos).Normalized()
			if p.ViewDir.Dot(toFlash) < FlashFacingDot {
				continue
			}
			if !r.Map.LineOfSight(eyePos(p), a.Pos, nil) {
				continue
			}
			p.AddStatus(StatusFlashed, a.RemainingDuration(now))
			a.Affected[id] = true
		}

	case AbilitySmoke:
		for _, id := range sortedIDs(r.Players) {
			p := r.Players[id]
			if p.Alive && mapgeo.DistXY(p.Pos, a.Pos) <= def.Radius {
				p.AddStatus(StatusSmoked, def.StatusDuration)
				a.Affected[id] = true
			}
		}

	case AbilityMolly:
		for _, id := range sortedIDs(r.Players) {
			p := r.Players[id]
			if !p.Alive || mapgeo.DistXY(p.Pos, a.Pos) > def.Radius {
				continue
			}
			p.AddStatus(StatusBurning, def.StatusDuration)
			a.Affected[id] = true
			a.effectAcc[id] += def.Damage * dt
			dmg := int(a.effectAcc[id])
			if dmg == 0 {
				continue
			}
			a.effectAcc[id] -= float64(dmg)
			// Armor absorbs half of ability damage before health.
			wasAlive := p.Alive
			died := p.ApplyDamage(dmg, 0.5)
			r.emit(EventTypeDamage, a.OwnerID, DamagePayload{
				AttackerID: a.OwnerID, VictimID: p.ID, Damage: dmg,
				VictimHP: p.Health, Source: def.Name,
			})
			if owner, ok := r.Players[a.OwnerID]; ok && owner.ID != p.ID {
				owner.DamageDealt += dmg
			}
			if wasAlive && died {
				r.handleDeath(p.ID, a.OwnerID, def.Name, false)
			}
		}

	case AbilityRecon:
		for _, id := range sortedIDs(r.Players) {
			p := r.Players[id]
			if p.Alive && p.Team != a.Team && mapgeo.DistXY(p.Pos, a.Pos) <= def.Radius {
				p.AddStatus(StatusRevealed, def.StatusDuration)
				a.Affected[id] = true
			}
		}

	case AbilityTrap:
		if a.triggered {
			return
		}
		for _, id := range sortedIDs(r.Players) {
			p := r.Players[id]
			if p.Alive && p.Team != a.Team && mapgeo.DistXY(p.Pos, a.Pos) <= def.Radius {
				p.AddStatus(StatusSlowed, def.StatusDuration)
				p.AddStatus(StatusRevealed, def.StatusDuration)
				a.Affected[id] = true
				a.triggered = true
				// A sprung trap is spent, but it stays live until its
				// debuff has run its course.
				a.EndsAt = now + def.StatusDuration
				break
			}
		}

	case AbilityHeal:
		for _, id := range sortedIDs(r.Players) {
			p := r.Players[id]
			if p.Alive && p.Team == a.Team && mapgeo.DistXY(p.Pos, a.Pos) <= def.Radius {
				a.effectAcc[id] += def.Healing * dt
				if heal := int(a.effectAcc[id]); heal > 0 {
					a.effectAcc[id] -= float64(heal)
					p.Heal(heal)
				}
				a.Affected[id] = true
			}
		}
	}
}

// expire deactivates the instance and clears its statuses from every
// player it affected.
func (a *AbilityInstance) expire(r *Round) {
	a.Active = false
	for id := range a.Affected {
		p, ok := r.Players[id]
		if !ok {
			continue
		}
		switch a.Def.Type {
		case AbilityFlash:
			p.ClearStatus(StatusFlashed)
		case AbilitySmoke:
			p.ClearStatus(StatusSmoked)
		case AbilityMolly:
			p.ClearStatus(StatusBurning)
		case AbilityRecon:
			p.ClearStatus(StatusRevealed)
		case AbilityTrap:
			p.ClearStatus(StatusSlowed)
			p.ClearStatus(StatusRevealed)
		}
	}
}

// Smoke returns the occlusion sphere for an active, landed smoke, or false
// for every other instance.
func (a *AbilityInstance) Smoke() (mapgeo.Sphere, bool) {
	if !a.Active || a.inFlight || a.Def.Type != AbilitySmoke {
		return mapgeo.Sphere{}, false
	}
	return mapgeo.Sphere{Center: a.Pos, Radius: a.Def.Radius}, true
}
