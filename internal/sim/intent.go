package sim

import (
	"tacsim/internal/mapgeo"
	"tacsim/internal/pathing"
)

// IntentKind tags a per-player per-tick action.
type IntentKind uint8

const (
	IntentIdle IntentKind = iota
	IntentMove
	IntentShoot
	IntentPlant
	IntentDefuse
	IntentBuy
	IntentUseAbility
	IntentComm
)

// Intent is the tagged action a player wants to perform this tick. The
// engine is agnostic about who produces it; a missing intent defaults to
// idle and never blocks the tick.
type Intent struct {
	Kind IntentKind

	// Move fields
	MoveDir   mapgeo.Vec3
	Walking   bool
	Crouching bool
	Jump      bool

	// Shoot / ability fields
	TargetID    string
	Target      mapgeo.Vec3
	AbilitySlot int

	// Buy fields. Item names a weapon from the catalog, or "light" /
	// "heavy" for a shield. Only honored during the buy phase.
	Item string

	// Comm fields
	Message string
}

// IntentProvider produces per-player intents. Implementations must be
// deterministic functions of the round state for replays to reproduce.
type IntentProvider interface {
	Intent(r *Round, playerID string) Intent
}

// IdleProvider produces no movement at all. Useful for harnesses that
// only exercise timers and phase transitions.
type IdleProvider struct{}

// Intent implements IntentProvider.
func (IdleProvider) Intent(*Round, string) Intent { return Intent{Kind: IntentIdle} }

// ScriptedProvider is the built-in heuristic: attackers push a bomb site
// and plant, defenders hold assigned sites and converge on a planted
// spike. It flashes the nearest visible enemy while charges last.
type ScriptedProvider struct {
	// Paths is optional; without it players move straight at their target.
	Paths *pathing.PathFinder
}

// Intent implements IntentProvider.
func (s *ScriptedProvider) Intent(r *Round, playerID string) Intent {
	p, ok := r.Players[playerID]
	if !ok || !p.Alive || r.Phase != PhaseActive {
		return Intent{Kind: IntentIdle}
	}

	// Keep planting or defusing once started and still legal.
	if p.IsPlanting && p.HasSpike && r.Map.BombSiteAt(p.Pos.X, p.Pos.Y) != "" {
		return Intent{Kind: IntentPlant}
	}
	if p.IsDefusing && r.SpikePlanted && mapgeo.DistXY(p.Pos, r.SpikePos) <= r.cfg.Round.DefuseRange {
		return Intent{Kind: IntentDefuse}
	}

	// Burn a flash on first contact.
	if len(p.VisibleEnemies) > 0 {
		for slot, ab := range p.Abilities {
			if ab.Def.Type == AbilityFlash && ab.Charges > 0 {
				if e := r.nearestVisibleEnemy(p); e != nil {
					return Intent{Kind: IntentUseAbility, AbilitySlot: slot, Target: e.Pos}
				}
			}
		}
	}

	if p.Team == TeamAttackers {
		return s.attackerIntent(r, p)
	}
	return s.defenderIntent(r, p)
}

func (s *ScriptedProvider) attackerIntent(r *Round, p *Player) Intent {
	if !r.SpikePlanted {
		if p.HasSpike && r.Map.BombSiteAt(p.Pos.X, p.Pos.Y) != "" {
			return Intent{Kind: IntentPlant}
		}
		site := r.targetSite(TeamAttackers)
		return s.moveToward(r, p, r.siteCenter(site))
	}

	// Post plant: hold a perimeter around the spike.
	dist := mapgeo.DistXY(p.Pos, r.SpikePos)
	switch {
	case dist > 8:
		return s.moveToward(r, p, r.SpikePos)
	case dist < 3:
		away := p.Pos.Sub(r.SpikePos)
		return Intent{Kind: IntentMove, MoveDir: away}
	default:
		return Intent{Kind: IntentIdle}
	}
}

func (s *ScriptedProvider) defenderIntent(r *Round, p *Player) Intent {
	if r.SpikePlanted {
		if mapgeo.DistXY(p.Pos, r.SpikePos) <= r.cfg.Round.DefuseRange {
			return Intent{Kind: IntentDefuse}
		}
		return s.moveToward(r, p, r.SpikePos)
	}

	// Spread defenders across sites by roster index.
	sites := r.siteNames()
	if len(sites) == 0 {
		return Intent{Kind: IntentIdle}
	}
	idx := 0
	for i, id := range r.DefenderIDs {
		if id == p.ID {
			idx = i
			break
		}
	}
	center := r.siteCenter(sites[idx%len(sites)])
	if mapgeo.DistXY(p.Pos, center) > 5 {
		return s.moveToward(r, p, center)
	}
	return Intent{Kind: IntentIdle}
}

// moveToward produces a move intent at the next waypoint toward target,
// using A* when a path finder is attached.
func (s *ScriptedProvider) moveToward(r *Round, p *Player, target mapgeo.Vec3) Intent {
	next := target
	if s.Paths != nil {
		if path := s.Paths.FindPath(p.Pos, target); len(path) > 1 {
			next = path[1]
		}
	}
	dir := next.Sub(p.Pos)
	dir.Z = 0
	if dir.LengthXY() < 1e-6 {
		return Intent{Kind: IntentIdle}
	}
	return Intent{Kind: IntentMove, MoveDir: dir}
}
