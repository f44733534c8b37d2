package sim

import (
	"log"
	"math"

	"tacsim/internal/mapgeo"
)

// duelCooldownSecs spaces out engagements between the same players so one
// sighting does not resolve an entire team fight in a single tick.
const duelCooldownSecs = 1.0

// eyeHeight approximates where a player sees from, relative to their feet.
const eyeHeight = 1.5

func eyePos(p *Player) mapgeo.Vec3 {
	h := eyeHeight
	if p.Crouching || p.ForcedCrouch {
		h = 1.0
	}
	return mapgeo.Vec3{X: p.Pos.X, Y: p.Pos.Y, Z: p.Pos.Z + h}
}

// updateVision recomputes every living player's visible enemy set from the
// FOV cone and line of sight through active smokes, then pushes sightings
// into the team blackboards.
func (r *Round) updateVision() {
	smokes := r.activeSmokes()
	cosHalfFOV := math.Cos(r.cfg.Combat.FOVDegrees / 2 * math.Pi / 180)

	for _, id := range r.playerOrder {
		p := r.Players[id]
		if !p.Alive {
			continue
		}

		prev := p.VisibleEnemies
		p.VisibleEnemies = make(map[string]bool)

		for _, eid := range r.playerOrder {
			e := r.Players[eid]
			if !e.Alive || e.Team == p.Team {
				continue
			}

			// A revealed enemy is visible regardless of geometry.
			if e.HasStatus(StatusRevealed) {
				p.VisibleEnemies[eid] = true
				r.recordSighting(p, e, prev[eid])
				continue
			}
			if p.HasStatus(StatusFlashed) {
				continue
			}

			toEnemy := e.Pos.Sub(p.Pos)
			if toEnemy.LengthXY() > 0 {
				flat := mapgeo.Vec3{X: toEnemy.X, Y: toEnemy.Y}.Normalized()
				if p.ViewDir.Dot(flat) < cosHalfFOV {
					continue
				}
			}
			if !r.Map.LineOfSight(eyePos(p), eyePos(e), smokes) {
				continue
			}

			p.VisibleEnemies[eid] = true
			r.recordSighting(p, e, prev[eid])
		}
	}
}

// recordSighting updates the spotter's team blackboard and the teammates'
// known enemy positions. New sightings also produce a comm event.
func (r *Round) recordSighting(spotter, enemy *Player, alreadySeen bool) {
	board := r.boardFor(spotter.Team)
	board.UpdateEnemyInfo(enemy.ID, enemy.Pos, spotter.ID, r.Clock)
	board.MarkAreaCleared(r.Map.AreaAt(enemy.Pos.X, enemy.Pos.Y))

	if enemy.HasSpike {
		board.UpdateSpikeCarried(enemy.ID, enemy.Pos, spotter.ID, r.Clock)
	}

	for _, tid := range r.teamIDs(spotter.Team) {
		if t := r.Players[tid]; t.Alive && t.ID != spotter.ID {
			t.KnownEnemyPositions[enemy.ID] = enemy.Pos
		}
	}

	if !alreadySeen {
		r.emit(EventTypeComm, spotter.ID, CommPayload{
			SenderID: spotter.ID,
			Message:  "enemy " + enemy.Agent + " spotted in " + r.Map.AreaAt(enemy.Pos.X, enemy.Pos.Y),
		})
	}
}

// updateHearing runs the bounded sound model: moving enemies within
// footstep range are heard with distance-scaled intensity and noted as
// danger on the listener's blackboard.
func (r *Round) updateHearing() {
	rangeFootstep := r.cfg.Combat.FootstepRange

	for _, id := range r.playerOrder {
		p := r.Players[id]
		if !p.Alive {
			continue
		}
		p.HeardSounds = p.HeardSounds[:0]

		for _, oid := range r.playerOrder {
			o := r.Players[oid]
			if oid == id || !o.Alive || !o.IsMoving() || o.Walking || o.Crouching {
				continue
			}
			dist := mapgeo.DistXY(p.Pos, o.Pos)
			if dist > rangeFootstep {
				continue
			}
			intensity := 1 - dist/rangeFootstep
			p.HeardSounds = append(p.HeardSounds, Sound{
				Kind: "footstep", SourceID: oid, Location: o.Pos, Intensity: intensity,
			})

			if o.Team != p.Team {
				board := r.boardFor(p.Team)
				board.AddNoise(NoiseEvent{
					Kind: "footstep", Location: o.Pos, Intensity: intensity,
					HeardBy: id, Time: r.Clock,
				})
				board.MarkAreaDangerous(r.Map.AreaAt(o.Pos.X, o.Pos.Y))
			}
		}
	}
}

// updateCombat resolves duels between mutually engaged players. Each tick
// every living player with an expired engagement cooldown fights their
// nearest visible enemy; a single uniform draw decides the duel outright.
func (r *Round) updateCombat(dt float64) {
	for _, id := range r.playerOrder {
		p := r.Players[id]
		if p.duelCooldown > 0 {
			p.duelCooldown -= dt
		}
	}

	for _, id := range r.playerOrder {
		p := r.Players[id]
		if !p.Alive || p.duelCooldown > 0 || len(p.VisibleEnemies) == 0 {
			continue
		}

		target := r.nearestVisibleEnemy(p)
		if target == nil {
			continue
		}

		r.resolveDuel(p, target)
	}
}

// nearestVisibleEnemy picks the closest living visible enemy, breaking
// distance ties by id order for determinism.
func (r *Round) nearestVisibleEnemy(p *Player) *Player {
	var best *Player
	bestDist := math.Inf(1)
	for _, eid := range sortedIDs(p.VisibleEnemies) {
		e := r.Players[eid]
		if e == nil || !e.Alive {
			continue
		}
		d := mapgeo.Dist(p.Pos, e.Pos)
		if d < bestDist {
			best, bestDist = e, d
		}
	}
	return best
}

// resolveDuel runs the probabilistic engagement between attacker and
// victim. Win probability for the attacker is advA / (advA + advB); the
// loser dies outright. This is an instantaneous resolution model, not a
// tick-accurate damage race.
func (r *Round) resolveDuel(attacker, victim *Player) {
	advA := r.combatAdvantage(attacker, victim)
	advB := r.combatAdvantage(victim, attacker)

	attacker.duelCooldown = duelCooldownSecs
	victim.duelCooldown = duelCooldownSecs

	pWin := advA / (advA + advB)
	attackerWins := r.rng.Float64() < pWin

	winner, loser := attacker, victim
	if !attackerWins {
		winner, loser = victim, attacker
	}

	headshot := r.rng.Float64() < r.cfg.Combat.HeadshotChance
	r.emitGunshotNoise(winner)
	r.handleDeath(loser.ID, winner.ID, winner.Weapon.Name, headshot)
}

// combatAdvantage computes one side's advantage score. The multipliers are
// empirically tuned; see config.CombatConfig.
func (r *Round) combatAdvantage(p, opponent *Player) float64 {
	c := r.cfg.Combat

	adv := p.AimRating / 100.0
	adv *= p.Weapon.Tier

	if p.Armor > 0 {
		adv *= 1 + float64(p.Armor)/200.0
	}
	if p.HasStatus(StatusFlashed) {
		adv *= c.FlashedMultiplier
	}
	if p.HasStatus(StatusSlowed) {
		adv *= c.SlowedMultiplier
	}
	if p.IsMoving() {
		adv *= (p.MovementAccuracy / 100.0) * p.Weapon.MovementAccuracy / 0.4
	}
	// Surprise bonus when the opponent has not spotted this player.
	if !opponent.VisibleEnemies[p.ID] {
		adv *= c.SurpriseBonus
	}
	if p.Pos.Z-opponent.Pos.Z > 0.5 {
		adv *= c.HeightBonus
	}

	// Defensive floor: a zero-advantage duel is an invariant violation,
	// clamp instead of dividing by zero.
	if adv < c.MinAdvantage {
		adv = c.MinAdvantage
	}
	return adv
}

// emitGunshotNoise lets everyone in gunshot range hear the engagement.
func (r *Round) emitGunshotNoise(shooter *Player) {
	rangeGunshot := r.cfg.Combat.GunshotRange
	for _, id := range r.playerOrder {
		p := r.Players[id]
		if !p.Alive || p.ID == shooter.ID {
			continue
		}
		dist := mapgeo.DistXY(p.Pos, shooter.Pos)
		if dist > rangeGunshot {
			continue
		}
		intensity := 1 - dist/rangeGunshot
		p.HeardSounds = append(p.HeardSounds, Sound{
			Kind: "gunshot", SourceID: shooter.ID, Location: shooter.Pos,
			Intensity: intensity,
		})
		r.emit(EventTypeSound, id, SoundPayload{
			HeardBy: id, SourceID: shooter.ID, Kind: "gunshot", Intensity: intensity,
		})
	}
}

// handleDeath finalizes a kill: counters, item drops, spike drop, the kill
// event, and an immediate team-elimination recheck.
func (r *Round) handleDeath(victimID, killerID, weapon string, headshot bool) {
	victim, ok := r.Players[victimID]
	if !ok {
		return
	}
	victim.Alive = false
	victim.Health = 0
	victim.Deaths++
	victim.IsPlanting = false
	victim.IsDefusing = false

	if killer, ok := r.Players[killerID]; ok && killerID != victimID {
		killer.Kills++
		killer.roundKills++
	}

	if victim.Weapon.Name != "Classic" {
		r.DroppedWeapons = append(r.DroppedWeapons, DroppedWeapon{
			Weapon: victim.Weapon, Pos: victim.Pos, DroppedAt: r.Clock,
		})
		victim.Weapon = GetWeapon("Classic")
	}
	if victim.Shield != ShieldNone {
		r.DroppedShields = append(r.DroppedShields, DroppedShield{
			Shield: victim.Shield, Pos: victim.Pos, DroppedAt: r.Clock,
		})
		victim.Shield = ShieldNone
		victim.Armor = 0
	}

	spikeDropped := false
	if victim.HasSpike {
		victim.HasSpike = false
		r.SpikeCarrierID = ""
		r.SpikePos = victim.Pos
		r.spikeDropped = true
		spikeDropped = true
		r.boardFor(TeamAttackers).UpdateSpikeDropped(victim.Pos, r.Clock)
	}

	killerSide := ""
	if killer, ok := r.Players[killerID]; ok {
		killerSide = killer.Team.String()
	}

	r.emit(EventTypeKill, killerID, KillPayload{
		KillerID: killerID, VictimID: victimID, Weapon: weapon,
		Headshot: headshot, VictimX: victim.Pos.X, VictimY: victim.Pos.Y,
		SpikeDrop: spikeDropped, KillerSide: killerSide,
	})

	if r.cfg.Engine.LogKills {
		log.Printf("[ROUND %d] %.1fs: %s killed %s with %s", r.Number, r.Clock, killerID, victimID, weapon)
	}

	r.checkTeamElimination()
}
