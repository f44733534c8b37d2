package sim

import (
	"tacsim/internal/mapgeo"
)

// pickupRange is how close a player must stand to grab a dropped item or
// the spike.
const pickupRange = 1.5

// DroppedWeapon is a weapon lying on the ground where its owner died.
type DroppedWeapon struct {
	Weapon    Weapon
	Pos       mapgeo.Vec3
	DroppedAt float64
}

// DroppedShield is a shield lying on the ground where its owner died.
type DroppedShield struct {
	Shield    ShieldType
	Pos       mapgeo.Vec3
	DroppedAt float64
}

// updatePickups lets living players grab upgrades off the ground. A player
// swaps for the most expensive nearby weapon that beats their current one,
// leaving their own behind, takes a shield only when bare, and an attacker
// walking over the dropped spike picks it up.
func (r *Round) updatePickups() {
	for _, id := range r.playerOrder {
		p := r.Players[id]
		if !p.Alive {
			continue
		}

		best := -1
		bestCost := p.Weapon.Cost
		for i, dw := range r.DroppedWeapons {
			if mapgeo.DistXY(p.Pos, dw.Pos) > pickupRange {
				continue
			}
			if dw.Weapon.Cost > bestCost {
				best, bestCost = i, dw.Weapon.Cost
			}
		}
		if best >= 0 {
			taken := r.DroppedWeapons[best]
			if p.Weapon.Name != "Classic" {
				r.DroppedWeapons[best] = DroppedWeapon{
					Weapon: p.Weapon, Pos: p.Pos, DroppedAt: r.Clock,
				}
			} else {
				r.DroppedWeapons = append(r.DroppedWeapons[:best], r.DroppedWeapons[best+1:]...)
			}
			p.Weapon = taken.Weapon
		}

		if p.Shield == ShieldNone {
			for i, ds := range r.DroppedShields {
				if mapgeo.DistXY(p.Pos, ds.Pos) <= pickupRange {
					p.Shield = ds.Shield
					p.Armor = ds.Shield.Armor()
					r.DroppedShields = append(r.DroppedShields[:i], r.DroppedShields[i+1:]...)
					break
				}
			}
		}

		if r.spikeDropped && p.Team == TeamAttackers && !r.SpikePlanted &&
			mapgeo.DistXY(p.Pos, r.SpikePos) <= pickupRange {
			r.spikeDropped = false
			p.HasSpike = true
			r.SpikeCarrierID = p.ID
			r.boardFor(TeamAttackers).UpdateSpikeCarried(p.ID, p.Pos, p.ID, r.Clock)
		}
	}
}
