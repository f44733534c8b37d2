package sim

import (
	"math"

	"tacsim/internal/mapgeo"
)

// updateMovement advances one player's kinematics for a tick. The order is
// load-bearing: velocity, gravity, integration, elevation snap, collision
// resolve, then ground and clearance re-check. Reordering breaks wall
// sliding and ramp snapping.
func (r *Round) updateMovement(p *Player, in Intent, dt float64) {
	mv := r.cfg.Movement

	p.Walking = in.Walking
	p.Crouching = in.Crouching || p.ForcedCrouch

	// 1. Target horizontal velocity from intent and contextual max speed.
	maxSpeed := mv.RunSpeed
	if p.Walking {
		maxSpeed = mv.WalkSpeed
	}
	if p.Crouching {
		maxSpeed = mv.CrouchSpeed
	}
	if p.HasStatus(StatusSlowed) {
		maxSpeed *= 0.5
	}

	dir := mapgeo.Vec3{X: in.MoveDir.X, Y: in.MoveDir.Y}.Normalized()
	hasIntent := dir.X != 0 || dir.Y != 0

	accel := mv.Acceleration
	if !p.Grounded {
		accel *= mv.AirControl
	}

	if hasIntent {
		p.ViewDir = dir
		target := dir.Scale(maxSpeed)
		p.Vel.X = approach(p.Vel.X, target.X, accel*dt)
		p.Vel.Y = approach(p.Vel.Y, target.Y, accel*dt)
	} else {
		// 2. Friction when no intent is given.
		decay := 1 - mv.Friction*dt
		if decay < 0 {
			decay = 0
		}
		p.Vel.X *= decay
		p.Vel.Y *= decay
	}

	if in.Jump && p.Grounded && !p.Jumping {
		p.Vel.Z = mv.JumpVelocity
		p.Jumping = true
		p.Grounded = false
	}

	// 3. Gravity while airborne.
	if !p.Grounded {
		p.Vel.Z -= mv.Gravity * dt
	}

	// 4. Integrate.
	next := p.Pos.Add(p.Vel.Scale(dt))

	// 5. Elevation snap while grounded and not mid-jump, only when the
	// terrain change is reachable (ramp/stairs or within step height).
	height := r.playerHeight(p)
	if p.Grounded && !p.Jumping {
		ground := r.Map.ElevationAt(next.X, next.Y)
		snapped := mapgeo.Vec3{X: next.X, Y: next.Y, Z: ground}
		if r.Map.CanMove(p.Pos, snapped, mv.PlayerRadius, height, mv.MaxStepHeight) {
			next.Z = ground
		}
	}

	// 6. Resolve horizontal collision: full displacement, then each axis
	// alone (wall slide), then hold.
	resolved := r.resolveCollision(p.Pos, next, mv.PlayerRadius, height)
	if resolved.X == p.Pos.X {
		p.Vel.X = 0
	}
	if resolved.Y == p.Pos.Y {
		p.Vel.Y = 0
	}
	p.Pos = resolved

	// 7. Re-derive ground contact, fall state, and forced crouch.
	r.updateGroundContact(p, dt)
	p.ForcedCrouch = r.lowClearance(p)
}

// resolveCollision returns the furthest valid position along the attempted
// displacement, preferring the full move, then X-only, then Y-only, then
// the original position.
func (r *Round) resolveCollision(from, to mapgeo.Vec3, radius, height float64) mapgeo.Vec3 {
	if r.Map.IsValidPosition(to.X, to.Y, to.Z, radius, height) {
		return to
	}
	xOnly := mapgeo.Vec3{X: to.X, Y: from.Y, Z: to.Z}
	if r.Map.IsValidPosition(xOnly.X, xOnly.Y, xOnly.Z, radius, height) {
		return xOnly
	}
	yOnly := mapgeo.Vec3{X: from.X, Y: to.Y, Z: to.Z}
	if r.Map.IsValidPosition(yOnly.X, yOnly.Y, yOnly.Z, radius, height) {
		return yOnly
	}
	return from
}

// updateGroundContact lands or keeps falling a player after integration,
// applying fall damage when a drop beyond the threshold ends.
func (r *Round) updateGroundContact(p *Player, dt float64) {
	mv := r.cfg.Movement
	ground := r.Map.ElevationAt(p.Pos.X, p.Pos.Y)

	if p.Pos.Z <= ground+1e-9 && p.Vel.Z <= 0 {
		// Landing.
		if p.Falling {
			drop := p.fallStartZ - ground
			if drop > mv.FallDamageMinDist {
				dmg := int((drop - mv.FallDamageMinDist) * mv.FallDamagePerUnit)
				if dmg > 0 && p.ApplyDamage(dmg, 1.0) {
					r.handleDeath(p.ID, p.ID, "fall", false)
				}
			}
		}
		p.Pos.Z = ground
		p.Vel.Z = 0
		p.Grounded = true
		p.Jumping = false
		p.Falling = false
		return
	}

	if p.Pos.Z > ground {
		p.Grounded = false
		if p.Vel.Z < 0 && !p.Falling {
			p.Falling = true
			p.fallStartZ = p.Pos.Z
		}
	}
}

// lowClearance reports whether overhead geometry forces the player to
// crouch at their current position.
func (r *Round) lowClearance(p *Player) bool {
	mv := r.cfg.Movement
	standing := r.Map.IsValidPosition(p.Pos.X, p.Pos.Y, p.Pos.Z, mv.PlayerRadius, mv.PlayerHeight)
	crouched := r.Map.IsValidPosition(p.Pos.X, p.Pos.Y, p.Pos.Z, mv.PlayerRadius, mv.CrouchHeight)
	return !standing && crouched
}

// playerHeight returns the collision height for the player's stance.
func (r *Round) playerHeight(p *Player) float64 {
	if p.Crouching || p.ForcedCrouch {
		return r.cfg.Movement.CrouchHeight
	}
	return r.cfg.Movement.PlayerHeight
}

// approach moves cur toward target by at most delta.
func approach(cur, target, delta float64) float64 {
	diff := target - cur
	if math.Abs(diff) <= delta {
		return target
	}
	if diff > 0 {
		return cur + delta
	}
	return cur - delta
}
