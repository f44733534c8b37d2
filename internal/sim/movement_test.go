package sim

import (
	"math"
	"testing"

	"tacsim/internal/mapgeo"
)

// runTicks drives one player's movement with a fixed intent.
func runTicks(r *Round, p *Player, in Intent, n int, dt float64) {
	for i := 0; i < n; i++ {
		r.updateMovement(p, in, dt)
	}
}

func TestMovementReachesRunSpeed(t *testing.T) {
	r := newTestRound(t, 41, IdleProvider{})
	p := r.Players["a1"]
	p.Pos = mapgeo.Vec3{X: 10, Y: 10}

	runTicks(r, p, Intent{Kind: IntentMove, MoveDir: mapgeo.Vec3{X: 1}}, 20, 0.1)

	run := r.cfg.Movement.RunSpeed
	if speed := p.Vel.LengthXY(); math.Abs(speed-run) > 1e-6 {
		t.Errorf("steady speed = %g, want %g", speed, run)
	}

	// Walking and crouching cap lower.
	p.Vel = mapgeo.Vec3{}
	runTicks(r, p, Intent{Kind: IntentMove, MoveDir: mapgeo.Vec3{X: 1}, Walking: true}, 20, 0.1)
	if speed := p.Vel.LengthXY(); math.Abs(speed-r.cfg.Movement.WalkSpeed) > 1e-6 {
		t.Errorf("walk speed = %g, want %g", speed, r.cfg.Movement.WalkSpeed)
	}

	p.Vel = mapgeo.Vec3{}
	runTicks(r, p, Intent{Kind: IntentMove, MoveDir: mapgeo.Vec3{X: 1}, Crouching: true}, 20, 0.1)
	if speed := p.Vel.LengthXY(); math.Abs(speed-r.cfg.Movement.CrouchSpeed) > 1e-6 {
		t.Errorf("crouch speed = %g, want %g", speed, r.cfg.Movement.CrouchSpeed)
	}
}

func TestSlowedHalvesSpeed(t *testing.T) {
	r := newTestRound(t, 42, IdleProvider{})
	p := r.Players["a1"]
	p.Pos = mapgeo.Vec3{X: 10, Y: 10}
	p.AddStatus(StatusSlowed, 100)

	runTicks(r, p, Intent{Kind: IntentMove, MoveDir: mapgeo.Vec3{X: 1}}, 20, 0.1)

	want := r.cfg.Movement.RunSpeed * 0.5
	if speed := p.Vel.LengthXY(); math.Abs(speed-want) > 1e-6 {
		t.Errorf("slowed speed = %g, want %g", speed, want)
	}
}

func TestFrictionStopsIdlePlayers(t *testing.T) {
	r := newTestRound(t, 43, IdleProvider{})
	p := r.Players["a1"]
	p.Pos = mapgeo.Vec3{X: 10, Y: 10}
	p.Vel = mapgeo.Vec3{X: 5}

	runTicks(r, p, Intent{}, 30, 0.1)
	if speed := p.Vel.LengthXY(); speed > 0.05 {
		t.Errorf("residual speed after friction = %g", speed)
	}
}

func TestWallSlide(t *testing.T) {
	r := newTestRound(t, 44, IdleProvider{})
	p := r.Players["a1"]
	// Just south of mid-wall-west, pushing north-east into it.
	p.Pos = mapgeo.Vec3{X: 10, Y: 29}
	startX := p.Pos.X

	runTicks(r, p, Intent{Kind: IntentMove, MoveDir: mapgeo.Vec3{X: 1, Y: 1}}, 15, 0.1)

	if p.Pos.X <= startX+1 {
		t.Errorf("x did not advance along the wall: %g", p.Pos.X)
	}
	// The wall face at y=30 minus the player radius.
	if p.Pos.Y > 30-r.cfg.Movement.PlayerRadius+1e-9 {
		t.Errorf("player penetrated the wall to y=%g", p.Pos.Y)
	}
}

func TestStepHeightBlocksCrates(t *testing.T) {
	r := newTestRound(t, 45, IdleProvider{})
	p := r.Players["a1"]
	// West of crate-a, walking straight at its 1.2 unit top.
	p.Pos = mapgeo.Vec3{X: 9, Y: 49}

	runTicks(r, p, Intent{Kind: IntentMove, MoveDir: mapgeo.Vec3{X: 1}}, 20, 0.1)

	if p.Pos.Z > 0.01 {
		t.Errorf("player climbed the crate to z=%g without a ramp", p.Pos.Z)
	}
	if p.Pos.X >= 10 {
		t.Errorf("player walked into the crate at x=%g", p.Pos.X)
	}
}

func TestRampWalk(t *testing.T) {
	r := newTestRound(t, 46, IdleProvider{})
	p := r.Players["a1"]
	// East edge of heaven-ramp, walking west and up.
	p.Pos = mapgeo.Vec3{X: 21.5, Y: 46}
	p.Pos.Z = r.Map.ElevationAt(p.Pos.X, p.Pos.Y)

	runTicks(r, p, Intent{Kind: IntentMove, MoveDir: mapgeo.Vec3{X: -1}}, 30, 0.1)

	if p.Pos.X >= 18 {
		t.Fatalf("player stalled on the ramp at x=%g", p.Pos.X)
	}
	want := r.Map.ElevationAt(p.Pos.X, p.Pos.Y)
	if math.Abs(p.Pos.Z-want) > 1e-6 {
		t.Errorf("player at z=%g, ramp surface is %g", p.Pos.Z, want)
	}
}

func TestFallDamage(t *testing.T) {
	r := newTestRound(t, 47, IdleProvider{})
	p := r.Players["a1"]
	// Drop from 3 units over open ground. Falls past the free threshold
	// cost (drop - threshold) * damage-per-unit.
	p.Pos = mapgeo.Vec3{X: 32, Y: 10, Z: 3}
	p.Grounded = false

	runTicks(r, p, Intent{}, 30, 0.1)

	if !p.Grounded || p.Pos.Z != 0 {
		t.Fatalf("player never landed: z=%g grounded=%v", p.Pos.Z, p.Grounded)
	}
	lost := 100 - p.Health
	if lost < 30 || lost > 40 {
		t.Errorf("fall damage = %d, want about 37", lost)
	}
}

func TestShortDropIsFree(t *testing.T) {
	r := newTestRound(t, 48, IdleProvider{})
	p := r.Players["a1"]
	p.Pos = mapgeo.Vec3{X: 32, Y: 10, Z: 1}
	p.Grounded = false

	runTicks(r, p, Intent{}, 30, 0.1)

	if p.Health != 100 {
		t.Errorf("short drop cost %d health", 100-p.Health)
	}
}

func TestJumpAndLand(t *testing.T) {
	r := newTestRound(t, 49, IdleProvider{})
	p := r.Players["a1"]
	p.Pos = mapgeo.Vec3{X: 32, Y: 10}

	r.updateMovement(p, Intent{Kind: IntentMove, Jump: true}, 0.1)
	if p.Grounded || !p.Jumping {
		t.Fatal("jump did not leave the ground")
	}

	peak := p.Pos.Z
	for i := 0; i < 40 && !p.Grounded; i++ {
		r.updateMovement(p, Intent{}, 0.1)
		if p.Pos.Z > peak {
			peak = p.Pos.Z
		}
	}
	if !p.Grounded || p.Jumping {
		t.Fatalf("never landed: z=%g", p.Pos.Z)
	}
	if peak < 0.5 {
		t.Errorf("jump peaked at %g", peak)
	}
	if p.Health != 100 {
		t.Errorf("flat jump cost %d health", 100-p.Health)
	}
}
