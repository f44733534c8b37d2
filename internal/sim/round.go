package sim

import (
	"fmt"
	"math/rand"

	"tacsim/internal/config"
	"tacsim/internal/mapgeo"
)

// Phase is the round state machine position.
type Phase uint8

const (
	PhaseBuy Phase = iota
	PhaseActive
	PhaseEnd
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseBuy:
		return "buy"
	case PhaseActive:
		return "active"
	case PhaseEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Winner is the round outcome.
type Winner uint8

const (
	WinnerNone Winner = iota
	WinnerAttackers
	WinnerDefenders
)

// String returns the winner name.
func (w Winner) String() string {
	switch w {
	case WinnerAttackers:
		return "attackers"
	case WinnerDefenders:
		return "defenders"
	default:
		return "none"
	}
}

// End condition labels recorded on the round outcome.
const (
	EndElimination = "elimination"
	EndTimeout     = "timeout"
	EndDetonation  = "detonation"
	EndDefuse      = "defuse"
	EndTickLimit   = "tick_limit"
)

// RoundOptions configures a single round.
type RoundOptions struct {
	Number    int
	Seed      int64
	Attackers []*Player
	Defenders []*Player

	// Intents drives player decisions; defaults to the scripted heuristic.
	Intents IntentProvider

	// Blackboards persist across rounds when supplied by a match. Missing
	// boards are created fresh.
	AttackerBoard *Blackboard
	DefenderBoard *Blackboard

	// Sink optionally mirrors events into a persistent log. The round's
	// own in-memory log is always complete regardless.
	Sink *EventLog
}

// Round is one self-contained round simulation. It owns its players, its
// RNG, and its event log for the round's lifetime; all randomness flows
// through the single seeded source so a (seed, roster, map) triple always
// reproduces the identical round.
type Round struct {
	cfg config.AppConfig
	Map *mapgeo.Map

	Number int
	Phase  Phase
	Clock  float64 // Simulation seconds since round start
	Tick   int

	Players     map[string]*Player
	playerOrder []string
	AttackerIDs []string
	DefenderIDs []string

	Winner       Winner
	EndCondition string

	SpikePlanted   bool
	SpikeSite      string
	SpikePos       mapgeo.Vec3
	SpikeCarrierID string
	spikeDropped   bool

	DroppedWeapons []DroppedWeapon
	DroppedShields []DroppedShield

	activeAbilities []*AbilityInstance
	boards          [2]*Blackboard
	intents         IntentProvider

	buyTimeLeft   float64
	roundTimeLeft float64
	spikeTimeLeft float64

	rng  *rand.Rand
	seed int64

	events []Event
	seq    uint64
	sink   *EventLog
}

// NewRound validates the setup and builds a round in the buy phase with
// everyone placed at their spawns and the spike on a random attacker.
func NewRound(cfg config.AppConfig, m *mapgeo.Map, opts RoundOptions) (*Round, error) {
	if m == nil {
		return nil, fmt.Errorf("round %d: nil map", opts.Number)
	}
	if len(opts.Attackers) == 0 || len(opts.Defenders) == 0 {
		return nil, fmt.Errorf("round %d: both teams need players, got %d attackers and %d defenders",
			opts.Number, len(opts.Attackers), len(opts.Defenders))
	}
	if len(opts.Attackers) > len(m.AttackerSpawns()) || len(opts.Defenders) > len(m.DefenderSpawns()) {
		return nil, fmt.Errorf("round %d: map %q lacks spawns for the roster", opts.Number, m.Name)
	}
	if len(m.BombSites()) == 0 {
		return nil, fmt.Errorf("round %d: map %q has no bomb sites", opts.Number, m.Name)
	}

	r := &Round{
		cfg:     cfg,
		Map:     m,
		Number:  opts.Number,
		Phase:   PhaseBuy,
		Players: make(map[string]*Player, len(opts.Attackers)+len(opts.Defenders)),
		intents: opts.Intents,
		rng:     rand.New(rand.NewSource(opts.Seed)),
		seed:    opts.Seed,
		sink:    opts.Sink,
	}
	if r.intents == nil {
		r.intents = &ScriptedProvider{}
	}

	r.boards[TeamAttackers] = opts.AttackerBoard
	r.boards[TeamDefenders] = opts.DefenderBoard
	if r.boards[TeamAttackers] == nil {
		r.boards[TeamAttackers] = NewBlackboard(TeamAttackers)
	}
	if r.boards[TeamDefenders] == nil {
		r.boards[TeamDefenders] = NewBlackboard(TeamDefenders)
	}

	if err := r.enroll(opts.Attackers, TeamAttackers, m.AttackerSpawns()); err != nil {
		return nil, err
	}
	if err := r.enroll(opts.Defenders, TeamDefenders, m.DefenderSpawns()); err != nil {
		return nil, err
	}
	r.playerOrder = sortedIDs(r.Players)

	// Spike goes to a random attacker.
	carrier := opts.Attackers[r.rng.Intn(len(opts.Attackers))]
	carrier.HasSpike = true
	r.SpikeCarrierID = carrier.ID
	r.boards[TeamAttackers].UpdateSpikeCarried(carrier.ID, carrier.Pos, carrier.ID, 0)

	r.buyTimeLeft = cfg.Round.BuyTimer
	if opts.Number <= 1 {
		r.buyTimeLeft = cfg.Round.FirstBuyTimer
	}
	r.roundTimeLeft = cfg.Round.RoundTimer

	r.emit(EventTypePhase, "", PhasePayload{From: "", To: PhaseBuy.String()})
	return r, nil
}

// enroll resets players for the round and places them at their spawns.
func (r *Round) enroll(players []*Player, team Team, spawns []mapgeo.Vec3) error {
	for i, p := range players {
		if _, dup := r.Players[p.ID]; dup {
			return fmt.Errorf("round %d: duplicate player id %q", r.Number, p.ID)
		}
		for _, slot := range p.Abilities {
			if err := slot.Def.Validate(); err != nil {
				return fmt.Errorf("round %d: player %q: %w", r.Number, p.ID, err)
			}
		}

		p.Team = team
		r.resetForRound(p)
		spawn := spawns[i]
		spawn.Z = r.Map.ElevationAt(spawn.X, spawn.Y)
		p.Pos = spawn

		r.Players[p.ID] = p
		if team == TeamAttackers {
			r.AttackerIDs = append(r.AttackerIDs, p.ID)
		} else {
			r.DefenderIDs = append(r.DefenderIDs, p.ID)
		}
	}
	return nil
}

// resetForRound clears per-round state while leaving loadout and credits
// alone; those carry over under match control.
func (r *Round) resetForRound(p *Player) {
	p.Health = 100
	p.Alive = true
	p.Vel = mapgeo.Vec3{}
	p.Walking = false
	p.Crouching = false
	p.Jumping = false
	p.Falling = false
	p.Grounded = true
	p.ForcedCrouch = false
	p.Statuses = make(map[StatusEffect]float64)
	for i := range p.Abilities {
		p.Abilities[i].Charges = p.Abilities[i].Def.Charges
	}
	p.HasSpike = false
	p.IsPlanting = false
	p.IsDefusing = false
	p.PlantProgress = 0
	p.DefuseProgress = 0
	p.VisibleEnemies = make(map[string]bool)
	p.KnownEnemyPositions = make(map[string]mapgeo.Vec3)
	p.HeardSounds = nil
	p.duelCooldown = 0
	p.roundKills = 0
	p.roundPlants = 0
	p.roundDefuses = 0
}

// Seed returns the RNG seed the round was built with.
func (r *Round) Seed() int64 { return r.seed }

// Events returns the complete ordered event log.
func (r *Round) Events() []Event { return r.events }

// AliveCount returns the number of living players on a team.
func (r *Round) AliveCount(team Team) int {
	n := 0
	for _, id := range r.teamIDs(team) {
		if r.Players[id].Alive {
			n++
		}
	}
	return n
}

// Update advances the simulation by dt seconds. It is a no-op once the
// round has ended.
func (r *Round) Update(dt float64) {
	if r.Phase == PhaseEnd || dt <= 0 {
		return
	}
	r.Tick++
	r.Clock += dt

	switch r.Phase {
	case PhaseBuy:
		r.buyTimeLeft -= dt
		if r.buyTimeLeft <= 0 {
			r.beginActive()
		}
	case PhaseActive:
		r.stepActive(dt)
	}
}

// Simulate runs the round to completion at the configured tick rate. The
// tick cap guards against a stalemate that never satisfies an end
// condition.
func (r *Round) Simulate() {
	dt := 1.0 / float64(r.cfg.Engine.TickRate)
	for r.Phase != PhaseEnd && r.Tick < r.cfg.Engine.MaxTicks {
		r.Update(dt)
	}
	if r.Phase != PhaseEnd {
		r.endRound(WinnerDefenders, EndTickLimit)
	}
}

// beginActive closes the buy phase: purchases resolve once, then the clock
// starts for real.
func (r *Round) beginActive() {
	r.simulateBuyPhase()
	r.Phase = PhaseActive
	r.emit(EventTypePhase, "", PhasePayload{From: PhaseBuy.String(), To: PhaseActive.String()})
}

// stepActive is one active-phase tick. Order matters: intents and movement
// first, then area effects, then perception, then combat, so every duel
// this tick sees positions and statuses from the same instant.
func (r *Round) stepActive(dt float64) {
	for _, id := range r.playerOrder {
		p := r.Players[id]
		if !p.Alive {
			continue
		}
		p.TickStatuses(dt)
		r.applyIntent(p, r.intents.Intent(r, id), dt)
		if r.Phase == PhaseEnd {
			return
		}
	}

	r.updateAbilities(dt)
	if r.Phase == PhaseEnd {
		return
	}

	r.updateVision()
	r.updateHearing()
	r.updateCombat(dt)
	if r.Phase == PhaseEnd {
		return
	}

	r.updatePickups()

	areaOf := func(v mapgeo.Vec3) string { return r.Map.AreaAt(v.X, v.Y) }
	r.boards[TeamAttackers].Decay(dt, areaOf)
	r.boards[TeamDefenders].Decay(dt, areaOf)

	r.advanceTimers(dt)
}

// applyIntent executes one player's chosen action for the tick. Anything
// other than a sustained plant or defuse interrupts those channels.
func (r *Round) applyIntent(p *Player, in Intent, dt float64) {
	if in.Kind != IntentPlant {
		r.interruptPlant(p)
	}
	if in.Kind != IntentDefuse {
		r.interruptDefuse(p)
	}

	switch in.Kind {
	case IntentMove:
		r.updateMovement(p, in, dt)

	case IntentShoot:
		r.stepShoot(p, in)
		r.updateMovement(p, Intent{}, dt)

	case IntentPlant:
		r.stepPlant(p, dt)

	case IntentDefuse:
		r.stepDefuse(p, dt)

	case IntentUseAbility:
		r.activateAbility(p, in)
		r.updateMovement(p, Intent{}, dt)

	case IntentComm:
		if in.Message != "" {
			r.emit(EventTypeComm, p.ID, CommPayload{SenderID: p.ID, Message: in.Message})
		}
		r.updateMovement(p, Intent{}, dt)

	default:
		// Idle still runs friction and gravity.
		r.updateMovement(p, Intent{}, dt)
	}
}

// stepShoot turns the shooter toward a chosen target and forces the
// engagement when the target is actually visible. An unseen target only
// earns the turn; the duel waits for a sightline.
func (r *Round) stepShoot(p *Player, in Intent) {
	e, ok := r.Players[in.TargetID]
	if !ok || !e.Alive || e.Team == p.Team {
		return
	}

	dir := e.Pos.Sub(p.Pos)
	dir.Z = 0
	if dir.LengthXY() > 1e-6 {
		p.ViewDir = dir.Normalized()
	}

	if p.duelCooldown <= 0 && p.VisibleEnemies[e.ID] {
		r.resolveDuel(p, e)
	}
}

// stepPlant advances a plant channel. Planting demands the spike, an
// uncontested site underfoot, and standing still.
func (r *Round) stepPlant(p *Player, dt float64) {
	site := r.Map.BombSiteAt(p.Pos.X, p.Pos.Y)
	if !p.HasSpike || r.SpikePlanted || site == "" {
		r.interruptPlant(p)
		return
	}

	p.Vel = mapgeo.Vec3{}
	p.IsPlanting = true
	p.PlantProgress += dt
	if p.PlantProgress >= r.cfg.Round.PlantTime {
		r.finishPlant(p, site)
	}
}

func (r *Round) interruptPlant(p *Player) {
	if !p.IsPlanting {
		return
	}
	p.IsPlanting = false
	p.PlantProgress = 0
}

func (r *Round) finishPlant(p *Player, site string) {
	r.SpikePlanted = true
	r.SpikeSite = site
	r.SpikePos = p.Pos
	r.SpikeCarrierID = ""
	r.spikeTimeLeft = r.cfg.Round.SpikeTimer

	p.HasSpike = false
	p.IsPlanting = false
	p.PlantProgress = 0
	p.Plants++
	p.roundPlants++

	// The plant is audible map-wide; both teams know.
	r.boards[TeamAttackers].UpdateSpikePlanted(p.Pos, site, r.Clock)
	r.boards[TeamDefenders].UpdateSpikePlanted(p.Pos, site, r.Clock)

	r.emit(EventTypePlant, p.ID, PlantPayload{
		PlanterID: p.ID, Site: site, RemainingDefenders: r.AliveCount(TeamDefenders),
	})
}

// stepDefuse advances a defuse channel. Interrupting past the halfway
// mark preserves a checkpoint, so the next attempt resumes from half.
func (r *Round) stepDefuse(p *Player, dt float64) {
	if !r.SpikePlanted || mapgeo.DistXY(p.Pos, r.SpikePos) > r.cfg.Round.DefuseRange {
		r.interruptDefuse(p)
		return
	}

	p.Vel = mapgeo.Vec3{}
	p.IsDefusing = true
	p.DefuseProgress += dt
	if p.DefuseProgress >= r.cfg.Round.DefuseTime {
		r.finishDefuse(p)
	}
}

func (r *Round) interruptDefuse(p *Player) {
	if !p.IsDefusing {
		return
	}
	p.IsDefusing = false
	if p.DefuseProgress >= r.cfg.Round.HalfDefuseTime {
		p.DefuseProgress = r.cfg.Round.HalfDefuseTime
	} else {
		p.DefuseProgress = 0
	}
}

func (r *Round) finishDefuse(p *Player) {
	p.IsDefusing = false
	p.DefuseProgress = 0
	p.Defuses++
	p.roundDefuses++

	r.emit(EventTypeDefuse, p.ID, DefusePayload{
		DefuserID: p.ID, Site: r.SpikeSite, RemainingAttackers: r.AliveCount(TeamAttackers),
	})
	r.endRound(WinnerDefenders, EndDefuse)
}

// activateAbility spends a charge and spins up a live instance. The cast
// is audible to everyone nearby.
func (r *Round) activateAbility(p *Player, in Intent) {
	if in.AbilitySlot < 0 || in.AbilitySlot >= len(p.Abilities) {
		return
	}
	slot := &p.Abilities[in.AbilitySlot]
	if slot.Charges <= 0 {
		return
	}
	slot.Charges--

	inst := NewAbilityInstance(slot.Def, p.ID, p.Team)
	switch slot.Def.Target {
	case TargetProjectile:
		origin := eyePos(p)
		dir := in.Target.Sub(origin)
		if dir.Length() < 1e-9 {
			dir = p.ViewDir
		}
		inst.Activate(r.Clock, origin, dir)
	case TargetSelf:
		inst.Activate(r.Clock, p.Pos, mapgeo.Vec3{})
	default:
		pos := in.Target
		pos.Z = r.Map.ElevationAt(pos.X, pos.Y)
		inst.Activate(r.Clock, pos, mapgeo.Vec3{})
	}
	r.activeAbilities = append(r.activeAbilities, inst)

	r.emit(EventTypeAbility, p.ID, AbilityPayload{
		PlayerID: p.ID, Ability: slot.Def.Name, X: inst.Pos.X, Y: inst.Pos.Y,
	})
	r.emitAbilityNoise(p)
}

// emitAbilityNoise lets nearby players hear a cast and flags the area for
// the enemy team.
func (r *Round) emitAbilityNoise(caster *Player) {
	rangeAbility := r.cfg.Combat.AbilityRange
	for _, id := range r.playerOrder {
		p := r.Players[id]
		if !p.Alive || p.ID == caster.ID {
			continue
		}
		dist := mapgeo.DistXY(p.Pos, caster.Pos)
		if dist > rangeAbility {
			continue
		}
		intensity := 1 - dist/rangeAbility
		p.HeardSounds = append(p.HeardSounds, Sound{
			Kind: "ability", SourceID: caster.ID, Location: caster.Pos, Intensity: intensity,
		})
		r.emit(EventTypeSound, id, SoundPayload{
			HeardBy: id, SourceID: caster.ID, Kind: "ability", Intensity: intensity,
		})
		if p.Team != caster.Team {
			board := r.boardFor(p.Team)
			board.AddNoise(NoiseEvent{
				Kind: "ability", Location: caster.Pos, Intensity: intensity,
				HeardBy: id, Time: r.Clock,
			})
			board.MarkAreaDangerous(r.Map.AreaAt(caster.Pos.X, caster.Pos.Y))
		}
	}
}

// updateAbilities ticks every live instance and expires the finished ones,
// clearing their statuses from affected players.
func (r *Round) updateAbilities(dt float64) {
	kept := r.activeAbilities[:0]
	for _, a := range r.activeAbilities {
		if r.Clock >= a.EndsAt {
			a.expire(r)
			continue
		}
		a.update(r, dt, r.Clock)
		kept = append(kept, a)
	}
	r.activeAbilities = kept
}

// advanceTimers runs whichever countdown currently governs the round: the
// spike timer after a plant, the round timer before one.
func (r *Round) advanceTimers(dt float64) {
	if r.SpikePlanted {
		r.spikeTimeLeft -= dt
		if r.spikeTimeLeft <= 0 {
			r.endRound(WinnerAttackers, EndDetonation)
		}
		return
	}

	r.roundTimeLeft -= dt
	if r.roundTimeLeft <= 0 {
		r.endRound(WinnerDefenders, EndTimeout)
	}
}

// checkTeamElimination ends the round when a side is wiped. A planted
// spike keeps the round alive after an attacker wipe; the spike decides.
func (r *Round) checkTeamElimination() {
	if r.Phase != PhaseActive {
		return
	}
	if r.AliveCount(TeamDefenders) == 0 {
		r.endRound(WinnerAttackers, EndElimination)
		return
	}
	if r.AliveCount(TeamAttackers) == 0 && !r.SpikePlanted {
		r.endRound(WinnerDefenders, EndElimination)
	}
}

// endRound finalizes the outcome exactly once.
func (r *Round) endRound(w Winner, condition string) {
	if r.Phase == PhaseEnd {
		return
	}
	r.Winner = w
	r.EndCondition = condition
	r.Phase = PhaseEnd

	r.emit(EventTypeRoundEnd, "", RoundEndPayload{
		Winner: w.String(), EndCondition: condition,
	})
	r.emit(EventTypePhase, "", PhasePayload{From: PhaseActive.String(), To: PhaseEnd.String()})
}

// emit appends to the round's ordered log and mirrors into the optional
// persistent sink. Sequence numbers are monotonic within the round.
func (r *Round) emit(t EventType, playerID string, payload interface{}) {
	ev := Event{
		Version:  EventVersion,
		Type:     t,
		Time:     r.Clock,
		Sequence: r.seq,
		Round:    r.Number,
		PlayerID: playerID,
		Payload:  EncodePayload(payload),
	}
	r.seq++
	r.events = append(r.events, ev)
	if r.sink != nil {
		r.sink.Emit(ev)
	}
}

func (r *Round) boardFor(team Team) *Blackboard {
	return r.boards[team]
}

func (r *Round) teamIDs(team Team) []string {
	if team == TeamAttackers {
		return r.AttackerIDs
	}
	return r.DefenderIDs
}

// siteNames returns bomb site names in map definition order.
func (r *Round) siteNames() []string {
	sites := r.Map.BombSites()
	names := make([]string, len(sites))
	for i, s := range sites {
		names[i] = s.Name
	}
	return names
}

// siteCenter returns the center of a bomb site footprint at terrain height.
func (r *Round) siteCenter(name string) mapgeo.Vec3 {
	for _, s := range r.Map.BombSites() {
		if s.Name == name {
			cx := s.X + s.W/2
			cy := s.Y + s.H/2
			return mapgeo.Vec3{X: cx, Y: cy, Z: r.Map.ElevationAt(cx, cy)}
		}
	}
	return mapgeo.Vec3{}
}

// targetSite picks the site a team is playing toward: the strategy call if
// one is set, otherwise the historically most successful site.
func (r *Round) targetSite(team Team) string {
	board := r.boardFor(team)
	if board.CurrentStrategy != nil && board.CurrentStrategy.TargetSite != "" {
		return board.CurrentStrategy.TargetSite
	}
	return board.BestSite(r.siteNames())
}

// activeSmokes collects occlusion spheres from landed smokes.
func (r *Round) activeSmokes() []mapgeo.Sphere {
	var smokes []mapgeo.Sphere
	for _, a := range r.activeAbilities {
		if s, ok := a.Smoke(); ok {
			smokes = append(smokes, s)
		}
	}
	return smokes
}
