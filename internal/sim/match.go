package sim

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"tacsim/internal/config"
	"tacsim/internal/mapgeo"
	"tacsim/internal/pathing"
)

const (
	// RoundsToWin is the regulation target score.
	RoundsToWin = 13
	// HalfLength is the round count after which sides swap.
	HalfLength = 12
	// RegulationRounds is the most rounds regulation can hold.
	RegulationRounds = 24
	// OvertimeCredits is the fixed stake both teams get each overtime round.
	OvertimeCredits = 5000
	// maxMatchRounds caps degenerate overtimes.
	maxMatchRounds = 60
)

// MatchOptions configures a full match. Squad A starts on attack.
type MatchOptions struct {
	Seed     int64
	Map      *mapgeo.Map
	SquadA   []PlayerOptions
	SquadB   []PlayerOptions
	NameA    string
	NameB    string
	Intents  IntentProvider
	Sink     *EventLog
	PathCell float64 // Nav grid cell size, defaults to 1.0
}

// RoundResult is one finished round from the match's perspective.
type RoundResult struct {
	Number       int     `json:"number"`
	WinnerSquad  string  `json:"winnerSquad"`
	WinnerSide   string  `json:"winnerSide"`
	EndCondition string  `json:"endCondition"`
	ScoreA       int     `json:"scoreA"`
	ScoreB       int     `json:"scoreB"`
	Duration     float64 `json:"duration"`
	SpikePlanted bool    `json:"spikePlanted"`
	SpikeSite    string  `json:"spikeSite,omitempty"`
}

// Match runs rounds until one squad reaches the target score, handling
// side swaps, the economy carryover between rounds, and overtime. All
// round seeds derive from the match seed, so a match replays exactly.
type Match struct {
	ID    string
	NameA string
	NameB string

	cfg config.AppConfig
	m   *mapgeo.Map

	squadA []*Player
	squadB []*Player

	boardA *Blackboard
	boardB *Blackboard

	aAttacking  bool
	lossStreakA int
	lossStreakB int

	ScoreA  int
	ScoreB  int
	Results []RoundResult

	CurrentRound *Round
	Finished     bool
	WinnerSquad  string

	intents IntentProvider
	sink    *EventLog
	rng     *rand.Rand
	seed    int64
}

// NewMatch validates rosters and builds a match with squad A attacking
// first and everyone on pistol-round economy.
func NewMatch(cfg config.AppConfig, opts MatchOptions) (*Match, error) {
	if opts.Map == nil {
		return nil, fmt.Errorf("match: nil map")
	}
	if len(opts.SquadA) == 0 || len(opts.SquadB) == 0 {
		return nil, fmt.Errorf("match: both squads need players, got %d and %d",
			len(opts.SquadA), len(opts.SquadB))
	}

	m := &Match{
		ID:         uuid.NewString(),
		NameA:      opts.NameA,
		NameB:      opts.NameB,
		cfg:        cfg,
		m:          opts.Map,
		boardA:     NewBlackboard(TeamAttackers),
		boardB:     NewBlackboard(TeamDefenders),
		aAttacking: true,
		intents:    opts.Intents,
		sink:       opts.Sink,
		rng:        rand.New(rand.NewSource(opts.Seed)),
		seed:       opts.Seed,
	}
	if m.NameA == "" {
		m.NameA = "squad-a"
	}
	if m.NameB == "" {
		m.NameB = "squad-b"
	}
	if m.intents == nil {
		cell := opts.PathCell
		if cell <= 0 {
			cell = 1.0
		}
		grid := pathing.NewNavGrid(opts.Map, cell, cfg.Movement.PlayerRadius, cfg.Movement.PlayerHeight)
		m.intents = &ScriptedProvider{Paths: pathing.NewPathFinder(grid)}
	}

	m.squadA = buildSquad("a", opts.SquadA, cfg.Economy.StartingCredits)
	m.squadB = buildSquad("b", opts.SquadB, cfg.Economy.StartingCredits)
	return m, nil
}

func buildSquad(tag string, roster []PlayerOptions, credits int) []*Player {
	players := make([]*Player, len(roster))
	for i, opts := range roster {
		if opts.Credits == 0 {
			opts.Credits = credits
		}
		if len(opts.Abilities) == 0 {
			opts.Abilities = DefaultLoadout()
		}
		// Team is provisional; each round assigns the current side.
		players[i] = NewPlayer(fmt.Sprintf("%s%d", tag, i+1), TeamAttackers, opts)
	}
	return players
}

// Seed returns the match seed.
func (m *Match) Seed() int64 { return m.seed }

// RoundNumber returns the upcoming (or in-progress) round number.
func (m *Match) RoundNumber() int { return len(m.Results) + 1 }

// PlayRound simulates the next round to completion and folds its result
// into the score, the economy, and the team blackboards.
func (m *Match) PlayRound() (*Round, error) {
	if m.Finished {
		return nil, fmt.Errorf("match %s: already finished %d-%d", m.ID, m.ScoreA, m.ScoreB)
	}

	number := m.RoundNumber()
	attackers, defenders := m.squadA, m.squadB
	attBoard, defBoard := m.boardA, m.boardB
	if !m.aAttacking {
		attackers, defenders = m.squadB, m.squadA
		attBoard, defBoard = m.boardB, m.boardA
	}
	attBoard.Team = TeamAttackers
	defBoard.Team = TeamDefenders

	r, err := NewRound(m.cfg, m.m, RoundOptions{
		Number:        number,
		Seed:          m.rng.Int63(),
		Attackers:     attackers,
		Defenders:     defenders,
		Intents:       m.intents,
		AttackerBoard: attBoard,
		DefenderBoard: defBoard,
		Sink:          m.sink,
	})
	if err != nil {
		return nil, err
	}
	m.CurrentRound = r
	r.Simulate()

	m.applyResult(r)
	return r, nil
}

// PlayAll runs rounds until the match is decided.
func (m *Match) PlayAll() error {
	for !m.Finished {
		if _, err := m.PlayRound(); err != nil {
			return err
		}
	}
	return nil
}

// applyResult settles one finished round: score, loss streaks, carryover
// credits and loadouts, blackboard memory, then side swaps.
func (m *Match) applyResult(r *Round) {
	aWon := (r.Winner == WinnerAttackers) == m.aAttacking

	if aWon {
		m.ScoreA++
		m.lossStreakA = 0
		m.lossStreakB++
	} else {
		m.ScoreB++
		m.lossStreakB = 0
		m.lossStreakA++
	}

	bonusA := m.lossBonus(m.lossStreakA)
	bonusB := m.lossBonus(m.lossStreakB)
	bonusAtt, bonusDef := bonusA, bonusB
	if !m.aAttacking {
		bonusAtt, bonusDef = bonusB, bonusA
	}

	carryover := r.Carryover(bonusAtt, bonusDef)
	for id, state := range carryover {
		p := r.Players[id]
		p.Credits += state.RoundCredits
		if p.Credits > m.cfg.Economy.MaxCredits {
			p.Credits = m.cfg.Economy.MaxCredits
		}
		if !state.Alive {
			p.Weapon = GetWeapon("Classic")
			p.Shield = ShieldNone
			p.Armor = 0
		}
		p.UltPoints += state.Kills + state.Plants + state.Defuses
	}

	site := r.SpikeSite
	if site == "" {
		site = r.targetSite(TeamAttackers)
	}
	m.boardFor(true).RecordRoundResult(aWon, site)
	m.boardFor(false).RecordRoundResult(!aWon, site)

	winnerSquad := m.NameB
	if aWon {
		winnerSquad = m.NameA
	}
	m.Results = append(m.Results, RoundResult{
		Number:       r.Number,
		WinnerSquad:  winnerSquad,
		WinnerSide:   r.Winner.String(),
		EndCondition: r.EndCondition,
		ScoreA:       m.ScoreA,
		ScoreB:       m.ScoreB,
		Duration:     r.Clock,
		SpikePlanted: r.SpikePlanted,
		SpikeSite:    r.SpikeSite,
	})

	m.checkFinished(r.Number)
	if m.Finished {
		return
	}

	switch {
	case r.Number == HalfLength:
		m.halftime()
	case r.Number >= RegulationRounds:
		m.overtimeSwap()
	}
}

// lossBonus is the streak-scaled loss payout. The streak counts this
// round's loss; the bonus stops growing at the cap.
func (m *Match) lossBonus(streak int) int {
	if streak <= 0 {
		return 0
	}
	eco := m.cfg.Economy
	if streak > eco.LossStreakCap {
		streak = eco.LossStreakCap
	}
	return eco.LossCredits + eco.LossStreakBonus*streak
}

// checkFinished decides the match. Regulation needs 13 with a two-round
// lead, which a 12-12 tie converts into win-by-two overtime.
func (m *Match) checkFinished(roundsPlayed int) {
	lead, trail := m.ScoreA, m.ScoreB
	if m.ScoreB > m.ScoreA {
		lead, trail = m.ScoreB, m.ScoreA
	}
	if lead >= RoundsToWin && lead-trail >= 2 {
		m.Finished = true
		if m.ScoreA > m.ScoreB {
			m.WinnerSquad = m.NameA
		} else {
			m.WinnerSquad = m.NameB
		}
		return
	}
	if roundsPlayed >= maxMatchRounds {
		// Degenerate overtime; call it for the leader, A on a dead tie.
		m.Finished = true
		if m.ScoreB > m.ScoreA {
			m.WinnerSquad = m.NameB
		} else {
			m.WinnerSquad = m.NameA
		}
	}
}

// halftime swaps sides and resets both squads to pistol-round economy.
func (m *Match) halftime() {
	m.aAttacking = !m.aAttacking
	m.lossStreakA = 0
	m.lossStreakB = 0
	m.resetEconomy(m.cfg.Economy.StartingCredits)
	m.boardA.PrepareForNewHalf()
	m.boardB.PrepareForNewHalf()
}

// overtimeSwap alternates sides every overtime round on a fixed stake.
func (m *Match) overtimeSwap() {
	m.aAttacking = !m.aAttacking
	m.lossStreakA = 0
	m.lossStreakB = 0
	m.resetEconomy(OvertimeCredits)
}

func (m *Match) resetEconomy(credits int) {
	for _, p := range append(append([]*Player{}, m.squadA...), m.squadB...) {
		p.Credits = credits
		p.Weapon = GetWeapon("Classic")
		p.Shield = ShieldNone
		p.Armor = 0
		for i := range p.Abilities {
			p.Abilities[i].Charges = p.Abilities[i].Def.Charges
		}
	}
}

func (m *Match) boardFor(squadA bool) *Blackboard {
	if squadA {
		return m.boardA
	}
	return m.boardB
}

// MatchSummary is the wire view of a match's standing.
type MatchSummary struct {
	ID          string        `json:"id"`
	NameA       string        `json:"nameA"`
	NameB       string        `json:"nameB"`
	ScoreA      int           `json:"scoreA"`
	ScoreB      int           `json:"scoreB"`
	Round       int           `json:"round"`
	Finished    bool          `json:"finished"`
	WinnerSquad string        `json:"winnerSquad,omitempty"`
	Results     []RoundResult `json:"results"`
}

// Summary returns the match standing.
func (m *Match) Summary() MatchSummary {
	return MatchSummary{
		ID:          m.ID,
		NameA:       m.NameA,
		NameB:       m.NameB,
		ScoreA:      m.ScoreA,
		ScoreB:      m.ScoreB,
		Round:       m.RoundNumber(),
		Finished:    m.Finished,
		WinnerSquad: m.WinnerSquad,
		Results:     m.Results,
	}
}
