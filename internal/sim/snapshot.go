package sim

// PlayerSnapshot is a wire-friendly view of one player at a point in time.
type PlayerSnapshot struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Team     string   `json:"team"`
	Agent    string   `json:"agent,omitempty"`
	Alive    bool     `json:"alive"`
	Health   int      `json:"health"`
	Armor    int      `json:"armor"`
	Credits  int      `json:"credits"`
	Weapon   string   `json:"weapon"`
	Shield   string   `json:"shield"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Z        float64  `json:"z"`
	HasSpike bool     `json:"hasSpike"`
	Kills    int      `json:"kills"`
	Deaths   int      `json:"deaths"`
	Statuses []string `json:"statuses,omitempty"`
}

// RoundSnapshot is the observable round state for streaming to clients.
// It deliberately omits hidden information like blackboard contents.
type RoundSnapshot struct {
	Round          int              `json:"round"`
	Phase          string           `json:"phase"`
	Clock          float64          `json:"clock"`
	Tick           int              `json:"tick"`
	RoundTimeLeft  float64          `json:"roundTimeLeft"`
	SpikeTimeLeft  float64          `json:"spikeTimeLeft,omitempty"`
	SpikePlanted   bool             `json:"spikePlanted"`
	SpikeSite      string           `json:"spikeSite,omitempty"`
	SpikeX         float64          `json:"spikeX,omitempty"`
	SpikeY         float64          `json:"spikeY,omitempty"`
	AliveAttackers int              `json:"aliveAttackers"`
	AliveDefenders int              `json:"aliveDefenders"`
	Winner         string           `json:"winner,omitempty"`
	EndCondition   string           `json:"endCondition,omitempty"`
	Players        []PlayerSnapshot `json:"players"`
}

// RoundSummary is the condensed outcome of a finished round.
type RoundSummary struct {
	Round        int     `json:"round"`
	Winner       string  `json:"winner"`
	EndCondition string  `json:"endCondition"`
	Duration     float64 `json:"duration"`
	Ticks        int     `json:"ticks"`
	SpikePlanted bool    `json:"spikePlanted"`
	SpikeSite    string  `json:"spikeSite,omitempty"`
	Kills        int     `json:"kills"`
	Events       int     `json:"events"`
}

// Snapshot captures the current observable state of the round.
func (r *Round) Snapshot() RoundSnapshot {
	snap := RoundSnapshot{
		Round:          r.Number,
		Phase:          r.Phase.String(),
		Clock:          r.Clock,
		Tick:           r.Tick,
		RoundTimeLeft:  r.roundTimeLeft,
		SpikePlanted:   r.SpikePlanted,
		SpikeSite:      r.SpikeSite,
		AliveAttackers: r.AliveCount(TeamAttackers),
		AliveDefenders: r.AliveCount(TeamDefenders),
		Players:        make([]PlayerSnapshot, 0, len(r.Players)),
	}
	if r.SpikePlanted {
		snap.SpikeTimeLeft = r.spikeTimeLeft
		snap.SpikeX = r.SpikePos.X
		snap.SpikeY = r.SpikePos.Y
	}
	if r.Phase == PhaseEnd {
		snap.Winner = r.Winner.String()
		snap.EndCondition = r.EndCondition
	}

	for _, id := range r.playerOrder {
		p := r.Players[id]
		ps := PlayerSnapshot{
			ID: p.ID, Name: p.Name, Team: p.Team.String(), Agent: p.Agent,
			Alive: p.Alive, Health: p.Health, Armor: p.Armor, Credits: p.Credits,
			Weapon: p.Weapon.Name, Shield: p.Shield.String(),
			X: p.Pos.X, Y: p.Pos.Y, Z: p.Pos.Z,
			HasSpike: p.HasSpike, Kills: p.Kills, Deaths: p.Deaths,
		}
		for s := StatusFlashed; s <= StatusRevealed; s++ {
			if p.HasStatus(s) {
				ps.Statuses = append(ps.Statuses, s.String())
			}
		}
		snap.Players = append(snap.Players, ps)
	}
	return snap
}

// Summary condenses a finished round into its headline numbers.
func (r *Round) Summary() RoundSummary {
	kills := 0
	for _, ev := range r.events {
		if ev.Type == EventTypeKill {
			kills++
		}
	}
	return RoundSummary{
		Round:        r.Number,
		Winner:       r.Winner.String(),
		EndCondition: r.EndCondition,
		Duration:     r.Clock,
		Ticks:        r.Tick,
		SpikePlanted: r.SpikePlanted,
		SpikeSite:    r.SpikeSite,
		Kills:        kills,
		Events:       len(r.events),
	}
}
