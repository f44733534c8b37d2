package sim

import (
	"tacsim/internal/mapgeo"
)

// EnemyInfo is one remembered enemy sighting. Confidence decays over time
// until the entry is considered stale and dropped.
type EnemyInfo struct {
	PlayerID   string
	Position   mapgeo.Vec3
	LastSeen   float64 // Simulation time of the sighting
	SpottedBy  string
	Confidence float64 // 1.0 fresh, decays toward 0
}

// SpikeStatus is the blackboard's belief about the spike.
type SpikeStatus string

const (
	SpikeUnknown     SpikeStatus = "unknown"
	SpikeCarriedInfo SpikeStatus = "carried"
	SpikeDroppedInfo SpikeStatus = "dropped"
	SpikePlantedInfo SpikeStatus = "planted"
)

// SpikeInfo is the team's shared knowledge about the spike.
type SpikeInfo struct {
	Status      SpikeStatus
	Location    mapgeo.Vec3
	CarrierID   string
	PlantSite   string
	SeenBy      string
	LastUpdated float64
}

// StrategyCall is the current team strategy.
type StrategyCall struct {
	Name       string // rush, execute, default, stack_site, ...
	IssuedAt   float64
	IssuedBy   string
	TargetSite string
}

// NoiseEvent is a recent sound attributed to the enemy team.
type NoiseEvent struct {
	Kind      string
	Location  mapgeo.Vec3
	Intensity float64
	HeardBy   string
	Time      float64
}

// Blackboard is a team-scoped shared knowledge store. Each Round owns
// exactly two, passed by reference into decision-making collaborators and
// decayed explicitly each tick. It persists across rounds so teams can
// build on prior-round observations.
type Blackboard struct {
	Team Team

	EnemyInfo       map[string]*EnemyInfo
	Spike           SpikeInfo
	CurrentStrategy *StrategyCall
	DangerAreas     map[string]bool
	ClearedAreas    map[string]bool
	NoiseEvents     []NoiseEvent

	// Cross-round memory.
	RoundsWon       int
	RoundsLost      int
	WinStreak       int // Negative while on a loss streak
	TeamConfidence  float64
	SiteSuccessRate map[string]float64
	IsAttacking     bool
}

// NewBlackboard creates an empty blackboard for a team.
func NewBlackboard(team Team) *Blackboard {
	return &Blackboard{
		Team:            team,
		EnemyInfo:       make(map[string]*EnemyInfo),
		Spike:           SpikeInfo{Status: SpikeUnknown},
		DangerAreas:     make(map[string]bool),
		ClearedAreas:    make(map[string]bool),
		TeamConfidence:  1.0,
		SiteSuccessRate: map[string]float64{},
		IsAttacking:     team == TeamAttackers,
	}
}

// UpdateEnemyInfo records a fresh sighting at full confidence.
func (b *Blackboard) UpdateEnemyInfo(enemyID string, pos mapgeo.Vec3, spottedBy string, now float64) {
	b.EnemyInfo[enemyID] = &EnemyInfo{
		PlayerID: enemyID, Position: pos, LastSeen: now,
		SpottedBy: spottedBy, Confidence: 1.0,
	}
}

// UpdateSpikeCarried records the spike on a visible carrier.
func (b *Blackboard) UpdateSpikeCarried(carrierID string, pos mapgeo.Vec3, seenBy string, now float64) {
	b.Spike = SpikeInfo{
		Status: SpikeCarriedInfo, Location: pos, CarrierID: carrierID,
		SeenBy: seenBy, LastUpdated: now,
	}
}

// UpdateSpikeDropped records the spike lying on the ground.
func (b *Blackboard) UpdateSpikeDropped(pos mapgeo.Vec3, now float64) {
	b.Spike = SpikeInfo{Status: SpikeDroppedInfo, Location: pos, LastUpdated: now}
}

// UpdateSpikePlanted records a completed plant.
func (b *Blackboard) UpdateSpikePlanted(pos mapgeo.Vec3, site string, now float64) {
	b.Spike = SpikeInfo{Status: SpikePlantedInfo, Location: pos, PlantSite: site, LastUpdated: now}
}

// SetStrategy replaces the current strategy call.
func (b *Blackboard) SetStrategy(name, issuedBy, targetSite string, now float64) {
	b.CurrentStrategy = &StrategyCall{
		Name: name, IssuedAt: now, IssuedBy: issuedBy, TargetSite: targetSite,
	}
}

// MarkAreaDangerous flags an area, removing any cleared mark.
func (b *Blackboard) MarkAreaDangerous(area string) {
	if area == "" {
		return
	}
	b.DangerAreas[area] = true
	delete(b.ClearedAreas, area)
}

// MarkAreaCleared flags an area as enemy-free, removing any danger mark.
func (b *Blackboard) MarkAreaCleared(area string) {
	if area == "" {
		return
	}
	b.ClearedAreas[area] = true
	delete(b.DangerAreas, area)
}

// AddNoise appends a noise event, keeping the list bounded.
func (b *Blackboard) AddNoise(n NoiseEvent) {
	b.NoiseEvents = append(b.NoiseEvents, n)
	if len(b.NoiseEvents) > 64 {
		b.NoiseEvents = b.NoiseEvents[len(b.NoiseEvents)-64:]
	}
}

// Decay ages enemy sightings. Entries below the staleness threshold are
// dropped and their areas flip back to dangerous.
func (b *Blackboard) Decay(dt float64, areaOf func(mapgeo.Vec3) string) {
	const decayPerSec = 0.08
	for id, info := range b.EnemyInfo {
		info.Confidence -= decayPerSec * dt
		if info.Confidence < 0.2 {
			delete(b.EnemyInfo, id)
			if area := areaOf(info.Position); area != "" {
				delete(b.ClearedAreas, area)
				b.DangerAreas[area] = true
			}
		}
	}
}

// RecordRoundResult folds a round outcome into the cross-round memory.
func (b *Blackboard) RecordRoundResult(won bool, site string) {
	if won {
		b.RoundsWon++
		if b.WinStreak < 0 {
			b.WinStreak = 0
		}
		b.WinStreak++
		b.adjustConfidence(0.1)
	} else {
		b.RoundsLost++
		if b.WinStreak > 0 {
			b.WinStreak = 0
		}
		b.WinStreak--
		b.adjustConfidence(-0.1)
	}

	if site != "" && b.IsAttacking {
		cur, ok := b.SiteSuccessRate[site]
		if !ok {
			cur = 0.5
		}
		if won {
			b.SiteSuccessRate[site] = cur*0.8 + 0.2
		} else {
			b.SiteSuccessRate[site] = cur * 0.8
		}
	}

	b.ClearRoundData()
}

// ClearRoundData resets the knowledge that should not survive into the
// next round.
func (b *Blackboard) ClearRoundData() {
	b.EnemyInfo = make(map[string]*EnemyInfo)
	b.Spike = SpikeInfo{Status: SpikeUnknown}
	b.CurrentStrategy = nil
	b.DangerAreas = make(map[string]bool)
	b.ClearedAreas = make(map[string]bool)
	b.NoiseEvents = nil
}

// PrepareForNewHalf switches sides and softens cross-round memory.
func (b *Blackboard) PrepareForNewHalf() {
	b.IsAttacking = !b.IsAttacking
	b.TeamConfidence = (b.TeamConfidence + 1.0) / 2.0
	b.SiteSuccessRate = map[string]float64{}
	b.ClearRoundData()
}

// BestSite returns the site with the highest attack success rate among the
// given candidates, defaulting to the first.
func (b *Blackboard) BestSite(sites []string) string {
	if len(sites) == 0 {
		return ""
	}
	best := sites[0]
	bestRate := -1.0
	for _, s := range sites {
		rate, ok := b.SiteSuccessRate[s]
		if !ok {
			rate = 0.5
		}
		if rate > bestRate {
			best, bestRate = s, rate
		}
	}
	return best
}

func (b *Blackboard) adjustConfidence(delta float64) {
	b.TeamConfidence += delta
	if b.TeamConfidence < 0.1 {
		b.TeamConfidence = 0.1
	}
	if b.TeamConfidence > 2.0 {
		b.TeamConfidence = 2.0
	}
}
