package api

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"tacsim/internal/config"
	"tacsim/internal/mapgeo"
	"tacsim/internal/sim"
)

// RosterEntry is one player slot in a create-match request.
type RosterEntry struct {
	Name             string  `json:"name"`
	Agent            string  `json:"agent,omitempty"`
	Role             string  `json:"role,omitempty"`
	AimRating        float64 `json:"aimRating,omitempty"`
	MovementAccuracy float64 `json:"movementAccuracy,omitempty"`
}

// CreateMatchRequest is the POST body for starting a match.
type CreateMatchRequest struct {
	Map    string        `json:"map,omitempty"` // Defaults to the built-in range
	Seed   int64         `json:"seed,omitempty"`
	NameA  string        `json:"nameA,omitempty"`
	NameB  string        `json:"nameB,omitempty"`
	SquadA []RosterEntry `json:"squadA,omitempty"`
	SquadB []RosterEntry `json:"squadB,omitempty"`
}

// MatchStore hosts concurrent matches behind one lock. Match simulation is
// fast relative to request rates, so a store-wide mutex is enough; the cap
// bounds memory, not throughput.
type MatchStore struct {
	mu      sync.Mutex
	cfg     config.AppConfig
	maps    map[string]*mapgeo.Map
	matches map[string]*sim.Match
	sink    *sim.EventLog
}

// NewMatchStore creates a store serving the given maps. The first map in
// sorted name order is the default for requests that omit one.
func NewMatchStore(cfg config.AppConfig, maps map[string]*mapgeo.Map, sink *sim.EventLog) *MatchStore {
	return &MatchStore{
		cfg:     cfg,
		maps:    maps,
		matches: make(map[string]*sim.Match),
		sink:    sink,
	}
}

// MapNames returns the hosted map names, sorted.
func (s *MatchStore) MapNames() []string {
	names := make([]string, 0, len(s.maps))
	for name := range s.maps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetMap returns a hosted map by name.
func (s *MatchStore) GetMap(name string) (*mapgeo.Map, bool) {
	m, ok := s.maps[name]
	return m, ok
}

// Create starts a new match. Squads default to five generated players per
// side when the request leaves them empty.
func (s *MatchStore) Create(req CreateMatchRequest) (*sim.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.matches) >= s.cfg.Server.MaxMatches {
		return nil, fmt.Errorf("match limit reached (%d)", s.cfg.Server.MaxMatches)
	}

	mapName := req.Map
	if mapName == "" {
		names := s.MapNames()
		if len(names) == 0 {
			return nil, fmt.Errorf("no maps hosted")
		}
		mapName = names[0]
	}
	m, ok := s.maps[mapName]
	if !ok {
		return nil, fmt.Errorf("unknown map %q", mapName)
	}

	match, err := sim.NewMatch(s.cfg, sim.MatchOptions{
		Seed:   req.Seed,
		Map:    m,
		NameA:  req.NameA,
		NameB:  req.NameB,
		SquadA: rosterOptions(req.SquadA),
		SquadB: rosterOptions(req.SquadB),
		Sink:   s.sink,
	})
	if err != nil {
		return nil, err
	}

	s.matches[match.ID] = match
	RecordMatchCount(len(s.matches))
	return match, nil
}

// rosterOptions converts request entries, padding to a full squad of five.
func rosterOptions(entries []RosterEntry) []sim.PlayerOptions {
	opts := make([]sim.PlayerOptions, 0, 5)
	for _, e := range entries {
		opts = append(opts, sim.PlayerOptions{
			Name:             e.Name,
			Agent:            e.Agent,
			Role:             e.Role,
			AimRating:        e.AimRating,
			MovementAccuracy: e.MovementAccuracy,
		})
	}
	for len(opts) < 5 {
		opts = append(opts, sim.PlayerOptions{})
	}
	return opts
}

// List returns summaries of every hosted match in id order.
func (s *MatchStore) List() []sim.MatchSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.matches))
	for id := range s.matches {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]sim.MatchSummary, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.matches[id].Summary())
	}
	return out
}

// Get returns one match summary.
func (s *MatchStore) Get(id string) (sim.MatchSummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[id]
	if !ok {
		return sim.MatchSummary{}, false
	}
	return m.Summary(), true
}

// PlayRound simulates the next round of a match.
func (s *MatchStore) PlayRound(id string) (sim.RoundSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[id]
	if !ok {
		return sim.RoundSummary{}, fmt.Errorf("unknown match %q", id)
	}
	start := time.Now()
	r, err := m.PlayRound()
	if err != nil {
		return sim.RoundSummary{}, err
	}
	RecordRoundDuration(time.Since(start))
	RecordRoundSimulated()
	return r.Summary(), nil
}

// PlayAll simulates a match to completion.
func (s *MatchStore) PlayAll(id string) (sim.MatchSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[id]
	if !ok {
		return sim.MatchSummary{}, fmt.Errorf("unknown match %q", id)
	}
	before := len(m.Results)
	if err := m.PlayAll(); err != nil {
		return sim.MatchSummary{}, err
	}
	for i := before; i < len(m.Results); i++ {
		RecordRoundSimulated()
	}
	return m.Summary(), nil
}

// Snapshot returns the latest round snapshot for a match, if any round has
// started.
func (s *MatchStore) Snapshot(id string) (sim.RoundSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[id]
	if !ok || m.CurrentRound == nil {
		return sim.RoundSnapshot{}, false
	}
	return m.CurrentRound.Snapshot(), true
}

// Events returns the event log of the match's latest round.
func (s *MatchStore) Events(id string) ([]sim.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[id]
	if !ok || m.CurrentRound == nil {
		return nil, false
	}
	return m.CurrentRound.Events(), true
}

// Delete removes a finished or abandoned match.
func (s *MatchStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.matches[id]; !ok {
		return false
	}
	delete(s.matches, id)
	RecordMatchCount(len(s.matches))
	return true
}
