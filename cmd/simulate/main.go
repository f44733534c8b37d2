package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"tacsim/internal/config"
	"tacsim/internal/mapgeo"
	"tacsim/internal/sim"

	"github.com/joho/godotenv"
)

// simulate runs a full headless match and prints the result. With -events
// it also dumps every round's event log as NDJSON, which is the input
// format replay tooling consumes.
func main() {
	var (
		mapPath   = flag.String("map", "", "map document to load, defaults to the built-in range")
		seed      = flag.Int64("seed", 0, "match seed, 0 picks the current time")
		nameA     = flag.String("team-a", "alpha", "squad A name")
		nameB     = flag.String("team-b", "bravo", "squad B name")
		events    = flag.Bool("events", false, "dump round events as NDJSON to stdout")
		jsonOut   = flag.Bool("json", false, "print the match summary as JSON")
		quiet     = flag.Bool("quiet", false, "suppress per-round lines")
		eventPath = flag.String("event-log", "", "mirror events into a persistent NDJSON file")
	)
	flag.Parse()

	if err := godotenv.Load(".env"); err == nil {
		log.Println("loaded environment from .env")
	}
	cfg := config.Load()

	m := mapgeo.DefaultMap()
	if *mapPath != "" {
		loaded, err := mapgeo.LoadFile(*mapPath)
		if err != nil {
			log.Fatalf("loading map: %v", err)
		}
		m = loaded
	}

	matchSeed := *seed
	if matchSeed == 0 {
		matchSeed = time.Now().UnixNano()
	}

	var sink *sim.EventLog
	if *eventPath != "" {
		sink = sim.NewEventLog()
		if err := sink.Start(*eventPath); err != nil {
			log.Fatalf("event log: %v", err)
		}
		defer sink.Stop()
	}

	match, err := sim.NewMatch(cfg, sim.MatchOptions{
		Seed:   matchSeed,
		Map:    m,
		NameA:  *nameA,
		NameB:  *nameB,
		SquadA: defaultRoster(),
		SquadB: defaultRoster(),
		Sink:   sink,
	})
	if err != nil {
		log.Fatalf("creating match: %v", err)
	}

	if !*quiet {
		log.Printf("match %s on %q, seed %d", match.ID, m.Name, matchSeed)
	}

	for !match.Finished {
		r, err := match.PlayRound()
		if err != nil {
			log.Fatalf("round %d: %v", match.RoundNumber(), err)
		}

		if !*quiet {
			s := r.Summary()
			log.Printf("round %2d: %s by %s in %5.1fs (%d kills)  %s %d - %d %s",
				s.Round, s.Winner, s.EndCondition, s.Duration, s.Kills,
				*nameA, match.ScoreA, match.ScoreB, *nameB)
		}
		if *events {
			enc := json.NewEncoder(os.Stdout)
			for _, ev := range r.Events() {
				if err := enc.Encode(ev); err != nil {
					log.Fatalf("encoding event: %v", err)
				}
			}
		}
	}

	summary := match.Summary()
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(summary); err != nil {
			log.Fatalf("encoding summary: %v", err)
		}
		return
	}
	fmt.Printf("%s wins %d-%d after %d rounds (seed %d)\n",
		summary.WinnerSquad, summary.ScoreA, summary.ScoreB, len(summary.Results), matchSeed)
}

// defaultRoster fills a squad with varied skill so matches are not
// mirror games.
func defaultRoster() []sim.PlayerOptions {
	return []sim.PlayerOptions{
		{Name: "entry", Role: "duelist", AimRating: 78, MovementAccuracy: 70},
		{Name: "second", Role: "duelist", AimRating: 72, MovementAccuracy: 66},
		{Name: "smokes", Role: "controller", AimRating: 64, MovementAccuracy: 60},
		{Name: "info", Role: "initiator", AimRating: 68, MovementAccuracy: 62},
		{Name: "anchor", Role: "sentinel", AimRating: 61, MovementAccuracy: 58},
	}
}
