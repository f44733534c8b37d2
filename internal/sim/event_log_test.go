package sim

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEventLogEmitRequiresStart(t *testing.T) {
	el := NewEventLog()
	if el.Emit(Event{Type: EventTypeKill}) {
		t.Error("emit accepted before Start")
	}
}

func TestEventLogWritesNDJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.ndjson")

	el := NewEventLog()
	if err := el.Start(path); err != nil {
		t.Fatalf("Start: %v", err)
	}

	for i := 0; i < 10; i++ {
		if !el.Emit(Event{
			Version: EventVersion, Type: EventTypeKill,
			Sequence: uint64(i), Round: 1,
		}) {
			t.Fatalf("emit %d rejected", i)
		}
	}

	// Give the batch writer a flush interval, then stop for the final flush.
	time.Sleep(2 * BatchFlushInterval)
	el.Stop()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening log: %v", err)
	}
	defer f.Close()

	lines := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var ev Event
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			t.Fatalf("line %d not valid JSON: %v", lines, err)
		}
		if ev.Type != EventTypeKill {
			t.Errorf("line %d type = %d", lines, ev.Type)
		}
		lines++
	}
	if lines != 10 {
		t.Errorf("log holds %d lines, want 10", lines)
	}

	if got := el.GetTotalCount(); got != 10 {
		t.Errorf("total count = %d, want 10", got)
	}
	if got := el.GetDroppedCount(); got != 0 {
		t.Errorf("dropped count = %d, want 0", got)
	}
}

func TestEventLogStopIdempotent(t *testing.T) {
	el := NewEventLog()
	if err := el.Start(""); err != nil {
		t.Fatalf("Start: %v", err)
	}
	el.Stop()
	el.Stop()

	if el.Emit(Event{}) {
		t.Error("emit accepted after Stop")
	}
	stats := el.GetStats()
	if stats["running"] != false {
		t.Errorf("stats running = %v", stats["running"])
	}
}
