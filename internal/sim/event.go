package sim

import (
	"encoding/json"
)

// EventType enum for event classification
type EventType uint8

const (
	EventTypeUnknown EventType = iota
	EventTypePhase             // Round phase transition
	EventTypeKill
	EventTypeDamage
	EventTypePlant
	EventTypeDefuse
	EventTypeAbility
	EventTypePurchase
	EventTypeSound
	EventTypeComm
	EventTypeRoundEnd
)

// EventVersion for backwards compatibility in replay
const EventVersion uint8 = 1

// Event is one entry in the round's ordered event log. Time is simulation
// seconds from round start, never wall clock, so identical seeds produce
// identical logs.
type Event struct {
	Version  uint8     `json:"version"`
	Type     EventType `json:"type"`
	Time     float64   `json:"time"`     // Simulation seconds
	Sequence uint64    `json:"sequence"` // Monotonic within the round
	Round    int       `json:"round"`
	PlayerID string    `json:"playerId"` // Source player, if any
	Payload  []byte    `json:"payload"`  // JSON-encoded payload
}

// String returns a human-readable event type name.
func (t EventType) String() string {
	switch t {
	case EventTypePhase:
		return "phase"
	case EventTypeKill:
		return "kill"
	case EventTypeDamage:
		return "damage"
	case EventTypePlant:
		return "plant"
	case EventTypeDefuse:
		return "defuse"
	case EventTypeAbility:
		return "ability"
	case EventTypePurchase:
		return "purchase"
	case EventTypeSound:
		return "sound"
	case EventTypeComm:
		return "comm"
	case EventTypeRoundEnd:
		return "round_end"
	default:
		return "unknown"
	}
}

// Typed payloads for different event types

// PhasePayload marks a phase transition.
type PhasePayload struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// KillPayload contains kill event details.
type KillPayload struct {
	KillerID   string  `json:"killerId"`
	VictimID   string  `json:"victimId"`
	Weapon     string  `json:"weapon"`
	Headshot   bool    `json:"headshot"`
	VictimX    float64 `json:"victimX"`
	VictimY    float64 `json:"victimY"`
	SpikeDrop  bool    `json:"spikeDrop"`
	KillerSide string  `json:"killerSide"`
}

// DamagePayload contains damage event details.
type DamagePayload struct {
	AttackerID string `json:"attackerId"`
	VictimID   string `json:"victimId"`
	Damage     int    `json:"damage"`
	VictimHP   int    `json:"victimHp"`
	Source     string `json:"source"` // Weapon or ability name
}

// PlantPayload contains spike plant details.
type PlantPayload struct {
	PlanterID          string `json:"planterId"`
	Site               string `json:"site"`
	RemainingDefenders int    `json:"remainingDefenders"`
}

// DefusePayload contains spike defuse details.
type DefusePayload struct {
	DefuserID          string `json:"defuserId"`
	Site               string `json:"site"`
	RemainingAttackers int    `json:"remainingAttackers"`
}

// AbilityPayload contains ability usage details. It is recorded at cast
// time; who the cast ends up affecting shows in damage and status events.
type AbilityPayload struct {
	PlayerID string  `json:"playerId"`
	Ability  string  `json:"ability"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// PurchasePayload contains buy phase purchase details.
type PurchasePayload struct {
	PlayerID string `json:"playerId"`
	Item     string `json:"item"`
	Cost     int    `json:"cost"`
}

// SoundPayload contains an audible noise picked up by a player.
type SoundPayload struct {
	HeardBy   string  `json:"heardBy"`
	SourceID  string  `json:"sourceId"`
	Kind      string  `json:"kind"` // footstep, gunshot, ability
	Intensity float64 `json:"intensity"`
}

// CommPayload contains a team communication message.
type CommPayload struct {
	SenderID string `json:"senderId"`
	Message  string `json:"message"`
}

// RoundEndPayload contains the round outcome.
type RoundEndPayload struct {
	Winner       string `json:"winner"`
	EndCondition string `json:"endCondition"`
}

// EncodePayload marshals a payload to JSON bytes.
func EncodePayload(payload interface{}) []byte {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return data
}
