// Package config provides centralized configuration management.
// This is the SINGLE SOURCE OF TRUTH for all engine tuning values.
//
// IMPORTANT: When changing values, only modify this file.
// All other parts of the codebase should reference these values.
package config

import (
	"os"
	"strconv"
)

// =============================================================================
// ENGINE CONFIGURATION
// =============================================================================

// EngineConfig holds the step-driven simulation settings.
type EngineConfig struct {
	TickRate int  // Simulation ticks per second
	MaxTicks int  // Hard cap per round, guards against runaway loops
	LogKills bool // Echo kill events to the process log
}

// DefaultEngine returns the default engine configuration.
func DefaultEngine() EngineConfig {
	return EngineConfig{
		TickRate: 10,
		MaxTicks: 20000,
		LogKills: false,
	}
}

// EngineFromEnv returns engine configuration with environment variable overrides.
// Environment variables take precedence over defaults.
func EngineFromEnv() EngineConfig {
	cfg := DefaultEngine()

	if tr := getEnvInt("TICK_RATE", 0); tr > 0 {
		cfg.TickRate = tr
	}
	if mt := getEnvInt("MAX_TICKS", 0); mt > 0 {
		cfg.MaxTicks = mt
	}
	cfg.LogKills = getEnvBool("LOG_KILLS", cfg.LogKills)

	return cfg
}

// =============================================================================
// ROUND TIMING CONFIGURATION
// =============================================================================

// RoundConfig holds the round phase timers in seconds.
type RoundConfig struct {
	RoundTimer     float64 // Active phase length
	BuyTimer       float64 // Buy phase length
	FirstBuyTimer  float64 // Buy phase length on round 1
	SpikeTimer     float64 // Plant-to-detonation countdown
	PlantTime      float64 // Uninterrupted planting required
	DefuseTime     float64 // Uninterrupted defusing required
	HalfDefuseTime float64 // Checkpoint preserved when defusing is interrupted
	DefuseRange    float64 // Max distance from spike while defusing
}

// DefaultRound returns the default round timing configuration.
func DefaultRound() RoundConfig {
	return RoundConfig{
		RoundTimer:     100,
		BuyTimer:       30,
		FirstBuyTimer:  45,
		SpikeTimer:     45,
		PlantTime:      4,
		DefuseTime:     7,
		HalfDefuseTime: 3.5,
		DefuseRange:    3.0,
	}
}

// RoundFromEnv returns round timing with environment variable overrides.
func RoundFromEnv() RoundConfig {
	cfg := DefaultRound()

	if v := getEnvFloat("ROUND_TIMER", 0); v > 0 {
		cfg.RoundTimer = v
	}
	if v := getEnvFloat("BUY_TIMER", 0); v > 0 {
		cfg.BuyTimer = v
	}
	if v := getEnvFloat("SPIKE_TIMER", 0); v > 0 {
		cfg.SpikeTimer = v
	}
	if v := getEnvFloat("PLANT_TIME", 0); v > 0 {
		cfg.PlantTime = v
	}
	if v := getEnvFloat("DEFUSE_TIME", 0); v > 0 {
		cfg.DefuseTime = v
	}

	return cfg
}

// =============================================================================
// ECONOMY CONFIGURATION
// =============================================================================

// EconomyConfig holds the credit award and buy ladder constants.
type EconomyConfig struct {
	StartingCredits int
	MaxCredits      int
	WinCredits      int
	LossCredits     int // Base loss payout before streak bonus
	LossStreakBonus int // Added per consecutive loss
	LossStreakCap   int // Streak count the bonus stops growing at
	PlantCredits    int
	DefuseCredits   int
	KillCredits     int
	FullBuyFloor    int // Credits needed for rifle + heavy shield
	HalfBuyFloor    int // Credits needed for SMG/light rifle + light shield
	EcoBuyFloor     int // Credits needed for an upgraded pistol
}

// DefaultEconomy returns the default economy configuration.
func DefaultEconomy() EconomyConfig {
	return EconomyConfig{
		StartingCredits: 800,
		MaxCredits:      9000,
		WinCredits:      3000,
		LossCredits:     1900,
		LossStreakBonus: 500,
		LossStreakCap:   4,
		PlantCredits:    300,
		DefuseCredits:   300,
		KillCredits:     200,
		FullBuyFloor:    3900,
		HalfBuyFloor:    2400,
		EcoBuyFloor:     950,
	}
}

// EconomyFromEnv returns economy configuration with environment variable overrides.
func EconomyFromEnv() EconomyConfig {
	cfg := DefaultEconomy()

	if v := getEnvInt("WIN_CREDITS", 0); v > 0 {
		cfg.WinCredits = v
	}
	if v := getEnvInt("LOSS_CREDITS", 0); v > 0 {
		cfg.LossCredits = v
	}
	if v := getEnvInt("KILL_CREDITS", 0); v > 0 {
		cfg.KillCredits = v
	}

	return cfg
}

// =============================================================================
// COMBAT CONFIGURATION
// =============================================================================

// CombatConfig holds the duel and perception tuning constants.
// These are empirically tuned values, not derived ones. Keep them named here
// so simulations can be re-tuned without touching combat code.
type CombatConfig struct {
	FOVDegrees        float64 // Horizontal field of view for vision checks
	FlashedMultiplier float64 // Advantage multiplier while flashed
	SlowedMultiplier  float64 // Advantage multiplier while slowed
	SurpriseBonus     float64 // Advantage multiplier when unspotted
	HeightBonus       float64 // Advantage multiplier with high ground
	MinAdvantage      float64 // Floor applied before the probability draw
	HeadshotChance    float64
	FootstepRange     float64 // Hearing range for moving players
	GunshotRange      float64
	AbilityRange      float64 // Hearing range for ability usage
}

// DefaultCombat returns the default combat configuration.
func DefaultCombat() CombatConfig {
	return CombatConfig{
		FOVDegrees:        110,
		FlashedMultiplier: 0.2,
		SlowedMultiplier:  0.8,
		SurpriseBonus:     1.5,
		HeightBonus:       1.2,
		MinAdvantage:      0.1,
		HeadshotChance:    0.3,
		FootstepRange:     20,
		GunshotRange:      50,
		AbilityRange:      35,
	}
}

// CombatFromEnv returns combat configuration with environment variable overrides.
func CombatFromEnv() CombatConfig {
	cfg := DefaultCombat()

	if v := getEnvFloat("FOV_DEGREES", 0); v > 0 {
		cfg.FOVDegrees = v
	}
	if v := getEnvFloat("SURPRISE_BONUS", 0); v > 0 {
		cfg.SurpriseBonus = v
	}

	return cfg
}

// =============================================================================
// MOVEMENT CONFIGURATION
// =============================================================================

// MovementConfig holds the kinematic constants shared by all players.
type MovementConfig struct {
	RunSpeed           float64 // Units per second
	WalkSpeed          float64
	CrouchSpeed        float64
	AirControl         float64 // Horizontal accel fraction while airborne
	Acceleration       float64
	Friction           float64 // Velocity decay per second with no intent
	Gravity            float64 // Units per second squared
	JumpVelocity       float64
	PlayerRadius       float64
	PlayerHeight       float64
	CrouchHeight       float64
	MaxStepHeight      float64 // Climbable elevation delta without a ramp
	FallDamageMinDist  float64 // Falls below this are free
	FallDamagePerUnit  float64 // Damage per unit fallen past the minimum
}

// DefaultMovement returns the default movement configuration.
func DefaultMovement() MovementConfig {
	return MovementConfig{
		RunSpeed:          5.4,
		WalkSpeed:         2.7,
		CrouchSpeed:       1.8,
		AirControl:        0.3,
		Acceleration:      30.0,
		Friction:          8.0,
		Gravity:           18.0,
		JumpVelocity:      6.0,
		PlayerRadius:      0.4,
		PlayerHeight:      1.8,
		CrouchHeight:      1.2,
		MaxStepHeight:     0.5,
		FallDamageMinDist: 1.5,
		FallDamagePerUnit: 25.0,
	}
}

// =============================================================================
// SERVER CONFIGURATION
// =============================================================================

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port       int
	MaxMatches int // Concurrent matches the API will host
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:       3000,
		MaxMatches: 16,
	}
}

// ServerFromEnv returns server configuration with environment variable overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if m := getEnvInt("MAX_MATCHES", 0); m > 0 {
		cfg.MaxMatches = m
	}

	return cfg
}

// =============================================================================
// COMPLETE APP CONFIGURATION
// =============================================================================

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Engine   EngineConfig
	Round    RoundConfig
	Economy  EconomyConfig
	Combat   CombatConfig
	Movement MovementConfig
	Server   ServerConfig
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Engine:   EngineFromEnv(),
		Round:    RoundFromEnv(),
		Economy:  EconomyFromEnv(),
		Combat:   CombatFromEnv(),
		Movement: DefaultMovement(),
		Server:   ServerFromEnv(),
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}
