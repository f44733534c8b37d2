package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"tacsim/internal/api"
	"tacsim/internal/config"
	"tacsim/internal/mapgeo"
	"tacsim/internal/sim"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file from parent directory
	if err := godotenv.Load("../.env"); err != nil {
		// Try current directory as fallback
		if err := godotenv.Load(".env"); err != nil {
			log.Println("no .env file found, using environment variables only")
		}
	} else {
		log.Println("loaded environment from ../.env")
	}

	log.Println("tacsim match server")

	// Load centralized configuration (SSOT - Single Source of Truth)
	appConfig := config.Load()
	serverCfg := appConfig.Server

	// Map catalog: the built-in range plus any documents in MAP_DIR
	maps := map[string]*mapgeo.Map{}
	builtin := mapgeo.DefaultMap()
	maps[builtin.Name] = builtin

	if dir := os.Getenv("MAP_DIR"); dir != "" {
		loaded, err := loadMapDir(dir)
		if err != nil {
			log.Fatalf("loading maps from %s: %v", dir, err)
		}
		for name, m := range loaded {
			maps[name] = m
		}
	}
	log.Printf("hosting %d map(s)", len(maps))

	// Persistent event sink, optional
	var sink *sim.EventLog
	if path := getEnvWithDefault("EVENT_LOG_PATH", ""); path != "" {
		sink = sim.NewEventLog()
		if err := sink.Start(path); err != nil {
			log.Printf("event log disabled: %v", err)
			sink = nil
		} else {
			log.Printf("event log: %s", path)
		}
	}

	// Start debug server
	if os.Getenv("DISABLE_DEBUG_SERVER") != "true" {
		debugCfg := api.DefaultObservabilityConfig()
		if err := api.StartDebugServer(debugCfg); err != nil {
			log.Printf("debug server disabled: %v", err)
		}
	}

	store := api.NewMatchStore(appConfig, maps, sink)
	server := api.NewServer(store)

	port := strconv.Itoa(serverCfg.Port)
	go func() {
		addr := ":" + port
		log.Printf("API server on http://localhost%s", addr)
		if err := server.Start(addr); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("server ready, press Ctrl+C to stop")
	<-quit

	log.Println("shutting down")
	server.Stop()
	if sink != nil {
		sink.Stop()
	}
}

// loadMapDir loads every .yaml map document in a directory, keyed by map
// name.
func loadMapDir(dir string) (map[string]*mapgeo.Map, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	maps := make(map[string]*mapgeo.Map)
	for _, entry := range entries {
		if entry.IsDir() || !isYAML(entry.Name()) {
			continue
		}
		m, err := mapgeo.LoadFile(dir + "/" + entry.Name())
		if err != nil {
			return nil, err
		}
		maps[m.Name] = m
	}
	return maps, nil
}

func isYAML(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}

func getEnvWithDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
