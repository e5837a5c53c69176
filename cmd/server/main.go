package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"lumbridge-realm/server/config"
	"lumbridge-realm/server/handlers"
	"lumbridge-realm/server/loot"
	"lumbridge-realm/server/persistence"
	"lumbridge-realm/server/rng"
	"lumbridge-realm/server/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow connections from any origin during development
		// In production, restrict this to your client's domain
		return true
	},
}

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)

	db, err := newStorage(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize persistence")
	}
	defer db.Close()

	tables, err := newDropTables(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load drop tables")
	}

	seed := cfg.Game.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	src := rng.New(seed)

	// Wire services
	clientManager := handlers.NewClientManager(log)
	notifier := handlers.NewNotifier(clientManager, log)
	worldService := services.NewWorldService(db, src, notifier, tables, log)
	worldService.SetSplash(notifier.Splash)
	playerService := services.NewPlayerService(worldService, db, log)

	go runGameLoop(cfg, worldService, playerService, clientManager, log)

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error().Err(err).Msg("failed to upgrade connection")
			return
		}
		defer conn.Close()

		handlers.HandleClientConnection(conn, playerService, worldService, clientManager, log)
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info().Str("addr", addr).Msg("server starting")
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// runGameLoop advances the simulation at the configured tick rate and
// periodically flushes players and world state to storage.
func runGameLoop(cfg *config.Config, world *services.WorldService, players *services.PlayerService, clients *handlers.ClientManager, log zerolog.Logger) {
	tickInterval := time.Duration(float64(time.Second) / cfg.Server.TickRate)
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	saveInterval := time.Duration(cfg.Storage.SaveInterval) * time.Second
	lastTick := time.Now()
	lastSave := lastTick

	for t := range ticker.C {
		delta := t.Sub(lastTick).Seconds()
		lastTick = t

		world.Update(delta)
		clients.BroadcastWorldUpdates()

		if t.Sub(lastSave) >= saveInterval {
			lastSave = t
			players.SaveAll()
			if err := world.SaveState(); err != nil {
				log.Error().Err(err).Msg("failed to save world state")
			}
		}
	}
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	writer := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	return zerolog.New(writer).Level(lvl).With().Timestamp().Logger()
}

func newStorage(cfg *config.Config, log zerolog.Logger) (persistence.Storage, error) {
	if cfg.Storage.Backend == "postgres" {
		log.Info().Msg("using PostgreSQL persistence")
		return persistence.NewPostgresStore(cfg.Storage.PostgresURL)
	}

	log.Info().Str("file", cfg.Storage.JSONFile).Msg("using JSON persistence")
	return persistence.NewJSONStore(cfg.Storage.JSONFile)
}

// newDropTables loads custom drop tables when configured, otherwise the
// built-in defaults are used.
func newDropTables(cfg *config.Config) (*loot.Tables, error) {
	if cfg.Game.DropTablesFile == "" {
		return nil, nil
	}
	return loot.LoadTables(cfg.Game.DropTablesFile)
}
