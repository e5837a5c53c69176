package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"lumbridge-realm/server/models"
	"lumbridge-realm/server/persistence"
	"lumbridge-realm/server/progression"
)

// PlayerService manages player-related operations.
type PlayerService struct {
	log     zerolog.Logger
	players map[string]*models.Player
	world   *WorldService
	db      persistence.Storage
	mutex   sync.RWMutex
}

// NewPlayerService creates a new player service.
func NewPlayerService(world *WorldService, db persistence.Storage, log zerolog.Logger) *PlayerService {
	return &PlayerService{
		log:     log,
		players: make(map[string]*models.Player),
		world:   world,
		db:      db,
	}
}

// GetOrCreatePlayer gets an existing player or creates a new one. New
// adventurers start at the castle gate with fresh skills; returning ones
// are loaded from storage with levels recomputed from xp.
func (ps *PlayerService) GetOrCreatePlayer(username string) (*models.Player, error) {
	ps.mutex.Lock()
	defer ps.mutex.Unlock()

	for _, player := range ps.players {
		if player.Username == username {
			return player, nil
		}
	}

	player, err := ps.db.LoadPlayerByUsername(username)
	if err != nil {
		player = newPlayer(username)
		if err := ps.db.SavePlayer(player); err != nil {
			return nil, fmt.Errorf("failed to save new player: %w", err)
		}
		ps.log.Info().Str("username", username).Msg("created new player")
	}

	ps.players[player.ID] = player
	ps.world.AddPlayer(player)
	return player, nil
}

func newPlayer(username string) *models.Player {
	skills := models.NewSkillSet()
	hp := skills.Level(progression.SkillHitpoints)
	now := time.Now()
	return &models.Player{
		ID:        uuid.NewString(),
		Username:  username,
		Pos:       PlayerSpawn,
		Skills:    skills,
		Inventory: models.NewInventory(),
		CurrentHP: hp,
		MaxHP:     hp,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// GetPlayer retrieves a player by ID.
func (ps *PlayerService) GetPlayer(playerID string) (*models.Player, error) {
	ps.mutex.RLock()
	defer ps.mutex.RUnlock()

	player, exists := ps.players[playerID]
	if !exists {
		return nil, errors.New("player not found")
	}
	return player, nil
}

// SavePlayer persists a player's current state.
func (ps *PlayerService) SavePlayer(player *models.Player) error {
	player.UpdatedAt = time.Now()
	if err := ps.db.SavePlayer(player); err != nil {
		return fmt.Errorf("failed to save player: %w", err)
	}
	return nil
}

// SaveAll persists every connected player, logging rather than aborting on
// individual failures.
func (ps *PlayerService) SaveAll() {
	ps.mutex.RLock()
	defer ps.mutex.RUnlock()

	for _, player := range ps.players {
		if err := ps.SavePlayer(player); err != nil {
			ps.log.Error().Err(err).Str("username", player.Username).Msg("failed to save player")
		}
	}
}

// RemovePlayer saves and drops a player on disconnect.
func (ps *PlayerService) RemovePlayer(playerID string) {
	ps.mutex.Lock()
	defer ps.mutex.Unlock()

	player, exists := ps.players[playerID]
	if !exists {
		return
	}
	if err := ps.SavePlayer(player); err != nil {
		ps.log.Error().Err(err).Str("username", player.Username).Msg("failed to save player on disconnect")
	}
	delete(ps.players, playerID)
}
