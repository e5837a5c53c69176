package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"lumbridge-realm/server/models"
)

// JSONStore handles data persistence using a local JSON file.
type JSONStore struct {
	filePath string
	mutex    sync.RWMutex
	data     *jsonData
}

type jsonData struct {
	Players map[string]*models.Player   `json:"players"`
	Nodes   map[string]models.NodeState `json:"nodes"`
}

// NewJSONStore creates a new JSON storage manager, loading the file if it
// already exists and creating it otherwise.
func NewJSONStore(filePath string) (*JSONStore, error) {
	store := &JSONStore{
		filePath: filePath,
		data: &jsonData{
			Players: make(map[string]*models.Player),
			Nodes:   make(map[string]models.NodeState),
		},
	}

	if _, err := os.Stat(filePath); err == nil {
		if err := store.loadFromFile(); err != nil {
			return nil, fmt.Errorf("failed to load JSON store: %w", err)
		}
	} else {
		if err := store.saveToFile(); err != nil {
			return nil, fmt.Errorf("failed to create JSON store file: %w", err)
		}
	}

	return store, nil
}

func (js *JSONStore) loadFromFile() error {
	js.mutex.Lock()
	defer js.mutex.Unlock()

	file, err := os.ReadFile(js.filePath)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(file, js.data); err != nil {
		return err
	}
	if js.data.Players == nil {
		js.data.Players = make(map[string]*models.Player)
	}
	if js.data.Nodes == nil {
		js.data.Nodes = make(map[string]models.NodeState)
	}
	return nil
}

func (js *JSONStore) saveToFile() error {
	js.mutex.Lock()
	defer js.mutex.Unlock()

	data, err := json.MarshalIndent(js.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(js.filePath, data, 0644)
}

// SavePlayer saves a player to the store.
func (js *JSONStore) SavePlayer(player *models.Player) error {
	js.mutex.Lock()
	js.data.Players[player.ID] = player
	js.mutex.Unlock()

	return js.saveToFile()
}

// LoadPlayer loads a player by ID. Skill levels are recomputed from xp so
// the file can never hand back a drifted pair.
func (js *JSONStore) LoadPlayer(playerID string) (*models.Player, error) {
	js.mutex.RLock()
	defer js.mutex.RUnlock()

	player, exists := js.data.Players[playerID]
	if !exists {
		return nil, fmt.Errorf("player with ID %s not found", playerID)
	}
	normalize(player)
	return player, nil
}

// LoadPlayerByUsername loads a player by username.
func (js *JSONStore) LoadPlayerByUsername(username string) (*models.Player, error) {
	js.mutex.RLock()
	defer js.mutex.RUnlock()

	for _, player := range js.data.Players {
		if player.Username == username {
			normalize(player)
			return player, nil
		}
	}
	return nil, fmt.Errorf("player with username %s not found", username)
}

// SaveNodeStates saves resource node depletion state keyed by node ID.
func (js *JSONStore) SaveNodeStates(states map[string]models.NodeState) error {
	js.mutex.Lock()
	for id, s := range states {
		js.data.Nodes[id] = s
	}
	js.mutex.Unlock()

	return js.saveToFile()
}

// LoadNodeStates loads all persisted resource node states.
func (js *JSONStore) LoadNodeStates() (map[string]models.NodeState, error) {
	js.mutex.RLock()
	defer js.mutex.RUnlock()

	out := make(map[string]models.NodeState, len(js.data.Nodes))
	for id, s := range js.data.Nodes {
		out[id] = s
	}
	return out, nil
}

// Close closes the store (no-op for JSON store).
func (js *JSONStore) Close() error {
	return nil
}

// normalize repairs invariants after deserialization: xp is the source of
// truth for levels, and the inventory must exist.
func normalize(p *models.Player) {
	if p.Skills == nil {
		p.Skills = models.NewSkillSet()
	}
	p.Skills.Normalize()
	if p.Inventory == nil {
		p.Inventory = models.NewInventory()
	}
}
