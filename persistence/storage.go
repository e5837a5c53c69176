package persistence

import "lumbridge-realm/server/models"

// Storage defines the interface for data persistence. Implementations
// must round-trip the per-skill {level, xp} pairs and resource-node
// depletion state; levels are recomputed from xp after loading.
type Storage interface {
	SavePlayer(player *models.Player) error
	LoadPlayer(playerID string) (*models.Player, error)
	LoadPlayerByUsername(username string) (*models.Player, error)
	SaveNodeStates(states map[string]models.NodeState) error
	LoadNodeStates() (map[string]models.NodeState, error)
	Close() error
}
