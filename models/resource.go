package models

// ResourceType identifies a gatherable node template.
type ResourceType string

const (
	ResourceTree        ResourceType = "tree"
	ResourceOakTree     ResourceType = "oak_tree"
	ResourceCopperRock  ResourceType = "copper_rock"
	ResourceTinRock     ResourceType = "tin_rock"
	ResourceFishingSpot ResourceType = "fishing_spot"
)

// ResourceNode is a world object that can be depleted by gathering and
// respawns after a delta-driven countdown. The world owns the node; the
// gathering resolver only touches its gather-relevant fields.
type ResourceNode struct {
	ID            string       `json:"id"`
	Type          ResourceType `json:"type"`
	Pos           Position     `json:"position"`
	LevelRequired int          `json:"level_required"`
	XPReward      int          `json:"xp_reward"`
	HP            int          `json:"hp"`
	MaxHP         int          `json:"max_hp"`
	Depleted      bool         `json:"depleted"`
	RespawnTimer  float64      `json:"respawn_timer"`
	RespawnDelay  float64      `json:"respawn_delay"`
}

// Deplete marks the node exhausted and arms its respawn countdown.
func (n *ResourceNode) Deplete() {
	n.Depleted = true
	n.RespawnTimer = n.RespawnDelay
}

// Respawn restores the node to its active state.
func (n *ResourceNode) Respawn() {
	n.Depleted = false
	n.HP = n.MaxHP
	n.RespawnTimer = 0
}

// NodeState is the persisted slice of a resource node: enough to round-trip
// depletion across restarts without the world's help.
type NodeState struct {
	HP           int     `json:"hp"`
	Depleted     bool    `json:"depleted"`
	RespawnTimer float64 `json:"respawn_timer"`
}

// State snapshots the node's persistable fields.
func (n *ResourceNode) State() NodeState {
	return NodeState{HP: n.HP, Depleted: n.Depleted, RespawnTimer: n.RespawnTimer}
}

// Restore applies a persisted snapshot back onto the node.
func (n *ResourceNode) Restore(s NodeState) {
	n.HP = s.HP
	n.Depleted = s.Depleted
	n.RespawnTimer = s.RespawnTimer
}
