package messages

import (
	"lumbridge-realm/server/loot"
	"lumbridge-realm/server/models"
	"lumbridge-realm/server/progression"
)

// MessageType defines the type of message being sent.
type MessageType string

const (
	MessageTypeLogin        MessageType = "login"
	MessageTypeLoginSuccess MessageType = "login_success"
	MessageTypeMove         MessageType = "move"
	MessageTypeChat         MessageType = "chat"
	MessageTypeAttack       MessageType = "attack"
	MessageTypeStopCombat   MessageType = "stop_combat"
	MessageTypeGather       MessageType = "gather"
	MessageTypeGameText     MessageType = "game_text"
	MessageTypeStats        MessageType = "stats"
	MessageTypeInventory    MessageType = "inventory"
	MessageTypeSplash       MessageType = "splash"
	MessageTypeUpdate       MessageType = "update"
	MessageTypeLootStats    MessageType = "loot_stats"
	MessageTypeError        MessageType = "error"
)

// BaseMessage is the envelope for all messages.
type BaseMessage struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

// LoginMessage represents a login request.
type LoginMessage struct {
	Username string `json:"username"`
}

// LoginSuccessMessage represents a successful login response.
type LoginSuccessMessage struct {
	PlayerID string `json:"player_id"`
	Message  string `json:"message"`
}

// MoveMessage represents a player movement request. Direction is one of
// the eight compass names.
type MoveMessage struct {
	Direction string `json:"direction"`
}

// ChatMessage represents a chat message.
type ChatMessage struct {
	Sender    string `json:"sender"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// AttackMessage asks to engage a monster.
type AttackMessage struct {
	TargetID string `json:"target_id"`
}

// GatherMessage asks to gather from a resource node.
type GatherMessage struct {
	NodeID string `json:"node_id"`
}

// GameTextMessage is a line for the client's message log.
type GameTextMessage struct {
	Text    string `json:"text"`
	Channel string `json:"channel"`
}

// SkillView is one skill's state as shown in the stats panel.
type SkillView struct {
	Level    int     `json:"level"`
	XP       int     `json:"xp"`
	ToNext   int     `json:"xp_to_next"`
	Progress float64 `json:"progress"`
}

// StatsMessage is a full stats panel refresh.
type StatsMessage struct {
	Skills      map[string]SkillView `json:"skills"`
	CombatLevel int                  `json:"combat_level"`
	CurrentHP   int                  `json:"current_hp"`
	MaxHP       int                  `json:"max_hp"`
	Gold        int                  `json:"gold"`
}

// NewStatsMessage builds the stats view for a player.
func NewStatsMessage(p *models.Player) StatsMessage {
	skills := make(map[string]SkillView, len(p.Skills))
	for name, sk := range p.Skills {
		skills[string(name)] = SkillView{
			Level:    sk.Level,
			XP:       sk.XP,
			ToNext:   progression.XPToNextLevel(sk.XP),
			Progress: progression.ProgressToNextLevel(sk.XP),
		}
	}
	return StatsMessage{
		Skills:      skills,
		CombatLevel: p.Skills.CombatLevel(),
		CurrentHP:   p.CurrentHP,
		MaxHP:       p.MaxHP,
		Gold:        p.Gold,
	}
}

// InventoryMessage is a full inventory refresh.
type InventoryMessage struct {
	Slots []*models.ItemStack `json:"slots"`
	Gold  int                 `json:"gold"`
}

// NewInventoryMessage builds the inventory view for a player.
func NewInventoryMessage(p *models.Player) InventoryMessage {
	return InventoryMessage{Slots: p.Inventory.Slots[:], Gold: p.Gold}
}

// SplashMessage shows a damage splash at a tile.
type SplashMessage struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Amount int `json:"amount"`
}

// PlayerView is another player's visible state.
type PlayerView struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	CombatLevel int    `json:"combat_level"`
}

// MonsterView is a monster's visible state.
type MonsterView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	HP       int    `json:"hp"`
	MaxHP    int    `json:"max_hp"`
	InCombat bool   `json:"in_combat"`
}

// NodeView is a resource node's visible state.
type NodeView struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Depleted bool   `json:"depleted"`
}

// MapView is the tile window around the player.
type MapView struct {
	CenterX int     `json:"center_x"`
	CenterY int     `json:"center_y"`
	Radius  int     `json:"radius"`
	Tiles   [][]int `json:"tiles"`
}

// UpdateMessage represents a world update for one client.
type UpdateMessage struct {
	Players  []PlayerView  `json:"players"`
	Monsters []MonsterView `json:"monsters"`
	Nodes    []NodeView    `json:"nodes"`
	Map      MapView       `json:"map"`
}

// LootStatsRequest asks for loot statistics, optionally per enemy.
type LootStatsRequest struct {
	Enemy string `json:"enemy"`
}

// LootStatsMessage carries aggregated loot statistics.
type LootStatsMessage struct {
	Enemy string     `json:"enemy"`
	Stats loot.Stats `json:"stats"`
}

// ErrorMessage represents an error response.
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
