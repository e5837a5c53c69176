package services

import (
	"lumbridge-realm/server/messages"
	"lumbridge-realm/server/models"
)

const viewRadius = 10

// Snapshot builds the world update visible to one player: everything
// within the view radius plus the surrounding tile window.
func (ws *WorldService) Snapshot(playerID string) *messages.UpdateMessage {
	ws.mu.RLock()
	defer ws.mu.RUnlock()

	player, ok := ws.players[playerID]
	if !ok {
		return &messages.UpdateMessage{}
	}

	update := &messages.UpdateMessage{
		Players:  []messages.PlayerView{},
		Monsters: []messages.MonsterView{},
		Nodes:    []messages.NodeView{},
	}

	for id, p := range ws.players {
		if id == playerID || models.Distance(p.Pos, player.Pos) > viewRadius {
			continue
		}
		update.Players = append(update.Players, messages.PlayerView{
			ID:          p.ID,
			Username:    p.Username,
			X:           p.Pos.X,
			Y:           p.Pos.Y,
			CombatLevel: p.Skills.CombatLevel(),
		})
	}

	for _, m := range ws.monsters {
		if m.Dead || models.Distance(m.Pos, player.Pos) > viewRadius {
			continue
		}
		update.Monsters = append(update.Monsters, messages.MonsterView{
			ID:       m.ID,
			Name:     m.Name,
			X:        m.Pos.X,
			Y:        m.Pos.Y,
			HP:       m.CurrentHP,
			MaxHP:    m.MaxHP,
			InCombat: m.InCombat,
		})
	}

	for _, n := range ws.nodes {
		if models.Distance(n.Pos, player.Pos) > viewRadius {
			continue
		}
		update.Nodes = append(update.Nodes, messages.NodeView{
			ID:       n.ID,
			Type:     string(n.Type),
			X:        n.Pos.X,
			Y:        n.Pos.Y,
			Depleted: n.Depleted,
		})
	}

	update.Map = messages.MapView{
		CenterX: player.Pos.X,
		CenterY: player.Pos.Y,
		Radius:  viewRadius,
		Tiles:   ws.gameMap.View(player.Pos, viewRadius),
	}

	return update
}
