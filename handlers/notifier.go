package handlers

import (
	"github.com/rs/zerolog"

	"lumbridge-realm/server/messages"
	"lumbridge-realm/server/models"
)

// Notifier routes resolver feedback to the owning player's client. It
// implements the combat and gathering Messenger contracts; messages for
// disconnected players are dropped silently.
type Notifier struct {
	cm  *ClientManager
	log zerolog.Logger
}

// NewNotifier creates a notifier over the client registry.
func NewNotifier(cm *ClientManager, log zerolog.Logger) *Notifier {
	return &Notifier{cm: cm, log: log}
}

// AddMessage appends a line to the player's message log.
func (n *Notifier) AddMessage(p *models.Player, text, channel string) {
	client := n.cm.Client(p.ID)
	if client == nil {
		return
	}
	client.send(messages.MessageTypeGameText, messages.GameTextMessage{Text: text, Channel: channel})
}

// UpdateStats pushes a stats panel refresh to the player.
func (n *Notifier) UpdateStats(p *models.Player) {
	client := n.cm.Client(p.ID)
	if client == nil {
		return
	}
	client.send(messages.MessageTypeStats, messages.NewStatsMessage(p))
}

// UpdateInventory pushes an inventory refresh to the player.
func (n *Notifier) UpdateInventory(p *models.Player) {
	client := n.cm.Client(p.ID)
	if client == nil {
		return
	}
	client.send(messages.MessageTypeInventory, messages.NewInventoryMessage(p))
}

// Splash broadcasts a damage splash to every client. Advisory only.
func (n *Notifier) Splash(pos models.Position, amount int) {
	n.cm.BroadcastToAll(messages.BaseMessage{
		Type:    messages.MessageTypeSplash,
		Payload: messages.SplashMessage{X: pos.X, Y: pos.Y, Amount: amount},
	})
}
