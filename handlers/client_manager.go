package handlers

import (
	"sync"

	"github.com/rs/zerolog"
)

// ClientManager tracks connected clients by player ID.
type ClientManager struct {
	log     zerolog.Logger
	clients map[string]*ClientHandler
	mutex   sync.RWMutex
}

// NewClientManager creates a new client manager.
func NewClientManager(log zerolog.Logger) *ClientManager {
	return &ClientManager{
		log:     log,
		clients: make(map[string]*ClientHandler),
	}
}

// AddClient registers a client under its player ID.
func (cm *ClientManager) AddClient(playerID string, handler *ClientHandler) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()
	cm.clients[playerID] = handler
}

// RemoveClient removes a client from the manager.
func (cm *ClientManager) RemoveClient(playerID string) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()
	delete(cm.clients, playerID)
}

// Client returns the handler for a player, or nil when not connected.
func (cm *ClientManager) Client(playerID string) *ClientHandler {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()
	return cm.clients[playerID]
}

// BroadcastToAll sends a message to all connected clients.
func (cm *ClientManager) BroadcastToAll(msg interface{}) {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	for id, client := range cm.clients {
		if err := client.conn.SendMessage(msg); err != nil {
			cm.log.Warn().Err(err).Str("player_id", id).Msg("error broadcasting to client")
		}
	}
}

// ExecuteOnAllClients runs a function for each connected client. The
// client list is snapshotted first so callbacks run without the manager
// lock held; a callback may take other locks (the world mutex via
// Snapshot) or re-enter the manager without risking a lock-order cycle
// against the game loop.
func (cm *ClientManager) ExecuteOnAllClients(action func(*ClientHandler)) {
	cm.mutex.RLock()
	clients := make([]*ClientHandler, 0, len(cm.clients))
	for _, client := range cm.clients {
		clients = append(clients, client)
	}
	cm.mutex.RUnlock()

	for _, client := range clients {
		action(client)
	}
}

// BroadcastWorldUpdates refreshes every connected client's world view.
// The game loop calls this after simulation ticks so clients track combat
// and respawns without polling.
func (cm *ClientManager) BroadcastWorldUpdates() {
	cm.ExecuteOnAllClients(func(client *ClientHandler) {
		client.sendWorldUpdate()
	})
}
