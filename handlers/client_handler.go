package handlers

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"lumbridge-realm/server/messages"
	"lumbridge-realm/server/models"
	"lumbridge-realm/server/network"
	"lumbridge-realm/server/services"
)

// ClientHandler manages a single client connection.
type ClientHandler struct {
	log           zerolog.Logger
	conn          *network.Connection
	playerService *services.PlayerService
	worldService  *services.WorldService
	clientManager *ClientManager
	player        *models.Player
}

// HandleClientConnection runs the read loop for a new client connection
// and cleans up world state when it closes.
func HandleClientConnection(wsConn *websocket.Conn, playerService *services.PlayerService, worldService *services.WorldService, clientManager *ClientManager, log zerolog.Logger) {
	conn := network.NewConnection(wsConn, log)
	handler := &ClientHandler{
		log:           log,
		conn:          conn,
		playerService: playerService,
		worldService:  worldService,
		clientManager: clientManager,
	}

	go conn.WritePump()
	conn.ReadPump(handler)

	if handler.player != nil {
		worldService.RemovePlayer(handler.player.ID)
		playerService.RemovePlayer(handler.player.ID)
		clientManager.RemoveClient(handler.player.ID)
		log.Info().Str("username", handler.player.Username).Msg("player disconnected")
		handler.broadcastWorldUpdate()
	}
}

// HandleMessage decodes and dispatches one client message.
func (h *ClientHandler) HandleMessage(conn *network.Connection, message []byte) {
	var baseMsg messages.BaseMessage
	if err := json.Unmarshal(message, &baseMsg); err != nil {
		h.log.Warn().Err(err).Msg("error unmarshaling message")
		return
	}

	switch baseMsg.Type {
	case messages.MessageTypeLogin:
		h.handleLogin(baseMsg.Payload)
	case messages.MessageTypeMove:
		h.handleMove(baseMsg.Payload)
	case messages.MessageTypeChat:
		h.handleChat(baseMsg.Payload)
	case messages.MessageTypeAttack:
		h.handleAttack(baseMsg.Payload)
	case messages.MessageTypeStopCombat:
		h.handleStopCombat()
	case messages.MessageTypeGather:
		h.handleGather(baseMsg.Payload)
	case messages.MessageTypeLootStats:
		h.handleLootStats(baseMsg.Payload)
	default:
		h.log.Warn().Str("type", string(baseMsg.Type)).Msg("unknown message type")
		h.sendError("UNKNOWN_MESSAGE_TYPE", "Unknown message type received")
	}
}

// decode re-marshals an envelope payload into its concrete message type.
func decode(payload interface{}, out interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (h *ClientHandler) handleLogin(payload interface{}) {
	var loginMsg messages.LoginMessage
	if err := decode(payload, &loginMsg); err != nil {
		h.log.Warn().Err(err).Msg("error decoding login message")
		return
	}

	player, err := h.playerService.GetOrCreatePlayer(loginMsg.Username)
	if err != nil {
		h.log.Error().Err(err).Str("username", loginMsg.Username).Msg("login failed")
		h.sendError("LOGIN_FAILED", "Failed to log in")
		return
	}

	h.player = player
	h.clientManager.AddClient(player.ID, h)
	h.log.Info().Str("username", player.Username).Msg("player logged in")

	h.send(messages.MessageTypeLoginSuccess, messages.LoginSuccessMessage{
		PlayerID: player.ID,
		Message:  "Welcome to Lumbridge, " + player.Username + "!",
	})
	h.send(messages.MessageTypeStats, messages.NewStatsMessage(player))
	h.send(messages.MessageTypeInventory, messages.NewInventoryMessage(player))
	h.sendWorldUpdate()
	h.broadcastWorldUpdate()
}

func (h *ClientHandler) handleMove(payload interface{}) {
	if h.player == nil {
		return
	}

	var moveMsg messages.MoveMessage
	if err := decode(payload, &moveMsg); err != nil {
		h.log.Warn().Err(err).Msg("error decoding move message")
		return
	}

	if _, err := h.worldService.MovePlayer(h.player.ID, moveMsg.Direction); err != nil {
		h.sendError("MOVE_FAILED", err.Error())
		return
	}
	h.broadcastWorldUpdate()
}

func (h *ClientHandler) handleChat(payload interface{}) {
	if h.player == nil {
		return
	}

	var chatMsg messages.ChatMessage
	if err := decode(payload, &chatMsg); err != nil {
		h.log.Warn().Err(err).Msg("error decoding chat message")
		return
	}

	chatMsg.Sender = h.player.Username
	chatMsg.Timestamp = time.Now().Unix()
	h.clientManager.BroadcastToAll(messages.BaseMessage{
		Type:    messages.MessageTypeChat,
		Payload: chatMsg,
	})
}

func (h *ClientHandler) handleAttack(payload interface{}) {
	if h.player == nil {
		return
	}

	var attackMsg messages.AttackMessage
	if err := decode(payload, &attackMsg); err != nil {
		h.log.Warn().Err(err).Msg("error decoding attack message")
		return
	}

	if err := h.worldService.Attack(h.player.ID, attackMsg.TargetID); err != nil {
		h.sendError("ATTACK_FAILED", err.Error())
	}
}

func (h *ClientHandler) handleStopCombat() {
	if h.player == nil {
		return
	}
	h.worldService.StopCombat(h.player.ID)
}

func (h *ClientHandler) handleGather(payload interface{}) {
	if h.player == nil {
		return
	}

	var gatherMsg messages.GatherMessage
	if err := decode(payload, &gatherMsg); err != nil {
		h.log.Warn().Err(err).Msg("error decoding gather message")
		return
	}

	if err := h.worldService.GatherNode(h.player.ID, gatherMsg.NodeID); err != nil {
		h.sendError("GATHER_FAILED", err.Error())
	}
}

func (h *ClientHandler) handleLootStats(payload interface{}) {
	if h.player == nil {
		return
	}

	var req messages.LootStatsRequest
	if err := decode(payload, &req); err != nil {
		h.log.Warn().Err(err).Msg("error decoding loot stats request")
		return
	}

	h.send(messages.MessageTypeLootStats, messages.LootStatsMessage{
		Enemy: req.Enemy,
		Stats: h.worldService.LootStats(req.Enemy),
	})
}

// sendWorldUpdate sends the current world state to this player.
func (h *ClientHandler) sendWorldUpdate() {
	if h.player == nil {
		return
	}
	h.send(messages.MessageTypeUpdate, h.worldService.Snapshot(h.player.ID))
}

// broadcastWorldUpdate refreshes the world view of every connected client.
func (h *ClientHandler) broadcastWorldUpdate() {
	h.clientManager.ExecuteOnAllClients(func(client *ClientHandler) {
		client.sendWorldUpdate()
	})
}

func (h *ClientHandler) send(msgType messages.MessageType, payload interface{}) {
	msg := messages.BaseMessage{Type: msgType, Payload: payload}
	if err := h.conn.SendMessage(msg); err != nil {
		h.log.Warn().Err(err).Str("type", string(msgType)).Msg("error sending message")
	}
}

func (h *ClientHandler) sendError(code, message string) {
	h.send(messages.MessageTypeError, messages.ErrorMessage{Code: code, Message: message})
}
