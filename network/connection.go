package network

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait      = 10 * time.Second
	sendBufferSize = 256
)

// Connection wraps the WebSocket connection with an outgoing buffer.
type Connection struct {
	ws   *websocket.Conn
	send chan []byte
	log  zerolog.Logger
}

// NewConnection creates a new connection wrapper.
func NewConnection(ws *websocket.Conn, log zerolog.Logger) *Connection {
	return &Connection{
		ws:   ws,
		send: make(chan []byte, sendBufferSize),
		log:  log,
	}
}

// MessageHandler handles decoded client messages.
type MessageHandler interface {
	HandleMessage(conn *Connection, message []byte)
}

// ReadPump reads messages from the WebSocket connection until it closes.
func (c *Connection) ReadPump(h MessageHandler) {
	defer c.ws.Close()

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn().Err(err).Msg("error reading message")
			}
			break
		}
		h.HandleMessage(c, message)
	}
}

// WritePump writes queued messages to the WebSocket connection.
func (c *Connection) WritePump() {
	defer c.ws.Close()

	for message := range c.send {
		c.ws.SetWriteDeadline(time.Now().Add(writeWait))
		w, err := c.ws.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		if _, err := w.Write(message); err != nil {
			return
		}
		if err := w.Close(); err != nil {
			return
		}
	}
	c.ws.WriteMessage(websocket.CloseMessage, []byte{})
}

// SendMessage marshals and queues a message for the client. A full send
// buffer closes the connection rather than blocking the game loop.
func (c *Connection) SendMessage(msg interface{}) error {
	messageBytes, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	select {
	case c.send <- messageBytes:
	default:
		c.ws.Close()
	}
	return nil
}
