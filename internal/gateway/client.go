package gateway

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/typeracehq/typerace/internal/services/auth"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound message size
	maxMessageSize = 32 * 1024

	// Buffer size for outgoing messages
	sendBufferSize = 256
)

// Client is the middleman between one websocket connection and the hub.
// The identity is verified once at the handshake and never changes for
// the connection's lifetime.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	identity auth.Identity
	send     chan []byte
	onEvent  func(*Client, Envelope)
	logger   *slog.Logger
}

func newClient(hub *Hub, conn *websocket.Conn, identity auth.Identity, onEvent func(*Client, Envelope), logger *slog.Logger) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		identity: identity,
		send:     make(chan []byte, sendBufferSize),
		onEvent:  onEvent,
		logger:   logger.With(slog.String("user_id", string(identity.UserID))),
	}
}

// Identity returns the verified identity bound to this connection
func (c *Client) Identity() auth.Identity {
	return c.identity
}

// start begins the read and write pumps
func (c *Client) start() {
	go c.writePump()
	go c.readPump()
}

// readPump pumps messages from the websocket connection into the
// gateway's event handler. Events on one connection are handled in
// order; events on different connections run concurrently.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Warn("unexpected websocket close", slog.Any("error", err))
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			c.logger.Warn("malformed message", slog.Any("error", err))
			continue
		}
		c.onEvent(c, env)
	}
}

// writePump pumps messages from the send channel to the websocket
// connection and keeps the connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				// Hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
