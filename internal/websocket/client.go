package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize    = 512 * 1024
	sendBufferSize    = 256
	inboundBufferSize = 64
)

// Conn is the part of *websocket.Conn the hub uses.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	hub *Hub

	// The websocket connection.
	conn Conn

	// SessionId associated with this connection
	SessionId uint

	// Buffered channel of outbound messages.
	send      chan []byte
	closeOnce sync.Once

	// Inbound messages waiting for the handler. Only readPump writes and closes it.
	inbound chan []byte

	// Closed when writePump has stopped touching the connection.
	done chan struct{}
}

func newClient(hub *Hub, conn Conn, sessionId uint) *Client {
	return &Client{
		hub:       hub,
		conn:      conn,
		SessionId: sessionId,
		send:      make(chan []byte, sendBufferSize),
		inbound:   make(chan []byte, inboundBufferSize),
		done:      make(chan struct{}),
	}
}

// closeSend must be called with the hub lock held.
func (c *Client) closeSend() {
	c.closeOnce.Do(func() { close(c.send) })
}

// readPump pumps messages from the websocket connection to handlePump. It keeps reading while
// a message is being handled, so a closed connection leaves the hub at once. It returns only
// after writePump has released the connection.
func (c *Client) readPump() {
	defer func() {
		c.hub.Disconnect(c)
		close(c.inbound)
		<-c.done
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		messageType, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("Client", "Unexpected close", map[string]interface{}{"session_id": c.SessionId, "error": err.Error()})
			}
			return
		}
		if messageType != websocket.TextMessage && messageType != websocket.BinaryMessage {
			continue
		}
		select {
		case c.inbound <- raw:
		case <-c.done:
			// writePump gave up on the connection (replaced, or a write or ping failed).
			return
		}
	}
}

// handlePump hands inbound messages to handle one at a time in arrival order. It never
// touches the connection and may outlive it; replies of a finished flow are dropped by the hub.
func (c *Client) handlePump(ctx context.Context, handle MessageHandler) {
	for raw := range c.inbound {
		handle(ctx, c.SessionId, raw)
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		close(c.done)
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// One frame per message, clients parse each frame as a single JSON object.
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.hub.logger.Warn("Client", "Write failed", map[string]interface{}{"session_id": c.SessionId, "error": err.Error()})
				c.hub.Disconnect(c)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.hub.Disconnect(c)
				return
			}
		}
	}
}
