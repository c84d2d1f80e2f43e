package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"coding-assessment-be/internal/pkg/logger"
)

// Hub maps each session to its single live connection.
type Hub struct {
	// Registered clients map: SessionId -> Client
	clients map[uint]*Client

	// Lock for safe map access
	mu sync.RWMutex

	// Dedicated Logger
	logger logger.ILogger
}

func NewHub(log logger.ILogger) *Hub {
	return &Hub{
		clients: make(map[uint]*Client),
		logger:  log,
	}
}

// Connect registers conn as the session's connection. A previous connection of the same
// session is closed.
func (h *Hub) Connect(sessionId uint, conn Conn) *Client {
	client := newClient(h, conn, sessionId)

	h.mu.Lock()
	previous, replaced := h.clients[sessionId]
	h.clients[sessionId] = client
	if replaced {
		previous.closeSend()
	}
	h.mu.Unlock()

	if replaced {
		h.logger.Warn("Hub", "Session reconnected, closing previous connection", map[string]interface{}{"session_id": sessionId})
	}
	h.logger.Info("Hub", "Client registered", map[string]interface{}{"session_id": sessionId})
	return client
}

// Disconnect drops client. It is a no-op when client was already replaced or removed.
func (h *Hub) Disconnect(client *Client) {
	h.mu.Lock()
	current, ok := h.clients[client.SessionId]
	if ok && current == client {
		delete(h.clients, client.SessionId)
	}
	client.closeSend()
	h.mu.Unlock()

	if ok && current == client {
		h.logger.Info("Hub", "Client unregistered", map[string]interface{}{"session_id": client.SessionId})
	}
}

// Send queues message for the session's connection. Delivery is best-effort: a missing
// connection or a full buffer drops the message.
func (h *Hub) Send(sessionId uint, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("Hub", "Failed to encode outbound message", map[string]interface{}{"session_id": sessionId, "error": err.Error()})
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	client, ok := h.clients[sessionId]
	if !ok {
		h.logger.Warn("Hub", "No live connection for session, dropping message", map[string]interface{}{"session_id": sessionId})
		return
	}

	select {
	case client.send <- data:
	default:
		h.logger.Warn("Hub", "Client Send buffer full, dropping message", map[string]interface{}{"session_id": sessionId})
	}
}

func (h *Hub) IsConnected(sessionId uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[sessionId]
	return ok
}

// MessageHandler processes one inbound message of a session.
type MessageHandler func(ctx context.Context, sessionId uint, raw []byte)

// Serve runs the connection until it closes. Inbound messages are handled one at a time in
// arrival order. Serve returns only once no pump uses conn any more, so the caller may
// release it.
func (h *Hub) Serve(ctx context.Context, sessionId uint, conn Conn, handle MessageHandler) {
	client := h.Connect(sessionId, conn)

	go client.writePump()
	go client.handlePump(ctx, handle)
	client.readPump()
}
