package service

// Notifier pushes messages to the live connection of a session.
// Typically implemented by the WebSocket Hub. Delivery is best-effort: a session without a
// connection simply drops the message.
type Notifier interface {
	Send(sessionId uint, message interface{})
}
