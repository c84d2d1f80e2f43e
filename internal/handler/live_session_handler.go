package handler

import (
	"context"

	"coding-assessment-be/internal/entity"
	"coding-assessment-be/internal/pkg/logger"
	"coding-assessment-be/internal/pkg/serverutils"
	"coding-assessment-be/internal/service"
	internalWS "coding-assessment-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// SessionFinder is satisfied by contract.AssessmentStore.
type SessionFinder interface {
	GetSession(ctx context.Context, sessionId uint) (*entity.Session, error)
}

type LiveSessionHandler struct {
	hub      *internalWS.Hub
	router   service.IEventRouter
	sessions SessionFinder
	tokens   *serverutils.SessionTokenIssuer
	logger   logger.ILogger
}

func NewLiveSessionHandler(
	hub *internalWS.Hub,
	router service.IEventRouter,
	sessions SessionFinder,
	tokens *serverutils.SessionTokenIssuer,
	log logger.ILogger,
) *LiveSessionHandler {
	return &LiveSessionHandler{
		hub:      hub,
		router:   router,
		sessions: sessions,
		tokens:   tokens,
		logger:   log,
	}
}

func (h *LiveSessionHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/ws/sessions/:id", serverutils.SessionTokenMiddleware(h.tokens), h.ServeWs)
}

// ServeWs upgrades the request to the live connection of a session. The session token must
// have been issued for the session in the path.
func (h *LiveSessionHandler) ServeWs(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, "Invalid session id"))
	}
	sessionId := uint(id)

	tokenSessionId, ok := c.Locals(serverutils.SessionIdLocal).(uint)
	if !ok || tokenSessionId != sessionId {
		h.logger.Warn("LiveSessionHandler", "Token issued for another session", map[string]interface{}{
			"session_id":       sessionId,
			"token_session_id": tokenSessionId,
		})
		return c.Status(fiber.StatusForbidden).JSON(serverutils.ErrorResponse(fiber.StatusForbidden, "Token does not grant access to this session"))
	}

	if _, err := h.sessions.GetSession(c.UserContext(), sessionId); err != nil {
		return err
	}

	// Upgrade via Fiber WebSocket Middleware
	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("LiveSessionHandler", "Starting WebSocket session", map[string]interface{}{"session_id": sessionId})
			h.hub.Serve(context.Background(), sessionId, conn, h.router.HandleMessage)
			h.logger.Info("LiveSessionHandler", "WebSocket session ended", map[string]interface{}{"session_id": sessionId})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}
