package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"coding-assessment-be/internal/pkg/logger"
	"coding-assessment-be/internal/pkg/serverutils"
	"coding-assessment-be/internal/repository/memory"
	internalWS "coding-assessment-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ignoreMessages struct{}

func (ignoreMessages) HandleMessage(context.Context, uint, []byte) {}

func TestServeWsAuthorization(t *testing.T) {
	store := memory.NewAssessmentStore()
	session, err := store.CreateSession(context.Background(), "P")
	require.NoError(t, err)

	tokens := serverutils.NewSessionTokenIssuer("test-secret", time.Hour)
	log := logger.NewNopLogger()
	h := NewLiveSessionHandler(internalWS.NewHub(log), ignoreMessages{}, store, tokens, log)

	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	h.RegisterRoutes(app.Group("/api"))

	own, err := tokens.Issue(session.Id)
	require.NoError(t, err)
	other, err := tokens.Issue(session.Id + 1)
	require.NoError(t, err)
	ghost, err := tokens.Issue(99)
	require.NoError(t, err)

	cases := []struct {
		name   string
		path   string
		status int
	}{
		{"missing token", "/api/ws/sessions/1", http.StatusUnauthorized},
		{"garbage token", "/api/ws/sessions/1?token=nope", http.StatusUnauthorized},
		{"token of another session", "/api/ws/sessions/1?token=" + other, http.StatusForbidden},
		{"unknown session", "/api/ws/sessions/99?token=" + ghost, http.StatusNotFound},
		{"plain http request", "/api/ws/sessions/1?token=" + own, http.StatusUpgradeRequired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tc.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}
