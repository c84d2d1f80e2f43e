package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"coding-assessment-be/internal/dto"
	"coding-assessment-be/internal/entity"
	"coding-assessment-be/internal/pkg/logger"
	"coding-assessment-be/internal/pkg/serverutils"
	"coding-assessment-be/internal/repository/memory"
	"coding-assessment-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type queuedJobs struct {
	payloads [][]byte
}

func (q *queuedJobs) Publish(_ context.Context, payload []byte) error {
	q.payloads = append(q.payloads, payload)
	return nil
}

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp() (*fiber.App, *memory.AssessmentStore, *queuedJobs, *serverutils.SessionTokenIssuer) {
	store := memory.NewAssessmentStore()
	jobs := &queuedJobs{}
	tokens := serverutils.NewSessionTokenIssuer("test-secret", time.Hour)
	svc := service.NewSessionService(store, tokens, jobs, logger.NewNopLogger())

	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	NewSessionController(svc).RegisterRoutes(app.Group("/api"))
	return app, store, jobs, tokens
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestCreateSession(t *testing.T) {
	app, _, _, tokens := newTestApp()

	status, env := do(t, app, http.MethodPost, "/api/sessions", `{"problem_statement": "FizzBuzz"}`)
	require.Equal(t, http.StatusCreated, status)
	assert.True(t, env.Success)

	var created dto.CreateSessionResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "FizzBuzz", created.ProblemStatement)

	sessionId, err := tokens.Parse(created.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, created.Id, sessionId)
}

func TestCreateSessionValidation(t *testing.T) {
	app, _, _, _ := newTestApp()

	status, env := do(t, app, http.MethodPost, "/api/sessions", `{}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, env.Message, "problem_statement is required")

	status, _ = do(t, app, http.MethodPost, "/api/sessions", `{not json`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestShowAndEndSession(t *testing.T) {
	app, store, _, _ := newTestApp()
	ctx := context.Background()

	session, err := store.CreateSession(ctx, "P")
	require.NoError(t, err)
	_, err = store.CreateCodeSnapshotInteraction(ctx, session.Id, "x = 1")
	require.NoError(t, err)

	status, env := do(t, app, http.MethodGet, "/api/sessions/1", "")
	require.Equal(t, http.StatusOK, status)
	var shown dto.SessionResponse
	require.NoError(t, json.Unmarshal(env.Data, &shown))
	require.Len(t, shown.Interactions, 1)
	assert.Equal(t, "code_snapshot", shown.Interactions[0].InteractionType)
	assert.Nil(t, shown.EndTime)

	status, env = do(t, app, http.MethodPost, "/api/sessions/1/end", "")
	require.Equal(t, http.StatusOK, status)
	var ended dto.SessionResponse
	require.NoError(t, json.Unmarshal(env.Data, &ended))
	assert.NotNil(t, ended.EndTime)

	status, _ = do(t, app, http.MethodGet, "/api/sessions/7", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, app, http.MethodGet, "/api/sessions/abc", "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestReportEndpoints(t *testing.T) {
	app, store, jobs, _ := newTestApp()
	ctx := context.Background()

	session, err := store.CreateSession(ctx, "P")
	require.NoError(t, err)

	status, _ := do(t, app, http.MethodGet, "/api/sessions/1/report", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, env := do(t, app, http.MethodPost, "/api/sessions/1/report", "")
	require.Equal(t, http.StatusAccepted, status)
	assert.Equal(t, http.StatusAccepted, env.Code)
	assert.Len(t, jobs.payloads, 1)

	_, err = store.CreateReport(ctx, session.Id, "Solid work", entity.ScoreSummary{AverageScore: 0.75, Scores: []float64{0.5, 1}})
	require.NoError(t, err)

	status, env = do(t, app, http.MethodGet, "/api/sessions/1/report", "")
	require.Equal(t, http.StatusOK, status)
	var report dto.ReportResponse
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, "Solid work", report.Content)
	assert.InDelta(t, 0.75, report.Scores.AverageScore, 1e-9)

	status, _ = do(t, app, http.MethodPost, "/api/sessions/1/report", "")
	assert.Equal(t, http.StatusConflict, status)
	assert.Len(t, jobs.payloads, 1)
}
