package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"coding-assessment-be/internal/entity"
	"coding-assessment-be/internal/model"
	"coding-assessment-be/internal/pkg/apperror"
	"coding-assessment-be/internal/repository/unitofwork"
	"coding-assessment-be/pkg/database"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormAssessmentStore(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn, false)
	require.NoError(t, err, "Failed to connect to DB")
	require.NoError(t, gormDB.AutoMigrate(&model.AssessmentSession{}, &model.CodeSnapshot{}, &model.Interaction{}, &model.Report{}))

	store := unitofwork.NewAssessmentStore(unitofwork.NewRepositoryFactory(gormDB))
	ctx := context.Background()

	session, err := store.CreateSession(ctx, "Integration: implement an LRU cache")
	require.NoError(t, err)
	t.Cleanup(func() {
		gormDB.Delete(&model.AssessmentSession{}, session.Id)
	})

	t.Run("Snapshot and question round trip", func(t *testing.T) {
		snap, err := store.CreateCodeSnapshotInteraction(ctx, session.Id, "type LRU struct{}")
		require.NoError(t, err)
		require.NotNil(t, snap.Snapshot)

		asked := entity.QuestionAsked{Question: "How do you evict?", SnapshotInteractionId: &snap.Id}
		question, err := store.CreateInteraction(ctx, session.Id, asked)
		require.NoError(t, err)

		before, err := store.GetLastSnapshotBefore(ctx, question)
		require.NoError(t, err)
		require.NotNil(t, before)
		assert.Equal(t, "type LRU struct{}", before.Snapshot.Code)

		evaluated := asked.Evaluate(entity.Evaluation{Text: "Good", Score: entity.NumericScore(0.9)})
		_, err = store.UpdateInteraction(ctx, question.Id, evaluated)
		require.NoError(t, err)

		got, err := store.GetInteraction(ctx, question.Id)
		require.NoError(t, err)
		assert.Equal(t, entity.InteractionKindEvaluationRecorded, got.Kind())
	})

	t.Run("Report is unique per session", func(t *testing.T) {
		_, err := store.CreateReport(ctx, session.Id, "report", entity.ScoreSummary{AverageScore: 0.9, Scores: []float64{0.9}})
		require.NoError(t, err)

		_, err = store.CreateReport(ctx, session.Id, "again", entity.ScoreSummary{})
		assert.True(t, apperror.Is(err, apperror.KindAlreadyExists))
	})

	t.Run("Missing session", func(t *testing.T) {
		_, err := store.GetSession(ctx, 0)
		assert.True(t, apperror.Is(err, apperror.KindNotFound))
	})
}
