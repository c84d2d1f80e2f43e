package memory

import (
	"context"
	"testing"
	"time"

	"coding-assessment-be/internal/entity"
	"coding-assessment-be/internal/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// frozenClock returns the same instant for every call so ordering falls back to ids.
func frozenClock() func() time.Time {
	t := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time { return t }
}

func TestAssessmentStore_SessionLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewAssessmentStore()

	session, err := store.CreateSession(ctx, "Reverse a linked list")
	require.NoError(t, err)
	assert.Equal(t, uint(1), session.Id)
	assert.Nil(t, session.EndTime)

	ended, err := store.EndSession(ctx, session.Id)
	require.NoError(t, err)
	require.NotNil(t, ended.EndTime)

	again, err := store.EndSession(ctx, session.Id)
	require.NoError(t, err)
	assert.Equal(t, *ended.EndTime, *again.EndTime)

	_, err = store.GetSession(ctx, 99)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestAssessmentStore_ReadsReturnCopies(t *testing.T) {
	ctx := context.Background()
	store := NewAssessmentStore()
	session, _ := store.CreateSession(ctx, "p")

	snap, err := store.CreateCodeSnapshotInteraction(ctx, session.Id, "a := 1")
	require.NoError(t, err)
	snap.Snapshot.Code = "mutated"

	got, err := store.GetInteraction(ctx, snap.Id)
	require.NoError(t, err)
	assert.Equal(t, "a := 1", got.Snapshot.Code)
}

func TestAssessmentStore_SnapshotLookups(t *testing.T) {
	ctx := context.Background()
	store := NewAssessmentStoreWithClock(frozenClock())
	session, _ := store.CreateSession(ctx, "p")

	last, err := store.GetLastInteractionWithSnapshot(ctx, session.Id)
	require.NoError(t, err)
	assert.Nil(t, last)

	first, _ := store.CreateCodeSnapshotInteraction(ctx, session.Id, "v1")
	question, _ := store.CreateInteraction(ctx, session.Id, entity.QuestionAsked{Question: "why?"})
	second, _ := store.CreateCodeSnapshotInteraction(ctx, session.Id, "v2")

	last, err = store.GetLastInteractionWithSnapshot(ctx, session.Id)
	require.NoError(t, err)
	assert.Equal(t, second.Id, last.Id)

	before, err := store.GetLastSnapshotBefore(ctx, question)
	require.NoError(t, err)
	require.NotNil(t, before)
	assert.Equal(t, first.Id, before.Id)
	assert.Equal(t, "v1", before.Snapshot.Code)

	none, err := store.GetLastSnapshotBefore(ctx, first)
	require.NoError(t, err)
	assert.Nil(t, none)

	latest, err := store.GetLastInteraction(ctx, session.Id)
	require.NoError(t, err)
	assert.Equal(t, second.Id, latest.Id)
}

func TestAssessmentStore_UpdateInteractionReplacesPayload(t *testing.T) {
	ctx := context.Background()
	store := NewAssessmentStore()
	session, _ := store.CreateSession(ctx, "p")

	asked := entity.QuestionAsked{Question: "why?"}
	q, _ := store.CreateInteraction(ctx, session.Id, asked)

	updated, err := store.UpdateInteraction(ctx, q.Id, asked.Evaluate(entity.Evaluation{Text: "ok", Score: entity.NumericScore(0.7)}))
	require.NoError(t, err)
	assert.Equal(t, entity.InteractionKindEvaluationRecorded, updated.Kind())

	_, err = store.UpdateInteraction(ctx, 42, asked)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = store.CreateInteraction(ctx, session.Id, nil)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestAssessmentStore_ListInteractionsIsOrdered(t *testing.T) {
	ctx := context.Background()
	store := NewAssessmentStoreWithClock(frozenClock())
	session, _ := store.CreateSession(ctx, "p")
	other, _ := store.CreateSession(ctx, "q")

	a, _ := store.CreateCodeSnapshotInteraction(ctx, session.Id, "x")
	_, _ = store.CreateCodeSnapshotInteraction(ctx, other.Id, "y")
	b, _ := store.CreateInteraction(ctx, session.Id, entity.QuestionAsked{Question: "q"})

	list, err := store.ListInteractions(ctx, session.Id)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, a.Id, list[0].Id)
	assert.Equal(t, b.Id, list[1].Id)

	_, err = store.CreateInteraction(ctx, 77, entity.QuestionAsked{Question: "q"})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestAssessmentStore_ReportIsUniquePerSession(t *testing.T) {
	ctx := context.Background()
	store := NewAssessmentStore()
	session, _ := store.CreateSession(ctx, "p")

	_, err := store.GetReport(ctx, session.Id)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	report, err := store.CreateReport(ctx, session.Id, "report", entity.ScoreSummary{AverageScore: 0.5, Scores: []float64{0.5}})
	require.NoError(t, err)
	assert.Equal(t, session.Id, report.SessionId)

	_, err = store.CreateReport(ctx, session.Id, "again", entity.ScoreSummary{})
	assert.True(t, apperror.Is(err, apperror.KindAlreadyExists))

	got, err := store.GetReport(ctx, session.Id)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5}, got.Scores.Scores)
}
