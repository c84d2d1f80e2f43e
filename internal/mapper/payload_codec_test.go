package mapper

import (
	"testing"
	"time"

	"coding-assessment-be/internal/entity"
	"coding-assessment-be/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodePayloadShapes(t *testing.T) {
	snapshotId := uint(3)

	tests := []struct {
		name    string
		payload entity.InteractionPayload
		want    string
	}{
		{"snapshot", entity.CodeSnapshotTaken{}, `{}`},
		{"question", entity.QuestionAsked{Question: "Why?", SnapshotInteractionId: &snapshotId}, `{"question":"Why?","snapshot_interaction_id":3}`},
		{"question without snapshot", entity.QuestionAsked{Question: "Why?"}, `{"question":"Why?"}`},
		{"response", entity.ResponseReceived{Response: "Because", QuestionInteractionId: 4}, `{"response":"Because","question_interaction_id":4}`},
		{
			"evaluated",
			entity.QuestionAsked{Question: "Why?"}.Evaluate(entity.Evaluation{Text: "ok", Score: entity.NumericScore(0.8)}),
			`{"question":"Why?","evaluation":{"text":"ok","score":0.8}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := EncodePayload(tt.payload)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}

func TestDecodeEvaluatedKeepsNonNumericScore(t *testing.T) {
	payload, err := DecodePayload(entity.InteractionKindEvaluationRecorded,
		[]byte(`{"question":"Why?","evaluation":{"text":"ok","score":"n/a"}}`))
	require.NoError(t, err)

	evaluated, ok := payload.(entity.QuestionEvaluated)
	require.True(t, ok)
	assert.Equal(t, "n/a", evaluated.Evaluation.Score.Raw())
	_, err = evaluated.Evaluation.Score.Float64()
	assert.Error(t, err)
}

func TestDecodeUnknownKind(t *testing.T) {
	_, err := DecodePayload("file_upload", []byte(`{}`))
	assert.Error(t, err)
}

func TestInteractionMapping(t *testing.T) {
	m := NewAssessmentMapper()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	in := &entity.Interaction{
		Id:        9,
		SessionId: 2,
		Timestamp: now,
		Payload:   entity.ResponseReceived{Response: "r", QuestionInteractionId: 8},
	}

	mdl, err := m.InteractionToModel(in)
	require.NoError(t, err)
	assert.Equal(t, "response_received", mdl.InteractionType)

	mdl.CodeSnapshot = &model.CodeSnapshot{Id: 1, InteractionId: 9, Code: "x"}
	out, err := m.InteractionToEntity(mdl)
	require.NoError(t, err)
	assert.Equal(t, in.Payload, out.Payload)
	assert.Equal(t, now, out.Timestamp)
	require.NotNil(t, out.Snapshot)
	assert.Equal(t, "x", out.Snapshot.Code)
}

func TestReportMapping(t *testing.T) {
	m := NewAssessmentMapper()

	mdl, err := m.ReportToModel(&entity.Report{SessionId: 1, Content: "done"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"average_score":0,"scores":[]}`, string(mdl.Scores))

	out, err := m.ReportToEntity(mdl)
	require.NoError(t, err)
	assert.Equal(t, "done", out.Content)
	assert.NotNil(t, out.Scores.Scores)
}
