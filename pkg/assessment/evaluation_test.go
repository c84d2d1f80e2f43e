package assessment

import (
	"coding-assessment-be/internal/pkg/apperror"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEvaluation(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantText  string
		wantScore float64
	}{
		{"fenced json", "```json\n{\"evaluation_text\":\"ok\",\"score\":0.8}\n```", "ok", 0.8},
		{"bare fence", "```\n{\"evaluation_text\":\"fine\",\"score\":1}\n```", "fine", 1},
		{"plain", `  {"evaluation_text":"good","score":0.25}  `, "good", 0.25},
		{"string score", `{"evaluation_text":"meh","score":"0.4"}`, "meh", 0.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := DecodeEvaluation(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, ev.Text)
			score, err := ev.Score.Float64()
			require.NoError(t, err)
			assert.InDelta(t, tt.wantScore, score, 1e-9)
		})
	}
}

func TestDecodeEvaluationRejects(t *testing.T) {
	inputs := []string{
		"not json",
		"null",
		`["evaluation_text", "score"]`,
		`{"score":0.5}`,
		`{"evaluation_text":"x"}`,
		`{"evaluation_text":"x","score":"high"}`,
		`{"evaluation_text":3,"score":0.5}`,
	}

	for _, raw := range inputs {
		_, err := DecodeEvaluation(raw)
		require.Error(t, err, raw)
		assert.True(t, apperror.Is(err, apperror.KindValidation), raw)
	}
}

func TestDegradedEvaluation(t *testing.T) {
	_, err := DecodeEvaluation("not json")
	require.Error(t, err)

	ev := DegradedEvaluation(err)
	assert.Contains(t, ev.Text, "Failed to process evaluation result: ")
	score, scoreErr := ev.Score.Float64()
	require.NoError(t, scoreErr)
	assert.Equal(t, 0.0, score)

	assert.Equal(t, "Failed to process evaluation result: boom", DegradedEvaluation(errors.New("boom")).Text)
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripCodeFence("```JSON\n{\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, StripCodeFence("```{\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, StripCodeFence(`{"a":1}`))
}
