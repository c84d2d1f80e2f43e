package mapper

import (
	"encoding/json"
	"fmt"

	"coding-assessment-be/internal/entity"
)

type evaluationJSON struct {
	Text  string       `json:"text"`
	Score entity.Score `json:"score"`
}

type questionJSON struct {
	Question              string          `json:"question"`
	SnapshotInteractionId *uint           `json:"snapshot_interaction_id,omitempty"`
	Evaluation            *evaluationJSON `json:"evaluation,omitempty"`
}

type responseJSON struct {
	Response              string `json:"response"`
	QuestionInteractionId uint   `json:"question_interaction_id"`
}

// EncodePayload renders an interaction payload as the JSON object stored in the
// interaction's data column.
func EncodePayload(payload entity.InteractionPayload) ([]byte, error) {
	switch p := payload.(type) {
	case entity.CodeSnapshotTaken:
		return []byte("{}"), nil
	case entity.QuestionAsked:
		return json.Marshal(questionJSON{Question: p.Question, SnapshotInteractionId: p.SnapshotInteractionId})
	case entity.QuestionEvaluated:
		return json.Marshal(questionJSON{
			Question:              p.Question,
			SnapshotInteractionId: p.SnapshotInteractionId,
			Evaluation:            &evaluationJSON{Text: p.Evaluation.Text, Score: p.Evaluation.Score},
		})
	case entity.ResponseReceived:
		return json.Marshal(responseJSON{Response: p.Response, QuestionInteractionId: p.QuestionInteractionId})
	case nil:
		return nil, fmt.Errorf("interaction payload is missing")
	default:
		return nil, fmt.Errorf("unsupported interaction payload %T", payload)
	}
}

func DecodePayload(kind entity.InteractionKind, data []byte) (entity.InteractionPayload, error) {
	switch kind {
	case entity.InteractionKindCodeSnapshot:
		return entity.CodeSnapshotTaken{}, nil
	case entity.InteractionKindQuestionAsked, entity.InteractionKindEvaluationRecorded:
		var q questionJSON
		if err := json.Unmarshal(data, &q); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", kind, err)
		}
		asked := entity.QuestionAsked{Question: q.Question, SnapshotInteractionId: q.SnapshotInteractionId}
		if q.Evaluation == nil {
			return asked, nil
		}
		return asked.Evaluate(entity.Evaluation{Text: q.Evaluation.Text, Score: q.Evaluation.Score}), nil
	case entity.InteractionKindResponseReceived:
		var r responseJSON
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", kind, err)
		}
		return entity.ResponseReceived{Response: r.Response, QuestionInteractionId: r.QuestionInteractionId}, nil
	default:
		return nil, fmt.Errorf("unknown interaction type %q", kind)
	}
}
