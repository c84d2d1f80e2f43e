package assessment

import (
	"bytes"
	"coding-assessment-be/internal/entity"
	"coding-assessment-be/internal/pkg/apperror"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	fieldEvaluationText = "evaluation_text"
	fieldScore          = "score"
)

// DecodeEvaluation turns raw model output into an Evaluation. Code fences around the JSON
// object are tolerated and the score may be a number or a numeric string.
func DecodeEvaluation(raw string) (entity.Evaluation, error) {
	body := StripCodeFence(raw)

	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	dec.UseNumber()

	var fields map[string]interface{}
	if err := dec.Decode(&fields); err != nil {
		return entity.Evaluation{}, apperror.Validation("evaluation is not a JSON object: %v", err)
	}
	if fields == nil {
		return entity.Evaluation{}, apperror.Validation("evaluation is not a JSON object")
	}

	text, ok := fields[fieldEvaluationText].(string)
	if !ok {
		return entity.Evaluation{}, apperror.Validation("evaluation is missing %q", fieldEvaluationText)
	}

	rawScore, ok := fields[fieldScore]
	if !ok {
		return entity.Evaluation{}, apperror.Validation("evaluation is missing %q", fieldScore)
	}
	score, err := entity.RawScore(rawScore).Float64()
	if err != nil {
		return entity.Evaluation{}, apperror.Validation("evaluation %s: %v", fieldScore, err)
	}

	return entity.Evaluation{Text: text, Score: entity.NumericScore(score)}, nil
}

// DegradedEvaluation is recorded when the model output could not be decoded.
func DegradedEvaluation(err error) entity.Evaluation {
	return entity.Evaluation{
		Text:  fmt.Sprintf("Failed to process evaluation result: %v", err),
		Score: entity.NumericScore(0),
	}
}

// StripCodeFence removes a surrounding ``` or ```json fence.
func StripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop the info string (json, JSON, ...) on the opening line.
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		if info := strings.TrimSpace(s[:nl]); !strings.ContainsAny(info, "{[") {
			s = s[nl+1:]
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
