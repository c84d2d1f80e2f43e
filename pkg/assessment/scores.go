package assessment

import (
	"coding-assessment-be/internal/entity"
	"fmt"
)

// SkippedScore is a recorded score that could not be coerced to a number.
type SkippedScore struct {
	InteractionId uint
	Raw           interface{}
	Err           error
}

func (s SkippedScore) Error() string {
	return fmt.Sprintf("interaction %d: %v", s.InteractionId, s.Err)
}

// SummarizeScores collects the evaluation score of every interaction, in session order, and
// averages them. The average of no scores is 0.
func SummarizeScores(interactions []*entity.Interaction) (entity.ScoreSummary, []SkippedScore) {
	summary := entity.ScoreSummary{Scores: make([]float64, 0)}
	var skipped []SkippedScore

	var total float64
	for _, interaction := range interactions {
		evaluation, ok := interaction.Evaluation()
		if !ok {
			continue
		}
		value, err := evaluation.Score.Float64()
		if err != nil {
			skipped = append(skipped, SkippedScore{InteractionId: interaction.Id, Raw: evaluation.Score.Raw(), Err: err})
			continue
		}
		summary.Scores = append(summary.Scores, value)
		total += value
	}

	if len(summary.Scores) > 0 {
		summary.AverageScore = total / float64(len(summary.Scores))
	}
	return summary, skipped
}
