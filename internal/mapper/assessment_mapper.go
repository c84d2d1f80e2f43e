package mapper

import (
	"encoding/json"
	"fmt"

	"coding-assessment-be/internal/entity"
	"coding-assessment-be/internal/model"

	"gorm.io/datatypes"
)

type AssessmentMapper struct{}

func NewAssessmentMapper() *AssessmentMapper {
	return &AssessmentMapper{}
}

// Session Mappers

func (m *AssessmentMapper) SessionToEntity(s *model.AssessmentSession) *entity.Session {
	if s == nil {
		return nil
	}
	return &entity.Session{
		Id:               s.Id,
		ProblemStatement: s.ProblemStatement,
		StartTime:        s.StartTime,
		EndTime:          s.EndTime,
	}
}

func (m *AssessmentMapper) SessionToModel(s *entity.Session) *model.AssessmentSession {
	if s == nil {
		return nil
	}
	return &model.AssessmentSession{
		Id:               s.Id,
		ProblemStatement: s.ProblemStatement,
		StartTime:        s.StartTime,
		EndTime:          s.EndTime,
	}
}

// Interaction Mappers

func (m *AssessmentMapper) InteractionToEntity(i *model.Interaction) (*entity.Interaction, error) {
	if i == nil {
		return nil, nil
	}

	payload, err := DecodePayload(entity.InteractionKind(i.InteractionType), i.Data)
	if err != nil {
		return nil, fmt.Errorf("interaction %d: %w", i.Id, err)
	}

	return &entity.Interaction{
		Id:        i.Id,
		SessionId: i.SessionId,
		Timestamp: i.OccurredAt,
		Payload:   payload,
		Snapshot:  m.SnapshotToEntity(i.CodeSnapshot),
	}, nil
}

func (m *AssessmentMapper) InteractionsToEntities(models []*model.Interaction) ([]*entity.Interaction, error) {
	entities := make([]*entity.Interaction, 0, len(models))
	for _, i := range models {
		e, err := m.InteractionToEntity(i)
		if err != nil {
			return nil, err
		}
		entities = append(entities, e)
	}
	return entities, nil
}

// InteractionToModel leaves CodeSnapshot empty; snapshots are written by their own repository.
func (m *AssessmentMapper) InteractionToModel(i *entity.Interaction) (*model.Interaction, error) {
	if i == nil {
		return nil, nil
	}

	data, err := EncodePayload(i.Payload)
	if err != nil {
		return nil, err
	}

	return &model.Interaction{
		Id:              i.Id,
		SessionId:       i.SessionId,
		OccurredAt:      i.Timestamp,
		InteractionType: string(i.Kind()),
		Data:            datatypes.JSON(data),
	}, nil
}

// Code Snapshot Mappers

func (m *AssessmentMapper) SnapshotToEntity(s *model.CodeSnapshot) *entity.CodeSnapshot {
	if s == nil {
		return nil
	}
	return &entity.CodeSnapshot{
		Id:            s.Id,
		InteractionId: s.InteractionId,
		Code:          s.Code,
		CreatedAt:     s.CreatedAt,
	}
}

func (m *AssessmentMapper) SnapshotToModel(s *entity.CodeSnapshot) *model.CodeSnapshot {
	if s == nil {
		return nil
	}
	return &model.CodeSnapshot{
		Id:            s.Id,
		InteractionId: s.InteractionId,
		Code:          s.Code,
		CreatedAt:     s.CreatedAt,
	}
}

// Report Mappers

type scoresJSON struct {
	AverageScore float64   `json:"average_score"`
	Scores       []float64 `json:"scores"`
}

func (m *AssessmentMapper) ReportToEntity(r *model.Report) (*entity.Report, error) {
	if r == nil {
		return nil, nil
	}

	summary := entity.ScoreSummary{Scores: make([]float64, 0)}
	if len(r.Scores) > 0 {
		var s scoresJSON
		if err := json.Unmarshal(r.Scores, &s); err != nil {
			return nil, fmt.Errorf("report %d scores: %w", r.Id, err)
		}
		summary.AverageScore = s.AverageScore
		if s.Scores != nil {
			summary.Scores = s.Scores
		}
	}

	return &entity.Report{
		Id:        r.Id,
		SessionId: r.SessionId,
		Content:   r.Content,
		Scores:    summary,
		CreatedAt: r.CreatedAt,
	}, nil
}

func (m *AssessmentMapper) ReportToModel(r *entity.Report) (*model.Report, error) {
	if r == nil {
		return nil, nil
	}

	scores := r.Scores.Scores
	if scores == nil {
		scores = make([]float64, 0)
	}
	data, err := json.Marshal(scoresJSON{AverageScore: r.Scores.AverageScore, Scores: scores})
	if err != nil {
		return nil, err
	}

	return &model.Report{
		Id:        r.Id,
		SessionId: r.SessionId,
		Content:   r.Content,
		Scores:    datatypes.JSON(data),
		CreatedAt: r.CreatedAt,
	}, nil
}
