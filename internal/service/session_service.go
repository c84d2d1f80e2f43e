package service

import (
	"context"
	"encoding/json"
	"time"

	"coding-assessment-be/internal/dto"
	"coding-assessment-be/internal/entity"
	"coding-assessment-be/internal/mapper"
	"coding-assessment-be/internal/pkg/apperror"
	"coding-assessment-be/internal/pkg/logger"
	"coding-assessment-be/internal/repository/contract"
)

const ReportStatusQueued = "queued"

// TokenIssuer signs the access token a client uses to open the live connection of a session.
type TokenIssuer interface {
	Issue(sessionId uint) (string, error)
}

type ISessionService interface {
	Create(ctx context.Context, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	Show(ctx context.Context, sessionId uint) (*dto.SessionResponse, error)
	End(ctx context.Context, sessionId uint) (*dto.SessionResponse, error)
	RequestReport(ctx context.Context, sessionId uint) (*dto.ReportRequestedResponse, error)
	GetReport(ctx context.Context, sessionId uint) (*dto.ReportResponse, error)
}

type sessionService struct {
	store     contract.AssessmentStore
	tokens    TokenIssuer
	publisher IPublisherService
	logger    logger.ILogger
}

func NewSessionService(store contract.AssessmentStore, tokens TokenIssuer, publisher IPublisherService, logger logger.ILogger) ISessionService {
	return &sessionService{
		store:     store,
		tokens:    tokens,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *sessionService) Create(ctx context.Context, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	session, err := s.store.CreateSession(ctx, req.ProblemStatement)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(session.Id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("SessionService", "Session created", map[string]interface{}{"session_id": session.Id})

	return &dto.CreateSessionResponse{
		Id:               session.Id,
		ProblemStatement: session.ProblemStatement,
		StartTime:        session.StartTime,
		AccessToken:      token,
	}, nil
}

func (s *sessionService) Show(ctx context.Context, sessionId uint) (*dto.SessionResponse, error) {
	session, err := s.store.GetSession(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	return s.toSessionResponse(ctx, session)
}

// End is idempotent: an ended session keeps its first end time.
func (s *sessionService) End(ctx context.Context, sessionId uint) (*dto.SessionResponse, error) {
	session, err := s.store.EndSession(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	return s.toSessionResponse(ctx, session)
}

func (s *sessionService) RequestReport(ctx context.Context, sessionId uint) (*dto.ReportRequestedResponse, error) {
	if _, err := s.store.GetSession(ctx, sessionId); err != nil {
		return nil, err
	}

	existing, err := s.store.GetReport(ctx, sessionId)
	if err != nil && !apperror.Is(err, apperror.KindNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.AlreadyExists("report for session %d already exists", sessionId)
	}

	payload, err := json.Marshal(dto.PublishReportRequestMessage{SessionId: sessionId, RequestedAt: time.Now().UTC()})
	if err != nil {
		return nil, err
	}
	if err := s.publisher.Publish(ctx, payload); err != nil {
		return nil, apperror.Upstream(err, "failed to enqueue report for session %d", sessionId)
	}

	s.logger.Info("SessionService", "Report requested", map[string]interface{}{"session_id": sessionId})

	return &dto.ReportRequestedResponse{SessionId: sessionId, Status: ReportStatusQueued}, nil
}

func (s *sessionService) GetReport(ctx context.Context, sessionId uint) (*dto.ReportResponse, error) {
	if _, err := s.store.GetSession(ctx, sessionId); err != nil {
		return nil, err
	}

	report, err := s.store.GetReport(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	return toReportResponse(report), nil
}

func (s *sessionService) toSessionResponse(ctx context.Context, session *entity.Session) (*dto.SessionResponse, error) {
	interactions, err := s.store.ListInteractions(ctx, session.Id)
	if err != nil {
		return nil, err
	}

	res := &dto.SessionResponse{
		Id:               session.Id,
		ProblemStatement: session.ProblemStatement,
		StartTime:        session.StartTime,
		EndTime:          session.EndTime,
		Interactions:     make([]dto.InteractionResponse, 0, len(interactions)),
	}

	for _, interaction := range interactions {
		data, err := mapper.EncodePayload(interaction.Payload)
		if err != nil {
			return nil, err
		}

		item := dto.InteractionResponse{
			Id:              interaction.Id,
			SessionId:       interaction.SessionId,
			Timestamp:       interaction.Timestamp,
			InteractionType: string(interaction.Kind()),
			Data:            data,
		}
		if interaction.HasSnapshot() {
			code := interaction.Snapshot.Code
			item.Code = &code
		}
		res.Interactions = append(res.Interactions, item)
	}

	report, err := s.store.GetReport(ctx, session.Id)
	if err != nil && !apperror.Is(err, apperror.KindNotFound) {
		return nil, err
	}
	if report != nil {
		res.Report = toReportResponse(report)
	}

	return res, nil
}

func toReportResponse(report *entity.Report) *dto.ReportResponse {
	return &dto.ReportResponse{
		Id:        report.Id,
		SessionId: report.SessionId,
		Content:   report.Content,
		Scores: dto.ScoresResponse{
			AverageScore: report.Scores.AverageScore,
			Scores:       report.Scores.Scores,
		},
		CreatedAt: report.CreatedAt,
	}
}
