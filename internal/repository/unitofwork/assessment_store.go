package unitofwork

import (
	"context"
	"errors"
	"time"

	"coding-assessment-be/internal/entity"
	"coding-assessment-be/internal/pkg/apperror"
	"coding-assessment-be/internal/repository/contract"
	"coding-assessment-be/internal/repository/specification"

	"gorm.io/gorm"
)

// AssessmentStore implements contract.AssessmentStore on top of the gorm repositories.
type AssessmentStore struct {
	factory RepositoryFactory
	now     func() time.Time
}

var _ contract.AssessmentStore = &AssessmentStore{}

func NewAssessmentStore(factory RepositoryFactory) *AssessmentStore {
	return &AssessmentStore{
		factory: factory,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func translate(err error, action string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound("%s: record not found", action)
	}
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.Upstream(err, "%s", action)
}

func (s *AssessmentStore) CreateSession(ctx context.Context, problemStatement string) (*entity.Session, error) {
	uow := s.factory.NewUnitOfWork(ctx)
	session := &entity.Session{ProblemStatement: problemStatement, StartTime: s.now()}
	if err := uow.SessionRepository().Create(ctx, session); err != nil {
		return nil, translate(err, "create session")
	}
	return session, nil
}

func (s *AssessmentStore) GetSession(ctx context.Context, sessionId uint) (*entity.Session, error) {
	uow := s.factory.NewUnitOfWork(ctx)
	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, translate(err, "get session")
	}
	if session == nil {
		return nil, apperror.NotFound("session %d not found", sessionId)
	}
	return session, nil
}

// EndSession keeps the first end time when called twice.
func (s *AssessmentStore) EndSession(ctx context.Context, sessionId uint) (*entity.Session, error) {
	session, err := s.GetSession(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if session.IsEnded() {
		return session, nil
	}

	now := s.now()
	session.EndTime = &now
	uow := s.factory.NewUnitOfWork(ctx)
	if err := uow.SessionRepository().Update(ctx, session); err != nil {
		return nil, translate(err, "end session")
	}
	return session, nil
}

func (s *AssessmentStore) CreateInteraction(ctx context.Context, sessionId uint, payload entity.InteractionPayload) (*entity.Interaction, error) {
	if _, err := s.GetSession(ctx, sessionId); err != nil {
		return nil, err
	}

	interaction := &entity.Interaction{SessionId: sessionId, Timestamp: s.now(), Payload: payload}
	uow := s.factory.NewUnitOfWork(ctx)
	if err := uow.InteractionRepository().Create(ctx, interaction); err != nil {
		return nil, translate(err, "create interaction")
	}
	return interaction, nil
}

func (s *AssessmentStore) CreateCodeSnapshotInteraction(ctx context.Context, sessionId uint, code string) (result *entity.Interaction, err error) {
	if _, err := s.GetSession(ctx, sessionId); err != nil {
		return nil, err
	}

	uow := s.factory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, translate(err, "begin snapshot transaction")
	}
	defer func() {
		if err != nil {
			_ = uow.Rollback()
		}
	}()

	interaction := &entity.Interaction{SessionId: sessionId, Timestamp: s.now(), Payload: entity.CodeSnapshotTaken{}}
	if err := uow.InteractionRepository().Create(ctx, interaction); err != nil {
		return nil, translate(err, "create snapshot interaction")
	}

	snapshot := &entity.CodeSnapshot{InteractionId: interaction.Id, Code: code, CreatedAt: interaction.Timestamp}
	if err := uow.CodeSnapshotRepository().Create(ctx, snapshot); err != nil {
		return nil, translate(err, "create code snapshot")
	}

	if err := uow.Commit(); err != nil {
		return nil, translate(err, "commit snapshot transaction")
	}

	interaction.Snapshot = snapshot
	return interaction, nil
}

func (s *AssessmentStore) GetInteraction(ctx context.Context, interactionId uint) (*entity.Interaction, error) {
	uow := s.factory.NewUnitOfWork(ctx)
	interaction, err := uow.InteractionRepository().FindOne(ctx, specification.InteractionByID{ID: interactionId})
	if err != nil {
		return nil, translate(err, "get interaction")
	}
	if interaction == nil {
		return nil, apperror.NotFound("interaction %d not found", interactionId)
	}
	return interaction, nil
}

func (s *AssessmentStore) UpdateInteraction(ctx context.Context, interactionId uint, payload entity.InteractionPayload) (*entity.Interaction, error) {
	interaction, err := s.GetInteraction(ctx, interactionId)
	if err != nil {
		return nil, err
	}

	interaction.Payload = payload
	uow := s.factory.NewUnitOfWork(ctx)
	if err := uow.InteractionRepository().UpdatePayload(ctx, interaction); err != nil {
		return nil, translate(err, "update interaction")
	}
	return interaction, nil
}

func (s *AssessmentStore) GetLastInteraction(ctx context.Context, sessionId uint) (*entity.Interaction, error) {
	uow := s.factory.NewUnitOfWork(ctx)
	interaction, err := uow.InteractionRepository().FindOne(ctx,
		specification.InteractionsOfSession{SessionID: sessionId},
		specification.SessionOrder{Desc: true},
	)
	return interaction, translate(err, "get last interaction")
}

func (s *AssessmentStore) GetLastInteractionWithSnapshot(ctx context.Context, sessionId uint) (*entity.Interaction, error) {
	uow := s.factory.NewUnitOfWork(ctx)
	interaction, err := uow.InteractionRepository().FindOne(ctx,
		specification.HasCodeSnapshot{},
		specification.InteractionsOfSession{SessionID: sessionId},
		specification.SessionOrder{Desc: true},
	)
	return interaction, translate(err, "get last snapshot interaction")
}

func (s *AssessmentStore) GetLastSnapshotBefore(ctx context.Context, anchor *entity.Interaction) (*entity.Interaction, error) {
	uow := s.factory.NewUnitOfWork(ctx)
	interaction, err := uow.InteractionRepository().FindOne(ctx,
		specification.HasCodeSnapshot{},
		specification.InteractionsOfSession{SessionID: anchor.SessionId},
		specification.InteractionsBefore{OccurredAt: anchor.Timestamp, ID: anchor.Id},
		specification.SessionOrder{Desc: true},
	)
	return interaction, translate(err, "get snapshot before interaction")
}

func (s *AssessmentStore) ListInteractions(ctx context.Context, sessionId uint) ([]*entity.Interaction, error) {
	uow := s.factory.NewUnitOfWork(ctx)
	interactions, err := uow.InteractionRepository().FindAll(ctx,
		specification.InteractionsOfSession{SessionID: sessionId},
		specification.SessionOrder{},
	)
	if err != nil {
		return nil, translate(err, "list interactions")
	}
	return interactions, nil
}

func (s *AssessmentStore) CreateReport(ctx context.Context, sessionId uint, content string, scores entity.ScoreSummary) (*entity.Report, error) {
	if _, err := s.GetSession(ctx, sessionId); err != nil {
		return nil, err
	}

	uow := s.factory.NewUnitOfWork(ctx)
	existing, err := uow.ReportRepository().FindOne(ctx, specification.BySessionID{SessionID: sessionId})
	if err != nil {
		return nil, translate(err, "check existing report")
	}
	if existing != nil {
		return nil, apperror.AlreadyExists("report for session %d already exists", sessionId)
	}

	report := &entity.Report{SessionId: sessionId, Content: content, Scores: scores, CreatedAt: s.now()}
	if err := uow.ReportRepository().Create(ctx, report); err != nil {
		// A concurrent writer won the unique index on session_id.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.AlreadyExists("report for session %d already exists", sessionId)
		}
		return nil, translate(err, "create report")
	}
	return report, nil
}

func (s *AssessmentStore) GetReport(ctx context.Context, sessionId uint) (*entity.Report, error) {
	uow := s.factory.NewUnitOfWork(ctx)
	report, err := uow.ReportRepository().FindOne(ctx, specification.BySessionID{SessionID: sessionId})
	if err != nil {
		return nil, translate(err, "get report")
	}
	if report == nil {
		return nil, apperror.NotFound("report for session %d not found", sessionId)
	}
	return report, nil
}
