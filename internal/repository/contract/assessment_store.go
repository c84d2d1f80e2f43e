package contract

import (
	"context"

	"coding-assessment-be/internal/entity"
)

// AssessmentStore is the persistence collaborator of the orchestrator. Lookups of missing
// records fail with apperror.KindNotFound, a second report with apperror.KindAlreadyExists.
// Interactions are ordered by (timestamp, id).
type AssessmentStore interface {
	CreateSession(ctx context.Context, problemStatement string) (*entity.Session, error)
	GetSession(ctx context.Context, sessionId uint) (*entity.Session, error)
	EndSession(ctx context.Context, sessionId uint) (*entity.Session, error)

	// CreateInteraction stamps the interaction with the current time and assigns its id.
	CreateInteraction(ctx context.Context, sessionId uint, payload entity.InteractionPayload) (*entity.Interaction, error)
	// CreateCodeSnapshotInteraction persists a code-snapshot interaction and its snapshot atomically.
	CreateCodeSnapshotInteraction(ctx context.Context, sessionId uint, code string) (*entity.Interaction, error)
	GetInteraction(ctx context.Context, interactionId uint) (*entity.Interaction, error)
	UpdateInteraction(ctx context.Context, interactionId uint, payload entity.InteractionPayload) (*entity.Interaction, error)
	// GetLastInteraction returns nil without error when the session has no interactions.
	GetLastInteraction(ctx context.Context, sessionId uint) (*entity.Interaction, error)
	// GetLastInteractionWithSnapshot returns nil without error when the session has no snapshot.
	GetLastInteractionWithSnapshot(ctx context.Context, sessionId uint) (*entity.Interaction, error)
	// GetLastSnapshotBefore returns the latest snapshot interaction of the anchor's session
	// that sorts strictly before the anchor, or nil.
	GetLastSnapshotBefore(ctx context.Context, anchor *entity.Interaction) (*entity.Interaction, error)
	ListInteractions(ctx context.Context, sessionId uint) ([]*entity.Interaction, error)

	CreateReport(ctx context.Context, sessionId uint, content string, scores entity.ScoreSummary) (*entity.Report, error)
	GetReport(ctx context.Context, sessionId uint) (*entity.Report, error)
}
