package contract

import (
	"context"

	"coding-assessment-be/internal/entity"
)

// HistoryRepository stores the model-facing transcript of a session, oldest first.
type HistoryRepository interface {
	Append(ctx context.Context, sessionId uint, message entity.HistoryMessage) error
	List(ctx context.Context, sessionId uint) ([]entity.HistoryMessage, error)
}
