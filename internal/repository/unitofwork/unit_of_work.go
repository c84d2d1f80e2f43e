package unitofwork

import (
	"context"

	"coding-assessment-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	SessionRepository() contract.SessionRepository
	InteractionRepository() contract.InteractionRepository
	CodeSnapshotRepository() contract.CodeSnapshotRepository
	ReportRepository() contract.ReportRepository
}
