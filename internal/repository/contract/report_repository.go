package contract

import (
	"context"

	"coding-assessment-be/internal/entity"
	"coding-assessment-be/internal/repository/specification"
)

type ReportRepository interface {
	Create(ctx context.Context, report *entity.Report) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Report, error)
}
