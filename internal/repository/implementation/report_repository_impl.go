package implementation

import (
	"context"
	"errors"

	"coding-assessment-be/internal/entity"
	"coding-assessment-be/internal/mapper"
	"coding-assessment-be/internal/model"
	"coding-assessment-be/internal/repository/contract"
	"coding-assessment-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ReportRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AssessmentMapper
}

func NewReportRepository(db *gorm.DB) contract.ReportRepository {
	return &ReportRepositoryImpl{
		db:     db,
		mapper: mapper.NewAssessmentMapper(),
	}
}

func (r *ReportRepositoryImpl) Create(ctx context.Context, report *entity.Report) error {
	m, err := r.mapper.ReportToModel(report)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	created, err := r.mapper.ReportToEntity(m)
	if err != nil {
		return err
	}
	*report = *created
	return nil
}

func (r *ReportRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Report, error) {
	var m model.Report
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ReportToEntity(&m)
}
