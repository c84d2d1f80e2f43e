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

type CodeSnapshotRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AssessmentMapper
}

func NewCodeSnapshotRepository(db *gorm.DB) contract.CodeSnapshotRepository {
	return &CodeSnapshotRepositoryImpl{
		db:     db,
		mapper: mapper.NewAssessmentMapper(),
	}
}

func (r *CodeSnapshotRepositoryImpl) Create(ctx context.Context, snapshot *entity.CodeSnapshot) error {
	m := r.mapper.SnapshotToModel(snapshot)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*snapshot = *r.mapper.SnapshotToEntity(m)
	return nil
}

func (r *CodeSnapshotRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CodeSnapshot, error) {
	var m model.CodeSnapshot
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.SnapshotToEntity(&m), nil
}
