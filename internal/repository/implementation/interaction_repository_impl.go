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

type InteractionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AssessmentMapper
}

func NewInteractionRepository(db *gorm.DB) contract.InteractionRepository {
	return &InteractionRepositoryImpl{
		db:     db,
		mapper: mapper.NewAssessmentMapper(),
	}
}

func (r *InteractionRepositoryImpl) query(ctx context.Context, specs ...specification.Specification) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&model.Interaction{}).Preload("CodeSnapshot")
	return applySpecifications(db, specs...)
}

func (r *InteractionRepositoryImpl) Create(ctx context.Context, interaction *entity.Interaction) error {
	m, err := r.mapper.InteractionToModel(interaction)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Omit("CodeSnapshot").Create(m).Error; err != nil {
		return err
	}
	interaction.Id = m.Id
	return nil
}

func (r *InteractionRepositoryImpl) UpdatePayload(ctx context.Context, interaction *entity.Interaction) error {
	m, err := r.mapper.InteractionToModel(interaction)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&model.Interaction{}).
		Where("id = ?", interaction.Id).
		Updates(map[string]interface{}{
			"interaction_type": m.InteractionType,
			"data":             m.Data,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *InteractionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Interaction, error) {
	var m model.Interaction
	if err := r.query(ctx, specs...).Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.InteractionToEntity(&m)
}

func (r *InteractionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Interaction, error) {
	var models []*model.Interaction
	if err := r.query(ctx, specs...).Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.InteractionsToEntities(models)
}
