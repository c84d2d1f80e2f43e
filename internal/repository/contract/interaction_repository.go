package contract

import (
	"context"

	"coding-assessment-be/internal/entity"
	"coding-assessment-be/internal/repository/specification"
)

// InteractionRepository loads interactions together with their code snapshot.
type InteractionRepository interface {
	Create(ctx context.Context, interaction *entity.Interaction) error
	// UpdatePayload rewrites the kind and data of an existing interaction.
	UpdatePayload(ctx context.Context, interaction *entity.Interaction) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Interaction, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Interaction, error)
}

type CodeSnapshotRepository interface {
	Create(ctx context.Context, snapshot *entity.CodeSnapshot) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CodeSnapshot, error)
}
