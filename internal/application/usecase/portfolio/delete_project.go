package portfolio

import (
	"context"

	"github.com/google/uuid"

	"github.com/presssence/presssence-api/internal/domain/portfolio"
	"github.com/presssence/presssence-api/pkg/apperror"
)

type DeleteProjectUseCase struct {
	portfolioRepo portfolio.Repository
}

func NewDeleteProjectUseCase(repo portfolio.Repository) *DeleteProjectUseCase {
	return &DeleteProjectUseCase{portfolioRepo: repo}
}

type DeleteProjectInput struct {
	ProjectID uuid.UUID
	CallerID  uuid.UUID
}

// Execute removes one project. Unknown project is not-found; a project owned
// by someone else is forbidden, never conflated.
func (uc *DeleteProjectUseCase) Execute(ctx context.Context, input DeleteProjectInput) error {
	_, ownerID, err := uc.portfolioRepo.FindProjectOwner(ctx, input.ProjectID)
	if err != nil {
		return err
	}
	if ownerID != input.CallerID {
		return apperror.NewPermissionDenied("caller does not own this project")
	}
	return uc.portfolioRepo.DeleteProject(ctx, input.ProjectID)
}
