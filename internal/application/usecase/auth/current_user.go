package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/presssence/presssence-api/internal/domain/portfolio"
	"github.com/presssence/presssence-api/internal/domain/user"
	"github.com/presssence/presssence-api/pkg/apperror"
)

type CurrentUserUseCase struct {
	userRepo      user.Repository
	portfolioRepo portfolio.Repository
}

func NewCurrentUserUseCase(uRepo user.Repository, pRepo portfolio.Repository) *CurrentUserUseCase {
	return &CurrentUserUseCase{userRepo: uRepo, portfolioRepo: pRepo}
}

type CurrentUserInput struct {
	UserID uuid.UUID
}

type CurrentUserOutput struct {
	User      *user.User
	Portfolio *portfolio.Portfolio
}

// Execute returns the caller plus their portfolio when one exists; a user
// who has not finished onboarding yet simply gets a nil portfolio.
func (uc *CurrentUserUseCase) Execute(ctx context.Context, input CurrentUserInput) (*CurrentUserOutput, error) {
	u, err := uc.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	p, err := uc.portfolioRepo.FindByUserID(ctx, input.UserID)
	if err != nil && !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}

	return &CurrentUserOutput{User: u, Portfolio: p}, nil
}
