package portfolio

import (
	"context"

	"github.com/presssence/presssence-api/internal/domain/portfolio"
)

type GetPortfolioUseCase struct {
	portfolioRepo portfolio.Repository
}

func NewGetPortfolioUseCase(repo portfolio.Repository) *GetPortfolioUseCase {
	return &GetPortfolioUseCase{portfolioRepo: repo}
}

type GetPortfolioInput struct {
	Username string
}

type GetPortfolioOutput struct {
	Portfolio *portfolio.Portfolio
}

func (uc *GetPortfolioUseCase) Execute(ctx context.Context, input GetPortfolioInput) (*GetPortfolioOutput, error) {
	p, err := uc.portfolioRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	return &GetPortfolioOutput{Portfolio: p}, nil
}
