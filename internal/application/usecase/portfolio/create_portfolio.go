package portfolio

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/presssence/presssence-api/adapters/event"
	"github.com/presssence/presssence-api/internal/domain/portfolio"
	"github.com/presssence/presssence-api/pkg/apperror"
	"github.com/presssence/presssence-api/pkg/logger"
)

type CreatePortfolioUseCase struct {
	portfolioRepo portfolio.Repository
	kafkaClient   *event.KafkaProducerClient
	logger        logger.Logger
}

func NewCreatePortfolioUseCase(repo portfolio.Repository, kClient *event.KafkaProducerClient, log logger.Logger) *CreatePortfolioUseCase {
	return &CreatePortfolioUseCase{
		portfolioRepo: repo,
		kafkaClient:   kClient,
		logger:        log,
	}
}

type ProjectInput struct {
	Title       string
	Description string
	Link        string
	Timeline    string
	CoverImage  string
}

type CreatePortfolioInput struct {
	UserID      uuid.UUID
	Username    string
	FullName    string
	Profession  string
	Headline    string
	Theme       string
	Features    []string
	Projects    []ProjectInput
	SocialLinks map[string]string
}

type CreatePortfolioOutput struct {
	Portfolio *portfolio.Portfolio
}

func (uc *CreatePortfolioUseCase) Execute(ctx context.Context, input CreatePortfolioInput) (*CreatePortfolioOutput, error) {

	existing, err := uc.portfolioRepo.FindByUserID(ctx, input.UserID)
	if err != nil && !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflict("portfolio", "userId", input.UserID.String())
	}

	for platform := range input.SocialLinks {
		if !portfolio.ValidPlatform(platform) {
			return nil, apperror.NewInvalidInput("social link validation failed", portfolio.ErrUnknownPlatform)
		}
	}

	now := time.Now().UTC()
	theme := input.Theme
	if theme == "" {
		theme = portfolio.ThemeModern
	}

	p := &portfolio.Portfolio{
		ID:         uuid.New(),
		UserID:     input.UserID,
		Username:   input.Username,
		FullName:   input.FullName,
		Profession: input.Profession,
		Headline:   input.Headline,
		Theme:      theme,
		Features:   input.Features,
		Social:     portfolio.SocialLinks{Links: input.SocialLinks}.Normalize(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	p.Projects = make([]portfolio.Project, len(input.Projects))
	for i, proj := range input.Projects {
		p.Projects[i] = portfolio.Project{
			ID:          uuid.New(),
			PortfolioID: p.ID,
			Title:       proj.Title,
			Description: proj.Description,
			Link:        proj.Link,
			Timeline:    proj.Timeline,
			CoverImage:  proj.CoverImage,
			Position:    i,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	}

	if err := p.Validate(); err != nil {
		return nil, apperror.NewInvalidInput("portfolio validation failed", err)
	}

	if err := uc.portfolioRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	if uc.kafkaClient != nil {
		err := uc.kafkaClient.PublishPortfolioEvent(context.Background(), event.PortfolioEventPayload{
			EventType:   event.PortfolioCreated,
			PortfolioID: p.ID,
			Username:    p.Username,
			SocialLinks: p.Social.Links,
		})
		if err != nil {
			uc.logger.Warn("created portfolio but publish event failed", zap.String("portfolio_id", p.ID.String()), zap.Error(err))
		}
	}

	created, err := uc.portfolioRepo.FindByUsername(ctx, p.Username)
	if err != nil {
		return nil, err
	}
	return &CreatePortfolioOutput{Portfolio: created}, nil
}
