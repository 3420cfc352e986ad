package portfolio

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/presssence/presssence-api/adapters/event"
	"github.com/presssence/presssence-api/internal/domain/portfolio"
	"github.com/presssence/presssence-api/pkg/apperror"
	"github.com/presssence/presssence-api/pkg/logger"
)

var tracer = otel.Tracer("portfolio_usecase")

// UpdatePortfolioUseCase is the authoritative merge point for all portfolio
// mutations: ownership check first, then one transactional merge, then the
// canonical re-read the client reconciles against.
type UpdatePortfolioUseCase struct {
	portfolioRepo portfolio.Repository
	kafkaClient   *event.KafkaProducerClient
	mergeStrategy string
	logger        logger.Logger
}

func NewUpdatePortfolioUseCase(repo portfolio.Repository, kClient *event.KafkaProducerClient, mergeStrategy string, log logger.Logger) *UpdatePortfolioUseCase {
	return &UpdatePortfolioUseCase{
		portfolioRepo: repo,
		kafkaClient:   kClient,
		mergeStrategy: mergeStrategy,
		logger:        log,
	}
}

type UpdatePortfolioInput struct {
	CallerID uuid.UUID
	Username string
	Patches  []portfolio.Patch
}

type UpdatePortfolioOutput struct {
	Portfolio *portfolio.Portfolio
}

func (uc *UpdatePortfolioUseCase) Execute(ctx context.Context, input UpdatePortfolioInput) (*UpdatePortfolioOutput, error) {

	ctx, span := tracer.Start(ctx, "UpdatePortfolio")
	defer span.End()
	span.SetAttributes(attribute.String("portfolio.username", input.Username))

	p, err := uc.portfolioRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if !p.IsOwner(input.CallerID) {
		err := apperror.NewPermissionDenied("caller does not own this portfolio")
		span.RecordError(err)
		return nil, err
	}

	socialChanged := false
	for _, patch := range input.Patches {
		if _, ok := patch.(portfolio.SocialLinksPatch); ok {
			socialChanged = true
		}
	}

	if err := p.Apply(time.Now().UTC(), input.Patches...); err != nil {
		return nil, apperror.NewInvalidInput("patch validation failed", err)
	}

	updated, err := uc.portfolioRepo.SaveAggregate(ctx, p, uc.mergeStrategy)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if socialChanged && uc.kafkaClient != nil {
		err := uc.kafkaClient.PublishPortfolioEvent(context.Background(), event.PortfolioEventPayload{
			EventType:   event.PortfolioUpdated,
			PortfolioID: updated.ID,
			Username:    updated.Username,
			SocialLinks: updated.Social.Links,
		})
		if err != nil {
			uc.logger.Warn("updated portfolio but publish event failed", zap.String("portfolio_id", updated.ID.String()), zap.Error(err))
		}
	}

	return &UpdatePortfolioOutput{Portfolio: updated}, nil
}
