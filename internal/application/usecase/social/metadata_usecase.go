package social

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/presssence/presssence-api/internal/application/service"
	"github.com/presssence/presssence-api/internal/domain/social"
	"github.com/presssence/presssence-api/pkg/apperror"
	"github.com/presssence/presssence-api/pkg/logger"
)

type MetadataUseCase struct {
	cache    social.Cache
	fetchers map[string]service.MetadataFetcher
	cacheTTL time.Duration
	logger   logger.Logger
}

func NewMetadataUseCase(cache social.Cache, fetchers []service.MetadataFetcher, cacheTTL time.Duration, log logger.Logger) *MetadataUseCase {
	byPlatform := make(map[string]service.MetadataFetcher, len(fetchers))
	for _, f := range fetchers {
		byPlatform[f.Platform()] = f
	}
	return &MetadataUseCase{
		cache:    cache,
		fetchers: byPlatform,
		cacheTTL: cacheTTL,
		logger:   log,
	}
}

type GetMetadataInput struct {
	Platform      string
	Username      string
	SpotifyUserID string
}

type GetMetadataOutput struct {
	Metadata *social.Metadata
}

func (uc *MetadataUseCase) Execute(ctx context.Context, input GetMetadataInput) (*GetMetadataOutput, error) {

	if input.Platform == "" {
		return nil, apperror.NewInvalidInput("missing platform", nil)
	}

	identity := input.Username
	if input.Platform == "spotify" {
		identity = input.SpotifyUserID
	}
	if identity == "" {
		return nil, apperror.NewInvalidInput("missing username for "+input.Platform, nil)
	}

	fetcher, ok := uc.fetchers[input.Platform]
	if !ok {
		return nil, apperror.NewNotFound("social platform", input.Platform)
	}

	if uc.cache != nil {
		cached, err := uc.cache.Get(ctx, input.Platform, identity)
		if err == nil && cached != nil {
			return &GetMetadataOutput{Metadata: cached}, nil
		}
	}

	meta, err := fetcher.Fetch(ctx, identity)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, meta, uc.cacheTTL); err != nil {
			uc.logger.Warn("failed to cache social metadata", zap.String("platform", input.Platform), zap.Error(err))
		}
	}

	return &GetMetadataOutput{Metadata: meta}, nil
}

// WarmLinks prefetches metadata for every detectable link in a social map.
// Used by the worker after a portfolio event; every lookup is best-effort.
func (uc *MetadataUseCase) WarmLinks(ctx context.Context, links map[string]string) {
	for platform, url := range links {
		if url == "" {
			continue
		}

		input := GetMetadataInput{Platform: platform}
		if id := social.SpotifyUserIDFromURL(url); id != "" {
			input.Platform = "spotify"
			input.SpotifyUserID = id
		} else if username := social.UsernameFromURL(platform, url); username != "" {
			input.Username = username
		} else {
			continue
		}

		if _, err := uc.Execute(ctx, input); err != nil {
			uc.logger.Warn("social metadata warmup failed",
				zap.String("platform", input.Platform), zap.Error(err))
		}
	}
}
