package service

import (
	"context"

	"github.com/presssence/presssence-api/internal/domain/social"
)

// MetadataFetcher talks to one third-party platform API. Lookups are
// best-effort: a failure must never break portfolio rendering.
type MetadataFetcher interface {
	Platform() string
	Fetch(ctx context.Context, identity string) (*social.Metadata, error)
}
