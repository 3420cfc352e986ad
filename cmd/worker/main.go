package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/segmentio/kafka-go"

	"github.com/presssence/presssence-api/adapters/event"
	"github.com/presssence/presssence-api/adapters/persistence"
	"github.com/presssence/presssence-api/adapters/socialapi"
	"github.com/presssence/presssence-api/internal/application/service"
	socialUC "github.com/presssence/presssence-api/internal/application/usecase/social"
	"github.com/presssence/presssence-api/internal/config"
	"github.com/presssence/presssence-api/pkg/logger"
)

// The worker consumes portfolio events and pre-warms the social metadata
// cache, so public portfolio pages rarely hit third-party APIs inline.
func main() {
	fmt.Println("Starting Presssence Worker...")

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)

	redisClient, err := persistence.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("FATAL: cannot connect Redis: %v", err)
	}
	defer redisClient.Close()

	socialCache := persistence.NewRedisSocialCache(redisClient, appLogger)
	fetchers := []service.MetadataFetcher{
		socialapi.NewGitHubClient(),
		socialapi.NewSpotifyClient(cfg),
	}
	metadataUseCase := socialUC.NewMetadataUseCase(socialCache, fetchers, cfg.Social.CacheTTL, appLogger)

	portfolioConsumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    event.TopicPortfolioEvents,
		GroupID:  "social-metadata-group",
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	defer portfolioConsumer.Close()

	log.Printf("Worker listening on topic '%s'...", event.TopicPortfolioEvents)

	ctx := context.Background()
	for {
		msg, err := portfolioConsumer.ReadMessage(ctx)
		if err != nil {
			log.Printf("ERROR: Failed to read message from Kafka: %v", err)
			continue
		}

		var payload event.PortfolioEventPayload
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			log.Printf("ERROR: Failed to unmarshal event: %v. Skipping.", err)
			continue
		}

		log.Printf("Processing event: [%s] for portfolio %s", payload.EventType, payload.PortfolioID)
		metadataUseCase.WarmLinks(ctx, payload.SocialLinks)
	}
}
