package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/presssence/presssence-api/adapters/event"
	httpAdapter "github.com/presssence/presssence-api/adapters/http"
	"github.com/presssence/presssence-api/adapters/media_storage"
	"github.com/presssence/presssence-api/adapters/persistence"
	"github.com/presssence/presssence-api/adapters/socialapi"
	"github.com/presssence/presssence-api/internal/application/service"
	authUC "github.com/presssence/presssence-api/internal/application/usecase/auth"
	mediaUC "github.com/presssence/presssence-api/internal/application/usecase/media"
	portfolioUC "github.com/presssence/presssence-api/internal/application/usecase/portfolio"
	socialUC "github.com/presssence/presssence-api/internal/application/usecase/social"
	"github.com/presssence/presssence-api/internal/config"
	"github.com/presssence/presssence-api/pkg/auth"
	"github.com/presssence/presssence-api/pkg/logger"
	"github.com/presssence/presssence-api/pkg/tracing"
)

func main() {
	fmt.Println("Starting Presssence API Server...")

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)

	tracerProvider, err := tracing.NewTracerProvider(cfg, appLogger, "presssence-api")
	if err != nil {
		appLogger.Warn("Tracing disabled", zap.Error(err))
	} else {
		defer func() {
			if err := tracerProvider.Shutdown(context.Background()); err != nil {
				appLogger.Warn("Failed to shut down tracer provider", zap.Error(err))
			}
		}()
	}

	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		log.Fatalf("FATAL: cannot connect Postgres: %v", err)
	}
	defer dbPool.Close()

	redisClient, err := persistence.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("FATAL: cannot connect Redis: %v", err)
	}
	defer redisClient.Close()

	kafkaClient, err := event.NewKafkaProducerClient(cfg)
	if err != nil {
		log.Fatalf("FATAL: cannot init Kafka: %v", err)
	}
	defer kafkaClient.Close()

	// Repositories
	userRepo := persistence.NewPostgresUserRepo(dbPool, appLogger)
	portfolioRepo := persistence.NewPostgresPortfolioRepo(dbPool, appLogger)
	socialCache := persistence.NewRedisSocialCache(redisClient, appLogger)

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)
	uploader, err := media_storage.NewCloudinaryAdapter(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize uploader: %v", err)
	}
	fetchers := []service.MetadataFetcher{
		socialapi.NewGitHubClient(),
		socialapi.NewSpotifyClient(cfg),
	}

	// Use Cases
	loginUseCase := authUC.NewLoginUseCase(userRepo, jwtSvc, appLogger)
	registerUseCase := authUC.NewRegisterUseCase(userRepo, jwtSvc, appLogger)
	currentUserUseCase := authUC.NewCurrentUserUseCase(userRepo, portfolioRepo)
	createPortfolioUseCase := portfolioUC.NewCreatePortfolioUseCase(portfolioRepo, kafkaClient, appLogger)
	getPortfolioUseCase := portfolioUC.NewGetPortfolioUseCase(portfolioRepo)
	updatePortfolioUseCase := portfolioUC.NewUpdatePortfolioUseCase(portfolioRepo, kafkaClient, cfg.Portfolio.ProjectsMergeStrategy, appLogger)
	deleteProjectUseCase := portfolioUC.NewDeleteProjectUseCase(portfolioRepo)
	metadataUseCase := socialUC.NewMetadataUseCase(socialCache, fetchers, cfg.Social.CacheTTL, appLogger)
	uploadMediaUseCase := mediaUC.NewUploadMediaUseCase(uploader, appLogger)

	// HTTP Handlers
	authHandler := httpAdapter.NewAuthHandler(loginUseCase, registerUseCase, currentUserUseCase)
	portfolioHandler := httpAdapter.NewPortfolioHandler(createPortfolioUseCase, getPortfolioUseCase, updatePortfolioUseCase, appLogger)
	projectHandler := httpAdapter.NewProjectHandler(deleteProjectUseCase)
	socialHandler := httpAdapter.NewSocialHandler(metadataUseCase)
	mediaHandler := httpAdapter.NewMediaHandler(uploadMediaUseCase)

	// Middleware
	authMiddleware := httpAdapter.AuthMiddleware(jwtSvc)
	errorMiddleware := httpAdapter.ErrorMiddleware(appLogger)

	router := gin.Default()
	router.Use(errorMiddleware)

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })
		api.GET("/portfolio", portfolioHandler.GetPortfolio)
		api.GET("/socialMediaInfo", socialHandler.GetSocialMediaInfo)

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		private := api.Group("/")
		private.Use(authMiddleware)
		{
			private.POST("/portfolio", portfolioHandler.CreatePortfolio)
			private.PUT("/portfolio", portfolioHandler.UpdatePortfolio)
			private.DELETE("/projects/:id", projectHandler.DeleteProject)
			private.GET("/user", authHandler.GetCurrentUser)
			private.POST("/media", mediaHandler.UploadMedia)
		}
	}

	addr := fmt.Sprintf(":%s", cfg.App.Port)
	appLogger.Info("Server listening", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		log.Fatalf("FATAL: cannot start server: %v", err)
	}
}
