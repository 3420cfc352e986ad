package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"github.com/presssence/presssence-api/adapters/persistence"
	authUC "github.com/presssence/presssence-api/internal/application/usecase/auth"
	portfolioUC "github.com/presssence/presssence-api/internal/application/usecase/portfolio"
	"github.com/presssence/presssence-api/internal/config"
	"github.com/presssence/presssence-api/pkg/auth"
	"github.com/presssence/presssence-api/pkg/logger"
)

type PortfolioE2ETestSuite struct {
	suite.Suite
	Router      *gin.Engine
	dbPool      *pgxpool.Pool
	accessToken string
	username    string
}

func (s *PortfolioE2ETestSuite) SetupSuite() {
	cfg, err := config.LoadConfig("../..")
	if err != nil {
		s.T().Fatalf("Failed to load config for E2E test: %v", err)
	}

	dbPool, err := pgxpool.New(context.Background(), cfg.DB.DSN)
	if err != nil {
		s.T().Fatalf("E2E test failed to connect postgres: %v", err)
	}
	s.dbPool = dbPool

	appLogger := logger.NewZapLogger("development")

	userRepo := persistence.NewPostgresUserRepo(dbPool, appLogger)
	portfolioRepo := persistence.NewPostgresPortfolioRepo(dbPool, appLogger)
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)

	loginUC := authUC.NewLoginUseCase(userRepo, jwtSvc, appLogger)
	registerUC := authUC.NewRegisterUseCase(userRepo, jwtSvc, appLogger)
	currentUserUC := authUC.NewCurrentUserUseCase(userRepo, portfolioRepo)
	createUC := portfolioUC.NewCreatePortfolioUseCase(portfolioRepo, nil, appLogger)
	getUC := portfolioUC.NewGetPortfolioUseCase(portfolioRepo)
	updateUC := portfolioUC.NewUpdatePortfolioUseCase(portfolioRepo, nil, cfg.Portfolio.ProjectsMergeStrategy, appLogger)
	deleteUC := portfolioUC.NewDeleteProjectUseCase(portfolioRepo)

	authHandler := NewAuthHandler(loginUC, registerUC, currentUserUC)
	portfolioHandler := NewPortfolioHandler(createUC, getUC, updateUC, appLogger)
	projectHandler := NewProjectHandler(deleteUC)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorMiddleware(appLogger))

	api := router.Group("/api")
	{
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.GET("/portfolio", portfolioHandler.GetPortfolio)

		private := api.Group("/")
		private.Use(AuthMiddleware(jwtSvc))
		{
			private.POST("/portfolio", portfolioHandler.CreatePortfolio)
			private.PUT("/portfolio", portfolioHandler.UpdatePortfolio)
			private.DELETE("/projects/:id", projectHandler.DeleteProject)
			private.GET("/user", authHandler.GetCurrentUser)
		}
	}
	s.Router = router

	// each run gets fresh identities so reruns do not collide
	stamp := time.Now().UnixNano()
	s.username = fmt.Sprintf("e2e-owner-%d", stamp)

	body, _ := json.Marshal(gin.H{
		"email":    fmt.Sprintf("e2e_%d@example.com", stamp),
		"name":     "E2E Owner",
		"password": "e2e_test_password_123",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		s.T().Fatalf("E2E register failed: %d %s", rr.Code, rr.Body.String())
	}

	var registerResponse map[string]string
	_ = json.Unmarshal(rr.Body.Bytes(), &registerResponse)
	s.accessToken = registerResponse["accessToken"]
}

func (s *PortfolioE2ETestSuite) TearDownSuite() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
}

func TestPortfolioE2E(t *testing.T) {
	if os.Getenv("E2E_TESTS") == "" {
		t.Skip("Skipping E2E tests. Set E2E_TESTS=1 to run.")
	}
	suite.Run(t, new(PortfolioE2ETestSuite))
}

func (s *PortfolioE2ETestSuite) request(method, target string, body any, withToken bool) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if withToken {
		req.Header.Set("Authorization", "Bearer "+s.accessToken)
	}
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)
	return rr
}

func (s *PortfolioE2ETestSuite) Test_Portfolio_Lifecycle() {
	createBody := gin.H{
		"portfolioUsername": s.username,
		"fullName":          "E2E Owner",
		"profession":        "Tester",
		"features":          []string{"Go", "Postgres"},
		"projects": []gin.H{
			{"title": "First", "description": "First project"},
			{"title": "Second", "description": "Second project"},
		},
		"socialMedia": gin.H{"github": "https://github.com/e2e-owner"},
	}
	rrCreate := s.request(http.MethodPost, "/api/portfolio", createBody, true)
	s.Require().Equal(http.StatusCreated, rrCreate.Code, rrCreate.Body.String())

	var created PortfolioDTO
	s.Require().NoError(json.Unmarshal(rrCreate.Body.Bytes(), &created))
	s.Require().Len(created.Projects, 2)

	rrUpdate := s.request(http.MethodPut, "/api/portfolio?portfolioUsername="+s.username, gin.H{
		"headline": "Ships things",
		"projects": []gin.H{
			{"id": created.Projects[1].ID, "title": created.Projects[1].Title},
			{"id": created.Projects[0].ID, "title": created.Projects[0].Title},
		},
	}, true)
	s.Require().Equal(http.StatusOK, rrUpdate.Code, rrUpdate.Body.String())

	var updated PortfolioDTO
	s.Require().NoError(json.Unmarshal(rrUpdate.Body.Bytes(), &updated))
	s.Equal("Ships things", updated.Headline)
	s.Require().Len(updated.Projects, 2)
	s.Equal(created.Projects[1].ID, updated.Projects[0].ID)

	rrGet := s.request(http.MethodGet, "/api/portfolio?portfolioUsername="+s.username, nil, false)
	s.Require().Equal(http.StatusOK, rrGet.Code)

	rrUser := s.request(http.MethodGet, "/api/user", nil, true)
	s.Require().Equal(http.StatusOK, rrUser.Code)

	rrDelete := s.request(http.MethodDelete, "/api/projects/"+updated.Projects[0].ID.String(), nil, true)
	s.Require().Equal(http.StatusOK, rrDelete.Code)
}
