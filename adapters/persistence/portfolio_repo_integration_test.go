package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/presssence/presssence-api/internal/config"
	"github.com/presssence/presssence-api/internal/domain/portfolio"
	"github.com/presssence/presssence-api/internal/domain/user"
	"github.com/presssence/presssence-api/pkg/apperror"
	"github.com/presssence/presssence-api/pkg/logger"
)

type PortfolioRepoIntegrationTestSuite struct {
	suite.Suite
	dbPool        *pgxpool.Pool
	pgContainer   *postgres.PostgresContainer
	testLogger    logger.Logger
	portfolioRepo portfolio.Repository
	userRepo      user.Repository
	testOwner     *user.User
}

func (s *PortfolioRepoIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(1*time.Minute),
		),
	)
	if err != nil {
		s.T().Fatalf("Failed to start postgres container: %s", err)
	}
	s.pgContainer = pgContainer

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		s.T().Fatalf("Failed to get connection string: %s", err)
	}

	m, err := migrate.New("file://../../migrations", dsn)
	if err != nil {
		s.T().Fatalf("Failed to create migrate instance: %s", err)
	}
	if err := m.Up(); err != nil {
		s.T().Fatalf("Failed to run migrations: %s", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		s.T().Fatalf("Failed to create pgxpool: %s", err)
	}
	s.dbPool = pool

	s.testLogger = logger.NewZapLogger("development")
	s.portfolioRepo = NewPostgresPortfolioRepo(s.dbPool, s.testLogger)
	s.userRepo = NewPostgresUserRepo(s.dbPool, s.testLogger)

	s.testOwner = &user.User{
		ID:           uuid.New(),
		Email:        "testowner@example.com",
		Name:         "Test Owner",
		PasswordHash: "hashedpassword",
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.userRepo.Save(ctx, s.testOwner); err != nil {
		s.T().Fatalf("Failed to seed owner: %s", err)
	}
}

func (s *PortfolioRepoIntegrationTestSuite) TearDownSuite() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(context.Background()); err != nil {
			s.T().Fatalf("Failed to terminate postgres container: %s", err)
		}
	}
}

func TestPortfolioRepoIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode.")
	}
	suite.Run(t, new(PortfolioRepoIntegrationTestSuite))
}

func (s *PortfolioRepoIntegrationTestSuite) seedPortfolio(ownerID uuid.UUID, username string) *portfolio.Portfolio {
	now := time.Now().UTC()
	p := &portfolio.Portfolio{
		ID:         uuid.New(),
		UserID:     ownerID,
		Username:   username,
		FullName:   "Ada Lovelace",
		Profession: "Engineer",
		Theme:      portfolio.ThemeModern,
		Features:   []string{"Analysis", "Notes"},
		Projects: []portfolio.Project{
			{ID: uuid.New(), Title: "Engine", Description: "Analytical engine notes", Position: 0, CreatedAt: now, UpdatedAt: now},
			{ID: uuid.New(), Title: "Sketches", Description: "Translation sketches", Position: 1, CreatedAt: now, UpdatedAt: now},
		},
		Social: portfolio.SocialLinks{
			Links: map[string]string{"github": "https://github.com/ada"},
			Order: []string{"github"},
		}.Normalize(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for i := range p.Projects {
		p.Projects[i].PortfolioID = p.ID
	}
	s.Require().NoError(s.portfolioRepo.Create(context.Background(), p))
	return p
}

func (s *PortfolioRepoIntegrationTestSuite) Test_Create_And_FindByUsername() {
	ctx := context.Background()
	seeded := s.seedPortfolio(s.testOwner.ID, "ada")

	found, err := s.portfolioRepo.FindByUsername(ctx, "ada")

	s.NoError(err)
	s.NotNil(found)
	s.Equal(seeded.ID, found.ID)
	s.Equal("Ada Lovelace", found.FullName)
	s.Equal([]string{"Analysis", "Notes"}, found.Features)
	s.Len(found.Projects, 2)
	s.Equal("Engine", found.Projects[0].Title)
	s.Equal("https://github.com/ada", found.Social.Links["github"])
	s.Equal([]string{"github"}, found.Social.Order)
	s.Len(found.Social.Links, len(portfolio.Platforms))
}

func (s *PortfolioRepoIntegrationTestSuite) Test_Create_DuplicateUsername_Conflicts() {
	otherOwner := &user.User{
		ID: uuid.New(), Email: "second@example.com", Name: "Second",
		PasswordHash: "hashedpassword", CreatedAt: time.Now().UTC(),
	}
	s.Require().NoError(s.userRepo.Save(context.Background(), otherOwner))

	s.seedPortfolio(otherOwner.ID, "taken-name")

	dup := &portfolio.Portfolio{
		ID: uuid.New(), UserID: uuid.New(), Username: "taken-name",
		FullName: "X", Profession: "Y", Theme: portfolio.ThemeModern,
		Features: []string{"a"},
		Social:   portfolio.SocialLinks{}.Normalize(),
	}
	err := s.portfolioRepo.Create(context.Background(), dup)

	s.Error(err)
	s.ErrorIs(err, apperror.ErrConflict)
}

func (s *PortfolioRepoIntegrationTestSuite) Test_FindByUsername_NotFound() {
	_, err := s.portfolioRepo.FindByUsername(context.Background(), "no-such-person")

	s.Error(err)
	s.ErrorIs(err, apperror.ErrNotFound)
}

func (s *PortfolioRepoIntegrationTestSuite) Test_SaveAggregate_ReordersProjects() {
	ctx := context.Background()
	owner := &user.User{
		ID: uuid.New(), Email: "reorder@example.com", Name: "Reorder",
		PasswordHash: "hashedpassword", CreatedAt: time.Now().UTC(),
	}
	s.Require().NoError(s.userRepo.Save(ctx, owner))
	p := s.seedPortfolio(owner.ID, "reorder")

	p.Projects[0].Position = 1
	p.Projects[1].Position = 0
	portfolio.SortProjects(p.Projects)
	p.UpdatedAt = time.Now().UTC()

	updated, err := s.portfolioRepo.SaveAggregate(ctx, p, config.ProjectsMergeUpsert)

	s.NoError(err)
	s.Len(updated.Projects, 2)
	s.Equal("Sketches", updated.Projects[0].Title)
	s.Equal(0, updated.Projects[0].Position)
	s.Equal("Engine", updated.Projects[1].Title)
	s.Equal(1, updated.Projects[1].Position)
}

func (s *PortfolioRepoIntegrationTestSuite) Test_SaveAggregate_PrunesAbsentProjects() {
	ctx := context.Background()
	owner := &user.User{
		ID: uuid.New(), Email: "prune@example.com", Name: "Prune",
		PasswordHash: "hashedpassword", CreatedAt: time.Now().UTC(),
	}
	s.Require().NoError(s.userRepo.Save(ctx, owner))
	p := s.seedPortfolio(owner.ID, "prune")
	removedID := p.Projects[1].ID

	p.Projects = p.Projects[:1]
	p.Projects[0].Position = 0

	updated, err := s.portfolioRepo.SaveAggregate(ctx, p, config.ProjectsMergeUpsert)

	s.NoError(err)
	s.Len(updated.Projects, 1)
	s.NotEqual(removedID, updated.Projects[0].ID)

	_, _, err = s.portfolioRepo.FindProjectOwner(ctx, removedID)
	s.ErrorIs(err, apperror.ErrNotFound)
}

func (s *PortfolioRepoIntegrationTestSuite) Test_SaveAggregate_SubmittedForeignProjectIDLeavesOtherPortfolioUntouched() {
	ctx := context.Background()
	victim := &user.User{
		ID: uuid.New(), Email: "victim@example.com", Name: "Victim",
		PasswordHash: "hashedpassword", CreatedAt: time.Now().UTC(),
	}
	s.Require().NoError(s.userRepo.Save(ctx, victim))
	victimPortfolio := s.seedPortfolio(victim.ID, "victim")
	victimProjectID := victimPortfolio.Projects[0].ID

	attacker := &user.User{
		ID: uuid.New(), Email: "attacker@example.com", Name: "Attacker",
		PasswordHash: "hashedpassword", CreatedAt: time.Now().UTC(),
	}
	s.Require().NoError(s.userRepo.Save(ctx, attacker))
	attackerPortfolio := s.seedPortfolio(attacker.ID, "attacker")

	now := time.Now().UTC()
	attackerPortfolio.Projects = append(attackerPortfolio.Projects, portfolio.Project{
		ID: victimProjectID, PortfolioID: attackerPortfolio.ID,
		Title: "hijacked", Position: 2, CreatedAt: now, UpdatedAt: now,
	})

	updated, err := s.portfolioRepo.SaveAggregate(ctx, attackerPortfolio, config.ProjectsMergeUpsert)

	s.NoError(err)
	for _, proj := range updated.Projects {
		s.NotEqual(victimProjectID, proj.ID)
	}

	victimAfter, err := s.portfolioRepo.FindByUsername(ctx, "victim")
	s.NoError(err)
	s.Require().Len(victimAfter.Projects, 2)
	s.Equal(victimProjectID, victimAfter.Projects[0].ID)
	s.Equal("Engine", victimAfter.Projects[0].Title)
	s.Equal(0, victimAfter.Projects[0].Position)
}

func (s *PortfolioRepoIntegrationTestSuite) Test_SaveAggregate_KeepsCreatedAtOnUpsert() {
	ctx := context.Background()
	owner := &user.User{
		ID: uuid.New(), Email: "upsert@example.com", Name: "Upsert",
		PasswordHash: "hashedpassword", CreatedAt: time.Now().UTC(),
	}
	s.Require().NoError(s.userRepo.Save(ctx, owner))
	p := s.seedPortfolio(owner.ID, "upsert")
	originalID := p.Projects[0].ID
	originalCreated := p.Projects[0].CreatedAt

	p.Projects[0].Title = "Engine, revised"
	p.Projects[0].UpdatedAt = time.Now().UTC().Add(time.Hour)

	updated, err := s.portfolioRepo.SaveAggregate(ctx, p, config.ProjectsMergeUpsert)

	s.NoError(err)
	s.Equal(originalID, updated.Projects[0].ID)
	s.Equal("Engine, revised", updated.Projects[0].Title)
	s.WithinDuration(originalCreated, updated.Projects[0].CreatedAt, time.Second)
}

func (s *PortfolioRepoIntegrationTestSuite) Test_SaveAggregate_ReplaceStrategy_RecreatesRows() {
	ctx := context.Background()
	owner := &user.User{
		ID: uuid.New(), Email: "replace@example.com", Name: "Replace",
		PasswordHash: "hashedpassword", CreatedAt: time.Now().UTC(),
	}
	s.Require().NoError(s.userRepo.Save(ctx, owner))
	p := s.seedPortfolio(owner.ID, "replace")
	oldIDs := []uuid.UUID{p.Projects[0].ID, p.Projects[1].ID}

	now := time.Now().UTC()
	p.Projects = []portfolio.Project{
		{ID: uuid.New(), PortfolioID: p.ID, Title: "Fresh", Position: 0, CreatedAt: now, UpdatedAt: now},
	}

	updated, err := s.portfolioRepo.SaveAggregate(ctx, p, config.ProjectsMergeReplace)

	s.NoError(err)
	s.Len(updated.Projects, 1)
	s.Equal("Fresh", updated.Projects[0].Title)
	for _, id := range oldIDs {
		_, _, err := s.portfolioRepo.FindProjectOwner(ctx, id)
		s.ErrorIs(err, apperror.ErrNotFound)
	}
}

func (s *PortfolioRepoIntegrationTestSuite) Test_DeleteProject() {
	ctx := context.Background()
	owner := &user.User{
		ID: uuid.New(), Email: "delete@example.com", Name: "Delete",
		PasswordHash: "hashedpassword", CreatedAt: time.Now().UTC(),
	}
	s.Require().NoError(s.userRepo.Save(ctx, owner))
	p := s.seedPortfolio(owner.ID, "deleter")
	target := p.Projects[0].ID

	portfolioID, ownerID, err := s.portfolioRepo.FindProjectOwner(ctx, target)
	s.NoError(err)
	s.Equal(p.ID, portfolioID)
	s.Equal(owner.ID, ownerID)

	s.NoError(s.portfolioRepo.DeleteProject(ctx, target))
	s.ErrorIs(s.portfolioRepo.DeleteProject(ctx, target), apperror.ErrNotFound)
}
