package persistence

import (
	"context"
	"encoding/json"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/presssence/presssence-api/internal/config"
	"github.com/presssence/presssence-api/internal/domain/portfolio"
	"github.com/presssence/presssence-api/pkg/apperror"
	"github.com/presssence/presssence-api/pkg/logger"
)

type postgresPortfolioRepo struct {
	db     *pgxpool.Pool
	logger logger.Logger
}

func NewPostgresPortfolioRepo(db *pgxpool.Pool, logger logger.Logger) portfolio.Repository {
	return &postgresPortfolioRepo{db: db, logger: logger}
}

var psqlPortfolio = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx, so the aggregate can
// be re-read inside the same transaction that merged it.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *postgresPortfolioRepo) scanPortfolio(row pgx.Row) (*portfolio.Portfolio, error) {
	p := &portfolio.Portfolio{}
	var featuresBytes []byte

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Username,
		&p.FullName,
		&p.Profession,
		&p.Headline,
		&p.Theme,
		&p.CoverImage,
		&featuresBytes,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("portfolio", "")
		}
		return nil, apperror.NewInternal("failed to scan portfolio row", err)
	}

	if err := json.Unmarshal(featuresBytes, &p.Features); err != nil {
		r.logger.Warn("Failed to unmarshal portfolio features", zap.String("portfolio_id", p.ID.String()), zap.Error(err))
		p.Features = []string{}
	}
	return p, nil
}

const portfolioColumns = "id, user_id, username, full_name, profession, headline, theme, cover_image, features, created_at, updated_at"

func (r *postgresPortfolioRepo) loadAggregate(ctx context.Context, q dbtx, where string, arg any) (*portfolio.Portfolio, error) {
	row := q.QueryRow(ctx, "SELECT "+portfolioColumns+" FROM portfolios WHERE "+where, arg)
	p, err := r.scanPortfolio(row)
	if err != nil {
		return nil, err
	}

	projects, err := r.loadProjects(ctx, q, p.ID)
	if err != nil {
		return nil, err
	}
	p.Projects = projects

	social, err := r.loadSocialLinks(ctx, q, p.ID)
	if err != nil {
		return nil, err
	}
	p.Social = social

	return p, nil
}

func (r *postgresPortfolioRepo) loadProjects(ctx context.Context, q dbtx, portfolioID uuid.UUID) ([]portfolio.Project, error) {
	builder := psqlPortfolio.Select("id, portfolio_id, title, description, link, timeline, cover_image, position, created_at, updated_at").
		From("projects").
		Where(sq.Eq{"portfolio_id": portfolioID}).
		OrderBy("position ASC", "created_at ASC")

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal("failed to build projects query", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, apperror.NewInternal("failed to query projects", err)
	}
	defer rows.Close()

	projects := make([]portfolio.Project, 0)
	for rows.Next() {
		var proj portfolio.Project
		err := rows.Scan(
			&proj.ID, &proj.PortfolioID, &proj.Title, &proj.Description,
			&proj.Link, &proj.Timeline, &proj.CoverImage, &proj.Position,
			&proj.CreatedAt, &proj.UpdatedAt,
		)
		if err != nil {
			return nil, apperror.NewInternal("failed to scan project row", err)
		}
		projects = append(projects, proj)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewInternal("error iterating project rows", err)
	}
	return projects, nil
}

func (r *postgresPortfolioRepo) loadSocialLinks(ctx context.Context, q dbtx, portfolioID uuid.UUID) (portfolio.SocialLinks, error) {
	var linksBytes, orderBytes []byte

	err := q.QueryRow(ctx,
		`SELECT links, display_order FROM social_links WHERE portfolio_id = $1`,
		portfolioID,
	).Scan(&linksBytes, &orderBytes)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return portfolio.SocialLinks{}.Normalize(), nil
		}
		return portfolio.SocialLinks{}, apperror.NewInternal("failed to query social links", err)
	}

	var s portfolio.SocialLinks
	if err := json.Unmarshal(linksBytes, &s.Links); err != nil {
		r.logger.Warn("Failed to unmarshal social links", zap.String("portfolio_id", portfolioID.String()), zap.Error(err))
	}
	if err := json.Unmarshal(orderBytes, &s.Order); err != nil {
		r.logger.Warn("Failed to unmarshal social link order", zap.String("portfolio_id", portfolioID.String()), zap.Error(err))
	}
	return s.Normalize(), nil
}

func (r *postgresPortfolioRepo) FindByUsername(ctx context.Context, username string) (*portfolio.Portfolio, error) {
	p, err := r.loadAggregate(ctx, r.db, "username = $1", username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NewNotFound("portfolio", username)
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresPortfolioRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*portfolio.Portfolio, error) {
	p, err := r.loadAggregate(ctx, r.db, "user_id = $1", userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NewNotFound("portfolio", userID.String())
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresPortfolioRepo) Create(ctx context.Context, p *portfolio.Portfolio) error {
	featuresBytes, err := json.Marshal(p.Features)
	if err != nil {
		return apperror.NewInternal("failed to marshal features", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return apperror.NewInternal("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO portfolios (id, user_id, username, full_name, profession, headline, theme, cover_image, features, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = tx.Exec(ctx, query,
		p.ID, p.UserID, p.Username, p.FullName, p.Profession, p.Headline,
		p.Theme, p.CoverImage, featuresBytes, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
			return apperror.NewConflict("portfolio", "username", p.Username)
		}
		return apperror.NewInternal("failed to save portfolio", err)
	}

	if err := upsertProjects(ctx, tx, p.Projects); err != nil {
		return err
	}
	if err := upsertSocialLinks(ctx, tx, p.ID, p.Social); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return apperror.NewInternal("failed to commit portfolio create", err)
	}
	return nil
}

// SaveAggregate merges the in-memory aggregate into storage in one
// transaction and returns the canonical re-read state. Nothing survives a
// failed transaction.
func (r *postgresPortfolioRepo) SaveAggregate(ctx context.Context, p *portfolio.Portfolio, mergeStrategy string) (*portfolio.Portfolio, error) {
	featuresBytes, err := json.Marshal(p.Features)
	if err != nil {
		return nil, apperror.NewInternal("failed to marshal features", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, apperror.NewInternal("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE portfolios SET
			full_name = $2, profession = $3, headline = $4, theme = $5,
			cover_image = $6, features = $7, updated_at = $8
		WHERE id = $1
	`
	cmdTag, err := tx.Exec(ctx, query,
		p.ID, p.FullName, p.Profession, p.Headline, p.Theme,
		p.CoverImage, featuresBytes, p.UpdatedAt,
	)
	if err != nil {
		return nil, apperror.NewInternal("failed to update portfolio", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, apperror.NewNotFound("portfolio", p.Username)
	}

	if mergeStrategy == config.ProjectsMergeReplace {
		// Deprecated path: drop every row and recreate from the patch.
		if _, err := tx.Exec(ctx, `DELETE FROM projects WHERE portfolio_id = $1`, p.ID); err != nil {
			return nil, apperror.NewInternal("failed to clear projects", err)
		}
	} else {
		keep := make([]string, len(p.Projects))
		for i, proj := range p.Projects {
			keep[i] = proj.ID.String()
		}
		_, err := tx.Exec(ctx,
			`DELETE FROM projects WHERE portfolio_id = $1 AND NOT (id = ANY($2::uuid[]))`,
			p.ID, keep,
		)
		if err != nil {
			return nil, apperror.NewInternal("failed to prune projects", err)
		}
	}

	if err := upsertProjects(ctx, tx, p.Projects); err != nil {
		return nil, err
	}
	if err := upsertSocialLinks(ctx, tx, p.ID, p.Social); err != nil {
		return nil, err
	}

	updated, err := r.loadAggregate(ctx, tx, "id = $1", p.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperror.NewInternal("failed to commit portfolio update", err)
	}
	return updated, nil
}

// upsertProjects inserts or updates each row by id. The portfolio_id guard
// on the update means an id that already belongs to another portfolio is
// left untouched instead of being rewritten.
func upsertProjects(ctx context.Context, tx pgx.Tx, projects []portfolio.Project) error {
	query := `
		INSERT INTO projects (id, portfolio_id, title, description, link, timeline, cover_image, position, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			link = EXCLUDED.link,
			timeline = EXCLUDED.timeline,
			cover_image = EXCLUDED.cover_image,
			position = EXCLUDED.position,
			updated_at = EXCLUDED.updated_at
		WHERE projects.portfolio_id = EXCLUDED.portfolio_id
	`
	for _, proj := range projects {
		_, err := tx.Exec(ctx, query,
			proj.ID, proj.PortfolioID, proj.Title, proj.Description, proj.Link,
			proj.Timeline, proj.CoverImage, proj.Position, proj.CreatedAt, proj.UpdatedAt,
		)
		if err != nil {
			return apperror.NewInternal("failed to upsert project", err)
		}
	}
	return nil
}

func upsertSocialLinks(ctx context.Context, tx pgx.Tx, portfolioID uuid.UUID, s portfolio.SocialLinks) error {
	linksBytes, err := json.Marshal(s.Links)
	if err != nil {
		return apperror.NewInternal("failed to marshal social links", err)
	}
	orderBytes, err := json.Marshal(s.Order)
	if err != nil {
		return apperror.NewInternal("failed to marshal social link order", err)
	}

	query := `
		INSERT INTO social_links (portfolio_id, links, display_order, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (portfolio_id) DO UPDATE SET
			links = EXCLUDED.links,
			display_order = EXCLUDED.display_order,
			updated_at = NOW()
	`
	if _, err := tx.Exec(ctx, query, portfolioID, linksBytes, orderBytes); err != nil {
		return apperror.NewInternal("failed to upsert social links", err)
	}
	return nil
}

func (r *postgresPortfolioRepo) FindProjectOwner(ctx context.Context, projectID uuid.UUID) (uuid.UUID, uuid.UUID, error) {
	query := `
		SELECT pr.portfolio_id, pf.user_id
		FROM projects pr
		JOIN portfolios pf ON pf.id = pr.portfolio_id
		WHERE pr.id = $1
	`
	var portfolioID, ownerID uuid.UUID
	err := r.db.QueryRow(ctx, query, projectID).Scan(&portfolioID, &ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, uuid.Nil, apperror.NewNotFound("project", projectID.String())
		}
		return uuid.Nil, uuid.Nil, apperror.NewInternal("failed to query project owner", err)
	}
	return portfolioID, ownerID, nil
}

func (r *postgresPortfolioRepo) DeleteProject(ctx context.Context, projectID uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, projectID)
	if err != nil {
		return apperror.NewInternal("failed to delete project", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperror.NewNotFound("project", projectID.String())
	}
	return nil
}
