package portfolio

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"time"

	"github.com/google/uuid"
)

const (
	ThemeModern       = "modern"
	ThemeCreative     = "creative"
	ThemeProfessional = "professional"
	ThemeBold         = "bold"
)

// Platforms is the closed set of social platforms a portfolio can store,
// in canonical display order. Spotify is detected from link URLs only and
// never stored as a platform of its own.
var Platforms = []string{
	"twitter", "linkedin", "github", "instagram", "youtube", "medium",
	"website", "behance", "figma", "awwwards", "dribbble",
}

type Project struct {
	ID          uuid.UUID `json:"id"`
	PortfolioID uuid.UUID `json:"portfolioId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Link        string    `json:"link"`
	Timeline    string    `json:"timeline"`
	CoverImage  string    `json:"coverImage"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SocialLinks holds one URL per supported platform (empty string means the
// owner has not set it) and the owner-controlled display order.
type SocialLinks struct {
	Links map[string]string `json:"links"`
	Order []string          `json:"order"`
}

type Portfolio struct {
	ID         uuid.UUID   `json:"id"`
	UserID     uuid.UUID   `json:"userId"`
	Username   string      `json:"username"`
	FullName   string      `json:"fullName"`
	Profession string      `json:"profession"`
	Headline   string      `json:"headline"`
	Theme      string      `json:"theme"`
	CoverImage string      `json:"coverImage"`
	Features   []string    `json:"features"`
	Projects   []Project   `json:"projects"`
	Social     SocialLinks `json:"socialMedia"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

var (
	ErrInvalidUsername = errors.New("username only allows lowercase letters, numbers, and hyphens")
	ErrInvalidTheme    = errors.New("unknown theme")
	ErrMissingFields   = errors.New("fullName, profession, features and projects are required")
	ErrUnknownPlatform = errors.New("unknown social platform")

	usernameRegex = regexp.MustCompile(`^[a-z0-9-]+$`)
)

func ValidTheme(theme string) bool {
	switch theme {
	case ThemeModern, ThemeCreative, ThemeProfessional, ThemeBold:
		return true
	}
	return false
}

func ValidPlatform(platform string) bool {
	for _, p := range Platforms {
		if p == platform {
			return true
		}
	}
	return false
}

// Validate checks the create-time invariants: identity fields present,
// features and projects non-empty, username a URL-safe slug.
func (p *Portfolio) Validate() error {
	if p.FullName == "" || p.Profession == "" || len(p.Features) == 0 || len(p.Projects) == 0 {
		return ErrMissingFields
	}
	if !usernameRegex.MatchString(p.Username) {
		return ErrInvalidUsername
	}
	if p.Theme != "" && !ValidTheme(p.Theme) {
		return ErrInvalidTheme
	}
	return nil
}

// IsOwner is the single ownership predicate consulted before any mutation.
func (p *Portfolio) IsOwner(callerID uuid.UUID) bool {
	return callerID != uuid.Nil && callerID == p.UserID
}

// Normalize makes the social link map total over Platforms (missing keys
// become empty strings), drops unknown keys, filters the order down to
// platforms that actually have a value, and appends linked platforms the
// order does not mention in canonical platform order so rendering stays
// deterministic.
func (s SocialLinks) Normalize() SocialLinks {
	links := make(map[string]string, len(Platforms))
	for _, platform := range Platforms {
		links[platform] = ""
	}
	for platform, url := range s.Links {
		if _, ok := links[platform]; ok {
			links[platform] = url
		}
	}

	order := make([]string, 0, len(s.Order))
	seen := make(map[string]bool, len(s.Order))
	for _, platform := range s.Order {
		if links[platform] != "" && !seen[platform] {
			order = append(order, platform)
			seen[platform] = true
		}
	}
	for _, platform := range Platforms {
		if links[platform] != "" && !seen[platform] {
			order = append(order, platform)
			seen[platform] = true
		}
	}

	return SocialLinks{Links: links, Order: order}
}

// SortProjects orders projects by position ascending; ties keep insertion
// order (older row first).
func SortProjects(projects []Project) {
	sort.SliceStable(projects, func(i, j int) bool {
		if projects[i].Position != projects[j].Position {
			return projects[i].Position < projects[j].Position
		}
		return projects[i].CreatedAt.Before(projects[j].CreatedAt)
	})
}

type Repository interface {
	Create(ctx context.Context, p *Portfolio) error
	FindByUsername(ctx context.Context, username string) (*Portfolio, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Portfolio, error)
	// SaveAggregate persists the whole aggregate in one transaction and
	// returns the canonical re-read state. mergeStrategy selects how the
	// project collection is reconciled (config.ProjectsMerge*).
	SaveAggregate(ctx context.Context, p *Portfolio, mergeStrategy string) (*Portfolio, error)
	FindProjectOwner(ctx context.Context, projectID uuid.UUID) (portfolioID, ownerID uuid.UUID, err error)
	DeleteProject(ctx context.Context, projectID uuid.UUID) error
}
