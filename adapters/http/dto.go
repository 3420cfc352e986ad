package http

import (
	"time"

	"github.com/google/uuid"

	portfolioUC "github.com/presssence/presssence-api/internal/application/usecase/portfolio"
	"github.com/presssence/presssence-api/internal/domain/portfolio"
	"github.com/presssence/presssence-api/internal/domain/user"
)

type ProjectInputDTO struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Link        string `json:"link"`
	Timeline    string `json:"timeline"`
	CoverImage  string `json:"coverImage"`
}

type CreatePortfolioRequest struct {
	Username    string            `json:"portfolioUsername" binding:"required"`
	FullName    string            `json:"fullName" binding:"required"`
	Profession  string            `json:"profession" binding:"required"`
	Headline    string            `json:"headline"`
	Theme       string            `json:"theme"`
	Features    []string          `json:"features" binding:"required"`
	Projects    []ProjectInputDTO `json:"projects" binding:"required"`
	SocialLinks map[string]string `json:"socialMedia"`
}

func (r CreatePortfolioRequest) ToProjectInputs() []portfolioUC.ProjectInput {
	inputs := make([]portfolioUC.ProjectInput, len(r.Projects))
	for i, p := range r.Projects {
		inputs[i] = portfolioUC.ProjectInput{
			Title:       p.Title,
			Description: p.Description,
			Link:        p.Link,
			Timeline:    p.Timeline,
			CoverImage:  p.CoverImage,
		}
	}
	return inputs
}

// ProjectEntryDTO is one project inside a partial update. A missing id means
// "create"; a missing position means "use the array index".
type ProjectEntryDTO struct {
	ID          *uuid.UUID `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Link        string     `json:"link"`
	Timeline    string     `json:"timeline"`
	CoverImage  string     `json:"coverImage"`
	Position    *int       `json:"position"`
}

// UpdatePortfolioRequest is the partial-update body. Absent keys leave their
// section of the aggregate untouched.
type UpdatePortfolioRequest struct {
	FullName         *string            `json:"fullName"`
	Profession       *string            `json:"profession"`
	Headline         *string            `json:"headline"`
	Theme            *string            `json:"theme"`
	CoverImage       *string            `json:"coverImage"`
	Features         *[]string          `json:"features"`
	Projects         *[]ProjectEntryDTO `json:"projects"`
	SocialLinks      map[string]string  `json:"socialMedia"`
	SocialLinksOrder *[]string          `json:"socialMediaOrder"`
}

func (r UpdatePortfolioRequest) ToPatches() []portfolio.Patch {
	var patches []portfolio.Patch

	if r.FullName != nil || r.Profession != nil || r.Headline != nil || r.Theme != nil || r.CoverImage != nil {
		patches = append(patches, portfolio.ScalarPatch{
			FullName:   r.FullName,
			Profession: r.Profession,
			Headline:   r.Headline,
			Theme:      r.Theme,
			CoverImage: r.CoverImage,
		})
	}

	if r.Features != nil {
		patches = append(patches, portfolio.FeaturesPatch{Features: *r.Features})
	}

	if r.Projects != nil {
		entries := make([]portfolio.ProjectEntry, len(*r.Projects))
		for i, p := range *r.Projects {
			entries[i] = portfolio.ProjectEntry{
				ID:          p.ID,
				Title:       p.Title,
				Description: p.Description,
				Link:        p.Link,
				Timeline:    p.Timeline,
				CoverImage:  p.CoverImage,
				Position:    p.Position,
			}
		}
		patches = append(patches, portfolio.ProjectsPatch{Projects: entries})
	}

	if r.SocialLinks != nil || r.SocialLinksOrder != nil {
		patches = append(patches, portfolio.SocialLinksPatch{
			Links: r.SocialLinks,
			Order: r.SocialLinksOrder,
		})
	}

	return patches
}

type ProjectDTO struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Link        string    `json:"link"`
	Timeline    string    `json:"timeline"`
	CoverImage  string    `json:"coverImage"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type PortfolioDTO struct {
	ID          uuid.UUID      `json:"id"`
	Username    string         `json:"portfolioUsername"`
	FullName    string         `json:"fullName"`
	Profession  string         `json:"profession"`
	Headline    string         `json:"headline"`
	Theme       string         `json:"theme"`
	CoverImage  string         `json:"coverImage"`
	Features    []string       `json:"features"`
	Projects    []ProjectDTO   `json:"projects"`
	SocialMedia map[string]any `json:"socialMedia"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

func ToPortfolioDTO(p *portfolio.Portfolio) PortfolioDTO {
	projects := make([]ProjectDTO, len(p.Projects))
	for i, proj := range p.Projects {
		projects[i] = ProjectDTO{
			ID:          proj.ID,
			Title:       proj.Title,
			Description: proj.Description,
			Link:        proj.Link,
			Timeline:    proj.Timeline,
			CoverImage:  proj.CoverImage,
			Position:    proj.Position,
			CreatedAt:   proj.CreatedAt,
			UpdatedAt:   proj.UpdatedAt,
		}
	}

	// Every platform key is always present; "order" carries the display order.
	socialMedia := make(map[string]any, len(p.Social.Links)+1)
	for platform, url := range p.Social.Links {
		socialMedia[platform] = url
	}
	socialMedia["order"] = p.Social.Order

	return PortfolioDTO{
		ID:          p.ID,
		Username:    p.Username,
		FullName:    p.FullName,
		Profession:  p.Profession,
		Headline:    p.Headline,
		Theme:       p.Theme,
		CoverImage:  p.CoverImage,
		Features:    p.Features,
		Projects:    projects,
		SocialMedia: socialMedia,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func ToUserDTO(u *user.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}
