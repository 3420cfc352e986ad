package portfolio

import (
	"time"

	"github.com/google/uuid"
)

// Patch is one partial-update kind against the aggregate. The closed set of
// implementations keeps the merge in Apply exhaustive instead of being
// implied by which JSON keys happened to be present.
type Patch interface {
	patchKind() string
}

// ScalarPatch merges the named profile fields; nil pointers are untouched.
type ScalarPatch struct {
	FullName   *string
	Profession *string
	Headline   *string
	Theme      *string
	CoverImage *string
}

func (ScalarPatch) patchKind() string { return "scalars" }

// FeaturesPatch replaces the ordered skill list wholesale.
type FeaturesPatch struct {
	Features []string
}

func (FeaturesPatch) patchKind() string { return "features" }

// ProjectEntry is one submitted project. A nil ID means "create"; a nil
// Position means "use the array index".
type ProjectEntry struct {
	ID          *uuid.UUID
	Title       string
	Description string
	Link        string
	Timeline    string
	CoverImage  string
	Position    *int
}

// ProjectsPatch carries the full project list in the order the owner sees
// it. Stored rows absent from the list are removed.
type ProjectsPatch struct {
	Projects []ProjectEntry
}

func (ProjectsPatch) patchKind() string { return "projects" }

// SocialLinksPatch upserts the social link map and/or the display order.
type SocialLinksPatch struct {
	Links map[string]string
	Order *[]string
}

func (SocialLinksPatch) patchKind() string { return "socialLinks" }

// Apply merges the patches into the aggregate in memory. Project position
// comes from the entry when provided, otherwise from the array index, and
// entries are re-sorted afterwards so the in-memory order matches what a
// re-read would return. Entries whose ID matches a stored project keep its
// identity and creation time; submitting the same patch twice therefore
// yields the same aggregate with no duplicated projects.
func (p *Portfolio) Apply(now time.Time, patches ...Patch) error {
	for _, patch := range patches {
		switch pt := patch.(type) {
		case ScalarPatch:
			if pt.FullName != nil {
				p.FullName = *pt.FullName
			}
			if pt.Profession != nil {
				p.Profession = *pt.Profession
			}
			if pt.Headline != nil {
				p.Headline = *pt.Headline
			}
			if pt.Theme != nil {
				if !ValidTheme(*pt.Theme) {
					return ErrInvalidTheme
				}
				p.Theme = *pt.Theme
			}
			if pt.CoverImage != nil {
				p.CoverImage = *pt.CoverImage
			}

		case FeaturesPatch:
			features := make([]string, len(pt.Features))
			copy(features, pt.Features)
			p.Features = features

		case ProjectsPatch:
			p.Projects = p.reconcileProjects(pt.Projects, now)

		case SocialLinksPatch:
			merged := p.Social
			if pt.Links != nil {
				for platform := range pt.Links {
					if !ValidPlatform(platform) {
						return ErrUnknownPlatform
					}
				}
				merged.Links = pt.Links
			}
			if pt.Order != nil {
				merged.Order = *pt.Order
			}
			p.Social = merged.Normalize()
		}
	}

	p.UpdatedAt = now
	return nil
}

func (p *Portfolio) reconcileProjects(entries []ProjectEntry, now time.Time) []Project {
	existing := make(map[uuid.UUID]Project, len(p.Projects))
	for _, proj := range p.Projects {
		existing[proj.ID] = proj
	}

	projects := make([]Project, 0, len(entries))
	for i, entry := range entries {
		position := i
		if entry.Position != nil {
			position = *entry.Position
		}

		proj := Project{
			PortfolioID: p.ID,
			Title:       entry.Title,
			Description: entry.Description,
			Link:        entry.Link,
			Timeline:    entry.Timeline,
			CoverImage:  entry.CoverImage,
			Position:    position,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		switch {
		case entry.ID == nil:
			proj.ID = uuid.New()
		case existing[*entry.ID].ID == *entry.ID:
			prev := existing[*entry.ID]
			proj.ID = prev.ID
			proj.CreatedAt = prev.CreatedAt
			if entry.Title == "" {
				proj.Title = prev.Title
			}
			if entry.Description == "" {
				proj.Description = prev.Description
			}
			if entry.Link == "" {
				proj.Link = prev.Link
			}
			if entry.Timeline == "" {
				proj.Timeline = prev.Timeline
			}
			if entry.CoverImage == "" {
				proj.CoverImage = prev.CoverImage
			}
		default:
			// Unknown id: keep it so a client replaying a reconciled
			// aggregate after a partial failure stays idempotent.
			proj.ID = *entry.ID
		}

		projects = append(projects, proj)
	}

	SortProjects(projects)
	return projects
}
