package portfolio

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func validPortfolio() *Portfolio {
	now := time.Now().UTC()
	return &Portfolio{
		ID:         uuid.New(),
		UserID:     uuid.New(),
		Username:   "ada-lovelace",
		FullName:   "Ada Lovelace",
		Profession: "Engineer",
		Theme:      ThemeModern,
		Features:   []string{"Analysis"},
		Projects: []Project{
			{ID: uuid.New(), Title: "Engine", Position: 0, CreatedAt: now, UpdatedAt: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validPortfolio().Validate())
	})

	t.Run("username with uppercase", func(t *testing.T) {
		p := validPortfolio()
		p.Username = "Ada"
		assert.ErrorIs(t, p.Validate(), ErrInvalidUsername)
	})

	t.Run("username with spaces", func(t *testing.T) {
		p := validPortfolio()
		p.Username = "ada lovelace"
		assert.ErrorIs(t, p.Validate(), ErrInvalidUsername)
	})

	t.Run("missing profession", func(t *testing.T) {
		p := validPortfolio()
		p.Profession = ""
		assert.ErrorIs(t, p.Validate(), ErrMissingFields)
	})

	t.Run("empty features", func(t *testing.T) {
		p := validPortfolio()
		p.Features = nil
		assert.ErrorIs(t, p.Validate(), ErrMissingFields)
	})

	t.Run("unknown theme", func(t *testing.T) {
		p := validPortfolio()
		p.Theme = "vaporwave"
		assert.ErrorIs(t, p.Validate(), ErrInvalidTheme)
	})
}

func TestIsOwner(t *testing.T) {
	p := validPortfolio()

	assert.True(t, p.IsOwner(p.UserID))
	assert.False(t, p.IsOwner(uuid.New()))
	assert.False(t, p.IsOwner(uuid.Nil))
}

func TestSocialLinks_Normalize(t *testing.T) {
	t.Run("map is total over platforms", func(t *testing.T) {
		s := SocialLinks{Links: map[string]string{"github": "https://github.com/ada"}}.Normalize()

		assert.Len(t, s.Links, len(Platforms))
		assert.Equal(t, "https://github.com/ada", s.Links["github"])
		assert.Equal(t, "", s.Links["twitter"])
	})

	t.Run("unknown keys dropped", func(t *testing.T) {
		s := SocialLinks{Links: map[string]string{"myspace": "https://myspace.com/ada"}}.Normalize()

		_, ok := s.Links["myspace"]
		assert.False(t, ok)
	})

	t.Run("order filtered to non-empty links", func(t *testing.T) {
		s := SocialLinks{
			Links: map[string]string{"github": "https://github.com/ada"},
			Order: []string{"twitter", "github"},
		}.Normalize()

		assert.Equal(t, []string{"github"}, s.Order)
	})

	t.Run("unmentioned linked platforms appended canonically", func(t *testing.T) {
		s := SocialLinks{
			Links: map[string]string{
				"dribbble": "https://dribbble.com/ada",
				"twitter":  "https://twitter.com/ada",
				"github":   "https://github.com/ada",
			},
			Order: []string{"github"},
		}.Normalize()

		assert.Equal(t, []string{"github", "twitter", "dribbble"}, s.Order)
	})

	t.Run("duplicates in order collapsed", func(t *testing.T) {
		s := SocialLinks{
			Links: map[string]string{"github": "https://github.com/ada"},
			Order: []string{"github", "github"},
		}.Normalize()

		assert.Equal(t, []string{"github"}, s.Order)
	})

	t.Run("empty input", func(t *testing.T) {
		s := SocialLinks{}.Normalize()

		assert.Len(t, s.Links, len(Platforms))
		assert.Empty(t, s.Order)
	})
}

func TestSortProjects(t *testing.T) {
	older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)

	projects := []Project{
		{Title: "c", Position: 2, CreatedAt: older},
		{Title: "b", Position: 0, CreatedAt: newer},
		{Title: "a", Position: 0, CreatedAt: older},
	}
	SortProjects(projects)

	assert.Equal(t, "a", projects[0].Title)
	assert.Equal(t, "b", projects[1].Title)
	assert.Equal(t, "c", projects[2].Title)
}
