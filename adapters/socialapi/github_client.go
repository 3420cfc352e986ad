package socialapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/presssence/presssence-api/internal/application/service"
	"github.com/presssence/presssence-api/internal/domain/social"
	"github.com/presssence/presssence-api/pkg/apperror"
)

type githubClient struct {
	httpClient *http.Client
	baseURL    string
}

func NewGitHubClient() service.MetadataFetcher {
	return &githubClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    "https://api.github.com",
	}
}

func (c *githubClient) Platform() string { return "github" }

type githubUserResponse struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	Followers int    `json:"followers"`
	Following int    `json:"following"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatar_url"`
}

func (c *githubClient) Fetch(ctx context.Context, identity string) (*social.Metadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/users/%s", c.baseURL, identity), nil)
	if err != nil {
		return nil, apperror.NewInternal("failed to build github request", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperror.NewInternal("github request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, apperror.NewNotFound("github user", identity)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperror.NewInternal(fmt.Sprintf("github returned status %d", resp.StatusCode), nil)
	}

	var u githubUserResponse
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, apperror.NewInternal("failed to decode github response", err)
	}

	return &social.Metadata{
		Platform: "github",
		Identity: identity,
		GitHub: &social.GitHubProfile{
			Name:      u.Name,
			Username:  u.Login,
			Followers: u.Followers,
			Following: u.Following,
			Bio:       u.Bio,
			Avatar:    u.AvatarURL,
		},
	}, nil
}
