package socialapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/presssence/presssence-api/internal/application/service"
	"github.com/presssence/presssence-api/internal/config"
	"github.com/presssence/presssence-api/internal/domain/social"
	"github.com/presssence/presssence-api/pkg/apperror"
)

type spotifyClient struct {
	httpClient   *http.Client
	apiBaseURL   string
	tokenURL     string
	clientID     string
	clientSecret string

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewSpotifyClient(cfg config.Config) service.MetadataFetcher {
	return &spotifyClient{
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		apiBaseURL:   "https://api.spotify.com/v1",
		tokenURL:     "https://accounts.spotify.com/api/token",
		clientID:     cfg.Spotify.ClientID,
		clientSecret: cfg.Spotify.ClientSecret,
	}
}

func (c *spotifyClient) Platform() string { return "spotify" }

type spotifyTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type spotifyUserResponse struct {
	DisplayName string `json:"display_name"`
	Followers   struct {
		Total int `json:"total"`
	} `json:"followers"`
	Images []struct {
		URL string `json:"url"`
	} `json:"images"`
	ExternalURLs struct {
		Spotify string `json:"spotify"`
	} `json:"external_urls"`
}

// token returns a cached client-credentials token, refreshing when it is
// within a minute of expiry.
func (c *spotifyClient) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry.Add(-time.Minute)) {
		return c.accessToken, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", apperror.NewInternal("failed to build spotify token request", err)
	}
	basic := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperror.NewInternal("spotify token request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apperror.NewInternal(fmt.Sprintf("spotify token endpoint returned status %d", resp.StatusCode), nil)
	}

	var tok spotifyTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", apperror.NewInternal("failed to decode spotify token response", err)
	}

	c.accessToken = tok.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	return c.accessToken, nil
}

func (c *spotifyClient) Fetch(ctx context.Context, identity string) (*social.Metadata, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/users/%s", c.apiBaseURL, url.PathEscape(identity)), nil)
	if err != nil {
		return nil, apperror.NewInternal("failed to build spotify request", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperror.NewInternal("spotify request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, apperror.NewNotFound("spotify user", identity)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperror.NewInternal(fmt.Sprintf("spotify returned status %d", resp.StatusCode), nil)
	}

	var u spotifyUserResponse
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, apperror.NewInternal("failed to decode spotify response", err)
	}

	avatar := ""
	if len(u.Images) > 0 {
		avatar = u.Images[0].URL
	}

	return &social.Metadata{
		Platform: "spotify",
		Identity: identity,
		Spotify: &social.SpotifyProfile{
			DisplayName: u.DisplayName,
			Followers:   u.Followers.Total,
			Avatar:      avatar,
			ProfileURL:  u.ExternalURLs.Spotify,
		},
	}, nil
}
