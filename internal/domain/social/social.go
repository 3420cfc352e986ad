package social

import (
	"context"
	"net/url"
	"strings"
	"time"
)

// GitHubProfile mirrors the subset of the GitHub users API the page renders.
type GitHubProfile struct {
	Name      string `json:"name"`
	Username  string `json:"username"`
	Followers int    `json:"followers"`
	Following int    `json:"following"`
	Bio       string `json:"bio"`
	Avatar    string `json:"avatar"`
}

// SpotifyProfile mirrors the public Spotify user object.
type SpotifyProfile struct {
	DisplayName string `json:"displayName"`
	Followers   int    `json:"followers"`
	Avatar      string `json:"avatar"`
	ProfileURL  string `json:"profileUrl"`
}

// Metadata is one cached per-platform profile summary. It is ephemeral:
// rebuilt from third-party APIs, never written back to the portfolio.
type Metadata struct {
	Platform string          `json:"platform"`
	Identity string          `json:"identity"`
	GitHub   *GitHubProfile  `json:"github,omitempty"`
	Spotify  *SpotifyProfile `json:"spotifyData,omitempty"`
}

type Cache interface {
	Get(ctx context.Context, platform, identity string) (*Metadata, error)
	Set(ctx context.Context, meta *Metadata, ttl time.Duration) error
}

// UsernameFromURL extracts the platform username from a profile URL, e.g.
// github.com/johndoe -> johndoe. Returns "" when nothing can be detected.
func UsernameFromURL(platform, rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	segments := strings.Split(strings.TrimPrefix(u.Path, "/"), "/")
	if len(segments) == 0 || segments[0] == "" {
		return ""
	}

	switch platform {
	case "github", "twitter", "instagram", "medium":
		return segments[0]
	case "youtube":
		// youtube.com/@handle
		return strings.TrimPrefix(segments[0], "@")
	default:
		return ""
	}
}

// SpotifyUserIDFromURL extracts the user id from open.spotify.com/user/{id}.
func SpotifyUserIDFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	segments := strings.Split(strings.TrimPrefix(u.Path, "/"), "/")
	if len(segments) >= 2 && segments[0] == "user" {
		return segments[1]
	}
	return ""
}
