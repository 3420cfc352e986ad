package social

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUsernameFromURL(t *testing.T) {
	cases := []struct {
		platform string
		url      string
		want     string
	}{
		{"github", "https://github.com/johndoe", "johndoe"},
		{"github", "https://github.com/johndoe/repo", "johndoe"},
		{"twitter", "https://twitter.com/johndoe", "johndoe"},
		{"instagram", "https://instagram.com/johndoe/", "johndoe"},
		{"medium", "https://medium.com/@johndoe", "@johndoe"},
		{"youtube", "https://youtube.com/@johndoe", "johndoe"},
		{"github", "not a url", ""},
		{"github", "https://github.com/", ""},
		{"website", "https://example.com/about", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, UsernameFromURL(tc.platform, tc.url), "%s %s", tc.platform, tc.url)
	}
}

func TestSpotifyUserIDFromURL(t *testing.T) {
	assert.Equal(t, "31abc", SpotifyUserIDFromURL("https://open.spotify.com/user/31abc"))
	assert.Equal(t, "31abc", SpotifyUserIDFromURL("https://open.spotify.com/user/31abc?si=xyz"))
	assert.Equal(t, "", SpotifyUserIDFromURL("https://open.spotify.com/playlist/31abc"))
	assert.Equal(t, "", SpotifyUserIDFromURL("https://open.spotify.com/"))
}
