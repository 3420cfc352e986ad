package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdatePortfolio_SendsMinimalBody(t *testing.T) {
	var captured map[string]json.RawMessage

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "ada", r.URL.Query().Get("portfolioUsername"))
		require.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"portfolioUsername": "ada",
			"headline":          "Ships things",
			"socialMedia":       map[string]any{"github": "", "order": []string{}},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("tok-123"))
	headline := "Ships things"
	p, err := c.UpdatePortfolio(context.Background(), "ada", UpdatePatch{Headline: &headline})
	require.NoError(t, err)

	// only the touched key travels
	assert.Len(t, captured, 1)
	assert.Contains(t, captured, "headline")
	assert.Equal(t, "Ships things", p.Headline)
}

func TestGetPortfolio_DecodesSocialMedia(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"portfolioUsername": "ada",
			"fullName":          "Ada Lovelace",
			"socialMedia": map[string]any{
				"github":  "https://github.com/ada",
				"twitter": "",
				"order":   []string{"github"},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	p, err := c.GetPortfolio(context.Background(), "ada")
	require.NoError(t, err)

	assert.Equal(t, "https://github.com/ada", p.SocialMedia.Links["github"])
	assert.Equal(t, "", p.SocialMedia.Links["twitter"])
	assert.Equal(t, []string{"github"}, p.SocialMedia.Order)
}

func TestErrorEnvelopeMapsToSentinels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error":   "not found",
			"message": "portfolio not found",
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.GetPortfolio(context.Background(), "ghost")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "portfolio not found", apiErr.Message)
}

func TestDeleteProject(t *testing.T) {
	projectID := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/api/projects/"+projectID.String(), r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("tok"))
	assert.NoError(t, c.DeleteProject(context.Background(), projectID))
}

func TestLogin_InstallsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/login" {
			_ = json.NewEncoder(w).Encode(map[string]string{"accessToken": "tok-xyz"})
			return
		}
		assert.Equal(t, "Bearer tok-xyz", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{"portfolioUsername": "ada"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	require.NoError(t, c.Login(context.Background(), "ada@example.com", "pw"))
	_, err := c.GetPortfolio(context.Background(), "ada")
	require.NoError(t, err)
}
