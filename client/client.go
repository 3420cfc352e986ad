// Package client is the Go SDK for the Presssence API. Every semantic
// change maps to one minimal PUT; the caller reconciles local state against
// the aggregate the server returns.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
)

// APIError carries the server's error envelope; errors.Is works against the
// sentinel matching the status code.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusBadRequest:
		return ErrInvalidInput
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	default:
		return nil
	}
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken installs the bearer token used for authenticated calls.
func (c *Client) SetToken(token string) { c.token = token }

// SocialMedia is the wire shape of the social block: every platform key is
// present as a flat string, plus an "order" array.
type SocialMedia struct {
	Links map[string]string
	Order []string
}

func (s SocialMedia) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.Links)+1)
	for platform, link := range s.Links {
		out[platform] = link
	}
	out["order"] = s.Order
	return json.Marshal(out)
}

func (s *SocialMedia) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	s.Links = make(map[string]string, len(raw))
	for key, value := range raw {
		if key == "order" {
			if err := json.Unmarshal(value, &s.Order); err != nil {
				return err
			}
			continue
		}
		var link string
		if err := json.Unmarshal(value, &link); err != nil {
			return err
		}
		s.Links[key] = link
	}
	return nil
}

type Project struct {
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

type Portfolio struct {
	ID          uuid.UUID   `json:"id"`
	Username    string      `json:"portfolioUsername"`
	FullName    string      `json:"fullName"`
	Profession  string      `json:"profession"`
	Headline    string      `json:"headline"`
	Theme       string      `json:"theme"`
	CoverImage  string      `json:"coverImage"`
	Features    []string    `json:"features"`
	Projects    []Project   `json:"projects"`
	SocialMedia SocialMedia `json:"socialMedia"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

type NewProject struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
	Timeline    string `json:"timeline"`
	CoverImage  string `json:"coverImage"`
}

type CreatePortfolioInput struct {
	Username    string            `json:"portfolioUsername"`
	FullName    string            `json:"fullName"`
	Profession  string            `json:"profession"`
	Headline    string            `json:"headline,omitempty"`
	Theme       string            `json:"theme,omitempty"`
	Features    []string          `json:"features"`
	Projects    []NewProject      `json:"projects"`
	SocialMedia map[string]string `json:"socialMedia,omitempty"`
}

// ProjectPatch is one project inside an update. A nil ID creates a project;
// a nil Position means "use the array index".
type ProjectPatch struct {
	ID          *uuid.UUID `json:"id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Link        string     `json:"link,omitempty"`
	Timeline    string     `json:"timeline,omitempty"`
	CoverImage  string     `json:"coverImage,omitempty"`
	Position    *int       `json:"position,omitempty"`
}

// UpdatePatch is a partial update. Nil fields are omitted from the body and
// leave their section of the aggregate untouched.
type UpdatePatch struct {
	FullName         *string           `json:"fullName,omitempty"`
	Profession       *string           `json:"profession,omitempty"`
	Headline         *string           `json:"headline,omitempty"`
	Theme            *string           `json:"theme,omitempty"`
	CoverImage       *string           `json:"coverImage,omitempty"`
	Features         *[]string         `json:"features,omitempty"`
	Projects         *[]ProjectPatch   `json:"projects,omitempty"`
	SocialMedia      map[string]string `json:"socialMedia,omitempty"`
	SocialMediaOrder *[]string         `json:"socialMediaOrder,omitempty"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var envelope struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		msg := envelope.Message
		if msg == "" {
			msg = envelope.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response body: %w", err)
		}
	}
	return nil
}

type authResponse struct {
	UserID      uuid.UUID `json:"userId"`
	AccessToken string    `json:"accessToken"`
}

// Login authenticates and installs the returned token on the client.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var resp authResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login",
		map[string]string{"email": email, "password": password}, &resp)
	if err != nil {
		return err
	}
	c.token = resp.AccessToken
	return nil
}

// Register creates an account and installs the returned token on the client.
func (c *Client) Register(ctx context.Context, email, name, password string) (uuid.UUID, error) {
	var resp authResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/register",
		map[string]string{"email": email, "name": name, "password": password}, &resp)
	if err != nil {
		return uuid.Nil, err
	}
	c.token = resp.AccessToken
	return resp.UserID, nil
}

func (c *Client) CreatePortfolio(ctx context.Context, input CreatePortfolioInput) (*Portfolio, error) {
	var p Portfolio
	if err := c.do(ctx, http.MethodPost, "/api/portfolio", input, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) GetPortfolio(ctx context.Context, username string) (*Portfolio, error) {
	var p Portfolio
	path := "/api/portfolio?portfolioUsername=" + url.QueryEscape(username)
	if err := c.do(ctx, http.MethodGet, path, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePortfolio sends one partial update and returns the canonical merged
// aggregate the server persisted.
func (c *Client) UpdatePortfolio(ctx context.Context, username string, patch UpdatePatch) (*Portfolio, error) {
	var p Portfolio
	path := "/api/portfolio?portfolioUsername=" + url.QueryEscape(username)
	if err := c.do(ctx, http.MethodPut, path, patch, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeleteProject(ctx context.Context, projectID uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/projects/"+projectID.String(), nil, nil)
}
