package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nerrad567/ecobuild-core/internal/building"
	"github.com/nerrad567/ecobuild-core/internal/session"
)

const (
	defaultTimeout = 30 * time.Second

	// maxResponseBytes bounds how much of a response body is read.
	maxResponseBytes = 4 << 20
)

// Client talks to the EcoBuild API over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	now     func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// New creates a client for the API rooted at baseURL, e.g.
// "http://localhost:8080". A trailing slash is ignored.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message   string `json:"message"`
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	Token     string `json:"token"`
	ExpiresIn int    `json:"expiresIn"`
}

type buildingRequest struct {
	BuildingData   building.BuildingData   `json:"buildingData"`
	AnalysisResult building.AnalysisResult `json:"analysisResult"`
}

type buildingList struct {
	Buildings []building.SavedBuilding `json:"buildings"`
	Count     int                      `json:"count"`
}

// Register creates an account. A taken username returns an *APIError with
// message "User already exists".
func (c *Client) Register(ctx context.Context, username, password string) error {
	return c.do(ctx, http.MethodPost, "/api/register", "", credentials{username, password}, nil)
}

// Login signs in and returns the session to pass to the other calls.
//
// Returns:
//   - *session.Session: user, token and expiry
//   - error: *APIError "User not found" (404) or "Incorrect password" (401),
//     or ErrUnavailable
func (c *Client) Login(ctx context.Context, username, password string) (*session.Session, error) {
	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/api/login", "", credentials{username, password}, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" || resp.UserID == "" {
		return nil, fmt.Errorf("%w: login response missing token", ErrUnavailable)
	}

	s := &session.Session{
		UserID:   resp.UserID,
		Username: resp.Username,
		Token:    resp.Token,
	}
	if s.Username == "" {
		s.Username = username
	}
	if resp.ExpiresIn > 0 {
		s.ExpiresAt = c.now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	}
	return s, nil
}

// Logout revokes the session's token on the server.
func (c *Client) Logout(ctx context.Context, s session.Session) error {
	return c.do(ctx, http.MethodPost, "/api/logout", s.Token, nil, nil)
}

// SaveBuildingAnalysis stores a new building with its analysis.
func (c *Client) SaveBuildingAnalysis(ctx context.Context, s session.Session, data building.BuildingData, result building.AnalysisResult) (*building.SavedBuilding, error) {
	var saved building.SavedBuilding
	err := c.do(ctx, http.MethodPost, "/api/buildings", s.Token,
		buildingRequest{BuildingData: data, AnalysisResult: result}, &saved)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// UpdateBuilding replaces the data and analysis of building id.
func (c *Client) UpdateBuilding(ctx context.Context, s session.Session, id string, data building.BuildingData, result building.AnalysisResult) (*building.SavedBuilding, error) {
	var saved building.SavedBuilding
	err := c.do(ctx, http.MethodPut, "/api/buildings/"+url.PathEscape(id), s.Token,
		buildingRequest{BuildingData: data, AnalysisResult: result}, &saved)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// ListBuildings returns the session user's buildings, newest first.
func (c *Client) ListBuildings(ctx context.Context, s session.Session) ([]building.SavedBuilding, error) {
	var list buildingList
	if err := c.do(ctx, http.MethodGet, "/api/buildings", s.Token, nil, &list); err != nil {
		return nil, err
	}
	if list.Buildings == nil {
		list.Buildings = []building.SavedBuilding{}
	}
	return list.Buildings, nil
}

// do sends one JSON request and decodes a 2xx response into out when out
// is non-nil.
func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: reading response: %w", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decoding response: %w", ErrUnavailable, err)
	}
	return nil
}

func decodeError(status int, raw []byte) error {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || body.Error == "" {
		return &APIError{Status: status, Message: http.StatusText(status)}
	}
	return &APIError{Status: status, Message: body.Error}
}
