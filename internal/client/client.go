// Package client provides a REST client for the KeyMap server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/raphaelgruber/keymap/internal/models"
	"github.com/raphaelgruber/keymap/internal/schema"
)

// sessionCookie mirrors the cookie name the server issues on login.
const sessionCookie = "session_id"

// Client talks to the KeyMap HTTP API. A session ID, when set, is sent as
// the session cookie on every request.
type Client struct {
	baseURL    string
	sessionID  string
	httpClient *http.Client
}

// New creates a client for the given server base URL.
// If baseURL is empty, uses KEYMAP_SERVER_URL env var or localhost:8090.
// The session is taken from KEYMAP_SESSION_ID unless set via SetSession.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("KEYMAP_SERVER_URL")
	}
	if baseURL == "" {
		baseURL = "http://localhost:8090"
	}

	timeout := 2 * time.Minute // chat turns wait on the model
	if t := os.Getenv("KEYMAP_CLIENT_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			timeout = d
		}
	}

	return &Client{
		baseURL:   baseURL,
		sessionID: os.Getenv("KEYMAP_SESSION_ID"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SetSession replaces the session used for authenticated calls.
func (c *Client) SetSession(sessionID string) {
	c.sessionID = sessionID
}

// Session returns the current session ID, if any.
func (c *Client) Session() string {
	return c.sessionID
}

type apiError struct {
	Error string `json:"error"`
}

// do sends a JSON request and decodes a JSON response into result.
// It returns the raw response for callers that need headers or cookies.
func (c *Client) do(ctx context.Context, method, path string, body, result any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.sessionID != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: c.sessionID})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return resp, fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return resp, fmt.Errorf("server returned %d", resp.StatusCode)
	}

	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return resp, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp, nil
}

// Login authenticates and stores the resulting session on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	resp, err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &user)
	if err != nil {
		return nil, err
	}

	for _, cookie := range resp.Cookies() {
		if cookie.Name == sessionCookie {
			c.sessionID = cookie.Value
		}
	}
	return &user, nil
}

// Projects lists the logged-in user's projects.
func (c *Client) Projects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if _, err := c.do(ctx, http.MethodGet, "/api/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// CreateProject starts a new project.
func (c *Client) CreateProject(ctx context.Context, title string) (*models.Project, error) {
	var project models.Project
	if _, err := c.do(ctx, http.MethodPost, "/api/projects", map[string]string{"title": title}, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// Turn is one chat-turn response.
type Turn struct {
	Response string         `json:"response"`
	Schema   *models.Schema `json:"schema,omitempty"`
}

// SendMessage runs a chat turn against a stored project.
func (c *Client) SendMessage(ctx context.Context, projectID, message string) (*Turn, error) {
	var turn Turn
	if _, err := c.do(ctx, http.MethodPost, "/api/chat/"+projectID, map[string]string{"message": message}, &turn); err != nil {
		return nil, err
	}
	return &turn, nil
}

// GuestTurn is the response of one stateless guest chat turn.
type GuestTurn struct {
	Response string           `json:"response"`
	Messages []models.Message `json:"messages"`
	Schema   *models.Schema   `json:"schema,omitempty"`
}

// GuestChat runs a stateless chat turn; the caller carries the transcript.
func (c *Client) GuestChat(ctx context.Context, transcript []models.Message, message string) (*GuestTurn, error) {
	var turn GuestTurn
	_, err := c.do(ctx, http.MethodPost, "/api/chat/guest", map[string]any{
		"message":  message,
		"messages": transcript,
	}, &turn)
	if err != nil {
		return nil, err
	}
	return &turn, nil
}

// ShareView is the read-only share payload.
type ShareView struct {
	ID            string                `json:"id"`
	Title         string                `json:"title"`
	Schema        *models.Schema        `json:"schema,omitempty"`
	Relationships []schema.Relationship `json:"relationships"`
}

// View fetches a project's read-only share payload.
func (c *Client) View(ctx context.Context, projectID string) (*ShareView, error) {
	var view ShareView
	if _, err := c.do(ctx, http.MethodGet, "/api/projects/"+projectID+"/view", nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// Export downloads a project's schema code. Returns the server-suggested
// filename and the code text.
func (c *Client) Export(ctx context.Context, projectID string) (filename, code string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/projects/"+projectID+"/export", nil)
	if err != nil {
		return "", "", fmt.Errorf("create request: %w", err)
	}
	if c.sessionID != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: c.sessionID})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return "", "", fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return "", "", fmt.Errorf("server returned %d", resp.StatusCode)
	}

	filename = filenameFromDisposition(resp.Header.Get("Content-Disposition"))
	return filename, string(data), nil
}

// Health checks server liveness.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/health", nil, nil)
	return err
}

func filenameFromDisposition(header string) string {
	const marker = `filename="`
	start := strings.Index(header, marker)
	if start < 0 {
		return "schema.sql"
	}
	rest := header[start+len(marker):]
	end := strings.IndexByte(rest, '"')
	if end < 0 {
		return "schema.sql"
	}
	return rest[:end]
}
