package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spaghettifunk/geomstudio/engine/core"
)

const defaultTimeout = 10 * time.Second

// Client talks to the scene backend. It is safe for concurrent use.
type Client struct {
	baseURL *url.URL
	http    *http.Client

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("func persistence.NewClient - invalid base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("func persistence.NewClient - base url %q must be absolute", baseURL)
	}
	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// LoadToken reads a token saved by SaveToken. A missing file leaves the
// client logged out.
func (c *Client) LoadToken(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	c.SetToken(strings.TrimSpace(string(data)))
	return nil
}

func (c *Client) SaveToken(path string) error {
	return os.WriteFile(path, []byte(c.Token()+"\n"), 0o600)
}

func (c *Client) Signup(ctx context.Context, username, email, password string) (*AuthResponse, error) {
	const op = "Signup"
	if username == "" || email == "" || password == "" {
		return nil, localValidation(op, "username, email and password are required")
	}
	body := map[string]string{"username": username, "email": email, "password": password}
	return c.authenticate(ctx, op, "/api/auth/signup", body)
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	const op = "Login"
	if email == "" || password == "" {
		return nil, localValidation(op, "email and password are required")
	}
	body := map[string]string{"email": email, "password": password}
	return c.authenticate(ctx, op, "/api/auth/login", body)
}

func (c *Client) authenticate(ctx context.Context, op, path string, body any) (*AuthResponse, error) {
	out := &AuthResponse{}
	if err := c.do(ctx, op, http.MethodPost, path, nil, body, false, out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, &Error{Kind: KindServer, Op: op, Message: "response carries no token"}
	}
	c.SetToken(out.Token)
	core.LogInfo("logged in as %s", out.User.Username)
	return out, nil
}

// Me returns the profile of the logged in user.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "Me", http.MethodGet, "/api/auth/me", nil, nil, true, &raw); err != nil {
		return nil, err
	}
	wrapped := struct {
		User *User `json:"user"`
	}{}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.User != nil {
		return wrapped.User, nil
	}
	u := &User{}
	if err := json.Unmarshal(raw, u); err != nil {
		return nil, &Error{Kind: KindServer, Op: "Me", Message: "malformed profile", Err: err}
	}
	return u, nil
}

/**
 * @brief Persists a new scene. The config is validated against the shared
 * schema first, so a bad config never leaves the process.
 */
func (c *Client) SaveScene(ctx context.Context, in SceneInput) (*SaveResult, error) {
	const op = "SaveScene"
	body, err := sceneRequest(op, in)
	if err != nil {
		return nil, err
	}
	out := &SaveResult{}
	if err := c.do(ctx, op, http.MethodPost, "/api/scenes", nil, body, true, out); err != nil {
		return nil, err
	}
	if len(out.UnlockedAnimations) > 0 {
		core.LogInfo("unlocked animations: %v", out.NewlyUnlocked())
	}
	return out, nil
}

func (c *Client) UpdateScene(ctx context.Context, id string, in SceneInput) (*Scene, error) {
	const op = "UpdateScene"
	if id == "" {
		return nil, localValidation(op, "scene id is required")
	}
	body, err := sceneRequest(op, in)
	if err != nil {
		return nil, err
	}
	out := &Scene{}
	if err := c.do(ctx, op, http.MethodPut, "/api/scenes/"+url.PathEscape(id), nil, body, true, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListScenes(ctx context.Context, filter ListFilter) ([]Scene, error) {
	q := url.Values{}
	if filter.UserID != "" {
		q.Set("userId", filter.UserID)
	}
	if filter.IsPublic != nil {
		q.Set("isPublic", strconv.FormatBool(*filter.IsPublic))
	}
	var out []Scene
	if err := c.do(ctx, "ListScenes", http.MethodGet, "/api/scenes", q, nil, false, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) MyScenes(ctx context.Context) ([]Scene, error) {
	var out []Scene
	if err := c.do(ctx, "MyScenes", http.MethodGet, "/api/scenes/my-scenes", nil, nil, true, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetScene fetches one scene. The backend counts it as a view.
func (c *Client) GetScene(ctx context.Context, id string) (*Scene, error) {
	const op = "GetScene"
	if id == "" {
		return nil, localValidation(op, "scene id is required")
	}
	out := &Scene{}
	if err := c.do(ctx, op, http.MethodGet, "/api/scenes/"+url.PathEscape(id), nil, nil, false, out); err != nil {
		return nil, err
	}
	return out, nil
}

func sceneRequest(op string, in SceneInput) (*sceneBody, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, localValidation(op, "name is required")
	}
	if err := in.Config.Validate(); err != nil {
		return nil, &Error{Kind: KindValidation, Op: op, Message: err.Error(), Err: err}
	}
	cfg, err := in.Config.ToMap()
	if err != nil {
		return nil, &Error{Kind: KindValidation, Op: op, Err: err}
	}
	return &sceneBody{
		Name:        in.Name,
		Description: in.Description,
		Config:      cfg,
		IsPublic:    in.IsPublic,
	}, nil
}

func localValidation(op, msg string) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: msg}
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, in any, auth bool, out any) error {
	token := c.Token()
	if auth && token == "" {
		return &Error{Kind: KindAuth, Op: op, Message: "not logged in"}
	}

	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return &Error{Kind: KindValidation, Op: op, Err: err}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return &Error{Kind: KindUnknown, Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	core.LogDebug("%s %s", method, u.Redacted())
	resp, err := c.http.Do(req)
	if err != nil {
		e := &Error{Kind: KindNetwork, Op: op, Err: err}
		core.LogError("%s", e)
		return e
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindNetwork, Op: op, Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e := &Error{Kind: kindFromStatus(resp.StatusCode), Op: op, Status: resp.StatusCode}
		eb := errorBody{}
		if json.Unmarshal(data, &eb) == nil {
			e.Message = eb.Message
			if e.Message == "" {
				e.Message = eb.Error
			}
		}
		if e.Message == "" {
			e.Message = http.StatusText(resp.StatusCode)
		}
		core.LogError("%s", e)
		return e
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Kind: KindServer, Op: op, Status: resp.StatusCode, Message: "malformed response", Err: err}
	}
	return nil
}
