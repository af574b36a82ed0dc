// Package remote talks to the schedule REST API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/claude/liftboard/internal/models"
	"github.com/claude/liftboard/internal/store"
)

// DefaultTimeout bounds every request when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Client implements store.Store and store.Authenticator against the REST API.
// Requests carry the bearer token found in the context (store.WithToken),
// falling back to the token the client was created with.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Compile-time checks.
var (
	_ store.Store         = (*Client)(nil)
	_ store.Authenticator = (*Client)(nil)
)

// NewClient creates a Client targeting the given base URL (e.g.
// "http://localhost:5000/api").
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Token is the client's default bearer token.
func (c *Client) Token() string { return c.token }

// apiError is the error body the API returns.
type apiError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("remote: encode %s: %w", path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("remote: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	tok := store.TokenFromContext(ctx)
	if tok == "" {
		tok = c.token
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("remote: %s %s: %w: %w", method, path, store.ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("remote: read body: %w: %w", store.ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(method, path, resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("remote: decode %s: %w: %w", path, store.ErrTransport, err)
	}
	return nil
}

func statusError(method, path string, status int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	var ae apiError
	if json.Unmarshal(body, &ae) == nil {
		switch {
		case ae.Message != "":
			msg = ae.Message
		case ae.Error != "":
			msg = ae.Error
		}
	}

	var kind error
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = store.ErrUnauthorized
	case http.StatusNotFound:
		kind = store.ErrNotFound
	default:
		kind = store.ErrTransport
	}
	return fmt.Errorf("remote: %s %s returned %d: %w: %s", method, path, status, kind, msg)
}

func escape(id string) string { return url.PathEscape(id) }

// --- Schedules ---

// FetchSchedules returns all schedules of the authenticated user.
func (c *Client) FetchSchedules(ctx context.Context) ([]models.Schedule, error) {
	var out []models.Schedule
	if err := c.do(ctx, http.MethodGet, "/schedules", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Schedule{}
	}
	return out, nil
}

// GetSchedule finds one schedule. The API has no single-schedule endpoint,
// so this filters the full list.
func (c *Client) GetSchedule(ctx context.Context, id string) (models.Schedule, error) {
	all, err := c.FetchSchedules(ctx)
	if err != nil {
		return models.Schedule{}, err
	}
	for _, s := range all {
		if s.ID == id {
			return s, nil
		}
	}
	return models.Schedule{}, fmt.Errorf("remote: schedule %s: %w", id, store.ErrNotFound)
}

// CreateSchedule posts a new schedule and returns it with its server-assigned id.
func (c *Client) CreateSchedule(ctx context.Context, s models.Schedule) (models.Schedule, error) {
	in := struct {
		Name     string           `json:"name"`
		Workouts []models.Workout `json:"workouts"`
	}{Name: s.Name, Workouts: s.Workouts}
	if in.Workouts == nil {
		in.Workouts = []models.Workout{}
	}

	var out models.Schedule
	if err := c.do(ctx, http.MethodPost, "/schedules", in, &out); err != nil {
		return models.Schedule{}, err
	}
	return out, nil
}

// UpdateSchedule applies a partial update.
func (c *Client) UpdateSchedule(ctx context.Context, id string, patch models.SchedulePatch) (models.Schedule, error) {
	var out models.Schedule
	if err := c.do(ctx, http.MethodPut, "/schedules/"+escape(id), patch, &out); err != nil {
		return models.Schedule{}, err
	}
	return out, nil
}

// DeleteSchedule removes a schedule.
func (c *Client) DeleteSchedule(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/schedules/"+escape(id), nil, nil)
}

// --- Exercise library ---

func (c *Client) ListExercises(ctx context.Context) ([]models.ExerciseDef, error) {
	var out []models.ExerciseDef
	if err := c.do(ctx, http.MethodGet, "/exercises", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.ExerciseDef{}
	}
	return out, nil
}

func (c *Client) GetExercise(ctx context.Context, id string) (models.ExerciseDef, error) {
	var out models.ExerciseDef
	if err := c.do(ctx, http.MethodGet, "/exercises/"+escape(id), nil, &out); err != nil {
		return models.ExerciseDef{}, err
	}
	return out, nil
}

func (c *Client) CreateExercise(ctx context.Context, e models.ExerciseDef) (models.ExerciseDef, error) {
	var out models.ExerciseDef
	if err := c.do(ctx, http.MethodPost, "/exercises", exerciseBody(e), &out); err != nil {
		return models.ExerciseDef{}, err
	}
	return out, nil
}

func (c *Client) UpdateExercise(ctx context.Context, id string, e models.ExerciseDef) (models.ExerciseDef, error) {
	var out models.ExerciseDef
	if err := c.do(ctx, http.MethodPut, "/exercises/"+escape(id), exerciseBody(e), &out); err != nil {
		return models.ExerciseDef{}, err
	}
	return out, nil
}

func (c *Client) DeleteExercise(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/exercises/"+escape(id), nil, nil)
}

func exerciseBody(e models.ExerciseDef) map[string]string {
	return map[string]string{
		"name":       e.Name,
		"category":   e.Category,
		"equipment":  e.Equipment,
		"difficulty": e.Difficulty,
	}
}

// --- Auth ---

// authResponse is the flat login/register body: the token next to the user fields.
type authResponse struct {
	Token    string       `json:"token"`
	ID       string       `json:"id"`
	LegacyID string       `json:"_id"`
	Name     string       `json:"name"`
	Email    string       `json:"email"`
	User     *models.User `json:"user"`
}

func (r authResponse) session() models.Session {
	if r.User != nil {
		return models.Session{Token: r.Token, User: *r.User}
	}
	id := r.ID
	if id == "" {
		id = r.LegacyID
	}
	return models.Session{Token: r.Token, User: models.User{ID: id, Name: r.Name, Email: r.Email}}
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (models.Session, error) {
	return c.authenticate(ctx, "/auth/login", map[string]string{"email": email, "password": password})
}

// Register creates an account and returns its bearer token.
func (c *Client) Register(ctx context.Context, name, email, password string) (models.Session, error) {
	return c.authenticate(ctx, "/auth/register", map[string]string{"name": name, "email": email, "password": password})
}

func (c *Client) authenticate(ctx context.Context, path string, in map[string]string) (models.Session, error) {
	var out authResponse
	if err := c.do(ctx, http.MethodPost, path, in, &out); err != nil {
		return models.Session{}, err
	}
	if out.Token == "" {
		return models.Session{}, errors.New("remote: auth response has no token")
	}
	return out.session(), nil
}

// Me returns the user the current token belongs to.
func (c *Client) Me(ctx context.Context) (models.User, error) {
	var out authResponse
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return models.User{}, err
	}
	return out.session().User, nil
}
