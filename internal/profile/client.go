package profile

import (
	"betcodes/internal/models"
	"betcodes/internal/structures"
	"context"
	"errors"
	"fmt"
	json "github.com/goccy/go-json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

var ErrNotLoggedIn = errors.New("profile: user is not logged in")

const maxProfileBody = 1 << 20

// Client reads the signed-in user's profile from the backend.
type Client interface {
	Fetch(ctx context.Context) (*models.Profile, error)
	IsUserLoggedIn(ctx context.Context) bool
	GetUsername(ctx context.Context) (string, bool)
}

// profileFreshness bounds how long IsUserLoggedIn and GetUsername answer
// from the last fetched profile.
const profileFreshness = 30 * time.Second

type RESTClient struct {
	baseURL string
	token   string
	http    *http.Client

	mu        sync.Mutex
	last      *models.Profile
	fetchedAt time.Time
	now       func() time.Time
}

func NewRESTClient(conf *structures.Config) Client {
	timeout := conf.Backend.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RESTClient{
		baseURL: strings.TrimRight(conf.Backend.BaseUrl, "/"),
		token:   conf.Backend.Token,
		http:    &http.Client{Timeout: timeout},
		now:     time.Now,
	}
}

// Fetch always asks the backend and refreshes the remembered profile.
func (c *RESTClient) Fetch(ctx context.Context) (*models.Profile, error) {
	p, err := c.fetch(ctx)
	switch {
	case err == nil:
		c.remember(p)
	case errors.Is(err, ErrNotLoggedIn):
		c.remember(nil)
	}
	return p, err
}

func (c *RESTClient) fetch(ctx context.Context) (*models.Profile, error) {
	if c.token == "" {
		return nil, ErrNotLoggedIn
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/profile", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, ErrNotLoggedIn
	case resp.StatusCode != http.StatusOK:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("fetch profile: unexpected status %d", resp.StatusCode)
	}

	var p models.Profile
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxProfileBody)).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &p, nil
}

func (c *RESTClient) remember(p *models.Profile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = p
	c.fetchedAt = c.now()
}

// current returns the remembered profile while it is fresh, fetching
// otherwise. A nil profile means signed out.
func (c *RESTClient) current(ctx context.Context) *models.Profile {
	c.mu.Lock()
	if !c.fetchedAt.IsZero() && c.now().Sub(c.fetchedAt) < profileFreshness {
		p := c.last
		c.mu.Unlock()
		return p
	}
	c.mu.Unlock()

	p, err := c.Fetch(ctx)
	if err != nil {
		return nil
	}
	return p
}

func (c *RESTClient) IsUserLoggedIn(ctx context.Context) bool {
	p := c.current(ctx)
	return p != nil && p.Username != ""
}

func (c *RESTClient) GetUsername(ctx context.Context) (string, bool) {
	p := c.current(ctx)
	if p == nil || p.Username == "" {
		return "", false
	}
	return p.Username, true
}
