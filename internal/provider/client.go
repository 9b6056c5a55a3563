// Package provider implements the upstream access layer: it owns the
// bearer credential for the remote music catalog, refreshes it when it
// expires, and executes catalog requests with transparent rate-limit
// recovery. Token state never leaves this package.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/AdrienCambier1/ng-music-platform/internal/model"
)

const (
	defaultHTTPTimeout = 10 * time.Second

	// Wait applied when a 429 carries no usable Retry-After.
	defaultRetryWait = 2 * time.Second
	// Hard ceiling on any single rate-limit wait.
	maxRetryWait = 60 * time.Second
)

// Config carries the provider endpoints and credentials.
type Config struct {
	TokenURL     string
	BaseURL      string
	ClientID     string
	ClientSecret string
}

type accessToken struct {
	value     string
	expiresAt time.Time
}

func (t accessToken) valid(now time.Time) bool {
	return t.value != "" && now.Before(t.expiresAt)
}

// Client is the upstream access layer. All methods are safe for
// concurrent use; the token is owned by the instance, not a global.
type Client struct {
	cfg   Config
	httpc *http.Client
	log   *zap.Logger
	now   func() time.Time
	sleep func(context.Context, time.Duration) error

	mu    sync.Mutex
	token accessToken
}

// NewClient builds a Client. The base URL is normalized without a
// trailing slash.
func NewClient(cfg Config, log *zap.Logger) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		cfg:   cfg,
		httpc: &http.Client{Timeout: defaultHTTPTimeout},
		log:   log,
		now:   time.Now,
		sleep: sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// acquireToken exchanges the client credentials for a fresh bearer token.
// Caller must hold c.mu.
func (c *Client) acquireToken(ctx context.Context) error {
	form := url.Values{"grant_type": {"client_credentials"}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAuth, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: token request: %v", ErrAuth, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: token status=%d", ErrAuth, resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return fmt.Errorf("%w: token decode: %v", ErrAuth, err)
	}
	if tr.AccessToken == "" {
		return fmt.Errorf("%w: empty access_token", ErrAuth)
	}

	c.token = accessToken{
		value:     tr.AccessToken,
		expiresAt: c.now().Add(time.Duration(tr.ExpiresIn) * time.Second),
	}
	c.log.Debug("access token acquired", zap.Time("expires_at", c.token.expiresAt))
	return nil
}

// ensureValidToken returns the current bearer value, acquiring a new one
// first if none is held or the held one has expired.
func (c *Client) ensureValidToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token.valid(c.now()) {
		return c.token.value, nil
	}
	if err := c.acquireToken(ctx); err != nil {
		return "", err
	}
	return c.token.value, nil
}

// invalidateToken drops the held token so the next request re-acquires.
func (c *Client) invalidateToken() {
	c.mu.Lock()
	c.token = accessToken{}
	c.mu.Unlock()
}

// FetchCollection retrieves up to limit catalog items.
func (c *Client) FetchCollection(ctx context.Context, limit int) ([]model.Product, error) {
	u := fmt.Sprintf("%s/catalog?limit=%d", c.cfg.BaseURL, limit)

	var page wirePage
	if err := c.getJSON(ctx, u, &page); err != nil {
		return nil, err
	}

	out := make([]model.Product, 0, len(page.Items))
	for _, it := range page.Items {
		p, err := it.toProduct()
		if err != nil {
			c.log.Warn("skipping malformed catalog item", zap.Error(err))
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// FetchByID retrieves a single enriched item, track list included.
func (c *Client) FetchByID(ctx context.Context, id string) (model.Product, error) {
	u := fmt.Sprintf("%s/catalog/%s", c.cfg.BaseURL, url.PathEscape(id))

	var it wireItem
	if err := c.getJSON(ctx, u, &it); err != nil {
		return model.Product{}, err
	}

	p, err := it.toProduct()
	if err != nil {
		return model.Product{}, fmt.Errorf("%w: %v", ErrTransient, err)
	}
	return p, nil
}

// getJSON issues an authenticated GET and decodes the body into v.
// Rate-limit responses are absorbed: the suggested wait is applied
// (defaulted, clamped) and the same logical request is re-issued. A 401
// invalidates the held token so the retry re-authenticates; repeated
// rejections surface as ErrAuth.
func (c *Client) getJSON(ctx context.Context, u string, v any) error {
	reauthed := false

	for attempt := 1; ; attempt++ {
		tok, err := c.ensureValidToken(ctx)
		if err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrTransient, err)
		}
		req.Header.Set("Authorization", "Bearer "+tok)

		resp, err := c.httpc.Do(req)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrTransient, err)
		}

		switch resp.StatusCode {
		case http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(v)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("%w: decode: %v", ErrTransient, err)
			}
			return nil

		case http.StatusNotFound:
			resp.Body.Close()
			return ErrNotFound

		case http.StatusUnauthorized:
			resp.Body.Close()
			if reauthed {
				return fmt.Errorf("%w: token rejected", ErrAuth)
			}
			reauthed = true
			c.invalidateToken()

		case http.StatusTooManyRequests:
			wait := retryWait(resp.Header.Get("Retry-After"))
			resp.Body.Close()
			c.log.Info("rate limited by provider",
				zap.Duration("wait", wait),
				zap.Int("attempt", attempt),
			)
			if err := c.sleep(ctx, wait); err != nil {
				return fmt.Errorf("%w: %v", ErrTransient, err)
			}

		default:
			code := resp.StatusCode
			resp.Body.Close()
			return fmt.Errorf("%w: status=%d", ErrTransient, code)
		}
	}
}

// retryWait interprets a Retry-After header value in seconds, falling
// back to the default when absent or unparseable and clamping to the
// ceiling.
func retryWait(header string) time.Duration {
	wait := defaultRetryWait
	if header != "" {
		if secs, err := strconv.Atoi(strings.TrimSpace(header)); err == nil && secs > 0 {
			wait = time.Duration(secs) * time.Second
		}
	}
	if wait > maxRetryWait {
		wait = maxRetryWait
	}
	return wait
}
