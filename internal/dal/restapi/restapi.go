package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/plateful/ordering-gateway/internal/service/models/cartitem"
	"github.com/spf13/viper"
)

// ErrNoSession is returned when an authenticated call is attempted
// without a session token. Reads are skipped rather than issued so the
// backend never sees unauthenticated 401 noise.
var ErrNoSession = errors.New("no session token")

// TokenSource yields the current bearer token. The second return
// reports whether a usable token is present.
type TokenSource interface {
	Token() (string, bool)
}

// Client is a typed client over the backend REST API. All
// authenticated requests carry the bearer token read from the token
// source at request-build time; no call owns its own copy.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     TokenSource

	cartMu     sync.Mutex
	cachedCart []cartitem.CartItem
	cartCached bool
	cartToken  string
}

// MustNewClient creates a client from configuration.
func MustNewClient(tokens TokenSource) *Client {
	baseURL := viper.GetString("restapi.base_url")
	if baseURL == "" {
		panic("restapi.base_url is not configured")
	}

	timeout := viper.GetDuration("restapi.timeout")
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	return NewClient(baseURL, timeout, tokens)
}

// NewClient creates a client with explicit settings. Used by tests.
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
	}
}

// do issues an authenticated request and decodes the enveloped
// response into out. The request is never sent without a token.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	token, ok := c.tokens.Token()
	if !ok {
		return ErrNoSession
	}

	return c.send(ctx, method, path, token, body, out)
}

// doPublic issues a request without authorization. Used for the
// public catalog resources.
func (c *Client) doPublic(ctx context.Context, method, path string, body, out any) error {
	return c.send(ctx, method, path, "", body, out)
}

func (c *Client) send(ctx context.Context, method, path, token string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	return decodeResponse(resp, out)
}
