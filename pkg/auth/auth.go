// Package auth manages the lifecycle of a tenant's bearer token: minting
// it from the tenant API key, caching it, and refreshing it shortly
// before it expires.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/ellucian-developer/integration-sdk-go/pkg/contracts"
	"github.com/ellucian-developer/integration-sdk-go/pkg/ethoserr"
	"github.com/ellucian-developer/integration-sdk-go/pkg/model"
)

// apiKeyPattern is the GUID shape a tenant API key must match.
var apiKeyPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-([0-9a-fA-F]{4}-){3}[0-9a-fA-F]{12}$`)

const (
	minExpirationMinutes     = 1
	maxExpirationMinutes     = 120
	defaultExpirationMinutes = 60
)

// CredentialManager acquires and caches bearer tokens for a single
// tenant API key. It implements contracts.TokenSource.
type CredentialManager struct {
	transport contracts.Transport
	authURL   string
	apiKey    string

	mu                sync.Mutex
	token             model.AccessToken
	autoRefresh       bool
	expirationMinutes int
}

// New validates apiKey against the GUID shape required by the gateway
// and returns a CredentialManager that mints tokens by POSTing to
// authURL.
func New(transport contracts.Transport, authURL, apiKey string) (*CredentialManager, error) {
	if !apiKeyPattern.MatchString(apiKey) {
		return nil, ethoserr.InvalidArg("CredentialManager", "apiKey", "tenant API key must be a GUID")
	}
	return &CredentialManager{
		transport:         transport,
		authURL:           authURL,
		apiKey:            apiKey,
		autoRefresh:       true,
		expirationMinutes: defaultExpirationMinutes,
	}, nil
}

// SetAutoRefresh toggles whether Acquire is allowed to mint a fresh
// token once the cached one has expired. The first token is minted
// regardless of this setting.
func (c *CredentialManager) SetAutoRefresh(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoRefresh = enabled
}

// SetExpirationMinutes sets the expirationMinutes query parameter sent
// on the next refresh. Must be in [1,120].
func (c *CredentialManager) SetExpirationMinutes(minutes int) error {
	if minutes < minExpirationMinutes || minutes > maxExpirationMinutes {
		return ethoserr.InvalidArg("CredentialManager", "expirationMinutes", "must be between 1 and 120")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expirationMinutes = minutes
	return nil
}

// Token implements contracts.TokenSource by delegating to Acquire.
func (c *CredentialManager) Token(ctx context.Context) (string, error) {
	return c.Acquire(ctx)
}

// Acquire returns the cached token if present and unexpired. Otherwise,
// when auto-refresh is enabled or no token has ever been minted, it
// exchanges the tenant API key for a fresh token. Any non-2xx response
// from the auth endpoint is surfaced verbatim — this layer never
// retries.
func (c *CredentialManager) Acquire(ctx context.Context) (string, error) {
	c.mu.Lock()
	cached := c.token
	autoRefresh := c.autoRefresh
	minutes := c.expirationMinutes
	c.mu.Unlock()

	now := time.Now()
	if cached.Valid(now) {
		return cached.Value, nil
	}
	if cached.Value != "" && !autoRefresh {
		return "", ethoserr.New(ethoserr.InvalidArgument, "cached token expired and auto-refresh is disabled")
	}

	return c.refresh(ctx, minutes)
}

func (c *CredentialManager) refresh(ctx context.Context, minutes int) (string, error) {
	// Record the expiry before the request is even sent, so a slow
	// network round trip never leaves the client holding a token the
	// server already considers expired.
	expiresAt := time.Now().Add(time.Duration(minutes) * time.Minute)

	u := c.authURL + "?expirationMinutes=" + strconv.Itoa(minutes)
	headers := http.Header{"Authorization": []string{"Bearer " + c.apiKey}}

	resp, err := c.transport.Do(ctx, http.MethodPost, u, headers, nil)
	if err != nil {
		return "", fmt.Errorf("acquire token: %w", err)
	}

	token := model.AccessToken{Value: resp.Body, ExpiresAt: expiresAt}

	c.mu.Lock()
	defer c.mu.Unlock()
	// CAS-equivalent: only install this token if it expires later than
	// what's cached, so a slower concurrent refresh never clobbers
	// one that a faster goroutine already installed.
	if token.ExpiresAt.After(c.token.ExpiresAt) {
		c.token = token
	}
	return c.token.Value, nil
}

// AuthURLFor builds the auth endpoint URL for base, so callers don't
// need to know the exact path spelling.
func AuthURLFor(base string) string {
	return base + "/auth"
}
