package ebay

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"ebay-price-averager/config"
	"ebay-price-averager/utils"
)

const (
	tokenURL   = "https://api.ebay.com/identity/v1/oauth2/token"
	tokenScope = "https://api.ebay.com/oauth/api_scope"

	// Refresh ahead of the reported deadline so a token never expires
	// mid-pagination.
	tokenExpiryMargin = 60 * time.Second
)

// TokenProvider exchanges the long-lived refresh credential for short-lived
// bearer tokens. Tokens are cached until shortly before their reported
// expiry; acquisition stays idempotent, so callers may ask per item.
type TokenProvider struct {
	cfg      *config.Config
	logger   *utils.Logger
	client   *http.Client
	endpoint string

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// NewTokenProvider creates a TokenProvider for the configured credentials.
func NewTokenProvider(cfg *config.Config, logger *utils.Logger) *TokenProvider {
	return &TokenProvider{
		cfg:      cfg,
		logger:   logger,
		client:   &http.Client{Timeout: 30 * time.Second},
		endpoint: tokenURL,
	}
}

// AccessToken returns a valid bearer token, refreshing when the cached one
// is missing or within a minute of expiry.
func (p *TokenProvider) AccessToken() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" && time.Now().Before(p.expiresAt.Add(-tokenExpiryMargin)) {
		return p.token, nil
	}
	return p.refresh()
}

func (p *TokenProvider) refresh() (string, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", p.cfg.RefreshToken)
	form.Set("scope", tokenScope)

	req, err := http.NewRequest(http.MethodPost, p.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("token: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Basic "+p.basicCredentials())

	resp, err := p.client.Do(req)
	if err != nil {
		return "", &NetworkError{Op: "token refresh", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &NetworkError{Op: "token refresh read", Err: err}
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return "", &AuthenticationError{Body: string(body)}
	default:
		return "", &TokenRequestError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var tr struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", fmt.Errorf("token: decode response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", &TokenRequestError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	p.token = tr.AccessToken
	if tr.ExpiresIn > 0 {
		p.expiresAt = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	} else {
		// No expiry reported: treat the token as already stale so the
		// next call refreshes again.
		p.expiresAt = time.Now()
	}

	p.logger.Debug("[token] Refreshed access token (expires in %ds)", tr.ExpiresIn)
	return p.token, nil
}

func (p *TokenProvider) basicCredentials() string {
	creds := p.cfg.ClientID + ":" + p.cfg.ClientSecret
	return base64.StdEncoding.EncodeToString([]byte(creds))
}
