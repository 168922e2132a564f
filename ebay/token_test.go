package ebay

import (
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ebay-price-averager/config"
	"ebay-price-averager/utils"
)

func testCredentials() *config.Config {
	return &config.Config{
		ClientID:      "client-id",
		ClientSecret:  "client-secret",
		RefreshToken:  "refresh-token",
		MarketplaceID: "EBAY_GB",
		ItemLocation:  "GB",
		SaleType:      config.SaleTypeBoth,
	}
}

func newTestLogger() *utils.Logger { return utils.NewLogger() }

func TestTokenRefreshSuccess(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++

		wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("client-id:client-secret"))
		if got := r.Header.Get("Authorization"); got != wantAuth {
			t.Errorf("Authorization header = %q; want %q", got, wantAuth)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.PostForm.Get("grant_type"); got != "refresh_token" {
			t.Errorf("grant_type = %q; want refresh_token", got)
		}
		if got := r.PostForm.Get("refresh_token"); got != "refresh-token" {
			t.Errorf("refresh_token = %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok-123","expires_in":7200}`))
	}))
	defer srv.Close()

	p := NewTokenProvider(testCredentials(), newTestLogger())
	p.endpoint = srv.URL

	token, err := p.AccessToken()
	if err != nil {
		t.Fatalf("AccessToken: %v", err)
	}
	if token != "tok-123" {
		t.Errorf("token = %q; want tok-123", token)
	}

	// The cached token is reused until near expiry.
	if _, err := p.AccessToken(); err != nil {
		t.Fatalf("second AccessToken: %v", err)
	}
	if requests != 1 {
		t.Errorf("expected 1 token request, got %d", requests)
	}
}

func TestTokenRefreshUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := NewTokenProvider(testCredentials(), newTestLogger())
	p.endpoint = srv.URL

	_, err := p.AccessToken()
	var authErr *AuthenticationError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthenticationError, got %v", err)
	}
}

func TestTokenRefreshUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewTokenProvider(testCredentials(), newTestLogger())
	p.endpoint = srv.URL

	_, err := p.AccessToken()
	var reqErr *TokenRequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected TokenRequestError, got %v", err)
	}
	if reqErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d; want 500", reqErr.StatusCode)
	}
}

func TestTokenRefreshNetworkFailure(t *testing.T) {
	p := NewTokenProvider(testCredentials(), newTestLogger())
	p.endpoint = "http://127.0.0.1:1" // nothing listens here

	_, err := p.AccessToken()
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
}
