package ebay

import "fmt"

// AuthenticationError means the token endpoint rejected the stored
// credentials (HTTP 401). It is fatal for the whole batch.
type AuthenticationError struct {
	Body string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("ebay: authentication failed: %s", e.Body)
}

// TokenRequestError is any other non-200 from the token endpoint.
type TokenRequestError struct {
	StatusCode int
	Body       string
}

func (e *TokenRequestError) Error() string {
	return fmt.Sprintf("ebay: token request returned %d: %s", e.StatusCode, e.Body)
}

// ListingAPIError is a non-200 from the Browse API search endpoint.
type ListingAPIError struct {
	StatusCode int
	Message    string
}

func (e *ListingAPIError) Error() string {
	return fmt.Sprintf("ebay: search API returned %d: %s", e.StatusCode, e.Message)
}

// RateLimitError means a page fetch was rate limited twice in a row, once
// past the single fixed-backoff retry.
type RateLimitError struct {
	Query string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("ebay: rate limited while searching %q", e.Query)
}

// NetworkError wraps a transport-level failure (DNS, connect, timeout).
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("ebay: network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }
