package github

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v77/github"
)

// TransportError is a network or HTTP failure. It aborts the current
// refresh cycle; already-applied results stay in place.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// AuthError is a 401/403 response. MissingScopes lists the OAuth scopes
// the endpoint accepts but the token was not granted, when the response
// metadata allows deriving them.
type AuthError struct {
	Op            string
	StatusCode    int
	MissingScopes []string
	Err           error
}

func (e *AuthError) Error() string {
	if len(e.MissingScopes) > 0 {
		return fmt.Sprintf("%s: authentication failed (%d), missing scopes: %s",
			e.Op, e.StatusCode, strings.Join(e.MissingScopes, ", "))
	}
	return fmt.Sprintf("%s: authentication failed (%d): %v", e.Op, e.StatusCode, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// ParseError is a malformed page or graph payload, scoped to the batch
// being processed
type ParseError struct {
	Op  string
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// classifyError maps a go-github call failure into the error taxonomy.
// Rate limits are reported as transport errors carrying reset metadata
// so the next scheduled poll retries the same window.
func classifyError(err error, op string, resp *github.Response) error {
	if err == nil {
		return nil
	}

	var rateLimitErr *github.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &TransportError{
			Op: op,
			Err: fmt.Errorf("hit primary rate limit (used %d of %d, resets at %v): %w",
				rateLimitErr.Rate.Used, rateLimitErr.Rate.Limit, rateLimitErr.Rate.Reset.Time, err),
		}
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &TransportError{
			Op:  op,
			Err: fmt.Errorf("hit secondary rate limit (retry after %v): %w", abuseErr.GetRetryAfter(), err),
		}
	}

	var apiErr *github.ErrorResponse
	if errors.As(err, &apiErr) && apiErr.Response != nil {
		code := apiErr.Response.StatusCode
		if code == http.StatusUnauthorized || code == http.StatusForbidden {
			return &AuthError{
				Op:            op,
				StatusCode:    code,
				MissingScopes: missingScopes(resp, apiErr.Response.Header),
				Err:           err,
			}
		}
	}

	return &TransportError{Op: op, Err: err}
}

// missingScopes diffs the scopes the endpoint accepts against the
// scopes the token was granted, both taken from response headers
func missingScopes(resp *github.Response, header http.Header) []string {
	accepted := splitScopeHeader(header.Get("X-Accepted-OAuth-Scopes"))
	if len(accepted) == 0 {
		return nil
	}

	granted := make(map[string]struct{})
	for _, s := range splitScopeHeader(header.Get("X-OAuth-Scopes")) {
		granted[s] = struct{}{}
	}
	if resp != nil {
		for _, s := range splitScopeHeader(resp.Header.Get("X-OAuth-Scopes")) {
			granted[s] = struct{}{}
		}
	}

	var missing []string
	for _, s := range accepted {
		if _, ok := granted[s]; !ok {
			missing = append(missing, s)
		}
	}
	return missing
}

func splitScopeHeader(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	scopes := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			scopes = append(scopes, s)
		}
	}
	return scopes
}
