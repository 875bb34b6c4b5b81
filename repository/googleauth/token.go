// Package googleauth exchanges a service-account key for OAuth2 access
// tokens used by the identity and profile repositories.
package googleauth

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/valyala/fasthttp"
)

const jwtBearerGrant = "urn:ietf:params:oauth:grant-type:jwt-bearer"

// expirySkew is subtracted from the reported token lifetime so a token is
// refreshed before it actually lapses mid-request.
const expirySkew = time.Minute

// TokenSource mints and caches access tokens via the JWT bearer grant: it
// signs an RS256 assertion with the service-account key and trades it at the
// token endpoint. Tokens are shared across goroutines.
type TokenSource struct {
	creds   *Credentials
	key     *rsa.PrivateKey
	scopes  string
	timeout time.Duration
	hc      *fasthttp.Client

	// TokenURL overrides the credential's token endpoint, for tests.
	TokenURL string

	mu     sync.Mutex
	token  string
	expiry time.Time
}

// NewTokenSource parses the private key and prepares a source for the given
// OAuth2 scopes.
func NewTokenSource(creds *Credentials, scopes []string, timeout time.Duration) (*TokenSource, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(creds.PrivateKey))
	if err != nil {
		return nil, fmt.Errorf("invalid service account private key: %w", err)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &TokenSource{
		creds:    creds,
		key:      key,
		scopes:   strings.Join(scopes, " "),
		timeout:  timeout,
		hc:       &fasthttp.Client{},
		TokenURL: creds.TokenURI,
	}, nil
}

// Token returns a valid access token, refreshing it when the cached one is
// near expiry.
func (ts *TokenSource) Token(ctx context.Context) (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.token != "" && time.Now().Before(ts.expiry) {
		return ts.token, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	assertion, err := ts.signAssertion()
	if err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("grant_type", jwtBearerGrant)
	form.Set("assertion", assertion)

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(ts.TokenURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/x-www-form-urlencoded")
	req.SetBodyString(form.Encode())

	if err := ts.hc.DoTimeout(req, resp, ts.timeout); err != nil {
		return "", fmt.Errorf("token exchange failed: %w", err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return "", fmt.Errorf("token endpoint returned status %d", resp.StatusCode())
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return "", fmt.Errorf("invalid token response: %w", err)
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token")
	}

	ts.token = body.AccessToken
	ts.expiry = time.Now().Add(time.Duration(body.ExpiresIn)*time.Second - expirySkew)
	return ts.token, nil
}

func (ts *TokenSource) signAssertion() (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":   ts.creds.ClientEmail,
		"scope": ts.scopes,
		"aud":   ts.creds.TokenURI,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(ts.key)
}
