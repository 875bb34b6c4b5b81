// Package googleidentity implements the identity-provider contract against
// the Google Identity Toolkit REST API.
package googleidentity

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/pellume/provisioner/domain"
	"github.com/pellume/provisioner/repository"
	"github.com/pellume/provisioner/repository/googleauth"
)

const defaultBaseURL = "https://identitytoolkit.googleapis.com/v1"

// Scope is the OAuth2 scope the token source must carry for this client.
const Scope = "https://www.googleapis.com/auth/identitytoolkit"

type client struct {
	tokens    *googleauth.TokenSource
	projectID string
	baseURL   string
	timeout   time.Duration
	hc        *fasthttp.Client
}

// NewClient creates an IdentityProvider backed by the Identity Toolkit admin API.
func NewClient(tokens *googleauth.TokenSource, projectID string, timeout time.Duration) repository.IdentityProvider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &client{
		tokens:    tokens,
		projectID: projectID,
		baseURL:   defaultBaseURL,
		timeout:   timeout,
		hc:        &fasthttp.Client{},
	}
}

// NewClientWithBaseURL is NewClient pointed at a different endpoint, for tests.
func NewClientWithBaseURL(tokens *googleauth.TokenSource, projectID, baseURL string, timeout time.Duration) repository.IdentityProvider {
	c := NewClient(tokens, projectID, timeout).(*client)
	c.baseURL = baseURL
	return c
}

type userInfo struct {
	LocalID     string `json:"localId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

func (c *client) GetByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	var out struct {
		Users []userInfo `json:"users"`
	}
	err := c.post(ctx, "accounts:lookup", map[string]any{"email": []string{email}}, &out)
	if err != nil {
		return nil, err
	}
	// The lookup endpoint answers 200 with no users entry when the email is
	// unknown.
	if len(out.Users) == 0 {
		return nil, domain.ErrIdentityNotFound
	}
	u := out.Users[0]
	return &domain.Identity{ID: u.LocalID, Email: u.Email, DisplayName: u.DisplayName}, nil
}

func (c *client) Create(ctx context.Context, email, password, displayName string) (*domain.Identity, error) {
	var out userInfo
	err := c.post(ctx, "accounts", map[string]any{
		"email":       email,
		"password":    password,
		"displayName": displayName,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &domain.Identity{ID: out.LocalID, Email: email, DisplayName: displayName}, nil
}

func (c *client) Update(ctx context.Context, id, password, displayName string) error {
	return c.post(ctx, "accounts:update", map[string]any{
		"localId":     id,
		"password":    password,
		"displayName": displayName,
	}, nil)
}

func (c *client) post(ctx context.Context, action string, body any, out any) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fmt.Sprintf("%s/projects/%s/%s", c.baseURL, c.projectID, action))
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.SetBody(payload)

	if err := c.hc.DoTimeout(req, resp, c.timeout); err != nil {
		return fmt.Errorf("identity %s failed: %w", action, err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return fmt.Errorf("identity %s returned status %d: %s", action, resp.StatusCode(), resp.Body())
	}
	if out != nil {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return fmt.Errorf("identity %s returned invalid body: %w", action, err)
		}
	}
	return nil
}
