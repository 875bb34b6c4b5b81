// Package firestore implements the profile-store contract against the
// Firestore REST API.
package firestore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/pellume/provisioner/repository"
	"github.com/pellume/provisioner/repository/googleauth"
)

const defaultBaseURL = "https://firestore.googleapis.com/v1"

// Scope is the OAuth2 scope the token source must carry for this client.
const Scope = "https://www.googleapis.com/auth/datastore"

type client struct {
	tokens     *googleauth.TokenSource
	projectID  string
	collection string
	baseURL    string
	timeout    time.Duration
	hc         *fasthttp.Client
}

// NewClient creates a ProfileStore writing documents into the given collection.
func NewClient(tokens *googleauth.TokenSource, projectID, collection string, timeout time.Duration) repository.ProfileStore {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &client{
		tokens:     tokens,
		projectID:  projectID,
		collection: collection,
		baseURL:    defaultBaseURL,
		timeout:    timeout,
		hc:         &fasthttp.Client{},
	}
}

// NewClientWithBaseURL is NewClient pointed at a different endpoint, for tests.
func NewClientWithBaseURL(tokens *googleauth.TokenSource, projectID, collection, baseURL string, timeout time.Duration) repository.ProfileStore {
	c := NewClient(tokens, projectID, collection, timeout).(*client)
	c.baseURL = baseURL
	return c
}

// Upsert PATCHes the document with an updateMask naming exactly the given
// fields, which is Firestore's merge write: named fields are set, everything
// else on the document survives.
func (c *client) Upsert(ctx context.Context, id string, fields map[string]any) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	encoded := make(map[string]any, len(fields))
	names := make([]string, 0, len(fields))
	for name, value := range fields {
		v, err := encodeValue(value)
		if err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
		encoded[name] = v
		names = append(names, name)
	}
	sort.Strings(names)

	payload, err := json.Marshal(map[string]any{"fields": encoded})
	if err != nil {
		return err
	}

	query := url.Values{}
	for _, name := range names {
		query.Add("updateMask.fieldPaths", name)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fmt.Sprintf("%s/projects/%s/databases/(default)/documents/%s/%s?%s",
		c.baseURL, c.projectID, c.collection, url.PathEscape(id), query.Encode()))
	req.Header.SetMethod(fasthttp.MethodPatch)
	req.Header.SetContentType("application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.SetBody(payload)

	if err := c.hc.DoTimeout(req, resp, c.timeout); err != nil {
		return fmt.Errorf("profile upsert failed: %w", err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return fmt.Errorf("profile upsert returned status %d: %s", resp.StatusCode(), resp.Body())
	}
	return nil
}

// encodeValue maps a Go value onto Firestore's typed value representation.
func encodeValue(value any) (any, error) {
	switch v := value.(type) {
	case string:
		return map[string]string{"stringValue": v}, nil
	case bool:
		return map[string]bool{"booleanValue": v}, nil
	case int:
		return map[string]string{"integerValue": strconv.Itoa(v)}, nil
	case int64:
		return map[string]string{"integerValue": strconv.FormatInt(v, 10)}, nil
	case float64:
		return map[string]float64{"doubleValue": v}, nil
	case time.Time:
		return map[string]string{"timestampValue": v.UTC().Format(time.RFC3339Nano)}, nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", value)
	}
}
