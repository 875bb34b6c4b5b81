package googleidentity

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pellume/provisioner/domain"
	"github.com/pellume/provisioner/repository/googleauth"
)

func newTestTokenSource(t *testing.T, tokenURL string) *googleauth.TokenSource {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	pemKey := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})

	ts, err := googleauth.NewTokenSource(&googleauth.Credentials{
		ProjectID:   "test-project",
		ClientEmail: "svc@test-project.iam.gserviceaccount.com",
		PrivateKey:  string(pemKey),
		TokenURI:    "https://oauth2.googleapis.com/token",
	}, []string{Scope}, 5*time.Second)
	require.NoError(t, err)
	ts.TokenURL = tokenURL
	return ts
}

func newTestClient(t *testing.T, identityHandler http.HandlerFunc) (*httptest.Server, func() *client) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "tok", "expires_in": 3600})
	})
	mux.HandleFunc("/", identityHandler)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv, func() *client {
		tokens := newTestTokenSource(t, srv.URL+"/token")
		return NewClientWithBaseURL(tokens, "test-project", srv.URL, 5*time.Second).(*client)
	}
}

func TestGetByEmail_Found(t *testing.T) {
	var gotPath string
	var gotReq map[string]any
	_, mk := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotReq)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"users": []map[string]string{{
				"localId":     "uid-1",
				"email":       "a@b.com",
				"displayName": "Jane",
			}},
		})
	})

	identity, err := mk().GetByEmail(context.Background(), "a@b.com")
	require.NoError(t, err)
	require.Equal(t, "/projects/test-project/accounts:lookup", gotPath)
	require.Equal(t, []any{"a@b.com"}, gotReq["email"])
	require.Equal(t, &domain.Identity{ID: "uid-1", Email: "a@b.com", DisplayName: "Jane"}, identity)
}

func TestGetByEmail_NotFound(t *testing.T) {
	_, mk := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// Unknown emails come back 200 without a users entry.
		w.Write([]byte(`{"kind":"identitytoolkit#GetAccountInfoResponse"}`))
	})

	_, err := mk().GetByEmail(context.Background(), "missing@b.com")
	require.ErrorIs(t, err, domain.ErrIdentityNotFound)
}

func TestCreate(t *testing.T) {
	var gotPath string
	var gotReq map[string]any
	_, mk := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotReq)
		w.Write([]byte(`{"localId":"uid-9"}`))
	})

	identity, err := mk().Create(context.Background(), "a@b.com", "p4ss", "Jane")
	require.NoError(t, err)
	require.Equal(t, "/projects/test-project/accounts", gotPath)
	require.Equal(t, "p4ss", gotReq["password"])
	require.Equal(t, "uid-9", identity.ID)
}

func TestUpdate(t *testing.T) {
	var gotPath string
	var gotReq map[string]any
	_, mk := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotReq)
		w.Write([]byte(`{}`))
	})

	err := mk().Update(context.Background(), "uid-1", "newp4ss", "New Name")
	require.NoError(t, err)
	require.Equal(t, "/projects/test-project/accounts:update", gotPath)
	require.Equal(t, "uid-1", gotReq["localId"])
	require.Equal(t, "New Name", gotReq["displayName"])
}

func TestErrorStatusSurfaces(t *testing.T) {
	_, mk := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"PERMISSION_DENIED"}}`, http.StatusForbidden)
	})

	_, err := mk().GetByEmail(context.Background(), "a@b.com")
	require.Error(t, err)
	require.Contains(t, err.Error(), "403")
}
