package googleauth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testCredentials(t *testing.T) *Credentials {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	pemKey := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})

	return &Credentials{
		ProjectID:   "test-project",
		ClientEmail: "svc@test-project.iam.gserviceaccount.com",
		PrivateKey:  string(pemKey),
		TokenURI:    "https://oauth2.googleapis.com/token",
	}
}

func TestParseCredentials(t *testing.T) {
	creds, err := ParseCredentials(`{
		"project_id": "p",
		"client_email": "svc@p.iam.gserviceaccount.com",
		"private_key": "---key---"
	}`)
	require.NoError(t, err)
	require.Equal(t, "p", creds.ProjectID)
	// token_uri defaults when the key file omits it.
	require.Equal(t, "https://oauth2.googleapis.com/token", creds.TokenURI)
}

func TestParseCredentials_Invalid(t *testing.T) {
	_, err := ParseCredentials("not json")
	require.Error(t, err)

	_, err = ParseCredentials(`{"project_id":"p"}`)
	require.Error(t, err)
}

func TestTokenSource_ExchangeAndCache(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		require.NoError(t, r.ParseForm())
		require.Equal(t, jwtBearerGrant, r.FormValue("grant_type"))
		require.NotEmpty(t, r.FormValue("assertion"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-123",
			"expires_in":   3600,
		})
	}))
	defer srv.Close()

	ts, err := NewTokenSource(testCredentials(t), []string{"scope-a", "scope-b"}, 5*time.Second)
	require.NoError(t, err)
	ts.TokenURL = srv.URL

	tok, err := ts.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, "tok-123", tok)

	// Second call serves from cache.
	tok, err = ts.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, "tok-123", tok)
	require.Equal(t, int32(1), calls.Load())
}

func TestTokenSource_RefreshesExpired(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-fresh",
			"expires_in":   1, // below the refresh skew, expires immediately
		})
	}))
	defer srv.Close()

	ts, err := NewTokenSource(testCredentials(t), []string{"scope-a"}, 5*time.Second)
	require.NoError(t, err)
	ts.TokenURL = srv.URL

	_, err = ts.Token(context.Background())
	require.NoError(t, err)
	_, err = ts.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, int32(2), calls.Load())
}

func TestTokenSource_BadKey(t *testing.T) {
	creds := testCredentials(t)
	creds.PrivateKey = "not a pem key"
	_, err := NewTokenSource(creds, nil, 0)
	require.Error(t, err)
}

func TestTokenSource_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusForbidden)
	}))
	defer srv.Close()

	ts, err := NewTokenSource(testCredentials(t), []string{"scope-a"}, 5*time.Second)
	require.NoError(t, err)
	ts.TokenURL = srv.URL

	_, err = ts.Token(context.Background())
	require.Error(t, err)
}
