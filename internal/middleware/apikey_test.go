package middleware

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

func runAPIKey(t *testing.T, secret, header string) (*fasthttp.RequestCtx, bool) {
	t.Helper()
	called := false
	next := func(ctx *fasthttp.RequestCtx) {
		called = true
		ctx.SetStatusCode(fasthttp.StatusOK)
	}

	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(fasthttp.MethodPost)
	ctx.Request.SetRequestURI("/criar-conta")
	if header != "" {
		ctx.Request.Header.Set("x-api-key", header)
	}

	APIKey(secret, nil)(next)(&ctx)
	return &ctx, called
}

func TestAPIKey_ValidKey(t *testing.T) {
	ctx, called := runAPIKey(t, "s3cret", "s3cret")
	require.True(t, called)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
}

func TestAPIKey_WrongKey(t *testing.T) {
	ctx, called := runAPIKey(t, "s3cret", "wrong")
	require.False(t, called)
	require.Equal(t, fasthttp.StatusForbidden, ctx.Response.StatusCode())
	require.JSONEq(t, `{"error":"invalid api key"}`, string(ctx.Response.Body()))
}

func TestAPIKey_MissingKey(t *testing.T) {
	ctx, called := runAPIKey(t, "s3cret", "")
	require.False(t, called)
	require.Equal(t, fasthttp.StatusForbidden, ctx.Response.StatusCode())
}

func TestAPIKey_EmptySecretRejectsEverything(t *testing.T) {
	// A blank secret must not turn into an open gateway.
	ctx, called := runAPIKey(t, "", "")
	require.False(t, called)
	require.Equal(t, fasthttp.StatusForbidden, ctx.Response.StatusCode())
}

func TestAPIKey_RejectionIgnoresBody(t *testing.T) {
	called := false
	next := func(ctx *fasthttp.RequestCtx) { called = true }

	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(fasthttp.MethodPost)
	ctx.Request.SetRequestURI("/criar-conta")
	ctx.Request.Header.Set("x-api-key", "wrong")
	ctx.Request.SetBody([]byte(`{"email":"a@b.com","nome":"Jane"}`))

	APIKey("s3cret", nil)(next)(&ctx)
	require.False(t, called)
	require.Equal(t, fasthttp.StatusForbidden, ctx.Response.StatusCode())
}
