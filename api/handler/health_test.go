package handler

import (
	"context"
	"encoding/json"
	"testing"

	mrd "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/pellume/provisioner/internal/infrastructure/redisconn"
)

func getHealth(t *testing.T, conn *redisconn.Manager) (*fasthttp.RequestCtx, map[string]string) {
	t.Helper()
	h := NewHealthHandler(conn, nil, nil)

	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(fasthttp.MethodGet)
	ctx.Request.SetRequestURI("/health")

	h.Check(&ctx)

	var body map[string]string
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &body))
	return &ctx, body
}

func TestHealthHandler_Connected(t *testing.T) {
	s := mrd.RunT(t)
	conn := redisconn.New(redisconn.Options{Role: "publisher", URL: "redis://" + s.Addr()}, nil)
	require.NoError(t, conn.Connect(context.Background()))
	defer conn.Close()

	ctx, body := getHealth(t, conn)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	require.Equal(t, "healthy", body["status"])
	require.Equal(t, "connected", body["redis"])
}

func TestHealthHandler_Disconnected(t *testing.T) {
	conn := redisconn.New(redisconn.Options{Role: "publisher", URL: "redis://localhost:1"}, nil)

	ctx, body := getHealth(t, conn)
	require.Equal(t, fasthttp.StatusServiceUnavailable, ctx.Response.StatusCode())
	require.Equal(t, "unhealthy", body["status"])
	require.Equal(t, "disconnected", body["redis"])
}
