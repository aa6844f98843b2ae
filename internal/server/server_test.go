package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btech-hub/backend/internal/config"
)

func TestServerRunStop(t *testing.T) {
	cfg := &config.Config{HttpServer: config.HttpServer{
		Port:        "0",
		Timeout:     time.Second,
		IdleTimeout: time.Second,
	}}
	srv := NewServer(cfg, http.NotFoundHandler())

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run() }()

	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, srv.Stop(ctx))

	assert.NoError(t, <-errCh)
}

func TestServerRunReportsListenError(t *testing.T) {
	cfg := &config.Config{HttpServer: config.HttpServer{Port: "not-a-port"}}
	srv := NewServer(cfg, http.NotFoundHandler())

	assert.Error(t, srv.Run())
}
