package daemon

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDaemon_RunStopsCleanlyOnContextCancel(t *testing.T) {
	cfg := DefaultConfig("127.0.0.1:0")
	cfg.ShutdownTimeout = time.Second
	d := New(cfg, http.NewServeMux())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("daemon did not shut down within timeout")
	}
}

func TestDefaultConfig_SetsConservativeTimeouts(t *testing.T) {
	cfg := DefaultConfig("localhost:17600")
	assert.Equal(t, "localhost:17600", cfg.ListenAddr)
	assert.Greater(t, cfg.ReadTimeout, time.Duration(0))
	assert.Greater(t, cfg.WriteTimeout, time.Duration(0))
	assert.Greater(t, cfg.ShutdownTimeout, time.Duration(0))
}
