package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
}

func TestNew(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	_, err = New(&Config{Address: ":0"})
	assert.Error(t, err)

	s, err := New(DefaultConfig(okHandler()))
	require.NoError(t, err)
	assert.Equal(t, ":8080", s.Addr())
	assert.Equal(t, 15*time.Second, s.httpServer.ReadTimeout)
}

func TestGracefulShutdown_Run(t *testing.T) {
	s, err := New(&Config{Address: "127.0.0.1:0", Handler: okHandler()})
	require.NoError(t, err)

	gs := NewGracefulShutdown(s, time.Second, zap.NewNop())

	var hookCalls int32
	gs.RegisterHook(func(ctx context.Context) error {
		atomic.AddInt32(&hookCalls, 1)
		return nil
	})
	gs.RegisterHook(func(ctx context.Context) error {
		atomic.AddInt32(&hookCalls, 1)
		return errors.New("hook failure is logged, not returned")
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- gs.Run(ctx) }()

	var resp *http.Response
	require.Eventually(t, func() bool {
		addr := s.Addr()
		if addr == "127.0.0.1:0" {
			return false
		}
		resp, err = http.Get("http://" + addr + "/")
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&hookCalls))
}

func TestGracefulShutdown_ListenError(t *testing.T) {
	s, err := New(&Config{Address: "256.0.0.1:bad", Handler: okHandler()})
	require.NoError(t, err)

	err = NewGracefulShutdown(s, 0, nil).Run(context.Background())
	assert.Error(t, err)
}
