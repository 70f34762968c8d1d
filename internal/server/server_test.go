package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	mu   sync.Mutex
	msgs []string
}

func (l *recordingLogger) add(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs = append(l.msgs, msg)
}

func (l *recordingLogger) Debug(msg string, _ ...any) { l.add(msg) }
func (l *recordingLogger) Info(msg string, _ ...any)  { l.add(msg) }
func (l *recordingLogger) Warn(msg string, _ ...any)  { l.add(msg) }
func (l *recordingLogger) Error(msg string, _ ...any) { l.add(msg) }

func (l *recordingLogger) messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.msgs...)
}

func TestNewFillsDefaults(t *testing.T) {
	s := New(http.NotFoundHandler(), Options{})
	assert.Equal(t, ":3001", s.http.Addr)
	assert.Equal(t, 5*time.Second, s.http.ReadHeaderTimeout)
	assert.Equal(t, 10*time.Second, s.opts.ShutdownTimeout)
	assert.NotNil(t, s.logger)
}

func TestRunServesAndShutsDown(t *testing.T) {
	logger := &recordingLogger{}
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "pong")
	})
	s := New(handler, Options{Addr: "127.0.0.1:0", Logger: logger, ShutdownTimeout: time.Second})
	addr, err := s.Listen()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	resp, err := http.Get("http://" + addr.String() + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, "pong", string(body))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	port := addr.String()[strings.LastIndex(addr.String(), ":")+1:]
	assert.Contains(t, logger.messages(), fmt.Sprintf("API server now on port %s!", port))
}

func TestListenFailure(t *testing.T) {
	first := New(http.NotFoundHandler(), Options{Addr: "127.0.0.1:0"})
	addr, err := first.Listen()
	require.NoError(t, err)
	t.Cleanup(func() { _ = first.ln.Close() })

	second := New(http.NotFoundHandler(), Options{Addr: addr.String()})
	err = second.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen")
}
