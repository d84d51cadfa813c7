package services

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type funcService struct {
	name  string
	start func(ctx context.Context) error
}

func (s funcService) Name() string                    { return s.name }
func (s funcService) Start(ctx context.Context) error { return s.start(ctx) }

func TestGroupStopsAllWhenOneFails(t *testing.T) {
	waiter := funcService{name: "waiter", start: func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	}}
	failer := funcService{name: "failer", start: func(context.Context) error {
		return errors.New("port in use")
	}}

	err := Group{waiter, failer}.Start(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failer: port in use")
}

func TestGroupCollectsAllErrors(t *testing.T) {
	a := funcService{name: "a", start: func(context.Context) error { return errors.New("boom a") }}
	b := funcService{name: "b", start: func(ctx context.Context) error {
		<-ctx.Done()
		return errors.New("boom b")
	}}

	err := Group{a, b}.Start(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "a: boom a")
	assert.Contains(t, err.Error(), "b: boom b")
}

func TestGroupCleanShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	svc := funcService{name: "svc", start: func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	}}

	done := make(chan error, 1)
	go func() { done <- Group{svc, svc}.Start(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("group did not stop")
	}
}

func TestHTTPServer(t *testing.T) {
	_, err := NewHTTPServer("empty", "", http.NotFoundHandler(), 0)
	assert.Error(t, err)

	srv, err := NewHTTPServer("test", "127.0.0.1:0", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, "hello")
	}), time.Second)
	require.NoError(t, err)
	assert.Equal(t, "test", srv.Name())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "hello", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
