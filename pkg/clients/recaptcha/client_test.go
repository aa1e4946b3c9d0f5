package recaptcha

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-secret", srv.URL, 2*time.Second, zaptest.NewLogger(t))
}

func TestVerify_Success(t *testing.T) {
	var gotSecret, gotResponse, gotIP string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotSecret = r.PostForm.Get("secret")
		gotResponse = r.PostForm.Get("response")
		gotIP = r.PostForm.Get("remoteip")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": true, "hostname": "localhost"}`))
	})

	assert.True(t, c.Verify(context.Background(), "valid-token", "203.0.113.9"))
	assert.Equal(t, "test-secret", gotSecret)
	assert.Equal(t, "valid-token", gotResponse)
	assert.Equal(t, "203.0.113.9", gotIP)
}

func TestVerify_ProviderRejects(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": false, "error-codes": ["invalid-input-response"]}`))
	})
	assert.False(t, c.Verify(context.Background(), "bad-token", ""))
}

func TestVerify_Non2xxFailsClosed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"success": true}`))
	})
	assert.False(t, c.Verify(context.Background(), "token", ""))
}

func TestVerify_InvalidJSONFailsClosed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>oops</html>`))
	})
	assert.False(t, c.Verify(context.Background(), "token", ""))
}

func TestVerify_TransportErrorFailsClosed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient("s", url, time.Second, zaptest.NewLogger(t))
	assert.False(t, c.Verify(context.Background(), "token", ""))
}

func TestVerify_TimeoutFailsClosed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.False(t, c.Verify(ctx, "token", ""))
}

func TestVerify_EmptyTokenSkipsProvider(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	assert.False(t, c.Verify(context.Background(), "  ", ""))
	assert.False(t, called)
}
