package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reconflow/internal/platform/errors"
	"reconflow/internal/platform/logx"
)

func fastConfig() Config {
	cfg := DefaultConfig()
	cfg.RetryBackoff = time.Millisecond
	cfg.MaxRetryBackoff = 5 * time.Millisecond
	return cfg
}

func TestNew(t *testing.T) {
	t.Run("applies defaults for zero values", func(t *testing.T) {
		client := New(Config{}, logx.NewNop())

		assert.Equal(t, 60*time.Second, client.config.Timeout)
		assert.Equal(t, time.Second, client.config.RetryBackoff)
		assert.Equal(t, "reconflow/1.0", client.config.UserAgent)
	})

	t.Run("nil logger is allowed", func(t *testing.T) {
		assert.NotNil(t, New(DefaultConfig(), nil))
	})

	t.Run("string describes config", func(t *testing.T) {
		assert.Equal(t, "HTTPClient{timeout=1m0s, max_retries=2, http2=true}", New(DefaultConfig(), nil).String())
	})
}

func TestClient_PostJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "reconflow/1.0", r.Header.Get("User-Agent"))

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"q":"hi"}`, string(body))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := New(fastConfig(), logx.NewNop())
	resp, err := client.PostJSON(context.Background(), server.URL, []byte(`{"q":"hi"}`), map[string]string{"X-Api-Key": "secret"})
	require.NoError(t, err)

	body, err := ReadBody(resp)
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(body))
}

func TestClient_RetriesTransientStatusWithFullBody(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "payload", string(body), "every attempt carries the body")
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(fastConfig(), logx.NewNop())
	resp, err := client.Request(context.Background(), http.MethodPost, server.URL, []byte("payload"), nil)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestClient_GivesUpAfterMaxRetries(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := New(fastConfig(), logx.NewNop())
	_, err := client.Request(context.Background(), http.MethodGet, server.URL, nil, nil)
	require.Error(t, err)

	assert.True(t, errors.Is(err, errors.ErrRateLimit))
	assert.Equal(t, int32(3), attempts.Load())
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := New(fastConfig(), logx.NewNop())
	resp, err := client.Request(context.Background(), http.MethodGet, server.URL, nil, nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestClient_RespectsContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	client := New(fastConfig(), logx.NewNop())
	_, err := client.Request(ctx, http.MethodGet, server.URL, nil, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusTooManyRequests, errors.ErrRateLimit},
		{http.StatusUnauthorized, errors.ErrUnauthorized},
		{http.StatusForbidden, errors.ErrUnauthorized},
		{http.StatusServiceUnavailable, errors.ErrServiceUnavailable},
		{http.StatusBadGateway, errors.ErrServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			err := CheckStatus(&http.Response{StatusCode: tt.status})
			assert.True(t, errors.Is(err, tt.want))
		})
	}

	assert.NoError(t, CheckStatus(&http.Response{StatusCode: http.StatusNoContent}))
	assert.EqualError(t, CheckStatus(&http.Response{StatusCode: http.StatusTeapot}), "HTTP 418: I'm a teapot")
	assert.Error(t, CheckStatus(nil))
}
