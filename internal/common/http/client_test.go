// internal/common/http/client_test.go
package http

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flakyServer(t *testing.T, failures int32, failStatus int) (*httptest.Server, *int32) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n <= failures {
			w.WriteHeader(failStatus)
			return
		}
		body, _ := io.ReadAll(r.Body)
		_, _ = w.Write(append([]byte("ok:"), body...))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestDo_RetriesTransientStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"server error", http.StatusBadGateway},
		{"rate limited", http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, calls := flakyServer(t, 2, tt.status)
			client := NewClient(time.Second, WithRetries(2, time.Millisecond))

			req, err := http.NewRequest(http.MethodPut, srv.URL, bytes.NewReader([]byte("lead")))
			require.NoError(t, err)
			resp, err := client.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "ok:lead", string(body))
			assert.Equal(t, int32(3), atomic.LoadInt32(calls))
		})
	}
}

func TestDo_GivesUpAfterMaxRetries(t *testing.T) {
	srv, calls := flakyServer(t, 10, http.StatusInternalServerError)
	client := NewClient(time.Second, WithRetries(1, time.Millisecond))

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

func TestDo_DoesNotRetryPostOrClientErrors(t *testing.T) {
	srv, calls := flakyServer(t, 1, http.StatusServiceUnavailable)
	client := NewClient(time.Second, WithRetries(3, time.Millisecond))

	req, _ := http.NewRequest(http.MethodPost, srv.URL, bytes.NewReader([]byte("x")))
	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))

	srv404, calls404 := flakyServer(t, 5, http.StatusNotFound)
	req, _ = http.NewRequest(http.MethodGet, srv404.URL, nil)
	resp, err = client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, int32(1), atomic.LoadInt32(calls404))
}

func TestDoWithContext_CancelledDuringBackoff(t *testing.T) {
	srv, _ := flakyServer(t, 10, http.StatusInternalServerError)
	client := NewClient(time.Second, WithRetries(5, time.Hour))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	_, err := client.DoWithContext(ctx, req)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
