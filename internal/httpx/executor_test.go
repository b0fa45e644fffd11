package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldRetry(t *testing.T) {
	assert.True(t, ShouldRetry(nil, errors.New("dial timeout")))
	assert.True(t, ShouldRetry(&http.Response{StatusCode: 500}, nil))
	assert.True(t, ShouldRetry(&http.Response{StatusCode: 429}, nil))
	assert.False(t, ShouldRetry(&http.Response{StatusCode: 200}, nil))
	assert.False(t, ShouldRetry(&http.Response{StatusCode: 404}, nil))
	assert.False(t, ShouldRetry(&http.Response{StatusCode: 401}, nil))
}

func TestExecutorRetriesUntilSuccess(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	exec := NewExecutor(ExecutorConfig{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond})
	resp, err := Execute(context.Background(), exec, func() (*http.Response, error) {
		return http.Get(srv.URL)
	})
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, attempts)
}

func TestExecutorGivesUpAfterMaxRetries(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	exec := NewExecutor(ExecutorConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond})
	resp, err := Execute(context.Background(), exec, func() (*http.Response, error) {
		return http.Get(srv.URL)
	})
	if resp != nil {
		resp.Body.Close()
	}

	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, 3, attempts)
}

func TestRetryAfter(t *testing.T) {
	resp := &http.Response{Header: http.Header{}}
	assert.Zero(t, RetryAfter(resp, time.Minute))

	resp.Header.Set("Retry-After", "5")
	assert.Equal(t, 5*time.Second, RetryAfter(resp, time.Minute))

	resp.Header.Set("Retry-After", "3600")
	assert.Equal(t, time.Minute, RetryAfter(resp, time.Minute))

	resp.Header.Set("Retry-After", "soonish")
	assert.Zero(t, RetryAfter(resp, time.Minute))
}

func TestSleepHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Sleep(ctx, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, Sleep(context.Background(), 0))
}
