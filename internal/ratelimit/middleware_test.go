package ratelimit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foundry/pkg/requestcontext"
	"foundry/pkg/testutil"
)

type failingStore struct{}

func (failingStore) Allow(context.Context, string, int, time.Duration) (*Result, error) {
	return nil, errors.New("store down")
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func testMiddleware(store Store, limit int) *Middleware {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewMiddleware(New(store, limit, time.Minute), logger)
}

func TestLimitAllowsAndSetsHeaders(t *testing.T) {
	handler := testMiddleware(NewInMemoryStore(), 2).Limit(okHandler())

	req := testutil.NewRequest(t, http.MethodPost, "/auth/login")
	req = req.WithContext(requestcontext.WithClientMetadata(req.Context(), "9.9.9.9", "test-agent"))

	rr := testutil.DoRequest(handler, req)
	testutil.AssertStatus(t, rr, http.StatusOK)
	assert.Equal(t, "2", rr.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", rr.Header().Get("X-RateLimit-Remaining"))
}

func TestLimitRejectsOverLimit(t *testing.T) {
	handler := testMiddleware(NewInMemoryStore(), 1).Limit(okHandler())

	newReq := func() *http.Request {
		req := testutil.NewRequest(t, http.MethodPost, "/auth/login")
		ctx := requestcontext.WithClientMetadata(req.Context(), "9.9.9.9", "test-agent")
		ctx = requestcontext.WithTime(ctx, time.Now())
		return req.WithContext(ctx)
	}

	rr := testutil.DoRequest(handler, newReq())
	testutil.AssertStatus(t, rr, http.StatusOK)

	rr = testutil.DoRequest(handler, newReq())
	testutil.AssertError(t, rr, http.StatusTooManyRequests, "rate_limited")
	require.NotEmpty(t, rr.Header().Get("Retry-After"))
}

func TestLimitFailsOpenOnStoreError(t *testing.T) {
	handler := testMiddleware(failingStore{}, 1).Limit(okHandler())

	req := testutil.NewRequest(t, http.MethodPost, "/auth/login")
	rr := testutil.DoRequest(handler, req)
	testutil.AssertStatus(t, rr, http.StatusOK)
}
