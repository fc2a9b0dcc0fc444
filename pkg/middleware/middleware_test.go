package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"clinicbook/pkg/logger"
)

func okHandler(status int, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

func TestRequestLogging_AssignsRequestID(t *testing.T) {
	var seen string
	h := RequestLogging(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if seen == "" {
		t.Fatal("expected request ID in context")
	}
	if rec.Header().Get(RequestIDHeader) != seen {
		t.Errorf("expected response header %q, got %q", seen, rec.Header().Get(RequestIDHeader))
	}
}

func TestRequestLogging_ReusesWellFormedIncomingID(t *testing.T) {
	const incoming = "3f1c7b0e-8d5a-4c1e-9b7f-2a6d4e8c0b11"
	var seen string
	h := RequestLogging(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, incoming)
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen != incoming {
		t.Errorf("expected incoming ID to be reused, got %q", seen)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen == "<script>" {
		t.Error("expected malformed incoming ID to be replaced")
	}
}

func TestRequestIDFromContext_Empty(t *testing.T) {
	if id := RequestIDFromContext(context.Background()); id != "" {
		t.Errorf("expected empty ID, got %q", id)
	}
}

func TestRecovery(t *testing.T) {
	h := Recovery(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "INTERNAL_ERROR") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestContentTypeValidation(t *testing.T) {
	h := ContentTypeValidation(logger.Nop())(okHandler(http.StatusOK, "{}"))

	tests := []struct {
		name        string
		method      string
		body        string
		contentType string
		wantStatus  int
	}{
		{name: "json post", method: http.MethodPost, body: "{}", contentType: "application/json", wantStatus: http.StatusOK},
		{name: "json with charset", method: http.MethodPost, body: "{}", contentType: "Application/JSON; charset=utf-8", wantStatus: http.StatusOK},
		{name: "form post", method: http.MethodPost, body: "a=b", contentType: "application/x-www-form-urlencoded", wantStatus: http.StatusUnsupportedMediaType},
		{name: "missing header with body", method: http.MethodPost, body: "{}", wantStatus: http.StatusUnsupportedMediaType},
		{name: "bodiless post", method: http.MethodPost, wantStatus: http.StatusOK},
		{name: "get", method: http.MethodGet, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/v1/bookings", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}

func TestRequestTimeout(t *testing.T) {
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	h := RequestTimeout(20 * time.Millisecond)(slow)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "TIMEOUT") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestIdempotency_ReplaysSuccess(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Hour)
	defer store.Stop()

	calls := 0
	h := Idempotency(store, "", logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"1"}}`))
	}))

	for i := range 2 {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader("{}"))
		req.Header.Set(DefaultIdempotencyHeader, "abc")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated || rec.Body.String() != `{"data":{"id":"1"}}` {
			t.Fatalf("attempt %d: unexpected response %d %s", i, rec.Code, rec.Body.String())
		}
		if i == 1 && rec.Header().Get("Idempotent-Replayed") != "true" {
			t.Error("expected replay marker on second response")
		}
	}
	if calls != 1 {
		t.Errorf("expected handler to run once, ran %d times", calls)
	}
}

func TestIdempotency_DoesNotCacheFailures(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Hour)
	defer store.Stop()

	calls := 0
	h := Idempotency(store, "", logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusConflict)
	}))

	for range 2 {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader("{}"))
		req.Header.Set(DefaultIdempotencyHeader, "abc")
		h.ServeHTTP(httptest.NewRecorder(), req)
	}
	if calls != 2 {
		t.Errorf("expected failed responses to be retried, handler ran %d times", calls)
	}
}

func TestIdempotency_RejectsConcurrentDuplicate(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Hour)
	defer store.Stop()

	release := make(chan struct{})
	started := make(chan struct{})
	h := Idempotency(store, "", logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		w.WriteHeader(http.StatusCreated)
	}))

	newReq := func() *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader("{}"))
		req.Header.Set(DefaultIdempotencyHeader, "same")
		return req
	}

	var wg sync.WaitGroup
	first := httptest.NewRecorder()
	wg.Add(1)
	go func() {
		defer wg.Done()
		h.ServeHTTP(first, newReq())
	}()
	<-started

	second := httptest.NewRecorder()
	h.ServeHTTP(second, newReq())
	close(release)
	wg.Wait()

	if second.Code != http.StatusConflict {
		t.Errorf("expected in-flight duplicate to get 409, got %d", second.Code)
	}
	if first.Code != http.StatusCreated {
		t.Errorf("expected original request to succeed, got %d", first.Code)
	}
}

// lateCacheStore misses the first lookup and then serves the response the
// original request stored while this one was on its way to Begin.
type lateCacheStore struct {
	*InMemoryIdempotencyStore
	lookups int
}

func (s *lateCacheStore) Get(key string) (*CachedResponse, bool) {
	s.lookups++
	if s.lookups == 1 {
		return nil, false
	}
	return s.InMemoryIdempotencyStore.Get(key)
}

func TestIdempotency_ReplaysResponseStoredBeforeBegin(t *testing.T) {
	inner := NewInMemoryIdempotencyStore(time.Hour)
	defer inner.Stop()
	key := http.MethodPost + " /api/v1/bookings abc"
	inner.Set(key, &CachedResponse{StatusCode: http.StatusCreated, Headers: http.Header{}, Body: []byte(`{"data":{"id":"1"}}`)})
	store := &lateCacheStore{InMemoryIdempotencyStore: inner}

	calls := 0
	h := Idempotency(store, "", logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusConflict)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader("{}"))
	req.Header.Set(DefaultIdempotencyHeader, "abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if calls != 0 {
		t.Errorf("expected handler not to run, ran %d times", calls)
	}
	if rec.Code != http.StatusCreated || rec.Header().Get("Idempotent-Replayed") != "true" {
		t.Errorf("expected replayed 201, got %d", rec.Code)
	}
	if !inner.Begin(key) {
		t.Error("expected in-flight mark to be cleared after replay")
	}
}

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute, nil, logger.Nop())
	defer rl.Stop()

	now := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	if !rl.Allow("10.0.0.1") || !rl.Allow("10.0.0.1") {
		t.Fatal("expected first two requests to pass")
	}
	if rl.Allow("10.0.0.1") {
		t.Error("expected third request inside the window to be limited")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("expected other clients to be unaffected")
	}
	if !rl.Allow("") {
		t.Error("expected empty key to be unlimited")
	}

	now = now.Add(time.Minute)
	if !rl.Allow("10.0.0.1") {
		t.Error("expected request after the window to pass")
	}
}

func TestRateLimit_IgnoresReads(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute, nil, logger.Nop())
	defer rl.Stop()
	h := RateLimit(rl)(okHandler(http.StatusOK, "{}"))

	for range 3 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/slots", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected GET to pass, got %d", rec.Code)
		}
	}

	codes := []int{}
	for range 2 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil))
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("expected [200 429], got %v", codes)
	}
}

func TestClientIPExtractor(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = "192.0.2.1:5555"
	if got := ClientIPExtractor(req); got != "192.0.2.1" {
		t.Errorf("expected remote host, got %q", got)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if got := ClientIPExtractor(req); got != "203.0.113.7" {
		t.Errorf("expected first forwarded hop, got %q", got)
	}
}

func TestMaxRequestSize(t *testing.T) {
	h := MaxRequestSize(8)(okHandler(http.StatusOK, "{}"))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":"bbbbbbbbbb"}`)))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`)))
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
