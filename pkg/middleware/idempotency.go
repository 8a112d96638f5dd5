package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	apperrors "cleanbook/pkg/errors"
	httputil "cleanbook/pkg/http"
)

const (
	IdempotencyKeyHeader   = "Idempotency-Key"
	IdempotentReplayHeader = "Idempotent-Replayed"

	maxIdempotencyKeyLength = 255
)

// IdempotencyStore remembers the outcome of keyed write requests.
//
// Reserve either returns the cached response for key, or claims key for the caller. While a
// key is claimed, further Reserve calls for it return (nil, false). Complete stores the response
// and releases the claim; a nil response releases it without caching anything.
type IdempotencyStore interface {
	Reserve(key string) (cached *CachedResponse, reserved bool)
	Complete(key string, response *CachedResponse)
	Stop()
}

type CachedResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	CreatedAt  time.Time
}

type InMemoryIdempotencyStore struct {
	mu       sync.Mutex
	done     map[string]*CachedResponse
	inFlight map[string]struct{}
	ttl      time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewInMemoryIdempotencyStore(ttl time.Duration) *InMemoryIdempotencyStore {
	store := &InMemoryIdempotencyStore{
		done:     make(map[string]*CachedResponse),
		inFlight: make(map[string]struct{}),
		ttl:      ttl,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}

	go store.sweepLoop()

	return store
}

func (s *InMemoryIdempotencyStore) Reserve(key string) (*CachedResponse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cached, ok := s.done[key]; ok {
		if s.now().Sub(cached.CreatedAt) <= s.ttl {
			return cached, false
		}
		delete(s.done, key)
	}
	if _, busy := s.inFlight[key]; busy {
		return nil, false
	}
	s.inFlight[key] = struct{}{}
	return nil, true
}

func (s *InMemoryIdempotencyStore) Complete(key string, response *CachedResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.inFlight, key)
	if response == nil {
		return
	}
	response.CreatedAt = s.now()
	s.done[key] = response
}

func (s *InMemoryIdempotencyStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, cached := range s.done {
		if now.Sub(cached.CreatedAt) > s.ttl {
			delete(s.done, key)
		}
	}
}

func (s *InMemoryIdempotencyStore) sweepLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

func (s *InMemoryIdempotencyStore) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

type responseCapture struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
	body        bytes.Buffer
}

func (rc *responseCapture) WriteHeader(statusCode int) {
	if rc.wroteHeader {
		return
	}
	rc.wroteHeader = true
	rc.statusCode = statusCode
	rc.ResponseWriter.WriteHeader(statusCode)
}

func (rc *responseCapture) Write(b []byte) (int, error) {
	if !rc.wroteHeader {
		rc.WriteHeader(http.StatusOK)
	}
	rc.body.Write(b)
	return rc.ResponseWriter.Write(b)
}

// Idempotency makes keyed POST and PATCH requests safe to retry. The first 2xx response for a
// key is replayed to later requests with the same method, path and body. A retry that arrives
// while the first attempt is still running gets 409 instead of a second booking attempt.
// Failed responses are not cached.
func Idempotency(store IdempotencyStore, headerName string) func(http.Handler) http.Handler {
	if headerName == "" {
		headerName = IdempotencyKeyHeader
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientKey := strings.TrimSpace(r.Header.Get(headerName))
			if !isUnsafe(r.Method) || clientKey == "" || len(clientKey) > maxIdempotencyKeyLength {
				next.ServeHTTP(w, r)
				return
			}

			key, err := requestFingerprint(r, clientKey)
			if err != nil {
				_ = httputil.WriteError(w, apperrors.InvalidInput("Request body could not be read"))
				return
			}

			cached, reserved := store.Reserve(key)
			if cached != nil {
				replay(w, cached)
				return
			}
			if !reserved {
				_ = httputil.WriteError(w, apperrors.Conflict("A request with this Idempotency-Key is still being processed"))
				return
			}

			capture := &responseCapture{ResponseWriter: w}
			defer func() {
				if rec := recover(); rec != nil {
					store.Complete(key, nil)
					panic(rec)
				}
			}()
			next.ServeHTTP(capture, r)
			store.Complete(key, cacheable(capture, w.Header()))
		})
	}
}

func isUnsafe(method string) bool {
	return method == http.MethodPost || method == http.MethodPatch || method == http.MethodPut
}

// requestFingerprint binds the client key to the request body and restores the body for the
// next handler.
func requestFingerprint(r *http.Request, clientKey string) (string, error) {
	var body []byte
	if r.Body != nil {
		var err error
		body, err = io.ReadAll(r.Body)
		if err != nil {
			return "", err
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
	}
	sum := sha256.Sum256(body)
	return r.Method + " " + r.URL.Path + " " + clientKey + " " + hex.EncodeToString(sum[:8]), nil
}

func replay(w http.ResponseWriter, cached *CachedResponse) {
	for key, values := range cached.Headers {
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}
	w.Header().Set(IdempotentReplayHeader, "true")
	w.WriteHeader(cached.StatusCode)
	_, _ = w.Write(cached.Body)
}

func cacheable(capture *responseCapture, headers http.Header) *CachedResponse {
	if !capture.wroteHeader || capture.statusCode < 200 || capture.statusCode >= 300 {
		return nil
	}
	h := headers.Clone()
	h.Del(RequestIDHeader)
	return &CachedResponse{
		StatusCode: capture.statusCode,
		Headers:    h,
		Body:       bytes.Clone(capture.body.Bytes()),
	}
}
