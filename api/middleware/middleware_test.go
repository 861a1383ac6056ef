package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cosmossdk.io/log"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRateLimiterPerIP(t *testing.T) {
	rl := NewRateLimiter(&RateLimitConfig{
		RequestsPerSecond: 0.001,
		Burst:             2,
		CleanupInterval:   time.Hour,
		ClientTTL:         time.Hour,
	})
	defer rl.Stop()

	var rejected []string
	rl.OnReject = func(path string) { rejected = append(rejected, path) }
	h := RateLimitMiddleware(rl)(ok)

	send := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/v1/vault", nil)
		req.Header.Set("X-Forwarded-For", ip+", 10.0.0.1")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr
	}

	require.Equal(t, http.StatusOK, send("1.1.1.1").Code)
	require.Equal(t, http.StatusOK, send("1.1.1.1").Code)

	rr := send("1.1.1.1")
	require.Equal(t, http.StatusTooManyRequests, rr.Code)
	require.Equal(t, "2", rr.Header().Get("X-RateLimit-Limit"))
	require.NotEmpty(t, rr.Header().Get("Retry-After"))
	var body map[string]map[string]interface{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	require.Equal(t, float64(http.StatusTooManyRequests), body["error"]["code"])
	require.Equal(t, []string{"/v1/vault"}, rejected)

	// another client has its own bucket
	require.Equal(t, http.StatusOK, send("2.2.2.2").Code)
	require.Equal(t, 2, rl.GetStats().TrackedClients)
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(&RateLimitConfig{RequestsPerSecond: 1, Burst: 1, CleanupInterval: time.Hour, ClientTTL: -time.Second})
	defer rl.Stop()

	allowed, _ := rl.AllowIP("3.3.3.3")
	require.True(t, allowed)
	rl.cleanup()
	require.Zero(t, rl.GetStats().TrackedClients)
}

func TestGetClientIP(t *testing.T) {
	testCases := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded chain", map[string]string{"X-Forwarded-For": "9.9.9.9, 10.0.0.1"}, "127.0.0.1:1", "9.9.9.9"},
		{"real ip", map[string]string{"X-Real-IP": "8.8.8.8"}, "127.0.0.1:1", "8.8.8.8"},
		{"remote addr", nil, "7.7.7.7:5555", "7.7.7.7"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remote
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			require.Equal(t, tc.want, getClientIP(req))
		})
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Len(t, seen, 36)
	require.Equal(t, seen, rr.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "given")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, "given", seen)
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://app.example"})(ok)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://app.example")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, "https://app.example", rr.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/", nil)
	rr = httptest.NewRecorder()
	CORS([]string{"*"})(http.NotFoundHandler()).ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

type recorded struct {
	method, path, status string
}

type fakeRecorder struct{ calls []recorded }

func (f *fakeRecorder) RecordAPIRequest(method, path, status string, _ float64) {
	f.calls = append(f.calls, recorded{method, path, status})
}

func TestObserveUsesRouteTemplate(t *testing.T) {
	rec := &fakeRecorder{}
	r := mux.NewRouter()
	r.Use(Observe(rec, log.NewNopLogger()))
	r.HandleFunc("/v1/pilots/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/pilots/main", nil))
	require.Equal(t, []recorded{{"GET", "/v1/pilots/{id}", "418"}}, rec.calls)
}
