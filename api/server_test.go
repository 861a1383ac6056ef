package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"
	gws "github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/openalpha/supercluster/api"
	"github.com/openalpha/supercluster/app"
	"github.com/openalpha/supercluster/config"
	"github.com/openalpha/supercluster/metrics"
	"github.com/openalpha/supercluster/recorder"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type APISuite struct {
	suite.Suite

	clock   *clock
	app     *app.App
	rec     *recorder.SQLiteRecorder
	server  *api.Server
	http    *httptest.Server
	cancel  context.CancelFunc
	metrics *metrics.Collector
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	s.clock = &clock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	a, err := app.New(dbm.NewMemDB(), config.Default().Genesis, log.NewNopLogger(), app.WithClock(s.clock.Now))
	s.Require().NoError(err)
	s.app = a

	s.rec, err = recorder.NewSQLiteRecorder(s.T().TempDir()+"/events.db", log.NewNopLogger())
	s.Require().NoError(err)
	a.AddListener(s.rec)

	s.metrics = metrics.NewCollector(prometheus.NewRegistry())
	cfg := config.Default().API
	cfg.RateLimit = 1000
	cfg.RateBurst = 1000
	s.server = api.NewServer(cfg, a, api.Options{Recorder: s.rec, Metrics: s.metrics}, log.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.server.Hub().Run(ctx)
	s.http = httptest.NewServer(s.server.Handler())
}

func (s *APISuite) TearDownTest() {
	s.http.Close()
	s.cancel()
	s.Require().NoError(s.rec.Close())
}

func (s *APISuite) do(method, path string, body interface{}) (int, map[string]interface{}) {
	var reader *bytes.Reader
	if body != nil {
		bz, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(bz)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, s.http.URL+path, reader)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	out := map[string]interface{}{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func (s *APISuite) post(path string, body interface{}) (int, map[string]interface{}) {
	return s.do(http.MethodPost, path, body)
}

func (s *APISuite) get(path string) (int, map[string]interface{}) {
	return s.do(http.MethodGet, path, nil)
}

func errorCode(body map[string]interface{}) (string, float64) {
	e, _ := body["error"].(map[string]interface{})
	codespace, _ := e["codespace"].(string)
	code, _ := e["code"].(float64)
	return codespace, code
}

func (s *APISuite) TestHealth() {
	status, body := s.get("/health")
	s.Equal(http.StatusOK, status)
	s.Equal("ok", body["status"])
	s.Equal(float64(s.app.Height()), body["height"])
}

func (s *APISuite) TestDepositAndVault() {
	status, body := s.post("/v1/vault/deposit", map[string]string{"depositor": "admin", "amount": "1000"})
	s.Require().Equal(http.StatusOK, status, body)
	s.Equal("1000", body["shares"])

	status, body = s.get("/v1/vault")
	s.Require().Equal(http.StatusOK, status)
	s.Equal("1000", body["total_managed_value"])
	s.Equal("1000", body["total_shares"])

	status, body = s.get("/v1/stoken/accounts/admin")
	s.Require().Equal(http.StatusOK, status)
	s.Equal("1000", body["balance"])

	status, body = s.get("/v1/pilots/main")
	s.Require().Equal(http.StatusOK, status)
	s.Equal("1000", body["total_value"])
}

func (s *APISuite) TestErrorMapping() {
	testCases := []struct {
		name      string
		path      string
		body      interface{}
		status    int
		codespace string
	}{
		{"zero deposit", "/v1/vault/deposit", map[string]string{"depositor": "admin", "amount": "0"}, http.StatusBadRequest, "supercluster"},
		{"bad amount", "/v1/vault/deposit", map[string]string{"depositor": "admin", "amount": "ten"}, http.StatusBadRequest, "supercluster"},
		{"unknown field", "/v1/vault/deposit", map[string]string{"who": "admin"}, http.StatusBadRequest, "api"},
		{"rebase needs controller", "/v1/vault/rebase", map[string]string{"controller": "admin"}, http.StatusForbidden, "access"},
		{"unknown request", "/v1/withdrawals/finalize", map[string]interface{}{"operator": "operator", "request_id": 42, "settlement": "1"}, http.StatusNotFound, "withdraw"},
		{"insufficient funds", "/v1/vault/deposit", map[string]string{"depositor": "nobody", "amount": "5"}, http.StatusConflict, "assets"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			status, body := s.post(tc.path, tc.body)
			s.Equal(tc.status, status, body)
			codespace, _ := errorCode(body)
			s.Equal(tc.codespace, codespace)
		})
	}
}

func (s *APISuite) TestWithdrawalLifecycle() {
	status, _ := s.post("/v1/vault/deposit", map[string]string{"depositor": "admin", "amount": "1000"})
	s.Require().Equal(http.StatusOK, status)

	status, body := s.post("/v1/vault/withdraw", map[string]string{"owner": "admin", "value": "400"})
	s.Require().Equal(http.StatusOK, status, body)
	s.Equal("400", body["delivered"])
	id := body["request_id"].(float64)

	status, body = s.get("/v1/withdrawals/pending")
	s.Require().Equal(http.StatusOK, status)
	s.Len(body["requests"], 1)

	status, body = s.post("/v1/withdrawals/finalize", map[string]interface{}{"operator": "operator", "request_id": id, "settlement": "400"})
	s.Require().Equal(http.StatusOK, status, body)
	s.Equal("finalized", body["status"])

	status, body = s.post("/v1/withdrawals/claim", map[string]interface{}{"caller": "admin", "request_id": id})
	s.Equal(http.StatusConflict, status, body)

	s.clock.Advance(25 * time.Hour)
	status, body = s.post("/v1/withdrawals/claim", map[string]interface{}{"caller": "admin", "request_id": id})
	s.Require().Equal(http.StatusOK, status, body)
	s.Equal("claimed", body["status"])

	status, body = s.get("/v1/withdrawals/user/admin")
	s.Require().Equal(http.StatusOK, status)
	reqs := body["requests"].([]interface{})
	s.Require().Len(reqs, 1)
	s.Equal("claimed", reqs[0].(map[string]interface{})["status"])

	status, _ = s.get("/v1/withdrawals/999")
	s.Equal(http.StatusNotFound, status)
}

func (s *APISuite) TestRebaseAndHistory() {
	status, _ := s.post("/v1/vault/deposit", map[string]string{"depositor": "admin", "amount": "1000"})
	s.Require().Equal(http.StatusOK, status)
	status, body := s.post("/v1/sources/lending/accrue", map[string]string{"caller": "admin", "account": "operator", "amount": "70"})
	s.Require().Equal(http.StatusOK, status, body)

	status, body = s.post("/v1/vault/rebase", map[string]string{"controller": "keeper"})
	s.Require().Equal(http.StatusOK, status, body)
	s.Equal("1070", body["value"])

	status, body = s.get("/v1/stoken/history?limit=1")
	s.Require().Equal(http.StatusOK, status)
	s.Len(body["records"], 1)

	status, body = s.get("/v1/events?type=stoken_rebase")
	s.Require().Equal(http.StatusOK, status)
	events := body["events"].([]interface{})
	s.Require().Len(events, 1)
	s.Equal("stoken_rebase", events[0].(map[string]interface{})["type"])

	status, _ = s.get("/v1/stoken/history?limit=-1")
	s.Equal(http.StatusBadRequest, status)

	status, body = s.post("/v1/sources/lending/slash", map[string]string{"caller": "admin", "account": "operator", "amount": "70"})
	s.Require().Equal(http.StatusOK, status, body)
	s.Equal("70", body["slashed"])

	status, body = s.post("/v1/vault/rebase", map[string]string{"controller": "keeper"})
	s.Require().Equal(http.StatusOK, status, body)
	s.Equal("1000", body["value"])
}

func (s *APISuite) TestRequestIDAndCORS() {
	req, err := http.NewRequest(http.MethodOptions, s.http.URL+"/v1/vault", nil)
	s.Require().NoError(err)
	req.Header.Set("Origin", "https://example.org")
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("*", resp.Header.Get("Access-Control-Allow-Origin"))
	s.NotEmpty(resp.Header.Get("X-Request-ID"))

	req, err = http.NewRequest(http.MethodGet, s.http.URL+"/health", nil)
	s.Require().NoError(err)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, err = http.DefaultClient.Do(req)
	s.Require().NoError(err)
	resp.Body.Close()
	s.Equal("abc-123", resp.Header.Get("X-Request-ID"))
}

func (s *APISuite) TestWebSocketAccountChannel() {
	url := "ws" + strings.TrimPrefix(s.http.URL, "http") + "/ws"
	conn, _, err := gws.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	defer conn.Close()

	s.Require().NoError(conn.WriteJSON(map[string]string{"action": "subscribe", "channel": "account:admin"}))
	var ack map[string]interface{}
	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(5 * time.Second)))
	s.Require().NoError(conn.ReadJSON(&ack))
	s.Equal("subscribed", ack["type"])

	status, _ := s.post("/v1/vault/deposit", map[string]string{"depositor": "admin", "amount": "250"})
	s.Require().Equal(http.StatusOK, status)

	for {
		var msg map[string]interface{}
		s.Require().NoError(conn.ReadJSON(&msg))
		s.Equal("account:admin", msg["channel"])
		if msg["type"] == "supercluster_deposit" {
			attrs := msg["attributes"].(map[string]interface{})
			s.Equal("250", attrs["amount"])
			return
		}
	}
}

func TestRateLimitRejects(t *testing.T) {
	a, err := app.New(dbm.NewMemDB(), config.Default().Genesis, log.NewNopLogger())
	require.NoError(t, err)
	cfg := config.Default().API
	cfg.RateLimit = 0.001
	cfg.RateBurst = 2
	srv := api.NewServer(cfg, a, api.Options{}, log.NewNopLogger())
	defer func() { _ = srv.Stop(context.Background()) }()

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/vault", nil)
		srv.Handler().ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	require.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// health is not rate limited
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rr.Code)
}
