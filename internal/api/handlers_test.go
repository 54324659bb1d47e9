// Discovery - Content DNA Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/discovery

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/tomtom215/discovery/internal/auth"
	"github.com/tomtom215/discovery/internal/config"
	"github.com/tomtom215/discovery/internal/discovery"
	"github.com/tomtom215/discovery/internal/dna"
	"github.com/tomtom215/discovery/internal/events"
	"github.com/tomtom215/discovery/internal/models"
	"github.com/tomtom215/discovery/internal/recommend"
)

// mockEngine records the last similar-items request.
type mockEngine struct {
	items []recommend.Item
	err   error
	last  recommend.SimilarRequest
	calls int
}

func (m *mockEngine) SimilarItems(_ context.Context, req recommend.SimilarRequest) ([]recommend.Item, error) {
	m.calls++
	m.last = req
	return m.items, m.err
}

func (m *mockEngine) Stats() recommend.Stats {
	return recommend.Stats{Requests: int64(m.calls)}
}

type mockHub struct {
	strategy discovery.Strategy
	err      error
	surface  discovery.Surface
	pool     []recommend.Item
	user     *recommend.User
}

func (m *mockHub) ServeWithStrategy(ctx context.Context, surface discovery.Surface, items []recommend.Item) ([]recommend.Item, discovery.Strategy, error) {
	m.surface = surface
	m.pool = items
	m.user = auth.UserFromContext(ctx)
	if m.err != nil {
		return nil, "", m.err
	}
	return items, m.strategy, nil
}

type mockStore struct {
	mu        sync.Mutex
	items     []recommend.Item
	listErr   error
	insertErr error
	lastOpts  recommend.ListOptions
	inserted  []recommend.Item
}

func (m *mockStore) ListItems(_ context.Context, opts recommend.ListOptions) ([]recommend.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastOpts = opts
	return m.items, m.listErr
}

func (m *mockStore) InsertItem(_ context.Context, item *recommend.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	item.ID = fmt.Sprintf("item-%d", len(m.inserted)+1)
	item.CreatedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m.inserted = append(m.inserted, *item)
	return nil
}

type mockPinger struct{ err error }

func (m *mockPinger) Ping(context.Context) error { return m.err }

type mockPublisher struct {
	events []events.ItemCreated
	err    error
}

func (m *mockPublisher) PublishItemCreated(_ context.Context, evt events.ItemCreated) error {
	m.events = append(m.events, evt)
	return m.err
}

type mockBreaker struct{ state gobreaker.State }

func (m mockBreaker) BreakerState() gobreaker.State { return m.state }

type mockUsers struct{ users map[string]*recommend.User }

func (m *mockUsers) UserByID(_ context.Context, id string) (*recommend.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("%s: %w", id, recommend.ErrUserNotFound)
}

const testSecret = "test-secret-with-at-least-32-characters!!"

type testServer struct {
	engine    *mockEngine
	hub       *mockHub
	store     *mockStore
	db        *mockPinger
	publisher *mockPublisher
	jwt       *auth.JWTManager
	handler   http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		engine:    &mockEngine{},
		hub:       &mockHub{strategy: discovery.StrategyFallback},
		store:     &mockStore{},
		db:        &mockPinger{},
		publisher: &mockPublisher{},
	}

	cfg := &config.RecommendConfig{
		Threshold:       0.2,
		DefaultLimit:    10,
		MaxLimit:        100,
		SurfacePoolSize: 200,
		RequestTimeout:  time.Second,
	}
	h, err := NewHandler(cfg, Dependencies{
		Engine: ts.engine,
		Hub:    ts.hub,
		Store:  ts.store,
		DB:     ts.db,
		Events: ts.publisher,
	})
	if err != nil {
		t.Fatalf("NewHandler() error: %v", err)
	}

	jwtManager, err := auth.NewJWTManager(&config.SecurityConfig{JWTSecret: testSecret, TokenTTL: time.Hour})
	if err != nil {
		t.Fatalf("NewJWTManager() error: %v", err)
	}
	ts.jwt = jwtManager
	users := &mockUsers{users: map[string]*recommend.User{
		"u1": {ID: "u1", Email: "ana@example.com", Bio: "goalkeeper"},
	}}
	authMw := auth.NewMiddleware(jwtManager, users, zerolog.Nop())

	chiMw := NewChiMiddleware(&ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{"*"},
		RateLimitDisabled:  true,
	})
	ts.handler = NewRouter(h, chiMw, authMw).SetupChi()
	return ts
}

func (ts *testServer) do(t *testing.T, method, target, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) token(t *testing.T, userID string) string {
	t.Helper()
	tok, err := ts.jwt.GenerateToken(userID, userID+"@example.com")
	if err != nil {
		t.Fatalf("GenerateToken() error: %v", err)
	}
	return tok
}

// envelope mirrors models.APIResponse with raw data.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return env
}

func decodeItems(t *testing.T, env envelope) []models.Item {
	t.Helper()
	var items []models.Item
	if err := json.Unmarshal(env.Data, &items); err != nil {
		t.Fatalf("decode items %s: %v", env.Data, err)
	}
	return items
}

func TestSimilarItems(t *testing.T) {
	sports := dna.New("Sports", "Football", "Goalkeeping")

	tests := []struct {
		name      string
		query     string
		engineErr error
		items     []recommend.Item
		wantCode  int
		wantError string
		wantLimit int
		wantKind  recommend.Kind
	}{
		{
			name:      "success with default limit",
			query:     "refId=p1&refType=post",
			items:     []recommend.Item{{ID: "p2", Kind: recommend.KindPost, DNA: sports}},
			wantCode:  http.StatusOK,
			wantLimit: 10,
			wantKind:  recommend.KindPost,
		},
		{
			name:      "limit capped at max",
			query:     "refId=m1&refType=marketplace&limit=1000",
			wantCode:  http.StatusOK,
			wantLimit: 100,
			wantKind:  recommend.KindMarketplace,
		},
		{
			name:      "reel reference with case-insensitive type",
			query:     "refId=r1&refType=REEL&limit=3",
			wantCode:  http.StatusOK,
			wantLimit: 3,
			wantKind:  recommend.KindReel,
		},
		{name: "missing id", query: "refType=post", wantCode: http.StatusBadRequest, wantError: models.CodeValidation},
		{name: "missing type", query: "refId=p1", wantCode: http.StatusBadRequest, wantError: models.CodeValidation},
		{name: "unknown type", query: "refId=p1&refType=story", wantCode: http.StatusBadRequest, wantError: models.CodeValidation},
		{name: "invalid id characters", query: "refId=p1%3Bdrop&refType=post", wantCode: http.StatusBadRequest, wantError: models.CodeValidation},
		{name: "non-numeric limit", query: "refId=p1&refType=post&limit=ten", wantCode: http.StatusBadRequest, wantError: models.CodeValidation},
		{name: "negative limit", query: "refId=p1&refType=post&limit=-1", wantCode: http.StatusBadRequest, wantError: models.CodeValidation},
		{
			name:      "reference not found",
			query:     "refId=p404&refType=post",
			engineErr: fmt.Errorf("get reference item: %w", recommend.ErrNotFound),
			wantCode:  http.StatusNotFound,
			wantError: models.CodeNotFound,
		},
		{
			name:      "reference without dna",
			query:     "refId=p1&refType=post",
			engineErr: fmt.Errorf("reference item p1: %w", recommend.ErrNoDNA),
			wantCode:  http.StatusNotFound,
			wantError: models.CodeNoDNA,
		},
		{
			name:      "store failure",
			query:     "refId=p1&refType=post",
			engineErr: errors.New("duckdb: connection reset"),
			wantCode:  http.StatusInternalServerError,
			wantError: models.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.engine.items = tt.items
			ts.engine.err = tt.engineErr

			rec := ts.do(t, http.MethodGet, "/api/v1/recommendations?"+tt.query, "", "")
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantCode, rec.Body.String())
			}
			env := decodeEnvelope(t, rec)

			if tt.wantError != "" {
				if env.Error == nil || env.Error.Code != tt.wantError {
					t.Fatalf("error = %+v, want code %s", env.Error, tt.wantError)
				}
				if env.Status != models.StatusError {
					t.Errorf("status field = %q, want %q", env.Status, models.StatusError)
				}
				return
			}

			if ts.engine.last.Limit != tt.wantLimit {
				t.Errorf("engine limit = %d, want %d", ts.engine.last.Limit, tt.wantLimit)
			}
			if ts.engine.last.RefKind != tt.wantKind {
				t.Errorf("engine kind = %q, want %q", ts.engine.last.RefKind, tt.wantKind)
			}
			items := decodeItems(t, env)
			if len(items) != len(tt.items) || env.Metadata.Count != len(tt.items) {
				t.Errorf("got %d items (count %d), want %d", len(items), env.Metadata.Count, len(tt.items))
			}
		})
	}
}

func TestSimilarItems_EmptyResultIsArray(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/v1/recommendations?refId=p1&refType=post", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if env := decodeEnvelope(t, rec); string(env.Data) != "[]" {
		t.Errorf("data = %s, want []", env.Data)
	}
}

func TestDiscovery(t *testing.T) {
	pool := make([]recommend.Item, 15)
	for i := range pool {
		pool[i] = recommend.Item{ID: fmt.Sprintf("p%d", i), Kind: recommend.KindPost}
	}

	t.Run("anonymous feed uses fallback", func(t *testing.T) {
		ts := newTestServer(t)
		ts.store.items = pool

		rec := ts.do(t, http.MethodGet, "/api/v1/discovery/feed", "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
		}
		env := decodeEnvelope(t, rec)
		if env.Metadata.Strategy != string(discovery.StrategyFallback) {
			t.Errorf("strategy = %q, want fallback", env.Metadata.Strategy)
		}
		if got := len(decodeItems(t, env)); got != 10 {
			t.Errorf("items = %d, want default limit 10", got)
		}
		if ts.hub.surface != discovery.SurfaceFeed || len(ts.hub.pool) != len(pool) {
			t.Errorf("hub got surface %q with %d items", ts.hub.surface, len(ts.hub.pool))
		}
		if ts.hub.user != nil {
			t.Error("anonymous request reached the hub with a user")
		}
		if ts.store.lastOpts.Limit != 200 {
			t.Errorf("pool limit = %d, want 200", ts.store.lastOpts.Limit)
		}
	})

	t.Run("authenticated reels report dna strategy", func(t *testing.T) {
		ts := newTestServer(t)
		ts.hub.strategy = discovery.StrategyDNA
		ts.store.items = pool[:3]

		rec := ts.do(t, http.MethodGet, "/api/v1/discovery/reels?limit=2", "", ts.token(t, "u1"))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
		}
		env := decodeEnvelope(t, rec)
		if env.Metadata.Strategy != string(discovery.StrategyDNA) {
			t.Errorf("strategy = %q, want dna", env.Metadata.Strategy)
		}
		if env.Metadata.Count != 2 {
			t.Errorf("count = %d, want 2", env.Metadata.Count)
		}
		if ts.hub.user == nil || ts.hub.user.ID != "u1" {
			t.Errorf("hub user = %+v, want u1", ts.hub.user)
		}
		kinds := ts.store.lastOpts.Kinds
		if len(kinds) != 1 || kinds[0] != recommend.KindReel {
			t.Errorf("pool kinds = %v, want [reel]", kinds)
		}
	})

	errorCases := []struct {
		name     string
		path     string
		listErr  error
		hubErr   error
		wantCode int
		wantErr  string
	}{
		{name: "unknown surface", path: "/api/v1/discovery/stories", wantCode: http.StatusBadRequest, wantErr: models.CodeValidation},
		{name: "bad limit", path: "/api/v1/discovery/feed?limit=x", wantCode: http.StatusBadRequest, wantErr: models.CodeValidation},
		{name: "pool failure", path: "/api/v1/discovery/marketplace", listErr: errors.New("io"), wantCode: http.StatusInternalServerError, wantErr: models.CodeInternal},
		{name: "ranker failure", path: "/api/v1/discovery/feed", hubErr: errors.New("follow lookup"), wantCode: http.StatusInternalServerError, wantErr: models.CodeInternal},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.store.listErr = tc.listErr
			ts.hub.err = tc.hubErr

			rec := ts.do(t, http.MethodGet, tc.path, "", "")
			if rec.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantCode)
			}
			if env := decodeEnvelope(t, rec); env.Error == nil || env.Error.Code != tc.wantErr {
				t.Errorf("error = %+v, want %s", env.Error, tc.wantErr)
			}
		})
	}
}

func TestCreateItem(t *testing.T) {
	t.Run("stores item and publishes event", func(t *testing.T) {
		ts := newTestServer(t)
		body := `{"kind":"post","title":" Clean sheet ","text":"Saved a penalty today","contentDna":{"primaryCategory":"Sports","subCategory":"Football","niche":"Goalkeeping","tags":["penalty","penalty"]}}`

		rec := ts.do(t, http.MethodPost, "/api/v1/items", body, ts.token(t, "u1"))
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
		}

		if len(ts.store.inserted) != 1 {
			t.Fatalf("inserted %d items, want 1", len(ts.store.inserted))
		}
		stored := ts.store.inserted[0]
		if stored.AuthorID != "u1" || stored.Title != "Clean sheet" {
			t.Errorf("stored item = %+v", stored)
		}
		if stored.DNA == nil || len(stored.DNA.Tags) != 1 {
			t.Errorf("stored dna = %+v, want normalised tags", stored.DNA)
		}

		if len(ts.publisher.events) != 1 {
			t.Fatalf("published %d events, want 1", len(ts.publisher.events))
		}
		evt := ts.publisher.events[0]
		if evt.ItemID != "item-1" || !evt.HasDNA || evt.AuthorID != "u1" {
			t.Errorf("event = %+v", evt)
		}

		var item models.Item
		if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &item); err != nil {
			t.Fatalf("decode item: %v", err)
		}
		if item.ID != "item-1" || item.Kind != "post" {
			t.Errorf("response item = %+v", item)
		}
	})

	t.Run("marketplace listing without dna", func(t *testing.T) {
		ts := newTestServer(t)
		body := `{"kind":"marketplace","text":"Goalkeeper gloves","price":49.9,"location":"Porto Alegre, Brasil","isAd":true}`

		rec := ts.do(t, http.MethodPost, "/api/v1/items", body, ts.token(t, "u1"))
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
		}
		stored := ts.store.inserted[0]
		if stored.Kind != recommend.KindMarketplace || stored.Price != 49.9 || !stored.IsAd {
			t.Errorf("stored listing = %+v", stored)
		}
		if ts.publisher.events[0].HasDNA {
			t.Error("event reports dna for an item without one")
		}
	})

	t.Run("publish failure still returns created", func(t *testing.T) {
		ts := newTestServer(t)
		ts.publisher.err = errors.New("bus closed")

		rec := ts.do(t, http.MethodPost, "/api/v1/items", `{"kind":"reel","text":"Warmup drill"}`, ts.token(t, "u1"))
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201", rec.Code)
		}
	})

	rejections := []struct {
		name     string
		body     string
		token    bool
		insert   error
		wantCode int
		wantErr  string
	}{
		{name: "anonymous", body: `{"kind":"post","text":"hi"}`, wantCode: http.StatusUnauthorized, wantErr: models.CodeUnauthorized},
		{name: "empty body", token: true, wantCode: http.StatusBadRequest, wantErr: models.CodeInvalid},
		{name: "malformed json", body: `{"kind":`, token: true, wantCode: http.StatusBadRequest, wantErr: models.CodeInvalid},
		{name: "unknown kind", body: `{"kind":"story","text":"hi"}`, token: true, wantCode: http.StatusBadRequest, wantErr: models.CodeValidation},
		{name: "blank text", body: `{"kind":"post","text":"   "}`, token: true, wantCode: http.StatusBadRequest, wantErr: models.CodeValidation},
		{name: "negative price", body: `{"kind":"marketplace","text":"hi","price":-1}`, token: true, wantCode: http.StatusBadRequest, wantErr: models.CodeValidation},
		{name: "dna without primary", body: `{"kind":"post","text":"hi","contentDna":{"subCategory":"x"}}`, token: true, wantCode: http.StatusBadRequest, wantErr: models.CodeValidation},
		{name: "store failure", body: `{"kind":"post","text":"hi"}`, token: true, insert: errors.New("disk full"), wantCode: http.StatusInternalServerError, wantErr: models.CodeInternal},
	}
	for _, tc := range rejections {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.store.insertErr = tc.insert
			var tok string
			if tc.token {
				tok = ts.token(t, "u1")
			}

			rec := ts.do(t, http.MethodPost, "/api/v1/items", tc.body, tok)
			if rec.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tc.wantCode, rec.Body.String())
			}
			if env := decodeEnvelope(t, rec); env.Error == nil || env.Error.Code != tc.wantErr {
				t.Errorf("error = %+v, want %s", env.Error, tc.wantErr)
			}
			if len(ts.publisher.events) != 0 {
				t.Error("rejected request published an event")
			}
		})
	}
}

func TestInvalidTokenRejected(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/v1/discovery/feed", "", "not-a-jwt")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if ts.hub.surface != "" {
		t.Error("hub ran for a request with an invalid token")
	}
}

func TestHealth(t *testing.T) {
	t.Run("live", func(t *testing.T) {
		ts := newTestServer(t)
		if rec := ts.do(t, http.MethodGet, "/api/v1/health/live", "", ""); rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("ready", func(t *testing.T) {
		ts := newTestServer(t)
		rec := ts.do(t, http.MethodGet, "/api/v1/health/ready", "", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var health models.HealthStatus
		if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &health); err != nil {
			t.Fatalf("decode health: %v", err)
		}
		if !health.DatabaseConnected || health.LLMEnabled {
			t.Errorf("health = %+v", health)
		}
	})

	t.Run("database down", func(t *testing.T) {
		ts := newTestServer(t)
		ts.db.err = errors.New("closed")
		if rec := ts.do(t, http.MethodGet, "/api/v1/health/ready", "", ""); rec.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", rec.Code)
		}
	})
}

func TestHealthReady_ReportsBreaker(t *testing.T) {
	h, err := NewHandler(&config.RecommendConfig{}, Dependencies{
		Engine: &mockEngine{},
		Hub:    &mockHub{},
		Store:  &mockStore{},
		DB:     &mockPinger{},
		LLM:    mockBreaker{state: gobreaker.StateOpen},
	})
	if err != nil {
		t.Fatalf("NewHandler() error: %v", err)
	}

	rec := httptest.NewRecorder()
	h.HealthReady(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil))

	var health models.HealthStatus
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &health); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if !health.LLMEnabled || health.LLMBreaker != "open" {
		t.Errorf("health = %+v, want llm enabled with open breaker", health)
	}
}

func TestStats(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodGet, "/api/v1/recommendations?refId=p1&refType=post", "", "")

	rec := ts.do(t, http.MethodGet, "/api/v1/stats", "", "")
	var stats recommend.Stats
	if err := json.Unmarshal(decodeEnvelope(t, rec).Data, &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.Requests != 1 {
		t.Errorf("requests = %d, want 1", stats.Requests)
	}
}

func TestNewHandler_RequiresDependencies(t *testing.T) {
	if _, err := NewHandler(nil, Dependencies{}); err == nil {
		t.Error("expected error for nil config")
	}
	if _, err := NewHandler(&config.RecommendConfig{}, Dependencies{Engine: &mockEngine{}}); err == nil {
		t.Error("expected error for missing collaborators")
	}
}
