package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"tls-constraints/internal/admission"
	"tls-constraints/internal/config"
	"tls-constraints/internal/middlewares"
	"tls-constraints/internal/relay"
	"tls-constraints/internal/reservation"
	"tls-constraints/internal/tenants"

	"github.com/go-chi/chi/v5"
	"github.com/jmhodges/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestContext holds everything needed to exercise a handler.
type TestContext struct {
	AppContext *middlewares.AppContext
	Request    *http.Request
	Response   *httptest.ResponseRecorder
	Registry   *tenants.Registry
	Store      *reservation.MemStore
	Upstream   *FakeUpstream
	LogHandler *TestLogHandler
}

func NewTestContext(method, target string) *TestContext {
	logger, logHandler := NewTestLogger()

	cfg := &config.Config{
		Filters: config.FiltersConfig{
			SingleOutstandingRequest: true,
			FirstClaimWins:           true,
		},
	}

	store := reservation.NewMemStore()
	registry := tenants.NewRegistry(logger)
	fakeUpstream := &FakeUpstream{IsConnected: true}

	filters := admission.NewChain(cfg, store, logger)
	controller := admission.NewController(filters, logger)
	engine := relay.NewEngine(controller, registry, fakeUpstream, clock.NewFake(), 16, time.Second, logger)

	req := httptest.NewRequest(method, target, nil)
	resp := httptest.NewRecorder()

	appCtx := &middlewares.AppContext{
		Context:  req.Context(),
		Config:   cfg,
		Logger:   logger,
		Store:    store,
		Registry: registry,
		Engine:   engine,
		Upstream: fakeUpstream,
		Request:  req,
		Response: resp,
	}

	return &TestContext{
		AppContext: appCtx,
		Request:    req,
		Response:   resp,
		Registry:   registry,
		Store:      store,
		Upstream:   fakeUpstream,
		LogHandler: logHandler,
	}
}

// WithJSONBody replaces the request body with the JSON encoding of v.
func (tc *TestContext) WithJSONBody(t *testing.T, v any) *TestContext {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err)

	tc.Request.Body = io.NopCloser(bytes.NewReader(data))
	tc.AppContext.Request = tc.Request
	return tc
}

// WithRawBody replaces the request body with raw bytes, for malformed-input
// tests.
func (tc *TestContext) WithRawBody(data []byte) *TestContext {
	tc.Request.Body = io.NopCloser(bytes.NewReader(data))
	tc.AppContext.Request = tc.Request
	return tc
}

// WithURLParam registers a chi route parameter on the request.
func (tc *TestContext) WithURLParam(key, value string) *TestContext {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)

	ctx := context.WithValue(tc.Request.Context(), chi.RouteCtxKey, routeCtx)
	tc.Request = tc.Request.WithContext(ctx)
	tc.AppContext.Request = tc.Request
	return tc
}

func (tc *TestContext) CallHandler(h middlewares.AppHandler) {
	h(tc.AppContext)
}

func (tc *TestContext) AssertStatus(t *testing.T, want int) {
	t.Helper()
	assert.Equal(t, want, tc.Response.Code)
}

func (tc *TestContext) AssertContentType(t *testing.T, want string) {
	t.Helper()
	assert.Equal(t, want, tc.Response.Header().Get("Content-Type"))
}

func (tc *TestContext) GetJSONResponse(t *testing.T) map[string]any {
	t.Helper()

	var response map[string]any
	require.NoError(t, json.Unmarshal(tc.Response.Body.Bytes(), &response))
	return response
}

func (tc *TestContext) AssertJSONField(t *testing.T, field string, want any) {
	t.Helper()
	response := tc.GetJSONResponse(t)
	assert.Equal(t, want, response[field])
}

// FakeUpstream is a recording stand-in for the upstream CA client.
type FakeUpstream struct {
	mu          sync.Mutex
	IsConnected bool
	CreationErr error
	Creations   []FakeCreation
	Revocations [][]byte
}

type FakeCreation struct {
	CSR  []byte
	IsCA bool
}

func (f *FakeUpstream) Connected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.IsConnected
}

func (f *FakeUpstream) SetConnected(connected bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.IsConnected = connected
}

func (f *FakeUpstream) RequestCreation(ctx context.Context, csrPEM []byte, isCA bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreationErr != nil {
		return f.CreationErr
	}
	f.Creations = append(f.Creations, FakeCreation{CSR: csrPEM, IsCA: isCA})
	return nil
}

func (f *FakeUpstream) RequestRevocation(ctx context.Context, csrPEM []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Revocations = append(f.Revocations, csrPEM)
	return nil
}

func (f *FakeUpstream) CreationCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Creations)
}
