package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/wayfarer-backend/internal/booking"
	"github.com/angelmondragon/wayfarer-backend/internal/normalize"
	"github.com/angelmondragon/wayfarer-backend/internal/quote"
	"github.com/angelmondragon/wayfarer-backend/internal/validation"
	"github.com/angelmondragon/wayfarer-backend/internal/wizard"
	"github.com/angelmondragon/wayfarer-backend/pkg/config"
	"github.com/angelmondragon/wayfarer-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/wayfarer-backend/pkg/errors"
	"github.com/angelmondragon/wayfarer-backend/pkg/logger"
	"github.com/angelmondragon/wayfarer-backend/pkg/metrics"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubCatalog struct{}

func (stubCatalog) Lookup(context.Context, enums.BookingType, uuid.UUID) (*booking.CatalogEntry, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "package not found")
}

type stubQuotes struct {
	calls int
}

func (s *stubQuotes) Preview(_ context.Context, kind enums.BookingType, ref uuid.UUID, _ normalize.RawPatch) (quote.Quote, error) {
	s.calls++
	d, err := booking.New(kind, ref)
	if err != nil {
		return quote.Quote{}, err
	}
	return quote.Quote{Draft: d, Validation: validation.Result{IsValid: true, Errors: map[string]string{}}}, nil
}

type stubSessions struct{}

func (stubSessions) Start(context.Context, enums.BookingType, uuid.UUID) (wizard.Snapshot, error) {
	return wizard.Snapshot{}, pkgerrors.New(pkgerrors.CodeDependency, "not wired")
}

func (stubSessions) Session(uuid.UUID) (*wizard.Wizard, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking session not found")
}

func (stubSessions) Cancel(context.Context, uuid.UUID) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "booking session not found")
}

func testConfig() *config.Config {
	return &config.Config{
		App:  config.AppConfig{Env: "test"},
		CORS: config.CORSConfig{AllowedOrigins: []string{"https://book.example.com"}},
	}
}

func newTestRouter(quotes *stubQuotes, reg *prometheus.Registry) http.Handler {
	var gatherer prometheus.Gatherer
	if reg != nil {
		gatherer = reg
	}
	return NewRouter(testConfig(), logger.Nop(), stubPinger{}, nil, gatherer, stubCatalog{}, quotes, stubSessions{})
}

func TestHealthRoutes(t *testing.T) {
	router := newTestRouter(&stubQuotes{}, nil)

	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
		if resp.Header().Get("X-Request-Id") == "" {
			t.Fatalf("%s: expected a request id header", path)
		}
	}
}

func TestQuoteRoute(t *testing.T) {
	quotes := &stubQuotes{}
	router := newTestRouter(quotes, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", strings.NewReader(`{"type":"custom"}`))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if quotes.calls != 1 {
		t.Fatalf("expected quote service to be called once, got %d", quotes.calls)
	}
}

func TestWizardRoutesResolveSession(t *testing.T) {
	router := newTestRouter(&stubQuotes{}, nil)
	id := uuid.NewString()

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/wizard/" + id},
		{http.MethodPatch, "/api/v1/wizard/" + id},
		{http.MethodDelete, "/api/v1/wizard/" + id},
		{http.MethodPost, "/api/v1/wizard/" + id + "/next"},
		{http.MethodPost, "/api/v1/wizard/" + id + "/previous"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(`{}`))
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusNotFound {
			t.Fatalf("%s %s: expected 404 got %d", tt.method, tt.path, resp.Code)
		}
	}
}

func TestCatalogRoute(t *testing.T) {
	router := newTestRouter(&stubQuotes{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/package/"+uuid.NewString(), nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.NewBookingMetrics(reg).SetActiveSessions(3)
	router := newTestRouter(&stubQuotes{}, reg)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "booking_wizard_sessions 3") {
		t.Fatalf("expected session gauge in scrape, got %s", body)
	}
}

func TestMetricsEndpointDisabledWithoutGatherer(t *testing.T) {
	router := newTestRouter(&stubQuotes{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(&stubQuotes{}, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/quotes", nil)
	req.Header.Set("Origin", "https://book.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "https://book.example.com" {
		t.Fatalf("expected allowed origin echoed, got %q", got)
	}

	other := httptest.NewRequest(http.MethodOptions, "/api/v1/quotes", nil)
	other.Header.Set("Origin", "https://evil.example.com")
	other.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, other)
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no CORS grant for unknown origin, got %q", got)
	}
}
