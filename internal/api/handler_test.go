package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tablechat/tablechat/internal/catalog"
	"github.com/tablechat/tablechat/internal/config"
	"github.com/tablechat/tablechat/internal/nl2sql"
	"github.com/tablechat/tablechat/internal/translator"
)

type fakeRunner struct {
	result translator.Result
	err    error
	calls  []string
}

func (f *fakeRunner) Run(_ context.Context, sqlText string) (translator.Result, error) {
	f.calls = append(f.calls, sqlText)
	if f.err != nil {
		return translator.Result{}, f.err
	}
	return f.result, nil
}

type fakeChatTranslator struct {
	result nl2sql.Result
	err    error
}

func (f *fakeChatTranslator) Translate(_ context.Context, _ nl2sql.Request) (nl2sql.Result, error) {
	if f.err != nil {
		return nl2sql.Result{}, f.err
	}
	return f.result, nil
}

type fakeExplainer struct {
	answer string
	err    error
}

func (f *fakeExplainer) Explain(_ context.Context, _ string, _ []map[string]any, _ int64) (string, error) {
	return f.answer, f.err
}

type fakeCaller struct {
	phone string
	code  string
	err   error
}

func (f *fakeCaller) Call(_ context.Context, phone, code string) error {
	f.phone, f.code = phone, code
	return f.err
}

func testConfig() config.Config {
	cfg, err := config.Load("tablechat-api", func(key string) (string, bool) {
		if key == "TABLECHAT_PROFILE" {
			return "test", true
		}
		return "", false
	})
	if err != nil {
		panic(err)
	}
	return cfg
}

func testCatalog() *catalog.Catalog {
	return catalog.New(catalog.TableDef{
		Name:    "items",
		Columns: []string{"id", "name", "price", "category"},
	})
}

func TestHealthEndpoint(t *testing.T) {
	handler := NewHandler(testConfig(), Dependencies{Catalog: testCatalog()})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/health", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" || body["service"] != "tablechat-api" {
		t.Fatalf("body = %v", body)
	}
}

func TestReadyEndpointReportsFailure(t *testing.T) {
	handler := NewHandler(testConfig(), Dependencies{
		Catalog:   testCatalog(),
		Readiness: func(context.Context) error { return errors.New("store down") },
	})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/ready", nil))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rr.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error_code"] != "NOT_READY" {
		t.Fatalf("body = %v", body)
	}
}

func TestMetricsEndpointIsExposed(t *testing.T) {
	handler := NewHandler(testConfig(), Dependencies{Catalog: testCatalog()})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestSecurityHeadersArePresent(t *testing.T) {
	handler := NewHandler(testConfig(), Dependencies{Catalog: testCatalog()})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/health", nil))

	if got := rr.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("X-Content-Type-Options = %q", got)
	}
	if got := rr.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Fatalf("X-Frame-Options = %q", got)
	}
}

func TestAuthRequiredWithoutMiddlewareFailsClosed(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.Required = true
	handler := NewHandler(cfg, Dependencies{Catalog: testCatalog(), Runner: &fakeRunner{}})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/schema", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestSchemaEndpointListsTables(t *testing.T) {
	handler := NewHandler(testConfig(), Dependencies{Catalog: testCatalog()})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/schema", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var body struct {
		Tables      []catalog.TableDef `json:"tables"`
		Fingerprint string             `json:"fingerprint"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Tables) != 1 || body.Tables[0].Name != "items" {
		t.Fatalf("tables = %v", body.Tables)
	}
	if body.Fingerprint == "" {
		t.Fatal("expected schema fingerprint")
	}
}

func TestCombineReadinessChecksStopsAtFirstFailure(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	check := CombineReadinessChecks(
		nil,
		func(context.Context) error { calls++; return boom },
		func(context.Context) error { calls++; return nil },
	)
	if err := check(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d", calls)
	}
}

func TestCheckStoreConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Store.Backend = "postgres"
	cfg.Store.Postgres.DSN = ""
	if err := CheckStoreConfig(cfg)(context.Background()); err == nil {
		t.Fatal("expected error for missing dsn")
	}
	cfg.Store.Postgres.DSN = "postgres://example"
	if err := CheckStoreConfig(cfg)(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
