package router

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"
)

func appWithRoute(method, path string, h http.Handler) *App {
	r := NewRouter()
	r.Handle(method, path, h)
	app := NewApp()
	app.Use("/", r)
	return app
}

func TestNewAllowsMiddlewareOverride(t *testing.T) {
	var order []string

	app := appWithRoute(http.MethodGet, "/list", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
		w.WriteHeader(http.StatusTeapot)
	}))

	entry := New(app, WithMiddlewareChain(
		recordingMiddleware("one", &order),
		recordingMiddleware("two", &order),
	))

	rr := httptest.NewRecorder()
	entry.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/list", nil))

	expected := []string{"one-before", "two-before", "handler", "two-after", "one-after"}
	if !reflect.DeepEqual(order, expected) {
		t.Fatalf("unexpected middleware order: got %v, want %v", order, expected)
	}
	if rr.Code != http.StatusTeapot {
		t.Fatalf("unexpected response code: got %d want %d", rr.Code, http.StatusTeapot)
	}
}

func TestNewSupportsPrependAndAppendMiddlewares(t *testing.T) {
	var order []string
	app := appWithRoute(http.MethodPost, "/create", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
		w.WriteHeader(http.StatusNoContent)
	}))

	entry := New(
		app,
		WithoutOpenAPIValidation(),
		WithoutCORSMiddleware(),
		WithoutTimeoutMiddleware(),
		WithoutLoggingMiddleware(),
		WithMiddlewares(recordingMiddleware("outer", &order)),
		WithTrailingMiddlewares(recordingMiddleware("inner", &order)),
	)

	rr := httptest.NewRecorder()
	entry.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/create", nil))

	expected := []string{"outer-before", "inner-before", "handler", "inner-after", "outer-after"}
	if !reflect.DeepEqual(order, expected) {
		t.Fatalf("unexpected middleware order: got %v want %v", order, expected)
	}
	if rr.Code != http.StatusNoContent {
		t.Fatalf("unexpected response code: got %d want %d", rr.Code, http.StatusNoContent)
	}
}

func TestNewAppliesCORSFromConfig(t *testing.T) {
	entry := New(
		NewApp(),
		WithConfigMutator(func(cfg *Config) {
			cfg.CORS = CORSConfig{
				Origins:          []string{"https://example.com"},
				Methods:          []string{http.MethodGet, http.MethodPost},
				Headers:          []string{"Content-Type"},
				AllowCredentials: true,
			}
		}),
	)

	req := httptest.NewRequest(http.MethodOptions, "/list", nil)
	req.Header.Set("Origin", "https://example.com")
	rr := httptest.NewRecorder()
	entry.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status code: got %d want %d", rr.Code, http.StatusOK)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://example.com" {
		t.Fatalf("unexpected access-control-allow-origin: got %q", got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Methods"); got != "GET,POST" {
		t.Fatalf("unexpected access-control-allow-methods: got %q", got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Fatalf("unexpected access-control-allow-credentials: got %q", got)
	}
}

func TestWithoutCORSMiddlewareSkipsHeaders(t *testing.T) {
	app := appWithRoute(http.MethodOptions, "/list", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	entry := New(
		app,
		WithConfigMutator(func(cfg *Config) {
			cfg.CORS = CORSConfig{Origins: []string{"https://example.com"}}
		}),
		WithoutCORSMiddleware(),
	)

	req := httptest.NewRequest(http.MethodOptions, "/list", nil)
	req.Header.Set("Origin", "https://example.com")
	rr := httptest.NewRecorder()
	entry.ServeHTTP(rr, req)

	if rr.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatal("expected CORS headers to be skipped when middleware disabled")
	}
	if rr.Code != http.StatusNoContent {
		t.Fatalf("unexpected status code: got %d want %d", rr.Code, http.StatusNoContent)
	}
}

func TestTimeoutMiddlewareCanBeDisabled(t *testing.T) {
	app := appWithRoute(http.MethodGet, "/slow", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(10 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))

	withTimeout := New(app, WithConfig(Config{Timeout: 1 * time.Millisecond}))
	withoutTimeout := New(app, WithConfig(Config{Timeout: 1 * time.Millisecond}), WithoutTimeoutMiddleware())

	rrTimeout := httptest.NewRecorder()
	withTimeout.ServeHTTP(rrTimeout, httptest.NewRequest(http.MethodGet, "/slow", nil))
	if rrTimeout.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected timeout handler to fire, got %d", rrTimeout.Code)
	}

	rrNoTimeout := httptest.NewRecorder()
	withoutTimeout.ServeHTTP(rrNoTimeout, httptest.NewRequest(http.MethodGet, "/slow", nil))
	if rrNoTimeout.Code != http.StatusOK {
		t.Fatalf("expected handler to complete when timeout disabled, got %d", rrNoTimeout.Code)
	}
}

func TestNewPanicsWhenHandlerNil(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when handler is nil")
		}
	}()

	New(nil)
}

func TestChainSkipsNilMiddlewares(t *testing.T) {
	var order []string
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), nil, recordingMiddleware("only", &order), nil)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	expected := []string{"only-before", "handler", "only-after"}
	if !reflect.DeepEqual(order, expected) {
		t.Fatalf("unexpected order: got %v want %v", order, expected)
	}
}

func recordingMiddleware(label string, sink *[]string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			*sink = append(*sink, label+"-before")
			next.ServeHTTP(w, r)
			*sink = append(*sink, label+"-after")
		})
	}
}

func TestNewRecoversPanics(t *testing.T) {
	app := appWithRoute(http.MethodGet, "/boom", http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))

	rr := httptest.NewRecorder()
	New(app, WithoutLoggingMiddleware()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if problem := decodeProblem(t, rr.Body.Bytes()); problem.Status != http.StatusInternalServerError {
		t.Fatalf("unexpected problem status %d", problem.Status)
	}
}

func TestWithoutRecoveryMiddlewareLetsPanicsThrough(t *testing.T) {
	app := appWithRoute(http.MethodGet, "/boom", http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))
	entry := New(app, WithoutRecoveryMiddleware(), WithoutTimeoutMiddleware(), WithoutLoggingMiddleware())

	defer func() {
		if recover() == nil {
			t.Fatal("expected the panic to propagate")
		}
	}()
	entry.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))
}
