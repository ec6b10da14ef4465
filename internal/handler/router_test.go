package handler

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/hitoshi/todoman/internal/metrics"
	"github.com/hitoshi/todoman/internal/store"
	"github.com/prometheus/client_golang/prometheus"
)

func TestRouter_Health(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/health", "", nil)

	if w.Code != http.StatusOK {
		t.Errorf("GET /health status = %d, want %d", w.Code, http.StatusOK)
	}
	var body map[string]string
	decodeBody(t, w, &body)
	if body["status"] != "ok" {
		t.Errorf("status = %q, want %q", body["status"], "ok")
	}
}

func TestRouter_UnknownRoute_Returns404Or405(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/unknown"},
		{http.MethodDelete, "/users"},
		{http.MethodPost, "/todos/" + unknownTodoID},
	}

	for _, tt := range tests {
		w := env.do(t, tt.method, tt.path, "", nil)
		// 存在しないルートには404か405が返ること
		if w.Code != http.StatusNotFound && w.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s %s status = %d, want 404 or 405", tt.method, tt.path, w.Code)
		}
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodOptions, "/todos", "", nil)

	if w.Code != http.StatusNoContent {
		t.Errorf("OPTIONS /todos status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if got := w.Header().Get("Access-Control-Allow-Headers"); !strings.Contains(got, "username") {
		t.Errorf("Access-Control-Allow-Headers = %q, want to contain username", got)
	}
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)
	env := &testEnv{store: store.New()}
	env.router = NewRouter(&RouterDeps{
		Store:          env.store,
		Logger:         slog.New(slog.NewJSONHandler(io.Discard, nil)),
		Metrics:        collector,
		MetricsHandler: metrics.Handler(reg),
	})

	env.createUser(t, "Ana", "ana")
	env.do(t, http.MethodGet, "/todos/not-a-uuid", "ana", nil)

	w := env.do(t, http.MethodGet, "/metrics", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /metrics status = %d, want %d", w.Code, http.StatusOK)
	}

	body := w.Body.String()
	for _, want := range []string{
		"todoman_users_created_total 1",
		`todoman_validation_rejections_total{code="INVALID_ID"} 1`,
		`route="/users`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output should contain %q", want)
		}
	}
}

func TestRouter_NoMetricsHandler_MetricsRouteAbsent(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/metrics", "", nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("GET /metrics status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

// TestRouter_ConcurrentCreates_RespectQuota は同時リクエストでも上限を超えないことを検証する。
func TestRouter_ConcurrentCreates_RespectQuota(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "Ana", "ana")

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			body := strings.NewReader(fmt.Sprintf(`{"title":"todo %d","deadline":"2025-01-01"}`, i))
			req := httptest.NewRequest(http.MethodPost, "/todos", body)
			req.Header.Set("username", "ana")
			env.router.ServeHTTP(httptest.NewRecorder(), req)
		}(i)
	}
	wg.Wait()

	if n := len(env.store.FindUserByUsername("ana").Todos); n != 10 {
		t.Errorf("todo count = %d, want 10", n)
	}
}

// TestRouter_ConcurrentCreates_UniqueUsername は同時作成でもユーザー名が一意に保たれることを検証する。
func TestRouter_ConcurrentCreates_UniqueUsername(t *testing.T) {
	env := newTestEnv(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"name":"Ana","username":"ana"}`))
			env.router.ServeHTTP(httptest.NewRecorder(), req)
		}()
	}
	wg.Wait()

	if n := len(env.store.Users()); n != 1 {
		t.Errorf("user count = %d, want 1", n)
	}
}
