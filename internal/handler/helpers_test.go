package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/todoman/internal/model"
	"github.com/hitoshi/todoman/internal/store"
	"github.com/hitoshi/todoman/internal/validation"
)

var testNow = time.Date(2024, 12, 1, 8, 30, 0, 0, time.UTC)

// testEnv はテスト用のストアとルーターをまとめたもの。
type testEnv struct {
	store  *store.Store
	router http.Handler
}

// newTestEnv はテストごとに新しいストアでルーターを構築するヘルパー。
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st := store.New(store.WithClock(func() time.Time { return testNow }))
	router := NewRouter(&RouterDeps{
		Store:             st,
		Logger:            slog.New(slog.NewJSONHandler(io.Discard, nil)),
		CORSAllowedOrigin: "*",
	})
	return &testEnv{store: st, router: router}
}

// do はリクエストを送信しレスポンスレコーダーを返す。
// usernameが空でない場合はusernameヘッダーを付与する。
func (e *testEnv) do(t *testing.T, method, path, username string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if username != "" {
		req.Header.Set("username", username)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// createUser はユーザーを作成し、201であることを確認するヘルパー。
func (e *testEnv) createUser(t *testing.T, name, username string) model.User {
	t.Helper()
	w := e.do(t, http.MethodPost, "/users", "", map[string]string{"name": name, "username": username})
	if w.Code != http.StatusCreated {
		t.Fatalf("POST /users status = %d, want %d (body: %s)", w.Code, http.StatusCreated, w.Body.String())
	}
	var u model.User
	decodeBody(t, w, &u)
	return u
}

// createTodo はTodoを作成し、201であることを確認するヘルパー。
func (e *testEnv) createTodo(t *testing.T, username, title, deadline string) model.Todo {
	t.Helper()
	w := e.do(t, http.MethodPost, "/todos", username, map[string]string{"title": title, "deadline": deadline})
	if w.Code != http.StatusCreated {
		t.Fatalf("POST /todos status = %d, want %d (body: %s)", w.Code, http.StatusCreated, w.Body.String())
	}
	var todo model.Todo
	decodeBody(t, w, &todo)
	return todo
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v (body: %s)", err, w.Body.String())
	}
}

// assertError はステータスコードとerrorフィールドを検証するヘルパー。
func assertError(t *testing.T, w *httptest.ResponseRecorder, wantStatus int, wantMessage string) {
	t.Helper()
	if w.Code != wantStatus {
		t.Errorf("status = %d, want %d (body: %s)", w.Code, wantStatus, w.Body.String())
	}
	var body map[string]string
	decodeBody(t, w, &body)
	if body["error"] != wantMessage {
		t.Errorf("error = %q, want %q", body["error"], wantMessage)
	}
}

// withResolved は検証チェーンを通過した状態のリクエストを生成するヘルパー。
func withResolved(r *http.Request, u *model.User, todo *model.Todo) *http.Request {
	ctx := validation.WithResolved(r.Context(), validation.Resolved{User: u, Todo: todo})
	return r.WithContext(ctx)
}
