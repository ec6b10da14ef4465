package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/hitoshi/todoman/internal/metrics"
	"github.com/hitoshi/todoman/internal/model"
)

// deadlineLayouts はdeadlineとして受け付ける時刻フォーマット。
// タイムゾーンを含まない形式はUTCとして解釈する。
var deadlineLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// TodoStoreInterface はTodoハンドラーが必要とするストアインターフェース。
// 呼び出し側がストアのロックを保持している前提で使用する。
type TodoStoreInterface interface {
	// AddTodo はユーザーのTodo一覧の末尾にTodoを追加する。
	AddTodo(u *model.User, title string, deadline time.Time) *model.Todo
	// RemoveTodo はユーザーのTodo一覧からtを取り除く。含まれていない場合はfalseを返す。
	RemoveTodo(u *model.User, t *model.Todo) bool
}

// TodoHandler はTodo管理のHTTPハンドラー。
type TodoHandler struct {
	store   TodoStoreInterface
	metrics metrics.MetricsCollector
}

// NewTodoHandler はTodoHandlerを生成する。
func NewTodoHandler(st TodoStoreInterface, mc metrics.MetricsCollector) *TodoHandler {
	return &TodoHandler{
		store:   st,
		metrics: mc,
	}
}

// todoRequest はTodo作成・更新リクエストのボディ。
type todoRequest struct {
	Title    string `json:"title"`
	Deadline string `json:"deadline"`
}

// parse はボディのdeadlineを解析し、タイトルと共に返す。
// タイトルは受け取った値をそのまま使用する。
func (req todoRequest) parse() (string, time.Time, *model.APIError) {
	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		return "", time.Time{}, model.NewInvalidRequestError(err.Error())
	}
	return req.Title, deadline, nil
}

// parseDeadline はdeadlineLayoutsのいずれかでsを解析する。
func parseDeadline(s string) (time.Time, error) {
	for _, layout := range deadlineLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("deadline %q is not a valid date", s)
}

// ListTodos はユーザーのTodo一覧を返す。
// GET /todos
func (h *TodoHandler) ListTodos(w http.ResponseWriter, r *http.Request) {
	res, ok := resolvedFrom(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, res.User.Todos)
}

// GetTodo は検証チェーンで解決したTodoを返す。
// GET /todos/:id
func (h *TodoHandler) GetTodo(w http.ResponseWriter, r *http.Request) {
	res, ok := resolvedFrom(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, res.Todo)
}

// CreateTodo はユーザーのTodoを作成する。
// 上限チェックは検証チェーンで済んでいる前提。
// POST /todos
func (h *TodoHandler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	res, ok := resolvedFrom(w, r)
	if !ok {
		return
	}

	var req todoRequest
	if apiErr := decodeJSON(r, &req); apiErr != nil {
		handleError(w, apiErr)
		return
	}
	title, deadline, apiErr := req.parse()
	if apiErr != nil {
		handleError(w, apiErr)
		return
	}

	todo := h.store.AddTodo(res.User, title, deadline)
	h.metrics.RecordTodoCreated()
	writeJSON(w, http.StatusCreated, todo)
}

// UpdateTodo はTodoのタイトルと期限を上書きする。
// PUT /todos/:id
func (h *TodoHandler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	res, ok := resolvedFrom(w, r)
	if !ok {
		return
	}

	var req todoRequest
	if apiErr := decodeJSON(r, &req); apiErr != nil {
		handleError(w, apiErr)
		return
	}
	title, deadline, apiErr := req.parse()
	if apiErr != nil {
		handleError(w, apiErr)
		return
	}

	res.Todo.Title = title
	res.Todo.Deadline = deadline
	writeJSON(w, http.StatusOK, res.Todo)
}

// MarkTodoDone はTodoを完了にする。
// 既に完了している場合もエラーにせず、そのまま返す。
// PATCH /todos/:id/done
func (h *TodoHandler) MarkTodoDone(w http.ResponseWriter, r *http.Request) {
	res, ok := resolvedFrom(w, r)
	if !ok {
		return
	}

	if !res.Todo.Done {
		res.Todo.Done = true
		h.metrics.RecordTodoCompleted()
	}
	writeJSON(w, http.StatusOK, res.Todo)
}

// DeleteTodo はTodoを所有ユーザーの一覧から削除する。
// DELETE /todos/:id
func (h *TodoHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	res, ok := resolvedFrom(w, r)
	if !ok {
		return
	}

	if !h.store.RemoveTodo(res.User, res.Todo) {
		handleError(w, model.NewTodoNotFoundError())
		return
	}

	h.metrics.RecordTodoDeleted()
	w.WriteHeader(http.StatusNoContent)
}
