package handler

import (
	"net/http"

	"github.com/hitoshi/todoman/internal/metrics"
	"github.com/hitoshi/todoman/internal/model"
	"github.com/hitoshi/todoman/internal/security"
)

// UserStoreInterface はユーザーハンドラーが必要とするストアインターフェース。
// 呼び出し側がストアのロックを保持している前提で使用する。
type UserStoreInterface interface {
	// Users は登録順のユーザー一覧を返す。
	Users() []*model.User
	// CreateUser はユーザーを作成する。ユーザー名が重複する場合はAPIErrorを返す。
	CreateUser(name, username string) (*model.User, error)
}

// UserHandler はユーザー管理のHTTPハンドラー。
type UserHandler struct {
	store     UserStoreInterface
	sanitizer security.TextSanitizer
	metrics   metrics.MetricsCollector
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(st UserStoreInterface, sanitizer security.TextSanitizer, mc metrics.MetricsCollector) *UserHandler {
	return &UserHandler{
		store:     st,
		sanitizer: sanitizer,
		metrics:   mc,
	}
}

// createUserRequest はユーザー作成リクエストのボディ。
type createUserRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
}

// ListUsers は全ユーザーをTodoを含めてそのまま返す。
// GET /users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Users())
}

// GetUser は検証チェーンで解決したユーザーを返す。
// GET /users/:id
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	res, ok := resolvedFrom(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, res.User)
}

// CreateUser はユーザーを作成する。
// 表示用のnameのみサニタイズする。
// ユーザー名が既に使用されている場合は400を返し、ストアを変更しない。
// POST /users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if apiErr := decodeJSON(r, &req); apiErr != nil {
		handleError(w, apiErr)
		return
	}

	// usernameはヘッダーとの照合キーのため受け取った値をそのまま保存する
	if req.Username == "" {
		handleError(w, model.NewInvalidRequestError("username is required"))
		return
	}

	user, err := h.store.CreateUser(h.sanitizer.Sanitize(req.Name), req.Username)
	if err != nil {
		handleError(w, err)
		return
	}

	h.metrics.RecordUserCreated()
	writeJSON(w, http.StatusCreated, user)
}

// UpgradeToPro はユーザーをProプランに切り替える。
// 既にProの場合は400を返す。
// PATCH /users/:id/pro
func (h *UserHandler) UpgradeToPro(w http.ResponseWriter, r *http.Request) {
	res, ok := resolvedFrom(w, r)
	if !ok {
		return
	}

	if res.User.Pro {
		handleError(w, model.NewProAlreadyActiveError())
		return
	}

	res.User.Pro = true
	h.metrics.RecordProActivated()
	writeJSON(w, http.StatusOK, res.User)
}
