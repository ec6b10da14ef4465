package model

import (
	"fmt"
	"net/http"
)

// APIError は統一エラーフォーマットを表す。
// レスポンスボディにはMessageのみを出力し、Codeはログとメトリクスで使用する。
type APIError struct {
	Code    string // エラーコード
	Message string // エラーメッセージ
	Status  int    // HTTPステータスコード
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUserNotFound     = "USER_NOT_FOUND"
	ErrCodeTodoNotFound     = "TODO_NOT_FOUND"
	ErrCodeInvalidID        = "INVALID_ID"
	ErrCodeUsernameTaken    = "USERNAME_TAKEN"
	ErrCodeInvalidRequest   = "INVALID_REQUEST"
	ErrCodeTodoLimit        = "TODO_LIMIT"
	ErrCodeProAlreadyActive = "PRO_ALREADY_ACTIVE"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:    ErrCodeUserNotFound,
		Message: "user not found",
		Status:  http.StatusNotFound,
	}
}

// NewTodoNotFoundError はTodoが見つからない場合のエラーを生成する。
func NewTodoNotFoundError() *APIError {
	return &APIError{
		Code:    ErrCodeTodoNotFound,
		Message: "todo not found",
		Status:  http.StatusNotFound,
	}
}

// NewInvalidIDError はIDがUUID形式でない場合のエラーを生成する。
func NewInvalidIDError() *APIError {
	return &APIError{
		Code:    ErrCodeInvalidID,
		Message: "invalid id",
		Status:  http.StatusBadRequest,
	}
}

// NewUsernameTakenError はユーザー名が既に使用されている場合のエラーを生成する。
func NewUsernameTakenError() *APIError {
	return &APIError{
		Code:    ErrCodeUsernameTaken,
		Message: "Username already exists",
		Status:  http.StatusBadRequest,
	}
}

// NewInvalidRequestError はリクエストボディが解釈できない場合のエラーを生成する。
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:    ErrCodeInvalidRequest,
		Message: fmt.Sprintf("invalid request: %s", reason),
		Status:  http.StatusBadRequest,
	}
}

// NewTodoLimitError は無料プランのTodo上限に達した場合のエラーを生成する。
func NewTodoLimitError() *APIError {
	return &APIError{
		Code:    ErrCodeTodoLimit,
		Message: "cannot create new todo",
		Status:  http.StatusForbidden,
	}
}

// NewProAlreadyActiveError はProプランが既に有効な場合のエラーを生成する。
func NewProAlreadyActiveError() *APIError {
	return &APIError{
		Code:    ErrCodeProAlreadyActive,
		Message: "Pro plan is already activated.",
		Status:  http.StatusBadRequest,
	}
}

// NewInternalError は内部エラーを生成する。
// 詳細はログのみに記録し、ユーザーには一般的なメッセージを返す。
func NewInternalError() *APIError {
	return &APIError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  http.StatusInternalServerError,
	}
}
