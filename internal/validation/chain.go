// Package validation はハンドラー実行前に行う検証チェーンを提供する。
//
// 各チェックは検証に失敗した場合にAPIErrorを返して処理を打ち切り、
// 成功した場合は解決済みのエンティティ（User、Todo）をResolvedに格納して次へ渡す。
// チェーンはルートごとに明示的な順序で構成する。
package validation

import (
	"context"

	"github.com/google/uuid"
	"github.com/hitoshi/todoman/internal/model"
	"github.com/hitoshi/todoman/internal/store"
)

// uuidLength はハイフン区切りUUID文字列の長さ。
const uuidLength = 36

// Input はチェックが参照するリクエスト由来の値。
type Input struct {
	// Username はusernameヘッダーの値。
	Username string
	// ID はパスパラメータidの値。
	ID string
}

// Resolved はチェーンが解決したエンティティを保持する。
// 未解決のフィールドはnilのまま残る。
type Resolved struct {
	User *model.User
	Todo *model.Todo
}

// Check は検証チェーンの1ステップ。
// 成功時は更新したResolvedを、失敗時はAPIErrorを返す。
type Check func(st *store.Store, in Input, res Resolved) (Resolved, *model.APIError)

// Run はchecksを順に実行し、最初のエラーで打ち切る。
func Run(st *store.Store, in Input, checks ...Check) (Resolved, *model.APIError) {
	var res Resolved
	for _, check := range checks {
		next, apiErr := check(st, in, res)
		if apiErr != nil {
			return Resolved{}, apiErr
		}
		res = next
	}
	return res, nil
}

// IsValidID はidがハイフン区切りのRFC 4122 UUID（バージョン1〜5）かを返す。
// 全ビットが0のNil UUIDも有効とする。
// uuid.Parseは波括弧やurn:形式も受け付けるため、長さも合わせて確認する。
func IsValidID(id string) bool {
	if len(id) != uuidLength {
		return false
	}
	u, err := uuid.Parse(id)
	if err != nil {
		return false
	}
	if u == uuid.Nil {
		return true
	}
	return u.Variant() == uuid.RFC4122 && u.Version() >= 1 && u.Version() <= 5
}

// RequireUser はusernameヘッダーのユーザーが存在することを検証し、Userを解決する。
func RequireUser(st *store.Store, in Input, res Resolved) (Resolved, *model.APIError) {
	u := st.FindUserByUsername(in.Username)
	if u == nil {
		return res, model.NewUserNotFoundError()
	}
	res.User = u
	return res, nil
}

// TodoQuota は無料プランのユーザーが保持できるTodoの上限。
const TodoQuota = 10

// RequireTodoQuota はデフォルト上限でTodo作成可否を検証する。
// RequireUserの後に配置する。
func RequireTodoQuota(st *store.Store, in Input, res Resolved) (Resolved, *model.APIError) {
	return RequireTodoQuotaOf(TodoQuota)(st, in, res)
}

// RequireTodoQuotaOf はProユーザー、またはTodo数がlimit未満のユーザーのみ通過させるチェックを返す。
func RequireTodoQuotaOf(limit int) Check {
	return func(st *store.Store, in Input, res Resolved) (Resolved, *model.APIError) {
		if res.User == nil {
			return res, model.NewUserNotFoundError()
		}
		if res.User.Pro || res.User.TodoCount() < limit {
			return res, nil
		}
		return res, model.NewTodoLimitError()
	}
}

// RequireTodo はパスのidが有効なUUIDであり、usernameヘッダーのユーザーが
// そのTodoを所有していることを検証し、UserとTodoを解決する。
// ID形式の検証は検索より先に行う。
func RequireTodo(st *store.Store, in Input, res Resolved) (Resolved, *model.APIError) {
	if !IsValidID(in.ID) {
		return res, model.NewInvalidIDError()
	}

	u := st.FindUserByUsername(in.Username)
	if u == nil {
		return res, model.NewUserNotFoundError()
	}

	t := st.FindTodo(in.Username, in.ID)
	if t == nil {
		return res, model.NewTodoNotFoundError()
	}

	res.User = u
	res.Todo = t
	return res, nil
}

// RequireUserByID はパスのidのユーザーが存在することを検証し、Userを解決する。
func RequireUserByID(st *store.Store, in Input, res Resolved) (Resolved, *model.APIError) {
	u := st.FindUserByID(in.ID)
	if u == nil {
		return res, model.NewUserNotFoundError()
	}
	res.User = u
	return res, nil
}

type resolvedContextKey struct{}

// WithResolved はコンテキストに解決済みエンティティを格納する。
// テストやミドルウェア以外のコンテキスト生成でも使用する。
func WithResolved(ctx context.Context, res Resolved) context.Context {
	return context.WithValue(ctx, resolvedContextKey{}, res)
}

// FromContext はコンテキストから解決済みエンティティを取得する。
// チェーンを通過していない場合はfalseを返す。
func FromContext(ctx context.Context) (Resolved, bool) {
	res, ok := ctx.Value(resolvedContextKey{}).(Resolved)
	return res, ok
}
