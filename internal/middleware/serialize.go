// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"net/http"
	"sync"
)

// NewSerializeMiddleware はリクエスト全体をlockerの保持下で実行するミドルウェアを返す。
//
// 検証チェーンでの読み取りとハンドラーでの条件付き書き込みの間に
// 他のリクエストが割り込まないため、ユーザー名の一意性チェックと
// Todo上限チェックが実質的にアトミックになる。
// レスポンスのエンコードもロック内で行われる。
func NewSerializeMiddleware(locker sync.Locker) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			locker.Lock()
			defer locker.Unlock()
			next.ServeHTTP(w, r)
		})
	}
}
