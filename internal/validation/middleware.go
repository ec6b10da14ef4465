package validation

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/todoman/internal/middleware"
	"github.com/hitoshi/todoman/internal/store"
)

// RejectionRecorder は検証失敗の記録に必要なインターフェース。
// metrics.MetricsCollectorの部分集合として定義する。
type RejectionRecorder interface {
	RecordValidationRejection(code string)
}

// Middleware はchecksをchiのミドルウェアとして適用する。
// usernameヘッダーとパスパラメータidからInputを組み立ててチェーンを実行し、
// 失敗時はエラーレスポンスを書き込んで打ち切る。
// 成功時は解決済みエンティティをリクエストコンテキストに注入する。
// recorderはnilでもよい。
func Middleware(st *store.Store, recorder RejectionRecorder, checks ...Check) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			in := Input{
				Username: r.Header.Get(middleware.UsernameHeader),
				ID:       chi.URLParam(r, "id"),
			}

			res, apiErr := Run(st, in, checks...)
			if apiErr != nil {
				slog.Debug("request rejected by validation chain",
					slog.String("code", apiErr.Code),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				)
				if recorder != nil {
					recorder.RecordValidationRejection(apiErr.Code)
				}
				middleware.WriteErrorResponse(w, apiErr)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithResolved(r.Context(), res)))
		})
	}
}
