package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/todoman/internal/middleware"
	"github.com/hitoshi/todoman/internal/model"
	"github.com/hitoshi/todoman/internal/validation"
)

// writeJSON はvをJSONとしてstatusCodeで書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// decodeJSON はリクエストボディをvにデコードする。
// 解析に失敗した場合はINVALID_REQUESTエラーを返す。
func decodeJSON(r *http.Request, v any) *model.APIError {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return model.NewInvalidRequestError("malformed JSON body")
	}
	return nil
}

// handleError はエラーを適切なHTTPレスポンスに変換する。
func handleError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		middleware.WriteErrorResponse(w, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	middleware.WriteInternalServerError(w)
}

// resolvedFrom は検証チェーンが注入したエンティティを取り出す。
// チェーンが構成されていないルートで呼ばれた場合は500を書き込みfalseを返す。
func resolvedFrom(w http.ResponseWriter, r *http.Request) (validation.Resolved, bool) {
	res, ok := validation.FromContext(r.Context())
	if !ok {
		slog.Error("validation chain did not run",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
		middleware.WriteInternalServerError(w)
		return validation.Resolved{}, false
	}
	return res, true
}
