package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/todoman/internal/metrics"
	"github.com/hitoshi/todoman/internal/middleware"
	"github.com/hitoshi/todoman/internal/security"
	"github.com/hitoshi/todoman/internal/store"
	"github.com/hitoshi/todoman/internal/validation"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ストア（必須）
	Store *store.Store

	// ミドルウェア依存
	Logger            *slog.Logger
	CORSAllowedOrigin string

	// 無料プランのTodo上限。0以下の場合はvalidation.TodoQuotaを使用する。
	TodoQuota int

	// 表示用のユーザー名(name)に適用する。省略時はbluemondayのStrictPolicyを使用する
	Sanitizer security.TextSanitizer

	// メトリクス。nilの場合は記録しない。
	Metrics metrics.MetricsCollector
	// /metricsで公開するハンドラー。nilの場合はルートを登録しない。
	MetricsHandler http.Handler
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Logging → Recovery → SecurityHeaders → CORS → Metrics
//
// /users と /todos 以下はストアのロックを保持したまま、ルートごとの検証チェーンと
// ハンドラーを実行する。/health と /metrics はロックの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sanitizer := deps.Sanitizer
	if sanitizer == nil {
		sanitizer = security.NewTextSanitizer()
	}
	var mc metrics.MetricsCollector = metrics.NopCollector{}
	if deps.Metrics != nil {
		mc = deps.Metrics
	}
	quota := deps.TodoQuota
	if quota <= 0 {
		quota = validation.TodoQuota
	}

	st := deps.Store
	userHandler := NewUserHandler(st, sanitizer, mc)
	todoHandler := NewTodoHandler(st, mc)

	// 検証チェーン
	requireUser := validation.Middleware(st, mc, validation.RequireUser)
	requireUserByID := validation.Middleware(st, mc, validation.RequireUserByID)
	requireUserAndQuota := validation.Middleware(st, mc, validation.RequireUser, validation.RequireTodoQuotaOf(quota))
	requireTodo := validation.Middleware(st, mc, validation.RequireTodo)
	requireUserAndTodo := validation.Middleware(st, mc, validation.RequireUser, validation.RequireTodo)

	r := chi.NewRouter()
	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewMetricsMiddleware(mc))

	r.Get("/health", Health)
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSerializeMiddleware(st))

		// ユーザー管理
		r.Route("/users", func(r chi.Router) {
			r.Get("/", userHandler.ListUsers)
			r.Post("/", userHandler.CreateUser)
			r.With(requireUserByID).Get("/{id}", userHandler.GetUser)
			r.With(requireUserByID).Patch("/{id}/pro", userHandler.UpgradeToPro)
		})

		// Todo管理
		r.Route("/todos", func(r chi.Router) {
			r.With(requireUser).Get("/", todoHandler.ListTodos)
			r.With(requireUserAndQuota).Post("/", todoHandler.CreateTodo)
			r.With(requireUserAndTodo).Get("/{id}", todoHandler.GetTodo)
			r.With(requireTodo).Put("/{id}", todoHandler.UpdateTodo)
			r.With(requireTodo).Patch("/{id}/done", todoHandler.MarkTodoDone)
			r.With(requireUserAndTodo).Delete("/{id}", todoHandler.DeleteTodo)
		})
	})

	return r
}

// Health は死活監視用のエンドポイント。
// GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
