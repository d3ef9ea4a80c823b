package middlewares

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"tls-constraints/internal/config"
	"tls-constraints/internal/relay"
	"tls-constraints/internal/reservation"
	"tls-constraints/internal/tenants"
)

type AppContext struct {
	context.Context
	Config   *config.Config
	Logger   *slog.Logger
	Store    reservation.Store
	Registry *tenants.Registry
	Engine   *relay.Engine
	Upstream relay.UpstreamClient

	Request  *http.Request
	Response http.ResponseWriter
}

type contextKey string

const appContextKey contextKey = "appContext"

func AppContextMiddleware(baseCtx *AppContext) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestCtx := &AppContext{
				Context:  r.Context(),
				Config:   baseCtx.Config,
				Logger:   baseCtx.Logger,
				Store:    baseCtx.Store,
				Registry: baseCtx.Registry,
				Engine:   baseCtx.Engine,
				Upstream: baseCtx.Upstream,
				Request:  r,
				Response: w,
			}

			ctx := context.WithValue(r.Context(), appContextKey, requestCtx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type AppHandler func(*AppContext)

// HandlerFunc converts AppHandler to a http.HandlerFunc
func (ctx *AppContext) HandlerFunc(h AppHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appCtx := GetAppContext(r)
		if appCtx == nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		h(appCtx)
	}
}

func NewAppContext(ctx context.Context, cfg *config.Config, logger *slog.Logger, store reservation.Store, registry *tenants.Registry, engine *relay.Engine, upstream relay.UpstreamClient) *AppContext {
	return &AppContext{
		Context:  ctx,
		Config:   cfg,
		Logger:   logger,
		Store:    store,
		Registry: registry,
		Engine:   engine,
		Upstream: upstream,
	}
}

func GetAppContext(r *http.Request) *AppContext {
	if ctx, ok := r.Context().Value(appContextKey).(*AppContext); ok {
		return ctx
	}

	return nil
}

func (ctx *AppContext) WriteJSON(status int, data interface{}) {
	ctx.Response.Header().Set("Content-Type", "application/json")
	ctx.Response.WriteHeader(status)

	if err := json.NewEncoder(ctx.Response).Encode(data); err != nil {
		ctx.Logger.Error("failed to encode JSON response", "error", err)
	}
}

func (ctx *AppContext) SetJSONError(status int, message string) {
	ctx.WriteJSON(status, map[string]string{
		"error": message,
	})
}

func (ctx *AppContext) SetJSONStatus(status int, message string) {
	ctx.WriteJSON(status, map[string]string{
		"status": message,
	})
}
