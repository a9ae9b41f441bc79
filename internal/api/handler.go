// Package api exposes the chat service over HTTP: a conversational
// endpoint backed by the translation pipeline, a raw statement endpoint,
// schema discovery, and a voice one-time-code flow.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tablechat/tablechat/internal/auth"
	"github.com/tablechat/tablechat/internal/catalog"
	"github.com/tablechat/tablechat/internal/config"
	"github.com/tablechat/tablechat/internal/nl2sql"
	"github.com/tablechat/tablechat/internal/observability"
	"github.com/tablechat/tablechat/internal/translator"
	"github.com/tablechat/tablechat/internal/voice"
)

type ReadinessCheck func(ctx context.Context) error

// PipelineRunner is the translation pipeline the handlers execute SQL
// through.
type PipelineRunner interface {
	Run(ctx context.Context, sqlText string) (translator.Result, error)
}

type Dependencies struct {
	Logger            *slog.Logger
	Readiness         ReadinessCheck
	AuthMiddleware    func(http.Handler) http.Handler
	DependencyTimeout time.Duration
	Catalog           *catalog.Catalog
	Runner            PipelineRunner
	Translator        nl2sql.Translator
	Explainer         nl2sql.Explainer
	Voice             voice.Caller
	RateLimiter       *RateLimiter
	MaxRows           int
}

func NewHandler(cfg config.Config, deps Dependencies) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /v1/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "service": cfg.Service.Name})
	})

	mux.HandleFunc("GET /v1/ready", func(w http.ResponseWriter, r *http.Request) {
		if deps.Readiness == nil {
			writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
			return
		}
		timeout := deps.DependencyTimeout
		if timeout <= 0 {
			timeout = 2 * time.Second
		}
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()
		if err := deps.Readiness(ctx); err != nil {
			writeError(r.Context(), w, http.StatusServiceUnavailable, "NOT_READY", err.Error(), true, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
	})

	mux.Handle("GET /v1/metrics", promhttp.Handler())

	protected := http.NewServeMux()
	protected.HandleFunc("POST /v1/chat", func(w http.ResponseWriter, r *http.Request) {
		handleChat(cfg, deps, w, r)
	})
	protected.HandleFunc("POST /v1/query", func(w http.ResponseWriter, r *http.Request) {
		handleQuery(deps, w, r)
	})
	protected.HandleFunc("GET /v1/schema", func(w http.ResponseWriter, r *http.Request) {
		handleSchema(deps, w, r)
	})
	protected.HandleFunc("POST /v1/otp/call", func(w http.ResponseWriter, r *http.Request) {
		handleOTPCall(cfg, deps, w, r)
	})

	var protectedHandler http.Handler = protected
	if cfg.Auth.Required {
		if deps.AuthMiddleware == nil {
			if deps.Logger != nil {
				deps.Logger.Error("auth required but auth middleware missing")
			}
			protectedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeError(r.Context(), w, http.StatusInternalServerError, "AUTH_MIDDLEWARE_MISSING", "auth middleware is required by configuration", false, nil)
			})
		} else {
			protectedHandler = deps.AuthMiddleware(chain(protected, auth.RequireRole(auth.RoleChatUser)))
		}
	}
	if deps.RateLimiter != nil {
		protectedHandler = deps.RateLimiter.Middleware(protectedHandler)
	}
	mux.Handle("POST /v1/chat", protectedHandler)
	mux.Handle("POST /v1/query", protectedHandler)
	mux.Handle("GET /v1/schema", protectedHandler)
	mux.Handle("POST /v1/otp/call", protectedHandler)

	middlewares := []func(http.Handler) http.Handler{
		observability.TraceMiddleware,
		observability.MetricsMiddleware,
		SecurityHeaders,
	}
	if deps.Logger != nil {
		middlewares = append(middlewares, observability.LoggingMiddleware(deps.Logger))
	}
	return chain(mux, middlewares...)
}

func CheckStoreConfig(cfg config.Config) ReadinessCheck {
	return func(_ context.Context) error {
		switch cfg.Store.Backend {
		case "mongo":
			if cfg.Store.Mongo.URI == "" {
				return errors.New("mongo uri is not configured")
			}
		case "postgres":
			if cfg.Store.Postgres.DSN == "" {
				return errors.New("postgres dsn is not configured")
			}
		}
		return nil
	}
}

func CombineReadinessChecks(checks ...ReadinessCheck) ReadinessCheck {
	filtered := make([]ReadinessCheck, 0, len(checks))
	for _, check := range checks {
		if check != nil {
			filtered = append(filtered, check)
		}
	}
	return func(ctx context.Context) error {
		for _, check := range filtered {
			if err := check(ctx); err != nil {
				return err
			}
		}
		return nil
	}
}

func chain(base http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	wrapped := base
	for i := len(middlewares) - 1; i >= 0; i-- {
		wrapped = middlewares[i](wrapped)
	}
	return wrapped
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(ctx context.Context, w http.ResponseWriter, status int, code, message string, retryable bool, extra map[string]any) {
	writeJSON(w, status, map[string]any{
		"error_code": code,
		"message":    message,
		"retryable":  retryable,
		"context":    extra,
		"trace_id":   observability.TraceIDFromContext(ctx),
	})
}
