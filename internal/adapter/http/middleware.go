package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/leshley-eatery/silogan/internal/adapter/logger"
	"github.com/leshley-eatery/silogan/internal/domain"
	"github.com/leshley-eatery/silogan/internal/interfaces"
)

type contextKey string

const (
	actorKey     contextKey = "actor"
	requestIDKey contextKey = "request_id"
)

// ActorFromContext returns the authenticated actor, or an anonymous one
// when the request carried no valid token.
func ActorFromContext(ctx context.Context) domain.Actor {
	if actor, ok := ctx.Value(actorKey).(domain.Actor); ok {
		return actor
	}
	return domain.Actor{Role: domain.RoleAnonymous}
}

func requestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

func LoggingMiddleware(lgr logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := uuid.NewString()
			r = r.WithContext(context.WithValue(r.Context(), requestIDKey, requestID))

			lgr.Debug("http_request", fmt.Sprintf("%s %s", r.Method, r.URL.Path), requestID, map[string]interface{}{
				"method": r.Method,
				"path":   r.URL.Path,
			})

			next.ServeHTTP(w, r)

			duration := time.Since(start)
			lgr.Debug("http_response", "Request completed", requestID, map[string]interface{}{
				"duration_ms": duration.Milliseconds(),
			})
		})
	}
}

func RecoveryMiddleware(lgr logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					lgr.Error("panic_recovered", "Panic recovered", requestIDFromContext(r.Context()), nil, fmt.Errorf("%v", err))
					http.Error(w, "Internal server error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// AuthMiddleware resolves the Authorization header into an actor. A missing
// or invalid token leaves the request anonymous; individual operations
// enforce their own role requirements.
func AuthMiddleware(accounts interfaces.AccountService, lgr logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if token, ok := strings.CutPrefix(header, "Bearer "); ok {
				actor, err := accounts.Authenticate(r.Context(), token)
				if err == nil {
					r = r.WithContext(context.WithValue(r.Context(), actorKey, actor))
				} else {
					lgr.Debug("auth_rejected", "Token rejected", requestIDFromContext(r.Context()), map[string]interface{}{
						"reason": err.Error(),
					})
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
