package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/clueapp/subscription-api/internal/http/response"
)

// RequireAdmin пропускает запрос дальше только при роли "admin" в контексте.
// Используется для административных операций, например создания планов.
func RequireAdmin(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := r.Context().Value(Role).(string)
			if !ok || role != "admin" {
				log.Error("admin permission required", slog.String("role", role))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("admin permission required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
