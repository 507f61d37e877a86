// Package active реализует HTTP-обработчик чтения действующей подписки
// текущего пользователя.
package active

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/clueapp/subscription-api/internal/http/middlewarectx"
	"github.com/clueapp/subscription-api/internal/http/response"
	"github.com/clueapp/subscription-api/internal/lib/sl"
	"github.com/clueapp/subscription-api/internal/models"
)

// Service описывает интерфейс чтения действующей подписки.
type Service interface {
	GetActive(ctx context.Context, userUID string) (*models.Subscription, error)
}

// Handler обрабатывает HTTP-запросы чтения действующей подписки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Действующая подписка
// @Description Возвращает действующую подписку пользователя или сообщение об её отсутствии.
// @Tags Subscriptions
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} models.Subscription "Действующая подписка"
// @Router /subscription/active/ [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.active"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || uid == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	sub, err := h.service.GetActive(r.Context(), uid)
	if err != nil {
		log.Error("failed to get active subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to get active subscription"))
		return
	}

	if sub == nil {
		render.JSON(w, r, map[string]string{
			"message": "No active subscription.",
		})
		return
	}
	render.JSON(w, r, sub)
}
