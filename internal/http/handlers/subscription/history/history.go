// Package history реализует HTTP-обработчик чтения истории подписок
// текущего пользователя.
package history

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

// Service описывает интерфейс чтения истории подписок.
type Service interface {
	History(ctx context.Context, userUID string) ([]*models.Subscription, error)
}

// Handler обрабатывает HTTP-запросы чтения истории подписок.
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
// @Summary История подписок
// @Description Возвращает полную историю подписок пользователя, самые свежие — первыми.
// @Tags Subscriptions
// @Produce  json
// @Security BearerAuth
// @Success 200 {array} models.Subscription "История подписок"
// @Router /subscription/history/ [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.history"

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

	history, err := h.service.History(r.Context(), uid)
	if err != nil {
		log.Error("failed to get subscription history", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to get subscription history"))
		return
	}
	if history == nil {
		history = []*models.Subscription{}
	}
	render.JSON(w, r, history)
}
