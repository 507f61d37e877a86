// Package upgrade реализует HTTP-обработчик перехода на более дорогой план.
//
// При действующей подписке цена нового плана обязана строго превышать
// текущую; без действующей подписки апгрейд эквивалентен оформлению.
package upgrade

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/clueapp/subscription-api/internal/http/middlewarectx"
	"github.com/clueapp/subscription-api/internal/http/response"
	"github.com/clueapp/subscription-api/internal/lib/sl"
	"github.com/clueapp/subscription-api/internal/models"
	"github.com/clueapp/subscription-api/internal/storage/repository"
)

// Service описывает интерфейс перехода на другой план.
type Service interface {
	Upgrade(ctx context.Context, userUID string, newPlanID int64) (*models.Subscription, error)
}

// Handler обрабатывает HTTP-запросы апгрейда подписки.
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
// @Summary Апгрейд подписки
// @Description Переводит пользователя на более дорогой план: текущая запись деактивируется, создается новая.
// @Tags Subscriptions
// @Produce  json
// @Security BearerAuth
// @Param new_plan_id path int true "ID нового тарифного плана"
// @Success 201 {object} models.Subscription "Новая запись подписки"
// @Failure 400 {object} response.ErrorResponse "Цена нового плана не выше текущей"
// @Failure 404 {object} response.ErrorResponse "Новый план не найден"
// @Router /subscription/upgrade/{new_plan_id}/ [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.upgrade"

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

	newPlanID, err := strconv.ParseInt(chi.URLParam(r, "new_plan_id"), 10, 64)
	if err != nil {
		log.Error("invalid plan id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid plan id"))
		return
	}

	sub, err := h.service.Upgrade(r.Context(), uid, newPlanID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrPlanNotFound):
			log.Error("new plan not found", slog.Int64("plan_id", newPlanID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("New plan does not exist."))
		case errors.Is(err, repository.ErrPriceNotHigher):
			log.Error("new plan price is not higher", slog.Int64("plan_id", newPlanID))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("New plan must be higher than the current one."))
		default:
			log.Error("failed to upgrade", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to upgrade subscription"))
		}
		return
	}

	log.Info("subscription upgraded", slog.Int64("id", sub.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, sub)
}
