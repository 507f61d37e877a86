// Package subscribe реализует HTTP-обработчик оформления подписки на план.
//
// План передаётся в пути запроса. Повторное оформление при действующей
// подписке отклоняется — сначала требуется отмена.
package subscribe

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

// Service описывает интерфейс оформления подписки.
type Service interface {
	Subscribe(ctx context.Context, userUID string, planID int64) (*models.Subscription, error)
}

// Handler обрабатывает HTTP-запросы оформления подписки.
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
// @Summary Оформить подписку
// @Description Подписывает текущего пользователя на выбранный план. При действующей подписке возвращает ошибку.
// @Tags Subscriptions
// @Produce  json
// @Security BearerAuth
// @Param plan_id path int true "ID тарифного плана"
// @Success 201 {object} models.Subscription "Созданная запись подписки"
// @Failure 400 {object} response.ErrorResponse "Подписка уже активна"
// @Failure 404 {object} response.ErrorResponse "План не найден"
// @Router /subscription/subscribe/{plan_id}/ [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.subscribe"

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

	planID, err := strconv.ParseInt(chi.URLParam(r, "plan_id"), 10, 64)
	if err != nil {
		log.Error("invalid plan id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid plan id"))
		return
	}

	sub, err := h.service.Subscribe(r.Context(), uid, planID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrPlanNotFound):
			log.Error("plan not found", slog.Int64("plan_id", planID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("Plan does not exist."))
		case errors.Is(err, repository.ErrActiveSubscriptionExists):
			log.Error("active subscription already exists", slog.String("uid", uid))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("You already have an active subscription. Please cancel it before subscribing to a new plan."))
		default:
			log.Error("failed to subscribe", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to subscribe"))
		}
		return
	}

	log.Info("subscription created", slog.Int64("id", sub.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, sub)
}
