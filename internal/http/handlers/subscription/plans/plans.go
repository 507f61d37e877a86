// Package plans реализует HTTP-обработчик каталога тарифных планов.
//
// GET возвращает активные планы по возрастанию цены и доступен без
// авторизации; POST создает новый план и требует административной роли.
package plans

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/clueapp/subscription-api/internal/http/response"
	"github.com/clueapp/subscription-api/internal/lib/sl"
	"github.com/clueapp/subscription-api/internal/models"
	"github.com/clueapp/subscription-api/internal/storage/repository"
)

// Service описывает интерфейс каталога планов.
type Service interface {
	ListActive(ctx context.Context) ([]*models.Plan, error)
	Create(ctx context.Context, req models.CreatePlanRequest) (*models.Plan, error)
}

// Handler обрабатывает HTTP-запросы каталога планов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// List godoc
// @Summary Список активных планов
// @Description Возвращает все активные тарифные планы по возрастанию цены.
// @Tags Subscriptions
// @Produce  json
// @Success 200 {array} models.Plan "Список планов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscription/plans/ [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.plans.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	plans, err := h.service.ListActive(r.Context())
	if err != nil {
		log.Error("failed to list plans", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list plans"))
		return
	}
	if plans == nil {
		plans = []*models.Plan{}
	}
	render.JSON(w, r, plans)
}

// Create godoc
// @Summary Создать тарифный план
// @Description Создает новый тарифный план (административная операция). Новые планы активны.
// @Tags Subscriptions
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.CreatePlanRequest true "Данные нового плана"
// @Success 201 {object} models.Plan "Созданный план"
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации или дубликат названия"
// @Failure 403 {object} response.ErrorResponse "Требуется административная роль"
// @Router /subscription/plans/ [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.plans.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.CreatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("name", req.Name))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	plan, err := h.service.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, repository.ErrPlanExists) {
			log.Error("plan name is taken", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("plan with this name already exists"))
			return
		}
		log.Error("failed to create plan", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to create plan"))
		return
	}

	log.Info("plan created", slog.Int64("id", plan.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, plan)
}
