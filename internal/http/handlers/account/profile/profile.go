// Package profile реализует HTTP-обработчик чтения и частичного обновления
// профиля текущего пользователя.
//
// GET возвращает профиль, PUT принимает частичные поля (full_name, phone)
// и возвращает обновлённый профиль с HTTP 202. Email через этот эндпоинт
// не меняется.
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/clueapp/subscription-api/internal/http/middlewarectx"
	"github.com/clueapp/subscription-api/internal/http/response"
	"github.com/clueapp/subscription-api/internal/lib/sl"
	"github.com/clueapp/subscription-api/internal/models"
	"github.com/clueapp/subscription-api/internal/services/auth"
)

// Service описывает интерфейс кредентиал-стора для работы с профилем.
type Service interface {
	Profile(ctx context.Context, uid string) (*models.User, error)
	UpdateProfile(ctx context.Context, uid string, req models.UpdateUserRequest) (*models.User, error)
}

// Handler обрабатывает HTTP-запросы чтения и обновления профиля.
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

// ServeHTTP godoc
// @Summary Профиль текущего пользователя
// @Description GET возвращает профиль, PUT частично обновляет full_name и phone.
// @Tags Account
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.UpdateUserRequest false "Частичные поля профиля (PUT)"
// @Success 200 {object} models.User "Профиль"
// @Success 202 {object} models.User "Обновлённый профиль"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Router /account/ [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.profile"

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

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, log, uid)
	case http.MethodPut:
		h.update(w, r, log, uid)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		render.JSON(w, r, response.Error("method not allowed"))
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request, log *slog.Logger, uid string) {
	user, err := h.service.Profile(r.Context(), uid)
	if err != nil {
		log.Error("failed to get profile", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to get profile"))
		return
	}
	render.JSON(w, r, user)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, log *slog.Logger, uid string) {
	var req models.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), uid, req)
	if err != nil {
		var authErr *auth.Error
		if errors.As(err, &authErr) {
			log.Error("profile update rejected", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.ErrorCodeField(authErr.Code, authErr.Field, authErr.Message))
			return
		}
		log.Error("failed to update profile", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to update profile"))
		return
	}

	log.Info("profile updated", slog.String("uid", uid))
	w.WriteHeader(http.StatusAccepted)
	render.JSON(w, r, user)
}
