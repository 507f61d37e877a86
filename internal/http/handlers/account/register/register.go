// Package register реализует HTTP-обработчик регистрации пользователей.
//
// Обработчик принимает JSON с email, именем, телефоном и паролем, валидирует
// поля и делегирует создание учётной записи кредентиал-стору. Ошибки с кодом
// (дубликат email и пр.) переводятся в 400; любая неклассифицированная
// ошибка на этом эндпоинте переводится в 500 с текстом ошибки в ответе.
package register

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
	"github.com/clueapp/subscription-api/internal/services/auth"
)

// Request — входные данные для регистрации.
type Request struct {
	Email    string  `json:"email" validate:"required,email"`
	FullName string  `json:"full_name" validate:"required,max=50"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,min=5,max=50"`
	Password string  `json:"password" validate:"required,min=6"`
}

// Service описывает интерфейс кредентиал-стора для регистрации.
type Service interface {
	Register(ctx context.Context, email, fullName string, phone *string, rawPassword string) (*models.User, error)
}

// Handler обрабатывает HTTP-запросы регистрации.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Регистрация пользователя
// @Description Создает новую учётную запись. Возвращает данные пользователя.
// @Tags Account
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные новой учётной записи"
// @Success 201 {object} map[string]any "Учётная запись создана"
// @Failure 400 {object} response.CodedError "Ошибка валидации или дубликат"
// @Failure 500 {object} response.CodedError "Внутренняя ошибка сервера"
// @Router /account/register/ [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ErrorCode(response.CodeValidationError, "invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("email", req.Email))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.AccountValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	user, err := h.service.Register(r.Context(), req.Email, req.FullName, req.Phone, req.Password)
	if err != nil {
		var authErr *auth.Error
		if errors.As(err, &authErr) {
			log.Error("registration rejected", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.ErrorCodeField(authErr.Code, authErr.Field, authErr.Message))
			return
		}
		// Любая неклассифицированная ошибка регистрации отдается как 500
		// с текстом ошибки в теле ответа.
		log.Error("registration failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.ErrorCode(response.CodeServerError, err.Error()))
		return
	}

	log.Info("user registered", slog.String("uid", user.UID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, map[string]any{
		"status":  "success",
		"message": "Account Created successfully.",
		"user":    user,
	})
}
