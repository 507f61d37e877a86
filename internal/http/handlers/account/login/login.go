// Package login реализует HTTP-обработчик аутентификации пользователей.
//
// Идентификатором служит email или телефон. При успешной аутентификации
// возвращается JSON с данными пользователя, access и refresh токенами;
// все отказы типизированы машинными кодами и возвращаются с HTTP 400.
package login

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/clueapp/subscription-api/internal/http/response"
	"github.com/clueapp/subscription-api/internal/lib/sl"
	"github.com/clueapp/subscription-api/internal/models"
	"github.com/clueapp/subscription-api/internal/services/auth"
)

// Request — структура входных данных для авторизации.
// В поле email допускается и телефон.
type Request struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Service описывает интерфейс бизнес-логики аутентификации.
type Service interface {
	Login(ctx context.Context, identifier, rawPassword string) (*models.User, *auth.TokenPair, error)
}

// Handler обрабатывает HTTP-запросы авторизации.
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
// @Summary Авторизация пользователя
// @Description Аутентифицирует пользователя по email/телефону и паролю. Возвращает access и refresh токены.
// @Tags Account
// @Accept  json
// @Produce  json
// @Param request body Request true "Учетные данные пользователя"
// @Success 200 {object} map[string]any "Успешная авторизация"
// @Failure 400 {object} response.CodedError "Типизированный отказ аутентификации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /account/login/ [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.login"

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

	user, tokens, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		var authErr *auth.Error
		if errors.As(err, &authErr) {
			log.Error("login rejected", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.ErrorCodeField(authErr.Code, authErr.Field, authErr.Message))
			return
		}
		log.Error("login failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}

	log.Info("login success", slog.String("uid", user.UID))
	render.JSON(w, r, map[string]any{
		"status":  "success",
		"message": "Login successful",
		"user":    user,
		"access":  tokens.Access,
		"refresh": tokens.Refresh,
	})
}
