// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON-ответов HTTP-обработчиков. Пакет упрощает возврат
// успешных ответов, ошибок и сообщений валидации в едином формате.
package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"
)

// Response описывает стандартную структуру JSON-ответа сервера.
// Поле Status — статус запроса ("OK" или "Error").
// Поле Error — текст ошибки (опционально, при неуспехе).
// Поле Data — данные ответа (опционально, при успехе).
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// ErrorResponse — структура ошибки для Swagger-документации.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

// CodedError — структура ошибки эндпоинтов аккаунта.
// Содержит машинный код, сообщение и, при ошибке валидации, имя поля.
type CodedError struct {
	Status  string `json:"status" example:"error"`
	Code    string `json:"code" example:"INVALID_EMAIL"`
	Message string `json:"message" example:"Enter a valid email address."`
	Field   string `json:"field,omitempty" example:"email"`
}

const (
	// StatusOK — значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError — значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// Коды ошибок эндпоинтов аккаунта.
const (
	CodeEmailRequired      = "EMAIL_REQUIRED"
	CodePasswordRequired   = "PASSWORD_REQUIRED"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeAccountInactive    = "ACCOUNT_INACTIVE"
	CodeEmailExists        = "EMAIL_EXISTS"
	CodeInvalidEmail       = "INVALID_EMAIL"
	CodeInvalidPassword    = "INVALID_PASSWORD"
	CodeInvalidPhone       = "INVALID_PHONE"
	CodeValidationError    = "VALIDATION_ERROR"
	CodeServerError        = "SERVER_ERROR"
)

// OKWithData возвращает успешный Response с переданными данными.
func OKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// ErrorCode возвращает CodedError без привязки к полю.
func ErrorCode(code, message string) CodedError {
	return CodedError{
		Status:  "error",
		Code:    code,
		Message: message,
	}
}

// ErrorCodeField возвращает CodedError для ошибки валидации конкретного поля.
func ErrorCodeField(code, field, message string) CodedError {
	return CodedError{
		Status:  "error",
		Code:    code,
		Message: message,
		Field:   field,
	}
}

// ValidationError формирует Response со статусом Error на основе ошибок валидации.
// Каждое нарушение превращается в человеко-читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) Response {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "gt", "gte":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is out of range", err.Field()))
		case "min", "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s has invalid length", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Response{
		Status: StatusError,
		Error:  strings.Join(errsMsgs, ", "),
	}
}

// AccountValidationError переводит первую ошибку валидации эндпоинтов аккаунта
// в CodedError с кодом по имени поля.
func AccountValidationError(errs validator.ValidationErrors) CodedError {
	codes := map[string]string{
		"Email":    CodeInvalidEmail,
		"Password": CodeInvalidPassword,
		"Phone":    CodeInvalidPhone,
	}
	for _, err := range errs {
		code, ok := codes[err.Field()]
		if !ok {
			code = CodeValidationError
		}
		field := strings.ToLower(err.Field())
		return ErrorCodeField(code, field, fmt.Sprintf("field %s is not valid", field))
	}
	return ErrorCode(CodeValidationError, "validation failed")
}
