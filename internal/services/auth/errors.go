package auth

// Error описывает типизированный отказ кредентиал-стора.
// Code попадает в тело ответа как машинный код, Field — имя поля
// для ошибок валидации.
type Error struct {
	Code    string
	Field   string
	Message string
}

func (e *Error) Error() string { return e.Message }

// Типизированные отказы аутентификации и регистрации.
var (
	ErrEmailRequired      = &Error{Code: "EMAIL_REQUIRED", Field: "email", Message: "Email is required."}
	ErrPasswordRequired   = &Error{Code: "PASSWORD_REQUIRED", Field: "password", Message: "Password is required."}
	ErrUserNotFound       = &Error{Code: "USER_NOT_FOUND", Message: "No account found with this email/phone."}
	ErrInvalidCredentials = &Error{Code: "INVALID_CREDENTIALS", Message: "Incorrect password."}
	ErrAccountInactive    = &Error{Code: "ACCOUNT_INACTIVE", Message: "This account is inactive or unverified."}
	ErrEmailExists        = &Error{Code: "EMAIL_EXISTS", Field: "email", Message: "A user with this email already exists."}
	ErrPhoneExists        = &Error{Code: "INVALID_PHONE", Field: "phone", Message: "A user with this phone already exists."}
)
