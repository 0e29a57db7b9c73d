package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// JWT и токены
	ErrInvalidSigningMethod = errors.New("неверный метод подписи токена")
	ErrInvalidToken         = errors.New("недопустимый токен")
	ErrTokenExpired         = errors.New("срок действия токена истёк")
	ErrTokenNotYetValid     = errors.New("токен ещё не активен")
	ErrTokenIsNotAccess     = errors.New("токен не является access-токеном")

	// Авторизация
	ErrEmptyAuthHeader    = errors.New("заголовок авторизации отсутствует")
	ErrInvalidAuthHeader  = errors.New("неверный формат заголовка авторизации")
	ErrInvalidCredentials = errors.New("неверные учётные данные")
	ErrUnauthorized       = errors.New("неавторизован")
	ErrPermissionDenied   = errors.New("доступ запрещён")
	ErrAccountInactive    = errors.New("учётная запись отключена")

	// Контекст
	ErrUserIDNotFoundInContext = errors.New("UserID не найден в контексте запроса")

	// Данные
	ErrNotFound           = errors.New("запись не найдена")
	ErrIntegrityViolation = errors.New("нарушение целостности данных")
	ErrCycleDetected      = errors.New("обнаружен цикл в иерархии")
	ErrBadRequest         = errors.New("неверный запрос")
	ErrInternalServer     = errors.New("внутренняя ошибка сервера")
)

// HttpError несёт код ответа, сообщение для пользователя и исходную ошибку для логов.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]interface{}
	Details interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, ctx map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Context: ctx}
}

func NewBadRequestError(message string) *HttpError {
	return &HttpError{Code: http.StatusBadRequest, Message: message, Err: ErrBadRequest}
}

// IntegrityError уточняет нарушение ограничения БД, сохраняя совместимость с errors.Is(err, ErrIntegrityViolation).
type IntegrityError struct {
	Constraint string
	Reason     string
}

func (e *IntegrityError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("%s: %s (%s)", ErrIntegrityViolation.Error(), e.Reason, e.Constraint)
	}
	return fmt.Sprintf("%s: %s", ErrIntegrityViolation.Error(), e.Reason)
}

func (e *IntegrityError) Unwrap() error { return ErrIntegrityViolation }

func NewIntegrityError(constraint, reason string) error {
	return &IntegrityError{Constraint: constraint, Reason: reason}
}
