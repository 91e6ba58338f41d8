package apierrors

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// ValidationError представляет ошибку валидации входных данных.
// Используется для разделения ошибок валидации (HTTP 400) от серверных ошибок (HTTP 500).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError formats its arguments using format and returns a *ValidationError whose Message field is set to the formatted string.
func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{
		Message: fmt.Sprintf(format, args...),
	}
}

// NotFoundError представляет ошибку "ресурс не найден".
// Используется для возврата HTTP 404 Not Found.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// NewNotFoundError creates a NotFoundError whose Message is the result of formatting the given format string with the provided args.
func NewNotFoundError(format string, args ...interface{}) error {
	return &NotFoundError{
		Message: fmt.Sprintf(format, args...),
	}
}
// InvalidTransitionError - запрошенный переход статуса не разрешен таблицей переходов.
// Отображается в HTTP 409 Conflict.
type InvalidTransitionError struct {
	Current   string
	Requested string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("переход %s -> %s не разрешен", e.Current, e.Requested)
}

// NewInvalidTransitionError создает InvalidTransitionError для пары статусов
func NewInvalidTransitionError(current, requested string) error {
	return &InvalidTransitionError{Current: current, Requested: requested}
}

// ForbiddenError - у пользователя нет прав на операцию (HTTP 403)
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

func NewForbiddenError(format string, args ...interface{}) error {
	return &ForbiddenError{
		Message: fmt.Sprintf(format, args...),
	}
}

// IsUniqueViolation - ошибка PostgreSQL 23505 (нарушение уникальности)
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// IsForeignKeyViolation - ошибка PostgreSQL 23503 (ссылка на несуществующую запись)
func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}
