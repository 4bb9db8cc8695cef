package apperrors

import (
	"net/http"
)

/*
Этот файл содержит фабрики и предопределенные переменные
для ошибок бизнес-логики домена экспертизы картин.
*/

// ErrNotFound - фабрика для ошибки "не найдено" (404).
// Используется, когда ошибка репозитория (типа gorm.ErrRecordNotFound)
// должна быть преобразована в AppError.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists - фабрика для ошибки "уже существует" (409)
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict - общая фабрика для конфликтов (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidStatus - операция не предусмотрена в текущем статусе заявки (409)
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusConflict)
}

// ErrInvalidOperation - фабрика для невалидных операций (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// --- Auth & Users ---

// ErrInvalidCredentials - неверный email или пароль
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

// ErrInvalidToken - неверный или просроченный токен (access, refresh)
var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

// ErrEmailAlreadyExists - email уже используется
var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already in use",
	http.StatusConflict,
)

// ErrWeakPassword - пароль слишком слабый
var ErrWeakPassword = New(
	CodeValidationFailed,
	"validation",
	"Password is too weak. Minimum 6 characters required.",
	http.StatusBadRequest,
)

// ErrInsufficientPermissions - не-менеджер пытается выполнить действие менеджера
var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

// --- Expertise lifecycle ---

// ErrExpertiseNotDraft - операция допустима только над черновиком заявки
var ErrExpertiseNotDraft = New(
	CodeInvalidStatus,
	"expertise",
	"Operation is allowed only for draft expertise requests",
	http.StatusConflict,
)

// ErrExpertiseFinalized - после вердикта состав заявки менять нельзя
var ErrExpertiseFinalized = New(
	CodeInvalidStatus,
	"expertise",
	"Operation is not allowed for finalized expertise requests",
	http.StatusConflict,
)

// ErrExpertiseNotSubmitted - разрешить заявку можно только после формирования
var ErrExpertiseNotSubmitted = New(
	CodeInvalidStatus,
	"expertise",
	"Only submitted expertise requests can be resolved",
	http.StatusConflict,
)

// ErrExpertiseEmpty - в заявке нет ни одной картины
var ErrExpertiseEmpty = New(
	CodeValidationFailed,
	"expertise",
	"Expertise request must contain at least one painting",
	http.StatusBadRequest,
)

// ErrExpertiseAuthorRequired - не заполнено поле автора работ
var ErrExpertiseAuthorRequired = New(
	CodeValidationFailed,
	"expertise",
	"Author field is required to submit an expertise request",
	http.StatusBadRequest,
)

// ErrInvalidOutcome - менеджер передал неизвестный вердикт
var ErrInvalidOutcome = New(
	CodeValidationFailed,
	"expertise",
	"Outcome must be either 'approved' or 'rejected'",
	http.StatusBadRequest,
)

// --- Catalog ---

// ErrPaintingInUse - картина участвует в активных заявках, удалять нельзя
var ErrPaintingInUse = New(
	CodeConflict,
	"catalog",
	"Painting is referenced by expertise requests and cannot be deleted",
	http.StatusConflict,
)
