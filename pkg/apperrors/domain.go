package apperrors

import "net/http"

// Factories and predefined errors for the club domain.

// ErrNotFound converts a repository miss (e.g. gorm.ErrRecordNotFound) into
// a 404 AppError.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// --- Predefined errors for frequent, static cases ---

var (
	ErrInvalidCredentials = New(CodeInvalidCredentials, "auth", "Invalid email or password", http.StatusUnauthorized)
	ErrInvalidToken       = New(CodeInvalidToken, "auth", "Invalid or expired token", http.StatusUnauthorized)
	ErrNotAuthenticated   = New(CodeUnauthorized, "auth", "Not authenticated", http.StatusUnauthorized)
	ErrUnauthorized       = New(CodeForbidden, "auth", "Unauthorized", http.StatusForbidden)
	ErrWeakPassword       = New(CodeValidationFailed, "auth", "Password must be at least 8 characters long", http.StatusBadRequest)
	ErrEmailAlreadyExists = New(CodeAlreadyExists, "auth", "Email is already registered", http.StatusConflict)

	// Role-request lifecycle
	ErrInvalidRequestedRole = New(CodeInvalidOperation, "roles", "Invalid role", http.StatusBadRequest)
	ErrPendingRequestExists = New(CodeConflict, "roles", "You already have a pending role request", http.StatusConflict)
	ErrRequestNotPending    = New(CodeInvalidStatus, "roles", "Role request has already been reviewed", http.StatusConflict)
)
