package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrNotPending indicates that a resolution was attempted on a transaction
// that has already been approved or rejected.
var ErrNotPending = errors.New("transaction is not pending")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller is not allowed to perform the action.
var ErrForbidden = errors.New("forbidden")

// ErrInternal indicates an unexpected failure in the underlying store.
// This is the only condition a caller should treat as retryable.
var ErrInternal = errors.New("internal error")
