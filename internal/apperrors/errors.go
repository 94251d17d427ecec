package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the operation could not complete because of conflicting state,
// e.g. an identifier collision that survived the bounded retries.
var ErrConflict = errors.New("conflicting resource state")

// ErrInternal indicates an unexpected fault, typically the record store being unreachable.
var ErrInternal = errors.New("internal error")
