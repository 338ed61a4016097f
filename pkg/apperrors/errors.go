package apperrors

import "errors"

var (
	ErrInvalidInput             = errors.New("invalid input")
	ErrInvalidCategory          = errors.New("invalid category")
	ErrForbidden                = errors.New("forbidden")
	ErrNotFound                 = errors.New("not found")
	ErrConflict                 = errors.New("conflict")
	ErrNoProfessionalsAvailable = errors.New("no professionals available")
	ErrStoreUnavailable         = errors.New("store unavailable")
)
