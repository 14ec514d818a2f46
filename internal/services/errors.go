package services

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrSpeciesNotFound   = errors.New("species not found")
	ErrLotNotFound       = errors.New("lot not found")
	ErrDuplicateSpecies  = errors.New("species name or code already exists")
	ErrDuplicateLotCode  = errors.New("lot code already exists")
	ErrDuplicateUsername = errors.New("username already taken")
	ErrInvalidToken      = errors.New("invalid token")
	ErrExpiredToken      = errors.New("token expired")
	ErrWrongPassword     = errors.New("incorrect password")
	ErrAlreadyHarvested  = errors.New("lot already harvested")
)

// ValidationError carries a caller-facing message for a rejected input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func validationf(msg string) error {
	return &ValidationError{Msg: msg}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
